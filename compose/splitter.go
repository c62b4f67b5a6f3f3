package compose

import (
	"fmt"
	"sort"

	"github.com/coregx/pdfcore/internal/clone"
	"github.com/coregx/pdfcore/internal/doc"
	"github.com/coregx/pdfcore/internal/object"
)

// Splitter partitions a source document's pages into independent
// destination documents.
type Splitter struct {
	source *doc.Document
}

// NewSplitter creates a Splitter over source.
func NewSplitter(source *doc.Document) *Splitter {
	return &Splitter{source: source}
}

// Split partitions the source's pages into chunks of pagesPerOutput
// pages each (the last chunk takes whatever remains), producing one
// destination document per chunk in source page order. pagesPerOutput
// <= 0 defaults to 1, spec.md's default policy.
func (s *Splitter) Split(pagesPerOutput int) ([]*doc.Document, error) {
	if pagesPerOutput <= 0 {
		pagesPerOutput = 1
	}
	pages := s.source.Pages()
	if len(pages) == 0 {
		return nil, fmt.Errorf("compose: source document has no pages")
	}

	var ranges [][2]int
	for start := 0; start < len(pages); start += pagesPerOutput {
		end := start + pagesPerOutput - 1
		if end >= len(pages) {
			end = len(pages) - 1
		}
		ranges = append(ranges, [2]int{start, end})
	}

	parentEntries := s.flattenParentTree()

	outputs := make([]*doc.Document, 0, len(ranges))
	for _, r := range ranges {
		out, err := s.splitOne(pages, r[0], r[1], parentEntries)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// splitOne builds one destination document containing source pages
// [first, last] (0-based, inclusive).
func (s *Splitter) splitOne(pages []*doc.Page, first, last int, parentEntries []parentTreeEntry) (*doc.Document, error) {
	dst := doc.NewDocument()
	cloner := clone.NewCloner(dst.Table)

	keep := map[*object.Dictionary]bool{}
	clonedRefs := map[*object.Dictionary]*object.IndirectReference{}
	var dstPages []*doc.Page

	for i := first; i <= last; i++ {
		keep[pages[i].Dict] = true
	}
	for i := first; i <= last; i++ {
		clonedDict, ok := cloner.Clone(pages[i].Dict, s.source.Table).(*object.Dictionary)
		if !ok {
			return nil, fmt.Errorf("compose: cloned page did not produce a dictionary")
		}
		ref := dst.Table.Put(0, 0, clonedDict)
		page, err := dst.AppendPage(clonedDict)
		if err != nil {
			return nil, fmt.Errorf("compose: failed to append page: %w", err)
		}
		clonedRefs[pages[i].Dict] = ref
		dstPages = append(dstPages, page)
	}

	for i := first; i <= last; i++ {
		s.rewriteAnnotationDestinations(pages[i], dstPages[i-first], keep, clonedRefs)
	}

	if err := s.splitStructureTree(cloner, keep, dstPages, parentEntries, dst); err != nil {
		return nil, err
	}

	return dst, nil
}

// rewriteAnnotationDestinations clears or repoints srcPage's annotations'
// explicit destinations (direct /Dest, or a /GoTo action's /D) on the
// already-cloned dstPage: a destination whose target page lies inside
// keep is repointed at that page's clone, otherwise cleared to null.
func (s *Splitter) rewriteAnnotationDestinations(srcPage, dstPage *doc.Page, keep map[*object.Dictionary]bool, clonedRefs map[*object.Dictionary]*object.IndirectReference) {
	srcAnnots := srcPage.Annotations()
	dstAnnots := dstPage.Annotations()
	for i := range srcAnnots {
		if i >= len(dstAnnots) {
			break
		}
		rewriteDestTarget(srcAnnots[i], dstAnnots[i], "Dest", s.source.Table, keep, clonedRefs)

		srcAction, srcHasAction := srcAnnots[i].GetDictionary("A")
		dstAction, dstHasAction := dstAnnots[i].GetDictionary("A")
		if srcHasAction && dstHasAction {
			if subtype, ok := srcAction.GetName("S"); ok && subtype == "GoTo" {
				rewriteDestTarget(srcAction, dstAction, "D", s.source.Table, keep, clonedRefs)
			}
		}
	}
}

// rewriteDestTarget inspects srcHolder's explicit destination array under
// key (its first element names the target page) and sets dstHolder's
// corresponding entry to either the target's clone, if kept, or null.
// Named destinations (a Name or String under key rather than an array)
// are left untouched: they resolve through a name tree, not a direct
// page reference, and are out of scope for this per-annotation rewrite.
func rewriteDestTarget(srcHolder, dstHolder *object.Dictionary, key object.Name, srcTable *object.Table, keep map[*object.Dictionary]bool, clonedRefs map[*object.Dictionary]*object.IndirectReference) {
	srcArr, ok := srcHolder.GetArray(key)
	if !ok || srcArr.Len() == 0 {
		return
	}
	targetPage, ok := srcTable.Deref(srcArr.Get(0)).(*object.Dictionary)
	if !ok {
		return
	}
	dstArr, ok := dstHolder.GetArray(key)
	if !ok {
		return
	}
	if ref, kept := clonedRefs[targetPage]; kept && keep[targetPage] {
		dstArr.Set(0, ref)
		return
	}
	dstHolder.Set(key, object.Null{})
}

// splitStructureTree rebuilds a structure tree over dst's already-cloned
// pages: prune the source tree to the kept page set, clone the surviving
// elements through cloner (so /Pg references inside resolve to the
// pages already cloned for this output), restrict the role map and ID
// tree to what the surviving elements actually reference, and rebuild
// the parent tree from the destination pages' structural-parent numbers.
func (s *Splitter) splitStructureTree(cloner *clone.Cloner, keep map[*object.Dictionary]bool, dstPages []*doc.Page, parentEntries []parentTreeEntry, dst *doc.Document) error {
	srcTree := s.source.StructTree()
	if srcTree == nil {
		return nil
	}
	pruned := srcTree.Prune(keep)
	if pruned == nil {
		return nil
	}

	types := map[object.Name]bool{}
	ids := map[string]bool{}
	collectStructureInfo(s.source.Table, pruned, types, ids)

	dstTree := dst.EnsureStructTree()
	clonedKids := object.NewArray()
	for i := 0; i < pruned.Len(); i++ {
		cloned, ok := cloner.Clone(pruned.Get(i), s.source.Table).(*object.Dictionary)
		if !ok {
			continue
		}
		clonedKids.Append(dst.Table.Put(0, 0, cloned))
	}
	dstTree.Dict.Set("K", clonedKids)

	if rm := srcTree.RoleMap(); rm != nil {
		restricted := object.NewDictionary()
		for _, k := range rm.Keys() {
			if types[k] {
				restricted.Set(k, rm.Get(k))
			}
		}
		if restricted.Len() > 0 {
			dstTree.Dict.Set("RoleMap", restricted)
		}
	}

	if idDict, ok := srcTree.Dict.GetDictionary("IDTree"); ok {
		srcIDTree := doc.NewNameTree(s.source, idDict)
		var kept []doc.NameTreeEntry
		for _, e := range srcIDTree.Entries() {
			if !ids[e.Key] {
				continue
			}
			kept = append(kept, doc.NameTreeEntry{Key: e.Key, Value: cloner.Clone(e.Value, s.source.Table)})
		}
		if len(kept) > 0 {
			dstTree.Dict.Set("IDTree", doc.BuildNameTree(kept))
		}
	}

	keptKeys := map[int]bool{}
	for _, p := range dstPages {
		if n, ok := p.StructParents(); ok {
			keptKeys[n] = true
		}
	}
	var destEntries []parentTreeEntry
	for _, e := range parentEntries {
		if !keptKeys[e.Key] {
			continue
		}
		destEntries = append(destEntries, parentTreeEntry{Key: e.Key, Value: cloner.Clone(e.Value, s.source.Table)})
	}
	if len(destEntries) > 0 {
		parentDict, nextKey := buildParentTree(destEntries)
		ref := dst.Table.Put(0, 0, parentDict)
		dstTree.Dict.Set("ParentTree", ref)
		dstTree.Dict.SetInteger("ParentTreeNextKey", int64(nextKey))
	}

	return nil
}

// collectStructureInfo walks a pruned, not-yet-cloned structure subtree
// (still addressed through table, the source's own object table) and
// gathers every /S type name and /ID string it references, directly or
// through a descendant.
func collectStructureInfo(table *object.Table, arr *object.Array, types map[object.Name]bool, ids map[string]bool) {
	if arr == nil {
		return
	}
	for i := 0; i < arr.Len(); i++ {
		dict, ok := table.Deref(arr.Get(i)).(*object.Dictionary)
		if !ok {
			continue
		}
		if typ, ok := dict.GetName("S"); ok {
			types[typ] = true
		}
		if id, ok := dict.GetString("ID"); ok {
			ids[string(id)] = true
		}
		if kids, ok := dict.GetArray("K"); ok {
			collectStructureInfo(table, kids, types, ids)
		}
	}
}

// parentTreeEntry is one flattened (structural-parent number, element
// value) pair out of a /ParentTree number tree. The element value is
// whichever shape the structure tree stored: a direct reference to one
// struct element, or an array of them for a shared marked-content
// sequence.
type parentTreeEntry struct {
	Key   int
	Value object.Object
}

// flattenParentTree walks the source structure tree's /ParentTree, if
// any, into an ordered entry list.
func (s *Splitter) flattenParentTree() []parentTreeEntry {
	srcTree := s.source.StructTree()
	if srcTree == nil {
		return nil
	}
	ptRef, ok := srcTree.Dict.GetReference("ParentTree")
	var ptDict *object.Dictionary
	if ok {
		ptDict, ok = s.source.Table.Deref(ptRef).(*object.Dictionary)
	} else {
		ptDict, ok = srcTree.Dict.GetDictionary("ParentTree")
	}
	if !ok {
		return nil
	}
	var out []parentTreeEntry
	walkParentTree(s.source.Table, ptDict, &out)
	return out
}

func walkParentTree(table *object.Table, node *object.Dictionary, out *[]parentTreeEntry) {
	if node == nil {
		return
	}
	if nums, ok := node.GetArray("Nums"); ok {
		for i := 0; i+1 < nums.Len(); i += 2 {
			idx, ok := nums.Get(i).(object.Integer)
			if !ok {
				continue
			}
			*out = append(*out, parentTreeEntry{Key: int(idx), Value: nums.Get(i + 1)})
		}
	}
	if kids, ok := node.GetArray("Kids"); ok {
		for i := 0; i < kids.Len(); i++ {
			if kid, ok := table.Deref(kids.Get(i)).(*object.Dictionary); ok {
				walkParentTree(table, kid, out)
			}
		}
	}
}

// buildParentTree constructs a single flat /ParentTree leaf node from
// entries sorted by key, and returns the /ParentTreeNextKey value (one
// past the maximum key) spec.md's persisted-state invariant requires.
func buildParentTree(entries []parentTreeEntry) (*object.Dictionary, int) {
	sorted := make([]parentTreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	nums := object.NewArray()
	maxKey := -1
	for _, e := range sorted {
		nums.Append(object.Integer(e.Key), e.Value)
		if e.Key > maxKey {
			maxKey = e.Key
		}
	}
	dict := object.NewDictionary()
	dict.Set("Nums", nums)
	return dict, maxKey + 1
}
