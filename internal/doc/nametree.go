package doc

import (
	"sort"

	"github.com/coregx/pdfcore/internal/object"
)

// NameTreeEntry is one flattened (key, value) pair out of a name tree,
// where key is the tree's lexical sort key (a PDF byte string) and value
// is whatever object that key maps to (a destination array, a file spec
// dictionary, and so on, depending on which category of name tree this is).
type NameTreeEntry struct {
	Key   string
	Value object.Object
}

// NameTree wraps one name-tree root or intermediate node.
type NameTree struct {
	Dict *object.Dictionary
	doc  *Document
}

// NewNameTree wraps an arbitrary name-tree-shaped dictionary (/Names
// leaf or /Kids intermediate node) for flattening or merging. Exported
// for callers outside this package working with a name-tree-shaped
// structure this package has no dedicated accessor for, such as a
// structure tree's /IDTree.
func NewNameTree(d *Document, dict *object.Dictionary) *NameTree {
	return &NameTree{Dict: dict, doc: d}
}

// Dests returns the document's legacy top-level /Dests name tree, if set.
func (d *Document) Dests() (*NameTree, bool) {
	cat := d.Catalog()
	if cat == nil {
		return nil, false
	}
	dict, ok := cat.GetDictionary("Dests")
	if !ok {
		return nil, false
	}
	return &NameTree{Dict: dict, doc: d}, true
}

// NamesCategory returns the named subtree under the catalog's /Names
// dictionary (e.g. "Dests", "EmbeddedFiles", "JavaScript"), if set.
func (d *Document) NamesCategory(category object.Name) (*NameTree, bool) {
	cat := d.Catalog()
	if cat == nil {
		return nil, false
	}
	names, ok := cat.GetDictionary("Names")
	if !ok {
		return nil, false
	}
	dict, ok := names.GetDictionary(category)
	if !ok {
		return nil, false
	}
	return &NameTree{Dict: dict, doc: d}, true
}

// Entries walks the tree (leaf /Names arrays and intermediate /Kids)
// and flattens it into an ordered entry list. Entries are returned in
// tree traversal order, not necessarily sorted, since a malformed source
// tree's /Names arrays are not guaranteed pre-sorted.
func (t *NameTree) Entries() []NameTreeEntry {
	var out []NameTreeEntry
	t.walk(t.Dict, &out)
	return out
}

func (t *NameTree) walk(node *object.Dictionary, out *[]NameTreeEntry) {
	if node == nil {
		return
	}
	if names, ok := node.GetArray("Names"); ok {
		for i := 0; i+1 < names.Len(); i += 2 {
			key, ok := names.Get(i).(object.String)
			if !ok {
				continue
			}
			*out = append(*out, NameTreeEntry{Key: string(key), Value: names.Get(i + 1)})
		}
	}
	if kids, ok := node.GetArray("Kids"); ok {
		for i := 0; i < kids.Len(); i++ {
			if kid, ok := t.doc.resolveDict(kids.Get(i)); ok {
				t.walk(kid, out)
			}
		}
	}
}

// BuildNameTree constructs a single flat leaf node holding entries sorted
// by key, with /Limits set to the first and last key. A flat leaf is
// always a structurally valid name tree regardless of entry count;
// the multi-level /Kids form exists in the format purely as an
// indexing optimization for very large trees, which this package's
// merge/split workloads never produce.
func BuildNameTree(entries []NameTreeEntry) *object.Dictionary {
	sorted := make([]NameTreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	names := object.NewArray()
	for _, e := range sorted {
		names.Append(object.String(e.Key), e.Value)
	}

	dict := object.NewDictionary()
	dict.Set("Names", names)
	if len(sorted) > 0 {
		dict.Set("Limits", object.NewArray(
			object.String(sorted[0].Key),
			object.String(sorted[len(sorted)-1].Key),
		))
	}
	return dict
}

// MergeNameTrees flattens dst and src, keeping dst's value on key
// collision (dst wins, matching the composer's general merge precedence),
// and rebuilds a single sorted leaf node from the union.
func MergeNameTrees(dst, src *NameTree) *object.Dictionary {
	merged := map[string]object.Object{}
	if src != nil {
		for _, e := range src.Entries() {
			merged[e.Key] = e.Value
		}
	}
	if dst != nil {
		for _, e := range dst.Entries() {
			merged[e.Key] = e.Value
		}
	}
	entries := make([]NameTreeEntry, 0, len(merged))
	for k, v := range merged {
		entries = append(entries, NameTreeEntry{Key: k, Value: v})
	}
	return BuildNameTree(entries)
}
