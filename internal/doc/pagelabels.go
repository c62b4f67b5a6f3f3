package doc

import (
	"sort"

	"github.com/coregx/pdfcore/internal/object"
)

// PageLabelEntry is one flattened (starting page index, label range)
// pair out of a /PageLabels number tree.
type PageLabelEntry struct {
	StartIndex int
	Range      *object.Dictionary
}

// PageLabels wraps a document's /PageLabels number tree root.
type PageLabels struct {
	Dict *object.Dictionary
	doc  *Document
}

// PageLabels returns the document's page-label tree, if set.
func (d *Document) PageLabels() (*PageLabels, bool) {
	cat := d.Catalog()
	if cat == nil {
		return nil, false
	}
	dict, ok := cat.GetDictionary("PageLabels")
	if !ok {
		return nil, false
	}
	return &PageLabels{Dict: dict, doc: d}, true
}

// Entries walks the number tree (leaf /Nums arrays and intermediate
// /Kids), the same shape a name tree uses except keyed by integer rather
// than string.
func (p *PageLabels) Entries() []PageLabelEntry {
	var out []PageLabelEntry
	p.walk(p.Dict, &out)
	return out
}

func (p *PageLabels) walk(node *object.Dictionary, out *[]PageLabelEntry) {
	if node == nil {
		return
	}
	if nums, ok := node.GetArray("Nums"); ok {
		for i := 0; i+1 < nums.Len(); i += 2 {
			idx, ok := nums.Get(i).(object.Integer)
			if !ok {
				continue
			}
			rangeDict, ok := p.doc.resolveDict(nums.Get(i + 1))
			if !ok {
				continue
			}
			*out = append(*out, PageLabelEntry{StartIndex: int(idx), Range: rangeDict})
		}
	}
	if kids, ok := node.GetArray("Kids"); ok {
		for i := 0; i < kids.Len(); i++ {
			if kid, ok := p.doc.resolveDict(kids.Get(i)); ok {
				p.walk(kid, out)
			}
		}
	}
}

// BuildPageLabels constructs a single flat number-tree node from entries,
// sorted by starting index, writing each range dict indirectly so the
// /Nums array holds references rather than inline dictionaries.
func BuildPageLabels(doc *Document, entries []PageLabelEntry) *object.Dictionary {
	sorted := make([]PageLabelEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartIndex < sorted[j].StartIndex })

	nums := object.NewArray()
	for _, e := range sorted {
		ref := doc.Table.Put(0, 0, e.Range)
		nums.Append(object.Integer(e.StartIndex), ref)
	}

	dict := object.NewDictionary()
	dict.Set("Nums", nums)
	return dict
}

// MergePageLabels flattens src's entries offset by pageOffset (the
// destination's page count before the merge) and appends them after
// dst's own entries, rebuilding a single sorted number tree. A source
// range whose offset starting index collides with an existing
// destination entry is dropped in favor of the destination's (dst wins,
// matching this package's general merge precedence) since two
// overlapping label ranges over the same page index cannot both apply.
func MergePageLabels(doc *Document, dst *PageLabels, src *PageLabels, pageOffset int) *object.Dictionary {
	byIndex := map[int]*object.Dictionary{}
	order := []int{}

	if dst != nil {
		for _, e := range dst.Entries() {
			if _, exists := byIndex[e.StartIndex]; !exists {
				order = append(order, e.StartIndex)
			}
			byIndex[e.StartIndex] = e.Range
		}
	}
	if src != nil {
		for _, e := range src.Entries() {
			idx := e.StartIndex + pageOffset
			if _, exists := byIndex[idx]; exists {
				continue
			}
			byIndex[idx] = e.Range
			order = append(order, idx)
		}
	}

	entries := make([]PageLabelEntry, 0, len(order))
	for _, idx := range order {
		entries = append(entries, PageLabelEntry{StartIndex: idx, Range: byIndex[idx]})
	}
	return BuildPageLabels(doc, entries)
}
