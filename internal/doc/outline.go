package doc

import (
	"github.com/coregx/pdfcore/internal/object"
)

// Outline wraps a document's /Outlines root dictionary, the bookmark tree
// referenced from the catalog. Dict-backed generalization of the flat,
// level-numbered Bookmark list (title/page-index/nesting-level, no tree at
// all) into the doubly-linked /First-/Last-/Next-/Prev-/Parent item chain
// the format actually uses, since merging two documents' outlines means
// splicing one linked list onto the tail of another rather than
// renumbering a flat slice.
type Outline struct {
	Dict *object.Dictionary
	Ref  *object.IndirectReference
	doc  *Document
}

// OutlineItem wraps one outline item dictionary together with the
// reference it was reached by, so sibling-splicing can repoint /Next,
// /Prev and /Parent without allocating a new object number for an item
// that already has one.
type OutlineItem struct {
	Dict *object.Dictionary
	Ref  *object.IndirectReference
	doc  *Document
}

// Outlines returns the document's outline root, if the catalog has one.
func (d *Document) Outlines() (*Outline, bool) {
	cat := d.Catalog()
	if cat == nil {
		return nil, false
	}
	ref, ok := cat.GetReference("Outlines")
	if !ok {
		return nil, false
	}
	dict, ok := d.resolveDict(ref)
	if !ok {
		return nil, false
	}
	return &Outline{Dict: dict, Ref: ref, doc: d}, true
}

// EnsureOutlines returns the document's outline root, creating an empty
// one rooted in the catalog if none exists.
func (d *Document) EnsureOutlines() *Outline {
	if o, ok := d.Outlines(); ok {
		return o
	}
	dict := object.NewDictionary()
	dict.Set("Type", object.Name("Outlines"))
	dict.SetInteger("Count", 0)
	ref := d.Table.Put(0, 0, dict)
	d.Catalog().Set("Outlines", ref)
	return &Outline{Dict: dict, Ref: ref, doc: d}
}

// First returns the outline's first top-level item.
func (o *Outline) First() (*OutlineItem, bool) {
	return o.doc.resolveOutlineItem(o.Dict, "First")
}

// Last returns the outline's last top-level item.
func (o *Outline) Last() (*OutlineItem, bool) {
	return o.doc.resolveOutlineItem(o.Dict, "Last")
}

func (d *Document) resolveOutlineItem(dict *object.Dictionary, key object.Name) (*OutlineItem, bool) {
	ref, ok := dict.GetReference(key)
	if !ok {
		return nil, false
	}
	item, ok := d.resolveDict(ref)
	if !ok {
		return nil, false
	}
	return &OutlineItem{Dict: item, Ref: ref, doc: d}, true
}

// Next returns the item's next sibling.
func (it *OutlineItem) Next() (*OutlineItem, bool) {
	return it.doc.resolveOutlineItem(it.Dict, "Next")
}

// Children returns the item's own first-level children, walking
// /First → /Next.
func (it *OutlineItem) Children() []*OutlineItem {
	var out []*OutlineItem
	cur, ok := it.doc.resolveOutlineItem(it.Dict, "First")
	for ok {
		out = append(out, cur)
		cur, ok = cur.Next()
	}
	return out
}

// countOpenItems counts an item plus every descendant, used to keep the
// outline root's /Count in sync after a splice. This package does not
// model the open/closed (negative count) distinction a viewer's collapsed
// outline state would need; every appended item is counted as open.
func countOpenItems(it *OutlineItem) int {
	n := 1
	for _, c := range it.Children() {
		n += countOpenItems(c)
	}
	return n
}

// AppendSiblings splices items onto the outline as new top-level items
// following the current last child, updating /Next, /Prev, /Parent and
// the root's /Count. items must already live in this outline's document
// table (placed there by internal/clone before this call) and carry valid
// References of their own.
func (o *Outline) AppendSiblings(items []*OutlineItem) {
	last, hasLast := o.Last()
	added := 0

	for _, item := range items {
		item.Dict.Set("Parent", o.Ref)
		if hasLast {
			last.Dict.Set("Next", item.Ref)
			item.Dict.Set("Prev", last.Ref)
		} else {
			o.Dict.Set("First", item.Ref)
		}
		last = item
		hasLast = true
		added += countOpenItems(item)
	}

	if len(items) > 0 {
		o.Dict.Set("Last", last.Ref)
	}

	count, _ := o.Dict.GetInteger("Count")
	o.Dict.SetInteger("Count", int64(count)+int64(added))
}
