package doc

import (
	"fmt"

	"github.com/coregx/pdfcore/internal/object"
)

// StructureTree wraps a document's /StructTreeRoot: its top-level kids, the
// ID tree, the parent tree (page structural-parent index to structure
// elements) and the role map. Dict-backed, grounded on wudi-pdfkit's
// StructureTree/StructureElement field shape, adapted from that package's
// typed fields to this package's dictionary-backed representation.
type StructureTree struct {
	Dict *object.Dictionary
	Ref  *object.IndirectReference
	doc  *Document
}

// StructureElement wraps one /StructElem dictionary.
type StructureElement struct {
	Dict *object.Dictionary
	doc  *Document
}

// StructTree returns the document's structure tree, or nil if it has none.
func (d *Document) StructTree() *StructureTree {
	cat := d.Catalog()
	if cat == nil {
		return nil
	}
	ref, ok := cat.GetReference("StructTreeRoot")
	if !ok {
		return nil
	}
	dict, ok := d.resolveDict(ref)
	if !ok {
		return nil
	}
	return &StructureTree{Dict: dict, Ref: ref, doc: d}
}

// EnsureStructTree returns the document's structure tree, creating an
// empty one rooted in the catalog if none exists.
func (d *Document) EnsureStructTree() *StructureTree {
	if t := d.StructTree(); t != nil {
		return t
	}
	dict := object.NewDictionary()
	dict.Set("Type", object.Name("StructTreeRoot"))
	dict.Set("K", object.NewArray())
	ref := d.Table.Put(0, 0, dict)
	d.Catalog().Set("StructTreeRoot", ref)
	return &StructureTree{Dict: dict, Ref: ref, doc: d}
}

func (d *Document) resolveDict(obj object.Object) (*object.Dictionary, bool) {
	if ref, ok := obj.(*object.IndirectReference); ok {
		obj, ok = d.Table.Resolve(ref)
		if !ok {
			return nil, false
		}
	}
	dict, ok := obj.(*object.Dictionary)
	return dict, ok
}

// Kids returns the structure tree's top-level child elements (/K), skipping
// any marked-content-reference or plain-integer entries that may appear
// directly under the root.
func (t *StructureTree) Kids() []*StructureElement {
	k := t.Dict.Get("K")
	return t.elementsOf(k)
}

func (t *StructureTree) elementsOf(k object.Object) []*StructureElement {
	var out []*StructureElement
	switch v := k.(type) {
	case *object.Array:
		for i := 0; i < v.Len(); i++ {
			out = append(out, t.elementsOf(v.Get(i))...)
		}
	default:
		if dict, ok := t.doc.resolveDict(v); ok {
			if typ, ok := dict.GetName("Type"); !ok || typ == "StructElem" {
				out = append(out, &StructureElement{Dict: dict, doc: t.doc})
			}
		}
	}
	return out
}

// RoleMap returns the structure type → standard type mapping.
func (t *StructureTree) RoleMap() *object.Dictionary {
	dict, _ := t.Dict.GetDictionary("RoleMap")
	return dict
}

// Children returns a struct element's own /K children, in the same mixed
// shape as StructureTree.Kids (struct element dicts, marked content
// reference dicts, object reference dicts and bare MCIDs are all valid /K
// entries per the structure-element model; only dict-typed StructElem
// entries are surfaced here).
func (e *StructureElement) Children() []*StructureElement {
	t := &StructureTree{doc: e.doc}
	return t.elementsOf(e.Dict.Get("K"))
}

// Parent resolves the element's required /P entry.
func (e *StructureElement) Parent() (*StructureElement, bool) {
	ref, ok := e.Dict.GetReference("P")
	if !ok {
		return nil, false
	}
	dict, ok := e.doc.resolveDict(ref)
	if !ok {
		return nil, false
	}
	return &StructureElement{Dict: dict, doc: e.doc}, true
}

// PageRef returns the indirect reference of the page the element's content
// is rendered on (/Pg), if set directly on this element.
func (e *StructureElement) PageRef() (*object.IndirectReference, bool) {
	return e.Dict.GetReference("Pg")
}

// Validate checks the two invariants pdfcpu's structure-tree validator
// enforces before accepting a tree for further processing: every
// non-root-level element carries exactly one /P entry, and that entry
// resolves to an existing dictionary (its actual parent, or the tree root
// for top-level kids). A tree failing this check cannot be safely pruned
// or merged, since Split/Merge rebuild the tree by walking /P-less
// assumptions about reachability.
func (t *StructureTree) Validate() error {
	for _, kid := range t.Kids() {
		if err := t.validateElement(kid); err != nil {
			return err
		}
	}
	return nil
}

func (t *StructureTree) validateElement(e *StructureElement) error {
	if !e.Dict.Has("P") {
		return fmt.Errorf("doc: structure element missing required /P entry: %s", e.Dict.String())
	}
	if _, ok := e.Parent(); !ok {
		return fmt.Errorf("doc: structure element's /P does not resolve to an existing dictionary")
	}
	for _, child := range e.Children() {
		if err := t.validateElement(child); err != nil {
			return err
		}
	}
	return nil
}

// pageSet is the set of destination page dictionaries a pruned structure
// tree's elements must trace back to, identified by reference since
// *object.Dictionary has no comparable identity of its own once cloned.
type pageSet map[*object.Dictionary]bool

// Prune rebuilds a structure tree containing only elements whose /Pg lies
// in keep, or whose subtree contains such an element; elements with no
// page-bearing descendant are dropped entirely. Returns nil if nothing
// survives. Used by the splitter: each output document gets its own pruned
// copy of the source's structure tree, built over already-cloned
// dictionaries (see compose/splitter.go).
func (t *StructureTree) Prune(keep map[*object.Dictionary]bool) *object.Array {
	out := object.NewArray()
	for _, kid := range t.Kids() {
		if pruned, ok := pruneElement(kid, keep); ok {
			out.Append(t.doc.Table.Put(0, 0, pruned))
		}
	}
	if out.Len() == 0 {
		return nil
	}
	return out
}

func pruneElement(e *StructureElement, keep map[*object.Dictionary]bool) (*object.Dictionary, bool) {
	survivingKids := object.NewArray()
	anySurvivor := false

	if ref, ok := e.PageRef(); ok {
		if pg, ok := e.doc.resolveDict(ref); ok && keep[pg] {
			anySurvivor = true
		}
	}

	for _, child := range e.Children() {
		if pruned, ok := pruneElement(child, keep); ok {
			survivingKids.Append(e.doc.Table.Put(0, 0, pruned))
			anySurvivor = true
		}
	}

	if !anySurvivor {
		return nil, false
	}

	out := e.Dict.Clone().(*object.Dictionary)
	out.Set("K", survivingKids)
	return out, true
}
