package doc

import (
	"fmt"

	"github.com/coregx/pdfcore/internal/object"
)

// inheritableKeys are looked up through the /Parent chain when absent on
// the page dictionary itself, per the page-tree inheritance rule a flat
// Page value type with no tree at all has no need to model.
const (
	keyResources = object.Name("Resources")
	keyMediaBox  = object.Name("MediaBox")
	keyCropBox   = object.Name("CropBox")
	keyRotate    = object.Name("Rotate")
)

// Page is a dict-backed wrapper over a page dictionary, resolving
// inheritable attributes (MediaBox, CropBox, Resources, Rotate) up the
// page-tree's /Parent chain when the page itself does not carry them.
type Page struct {
	Dict *object.Dictionary
	doc  *Document
}

func newPage(dict *object.Dictionary, doc *Document) *Page {
	return &Page{Dict: dict, doc: doc}
}

// inherited walks the /Parent chain looking for key, stopping at the first
// dictionary that carries it (including the page itself).
func (p *Page) inherited(key object.Name) (object.Object, bool) {
	node := p.Dict
	for i := 0; i < 64 && node != nil; i++ {
		if node.Has(key) {
			return node.Get(key), true
		}
		ref, ok := node.GetReference("Parent")
		if !ok {
			return nil, false
		}
		obj, ok := p.doc.Table.Resolve(ref)
		if !ok {
			return nil, false
		}
		node, _ = obj.(*object.Dictionary)
	}
	return nil, false
}

// rectFrom reads a 4-number array as (llx, lly, urx, ury).
func rectFrom(arr *object.Array) (llx, lly, urx, ury float64, ok bool) {
	if arr == nil || arr.Len() != 4 {
		return 0, 0, 0, 0, false
	}
	vals := make([]float64, 4)
	for i := 0; i < 4; i++ {
		switch v := arr.Get(i).(type) {
		case object.Integer:
			vals[i] = float64(v)
		case object.Real:
			vals[i] = float64(v)
		default:
			return 0, 0, 0, 0, false
		}
	}
	return vals[0], vals[1], vals[2], vals[3], true
}

// MediaBox returns the page's inherited media box.
func (p *Page) MediaBox() (llx, lly, urx, ury float64, ok bool) {
	v, found := p.inherited(keyMediaBox)
	if !found {
		return 0, 0, 0, 0, false
	}
	arr, _ := v.(*object.Array)
	return rectFrom(arr)
}

// CropBox returns the page's inherited crop box, falling back to the media
// box when no crop box is set anywhere up the chain.
func (p *Page) CropBox() (llx, lly, urx, ury float64, ok bool) {
	if v, found := p.inherited(keyCropBox); found {
		if arr, ok2 := v.(*object.Array); ok2 {
			if llx, lly, urx, ury, ok3 := rectFrom(arr); ok3 {
				return llx, lly, urx, ury, true
			}
		}
	}
	return p.MediaBox()
}

// Resources returns the page's inherited resource dictionary, or nil.
func (p *Page) Resources() *object.Dictionary {
	v, found := p.inherited(keyResources)
	if !found {
		return nil
	}
	dict, _ := v.(*object.Dictionary)
	return dict
}

// Rotation returns the page's inherited rotation, normalized into
// {0, 90, 180, 270}. Missing or non-multiple-of-90 values default to 0.
func (p *Page) Rotation() int {
	v, found := p.inherited(keyRotate)
	if !found {
		return 0
	}
	i, ok := v.(object.Integer)
	if !ok {
		return 0
	}
	deg := ((int(i) % 360) + 360) % 360
	if deg%90 != 0 {
		return 0
	}
	return deg
}

// SetRotation sets the page's own /Rotate entry (not inherited ancestors).
func (p *Page) SetRotation(degrees int) error {
	if degrees%90 != 0 {
		return fmt.Errorf("doc: rotation must be a multiple of 90, got %d", degrees)
	}
	norm := ((degrees % 360) + 360) % 360
	p.Dict.SetInteger("Rotate", int64(norm))
	return nil
}

// Width returns the page width in points, accounting for rotation.
func (p *Page) Width() float64 {
	llx, _, urx, _, ok := p.MediaBox()
	if !ok {
		return 0
	}
	w := urx - llx
	if rot := p.Rotation(); rot == 90 || rot == 270 {
		_, lly, _, ury, _ := p.MediaBox()
		return ury - lly
	}
	return w
}

// Height returns the page height in points, accounting for rotation.
func (p *Page) Height() float64 {
	_, lly, _, ury, ok := p.MediaBox()
	if !ok {
		return 0
	}
	h := ury - lly
	if rot := p.Rotation(); rot == 90 || rot == 270 {
		llx, _, urx, _, _ := p.MediaBox()
		return urx - llx
	}
	return h
}

// Annotations resolves and returns the page's /Annots array entries as
// dictionaries, skipping unresolved or non-dictionary entries.
func (p *Page) Annotations() []*object.Dictionary {
	arr, ok := p.Dict.GetArray("Annots")
	if !ok {
		return nil
	}
	out := make([]*object.Dictionary, 0, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		obj := arr.Get(i)
		if ref, ok := obj.(*object.IndirectReference); ok {
			obj, _ = p.doc.Table.Resolve(ref)
		}
		if d, ok := obj.(*object.Dictionary); ok {
			out = append(out, d)
		}
	}
	return out
}

// StructParents returns the page's /StructParents key into the structure
// tree's parent tree, and whether it is present.
func (p *Page) StructParents() (int, bool) {
	i, ok := p.Dict.GetInteger("StructParents")
	return int(i), ok
}

// Contents resolves the page's /Contents entry into its constituent
// streams, in painting order. /Contents may be a single stream or an
// array of streams per the persisted-state layout the composer imposes
// on its output; both shapes are normalized here.
func (p *Page) Contents() []*object.Stream {
	switch c := p.doc.Table.Deref(p.Dict.Get("Contents")).(type) {
	case *object.Stream:
		return []*object.Stream{c}
	case *object.Array:
		out := make([]*object.Stream, 0, c.Len())
		for i := 0; i < c.Len(); i++ {
			if s, ok := p.doc.Table.Deref(c.Get(i)).(*object.Stream); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// SetContents replaces the page's /Contents with streams, stored as an
// array of freshly allocated indirect references so each stream keeps its
// own object identity.
func (p *Page) SetContents(streams []*object.Stream) {
	arr := object.NewArray()
	for _, s := range streams {
		arr.Append(p.doc.Table.Put(0, 0, s))
	}
	p.Dict.Set("Contents", arr)
}

// ownResources returns the page's own /Resources dictionary, copying any
// inherited one onto the page itself on first write so that mutating it
// (adding an XObject or a marked-content property) never reaches back up
// the /Parent chain and corrupts a sibling page's inherited resources.
func (p *Page) ownResources() *object.Dictionary {
	if dict, ok := p.Dict.GetDictionary("Resources"); ok {
		return dict
	}
	res := object.NewDictionary()
	if inherited := p.Resources(); inherited != nil {
		res.Merge(inherited)
	}
	p.Dict.Set("Resources", res)
	return res
}

// AddXObject registers ref under /XObject/name in the page's own resource
// dictionary. Used by the overlay and layer composer utilities to make an
// imported Form XObject invokable from a page's own content stream.
func (p *Page) AddXObject(name object.Name, ref *object.IndirectReference) {
	res := p.ownResources()
	xobjs, ok := res.GetDictionary("XObject")
	if !ok {
		xobjs = object.NewDictionary()
		res.Set("XObject", xobjs)
	}
	xobjs.Set(name, ref)
}

// AddProperty registers ref under /Properties/name in the page's own
// resource dictionary, used by marked-content tags (e.g. an optional-
// content membership dictionary named by a BDC operator).
func (p *Page) AddProperty(name object.Name, ref *object.IndirectReference) {
	res := p.ownResources()
	props, ok := res.GetDictionary("Properties")
	if !ok {
		props = object.NewDictionary()
		res.Set("Properties", props)
	}
	props.Set(name, ref)
}

// HasXObjectName reports whether name is already registered in the
// page's own or inherited /XObject resources, so callers stamping a page
// more than once can pick a fresh name.
func (p *Page) HasXObjectName(name object.Name) bool {
	res := p.Resources()
	if res == nil {
		return false
	}
	xobjs, ok := res.GetDictionary("XObject")
	if !ok {
		return false
	}
	return xobjs.Has(name)
}
