package compose

import (
	"fmt"

	"github.com/coregx/pdfcore/internal/clone"
	"github.com/coregx/pdfcore/internal/doc"
	"github.com/coregx/pdfcore/internal/object"
)

// Layerer imports a source document's pages as optional-content layers on
// top of a base document's pages: each source page becomes a Form
// XObject drawn inside a marked-content sequence tagged with a freshly
// created optional-content group, so a viewer can toggle the imported
// page's content independently of the base page's own content.
type Layerer struct {
	base   *doc.Document
	source *doc.Document
	name   string
}

// NewLayerer creates a Layerer importing source's pages as layers onto
// base, under the default group name "Layer".
func NewLayerer(base, source *doc.Document) *Layerer {
	return &Layerer{base: base, source: source, name: "Layer"}
}

// SetName sets the optional-content group's /Name, shown in a viewer's
// layers panel.
func (l *Layerer) SetName(name string) {
	l.name = name
}

// Apply imports source pages as layers onto the base document's pages,
// pairing them by index; pages beyond the shorter document's count are
// left untouched.
func (l *Layerer) Apply() error {
	basePages := l.base.Pages()
	srcPages := l.source.Pages()
	n := len(basePages)
	if len(srcPages) < n {
		n = len(srcPages)
	}
	if n == 0 {
		return fmt.Errorf("compose: no paired pages to layer")
	}

	ocg := object.NewDictionary()
	ocg.Set("Type", object.Name("OCG"))
	ocg.SetString("Name", l.name)
	ocgRef := l.base.Table.Put(0, 0, ocg)

	ocProps := l.base.EnsureOCProperties()
	ocgsArr, ok := ocProps.Dict.GetArray("OCGs")
	if !ok {
		ocgsArr = object.NewArray()
		ocProps.Dict.Set("OCGs", ocgsArr)
	}
	ocgsArr.Append(ocgRef)

	cloner := clone.NewCloner(l.base.Table)
	for i := 0; i < n; i++ {
		if err := l.stampLayer(cloner, basePages[i], srcPages[i], ocgRef, i); err != nil {
			return err
		}
	}

	if srcOC, ok := l.source.OCProperties(); ok {
		if cloned, ok := cloner.Clone(srcOC.Dict, l.source.Table).(*object.Dictionary); ok {
			ocProps.Merge(doc.NewOCProperties(l.base, cloned))
		}
	}
	return nil
}

// stampLayer wraps srcPage as a Form XObject (rotation- and crop-box-
// compensated per the composer's persisted-state invariant), registers
// it on basePage, and appends a marked-content sequence invoking it
// under ocgRef's optional-content membership.
func (l *Layerer) stampLayer(cloner *clone.Cloner, basePage, srcPage *doc.Page, ocgRef *object.IndirectReference, idx int) error {
	llx, lly, urx, ury, ok := srcPage.CropBox()
	if !ok {
		return fmt.Errorf("compose: source page has no usable box")
	}
	rotation := srcPage.Rotation()
	w, h := normalizedDimensions(rotation, llx, lly, urx, ury)

	dict := object.NewDictionary()
	dict.Set("Type", object.Name("XObject"))
	dict.Set("Subtype", object.Name("Form"))
	dict.Set("BBox", object.NewArray(object.Real(0), object.Real(0), object.Real(w), object.Real(h)))
	dict.Set("Matrix", matrixArray(rotationCompensation(rotation, llx, lly, urx, ury)))

	if res := srcPage.Resources(); res != nil {
		if cloned, ok := cloner.Clone(res, l.source.Table).(*object.Dictionary); ok {
			dict.Set("Resources", cloned)
		}
	}

	stream := object.NewStream(dict, concatenateContent(srcPage.Contents()))
	xobjRef := l.base.Table.Put(0, 0, stream)

	xobjName := uniqueXObjectName(basePage, "Lyr")
	basePage.AddXObject(xobjName, xobjRef)

	propName := object.Name(fmt.Sprintf("OC%d", idx))
	basePage.AddProperty(propName, ocgRef)

	content := fmt.Sprintf("/OC /%s BDC /%s Do EMC", propName, xobjName)
	layerStream := object.NewStream(object.NewDictionary(), []byte(content))

	existing := basePage.Contents()
	basePage.SetContents(append(append([]*object.Stream{}, existing...), layerStream))
	return nil
}
