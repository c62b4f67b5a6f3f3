package compose

import (
	"fmt"

	"github.com/coregx/pdfcore/internal/clone"
	"github.com/coregx/pdfcore/internal/doc"
	"github.com/coregx/pdfcore/internal/engine"
	"github.com/coregx/pdfcore/internal/object"
)

// Overlayer stamps the pages of one document (the overlay) onto the pages
// of another (the base) at a chosen placement. Each base page selects its
// overlay page via a slot: a page-specific assignment first, then
// first/last/odd/even, then a default, then the overlay document's full
// page set cycled modulo its page count. Mirrors the builder shape of
// Merger (configure, then one terminal Apply).
type Overlayer struct {
	base    *doc.Document
	overlay *doc.Document

	perPage    map[int]int
	firstPage  *int
	lastPage   *int
	oddPage    *int
	evenPage   *int
	defaultIdx *int
	cycleAll   bool

	foreground bool
}

// NewOverlayer creates an Overlayer stamping overlay's pages onto base.
// Foreground placement (overlay drawn on top of the base page's own
// content) is the default.
func NewOverlayer(base, overlay *doc.Document) *Overlayer {
	return &Overlayer{base: base, overlay: overlay, perPage: map[int]int{}, foreground: true}
}

// SetForeground selects whether the overlay is drawn on top of (true) or
// underneath (false) the base page's own content.
func (o *Overlayer) SetForeground(foreground bool) {
	o.foreground = foreground
}

// SetPage assigns the 1-based base page number to the 1-based overlay
// page number explicitly, taking precedence over every other slot.
func (o *Overlayer) SetPage(basePageNum, overlayPageNum int) {
	o.perPage[basePageNum-1] = overlayPageNum - 1
}

// SetFirstPage assigns the slot used for the base document's first page.
func (o *Overlayer) SetFirstPage(overlayPageNum int) {
	idx := overlayPageNum - 1
	o.firstPage = &idx
}

// SetLastPage assigns the slot used for the base document's last page.
func (o *Overlayer) SetLastPage(overlayPageNum int) {
	idx := overlayPageNum - 1
	o.lastPage = &idx
}

// SetOddPages assigns the slot used for odd 1-based base page numbers.
func (o *Overlayer) SetOddPages(overlayPageNum int) {
	idx := overlayPageNum - 1
	o.oddPage = &idx
}

// SetEvenPages assigns the slot used for even 1-based base page numbers.
func (o *Overlayer) SetEvenPages(overlayPageNum int) {
	idx := overlayPageNum - 1
	o.evenPage = &idx
}

// SetDefault assigns the fallback slot used when no more specific slot
// matches a base page.
func (o *Overlayer) SetDefault(overlayPageNum int) {
	idx := overlayPageNum - 1
	o.defaultIdx = &idx
}

// UseAllPages makes every base page, absent a more specific slot, draw
// from the overlay document's full page set, cycled modulo its page
// count (base page i gets overlay page i mod overlayPageCount).
func (o *Overlayer) UseAllPages() {
	o.cycleAll = true
}

// slotFor resolves the 0-based overlay page index to use for the
// 0-based base page index baseIdx, in the precedence order spec.md
// documents: page-specific, then first/last/odd/even, then default, then
// the all-pages cycle.
func (o *Overlayer) slotFor(baseIdx, baseCount, overlayCount int) (int, bool) {
	if idx, ok := o.perPage[baseIdx]; ok {
		return idx, true
	}
	if baseIdx == 0 && o.firstPage != nil {
		return *o.firstPage, true
	}
	if baseIdx == baseCount-1 && o.lastPage != nil {
		return *o.lastPage, true
	}
	pageNum := baseIdx + 1
	if pageNum%2 == 1 && o.oddPage != nil {
		return *o.oddPage, true
	}
	if pageNum%2 == 0 && o.evenPage != nil {
		return *o.evenPage, true
	}
	if o.defaultIdx != nil {
		return *o.defaultIdx, true
	}
	if o.cycleAll && overlayCount > 0 {
		return baseIdx % overlayCount, true
	}
	return 0, false
}

// Apply stamps every base page whose slot resolves to an overlay page.
func (o *Overlayer) Apply() error {
	basePages := o.base.Pages()
	overlayPages := o.overlay.Pages()
	if len(overlayPages) == 0 {
		return fmt.Errorf("compose: overlay document has no pages")
	}

	cloner := clone.NewCloner(o.base.Table)
	xobjCache := map[int]*object.IndirectReference{}

	for i, basePage := range basePages {
		overlayIdx, ok := o.slotFor(i, len(basePages), len(overlayPages))
		if !ok || overlayIdx < 0 || overlayIdx >= len(overlayPages) {
			continue
		}
		overlayPage := overlayPages[overlayIdx]

		xobjRef, ok := xobjCache[overlayIdx]
		if !ok {
			built, err := o.buildXObject(cloner, overlayPage)
			if err != nil {
				return err
			}
			xobjRef = built
			xobjCache[overlayIdx] = built
		}

		o.stampPage(basePage, xobjRef, overlayPage)
	}
	return nil
}

// buildXObject wraps overlayPage as a Form XObject in the base document's
// table, rotated to compensate for the overlay page's own rotation.
func (o *Overlayer) buildXObject(cloner *clone.Cloner, overlayPage *doc.Page) (*object.IndirectReference, error) {
	llx, lly, urx, ury, ok := overlayPage.CropBox()
	if !ok {
		return nil, fmt.Errorf("compose: overlay page has no usable box")
	}

	dict := object.NewDictionary()
	dict.Set("Type", object.Name("XObject"))
	dict.Set("Subtype", object.Name("Form"))
	dict.Set("BBox", object.NewArray(
		object.Real(llx), object.Real(lly), object.Real(urx), object.Real(ury),
	))

	rotation := overlayPage.Rotation()
	if rotation != 0 {
		m := rotationCompensation(rotation, llx, lly, urx, ury)
		dict.Set("Matrix", matrixArray(m))
	}

	if res := overlayPage.Resources(); res != nil {
		if cloned, ok := cloner.Clone(res, o.overlay.Table).(*object.Dictionary); ok {
			dict.Set("Resources", cloned)
		}
	}

	content := concatenateContent(overlayPage.Contents())
	stream := object.NewStream(dict, content)
	return o.base.Table.Put(0, 0, stream), nil
}

// stampPage registers xobjRef as a resource on basePage and rewrites its
// content streams to invoke it centered on the page (the only placement
// spec.md names), wrapping the original content in q/Q when stamping in
// foreground mode so the overlay's own graphics state never leaks back
// into whatever painted before it.
func (o *Overlayer) stampPage(basePage *doc.Page, xobjRef *object.IndirectReference, overlayPage *doc.Page) {
	name := uniqueXObjectName(basePage, "Ovl")
	basePage.AddXObject(name, xobjRef)

	tx := (basePage.Width() - overlayPage.Width()) / 2
	ty := (basePage.Height() - overlayPage.Height()) / 2
	place := fmt.Sprintf("q %s /%s Do Q", formatCM(engine.Translation(tx, ty)), name)
	stamp := object.NewStream(object.NewDictionary(), []byte(place))

	existing := basePage.Contents()
	var assembled []*object.Stream
	if o.foreground {
		if len(existing) > 0 {
			assembled = append(assembled, object.NewStream(object.NewDictionary(), []byte("q")))
			assembled = append(assembled, existing...)
			assembled = append(assembled, object.NewStream(object.NewDictionary(), []byte("Q")))
		}
		assembled = append(assembled, stamp)
	} else {
		assembled = append(assembled, stamp)
		assembled = append(assembled, existing...)
	}
	basePage.SetContents(assembled)
}
