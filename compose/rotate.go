package compose

import (
	"fmt"

	"github.com/coregx/pdfcore/internal/doc"
)

// Rotator applies a page rotation in place across a selection of a
// document's pages, the way a viewer's "rotate pages" command would.
type Rotator struct {
	target *doc.Document
}

// NewRotator creates a Rotator over target.
func NewRotator(target *doc.Document) *Rotator {
	return &Rotator{target: target}
}

// RotatePage sets the 1-based page's rotation to degrees, a multiple of
// 90. Page numbering, resources, labels and name trees are untouched:
// only the page's own /Rotate entry changes.
func (r *Rotator) RotatePage(pageNum, degrees int) error {
	pages := r.target.Pages()
	if pageNum < 1 || pageNum > len(pages) {
		return fmt.Errorf("compose: page number %d out of range (document has %d pages)", pageNum, len(pages))
	}
	return pages[pageNum-1].SetRotation(degrees)
}

// RotateAll sets every page's rotation to degrees.
func (r *Rotator) RotateAll(degrees int) error {
	for _, p := range r.target.Pages() {
		if err := p.SetRotation(degrees); err != nil {
			return err
		}
	}
	return nil
}
