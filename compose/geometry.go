package compose

import (
	"fmt"

	"github.com/coregx/pdfcore/internal/doc"
	"github.com/coregx/pdfcore/internal/engine"
	"github.com/coregx/pdfcore/internal/object"
)

// rotationCompensation builds the /Matrix a Form XObject wrapping a page
// with the given rotation and crop box must carry so that, drawn into a
// host page with no rotation of its own, it renders exactly as a viewer
// honoring the source page's /Rotate would have: first undoing the
// crop-box's own origin (translate so its lower-left corner sits at the
// new Form's origin), then applying the rotation a viewer would apply.
// The matrices for 90/270 are the 90-degree-rotation-plus-reflection
// pairs that map a box anchored at the origin onto another box anchored
// at the origin with its width and height swapped, verified directly: a
// point at a box corner lands on the corresponding corner of the rotated
// box, not merely the box's area matching.
func rotationCompensation(rotation int, llx, lly, urx, ury float64) engine.Matrix {
	w, h := urx-llx, ury-lly
	rot := engine.Identity()
	switch rotation {
	case 90:
		rot = engine.Matrix{A: 0, B: -1, C: 1, D: 0, E: 0, F: w}
	case 180:
		rot = engine.Matrix{A: -1, B: 0, C: 0, D: -1, E: w, F: h}
	case 270:
		rot = engine.Matrix{A: 0, B: 1, C: -1, D: 0, E: h, F: 0}
	}
	return rot.Concat(engine.Translation(-llx, -lly))
}

// normalizedDimensions returns the width and height of a Form XObject's
// own BBox once rotation has been compensated for: swapped for a 90 or
// 270 degree source rotation, unchanged otherwise.
func normalizedDimensions(rotation int, llx, lly, urx, ury float64) (w, h float64) {
	w, h = urx-llx, ury-lly
	if rotation == 90 || rotation == 270 {
		return h, w
	}
	return w, h
}

// matrixArray renders m as a 6-element PDF array, suitable for a Form
// XObject's /Matrix entry.
func matrixArray(m engine.Matrix) *object.Array {
	return object.NewArray(
		object.Real(m.A), object.Real(m.B), object.Real(m.C),
		object.Real(m.D), object.Real(m.E), object.Real(m.F),
	)
}

// concatenateContent joins a page's content streams in painting order
// with a separating newline, mirroring how a single combined stream
// would read.
func concatenateContent(streams []*object.Stream) []byte {
	var out []byte
	for i, s := range streams {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, s.Content()...)
	}
	return out
}

// uniqueXObjectName picks a resource name of the form prefixN not already
// registered (directly or inherited) on page, so repeated overlay or
// layer passes over the same page never collide.
func uniqueXObjectName(page *doc.Page, prefix string) object.Name {
	for n := 0; ; n++ {
		candidate := object.Name(fmt.Sprintf("%s%d", prefix, n))
		if !page.HasXObjectName(candidate) {
			return candidate
		}
	}
}
