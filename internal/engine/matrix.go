// Package engine implements the content-stream interpreter: graphics and
// text state (component B), the operator registry (component C), and the
// stream engine that drives them (component D).
package engine

import (
	"fmt"
	"math"
)

// Matrix is a PDF transformation matrix in the usual 2x3 homogeneous-affine
// form:
//
//	| A B 0 |
//	| C D 0 |
//	| E F 1 |
//
// Points transform as (x', y') = (A*x + C*y + E, B*x + D*y + F). Grounded
// on internal/extractor/text_state.go's Matrix type (same field layout,
// same Transform/Multiply semantics), generalized here to serve both the
// current transformation matrix and the text/text-line matrices instead of
// text only. Deliberately hand-rolled rather than imported from
// seehuhn-go-pdf's geom/matrix packages: those carry a GPL header
// incompatible with this otherwise permissively-licensed module, and no
// other non-GPL 2D-affine matrix library appears anywhere in the corpus.
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity is the identity transformation.
func Identity() Matrix { return Matrix{A: 1, D: 1} }

// Translation builds a pure translation matrix.
func Translation(tx, ty float64) Matrix { return Matrix{A: 1, D: 1, E: tx, F: ty} }

// Scaling builds a pure scaling matrix.
func Scaling(sx, sy float64) Matrix { return Matrix{A: sx, D: sy} }

// Rotation builds a pure rotation matrix for angle radians, counterclockwise.
func Rotation(angle float64) Matrix {
	sin, cos := math.Sin(angle), math.Cos(angle)
	return Matrix{A: cos, B: sin, C: -sin, D: cos}
}

// Apply transforms a point by the matrix.
func (m Matrix) Apply(x, y float64) (nx, ny float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// ApplyVector transforms a direction vector (ignores translation).
func (m Matrix) ApplyVector(x, y float64) (nx, ny float64) {
	return m.A*x + m.C*y, m.B*x + m.D*y
}

// Concat returns the composition that applies other first and then m —
// i.e. other's coordinate frame expressed in terms of m (the standard PDF
// `cm` operator semantics: the new CTM is `other × CTM`, CTM.Concat(other)).
func (m Matrix) Concat(other Matrix) Matrix {
	return Matrix{
		A: other.A*m.A + other.B*m.C,
		B: other.A*m.B + other.B*m.D,
		C: other.C*m.A + other.D*m.C,
		D: other.C*m.B + other.D*m.D,
		E: other.E*m.A + other.F*m.C + m.E,
		F: other.E*m.B + other.F*m.D + m.F,
	}
}

// IsIdentity reports whether m is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 && m.D == 1 && m.E == 0 && m.F == 0
}

func (m Matrix) String() string {
	return fmt.Sprintf("[%g %g %g %g %g %g]", m.A, m.B, m.C, m.D, m.E, m.F)
}

// Clone returns a copy (Matrix is a value type; provided for call-site
// clarity where a snapshot is explicitly intended, e.g. graphics-stack push).
func (m Matrix) Clone() Matrix { return m }
