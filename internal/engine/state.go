package engine

// WindingRule selects the fill/clip rule a path operator uses.
type WindingRule int

const (
	NonZeroWinding WindingRule = iota
	EvenOddWinding
)

// RenderingMode is the text rendering mode set by Tr.
type RenderingMode int

const (
	RenderFill RenderingMode = iota
	RenderStroke
	RenderFillStroke
	RenderInvisible
	RenderFillClip
	RenderStrokeClip
	RenderFillStrokeClip
	RenderClip
)

// BlendMode names a PDF transparency blend mode. Only the name is modeled;
// compositing math is a rasterizer concern.
type BlendMode string

const BlendNormal BlendMode = "Normal"

// Color is a color value in some colorspace; component interpretation is a
// rasterizer/colorspace concern, so this is an opaque bag of components
// plus the colorspace's name or resource name. Colors are shared-by-
// reference on graphics-state clone 
type Color struct {
	Space      string
	Components []float64
	PatternRef string // resource name, when Space == "Pattern"
}

// Path is an accumulated sequence of path-construction subpaths, used for
// both the current-path-under-construction and the clip region. Geometry
// is opaque beyond what the engine itself needs (state machine tracking
// and bounding computations a composer might want); actual rasterization
// is out of scope.
type Path struct {
	Segments []PathSegment
}

// PathSegment is one path-construction step.
type PathSegment struct {
	Op     byte // 'm','l','c','h' (moveto/lineto/curveto/closepath)
	Points [3][2]float64
}

// Clone returns a deep copy of the path.
func (p *Path) Clone() *Path {
	if p == nil {
		return nil
	}
	out := &Path{Segments: make([]PathSegment, len(p.Segments))}
	copy(out.Segments, p.Segments)
	return out
}

// ClipRegion is the accumulated clipping path plus its winding rule. Clone
// is deep: the clipping region's path is copied, not shared.
type ClipRegion struct {
	Path   *Path
	Rule   WindingRule
	Active bool
}

func (c *ClipRegion) Clone() *ClipRegion {
	if c == nil {
		return nil
	}
	return &ClipRegion{Path: c.Path.Clone(), Rule: c.Rule, Active: c.Active}
}

// TextState is the text-specific sub-record of GraphicsState. Field set and
// Td/TD/T*/Tm semantics are grounded on
// internal/extractor/text_state.go's TextState, generalized with Rise and
// RenderingMode, absent from its predecessor, and the vertical-writing
// hook the text-showing math needs.
type TextState struct {
	Tm, Tlm Matrix

	Font          string // resource name of the current font
	FontSize      float64
	CharSpace     float64
	WordSpace     float64
	HorizScale    float64 // percent, default 100
	Leading       float64
	Rise          float64
	RenderingMode RenderingMode
	Vertical      bool
}

// NewTextState returns a TextState with PDF defaults (identity matrices,
// 100% horizontal scaling, all other numeric fields zero).
func NewTextState() TextState {
	return TextState{Tm: Identity(), Tlm: Identity(), HorizScale: 100}
}

// BeginText resets Tm/Tlm to identity on BT, leaving font parameters
// (size, spacing, leading, rise, mode) untouched — they persist across
// text objects per the PDF spec. Grounded on text_state.go's Reset, which
// makes exactly this distinction.
func (t *TextState) BeginText() {
	t.Tm = Identity()
	t.Tlm = Identity()
}

// SetMatrix implements Tm: sets both Tm and Tlm to the given matrix.
func (t *TextState) SetMatrix(m Matrix) {
	t.Tm = m
	t.Tlm = m
}

// Translate implements Td: translate the line matrix by (tx, ty) in text
// space and make it the new text matrix too.
func (t *TextState) Translate(tx, ty float64) {
	t.Tlm = t.Tlm.Concat(Translation(tx, ty))
	t.Tm = t.Tlm
}

// TranslateSetLeading implements TD: sets leading from -ty, then behaves
// as Td.
func (t *TextState) TranslateSetLeading(tx, ty float64) {
	t.Leading = -ty
	t.Translate(tx, ty)
}

// NextLine implements T*: move to the start of the next line using the
// current leading.
func (t *TextState) NextLine() {
	t.Translate(0, -t.Leading)
}

// Clone returns a deep copy (TextState has no reference fields beyond the
// font resource name, which is shared-by-reference 
func (t TextState) Clone() TextState { return t }

// GraphicsState is the mutable record pushed/popped by q/Q. Field set
// grounded on seehuhn-go-pdf/reader/reader_test.go's TestParameters (the
// enumerated State fields: LineWidth, LineCap, LineJoin, MiterLimit,
// DashPattern/DashPhase, RenderingIntent, FlatnessTolerance, CTM, plus the
// Text* fields), since reader.go itself is absent from the retrieval pack
// and only its tests survive to document the shape.
type GraphicsState struct {
	CTM Matrix

	Clip *ClipRegion

	StrokeColor Color
	FillColor   Color

	LineWidth   float64
	LineCap     int
	LineJoin    int
	MiterLimit  float64
	DashPattern []float64
	DashPhase   float64

	RenderingIntent    string
	FlatnessTolerance  float64
	StrokeAlpha        float64
	FillAlpha          float64
	BlendMode          BlendMode
	SoftMask           string // resource name, empty means none

	Text TextState
}

// NewGraphicsState returns the sentinel initial state pushed at page entry,
// matching the PDF content-stream defaults (identity CTM, full alpha,
// Normal blend, miter join at limit 10, no dash, no soft mask).
func NewGraphicsState() GraphicsState {
	return GraphicsState{
		CTM:               Identity(),
		MiterLimit:        10,
		StrokeAlpha:       1,
		FillAlpha:         1,
		BlendMode:         BlendNormal,
		FlatnessTolerance: 1,
		Text:              NewTextState(),
	}
}

// Clone returns a deep copy for graphics-stack push: clip region and text
// state are deep-copied, color and font are shared-by-reference, per
// 
func (g GraphicsState) Clone() GraphicsState {
	out := g
	out.Clip = g.Clip.Clone()
	out.Text = g.Text.Clone()
	out.DashPattern = append([]float64(nil), g.DashPattern...)
	return out
}

// GraphicsStack is the push/pop stack of GraphicsState driven by q/Q. It is
// never empty during stream processing: NewGraphicsStack seeds it with the
// page's sentinel initial state ( §4.B).
type GraphicsStack struct {
	states []GraphicsState
}

// NewGraphicsStack creates a stack with a single sentinel state.
func NewGraphicsStack(initial GraphicsState) *GraphicsStack {
	return &GraphicsStack{states: []GraphicsState{initial}}
}

// Top returns a pointer to the current (top) state for in-place mutation.
func (s *GraphicsStack) Top() *GraphicsState { return &s.states[len(s.states)-1] }

// Depth returns the current stack depth.
func (s *GraphicsStack) Depth() int { return len(s.states) }

// Push clones the current state and pushes the clone (q).
func (s *GraphicsStack) Push() { s.states = append(s.states, s.Top().Clone()) }

// Pop pops the current state (Q). It reports false without modifying the
// stack when only the sentinel remains — callers report this as
// EmptyGraphicsStack and treat the restore as a no-op.
func (s *GraphicsStack) Pop() bool {
	if len(s.states) <= 1 {
		return false
	}
	s.states = s.states[:len(s.states)-1]
	return true
}

// Snapshot captures the entire stack (used by descend's step 2: "save the
// full graphics stack"). The returned slice is independent of future
// mutation to s.
func (s *GraphicsStack) Snapshot() []GraphicsState {
	out := make([]GraphicsState, len(s.states))
	copy(out, s.states)
	return out
}

// Restore replaces the stack's contents wholesale (descend's step 9:
// "unconditionally restore the saved ... graphics stack").
func (s *GraphicsStack) Restore(states []GraphicsState) {
	s.states = append(s.states[:0], states...)
}

// ResetToTopClone replaces the working stack with a fresh stack containing
// only a clone of the current top (descend's step 2 second half): this
// prevents a stray q/Q imbalance in a child stream from corrupting the
// parent's stack depth.
func (s *GraphicsStack) ResetToTopClone() {
	top := s.Top().Clone()
	s.states = []GraphicsState{top}
}
