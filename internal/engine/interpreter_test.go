package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/pdfcore/internal/object"
)

// recordingCallbacks implements Callbacks and records every call an
// interpreter test needs to assert against. interp is set after New so
// AppendRectangle can snapshot the CTM in force at call time.
type recordingCallbacks struct {
	NopCallbacks
	interp *Interpreter

	beginTextCount int
	endTextCount   int

	showGlyphCalls []glyphCall
	rectangles     []rectCall

	strokeCount int
	fillRules   []WindingRule
	fillAlphas  []float64
}

type glyphCall struct {
	TRM  Matrix
	Code uint32
	Text string
}

type rectCall struct {
	X, Y, W, H float64
	CTM        Matrix
}

func (r *recordingCallbacks) BeginText() { r.beginTextCount++ }
func (r *recordingCallbacks) EndText()   { r.endTextCount++ }

func (r *recordingCallbacks) ShowGlyph(trm Matrix, font string, code uint32, text string, displacement float64) {
	r.showGlyphCalls = append(r.showGlyphCalls, glyphCall{TRM: trm, Code: code, Text: text})
}

func (r *recordingCallbacks) AppendRectangle(x, y, w, h float64) {
	ctm := Identity()
	if r.interp != nil {
		ctm = r.interp.Stack.Top().CTM
	}
	r.rectangles = append(r.rectangles, rectCall{X: x, Y: y, W: w, H: h, CTM: ctm})
}

func (r *recordingCallbacks) StrokePath() { r.strokeCount++ }

func (r *recordingCallbacks) FillPath(rule WindingRule) {
	r.fillRules = append(r.fillRules, rule)
	if r.interp != nil {
		r.fillAlphas = append(r.fillAlphas, r.interp.Stack.Top().FillAlpha)
	}
}

var _ Callbacks = (*recordingCallbacks)(nil)

// testFont decodes one byte per glyph with a fixed displacement, optionally
// exposing one code as a Type 3 procedure.
type testFont struct {
	displacement  float64
	type3Code     uint32
	type3Proc     *object.Stream
	type3FontMtx  Matrix
	hasType3Glyph bool
}

func (f *testFont) Decode(data []byte) []Glyph {
	out := make([]Glyph, 0, len(data))
	for _, b := range data {
		out = append(out, Glyph{Code: uint32(b), Text: string(rune(b)), Displacement: f.displacement, IsSpace: b == ' '})
	}
	return out
}

func (f *testFont) Vertical() bool { return false }

func (f *testFont) Type3Procedure(code uint32) (*object.Stream, Matrix, bool) {
	if f.hasType3Glyph && code == f.type3Code {
		return f.type3Proc, f.type3FontMtx, true
	}
	return nil, Matrix{}, false
}

type singleFontResolver struct{ font Font }

func (s singleFontResolver) ResolveFont(*object.Dictionary) Font { return s.font }

func newInterpreterWithFont(font Font, rec *recordingCallbacks) *Interpreter {
	fontCat := object.NewDictionary()
	fontCat.Set("F1", object.NewDictionary())
	pageRes := object.NewDictionary()
	pageRes.Set("Font", fontCat)

	it := New(Config{
		PageResources: pageRes,
		Callbacks:     rec,
		Fonts:         singleFontResolver{font: font},
	})
	rec.interp = it
	return it
}

func run(t *testing.T, it *Interpreter, content string) error {
	t.Helper()
	return it.Run(object.NewLexer(strings.NewReader(content)))
}

func TestInterpreter_SaveRestoreBalancesGraphicsStack(t *testing.T) {
	rec := &recordingCallbacks{}
	it := New(Config{Callbacks: rec})
	rec.interp = it

	err := run(t, it, "q 1 0 0 1 10 20 cm Q")
	require.NoError(t, err)

	assert.Equal(t, 1, it.Stack.Depth())
	assert.True(t, it.Stack.Top().CTM.IsIdentity())
}

func TestInterpreter_UnmatchedRestoreRecoversLocally(t *testing.T) {
	rec := &recordingCallbacks{}
	it := New(Config{Callbacks: rec})
	rec.interp = it

	err := run(t, it, "Q")
	require.NoError(t, err, "EmptyGraphicsStack is a locally recovered fault, not a Run-ending error")
	assert.Equal(t, 1, it.Stack.Depth())
}

func TestInterpreter_BeginEndTextInvokeCallbacksOnce(t *testing.T) {
	rec := &recordingCallbacks{}
	it := New(Config{Callbacks: rec})
	rec.interp = it

	err := run(t, it, "BT ET")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.beginTextCount)
	assert.Equal(t, 1, rec.endTextCount)
}

func TestInterpreter_ShowGlyphTRMReflectsFontSizeTmAndCTM(t *testing.T) {
	font := &testFont{displacement: 0.5}
	rec := &recordingCallbacks{}
	it := newInterpreterWithFont(font, rec)

	err := run(t, it, "BT /F1 12 Tf 1 0 0 1 100 700 Tm (AB) Tj ET")
	require.NoError(t, err)
	require.Len(t, rec.showGlyphCalls, 2)

	first := rec.showGlyphCalls[0].TRM
	assert.Equal(t, Matrix{A: 12, D: 12, E: 100, F: 700}, first)

	second := rec.showGlyphCalls[1].TRM
	assert.Equal(t, Matrix{A: 12, D: 12, E: 106, F: 700}, second)
}

func TestInterpreter_TJNumericAdjustmentShiftsTextMatrix(t *testing.T) {
	font := &testFont{displacement: 0}
	rec := &recordingCallbacks{}
	it := newInterpreterWithFont(font, rec)

	err := run(t, it, "BT /F1 12 Tf 1 0 0 1 0 0 Tm (A) Tj [-1000] TJ (B) Tj ET")
	require.NoError(t, err)
	require.Len(t, rec.showGlyphCalls, 2)

	// adjustByThousandths shifts Tm.E by -a/1000*fontSize (horizontal
	// scaling 100%); with an identity CTM the shown-glyph TRM carries that
	// shift unchanged, since the params scaling applies before Tm.
	fontSize := 12.0
	a := -1000.0
	wantDiff := -a / 1000 * fontSize

	firstE := rec.showGlyphCalls[0].TRM.E
	secondE := rec.showGlyphCalls[1].TRM.E
	assert.Equal(t, wantDiff, secondE-firstE)
}

func TestInterpreter_Type3GlyphRectangleIsPremultipliedByFontMatrixThenTRM(t *testing.T) {
	proc := object.NewStream(object.NewDictionary(), []byte("0 0 10 10 re f"))
	fontMatrix := Matrix{A: 0.001, D: 0.001} // typical Type 3 glyph-space scale
	font := &testFont{hasType3Glyph: true, type3Code: uint32('A'), type3Proc: proc, type3FontMtx: fontMatrix}

	rec := &recordingCallbacks{}
	it := newInterpreterWithFont(font, rec)

	err := run(t, it, "BT /F1 1000 Tf 1 0 0 1 100 200 Tm (A) Tj ET")
	require.NoError(t, err)
	require.Len(t, rec.rectangles, 1)

	trm := textRenderingMatrix(TextState{Tm: Translation(100, 200), Tlm: Translation(100, 200), HorizScale: 100, FontSize: 1000}, Identity())
	expected := trm.Concat(fontMatrix)
	assert.Equal(t, expected, rec.rectangles[0].CTM)
}

func TestInterpreter_FormXObjectDescendRestoresCTMAfterward(t *testing.T) {
	formDict := object.NewDictionary()
	matrixArr := object.NewArray(object.Real(1), object.Integer(0), object.Integer(0), object.Real(1), object.Integer(50), object.Integer(50))
	formDict.Set("Matrix", matrixArr)
	formStream := object.NewStream(formDict, []byte("0 0 100 100 re f"))

	xobjCat := object.NewDictionary()
	xobjCat.Set("Fm1", formStream)
	pageRes := object.NewDictionary()
	pageRes.Set("XObject", xobjCat)

	rec := &recordingCallbacks{}
	it := New(Config{PageResources: pageRes, Callbacks: rec})
	rec.interp = it

	err := run(t, it, "q /Fm1 Do Q")
	require.NoError(t, err)
	require.Len(t, rec.rectangles, 1)
	assert.Equal(t, Translation(50, 50), rec.rectangles[0].CTM)
	assert.True(t, it.Stack.Top().CTM.IsIdentity(), "descend must restore the parent's CTM once Do returns")
}

func TestInterpreter_TransparencyGroupResetsAlpha(t *testing.T) {
	formDict := object.NewDictionary()
	formDict.Set("Group", object.NewDictionary())
	formStream := object.NewStream(formDict, []byte("0 0 10 10 re f"))

	xobjCat := object.NewDictionary()
	xobjCat.Set("Fm1", formStream)
	pageRes := object.NewDictionary()
	pageRes.Set("XObject", xobjCat)

	rec := &recordingCallbacks{}
	it := New(Config{PageResources: pageRes, Callbacks: rec})
	rec.interp = it
	it.Stack.Top().FillAlpha = 0.3

	err := run(t, it, "/Fm1 Do")
	require.NoError(t, err)
	require.Len(t, rec.fillAlphas, 1)
	assert.Equal(t, 1.0, rec.fillAlphas[0], "entering a transparency group resets fill alpha to the content-stream default")
	assert.Equal(t, 0.3, it.Stack.Top().FillAlpha, "leaving the group must restore the parent's own alpha")
}

func TestDescend_ReturnsDepthExceededBeyondConfiguredMax(t *testing.T) {
	rec := &recordingCallbacks{}
	it := New(Config{Callbacks: rec, MaxDepth: 1})
	rec.interp = it
	it.depth = 1 // already at the configured max

	stream := object.NewStream(object.NewDictionary(), []byte(""))
	err := it.descend(descentParams{Kind: descendForm, Stream: stream, Matrix: Identity()})

	require.Error(t, err)
	var engErr *EngineError
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, KindDepthExceeded, engErr.Kind)
}

func TestInterpreter_SelfReferencingFormDoesNotHangAndIsRecoveredAtDispatch(t *testing.T) {
	formDict := object.NewDictionary()
	formStream := object.NewStream(formDict, []byte("/Fm1 Do"))

	xobjCat := object.NewDictionary()
	xobjCat.Set("Fm1", formStream)
	pageRes := object.NewDictionary()
	pageRes.Set("XObject", xobjCat)

	rec := &recordingCallbacks{}
	it := New(Config{PageResources: pageRes, Callbacks: rec, MaxDepth: 3})
	rec.interp = it

	// DepthExceeded is a dispatch-recoverable kind: Run must still return
	// nil once bounded recursion bottoms out, not surface the fault.
	err := run(t, it, "/Fm1 Do")
	assert.NoError(t, err)
	assert.Equal(t, 1, it.Stack.Depth(), "the graphics stack must end up back at its sentinel depth")
}

func TestInterpreter_UnknownOperatorIsIgnoredNotFatal(t *testing.T) {
	rec := &recordingCallbacks{}
	it := New(Config{Callbacks: rec})
	rec.interp = it

	err := run(t, it, "1 2 ZZ")
	assert.NoError(t, err)
}
