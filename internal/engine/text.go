package engine

import "github.com/coregx/pdfcore/internal/object"

// Glyph is one decoded character code from a shown string: its raw code,
// the Unicode text it maps to (empty when unavailable, "unicode-or-absent"),
// and its displacement in glyph-space units (PDF glyph space is 1/1000 of
// text space).
type Glyph struct {
	Code         uint32
	Text         string
	Displacement float64
	IsSpace      bool // true for the single byte 0x20, for word-spacing purposes
}

// Font is the engine's font boundary: everything about code-length
// decoding, glyph metrics and Type 3 character procedures that depends on
// an actual embedded or substitute font program is out of scope here
// (font loading and glyph rasterization is out of scope); Font is the hook
// an implementer plugs a real font loader into.
type Font interface {
	// Decode splits a shown string into glyphs using this font's code
	// length (1-4 bytes).
	Decode(data []byte) []Glyph
	// Vertical reports whether this font is set for vertical writing.
	Vertical() bool
	// Type3Procedure returns the character procedure stream and font
	// matrix for a Type 3 glyph, or ok=false for any other font type.
	Type3Procedure(code uint32) (stream *object.Stream, fontMatrix Matrix, ok bool)
}

// FontResolver maps a resource-dictionary entry to a usable Font. The
// interpreter calls it lazily, once per Tf, so a specialization can cache
// or lazily parse embedded font programs.
type FontResolver interface {
	ResolveFont(dict *object.Dictionary) Font
}

func (it *Interpreter) currentFont() Font {
	if it.Fonts == nil {
		return nil
	}
	name := object.Name(it.Stack.Top().Text.Font)
	if name == "" {
		return nil
	}
	res, ok := it.Resources.Lookup(ResourceFont, name)
	if !ok {
		return nil
	}
	dict, ok := res.(*object.Dictionary)
	if !ok {
		return nil
	}
	return it.Fonts.ResolveFont(dict)
}

// textRenderingMatrix computes TRM = diag(fs*hs, fs) · Tm · CTM with a
// translate by rise. Grounded on seehuhn-go-pdf/converter/converter.go's
// matrix.Matrix{fs*hs,0,0,fs,0,rise}.Mul(Tm).Mul(CTM) composition order.
func textRenderingMatrix(t TextState, ctm Matrix) Matrix {
	hs := t.HorizScale / 100
	params := Matrix{A: t.FontSize * hs, D: t.FontSize, F: t.Rise}
	return ctm.Concat(t.Tm).Concat(params)
}

// showString implements the per-glyph loop shared by Tj, ', " and the
// string elements of TJ: decode one character code at a time using the
// current font's code length, compute TRM, emit ShowGlyph, then advance
// the text matrix.
func (it *Interpreter) showString(data []byte) error {
	if it.mode != modeInsideText {
		return NewError(KindParseStructural, "Tj", "text-showing outside BT/ET")
	}
	font := it.currentFont()
	if font == nil {
		return NewError(KindMissingResource, "Tj", "no current font set")
	}

	glyphs := font.Decode(data)
	for _, g := range glyphs {
		top := it.Stack.Top()
		trm := textRenderingMatrix(top.Text, top.CTM)
		if proc, fontMatrix, ok := font.Type3Procedure(g.Code); ok {
			// A Type 3 font's own /Resources dict, if any, is the
			// innermost scope; descend's resource stack falls back to
			// the inherited scope when the font carries none, so nil here
			// is the correct "no override".
			if err := it.DescendType3Glyph(proc, fontMatrix, trm, nil); err != nil {
				it.Logger.Printf("engine: error: Type 3 glyph %d: %v", g.Code, err)
			}
		} else {
			it.Callbacks.ShowGlyph(trm, top.Text.Font, g.Code, g.Text, g.Displacement)
		}
		it.advanceText(g, font.Vertical())
	}
	return nil
}

// advanceText applies the advance formula:
//
//	(displacement·fontSize + charSpacing + wordSpacing-if-space) · hs
//
// horizontally (or the vertical analogue), to the text matrix.
func (it *Interpreter) advanceText(g Glyph, vertical bool) {
	t := &it.Stack.Top().Text
	hs := t.HorizScale / 100

	wordSpace := 0.0
	if g.IsSpace {
		wordSpace = t.WordSpace
	}

	if vertical {
		advance := g.Displacement*t.FontSize + t.CharSpace + wordSpace
		t.Tm = t.Tm.Concat(Translation(0, -advance))
		return
	}

	advance := (g.Displacement*t.FontSize + t.CharSpace + wordSpace) * hs
	t.Tm = t.Tm.Concat(Translation(advance, 0))
}

// adjustByThousandths implements the TJ numeric-adjustment rule: shift the
// text matrix by -a/1000 * fs * hs (horizontal) or the vertical analogue,
// applied consistently for both Tj/TJ paths.
func (it *Interpreter) adjustByThousandths(a float64, vertical bool) {
	t := &it.Stack.Top().Text
	shift := -a / 1000 * t.FontSize
	if vertical {
		t.Tm = t.Tm.Concat(Translation(0, shift))
		return
	}
	hs := t.HorizScale / 100
	t.Tm = t.Tm.Concat(Translation(shift*hs, 0))
}

func opShowText(it *Interpreter, operands []object.Object) error {
	s, ok := operands[0].(object.String)
	if !ok {
		return NewError(KindMissingOperand, "Tj", "non-string operand")
	}
	return it.showString([]byte(s))
}

func opNextLineShowText(it *Interpreter, operands []object.Object) error {
	s, ok := operands[0].(object.String)
	if !ok {
		return NewError(KindMissingOperand, "'", "non-string operand")
	}
	it.Stack.Top().Text.NextLine()
	return it.showString([]byte(s))
}

func opNextLineShowTextSpaced(it *Interpreter, operands []object.Object) error {
	aw, ok := num(operands[0])
	if !ok {
		return NewError(KindMissingOperand, "\"", "non-numeric word spacing")
	}
	ac, ok := num(operands[1])
	if !ok {
		return NewError(KindMissingOperand, "\"", "non-numeric char spacing")
	}
	s, ok := operands[2].(object.String)
	if !ok {
		return NewError(KindMissingOperand, "\"", "non-string operand")
	}
	t := &it.Stack.Top().Text
	t.WordSpace = aw
	t.CharSpace = ac
	t.NextLine()
	return it.showString([]byte(s))
}

func opShowTextArray(it *Interpreter, operands []object.Object) error {
	arr, ok := operands[0].(*object.Array)
	if !ok {
		return NewError(KindMissingOperand, "TJ", "non-array operand")
	}
	vertical := false
	if f := it.currentFont(); f != nil {
		vertical = f.Vertical()
	}
	for _, elem := range arr.Elements() {
		switch v := elem.(type) {
		case object.String:
			if err := it.showString([]byte(v)); err != nil {
				return err
			}
		default:
			if a, ok := num(v); ok {
				it.adjustByThousandths(a, vertical)
			}
		}
	}
	return nil
}
