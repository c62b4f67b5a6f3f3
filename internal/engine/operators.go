package engine

import "github.com/coregx/pdfcore/internal/object"

// Operator describes one content-stream operator: its mnemonic, the number
// of operands it expects (surplus operands are ignored; a shortfall is a
// MissingOperand fault) and its handler. The registry is
// expressed as a table of Operator values rather than a type switch or a
// handler-per-subclass hierarchy, grounded on
// benoitkugler-pdf/contentstream/commands.go's `map[string]Operation`
// pattern — "operators themselves are values in a table, not subclasses to
// extend" — operators as data, not a type hierarchy.
type Operator struct {
	Mnemonic string
	Arity    int
	Handler  func(it *Interpreter, operands []object.Object) error
}

// operatorTable is populated once at package init and never mutated
// thereafter ( "read-only thereafter").
var operatorTable = map[string]*Operator{}

func register(mnemonic string, arity int, handler func(*Interpreter, []object.Object) error) {
	operatorTable[mnemonic] = &Operator{Mnemonic: mnemonic, Arity: arity, Handler: handler}
}

// LookupOperator returns the registered Operator for mnemonic, if any.
func LookupOperator(mnemonic string) (*Operator, bool) {
	op, ok := operatorTable[mnemonic]
	return op, ok
}

func init() {
	// Special graphics state.
	register("q", 0, opSave)
	register("Q", 0, opRestore)
	register("cm", 6, opConcat)

	// General graphics state.
	register("w", 1, opLineWidth)
	register("J", 1, opLineCap)
	register("j", 1, opLineJoin)
	register("M", 1, opMiterLimit)
	register("d", 2, opDash)
	register("ri", 1, opRenderingIntent)
	register("i", 1, opFlatness)
	register("gs", 1, opExtGState)

	// Path construction.
	register("m", 2, opMoveTo)
	register("l", 2, opLineTo)
	register("c", 6, opCurveTo)
	register("v", 4, opCurveToV)
	register("y", 4, opCurveToY)
	register("re", 4, opRectangle)
	register("h", 0, opClosePath)

	// Path painting.
	register("S", 0, opStroke)
	register("s", 0, opCloseAndStroke)
	register("f", 0, opFillNonZero)
	register("F", 0, opFillNonZero)
	register("f*", 0, opFillEvenOdd)
	register("B", 0, opFillStrokeNonZero)
	register("B*", 0, opFillStrokeEvenOdd)
	register("b", 0, opCloseFillStrokeNonZero)
	register("b*", 0, opCloseFillStrokeEvenOdd)
	register("n", 0, opEndPath)

	// Clipping.
	register("W", 0, opClipNonZero)
	register("W*", 0, opClipEvenOdd)

	// Text object.
	register("BT", 0, opBeginText)
	register("ET", 0, opEndText)

	// Text state.
	register("Tc", 1, opCharSpace)
	register("Tw", 1, opWordSpace)
	register("Tz", 1, opHorizScale)
	register("TL", 1, opLeading)
	register("Tf", 2, opFont)
	register("Tr", 1, opRenderMode)
	register("Ts", 1, opRise)

	// Text positioning.
	register("Td", 2, opTextMove)
	register("TD", 2, opTextMoveSetLeading)
	register("Tm", 6, opTextMatrix)
	register("T*", 0, opTextNextLine)

	// Text showing.
	register("Tj", 1, opShowText)
	register("'", 1, opNextLineShowText)
	register("\"", 3, opNextLineShowTextSpaced)
	register("TJ", 1, opShowTextArray)

	// Color.
	register("CS", 1, opStrokeColorSpace)
	register("cs", 1, opFillColorSpace)
	register("SC", -1, opStrokeColor)
	register("SCN", -1, opStrokeColorN)
	register("sc", -1, opFillColor)
	register("scn", -1, opFillColorN)
	register("G", 1, opStrokeGray)
	register("g", 1, opFillGray)
	register("RG", 3, opStrokeRGB)
	register("rg", 3, opFillRGB)
	register("K", 4, opStrokeCMYK)
	register("k", 4, opFillCMYK)

	// Shading.
	register("sh", 1, opShadingFill)

	// Inline image. BI/ID/EI are handled specially by the interpreter's
	// tokenizer loop (their payload is raw bytes, not operand tokens), so
	// they are registered here only as markers the dispatch loop
	// recognizes; Handler is nil and never invoked through the table.
	register("BI", 0, nil)
	register("ID", 0, nil)
	register("EI", 0, nil)

	// XObject.
	register("Do", 1, opDoXObject)

	// Marked content.
	register("BMC", 1, opBeginMarkedContentSimple)
	register("BDC", 2, opBeginMarkedContentWithProps)
	register("EMC", 0, opEndMarkedContent)
	register("MP", 1, opMarkedContentPoint)
	register("DP", 2, opMarkedContentPointWithProps)

	// Compatibility.
	register("BX", 0, opBeginCompat)
	register("EX", 0, opEndCompat)
}
