package engine

import "github.com/coregx/pdfcore/internal/object"

func num(o object.Object) (float64, bool) {
	switch v := o.(type) {
	case object.Integer:
		return float64(v), true
	case object.Real:
		return float64(v), true
	default:
		return 0, false
	}
}

func nums(operands []object.Object, n int) ([]float64, bool) {
	if len(operands) < n {
		return nil, false
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, ok := num(operands[i])
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// --- Special graphics state ---

func opSave(it *Interpreter, _ []object.Object) error {
	it.Stack.Push()
	return nil
}

func opRestore(it *Interpreter, _ []object.Object) error {
	if !it.Stack.Pop() {
		return NewError(KindEmptyGraphicsStack, "Q", "restore with only the sentinel state on the stack")
	}
	return nil
}

func opConcat(it *Interpreter, operands []object.Object) error {
	vals, ok := nums(operands, 6)
	if !ok {
		return NewError(KindInvalidMatrix, "cm", "non-numeric operand")
	}
	m := Matrix{A: vals[0], B: vals[1], C: vals[2], D: vals[3], E: vals[4], F: vals[5]}
	top := it.Stack.Top()
	top.CTM = top.CTM.Concat(m)
	return nil
}

// --- General graphics state ---

func opLineWidth(it *Interpreter, operands []object.Object) error {
	v, ok := num(operands[0])
	if !ok {
		return NewError(KindMissingOperand, "w", "non-numeric line width")
	}
	it.Stack.Top().LineWidth = v
	return nil
}

func opLineCap(it *Interpreter, operands []object.Object) error {
	v, ok := operands[0].(object.Integer)
	if !ok {
		return NewError(KindMissingOperand, "J", "non-integer line cap")
	}
	it.Stack.Top().LineCap = int(v)
	return nil
}

func opLineJoin(it *Interpreter, operands []object.Object) error {
	v, ok := operands[0].(object.Integer)
	if !ok {
		return NewError(KindMissingOperand, "j", "non-integer line join")
	}
	it.Stack.Top().LineJoin = int(v)
	return nil
}

func opMiterLimit(it *Interpreter, operands []object.Object) error {
	v, ok := num(operands[0])
	if !ok {
		return NewError(KindMissingOperand, "M", "non-numeric miter limit")
	}
	it.Stack.Top().MiterLimit = v
	return nil
}

func opDash(it *Interpreter, operands []object.Object) error {
	arr, ok := operands[0].(*object.Array)
	if !ok {
		return NewError(KindMissingOperand, "d", "first operand not an array")
	}
	phase, ok := num(operands[1])
	if !ok {
		return NewError(KindMissingOperand, "d", "non-numeric phase")
	}
	pattern := make([]float64, 0, arr.Len())
	for _, e := range arr.Elements() {
		if v, ok := num(e); ok {
			pattern = append(pattern, v)
		}
	}
	top := it.Stack.Top()
	top.DashPattern = pattern
	top.DashPhase = phase
	return nil
}

func opRenderingIntent(it *Interpreter, operands []object.Object) error {
	n, ok := operands[0].(object.Name)
	if !ok {
		return NewError(KindMissingOperand, "ri", "non-name intent")
	}
	it.Stack.Top().RenderingIntent = string(n)
	return nil
}

func opFlatness(it *Interpreter, operands []object.Object) error {
	v, ok := num(operands[0])
	if !ok {
		return NewError(KindMissingOperand, "i", "non-numeric flatness")
	}
	it.Stack.Top().FlatnessTolerance = v
	return nil
}

func opExtGState(it *Interpreter, operands []object.Object) error {
	n, ok := operands[0].(object.Name)
	if !ok {
		return NewError(KindMissingOperand, "gs", "non-name resource")
	}
	gsDict, ok := it.Resources.Lookup(ResourceExtGState, n)
	if !ok {
		return NewError(KindMissingResource, "gs", "ExtGState "+string(n)+" not found")
	}
	dict, ok := gsDict.(*object.Dictionary)
	if !ok {
		return nil
	}
	top := it.Stack.Top()
	if v, ok := dict.GetReal("LW"); ok {
		top.LineWidth = v
	}
	if v, ok := dict.GetReal("CA"); ok {
		top.StrokeAlpha = v
	}
	if v, ok := dict.GetReal("ca"); ok {
		top.FillAlpha = v
	}
	if v, ok := dict.GetName("BM"); ok {
		top.BlendMode = BlendMode(v)
	}
	if v, ok := dict.GetName("SMask"); ok {
		top.SoftMask = string(v)
	} else if _, isNull := dict.Get("SMask").(object.Null); isNull {
		top.SoftMask = ""
	}
	return nil
}

// --- Path construction ---

func opMoveTo(it *Interpreter, operands []object.Object) error {
	vals, ok := nums(operands, 2)
	if !ok {
		return NewError(KindMissingOperand, "m", "non-numeric operand")
	}
	it.mode = modeInsidePath
	it.currentPath.Segments = append(it.currentPath.Segments, PathSegment{Op: 'm', Points: [3][2]float64{{vals[0], vals[1]}}})
	it.Callbacks.MoveTo(vals[0], vals[1])
	return nil
}

func opLineTo(it *Interpreter, operands []object.Object) error {
	if it.mode != modeInsidePath {
		return NewError(KindParseStructural, "l", "lineto outside a path")
	}
	vals, ok := nums(operands, 2)
	if !ok {
		return NewError(KindMissingOperand, "l", "non-numeric operand")
	}
	it.currentPath.Segments = append(it.currentPath.Segments, PathSegment{Op: 'l', Points: [3][2]float64{{vals[0], vals[1]}}})
	it.Callbacks.LineTo(vals[0], vals[1])
	return nil
}

func opCurveTo(it *Interpreter, operands []object.Object) error {
	vals, ok := nums(operands, 6)
	if !ok {
		return NewError(KindMissingOperand, "c", "non-numeric operand")
	}
	it.currentPath.Segments = append(it.currentPath.Segments, PathSegment{Op: 'c', Points: [3][2]float64{{vals[0], vals[1]}, {vals[2], vals[3]}, {vals[4], vals[5]}}})
	it.Callbacks.CurveTo(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5])
	return nil
}

// opCurveToV handles the `v` operator: first control point coincides with
// the current point.
func opCurveToV(it *Interpreter, operands []object.Object) error {
	vals, ok := nums(operands, 4)
	if !ok {
		return NewError(KindMissingOperand, "v", "non-numeric operand")
	}
	cur := it.currentPoint()
	it.currentPath.Segments = append(it.currentPath.Segments, PathSegment{Op: 'c', Points: [3][2]float64{cur, {vals[0], vals[1]}, {vals[2], vals[3]}}})
	it.Callbacks.CurveTo(cur[0], cur[1], vals[0], vals[1], vals[2], vals[3])
	return nil
}

// opCurveToY handles the `y` operator: second control point coincides with
// the endpoint.
func opCurveToY(it *Interpreter, operands []object.Object) error {
	vals, ok := nums(operands, 4)
	if !ok {
		return NewError(KindMissingOperand, "y", "non-numeric operand")
	}
	it.currentPath.Segments = append(it.currentPath.Segments, PathSegment{Op: 'c', Points: [3][2]float64{{vals[0], vals[1]}, {vals[2], vals[3]}, {vals[2], vals[3]}}})
	it.Callbacks.CurveTo(vals[0], vals[1], vals[2], vals[3], vals[2], vals[3])
	return nil
}

func (it *Interpreter) currentPoint() [2]float64 {
	if len(it.currentPath.Segments) == 0 {
		return [2]float64{}
	}
	last := it.currentPath.Segments[len(it.currentPath.Segments)-1]
	return last.Points[len(last.Points)-1]
}

func opRectangle(it *Interpreter, operands []object.Object) error {
	vals, ok := nums(operands, 4)
	if !ok {
		return NewError(KindMissingOperand, "re", "non-numeric operand")
	}
	it.mode = modeInsidePath
	x, y, w, h := vals[0], vals[1], vals[2], vals[3]
	it.currentPath.Segments = append(it.currentPath.Segments,
		PathSegment{Op: 'm', Points: [3][2]float64{{x, y}}},
		PathSegment{Op: 'l', Points: [3][2]float64{{x + w, y}}},
		PathSegment{Op: 'l', Points: [3][2]float64{{x + w, y + h}}},
		PathSegment{Op: 'l', Points: [3][2]float64{{x, y + h}}},
		PathSegment{Op: 'h'},
	)
	it.Callbacks.AppendRectangle(x, y, w, h)
	return nil
}

func opClosePath(it *Interpreter, _ []object.Object) error {
	it.currentPath.Segments = append(it.currentPath.Segments, PathSegment{Op: 'h'})
	it.Callbacks.ClosePath()
	return nil
}

// --- Path painting ---

func (it *Interpreter) endPathConstruction() {
	it.mode = modeOutsideText
	it.currentPath = Path{}
}

func opStroke(it *Interpreter, _ []object.Object) error {
	it.Callbacks.StrokePath()
	it.endPathConstruction()
	return nil
}

func opCloseAndStroke(it *Interpreter, _ []object.Object) error {
	it.Callbacks.ClosePath()
	it.Callbacks.StrokePath()
	it.endPathConstruction()
	return nil
}

func opFillNonZero(it *Interpreter, _ []object.Object) error {
	it.Callbacks.FillPath(NonZeroWinding)
	it.endPathConstruction()
	return nil
}

func opFillEvenOdd(it *Interpreter, _ []object.Object) error {
	it.Callbacks.FillPath(EvenOddWinding)
	it.endPathConstruction()
	return nil
}

func opFillStrokeNonZero(it *Interpreter, _ []object.Object) error {
	it.Callbacks.FillAndStrokePath(NonZeroWinding)
	it.endPathConstruction()
	return nil
}

func opFillStrokeEvenOdd(it *Interpreter, _ []object.Object) error {
	it.Callbacks.FillAndStrokePath(EvenOddWinding)
	it.endPathConstruction()
	return nil
}

func opCloseFillStrokeNonZero(it *Interpreter, _ []object.Object) error {
	it.Callbacks.ClosePath()
	it.Callbacks.FillAndStrokePath(NonZeroWinding)
	it.endPathConstruction()
	return nil
}

func opCloseFillStrokeEvenOdd(it *Interpreter, _ []object.Object) error {
	it.Callbacks.ClosePath()
	it.Callbacks.FillAndStrokePath(EvenOddWinding)
	it.endPathConstruction()
	return nil
}

func opEndPath(it *Interpreter, _ []object.Object) error {
	it.Callbacks.EndPath()
	it.endPathConstruction()
	return nil
}

// --- Clipping ---

func opClipNonZero(it *Interpreter, _ []object.Object) error {
	it.Callbacks.Clip(NonZeroWinding)
	return nil
}

func opClipEvenOdd(it *Interpreter, _ []object.Object) error {
	it.Callbacks.Clip(EvenOddWinding)
	return nil
}

// --- Text object ---

func opBeginText(it *Interpreter, _ []object.Object) error {
	it.mode = modeInsideText
	it.Stack.Top().Text.BeginText()
	it.Callbacks.BeginText()
	return nil
}

func opEndText(it *Interpreter, _ []object.Object) error {
	if it.mode != modeInsideText {
		it.Logger.Printf("engine: warning: ET without matching BT")
	}
	it.mode = modeOutsideText
	it.Callbacks.EndText()
	return nil
}

// --- Text state ---

func opCharSpace(it *Interpreter, operands []object.Object) error {
	v, ok := num(operands[0])
	if !ok {
		return NewError(KindMissingOperand, "Tc", "non-numeric operand")
	}
	it.Stack.Top().Text.CharSpace = v
	return nil
}

func opWordSpace(it *Interpreter, operands []object.Object) error {
	v, ok := num(operands[0])
	if !ok {
		return NewError(KindMissingOperand, "Tw", "non-numeric operand")
	}
	it.Stack.Top().Text.WordSpace = v
	return nil
}

func opHorizScale(it *Interpreter, operands []object.Object) error {
	v, ok := num(operands[0])
	if !ok {
		return NewError(KindMissingOperand, "Tz", "non-numeric operand")
	}
	it.Stack.Top().Text.HorizScale = v
	return nil
}

func opLeading(it *Interpreter, operands []object.Object) error {
	v, ok := num(operands[0])
	if !ok {
		return NewError(KindMissingOperand, "TL", "non-numeric operand")
	}
	it.Stack.Top().Text.Leading = v
	return nil
}

func opFont(it *Interpreter, operands []object.Object) error {
	name, ok := operands[0].(object.Name)
	if !ok {
		return NewError(KindMissingOperand, "Tf", "non-name font")
	}
	size, ok := num(operands[1])
	if !ok {
		return NewError(KindMissingOperand, "Tf", "non-numeric size")
	}
	t := &it.Stack.Top().Text
	t.Font = string(name)
	t.FontSize = size
	return nil
}

func opRenderMode(it *Interpreter, operands []object.Object) error {
	v, ok := operands[0].(object.Integer)
	if !ok {
		return NewError(KindMissingOperand, "Tr", "non-integer mode")
	}
	it.Stack.Top().Text.RenderingMode = RenderingMode(v)
	return nil
}

func opRise(it *Interpreter, operands []object.Object) error {
	v, ok := num(operands[0])
	if !ok {
		return NewError(KindMissingOperand, "Ts", "non-numeric operand")
	}
	it.Stack.Top().Text.Rise = v
	return nil
}

// --- Text positioning ---

func opTextMove(it *Interpreter, operands []object.Object) error {
	if it.mode != modeInsideText {
		return NewError(KindParseStructural, "Td", "text positioning outside BT/ET")
	}
	vals, ok := nums(operands, 2)
	if !ok {
		return NewError(KindMissingOperand, "Td", "non-numeric operand")
	}
	it.Stack.Top().Text.Translate(vals[0], vals[1])
	return nil
}

func opTextMoveSetLeading(it *Interpreter, operands []object.Object) error {
	if it.mode != modeInsideText {
		return NewError(KindParseStructural, "TD", "text positioning outside BT/ET")
	}
	vals, ok := nums(operands, 2)
	if !ok {
		return NewError(KindMissingOperand, "TD", "non-numeric operand")
	}
	it.Stack.Top().Text.TranslateSetLeading(vals[0], vals[1])
	return nil
}

func opTextMatrix(it *Interpreter, operands []object.Object) error {
	vals, ok := nums(operands, 6)
	if !ok {
		return NewError(KindMissingOperand, "Tm", "non-numeric operand")
	}
	m := Matrix{A: vals[0], B: vals[1], C: vals[2], D: vals[3], E: vals[4], F: vals[5]}
	it.Stack.Top().Text.SetMatrix(m)
	return nil
}

func opTextNextLine(it *Interpreter, _ []object.Object) error {
	it.Stack.Top().Text.NextLine()
	return nil
}

// --- Color ---

func opStrokeColorSpace(it *Interpreter, operands []object.Object) error {
	n, ok := operands[0].(object.Name)
	if !ok {
		return NewError(KindInvalidColor, "CS", "non-name colorspace")
	}
	it.Stack.Top().StrokeColor = Color{Space: string(n)}
	return nil
}

func opFillColorSpace(it *Interpreter, operands []object.Object) error {
	n, ok := operands[0].(object.Name)
	if !ok {
		return NewError(KindInvalidColor, "cs", "non-name colorspace")
	}
	it.Stack.Top().FillColor = Color{Space: string(n)}
	return nil
}

func colorComponents(operands []object.Object) ([]float64, string) {
	var comps []float64
	var pattern string
	for _, o := range operands {
		if v, ok := num(o); ok {
			comps = append(comps, v)
			continue
		}
		if n, ok := o.(object.Name); ok {
			pattern = string(n)
		}
	}
	return comps, pattern
}

func opStrokeColor(it *Interpreter, operands []object.Object) error {
	comps, _ := colorComponents(operands)
	c := &it.Stack.Top().StrokeColor
	c.Components = comps
	return nil
}

func opStrokeColorN(it *Interpreter, operands []object.Object) error {
	comps, pattern := colorComponents(operands)
	c := &it.Stack.Top().StrokeColor
	c.Components = comps
	c.PatternRef = pattern
	return nil
}

func opFillColor(it *Interpreter, operands []object.Object) error {
	comps, _ := colorComponents(operands)
	c := &it.Stack.Top().FillColor
	c.Components = comps
	return nil
}

func opFillColorN(it *Interpreter, operands []object.Object) error {
	comps, pattern := colorComponents(operands)
	c := &it.Stack.Top().FillColor
	c.Components = comps
	c.PatternRef = pattern
	return nil
}

func opStrokeGray(it *Interpreter, operands []object.Object) error {
	v, ok := num(operands[0])
	if !ok {
		return NewError(KindInvalidColor, "G", "non-numeric operand")
	}
	it.Stack.Top().StrokeColor = Color{Space: "DeviceGray", Components: []float64{v}}
	return nil
}

func opFillGray(it *Interpreter, operands []object.Object) error {
	v, ok := num(operands[0])
	if !ok {
		return NewError(KindInvalidColor, "g", "non-numeric operand")
	}
	it.Stack.Top().FillColor = Color{Space: "DeviceGray", Components: []float64{v}}
	return nil
}

func opStrokeRGB(it *Interpreter, operands []object.Object) error {
	vals, ok := nums(operands, 3)
	if !ok {
		return NewError(KindInvalidColor, "RG", "non-numeric operand")
	}
	it.Stack.Top().StrokeColor = Color{Space: "DeviceRGB", Components: vals}
	return nil
}

func opFillRGB(it *Interpreter, operands []object.Object) error {
	vals, ok := nums(operands, 3)
	if !ok {
		return NewError(KindInvalidColor, "rg", "non-numeric operand")
	}
	it.Stack.Top().FillColor = Color{Space: "DeviceRGB", Components: vals}
	return nil
}

func opStrokeCMYK(it *Interpreter, operands []object.Object) error {
	vals, ok := nums(operands, 4)
	if !ok {
		return NewError(KindInvalidColor, "K", "non-numeric operand")
	}
	it.Stack.Top().StrokeColor = Color{Space: "DeviceCMYK", Components: vals}
	return nil
}

func opFillCMYK(it *Interpreter, operands []object.Object) error {
	vals, ok := nums(operands, 4)
	if !ok {
		return NewError(KindInvalidColor, "k", "non-numeric operand")
	}
	it.Stack.Top().FillColor = Color{Space: "DeviceCMYK", Components: vals}
	return nil
}

// --- Shading ---

func opShadingFill(it *Interpreter, operands []object.Object) error {
	n, ok := operands[0].(object.Name)
	if !ok {
		return NewError(KindMissingResource, "sh", "non-name shading")
	}
	if _, ok := it.Resources.Lookup(ResourceShading, n); !ok {
		return NewError(KindMissingResource, "sh", "shading "+string(n)+" not found")
	}
	it.Callbacks.ShadingFill(string(n))
	return nil
}

// --- XObject ---

func opDoXObject(it *Interpreter, operands []object.Object) error {
	n, ok := operands[0].(object.Name)
	if !ok {
		return NewError(KindMissingResource, "Do", "non-name XObject")
	}
	res, ok := it.Resources.Lookup(ResourceXObject, n)
	if !ok {
		return NewError(KindMissingResource, "Do", "XObject "+string(n)+" not found")
	}
	stream, ok := res.(*object.Stream)
	if !ok {
		return NewError(KindMissingResource, "Do", "XObject "+string(n)+" is not a stream")
	}
	subtype, _ := stream.Dictionary().GetName("Subtype")
	if subtype == "Image" {
		it.Callbacks.DrawImage(string(n))
		return nil
	}

	// Form XObject: descend 
	m := Identity()
	if arr, ok := stream.Dictionary().GetArray("Matrix"); ok && arr.Len() == 6 {
		vals := make([]float64, 6)
		for i := 0; i < 6; i++ {
			v, _ := num(arr.Get(i))
			vals[i] = v
		}
		m = Matrix{A: vals[0], B: vals[1], C: vals[2], D: vals[3], E: vals[4], F: vals[5]}
	}

	var bboxPtr *[4]float64
	if arr, ok := stream.Dictionary().GetArray("BBox"); ok && arr.Len() == 4 {
		var bbox [4]float64
		for i := 0; i < 4; i++ {
			v, _ := num(arr.Get(i))
			bbox[i] = v
		}
		bboxPtr = &bbox
	}

	resDict, _ := stream.Dictionary().GetDictionary("Resources")

	kind := descendForm
	isGroup := false
	if _, ok := stream.Dictionary().GetDictionary("Group"); ok {
		kind = descendTransparencyGroup
		isGroup = true
	}

	return it.descend(descentParams{
		Kind:      kind,
		Stream:    stream,
		Matrix:    m,
		Resources: resDict,
		BBox:      bboxPtr,
		IsGroup:   isGroup,
	})
}

// --- Marked content ---

func opBeginMarkedContentSimple(it *Interpreter, operands []object.Object) error {
	tag, ok := operands[0].(object.Name)
	if !ok {
		return NewError(KindMissingOperand, "BMC", "non-name tag")
	}
	it.Callbacks.BeginMarkedContent(string(tag), "")
	return nil
}

func opBeginMarkedContentWithProps(it *Interpreter, operands []object.Object) error {
	tag, ok := operands[0].(object.Name)
	if !ok {
		return NewError(KindMissingOperand, "BDC", "non-name tag")
	}
	props := ""
	if n, ok := operands[1].(object.Name); ok {
		props = string(n)
	}
	it.Callbacks.BeginMarkedContent(string(tag), props)
	return nil
}

func opEndMarkedContent(it *Interpreter, _ []object.Object) error {
	it.Callbacks.EndMarkedContent()
	return nil
}

func opMarkedContentPoint(it *Interpreter, operands []object.Object) error {
	tag, ok := operands[0].(object.Name)
	if !ok {
		return NewError(KindMissingOperand, "MP", "non-name tag")
	}
	it.Callbacks.BeginMarkedContent(string(tag), "")
	it.Callbacks.EndMarkedContent()
	return nil
}

func opMarkedContentPointWithProps(it *Interpreter, operands []object.Object) error {
	tag, ok := operands[0].(object.Name)
	if !ok {
		return NewError(KindMissingOperand, "DP", "non-name tag")
	}
	props := ""
	if n, ok := operands[1].(object.Name); ok {
		props = string(n)
	}
	it.Callbacks.BeginMarkedContent(string(tag), props)
	it.Callbacks.EndMarkedContent()
	return nil
}

// --- Compatibility ---

func opBeginCompat(it *Interpreter, _ []object.Object) error { return nil }
func opEndCompat(it *Interpreter, _ []object.Object) error   { return nil }
