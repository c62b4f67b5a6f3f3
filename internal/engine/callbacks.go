package engine

// Callbacks is the interpreter's entire output surface: the capability set
// the engine exposes to a consumer: an implementer provides an
// implementation of these callbacks and the engine is generic over that
// implementation. A rasterizer, a text
// extractor, and a validator are all just different Callbacks
// implementations; none of them subclass the interpreter.
type Callbacks interface {
	BeginText()
	EndText()
	ShowGlyph(trm Matrix, font string, code uint32, text string, displacement float64)

	AppendRectangle(x, y, w, h float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	CurveTo(x1, y1, x2, y2, x3, y3 float64)
	ClosePath()

	StrokePath()
	FillPath(rule WindingRule)
	FillAndStrokePath(rule WindingRule)
	EndPath()
	Clip(rule WindingRule)

	DrawImage(name string)
	ShadingFill(name string)

	BeginMarkedContent(tag string, properties string)
	EndMarkedContent()
}

// NopCallbacks implements Callbacks with every method a no-op. Embed it in
// a partial implementation to only override the callbacks you care about.
type NopCallbacks struct{}

func (NopCallbacks) BeginText() {}
func (NopCallbacks) EndText()   {}
func (NopCallbacks) ShowGlyph(Matrix, string, uint32, string, float64) {}

func (NopCallbacks) AppendRectangle(float64, float64, float64, float64) {}
func (NopCallbacks) MoveTo(float64, float64)                            {}
func (NopCallbacks) LineTo(float64, float64)                            {}
func (NopCallbacks) CurveTo(float64, float64, float64, float64, float64, float64) {}
func (NopCallbacks) ClosePath()                                         {}

func (NopCallbacks) StrokePath()                      {}
func (NopCallbacks) FillPath(WindingRule)              {}
func (NopCallbacks) FillAndStrokePath(WindingRule)     {}
func (NopCallbacks) EndPath()                          {}
func (NopCallbacks) Clip(WindingRule)                  {}

func (NopCallbacks) DrawImage(string)    {}
func (NopCallbacks) ShadingFill(string)  {}

func (NopCallbacks) BeginMarkedContent(string, string) {}
func (NopCallbacks) EndMarkedContent()                 {}

var _ Callbacks = NopCallbacks{}
