package engine

import (
	"bytes"
	"log"

	"github.com/coregx/pdfcore/internal/object"
)

// maxDescentDepth bounds recursion into Form XObjects, patterns, Type 3
// glyphs, transparency groups and annotation appearances. Grounded on
// seehuhn-go-pdf/reader/marked_content_test.go's
// maxMarkedContentDepth = 64 constant — the same recursion-guard idea,
// generalized from marked-content nesting to the engine's general descent
// counter: a monotonic level counter checked against a configurable limit.
const maxDescentDepth = 64

// streamMode names the interpreter's three-state machine: outside-text,
// inside-text, inside-path.
type streamMode int

const (
	modeOutsideText streamMode = iota
	modeInsideText
	modeInsidePath
)

// Resolver is the document-side collaborator the interpreter needs:
// dereferencing indirect references encountered in resource dictionaries
// (fonts, XObjects, patterns, ...). The external parser / document layer
// implements this; the interpreter only ever consumes it.
type Resolver interface {
	Resolve(ref *object.IndirectReference) (object.Object, bool)
}

// Interpreter is the stream engine (component D): it drives the operator
// registry (C) using a token source, maintaining the graphics/text state
// stack (B) and resource scope, and issuing Callbacks. One Interpreter
// instance processes one document at a time, single-threaded and
// cooperative; there is no internal locking.
type Interpreter struct {
	Stack     *GraphicsStack
	Resources *ResourceStack
	Callbacks Callbacks
	Resolver  Resolver
	Fonts     FontResolver
	Logger    *log.Logger

	mode  streamMode
	depth int

	// currentPath accumulates path-construction operators between an
	// opening m/re and the next painting operator, per the inside-path
	// state.
	currentPath Path

	// initialMatrix records the coordinate frame a descended child entered
	// with, so pattern placement inside that child knows its parent frame
	// (see descend's step 3).
	initialMatrix Matrix

	maxDepthOverride int
}

// Config bundles the construction-time dependencies of an Interpreter.
type Config struct {
	PageResources *object.Dictionary
	InitialState  GraphicsState
	Callbacks     Callbacks
	Resolver      Resolver
	Fonts         FontResolver
	Logger        *log.Logger
	MaxDepth      int // 0 means maxDescentDepth
}

// New constructs an Interpreter ready to process a page's content stream.
func New(cfg Config) *Interpreter {
	if cfg.Callbacks == nil {
		cfg.Callbacks = NopCallbacks{}
	}
	if cfg.Logger == nil {
		cfg.Logger = discardLogger()
	}
	state := cfg.InitialState
	if state.CTM == (Matrix{}) {
		state = NewGraphicsState()
	}
	maxDepth := cfg.MaxDepth
	if maxDepth == 0 {
		maxDepth = maxDescentDepth
	}
	return &Interpreter{
		Stack:            NewGraphicsStack(state),
		Resources:        NewResourceStack(cfg.PageResources, cfg.Logger),
		Callbacks:        cfg.Callbacks,
		Resolver:         cfg.Resolver,
		Fonts:            cfg.Fonts,
		Logger:           cfg.Logger,
		initialMatrix:    state.CTM,
		maxDepthOverride: maxDepth,
	}
}

func (it *Interpreter) maxDepth() int { return it.maxDepthOverride }

// Run evaluates a page content stream's tokens (src) to completion. Page
// content is the one entry point that does not go through descend: it is
// evaluated directly against the interpreter's current stack and resources.
func (it *Interpreter) Run(src object.TokenSource) error {
	return it.evaluate(src)
}

// evaluate drives the operand-collection / dispatch loop against src.
// Operand-stack collection is grounded on
// internal/extractor/content_parser.go's ParseOperators, generalized from
// parser.PdfObject to object.Object and moved under the operator-table
// dispatch required here instead of its predecessor's flat table-only scan.
func (it *Interpreter) evaluate(src object.TokenSource) error {
	var operands []object.Object

	for {
		tok, err := src.PeekToken()
		if err != nil {
			return err
		}
		if tok.Type == object.TokenEOF {
			return nil
		}

		if tok.Type == object.TokenKeyword {
			_, _ = src.NextToken()

			if tok.Value == "BI" {
				if err := it.skipInlineImage(src); err != nil {
					return err
				}
				operands = operands[:0]
				continue
			}

			if err := it.dispatch(tok.Value, operands); err != nil {
				return err
			}
			operands = operands[:0]
			continue
		}

		v, err := object.ReadValue(src)
		if err != nil {
			// ParseStructural: malformed token stream past recovery.
			return NewError(KindParseStructural, "", err.Error())
		}
		operands = append(operands, v)
	}
}

// skipInlineImage consumes BI ... ID <binary> EI without interpreting the
// image (image decoding is out of scope here). The inline image's
// binary payload is not itself tokenizable PDF syntax, so the interpreter
// scans for the EI keyword the way its predecessor's lexer does for recovery
// (skipTo), rather than attempting to tokenize it.
func (it *Interpreter) skipInlineImage(src object.TokenSource) error {
	// Consume the key/value dictionary entries up to ID.
	for {
		tok, err := src.PeekToken()
		if err != nil {
			return err
		}
		if tok.Type == object.TokenKeyword && tok.Value == "ID" {
			_, _ = src.NextToken()
			break
		}
		if tok.Type == object.TokenEOF {
			return NewError(KindParseStructural, "BI", "unterminated inline image dictionary")
		}
		_, _ = src.NextToken()
	}
	it.Callbacks.DrawImage("")
	// The binary data and trailing EI keyword are a lexical concern the
	// byte-level lexer must special-case; this interpreter only reports
	// that an inline image occurred and trusts the token source to resume
	// clean lexing at EI.
	for {
		tok, err := src.NextToken()
		if err != nil {
			return err
		}
		if tok.Type == object.TokenEOF {
			return NewError(KindParseStructural, "BI", "missing EI")
		}
		if tok.Type == object.TokenKeyword && tok.Value == "EI" {
			return nil
		}
	}
}

// dispatch looks up mnemonic in the registry and invokes its handler,
// applying the per-operator error policy: unknown operators
// are logged at info and ignored; missing operands are logged at error and
// the operand stack is cleared; all recognized faults recover locally
// except those the caller chooses to escalate.
func (it *Interpreter) dispatch(mnemonic string, operands []object.Object) error {
	op, ok := LookupOperator(mnemonic)
	if !ok {
		it.Logger.Printf("engine: info: unknown operator %q ignored", mnemonic)
		return nil
	}
	if op.Handler == nil {
		return nil
	}
	if op.Arity >= 0 && len(operands) < op.Arity {
		it.Logger.Printf("engine: error: missing operand for %q (want %d, got %d)", mnemonic, op.Arity, len(operands))
		return nil
	}

	err := op.Handler(it, operands)
	if err == nil {
		return nil
	}

	eerr, ok := err.(*EngineError)
	if !ok {
		return err
	}
	switch eerr.Kind {
	case KindMissingOperand, KindMissingResource, KindMissingImageDecoder, KindEmptyGraphicsStack,
		KindInvalidMatrix, KindInvalidColor, KindDepthExceeded, KindUnknownOperator:
		it.Logger.Printf("engine: %s: operator %q: %s", eerr.Kind.Severity(), mnemonic, eerr.Reason)
		return nil
	default:
		return eerr
	}
}

// descentKind names which of the five sub-stream entry points (every entry
// point except page content, which Run evaluates directly) a descend call
// is handling, so the one shared helper can apply only the steps that
// apply to that kind; the five kinds only differ in which of steps 3-7
// apply.
type descentKind int

const (
	descendForm descentKind = iota
	descendTransparencyGroup
	descendType3Glyph
	descendTilingPattern
	descendAnnotationAppearance
)

// descentParams bundles the per-call inputs to descend.
type descentParams struct {
	Kind      descentKind
	Stream    *object.Stream
	Matrix    Matrix // child's own matrix, concatenated onto the CTM (step 3)
	Resources *object.Dictionary
	BBox      *[4]float64 // clip target (step 4); nil means no bbox clip (Type 3)
	IsGroup   bool        // reset blend/alpha/softmask (step 5)

	// BaseCTM overrides the CTM that Matrix concatenates onto (step 3),
	// instead of the caller's current top-of-stack CTM. Used by Type 3
	// glyph descent, where the text-rendering matrix itself becomes the
	// new CTM rather than being concatenated onto whatever CTM happened
	// to be in force (Type 3 glyph descent: the text-rendering matrix
	// becomes the new current transformation matrix).
	BaseCTM *Matrix
}

// descend implements steps 1-9 of descent uniformly across the five
// sub-stream entry points, parameterized by descentKind — the
// "generalize, don't duplicate" move the five near-identical entry points
// call for.
func (it *Interpreter) descend(p descentParams) error {
	if it.depth >= it.maxDepth() {
		return NewError(KindDepthExceeded, "Do", "maximum descent depth exceeded")
	}
	it.depth++
	defer func() { it.depth-- }()

	// Step 1: push resources (child's own, else inherited, else page).
	releaseResources := it.Resources.Push(p.Resources)
	defer releaseResources()

	// Step 2: save the full graphics stack, then reset the working stack
	// to a fresh stack containing only a clone of the current top.
	savedStack := it.Stack.Snapshot()
	it.Stack.ResetToTopClone()
	defer it.Stack.Restore(savedStack)

	top := it.Stack.Top()
	savedInitialMatrix := it.initialMatrix

	// Step 3: concatenate the child's matrix onto the CTM; update the
	// initial-matrix record. BaseCTM, when set, replaces the inherited top
	// CTM as the base of that concatenation (Type 3 glyph descent: the
	// text-rendering matrix itself becomes the new CTM, not something
	// concatenated onto whatever CTM happened to be in force).
	base := top.CTM
	if p.BaseCTM != nil {
		base = *p.BaseCTM
	}
	top.CTM = base.Concat(p.Matrix)
	it.initialMatrix = top.CTM
	defer func() { it.initialMatrix = savedInitialMatrix }()

	// Step 4: clip to the child's bounding box, except Type 3 (unreliable
	// bbox; this is a deliberate design choice, not an oversight).
	if p.BBox != nil && p.Kind != descendType3Glyph {
		bx := *p.BBox
		top.Clip = &ClipRegion{
			Path: &Path{Segments: []PathSegment{
				{Op: 'm', Points: [3][2]float64{{bx[0], bx[1]}}},
				{Op: 'l', Points: [3][2]float64{{bx[2], bx[1]}}},
				{Op: 'l', Points: [3][2]float64{{bx[2], bx[3]}}},
				{Op: 'l', Points: [3][2]float64{{bx[0], bx[3]}}},
				{Op: 'h'},
			}},
			Rule:   NonZeroWinding,
			Active: true,
		}
	}

	// Step 5: transparency groups reset blend mode, alpha, soft mask.
	if p.IsGroup {
		top.BlendMode = BlendNormal
		top.StrokeAlpha = 1
		top.FillAlpha = 1
		top.SoftMask = ""
	}

	// Step 6: Type 3 and patterns reinitialize text matrix/line matrix so
	// a stray BT/ET inside does not leak into the parent.
	if p.Kind == descendType3Glyph || p.Kind == descendTilingPattern {
		top.Text.BeginText()
	}

	// Step 7 (annotation appearances) is handled by the caller before
	// invoking descend: it computes the placement matrix and passes it as
	// p.Matrix, since the bbox-then-annotation-rect mapping needs the
	// annotation's rectangle, which is not otherwise part of descend's
	// generic inputs.

	savedMode := it.mode
	it.mode = modeOutsideText
	defer func() { it.mode = savedMode }()

	// Step 8: evaluate operators.
	content, err := p.Stream.DecodedContent()
	if err != nil {
		return NewError(KindParseStructural, "Do", "failed to decode stream: "+err.Error())
	}
	lexer := object.NewLexer(bytes.NewReader(content))

	// Step 9 (unconditional restore on every exit path, including faults)
	// is implemented by the defers registered above, which run regardless
	// of how evaluate returns.
	return it.evaluate(lexer)
}

// DescendType3Glyph evaluates a Type 3 font's character procedure for one
// glyph. Unlike Form XObjects (triggered by Do) and transparency groups
// (triggered whenever a Form XObject carries a /Group entry), Type 3 glyphs
// are never reached by the interpreter's own dispatch loop: nothing in the
// content-stream operator set names a font's glyph procedures, so a Font
// implementation that returns ok=true from Type3Procedure calls this
// directly (from showString, see text.go) once per shown code.
//
// trm is the text-rendering matrix computed for that glyph: it becomes
// the new current transformation matrix; fontMatrix is the glyph's own
// /FontMatrix, composed onto trm so
// that coordinates inside the procedure land in glyph space pre-multiplied
// by fontMatrix·TRM.
func (it *Interpreter) DescendType3Glyph(proc *object.Stream, fontMatrix Matrix, trm Matrix, resources *object.Dictionary) error {
	return it.descend(descentParams{
		Kind:      descendType3Glyph,
		Stream:    proc,
		Matrix:    fontMatrix,
		Resources: resources,
		BaseCTM:   &trm,
	})
}

// DescendTilingPattern evaluates a tiling pattern's content stream once, for
// a single tile. Like Type 3 glyphs, tiling patterns are never reached by
// the dispatch loop on their own: a Callbacks implementation that notices
// the current fill or stroke Color has a PatternRef set calls this directly
// from its FillPath/StrokePath handling, once per tile it chooses to paint.
//
// patternMatrix is the pattern's own /Matrix, mapping pattern space to the
// default coordinate space of the pattern's parent content stream — it
// concatenates onto the page's initial matrix, not the CTM in force at the
// point of painting, per the PDF pattern-space rule; callers pass that
// initial matrix as baseCTM.
func (it *Interpreter) DescendTilingPattern(stream *object.Stream, patternMatrix Matrix, baseCTM Matrix, resources *object.Dictionary, bbox *[4]float64) error {
	return it.descend(descentParams{
		Kind:      descendTilingPattern,
		Stream:    stream,
		Matrix:    patternMatrix,
		Resources: resources,
		BBox:      bbox,
		BaseCTM:   &baseCTM,
	})
}

// DescendAnnotationAppearance evaluates an annotation's normal appearance
// stream. Nothing in a page's own content stream references an annotation's
// appearance; a page-rendering driver calls this once per visible
// annotation after computing the appearance's placement matrix (the
// /BBox-to-/Rect mapping describes) and passes it as
// placement.
func (it *Interpreter) DescendAnnotationAppearance(stream *object.Stream, placement Matrix, resources *object.Dictionary, bbox *[4]float64) error {
	return it.descend(descentParams{
		Kind:      descendAnnotationAppearance,
		Stream:    stream,
		Matrix:    placement,
		Resources: resources,
		BBox:      bbox,
	})
}
