// Package pdfcore is a content-stream interpreter and structure-aware
// document composer for Go.
//
// # Quick Start
//
// Open a document and merge pages from two sources into a new one:
//
//	a, err := pdfcore.Open(tableA, trailerA, pdfcore.PDF17)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	b, err := pdfcore.Open(tableB, trailerB, pdfcore.PDF17)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m := pdfcore.NewMerger()
//	m.AddAllPages(a)
//	m.AddPageRange(b, 1, 3)
//	out, err := m.Merge()
//
// # Architecture
//
//   - internal/object: the PDF object model (dictionaries, arrays,
//     streams, indirect references) and the lexer/tokenizer boundary a
//     caller-supplied parser feeds tokens through.
//   - internal/engine: the content-stream interpreter, dispatching
//     operators against a graphics-state stack via caller-supplied
//     callbacks.
//   - internal/clone: identity-memoized deep copy and merge of object-model
//     subgraphs across document boundaries.
//   - internal/doc: the document/page/structure-tree/AcroForm/name-tree/
//     outline/page-label/optional-content object graph.
//   - internal/observer: indirect-object mutation tracking for incremental
//     save.
//   - compose: the document composer (merge, split, overlay, layer) built
//     on top of the packages above.
//
// This package never parses PDF bytes or writes them back out; it expects
// a caller-supplied object table (see internal/object.Resolver) and never
// produces one.
package pdfcore

import (
	"github.com/coregx/pdfcore/compose"
	"github.com/coregx/pdfcore/internal/doc"
	"github.com/coregx/pdfcore/internal/object"
)

// Document is a PDF document's object graph: a trailer, a catalog reached
// through it, and the object table both live in.
type Document = doc.Document

// Version is an immutable PDF version (e.g. 1.4, 1.7, 2.0).
type Version = doc.Version

// Common PDF versions.
var (
	PDF10 = doc.PDF10
	PDF11 = doc.PDF11
	PDF12 = doc.PDF12
	PDF13 = doc.PDF13
	PDF14 = doc.PDF14
	PDF15 = doc.PDF15
	PDF16 = doc.PDF16
	PDF17 = doc.PDF17
	PDF20 = doc.PDF20
)

// Open wraps an already-populated object table and trailer, as produced by
// a caller's own parser, into a Document.
func Open(table *object.Table, trailer *object.Dictionary, version Version) (*Document, error) {
	return doc.Open(table, trailer, version)
}

// NewDocument creates an empty document, suitable as a composer
// destination.
func NewDocument() *Document {
	return doc.NewDocument()
}

// Merger builds a destination document out of pages selected from one or
// more source documents. See compose.Merger.
type Merger = compose.Merger

// NewMerger creates a Merger with a fresh, empty destination document.
func NewMerger() *Merger {
	return compose.NewMerger()
}

// MergeMode selects how AcroForm field-name conflicts between sources are
// resolved during a merge.
type MergeMode = doc.MergeMode

// Field merge modes.
const (
	MergeLegacy = doc.MergeLegacy
	MergeJoin   = doc.MergeJoin
)

// Splitter extracts page ranges of a source document into independent
// output documents. See compose.Splitter.
type Splitter = compose.Splitter

// NewSplitter creates a Splitter over source.
func NewSplitter(source *Document) *Splitter {
	return compose.NewSplitter(source)
}

// Overlayer stamps the pages of one document onto the pages of another at
// a chosen placement. See compose.Overlayer.
type Overlayer = compose.Overlayer

// NewOverlayer creates an Overlayer stamping overlay's pages onto base.
func NewOverlayer(base, overlay *Document) *Overlayer {
	return compose.NewOverlayer(base, overlay)
}

// Layerer imports a document's pages as optional-content layers on top of
// a base document's pages. See compose.Layerer.
type Layerer = compose.Layerer

// NewLayerer creates a Layerer importing source's pages as layers onto
// base.
func NewLayerer(base, source *Document) *Layerer {
	return compose.NewLayerer(base, source)
}

// Rotator applies in-place page rotation across a document. See
// compose.Rotator.
type Rotator = compose.Rotator

// NewRotator creates a Rotator over target.
func NewRotator(target *Document) *Rotator {
	return compose.NewRotator(target)
}
