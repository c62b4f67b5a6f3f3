// Package compose implements the structure-aware document composer built
// atop internal/clone and internal/doc: merging, splitting, overlaying and
// layering pages while preserving tagged-structure graphs, AcroForm
// fields, name trees, outlines, page labels, output intents and
// optional-content properties across document boundaries.
package compose

import (
	"fmt"

	"github.com/coregx/pdfcore/internal/clone"
	"github.com/coregx/pdfcore/internal/doc"
	"github.com/coregx/pdfcore/internal/object"
)

// pageSelection tracks one page to be merged, in the order it was added.
type pageSelection struct {
	source    *doc.Document
	pageIndex int
}

// Merger builds a destination document out of pages selected from one or
// more source documents, splicing every per-kind document-level structure
// (tagged structure tree, AcroForm, name trees, outlines, page labels,
// output intents, optional-content properties, viewer preferences,
// language, mark info) along the way. Mirrors the builder shape of a
// page-selecting merge helper (AddPages/AddPageRange/AddAllPages, then a
// single terminal call) but builds an in-memory destination document
// rather than writing bytes to a file, since this package never produces
// PDF output itself.
type Merger struct {
	dst        *doc.Document
	selections []pageSelection
	fieldMode  doc.MergeMode
}

// NewMerger creates a Merger with a fresh, empty destination document.
func NewMerger() *Merger {
	return &Merger{dst: doc.NewDocument(), fieldMode: doc.MergeLegacy}
}

// SetFieldMergeMode selects how AcroForm field-name conflicts between
// sources are resolved (doc.MergeLegacy or doc.MergeJoin). Legacy is the
// default.
func (m *Merger) SetFieldMergeMode(mode doc.MergeMode) {
	m.fieldMode = mode
}

// AddPages adds specific 1-based page numbers from source, in the order
// given.
func (m *Merger) AddPages(source *doc.Document, pageNums ...int) error {
	if len(pageNums) == 0 {
		return fmt.Errorf("compose: no page numbers specified")
	}
	count := source.PageCount()
	for _, n := range pageNums {
		if n < 1 || n > count {
			return fmt.Errorf("compose: invalid page %d (source has %d pages)", n, count)
		}
		m.selections = append(m.selections, pageSelection{source: source, pageIndex: n - 1})
	}
	return nil
}

// AddPageRange adds the 1-based, inclusive page range [start, end] from
// source.
func (m *Merger) AddPageRange(source *doc.Document, start, end int) error {
	if start < 1 {
		return fmt.Errorf("compose: start page must be >= 1")
	}
	if end < start {
		return fmt.Errorf("compose: end page must be >= start page")
	}
	count := source.PageCount()
	if end > count {
		return fmt.Errorf("compose: end page %d exceeds source page count %d", end, count)
	}
	for n := start; n <= end; n++ {
		m.selections = append(m.selections, pageSelection{source: source, pageIndex: n - 1})
	}
	return nil
}

// AddAllPages adds every page of source, in order.
func (m *Merger) AddAllPages(source *doc.Document) {
	count := source.PageCount()
	for i := 0; i < count; i++ {
		m.selections = append(m.selections, pageSelection{source: source, pageIndex: i})
	}
}

// sourceState tracks the per-source cloner (the spec's "objMapping:
// source-dict → dest-dict", which clone.Cloner.visited already
// implements) and the destination page count observed just before this
// source's first page was appended, which later per-kind merges offset
// page-indexed data (page labels) by.
type sourceState struct {
	source        *doc.Document
	cloner        *clone.Cloner
	pageOffset    int
	clonedPages   []*doc.Page
}

// Merge clones every selected page into the destination document in
// selection order, then stitches each source's document-level structures
// into the destination once, and returns the assembled document.
func (m *Merger) Merge() (*doc.Document, error) {
	if len(m.selections) == 0 {
		return nil, fmt.Errorf("compose: no pages to merge")
	}

	states := map[*doc.Document]*sourceState{}
	var order []*sourceState

	for _, sel := range m.selections {
		st, ok := states[sel.source]
		if !ok {
			if err := rejectDynamicXFA(sel.source); err != nil {
				return nil, err
			}
			st = &sourceState{
				source:     sel.source,
				cloner:     clone.NewCloner(m.dst.Table),
				pageOffset: m.dst.PageCount(),
			}
			states[sel.source] = st
			order = append(order, st)
		}

		pages := sel.source.Pages()
		if sel.pageIndex < 0 || sel.pageIndex >= len(pages) {
			return nil, fmt.Errorf("compose: invalid page index %d", sel.pageIndex)
		}
		srcPage := pages[sel.pageIndex]

		clonedDict, ok := st.cloner.Clone(srcPage.Dict, sel.source.Table).(*object.Dictionary)
		if !ok {
			return nil, fmt.Errorf("compose: cloned page did not produce a dictionary")
		}
		dstPage, err := m.dst.AppendPage(clonedDict)
		if err != nil {
			return nil, fmt.Errorf("compose: failed to append page: %w", err)
		}
		st.clonedPages = append(st.clonedPages, dstPage)
	}

	if err := m.stitchStructureTrees(order); err != nil {
		return nil, err
	}
	m.stitchNameTrees(order)
	m.stitchOutlines(order)
	m.stitchPageLabels(order)
	m.stitchOutputIntents(order)
	m.stitchOCProperties(order)
	if err := m.stitchAcroForms(order); err != nil {
		return nil, err
	}
	m.stitchViewerPreferences(order)
	m.stitchLanguageAndMarkInfo(order)

	return m.dst, nil
}

func rejectDynamicXFA(source *doc.Document) error {
	af := source.AcroForm()
	if af == nil {
		return nil
	}
	if xfa, ok := af.Dict.GetArray("XFA"); ok && xfa.Len() > 0 {
		if needs, ok := af.Dict.GetBoolean("NeedsRendering"); ok && bool(needs) {
			return fmt.Errorf("compose: source document uses dynamic XFA forms, which are not supported")
		}
	}
	return nil
}
