// Package doc models a PDF document as an object graph rooted at a trailer
// and catalog, owned exclusively by its object table: pages, annotations
// and structure elements are reached only through indirect references, not
// held by value. This generalizes a flat, typed DDD aggregate style
// (a Document holding []*Page by value with no indirection at all) into an
// object-graph-backed one, since the composer clones and merges subgraphs
// across document boundaries and needs every reachable value to live in,
// and only in, its owning Table.
package doc

import (
	"fmt"

	"github.com/coregx/pdfcore/internal/object"
)

// Document is the aggregate root: a trailer dictionary, a catalog reached
// through it, and the object table both live in.
type Document struct {
	Table   *object.Table
	trailer *object.Dictionary
	version Version
}

// NewDocument creates an empty destination document, suitable as a
// composer output: a fresh object table with no resolver (every object it
// ever holds arrives via a direct Put, e.g. through internal/clone), a
// trailer, and a catalog with an empty page tree.
func NewDocument() *Document {
	table := object.NewTable(nil)

	pagesDict := object.NewDictionary()
	pagesDict.Set("Type", object.Name("Pages"))
	pagesDict.Set("Kids", object.NewArray())
	pagesDict.SetInteger("Count", 0)
	pagesRef := table.Put(0, 0, pagesDict)

	catalog := object.NewDictionary()
	catalog.Set("Type", object.Name("Catalog"))
	catalog.Set("Pages", pagesRef)
	catalogRef := table.Put(0, 0, catalog)

	trailer := object.NewDictionary()
	trailer.Set("Root", catalogRef)

	return &Document{Table: table, trailer: trailer, version: PDF17}
}

// Open wraps an already-populated table and trailer, as produced by an
// external parser. The trailer must carry a /Root entry resolving to a
// catalog dictionary.
func Open(table *object.Table, trailer *object.Dictionary, version Version) (*Document, error) {
	if trailer == nil {
		return nil, fmt.Errorf("doc: trailer is nil")
	}
	ref, ok := trailer.GetReference("Root")
	if !ok {
		return nil, fmt.Errorf("doc: trailer has no /Root entry")
	}
	if _, ok := table.Resolve(ref); !ok {
		return nil, fmt.Errorf("doc: /Root does not resolve to a catalog")
	}
	return &Document{Table: table, trailer: trailer, version: version}, nil
}

// Trailer returns the document's trailer dictionary.
func (d *Document) Trailer() *object.Dictionary { return d.trailer }

// Catalog returns the document's catalog dictionary.
func (d *Document) Catalog() *object.Dictionary {
	ref, ok := d.trailer.GetReference("Root")
	if !ok {
		return nil
	}
	cat, _ := d.Table.Resolve(ref)
	dict, _ := cat.(*object.Dictionary)
	return dict
}

// Version returns the document's PDF version.
func (d *Document) Version() Version { return d.version }

// SetVersion sets the document's PDF version.
func (d *Document) SetVersion(v Version) { d.version = v }

// pagesRoot returns the catalog's root page-tree node.
func (d *Document) pagesRoot() *object.Dictionary {
	cat := d.Catalog()
	if cat == nil {
		return nil
	}
	ref, ok := cat.GetReference("Pages")
	if !ok {
		return nil
	}
	obj, _ := d.Table.Resolve(ref)
	dict, _ := obj.(*object.Dictionary)
	return dict
}

// Pages walks the page tree in document order and returns every leaf page,
// wrapped for resource-inheriting access.
func (d *Document) Pages() []*Page {
	root := d.pagesRoot()
	if root == nil {
		return nil
	}
	var out []*Page
	d.walkPageTree(root, &out)
	return out
}

func (d *Document) walkPageTree(node *object.Dictionary, out *[]*Page) {
	if node == nil {
		return
	}
	if typ, ok := node.GetName("Type"); ok && typ == "Page" {
		*out = append(*out, newPage(node, d))
		return
	}
	kids, ok := node.GetArray("Kids")
	if !ok {
		return
	}
	for i := 0; i < kids.Len(); i++ {
		obj := kids.Get(i)
		if ref, ok := obj.(*object.IndirectReference); ok {
			obj, _ = d.Table.Resolve(ref)
		}
		if kid, ok := obj.(*object.Dictionary); ok {
			d.walkPageTree(kid, out)
		}
	}
}

// PageCount returns the number of leaf pages in the page tree.
func (d *Document) PageCount() int {
	return len(d.Pages())
}

// AppendPage inserts a new leaf page dictionary as the last kid of the root
// page-tree node, setting its /Parent and bumping the root /Count. Used by
// the composer (merge, split) once a page dictionary has been cloned into
// this document's table.
func (d *Document) AppendPage(pageDict *object.Dictionary) (*Page, error) {
	cat := d.Catalog()
	if cat == nil {
		return nil, fmt.Errorf("doc: document has no catalog")
	}
	pagesRef, ok := cat.GetReference("Pages")
	if !ok {
		return nil, fmt.Errorf("doc: document has no page tree")
	}
	root := d.pagesRoot()
	if root == nil {
		return nil, fmt.Errorf("doc: document has no page tree")
	}
	kids, ok := root.GetArray("Kids")
	if !ok {
		kids = object.NewArray()
		root.Set("Kids", kids)
	}

	ref := d.Table.Put(0, 0, pageDict)
	pageDict.Set("Parent", pagesRef)
	kids.Append(ref)

	count, _ := root.GetInteger("Count")
	root.SetInteger("Count", int64(count)+1)

	return newPage(pageDict, d), nil
}
