package doc

import (
	"github.com/coregx/pdfcore/internal/object"
)

// OCProperties wraps a document's /OCProperties dictionary: the set of
// optional-content groups (OCGs) defined anywhere in the document and the
// default configuration controlling their initial visibility.
type OCProperties struct {
	Dict *object.Dictionary
	doc  *Document
}

// OCProperties returns the document's optional-content properties, if set.
func (d *Document) OCProperties() (*OCProperties, bool) {
	cat := d.Catalog()
	if cat == nil {
		return nil, false
	}
	dict, ok := cat.GetDictionary("OCProperties")
	if !ok {
		return nil, false
	}
	return &OCProperties{Dict: dict, doc: d}, true
}

// EnsureOCProperties returns the document's optional-content properties,
// creating an empty set with an empty default configuration if none
// exists.
func (d *Document) EnsureOCProperties() *OCProperties {
	if p, ok := d.OCProperties(); ok {
		return p
	}
	def := object.NewDictionary()
	def.Set("ON", object.NewArray())
	def.Set("OFF", object.NewArray())
	def.Set("Order", object.NewArray())

	dict := object.NewDictionary()
	dict.Set("OCGs", object.NewArray())
	dict.Set("D", def)
	d.Catalog().Set("OCProperties", dict)
	return &OCProperties{Dict: dict, doc: d}
}

// NewOCProperties wraps an /OCProperties dictionary that already lives in
// d's table. Exported so callers merging properties cloned from another
// document can build an OCProperties over them directly.
func NewOCProperties(d *Document, dict *object.Dictionary) *OCProperties {
	return &OCProperties{Dict: dict, doc: d}
}

func (p *OCProperties) defaultConfig() *object.Dictionary {
	def, ok := p.Dict.GetDictionary("D")
	if !ok {
		def = object.NewDictionary()
		p.Dict.Set("D", def)
	}
	return def
}

func arrayOrEmpty(dict *object.Dictionary, key object.Name) *object.Array {
	arr, ok := dict.GetArray(key)
	if !ok {
		arr = object.NewArray()
		dict.Set(key, arr)
	}
	return arr
}

// Merge appends other's groups and default-configuration arrays (OCGs,
// ON, OFF, Order) onto p's, without deduplication: optional-content
// groups carry no document-independent identity, so two groups from
// different source documents are always treated as distinct even if they
// happened to share a /Name, the same way this package concatenates
// rather than identity-matches page trees and structure trees.
func (p *OCProperties) Merge(other *OCProperties) {
	if other == nil {
		return
	}
	arrayOrEmpty(p.Dict, "OCGs").AppendAll(mustArray(other.Dict, "OCGs"))

	dstDef := p.defaultConfig()
	srcDef := other.defaultConfig()
	arrayOrEmpty(dstDef, "ON").AppendAll(mustArray(srcDef, "ON"))
	arrayOrEmpty(dstDef, "OFF").AppendAll(mustArray(srcDef, "OFF"))
	arrayOrEmpty(dstDef, "Order").AppendAll(mustArray(srcDef, "Order"))
}

func mustArray(dict *object.Dictionary, key object.Name) *object.Array {
	arr, _ := dict.GetArray(key)
	return arr
}
