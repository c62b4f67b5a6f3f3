package doc

import (
	"fmt"
	"strings"

	"github.com/coregx/pdfcore/internal/object"
)

// textFieldType is the only field type join mode currently knows how to
// coalesce; the two-mode merge rule is grounded on how the formfield model
// restricts itself to a fixed set of field types ("Tx", "Btn", "Ch", "Sig")
// with each carrying distinct validation rules, generalized here into a
// type-aware merge decision instead of a single flat validator.
const textFieldType = object.Name("Tx")

// MergeMode selects how AcroForm field-name conflicts are resolved when
// fields from two documents are combined under one destination AcroForm.
type MergeMode int

const (
	// MergeLegacy renames the incoming field with a numbered suffix so both
	// fields survive as distinct top-level entries.
	MergeLegacy MergeMode = iota
	// MergeJoin coalesces same-type, same-fully-qualified-name text fields
	// into one field by merging their widget kids; every other type falls
	// through to MergeLegacy behaviour.
	MergeJoin
)

// AcroForm wraps a document's /AcroForm dictionary.
type AcroForm struct {
	Dict *object.Dictionary
	doc  *Document
}

// AcroForm returns the document's interactive form dictionary, or nil.
func (d *Document) AcroForm() *AcroForm {
	cat := d.Catalog()
	if cat == nil {
		return nil
	}
	dict, ok := cat.GetDictionary("AcroForm")
	if !ok {
		return nil
	}
	return &AcroForm{Dict: dict, doc: d}
}

// EnsureAcroForm returns the document's AcroForm, creating an empty one
// rooted in the catalog if none exists. Used by the composer so a
// destination document that starts with no forms can still receive merged
// fields.
func (d *Document) EnsureAcroForm() *AcroForm {
	if af := d.AcroForm(); af != nil {
		return af
	}
	cat := d.Catalog()
	dict := object.NewDictionary()
	dict.Set("Fields", object.NewArray())
	ref := d.Table.Put(0, 0, dict)
	cat.Set("AcroForm", ref)
	return &AcroForm{Dict: dict, doc: d}
}

// Fields returns the form's top-level field dictionaries, resolving
// indirect entries.
func (a *AcroForm) Fields() []*Field {
	arr, ok := a.Dict.GetArray("Fields")
	if !ok {
		return nil
	}
	out := make([]*Field, 0, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		if dict, ok := a.doc.resolveDict(arr.Get(i)); ok {
			out = append(out, &Field{Dict: dict, doc: a.doc})
		}
	}
	return out
}

// Field wraps one field dictionary in a field tree (a field may itself be
// a widget annotation, or a non-terminal node whose /Kids are fields or
// widgets).
type Field struct {
	Dict *object.Dictionary
	doc  *Document
}

// NewField wraps a field dictionary that already lives in d's table.
// Exported so callers merging fields cloned from another document (whose
// /Parent references now resolve in d, not their original document) can
// build a Field over them directly.
func NewField(d *Document, dict *object.Dictionary) *Field {
	return &Field{Dict: dict, doc: d}
}

// PartialName returns the field's own /T entry.
func (f *Field) PartialName() (string, bool) {
	s, ok := f.Dict.GetString("T")
	return string(s), ok
}

// FieldType returns the field's /FT entry, inherited up the /Parent chain
// when absent (a widget kid commonly omits /FT and relies on its parent
// field's type).
func (f *Field) FieldType() (object.Name, bool) {
	node := f.Dict
	for i := 0; i < 64 && node != nil; i++ {
		if typ, ok := node.GetName("FT"); ok {
			return typ, true
		}
		ref, ok := node.GetReference("Parent")
		if !ok {
			return "", false
		}
		node, ok = f.doc.resolveDict(ref)
		if !ok {
			return "", false
		}
	}
	return "", false
}

// FullyQualifiedName joins this field's /T with every ancestor field's /T,
// most distant first, separated by ".", per the PDF fully qualified field
// name rule used to test for name collisions across documents.
func (f *Field) FullyQualifiedName() string {
	var parts []string
	node := f.Dict
	for i := 0; i < 64 && node != nil; i++ {
		if t, ok := node.GetString("T"); ok {
			parts = append([]string{string(t)}, parts...)
		}
		ref, ok := node.GetReference("Parent")
		if !ok {
			break
		}
		node, ok = f.doc.resolveDict(ref)
		if !ok {
			break
		}
	}
	return strings.Join(parts, ".")
}

// Kids returns the field's /Kids entries resolved as fields.
func (f *Field) Kids() []*Field {
	arr, ok := f.Dict.GetArray("Kids")
	if !ok {
		return nil
	}
	out := make([]*Field, 0, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		if dict, ok := f.doc.resolveDict(arr.Get(i)); ok {
			out = append(out, &Field{Dict: dict, doc: f.doc})
		}
	}
	return out
}

// collectNames indexes every field and nested field in the tree rooted at
// fields by fully qualified name.
func collectNames(fields []*Field, into map[string]*Field) {
	for _, f := range fields {
		into[f.FullyQualifiedName()] = f
		collectNames(f.Kids(), into)
	}
}

// MergeFields adds incoming top-level fields to dst, resolving fully
// qualified name conflicts per mode: MergeJoin coalesces same-type text
// fields by appending the incoming field's widget kids onto the existing
// field and discarding the incoming top-level entry; every other
// conflict, and every non-text conflict even under MergeJoin, is resolved
// by MergeLegacy's numbered-suffix rename so no field is silently dropped.
// incoming field dictionaries must already live in dst's table (cloned
// there by internal/clone) before this call.
func (a *AcroForm) MergeFields(incoming []*Field, mode MergeMode) error {
	existing := map[string]*Field{}
	collectNames(a.Fields(), existing)

	fieldsArr, ok := a.Dict.GetArray("Fields")
	if !ok {
		fieldsArr = object.NewArray()
		a.Dict.Set("Fields", fieldsArr)
	}

	for _, f := range incoming {
		name := f.FullyQualifiedName()
		prior, conflict := existing[name]

		if !conflict {
			ref := a.doc.Table.Put(0, 0, f.Dict)
			fieldsArr.Append(ref)
			existing[name] = f
			continue
		}

		if mode == MergeJoin {
			priorType, _ := prior.FieldType()
			incomingType, _ := f.FieldType()
			if priorType == textFieldType && incomingType == textFieldType {
				joinTextField(a.doc, prior, f)
				continue
			}
		}

		renamed, err := renameForLegacyMerge(a.doc, f, existing)
		if err != nil {
			return err
		}
		ref := a.doc.Table.Put(0, 0, renamed.Dict)
		fieldsArr.Append(ref)
		existing[renamed.FullyQualifiedName()] = renamed
	}
	return nil
}

// joinTextField merges f's own widget annotation entries onto prior,
// promoting prior to a non-terminal field with both widgets as /Kids if
// it was previously terminal (no /Kids of its own).
func joinTextField(d *Document, prior, f *Field) {
	kids, ok := prior.Dict.GetArray("Kids")
	if !ok {
		kids = object.NewArray()
		if prior.Dict.Has("Rect") {
			selfRef := d.Table.Put(0, 0, prior.Dict.Clone())
			kids.Append(selfRef)
		}
		prior.Dict.Set("Kids", kids)
	}
	if f.Dict.Has("Rect") {
		kids.Append(d.Table.Put(0, 0, f.Dict))
	} else if fk, ok := f.Dict.GetArray("Kids"); ok {
		kids.AppendAll(fk)
	}
}

// renameForLegacyMerge appends a numbered suffix to f's own /T entry until
// its fully qualified name is absent from existing.
func renameForLegacyMerge(d *Document, f *Field, existing map[string]*Field) (*Field, error) {
	base, _ := f.PartialName()
	if base == "" {
		return nil, fmt.Errorf("doc: cannot rename unnamed field for merge")
	}
	for n := 2; n < 10000; n++ {
		candidate := fmt.Sprintf("%s_%d", base, n)
		f.Dict.SetString("T", candidate)
		if _, taken := existing[f.FullyQualifiedName()]; !taken {
			return f, nil
		}
	}
	return nil, fmt.Errorf("doc: could not find a unique name for field %q", base)
}
