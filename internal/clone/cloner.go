// Package clone implements the identity-memoized deep-copy and merge
// operations the document composer is built on: copying object-model
// subgraphs from a source document's object table into a destination
// table, de-duplicating shared substructure and rewriting self-references
// instead of recursing forever.
//
// No prior file implements this: creator/merger.go's copyPagesToOutput
// only ever copied page geometry and left a comment admitting content
// copying was deferred to a writer that was never completed
// (writer.WriteWithAllContent takes empty content maps). This package is
// new code, written in the surrounding error-wrapping and per-type Clone()
// method conventions (internal/parser/collections.go's Array.Clone /
// Dictionary.Clone establish the per-type-clone idiom this package
// composes over).
package clone

import "github.com/coregx/pdfcore/internal/object"

// Cloner performs identity-memoized deep copies of object-model subgraphs
// into a destination object table. One Cloner instance is meant to span
// one composer operation (one page copy, one merge) so that repeated or
// cyclic references within that operation resolve to the same destination
// value; a fresh Cloner should be created per operation rather than reused
// across unrelated ones.
type Cloner struct {
	dst *object.Table

	// visited maps a source container/stream's identity to the destination
	// clone already produced for it. Re-encountering the same source value
	// (shared substructure, or a cycle) returns the existing clone instead
	// of copying it again.
	visited map[object.Object]object.Object
}

// NewCloner constructs a Cloner that inserts cloned values into dst.
func NewCloner(dst *object.Table) *Cloner {
	return &Cloner{dst: dst, visited: make(map[object.Object]object.Object)}
}

// Clone returns a value in the destination document equal in structure to
// value but sharing no mutable state with it. src resolves indirect
// references encountered while walking value; pass nil to copy references
// as bare (number, generation) pairs without following them.
//
// Scalars (Null, Boolean, Integer, Real, Name, String) are returned as-is:
// they are immutable by value, so there is nothing to copy and no identity
// to memoize. Containers and streams are copied field-by-field, with each
// source identity visited at most once per Cloner.
func (c *Cloner) Clone(value object.Object, src *object.Table) object.Object {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case object.Null:
		return v
	case object.Boolean:
		return v
	case object.Integer:
		return v
	case object.Real:
		return v
	case object.Name:
		return v
	case object.String:
		return v
	case *object.IndirectReference:
		return c.cloneReference(v, src)
	case *object.Array:
		return c.cloneArray(v, src)
	case *object.Dictionary:
		return c.cloneDictionary(v, src)
	case *object.Stream:
		return c.cloneStream(v, src)
	default:
		return value.Clone()
	}
}

// cloneReference dereferences ref through src (when given), clones the
// resolved value into the destination table, and returns a new reference
// to the clone's slot. The destination slot is allocated and registered in
// visited before the resolved value is cloned, so a cycle through this
// reference (the classic "dictionary referencing itself" cycle) resolves
// back to this same reference instead of looping.
func (c *Cloner) cloneReference(ref *object.IndirectReference, src *object.Table) object.Object {
	if clone, ok := c.visited[ref]; ok {
		return clone
	}
	if src == nil {
		clone := ref.Clone()
		c.visited[ref] = clone
		return clone
	}

	resolved, ok := src.Resolve(ref)
	if !ok {
		return object.Null{}
	}

	placeholder := c.dst.Put(0, 0, object.Null{})
	c.visited[ref] = placeholder

	clonedValue := c.Clone(resolved, src)
	c.dst.Put(placeholder.Number, placeholder.Generation, clonedValue)
	return placeholder
}

func (c *Cloner) cloneArray(v *object.Array, src *object.Table) object.Object {
	if clone, ok := c.visited[v]; ok {
		return clone
	}
	dst := object.NewArray()
	c.visited[v] = dst
	for _, elem := range v.Elements() {
		dst.Append(c.Clone(elem, src))
	}
	return dst
}

func (c *Cloner) cloneDictionary(v *object.Dictionary, src *object.Table) object.Object {
	if clone, ok := c.visited[v]; ok {
		return clone
	}
	dst := object.NewDictionary()
	c.visited[v] = dst
	for _, key := range v.Keys() {
		dst.Set(key, c.Clone(v.Get(key), src))
	}
	return dst
}

// cloneStream copies a stream's raw bytes verbatim (filter decoding is an
// external-parser concern, not this package's) and clones its dictionary
// the same way any other dictionary is cloned. The destination stream is
// registered in visited before its dictionary is populated, so a stream
// whose own dictionary references the stream resolves correctly.
func (c *Cloner) cloneStream(v *object.Stream, src *object.Table) object.Object {
	if clone, ok := c.visited[v]; ok {
		return clone
	}
	content := make([]byte, len(v.Content()))
	copy(content, v.Content())

	dst := object.NewStream(object.NewDictionary(), content)
	c.visited[v] = dst

	for _, key := range v.Dictionary().Keys() {
		dst.Dictionary().Set(key, c.Clone(v.Dictionary().Get(key), src))
	}
	return dst
}

// Merge combines src into dst in place: dictionary keys absent from dst
// are cloned in from src; keys present in both recurse into Merge when
// both sides are the same kind, otherwise dst's value wins (CloneTypeMismatch,
// logged by the caller, never this package — Merge itself stays silent so
// it composes without an injected logger); array contents are appended.
// Not commutative: dst wins on every conflict merge cannot recurse through.
func (c *Cloner) Merge(src, dst object.Object, srcTable *object.Table) {
	switch s := src.(type) {
	case *object.Dictionary:
		d, ok := dst.(*object.Dictionary)
		if !ok {
			return
		}
		c.mergeDictionary(s, d, srcTable)
	case *object.Array:
		a, ok := dst.(*object.Array)
		if !ok {
			return
		}
		c.mergeArray(s, a, srcTable)
	}
}

func (c *Cloner) mergeDictionary(src, dst *object.Dictionary, srcTable *object.Table) {
	for _, key := range src.Keys() {
		srcVal := src.Get(key)
		if !dst.Has(key) {
			dst.Set(key, c.Clone(srcVal, srcTable))
			continue
		}
		dstVal := dst.Get(key)
		switch srcVal.(type) {
		case *object.Dictionary, *object.Array:
			if srcVal.Kind() == dstVal.Kind() {
				c.Merge(srcVal, dstVal, srcTable)
			}
			// Kind mismatch: dst wins, nothing to do.
		default:
			// Scalar conflict: dst wins, nothing to do.
		}
	}
}

func (c *Cloner) mergeArray(src, dst *object.Array, srcTable *object.Table) {
	for _, elem := range src.Elements() {
		dst.Append(c.Clone(elem, srcTable))
	}
}
