package object

import (
	"io"
	"strings"
)

// Array is an ordered sequence of PDF values.
//
// Not internally synchronized: this repository follows a
// single-writer-per-document contract instead of its predecessor's
// per-container sync.RWMutex. A caller sharing an Array across
// goroutines must serialize externally; a lock around one step of a
// multi-step composer operation (clone, merge, append) would not have made
// that operation atomic anyway.
type Array struct {
	elements []Object
}

// NewArray creates an empty array, optionally pre-populated.
func NewArray(elements ...Object) *Array {
	a := &Array{elements: make([]Object, len(elements))}
	copy(a.elements, elements)
	return a
}

func (a *Array) Kind() Kind { return KindArray }

func (a *Array) Len() int { return len(a.elements) }

// Get returns the element at index, or Null{} if out of range.
func (a *Array) Get(index int) Object {
	if index < 0 || index >= len(a.elements) {
		return Null{}
	}
	return a.elements[index]
}

// Set replaces the element at index. It is a no-op if index is out of range.
func (a *Array) Set(index int, value Object) {
	if index < 0 || index >= len(a.elements) {
		return
	}
	a.elements[index] = value
}

// Append adds one or more values to the end of the array.
func (a *Array) Append(values ...Object) {
	a.elements = append(a.elements, values...)
}

// AppendAll appends every element of other onto a, in order. Used directly
// by the deep-cloner's merge operation for array-kind values (
// "array contents are appended").
func (a *Array) AppendAll(other *Array) {
	if other == nil {
		return
	}
	a.elements = append(a.elements, other.elements...)
}

// Insert inserts value at index, shifting later elements right.
func (a *Array) Insert(index int, value Object) {
	if index < 0 || index > len(a.elements) {
		return
	}
	a.elements = append(a.elements, nil)
	copy(a.elements[index+1:], a.elements[index:])
	a.elements[index] = value
}

// Remove deletes the element at index.
func (a *Array) Remove(index int) {
	if index < 0 || index >= len(a.elements) {
		return
	}
	a.elements = append(a.elements[:index], a.elements[index+1:]...)
}

// Clear empties the array.
func (a *Array) Clear() { a.elements = a.elements[:0] }

// Elements returns a copy of the array's backing slice.
func (a *Array) Elements() []Object {
	out := make([]Object, len(a.elements))
	copy(out, a.elements)
	return out
}

func (a *Array) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, e := range a.elements {
		if i > 0 {
			b.WriteString(" ")
		}
		if e == nil {
			b.WriteString("null")
		} else {
			b.WriteString(e.String())
		}
	}
	b.WriteString("]")
	return b.String()
}

func (a *Array) WriteTo(w io.Writer) (int64, error) { return writeString(w, a.String()) }

// Clone returns a new Array with the same elements (shallow: element
// objects are not themselves cloned). Cross-document deep copy is
// internal/clone's job.
func (a *Array) Clone() Object {
	return NewArray(a.elements...)
}

// Dictionary is an insertion-ordered mapping from name to value. Duplicate
// keys are forbidden by construction (Set overwrites).
//
// Not internally synchronized; see the Array doc comment for the
// concurrency rationale.
type Dictionary struct {
	entries map[Name]Object
	keys    []Name
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{entries: make(map[Name]Object)}
}

func (d *Dictionary) Kind() Kind { return KindDictionary }

// Has reports whether key is present.
func (d *Dictionary) Has(key Name) bool {
	_, ok := d.entries[key]
	return ok
}

// Get returns the value for key, or Null{} if absent. Typed accessors below
// return a typed-absence signal instead of aborting.
func (d *Dictionary) Get(key Name) Object {
	if v, ok := d.entries[key]; ok {
		return v
	}
	return Null{}
}

// GetName returns the Name value for key and whether it was present and
// of the expected type.
func (d *Dictionary) GetName(key Name) (Name, bool) {
	v, ok := d.entries[key].(Name)
	return v, ok
}

// GetInteger returns the Integer value for key and whether it was present
// and of the expected type.
func (d *Dictionary) GetInteger(key Name) (Integer, bool) {
	v, ok := d.entries[key].(Integer)
	return v, ok
}

// GetReal returns the numeric value for key as a float64, accepting either
// Integer or Real, and whether it was present and numeric.
func (d *Dictionary) GetReal(key Name) (float64, bool) {
	switch v := d.entries[key].(type) {
	case Real:
		return float64(v), true
	case Integer:
		return float64(v), true
	default:
		return 0, false
	}
}

// GetBoolean returns the Boolean value for key and whether it was present
// and of the expected type.
func (d *Dictionary) GetBoolean(key Name) (Boolean, bool) {
	v, ok := d.entries[key].(Boolean)
	return v, ok
}

// GetString returns the String value for key and whether it was present
// and of the expected type.
func (d *Dictionary) GetString(key Name) (String, bool) {
	v, ok := d.entries[key].(String)
	return v, ok
}

// GetArray returns the *Array value for key and whether it was present and
// of the expected type.
func (d *Dictionary) GetArray(key Name) (*Array, bool) {
	v, ok := d.entries[key].(*Array)
	return v, ok
}

// GetDictionary returns the *Dictionary value for key and whether it was
// present and of the expected type.
func (d *Dictionary) GetDictionary(key Name) (*Dictionary, bool) {
	v, ok := d.entries[key].(*Dictionary)
	return v, ok
}

// GetReference returns the *IndirectReference value for key and whether it
// was present and of the expected type.
func (d *Dictionary) GetReference(key Name) (*IndirectReference, bool) {
	v, ok := d.entries[key].(*IndirectReference)
	return v, ok
}

// Set inserts or overwrites key with value, preserving original insertion
// position on overwrite and appending on first insertion.
func (d *Dictionary) Set(key Name, value Object) {
	if _, exists := d.entries[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.entries[key] = value
}

func (d *Dictionary) SetName(key Name, value Name)       { d.Set(key, value) }
func (d *Dictionary) SetInteger(key Name, value int64)   { d.Set(key, Integer(value)) }
func (d *Dictionary) SetReal(key Name, value float64)    { d.Set(key, Real(value)) }
func (d *Dictionary) SetBoolean(key Name, value bool)    { d.Set(key, Boolean(value)) }
func (d *Dictionary) SetString(key Name, value string)   { d.Set(key, String(value)) }

// Remove deletes key, if present.
func (d *Dictionary) Remove(key Name) {
	if _, exists := d.entries[key]; !exists {
		return
	}
	delete(d.entries, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the dictionary's keys in insertion order.
func (d *Dictionary) Keys() []Name {
	out := make([]Name, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of entries.
func (d *Dictionary) Len() int { return len(d.keys) }

// Clear empties the dictionary.
func (d *Dictionary) Clear() {
	d.entries = make(map[Name]Object)
	d.keys = nil
}

func (d *Dictionary) String() string {
	var b strings.Builder
	b.WriteString("<<")
	for _, k := range d.keys {
		b.WriteString(" ")
		b.WriteString(k.String())
		b.WriteString(" ")
		v := d.entries[k]
		if v == nil {
			b.WriteString("null")
		} else {
			b.WriteString(v.String())
		}
	}
	b.WriteString(" >>")
	return b.String()
}

func (d *Dictionary) WriteTo(w io.Writer) (int64, error) { return writeString(w, d.String()) }

// Clone returns a new Dictionary with the same entries (shallow).
func (d *Dictionary) Clone() Object {
	out := NewDictionary()
	for _, k := range d.keys {
		out.Set(k, d.entries[k])
	}
	return out
}

// Merge combines other into d in place: keys absent from d are copied in
// from other; keys present in both are left untouched (dst wins). This is a
// one-way copy, not commutative. Corrected from a predecessor version whose
// Merge instead always took other's value for every shared key (src-wins),
// backwards from the composer contract this package now has to satisfy.
func (d *Dictionary) Merge(other *Dictionary) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		if !d.Has(k) {
			d.Set(k, other.entries[k])
		}
	}
}
