package object

import (
	"fmt"
	"io"
)

// IndirectReference is a PDF indirect reference: (object number, generation
// number), resolved through a document's object Table to any other Object.
type IndirectReference struct {
	Number     int
	Generation int
}

// NewIndirectReference constructs a reference.
func NewIndirectReference(number, generation int) *IndirectReference {
	return &IndirectReference{Number: number, Generation: generation}
}

func (r *IndirectReference) Kind() Kind { return KindReference }

func (r *IndirectReference) String() string {
	return fmt.Sprintf("%d %d R", r.Number, r.Generation)
}

func (r *IndirectReference) WriteTo(w io.Writer) (int64, error) { return writeString(w, r.String()) }

func (r *IndirectReference) Clone() Object {
	return NewIndirectReference(r.Number, r.Generation)
}

// Equals compares two references by (number, generation).
func (r *IndirectReference) Equals(other *IndirectReference) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Number == other.Number && r.Generation == other.Generation
}

// objKey is the map key a Table indexes entries by.
type objKey struct {
	number     int
	generation int
}

// Resolver loads an object from backing storage on demand. The external
// byte-parser is the only implementer of this interface this repository
// expects to exist; the engine and composer only ever consume it, never
// implement it.
type Resolver interface {
	Resolve(number, generation int) (Object, error)
}

// Table is a document's object table: the single owner of every indirect
// object belonging to that document. It loads entries from an injected
// Resolver on first access and caches the result, so repeated dereferences
// of the same reference return the identical Object value (required for
// the identity-based container equality the rest of the model relies on).
//
// Table is the object table a document is expected to own: every object
// resolved via a per-document table, cached after first resolution. Its
// predecessor had no equivalent (its
// internal/parser.Resolve was an unimplemented stub).
type Table struct {
	resolver Resolver
	entries  map[objKey]Object
	nextNum  int
}

// NewTable creates an object table backed by resolver. resolver may be nil
// for tables that are populated entirely by direct Put calls (as composer
// destinations are).
func NewTable(resolver Resolver) *Table {
	return &Table{resolver: resolver, entries: make(map[objKey]Object), nextNum: 1}
}

// Resolve returns the object named by ref, loading it from the resolver on
// first access. Unresolved references (resolver nil, or resolver error)
// are reported as the caller-visible pair (Null{}, false); the engine
// treats this as "null with a warning".
func (t *Table) Resolve(ref *IndirectReference) (Object, bool) {
	if ref == nil {
		return Null{}, false
	}
	key := objKey{ref.Number, ref.Generation}
	if v, ok := t.entries[key]; ok {
		return v, true
	}
	if t.resolver == nil {
		return Null{}, false
	}
	v, err := t.resolver.Resolve(ref.Number, ref.Generation)
	if err != nil || v == nil {
		return Null{}, false
	}
	t.entries[key] = v
	return v, true
}

// Deref resolves obj if it is an *IndirectReference, otherwise returns obj
// unchanged. This is the convenience most call sites want: "give me the
// concrete value no matter how many indirections away it is" (PDF forbids
// reference-to-reference chains, so one hop suffices).
func (t *Table) Deref(obj Object) Object {
	if ref, ok := obj.(*IndirectReference); ok {
		if v, ok := t.Resolve(ref); ok {
			return v
		}
		return Null{}
	}
	return obj
}

// Put stores value under (number, generation), allocating a fresh object
// number if number is 0. It returns the reference now usable to retrieve
// value. Used by the composer when inserting cloned objects into a
// destination table.
func (t *Table) Put(number, generation int, value Object) *IndirectReference {
	if number == 0 {
		number = t.nextNum
	}
	if number >= t.nextNum {
		t.nextNum = number + 1
	}
	t.entries[objKey{number, generation}] = value
	return NewIndirectReference(number, generation)
}

// NewObjectNumber allocates a fresh, as-yet-unused object number without
// storing anything under it yet.
func (t *Table) NewObjectNumber() int {
	n := t.nextNum
	t.nextNum++
	return n
}

// Len returns the number of resolved (cached or directly Put) entries.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns a snapshot of (reference, value) pairs currently held,
// in unspecified order. Used by the update observer and by document
// serialization helpers that need to enumerate the whole table.
func (t *Table) Entries() []struct {
	Ref   *IndirectReference
	Value Object
} {
	out := make([]struct {
		Ref   *IndirectReference
		Value Object
	}, 0, len(t.entries))
	for k, v := range t.entries {
		out = append(out, struct {
			Ref   *IndirectReference
			Value Object
		}{NewIndirectReference(k.number, k.generation), v})
	}
	return out
}
