// Package object implements the PDF object model: the small set of value
// kinds (null, boolean, integer, real, name, string, array, dictionary,
// stream, indirect reference) that every higher-level component in this
// repository is built from.
package object

import "io"

// Kind identifies the variant of a PDF value.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindReal
	KindName
	KindString
	KindArray
	KindDictionary
	KindStream
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindName:
		return "name"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindDictionary:
		return "dictionary"
	case KindStream:
		return "stream"
	case KindReference:
		return "reference"
	default:
		return "unknown"
	}
}

// Object is any PDF value: a scalar, a container, a stream, or an indirect
// reference into a document's object table.
//
// Equality follows spec: containers and streams compare by identity
// (pointer equality), scalars compare by value. Use Equal, not ==, when the
// concrete type is not already known.
type Object interface {
	Kind() Kind
	String() string
	WriteTo(w io.Writer) (int64, error)
	// Clone returns a shallow copy: scalars copy by value, containers copy
	// one level deep (their own elements are not recursively cloned). The
	// deep-cloning cross-document copy lives in internal/clone and is built
	// on top of this.
	Clone() Object
}

// Equal reports whether two objects are equal per the object model's rule:
// identity for containers/streams, value equality for scalars. Reference
// objects are equal only if they name the same (number, generation) pair;
// resolving them is the caller's job.
func Equal(a, b Object) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNull:
		return true
	case KindBoolean:
		return a.(Boolean) == b.(Boolean)
	case KindInteger:
		return a.(Integer) == b.(Integer)
	case KindReal:
		return a.(Real) == b.(Real)
	case KindName:
		return a.(Name) == b.(Name)
	case KindString:
		return a.(String) == b.(String)
	case KindReference:
		return a.(*IndirectReference).Equals(b.(*IndirectReference))
	case KindArray, KindDictionary, KindStream:
		// Containers and streams are reference types in this model;
		// identity comparison is pointer equality.
		return a == b
	default:
		return false
	}
}

// NumericEqual compares two numeric objects (Integer or Real) by value,
// ignoring their concrete type, so integer and real values compare equal
// when numerically equal.
func NumericEqual(a, b Object) bool {
	av, aok := numericValue(a)
	bv, bok := numericValue(b)
	return aok && bok && av == bv
}

func numericValue(o Object) (float64, bool) {
	switch v := o.(type) {
	case Integer:
		return float64(v), true
	case Real:
		return float64(v), true
	default:
		return 0, false
	}
}
