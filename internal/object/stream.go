package object

import (
	"bytes"
	"io"
)

// Stream is a PDF stream object: a Dictionary plus an opaque byte payload.
// Filter decoding is the external parser's concern, not this package's;
// Stream only exposes the raw, filtered bytes and the dictionary entries
// that name the filter chain, exposing a raw "stream raw-read (filtered
// bytes)" operation. A decoded-read accessor is provided as a
// pass-through hook (DecodedContent) for callers that have wired up their
// own filter implementation; by default it returns the raw bytes unchanged.
type Stream struct {
	dict    *Dictionary
	content []byte
	decoder func(filterName Name, params *Dictionary, raw []byte) ([]byte, error)
}

// NewStream creates a stream from a dictionary and raw (still-filtered)
// content bytes.
func NewStream(dict *Dictionary, content []byte) *Stream {
	if dict == nil {
		dict = NewDictionary()
	}
	return &Stream{dict: dict, content: content}
}

func (s *Stream) Kind() Kind { return KindStream }

// Dictionary returns the stream's dictionary.
func (s *Stream) Dictionary() *Dictionary { return s.dict }

// Content returns the raw (filtered) bytes.
func (s *Stream) Content() []byte { return s.content }

// SetContent replaces the raw bytes and updates /Length to match.
func (s *Stream) SetContent(content []byte) {
	s.content = content
	s.dict.SetInteger("Length", int64(len(content)))
}

// Length returns the byte length of the raw content.
func (s *Stream) Length() int { return len(s.content) }

// Filters returns the stream's /Filter entry normalized to a slice of
// names (empty if absent; PDF allows either a single Name or an Array).
func (s *Stream) Filters() []Name {
	switch v := s.dict.Get("Filter").(type) {
	case Name:
		return []Name{v}
	case *Array:
		out := make([]Name, 0, v.Len())
		for _, e := range v.Elements() {
			if n, ok := e.(Name); ok {
				out = append(out, n)
			}
		}
		return out
	default:
		return nil
	}
}

// DecodeParms returns the stream's /DecodeParms entries aligned with
// Filters(), normalized the same way /Filter is.
func (s *Stream) DecodeParms() []*Dictionary {
	switch v := s.dict.Get("DecodeParms").(type) {
	case *Dictionary:
		return []*Dictionary{v}
	case *Array:
		out := make([]*Dictionary, 0, v.Len())
		for _, e := range v.Elements() {
			if d, ok := e.(*Dictionary); ok {
				out = append(out, d)
			} else {
				out = append(out, nil)
			}
		}
		return out
	default:
		return nil
	}
}

// SetDecoder installs a filter-chain decoder function used by
// DecodedContent. Callers outside the scope of this package (an external
// parser specialization) are expected to provide this; the engine never
// calls SetDecoder itself.
func (s *Stream) SetDecoder(fn func(filterName Name, params *Dictionary, raw []byte) ([]byte, error)) {
	s.decoder = fn
}

// DecodedContent runs the installed decoder (if any) over the raw content
// through the full /Filter chain, returning the raw bytes unchanged when no
// decoder has been installed.
func (s *Stream) DecodedContent() ([]byte, error) {
	if s.decoder == nil {
		return s.content, nil
	}
	filters := s.Filters()
	parms := s.DecodeParms()
	data := s.content
	for i, f := range filters {
		var p *Dictionary
		if i < len(parms) {
			p = parms[i]
		}
		decoded, err := s.decoder(f, p, data)
		if err != nil {
			return nil, err
		}
		data = decoded
	}
	return data, nil
}

func (s *Stream) String() string {
	return s.dict.String()
}

func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	n1, err := s.dict.WriteTo(w)
	if err != nil {
		return n1, err
	}
	n2, err := writeString(w, "\nstream\n")
	if err != nil {
		return n1 + n2, err
	}
	n3, err := io.Copy(w, bytes.NewReader(s.content))
	if err != nil {
		return n1 + n2 + n3, err
	}
	n4, err := writeString(w, "\nendstream")
	return n1 + n2 + n3 + n4, err
}

// Clone returns a new Stream sharing the same dictionary clone and a copy
// of the raw bytes. Streams are copied raw-bytes-verbatim by the deep
// cloner; this shallow Clone is the building block it uses.
func (s *Stream) Clone() Object {
	content := make([]byte, len(s.content))
	copy(content, s.content)
	dict, _ := s.dict.Clone().(*Dictionary)
	out := NewStream(dict, content)
	out.decoder = s.decoder
	return out
}
