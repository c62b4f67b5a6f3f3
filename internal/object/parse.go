package object

import (
	"fmt"
	"strconv"
)

// ReadValue consumes one complete value (scalar, array literal, or
// dictionary literal) from src and returns it. It does not consume
// operator keywords; callers drive the interpreter loop and call ReadValue
// only when the next token begins a value. Grounded on
// internal/extractor/content_parser.go's tokenToObject/parseArray/
// parseDictionary helpers, generalized to build object.Object values
// instead of parser.PdfObject ones and to live in the object package so
// both the file-structure reader and the content-stream engine share one
// operand/value parser instead of each maintaining their own.
func ReadValue(src TokenSource) (Object, error) {
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	return valueFromToken(tok, src)
}

func valueFromToken(tok Token, src TokenSource) (Object, error) {
	switch tok.Type {
	case TokenInteger:
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("object: invalid integer %q: %w", tok.Value, err)
		}
		return Integer(n), nil

	case TokenReal:
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("object: invalid real %q: %w", tok.Value, err)
		}
		return Real(f), nil

	case TokenString, TokenHexString:
		return String(tok.Value), nil

	case TokenName:
		return Name(tok.Value), nil

	case TokenBoolean:
		return Boolean(tok.Value == "true"), nil

	case TokenNull:
		return Null{}, nil

	case TokenArrayStart:
		return readArray(src)

	case TokenDictStart:
		return readDictionary(src)

	case TokenKeyword:
		// An integer-generation "N G R" indirect reference begins with two
		// integers already consumed as separate values by the caller in
		// the general case; content streams never contain references, so
		// this path only matters to file-structure parsing, which is out
		// of scope here (external parser). Treat a bare "R" keyword
		// encountered as a value as an error.
		return nil, fmt.Errorf("object: unexpected keyword %q in value position", tok.Value)

	default:
		return nil, fmt.Errorf("object: unexpected token %v in value position", tok)
	}
}

func readArray(src TokenSource) (Object, error) {
	arr := NewArray()
	for {
		tok, err := src.PeekToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenArrayEnd {
			_, _ = src.NextToken()
			return arr, nil
		}
		if tok.Type == TokenEOF {
			return nil, fmt.Errorf("object: unterminated array")
		}
		v, err := ReadValue(src)
		if err != nil {
			return nil, err
		}
		arr.Append(v)
	}
}

func readDictionary(src TokenSource) (Object, error) {
	dict := NewDictionary()
	for {
		tok, err := src.PeekToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenDictEnd {
			_, _ = src.NextToken()
			return dict, nil
		}
		if tok.Type == TokenEOF {
			return nil, fmt.Errorf("object: unterminated dictionary")
		}
		keyTok, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		if keyTok.Type != TokenName {
			return nil, fmt.Errorf("object: expected name key in dictionary, got %v", keyTok)
		}
		v, err := ReadValue(src)
		if err != nil {
			return nil, err
		}
		dict.Set(Name(keyTok.Value), v)
	}
}
