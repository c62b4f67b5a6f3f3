package object

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_Numbers(t *testing.T) {
	toks, err := Tokenize("12 -3 3.14 -0.5 +7 .25")
	require.NoError(t, err)

	require.Len(t, toks, 7) // 6 numbers + EOF
	assert.Equal(t, TokenInteger, toks[0].Type)
	assert.Equal(t, "12", toks[0].Value)
	assert.Equal(t, TokenInteger, toks[1].Type)
	assert.Equal(t, "-3", toks[1].Value)
	assert.Equal(t, TokenReal, toks[2].Type)
	assert.Equal(t, "3.14", toks[2].Value)
	assert.Equal(t, TokenReal, toks[3].Type)
	assert.Equal(t, TokenInteger, toks[4].Type)
	assert.Equal(t, TokenReal, toks[5].Type)
	assert.Equal(t, TokenEOF, toks[6].Type)
}

func TestTokenize_NameWithHashEscape(t *testing.T) {
	toks, err := Tokenize("/Name#20With#20Spaces")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, TokenName, toks[0].Type)
	assert.Equal(t, "Name With Spaces", toks[0].Value)
}

func TestTokenize_LiteralStringEscapes(t *testing.T) {
	toks, err := Tokenize(`(line1\nline2\051end)`)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, TokenString, toks[0].Type)
	assert.Equal(t, "line1\nline2)end", toks[0].Value)
}

func TestTokenize_HexString(t *testing.T) {
	toks, err := Tokenize("<48656C6C6F>")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, TokenHexString, toks[0].Type)
	assert.Equal(t, "Hello", toks[0].Value)
}

func TestTokenize_HexStringOddDigitsPadded(t *testing.T) {
	toks, err := Tokenize("<48656C6C6F0>")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, TokenHexString, toks[0].Type)
	assert.Equal(t, "Hello\x00", toks[0].Value)
}

func TestTokenize_DelimitersAndKeywords(t *testing.T) {
	toks, err := Tokenize("[ << true false null >> ] re")
	require.NoError(t, err)

	types := make([]TokenType, 0, len(toks))
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []TokenType{
		TokenArrayStart, TokenDictStart, TokenBoolean, TokenBoolean, TokenNull,
		TokenDictEnd, TokenArrayEnd, TokenKeyword, TokenEOF,
	}, types)
}

func TestTokenize_UnterminatedStringErrors(t *testing.T) {
	_, err := Tokenize("(unterminated")
	assert.Error(t, err)
}

func TestLexer_PeekTokenDoesNotConsume(t *testing.T) {
	lex := NewLexer(strings.NewReader("1 2"))

	peeked, err := lex.PeekToken()
	require.NoError(t, err)
	assert.Equal(t, "1", peeked.Value)

	peekedAgain, err := lex.PeekToken()
	require.NoError(t, err)
	assert.Equal(t, peeked, peekedAgain)

	next, err := lex.NextToken()
	require.NoError(t, err)
	assert.Equal(t, "1", next.Value)

	second, err := lex.NextToken()
	require.NoError(t, err)
	assert.Equal(t, "2", second.Value)
}

func TestIsContentStreamOperator(t *testing.T) {
	assert.True(t, IsContentStreamOperator("re"))
	assert.True(t, IsContentStreamOperator("B*"))
	assert.True(t, IsContentStreamOperator("f'"))
	assert.False(t, IsContentStreamOperator(""))
	assert.False(t, IsContentStreamOperator("toolongname"))
	assert.False(t, IsContentStreamOperator("1x"))
}
