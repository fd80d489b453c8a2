/*
File    : kaleidoscope/lexer/lexer_test.go
*/
package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestConsumeToken is a table-driven fixture: Input source text mapped to
// the exact token stream ConsumeTokens should produce.
type TestConsumeToken struct {
	Input          string
	ExpectedTokens []Token
}

func TestNewLexer_ConsumeTokens(t *testing.T) {
	tests := []TestConsumeToken{
		{
			Input: ` 123 + 2.5 - 12 `,
			ExpectedTokens: []Token{
				NewToken(NUMBER_LIT, "123"),
				NewToken(OPERATOR, "+"),
				NewToken(NUMBER_LIT, "2.5"),
				NewToken(OPERATOR, "-"),
				NewToken(NUMBER_LIT, "12"),
			},
		},
		{
			Input: `def foo(x y) x + y`,
			ExpectedTokens: []Token{
				NewToken(DEF_KEY, "def"),
				NewToken(IDENTIFIER_ID, "foo"),
				NewToken(LEFT_PAREN, "("),
				NewToken(IDENTIFIER_ID, "x"),
				NewToken(IDENTIFIER_ID, "y"),
				NewToken(RIGHT_PAREN, ")"),
				NewToken(IDENTIFIER_ID, "x"),
				NewToken(OPERATOR, "+"),
				NewToken(IDENTIFIER_ID, "y"),
			},
		},
		{
			Input: `extern sin(x)`,
			ExpectedTokens: []Token{
				NewToken(EXTERN_KEY, "extern"),
				NewToken(IDENTIFIER_ID, "sin"),
				NewToken(LEFT_PAREN, "("),
				NewToken(IDENTIFIER_ID, "x"),
				NewToken(RIGHT_PAREN, ")"),
			},
		},
		{
			Input: "if x < 3 then 1 else 2 # trailing comment\n",
			ExpectedTokens: []Token{
				NewToken(IF_KEY, "if"),
				NewToken(IDENTIFIER_ID, "x"),
				NewToken(OPERATOR, "<"),
				NewToken(NUMBER_LIT, "3"),
				NewToken(THEN_KEY, "then"),
				NewToken(NUMBER_LIT, "1"),
				NewToken(ELSE_KEY, "else"),
				NewToken(NUMBER_LIT, "2"),
			},
		},
		{
			Input: `for i = 1, i < n, 1.0 in putchard(i)`,
			ExpectedTokens: []Token{
				NewToken(FOR_KEY, "for"),
				NewToken(IDENTIFIER_ID, "i"),
				NewToken(OPERATOR, "="),
				NewToken(NUMBER_LIT, "1"),
				NewToken(COMMA_DELIM, ","),
				NewToken(IDENTIFIER_ID, "i"),
				NewToken(OPERATOR, "<"),
				NewToken(IDENTIFIER_ID, "n"),
				NewToken(COMMA_DELIM, ","),
				NewToken(NUMBER_LIT, "1.0"),
				NewToken(IN_KEY, "in"),
				NewToken(IDENTIFIER_ID, "putchard"),
				NewToken(LEFT_PAREN, "("),
				NewToken(IDENTIFIER_ID, "i"),
				NewToken(RIGHT_PAREN, ")"),
			},
		},
		{
			Input: `def binary | 5 (a b) a + b`,
			ExpectedTokens: []Token{
				NewToken(DEF_KEY, "def"),
				NewToken(BINARY_KEY, "binary"),
				NewToken(OPERATOR, "|"),
				NewToken(NUMBER_LIT, "5"),
				NewToken(LEFT_PAREN, "("),
				NewToken(IDENTIFIER_ID, "a"),
				NewToken(IDENTIFIER_ID, "b"),
				NewToken(RIGHT_PAREN, ")"),
				NewToken(IDENTIFIER_ID, "a"),
				NewToken(OPERATOR, "+"),
				NewToken(IDENTIFIER_ID, "b"),
			},
		},
		{
			Input: `var x = 1 in x`,
			ExpectedTokens: []Token{
				NewToken(VAR_KEY, "var"),
				NewToken(IDENTIFIER_ID, "x"),
				NewToken(OPERATOR, "="),
				NewToken(NUMBER_LIT, "1"),
				NewToken(IN_KEY, "in"),
				NewToken(IDENTIFIER_ID, "x"),
			},
		},
	}

	for _, test := range tests {
		lex := NewLexer(test.Input)
		tokens := lex.ConsumeTokens()
		assert.Equal(t, len(test.ExpectedTokens), len(tokens), "token count for input %q", test.Input)
		for i, expected := range test.ExpectedTokens {
			if i >= len(tokens) {
				break
			}
			assert.Equal(t, expected.Type, tokens[i].Type, "type mismatch at %d for %q", i, test.Input)
			assert.Equal(t, expected.Literal, tokens[i].Literal, "literal mismatch at %d for %q", i, test.Input)
		}
	}
}

func TestReadNumber_GreedilyConsumesMalformedDotRuns(t *testing.T) {
	lex := NewLexer("1.2.3")
	tokens := lex.ConsumeTokens()
	assert.Len(t, tokens, 1)
	assert.Equal(t, NUMBER_LIT, tokens[0].Type)
	assert.Equal(t, "1.2.3", tokens[0].Literal)
}

func TestLexer_NeverFails(t *testing.T) {
	lex := NewLexer("@@@ $$$ ???")
	tokens := lex.ConsumeTokens()
	assert.Len(t, tokens, 9)
	for _, tok := range tokens {
		assert.Equal(t, OPERATOR, tok.Type)
	}
}

func TestLexer_TracksLineAndColumn(t *testing.T) {
	lex := NewLexer("x\ny")
	first := lex.NextToken()
	assert.Equal(t, 1, first.Line)
	second := lex.NextToken()
	assert.Equal(t, 2, second.Line)
	assert.Equal(t, 1, second.Column)
}
