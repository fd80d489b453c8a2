/*
File    : kaleidoscope/parser/parser.go
*/
// Package parser implements Kaleidoscope's Pratt (precedence-climbing)
// parser. Unlike a parser built on a fixed grammar, this one consults a
// live optable.Table that `def binary`/`def unary` prototypes mutate as
// they are parsed, so an operator declared in one top-level form is
// available to every form parsed after it.
package parser

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/kaleidoscope-lang/kaleidoscope/ast"
	"github.com/kaleidoscope-lang/kaleidoscope/lexer"
	"github.com/kaleidoscope-lang/kaleidoscope/optable"
)

// Parser holds the token stream and the shared operator table. A Parser
// reads one source string: construct it with NewParser and call
// ParseTopLevel repeatedly to get each top-level form in turn
// (jit.Evaluator builds one per Eval call).
type Parser struct {
	Lex      *lexer.Lexer
	CurrTok  lexer.Token
	NextTok  lexer.Token
	Ops      *optable.Table
	Errors   []error
}

// NewParser builds a Parser reading from src, sharing ops with whatever
// else consults the same operator table (the emitter, a later Parser for
// the next top-level form).
func NewParser(src string, ops *optable.Table) *Parser {
	lex := lexer.NewLexer(src)
	par := &Parser{Lex: &lex, Ops: ops, Errors: make([]error, 0)}
	par.advance()
	par.advance()
	return par
}

// advance shifts the two-token lookahead window forward by one token.
func (par *Parser) advance() {
	par.CurrTok = par.NextTok
	par.NextTok = par.Lex.NextToken()
}

// expectNext reports whether NextTok has the expected type, recording an
// error if not.
func (par *Parser) expectNext(expected lexer.TokenType) bool {
	if par.NextTok.Type != expected {
		par.addErrorf("expected %s, got %q", expected, par.NextTok.Literal)
		return false
	}
	return true
}

// expectAdvance checks expectNext and, on success, advances past it.
func (par *Parser) expectAdvance(expected lexer.TokenType) bool {
	if !par.expectNext(expected) {
		return false
	}
	par.advance()
	return true
}

func (par *Parser) addErrorf(format string, args ...any) {
	msg := fmt.Sprintf("[%d:%d] parse error: %s", par.CurrTok.Line, par.CurrTok.Column, fmt.Sprintf(format, args...))
	par.Errors = append(par.Errors, fmt.Errorf("%s", msg))
}

// HasErrors reports whether any parse error has been recorded.
func (par *Parser) HasErrors() bool {
	return len(par.Errors) > 0
}

// Err folds every recorded error into one via go-multierror, or returns
// nil if parsing succeeded cleanly.
func (par *Parser) Err() error {
	if !par.HasErrors() {
		return nil
	}
	var merr *multierror.Error
	for _, e := range par.Errors {
		merr = multierror.Append(merr, e)
	}
	return merr.ErrorOrNil()
}

// AtEOF reports whether the parser has consumed the whole input.
func (par *Parser) AtEOF() bool {
	return par.CurrTok.Type == lexer.EOF_TYPE
}

// ParseTopLevel parses exactly one top-level form: a `def`, an `extern`,
// or a bare expression (wrapped into an anonymous zero-argument function,
// matching the original's `_parse_top_level_expr`). It returns io.EOF
// once the input is exhausted, the convention a caller's for-loop can
// test with errors.Is.
func (par *Parser) ParseTopLevel() (*ast.Function, error) {
	if par.AtEOF() {
		return nil, io.EOF
	}

	var fn *ast.Function
	switch par.CurrTok.Type {
	case lexer.DEF_KEY:
		fn = par.parseDefinition()
	case lexer.EXTERN_KEY:
		fn = par.parseExternDeclaration()
	default:
		fn = par.parseTopLevelExpression()
	}

	if par.HasErrors() {
		return nil, par.Err()
	}
	return fn, nil
}

// parseDefinition parses `def prototype body`.
func (par *Parser) parseDefinition() *ast.Function {
	pos := ast.Position{Line: par.CurrTok.Line, Column: par.CurrTok.Column}
	par.advance() // consume 'def'
	proto := par.parsePrototype()
	if proto == nil {
		return nil
	}
	body := par.parseExpression()
	if body == nil {
		return nil
	}
	return &ast.Function{Position: pos, Proto: proto, Body: body}
}

// parseExternDeclaration parses `extern prototype`, a Function with no
// body.
func (par *Parser) parseExternDeclaration() *ast.Function {
	pos := ast.Position{Line: par.CurrTok.Line, Column: par.CurrTok.Column}
	par.advance() // consume 'extern'
	proto := par.parsePrototype()
	if proto == nil {
		return nil
	}
	return &ast.Function{Position: pos, Proto: proto, Body: nil}
}

// parseTopLevelExpression wraps a bare expression in a nameless,
// argument-less Function so the JIT driver can emit and call it exactly
// like any other definition.
func (par *Parser) parseTopLevelExpression() *ast.Function {
	pos := ast.Position{Line: par.CurrTok.Line, Column: par.CurrTok.Column}
	body := par.parseExpression()
	if body == nil {
		return nil
	}
	proto := &ast.Prototype{Position: pos, Name: "__anon_expr", Params: nil}
	return &ast.Function{Position: pos, Proto: proto, Body: body}
}

// parsePrototype parses a function signature: a plain name, or
// `binary OP [precedence] (params)` / `unary OP (param)`, installing the
// new operator into Ops immediately: the table is mutated while parsing
// the prototype, before the body is parsed, so the body itself may
// already use the operator it declares, as Kaleidoscope's recursive `|`
// example does.
func (par *Parser) parsePrototype() *ast.Prototype {
	pos := ast.Position{Line: par.CurrTok.Line, Column: par.CurrTok.Column}

	var name string
	isOperator := false
	kind := ""
	precedence := 0

	switch par.CurrTok.Type {
	case lexer.IDENTIFIER_ID:
		name = par.CurrTok.Literal
		par.advance()
	case lexer.BINARY_KEY, lexer.UNARY_KEY:
		kind = string(par.CurrTok.Type)
		isOperator = true
		par.advance() // consume 'binary'/'unary'
		if par.CurrTok.Type != lexer.OPERATOR {
			par.addErrorf("expected an operator character after %q, got %q", kind, par.CurrTok.Literal)
			return nil
		}
		opChar := par.CurrTok.Literal
		name = kind + opChar
		par.advance() // consume operator char
		if kind == "binary" && par.CurrTok.Type == lexer.NUMBER_LIT {
			var prec float64
			fmt.Sscanf(par.CurrTok.Literal, "%g", &prec)
			precedence = int(prec)
			par.advance()
		}
	default:
		par.addErrorf("expected function name or binary/unary in prototype, got %q", par.CurrTok.Literal)
		return nil
	}

	if !par.expectCurrent(lexer.LEFT_PAREN) {
		return nil
	}
	par.advance() // consume '('

	params := make([]string, 0, 2)
	for par.CurrTok.Type == lexer.IDENTIFIER_ID {
		params = append(params, par.CurrTok.Literal)
		par.advance()
	}
	if !par.expectCurrent(lexer.RIGHT_PAREN) {
		return nil
	}
	par.advance() // consume ')'

	if isOperator {
		if kind == "unary" && len(params) != 1 {
			par.addErrorf("unary operator %q must take exactly one argument", name)
			return nil
		}
		if kind == "binary" && len(params) != 2 {
			par.addErrorf("binary operator %q must take exactly two arguments", name)
			return nil
		}
	}

	proto := &ast.Prototype{
		Position:   pos,
		Name:       name,
		Params:     params,
		IsOperator: isOperator,
		Kind:       kind,
		Precedence: precedence,
	}

	// Install the new operator into the shared table right away so that
	// expressions parsed after this point — including this function's own
	// body — see it.
	if isOperator {
		op := proto.OperatorName()
		if kind == "binary" {
			par.Ops.InstallUserOperator(op, precedence)
		} else {
			par.Ops.InstallUserUnaryOperator(op)
		}
	}

	return proto
}
