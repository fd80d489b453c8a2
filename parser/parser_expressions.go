/*
File    : kaleidoscope/parser/parser_expressions.go
*/
package parser

import (
	"strconv"

	"github.com/kaleidoscope-lang/kaleidoscope/ast"
	"github.com/kaleidoscope-lang/kaleidoscope/lexer"
	"github.com/kaleidoscope-lang/kaleidoscope/optable"
)

// parseExpression parses a full expression: a unary/primary term followed
// by as much of a binary operator chain as precedence allows. It always
// starts the climb at precedence 0.
func (par *Parser) parseExpression() ast.Node {
	lhs := par.parseUnary()
	if lhs == nil {
		return nil
	}
	return par.parseBinOpRHS(0, lhs)
}

// parseBinOpRHS implements precedence climbing: it keeps absorbing
// `op rhs` pairs into lhs as long as op binds at least as tightly as
// minPrec, recursing to let a tighter-binding (or, for a right-associative
// op, an equally tight) operator steal rhs first.
func (par *Parser) parseBinOpRHS(minPrec int, lhs ast.Node) ast.Node {
	for {
		if par.CurrTok.Type != lexer.OPERATOR {
			return lhs
		}
		op := par.CurrTok.Literal[0]
		entry, ok := par.Ops.Lookup(op)
		if !ok || entry.Precedence < minPrec {
			return lhs
		}

		opPos := ast.Position{Line: par.CurrTok.Line, Column: par.CurrTok.Column}
		par.advance() // consume operator

		rhs := par.parseUnary()
		if rhs == nil {
			return nil
		}

		if par.CurrTok.Type == lexer.OPERATOR {
			if nextEntry, ok := par.Ops.Lookup(par.CurrTok.Literal[0]); ok {
				nextMinPrec := entry.Precedence + 1
				if entry.Assoc == optable.Right {
					nextMinPrec = entry.Precedence
				}
				if nextEntry.Precedence >= nextMinPrec {
					rhs = par.parseBinOpRHS(nextMinPrec, rhs)
					if rhs == nil {
						return nil
					}
				}
			}
		}

		if op == '=' {
			variable, ok := lhs.(*ast.VariableExpr)
			if !ok {
				par.addErrorf("left-hand side of '=' must be a variable")
				return nil
			}
			lhs = &ast.BinaryExpr{Position: opPos, Op: op, LHS: variable, RHS: rhs}
			continue
		}

		lhs = &ast.BinaryExpr{Position: opPos, Op: op, LHS: lhs, RHS: rhs}
	}
}

// parseUnary parses a unary-operator application or falls through to a
// primary expression. Only operator characters the table has registered
// as unary (via `def unary`) are treated as prefix operators.
func (par *Parser) parseUnary() ast.Node {
	if par.CurrTok.Type == lexer.OPERATOR && par.Ops.IsUnary(par.CurrTok.Literal[0]) {
		pos := ast.Position{Line: par.CurrTok.Line, Column: par.CurrTok.Column}
		op := par.CurrTok.Literal[0]
		par.advance()
		operand := par.parseUnary()
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{Position: pos, Op: op, Operand: operand}
	}
	return par.parsePrimary()
}

// parsePrimary dispatches on the current token to the production for a
// number, identifier/call, parenthesized expression, if/for/var form, or
// reports an unexpected-token error.
func (par *Parser) parsePrimary() ast.Node {
	switch par.CurrTok.Type {
	case lexer.NUMBER_LIT:
		return par.parseNumberExpr()
	case lexer.IDENTIFIER_ID:
		return par.parseIdentifierExpr()
	case lexer.LEFT_PAREN:
		return par.parseParenExpr()
	case lexer.IF_KEY:
		return par.parseIfExpr()
	case lexer.FOR_KEY:
		return par.parseForExpr()
	case lexer.VAR_KEY:
		return par.parseVarExpr()
	default:
		par.addErrorf("unexpected token %q while parsing an expression", par.CurrTok.Literal)
		return nil
	}
}

func (par *Parser) parseNumberExpr() ast.Node {
	pos := ast.Position{Line: par.CurrTok.Line, Column: par.CurrTok.Column}
	val, err := strconv.ParseFloat(par.CurrTok.Literal, 64)
	if err != nil {
		par.addErrorf("invalid number literal %q", par.CurrTok.Literal)
		return nil
	}
	par.advance()
	return &ast.NumberExpr{Position: pos, Value: val}
}

// parseIdentifierExpr parses a bare variable reference or, when followed
// by '(', a call expression.
func (par *Parser) parseIdentifierExpr() ast.Node {
	pos := ast.Position{Line: par.CurrTok.Line, Column: par.CurrTok.Column}
	name := par.CurrTok.Literal
	par.advance()

	if par.CurrTok.Type != lexer.LEFT_PAREN {
		return &ast.VariableExpr{Position: pos, Name: name}
	}

	par.advance() // consume '('
	args := make([]ast.Node, 0, 2)
	if par.CurrTok.Type != lexer.RIGHT_PAREN {
		for {
			arg := par.parseExpression()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if par.CurrTok.Type == lexer.COMMA_DELIM {
				par.advance()
				continue
			}
			break
		}
	}
	if !par.expectCurrent(lexer.RIGHT_PAREN) {
		return nil
	}
	par.advance() // consume ')'
	return &ast.CallExpr{Position: pos, Callee: name, Args: args}
}

// expectCurrent checks the *current* token (not the lookahead) against
// expected, distinct from Parser.expectNext which checks NextTok — used
// wherever a production has already advanced onto the closing delimiter
// itself.
func (par *Parser) expectCurrent(expected lexer.TokenType) bool {
	if par.CurrTok.Type != expected {
		par.addErrorf("expected %s, got %q", expected, par.CurrTok.Literal)
		return false
	}
	return true
}

func (par *Parser) parseParenExpr() ast.Node {
	par.advance() // consume '('
	inner := par.parseExpression()
	if inner == nil {
		return nil
	}
	if !par.expectCurrent(lexer.RIGHT_PAREN) {
		return nil
	}
	par.advance() // consume ')'
	return inner
}

// parseIfExpr parses `if cond then thenExpr else elseExpr`. Both
// branches are mandatory: Kaleidoscope has no value-less if.
func (par *Parser) parseIfExpr() ast.Node {
	pos := ast.Position{Line: par.CurrTok.Line, Column: par.CurrTok.Column}
	par.advance() // consume 'if'
	cond := par.parseExpression()
	if cond == nil {
		return nil
	}
	if !par.expectCurrent(lexer.THEN_KEY) {
		return nil
	}
	par.advance() // consume 'then'
	thenExpr := par.parseExpression()
	if thenExpr == nil {
		return nil
	}
	if !par.expectCurrent(lexer.ELSE_KEY) {
		return nil
	}
	par.advance() // consume 'else'
	elseExpr := par.parseExpression()
	if elseExpr == nil {
		return nil
	}
	return &ast.IfExpr{Position: pos, Cond: cond, Then: thenExpr, Else: elseExpr}
}

// parseForExpr parses `for var = start, end[, step] in body`.
func (par *Parser) parseForExpr() ast.Node {
	pos := ast.Position{Line: par.CurrTok.Line, Column: par.CurrTok.Column}
	par.advance() // consume 'for'
	if !par.expectCurrent(lexer.IDENTIFIER_ID) {
		return nil
	}
	name := par.CurrTok.Literal
	par.advance() // consume loop variable

	if par.CurrTok.Type != lexer.OPERATOR || par.CurrTok.Literal != "=" {
		par.addErrorf("expected '=' after for-loop variable, got %q", par.CurrTok.Literal)
		return nil
	}
	par.advance() // consume '='

	start := par.parseExpression()
	if start == nil {
		return nil
	}
	if !par.expectCurrent(lexer.COMMA_DELIM) {
		return nil
	}
	par.advance() // consume ','

	end := par.parseExpression()
	if end == nil {
		return nil
	}

	var step ast.Node
	if par.CurrTok.Type == lexer.COMMA_DELIM {
		par.advance() // consume ','
		step = par.parseExpression()
		if step == nil {
			return nil
		}
	}

	if !par.expectCurrent(lexer.IN_KEY) {
		return nil
	}
	par.advance() // consume 'in'

	body := par.parseExpression()
	if body == nil {
		return nil
	}
	return &ast.ForExpr{Position: pos, Var: name, Start: start, End: end, Step: step, Body: body}
}

// parseVarExpr parses `var name [= init] (, name [= init])* in body`. Each
// binding's initializer is parsed while the name it defines is not yet in
// scope, so `var x = x in ...` reads the outer x — this falls out
// naturally here because bindings only become visible to the emitter
// once parsing is long done; the rule is enforced in ir, not here.
func (par *Parser) parseVarExpr() ast.Node {
	pos := ast.Position{Line: par.CurrTok.Line, Column: par.CurrTok.Column}
	par.advance() // consume 'var'

	bindings := make([]ast.VarBinding, 0, 2)
	for {
		if !par.expectCurrent(lexer.IDENTIFIER_ID) {
			return nil
		}
		name := par.CurrTok.Literal
		par.advance()

		var init ast.Node
		if par.CurrTok.Type == lexer.OPERATOR && par.CurrTok.Literal == "=" {
			par.advance() // consume '='
			init = par.parseExpression()
			if init == nil {
				return nil
			}
		}
		bindings = append(bindings, ast.VarBinding{Name: name, Init: init})

		if par.CurrTok.Type == lexer.COMMA_DELIM {
			par.advance()
			continue
		}
		break
	}

	if !par.expectCurrent(lexer.IN_KEY) {
		return nil
	}
	par.advance() // consume 'in'

	body := par.parseExpression()
	if body == nil {
		return nil
	}
	return &ast.VarInExpr{Position: pos, Bindings: bindings, Body: body}
}
