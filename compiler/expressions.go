package compiler

import (
	"fmt"
	"strconv"

	"github.com/deepnoodle-ai/lox/internal/token"
	"github.com/deepnoodle-ai/lox/op"
	"github.com/deepnoodle-ai/lox/value"
)

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

// parsePrecedence parses an expression whose operators bind at least as
// tightly as prec.
func (c *Compiler) parsePrecedence(prec Precedence) {
	c.advance()
	prefix := getRule(c.previous.Type).prefix
	if prefix == nil {
		c.error("Expect expression.")
		return
	}
	canAssign := prec <= PrecAssignment
	prefix(c, canAssign)

	for prec <= getRule(c.current.Type).precedence {
		c.advance()
		getRule(c.previous.Type).infix(c, canAssign)
	}

	if canAssign && c.match(token.EQUAL) {
		c.error("Invalid assignment target.")
	}
}

func (c *Compiler) number(bool) {
	n, err := strconv.ParseFloat(c.previous.Lexeme, 64)
	if err != nil {
		c.error(fmt.Sprintf("Invalid number literal %q.", c.previous.Lexeme))
		return
	}
	c.emitConstant(value.Number(n))
}

func (c *Compiler) stringConstant(bool) {
	c.emitConstant(value.FromObject(c.heap.CreateString(c.previous.Lexeme)))
}

func (c *Compiler) literal(bool) {
	switch c.previous.Type {
	case token.FALSE:
		c.emitOp(op.False)
	case token.TRUE:
		c.emitOp(op.True)
	case token.NULL:
		c.emitOp(op.Null)
	}
}

func (c *Compiler) grouping(bool) {
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
}

func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

func (c *Compiler) namedVariable(name token.Token, canAssign bool) {
	var getOp, setOp op.Code
	var arg byte
	if slot, ok := c.resolveLocal(name); ok {
		getOp, setOp = op.GetLocal, op.SetLocal
		arg = byte(slot)
	} else {
		getOp, setOp = op.GetGlobal, op.SetGlobal
		arg = c.identifierConstant(name)
	}
	if canAssign && c.match(token.EQUAL) {
		c.expression()
		c.emitOpByte(setOp, arg)
	} else {
		c.emitOpByte(getOp, arg)
	}
}

func (c *Compiler) unary(bool) {
	operator := c.previous.Type
	c.parsePrecedence(PrecUnary)
	switch operator {
	case token.BANG:
		c.emitOp(op.Not)
	case token.MINUS:
		c.emitOp(op.Negate)
	}
}

// binary compiles the right operand one level tighter than the operator,
// which makes every binary operator left-associative.
func (c *Compiler) binary(bool) {
	operator := c.previous.Type
	c.parsePrecedence(getRule(operator).precedence + 1)
	switch operator {
	case token.BANG_EQUAL:
		c.emitOp(op.NotEqual)
	case token.EQUAL_EQUAL:
		c.emitOp(op.Equal)
	case token.GREATER:
		c.emitOp(op.Greater)
	case token.GREATER_EQUAL:
		c.emitOp(op.GreaterEqual)
	case token.LESS:
		c.emitOp(op.Less)
	case token.LESS_EQUAL:
		c.emitOp(op.LessEqual)
	case token.PLUS:
		c.emitOp(op.Add)
	case token.MINUS:
		c.emitOp(op.Subtract)
	case token.STAR:
		c.emitOp(op.Multiply)
	case token.SLASH:
		c.emitOp(op.Divide)
	}
}

func (c *Compiler) and(bool) {
	endJump := c.emitJump(op.JumpIfFalse)
	c.emitOp(op.Pop)
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
}

func (c *Compiler) or(bool) {
	elseJump := c.emitJump(op.JumpIfFalse)
	endJump := c.emitJump(op.Jump)
	c.patchJump(elseJump)
	c.emitOp(op.Pop)
	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}

func (c *Compiler) call(bool) {
	argCount := c.argumentList()
	c.emitOpByte(op.Call, argCount)
}

func (c *Compiler) argumentList() byte {
	count := 0
	if !c.check(token.RIGHT_PAREN) {
		for {
			c.expression()
			if count == MaxArgs {
				c.error(fmt.Sprintf("Can't have more than %d arguments.", MaxArgs))
			}
			count++
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return byte(count)
}
