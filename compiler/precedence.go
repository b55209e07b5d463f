package compiler

import "github.com/deepnoodle-ai/lox/internal/token"

// Precedence is the binding power of an operator, lowest first.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

// rules is indexed by token type. It is filled in by init since the parse
// functions refer back to it.
var rules [token.Count]parseRule

func init() {
	rules = [token.Count]parseRule{
		token.LEFT_PAREN:    {(*Compiler).grouping, (*Compiler).call, PrecCall},
		token.MINUS:         {(*Compiler).unary, (*Compiler).binary, PrecTerm},
		token.PLUS:          {nil, (*Compiler).binary, PrecTerm},
		token.SLASH:         {nil, (*Compiler).binary, PrecFactor},
		token.STAR:          {nil, (*Compiler).binary, PrecFactor},
		token.BANG:          {(*Compiler).unary, nil, PrecNone},
		token.BANG_EQUAL:    {nil, (*Compiler).binary, PrecEquality},
		token.EQUAL_EQUAL:   {nil, (*Compiler).binary, PrecEquality},
		token.GREATER:       {nil, (*Compiler).binary, PrecComparison},
		token.GREATER_EQUAL: {nil, (*Compiler).binary, PrecComparison},
		token.LESS:          {nil, (*Compiler).binary, PrecComparison},
		token.LESS_EQUAL:    {nil, (*Compiler).binary, PrecComparison},
		token.IDENTIFIER:    {(*Compiler).variable, nil, PrecNone},
		token.STRING:        {(*Compiler).stringConstant, nil, PrecNone},
		token.NUMBER:        {(*Compiler).number, nil, PrecNone},
		token.AND:           {nil, (*Compiler).and, PrecAnd},
		token.OR:            {nil, (*Compiler).or, PrecOr},
		token.FALSE:         {(*Compiler).literal, nil, PrecNone},
		token.TRUE:          {(*Compiler).literal, nil, PrecNone},
		token.NULL:          {(*Compiler).literal, nil, PrecNone},
	}
}

func getRule(typ token.Type) *parseRule {
	return &rules[typ]
}
