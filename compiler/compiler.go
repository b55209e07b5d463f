// Package compiler compiles a Lox token stream directly into bytecode.
//
// The compiler is a single-pass Pratt parser: there is no syntax tree, and
// each grammar production emits instructions as soon as it is recognized.
// Forward jumps are emitted with a placeholder operand that is backpatched
// once the jump target is known.
package compiler

import (
	"fmt"
	"math"
	"strings"

	"github.com/deepnoodle-ai/lox/bytecode"
	"github.com/deepnoodle-ai/lox/errz"
	"github.com/deepnoodle-ai/lox/internal/token"
	"github.com/deepnoodle-ai/lox/object"
	"github.com/deepnoodle-ai/lox/op"
	"github.com/deepnoodle-ai/lox/value"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

const (
	// MaxArgs is the maximum number of arguments or parameters a function
	// can have.
	MaxArgs = 255

	// placeholder is the jump operand written before the target is known.
	placeholder = 0xff
)

// Compiler compiles tokens into function objects allocated on a Heap. A
// Compiler may be reused for several compilations against the same Heap but
// is not safe for concurrent use.
type Compiler struct {
	heap *object.Heap
	log  zerolog.Logger

	tokens   []token.Token
	pos      int
	current  token.Token
	previous token.Token

	scope     *CompilationScope
	errs      *multierror.Error
	panicMode bool
}

// New returns a compiler that allocates strings and functions on heap.
func New(heap *object.Heap, opts ...Option) *Compiler {
	c := &Compiler{
		heap: heap,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile is a convenience wrapper that compiles tokens with a new Compiler.
func Compile(heap *object.Heap, tokens []token.Token, opts ...Option) (*object.Function, error) {
	return New(heap, opts...).Compile(tokens)
}

// Compile compiles a complete token stream into the top-level script
// function. If any error is reported, the returned error is a
// *multierror.Error holding one *errz.CompileError per problem and no
// function is returned.
func (c *Compiler) Compile(tokens []token.Token) (*object.Function, error) {
	c.tokens = tokens
	c.pos = 0
	c.current = token.Token{}
	c.previous = token.Token{}
	c.errs = nil
	c.panicMode = false
	c.scope = newCompilationScope(nil, c.heap.CreateFunction(nil), ScriptKind)

	c.advance()
	for !c.match(token.EOF) {
		c.declaration()
	}
	fn := c.endFunction()

	if c.errs != nil {
		c.errs.ErrorFormat = formatErrors
		return nil, c.errs
	}
	return fn, nil
}

func formatErrors(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}

func (c *Compiler) chunk() *bytecode.Chunk {
	return c.scope.Chunk()
}

// Token handling

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.nextToken()
		if c.current.Type != token.ERROR {
			return
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

// nextToken returns the next token, synthesizing EOF if the stream ends
// without one.
func (c *Compiler) nextToken() token.Token {
	if c.pos < len(c.tokens) {
		tok := c.tokens[c.pos]
		c.pos++
		return tok
	}
	line := c.current.Line
	if line == 0 {
		line = 1
	}
	return token.New(token.EOF, "", line)
}

func (c *Compiler) check(typ token.Type) bool {
	return c.current.Type == typ
}

func (c *Compiler) match(typ token.Type) bool {
	if !c.check(typ) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(typ token.Type, message string) {
	if c.check(typ) {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

// Error reporting

func (c *Compiler) error(message string) {
	c.errorAt(c.previous, message)
}

func (c *Compiler) errorAtCurrent(message string) {
	c.errorAt(c.current, message)
}

func (c *Compiler) errorAt(tok token.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	err := &errz.CompileError{Line: tok.Line, Message: message}
	switch tok.Type {
	case token.EOF:
		err.Where = "at end"
	case token.ERROR:
	default:
		err.Where = fmt.Sprintf("at '%s'", tok.Lexeme)
	}
	c.log.Debug().Int("line", err.Line).Str("where", err.Where).Msg(message)
	c.errs = multierror.Append(c.errs, err)
}

// synchronize skips tokens until a likely statement boundary.
func (c *Compiler) synchronize() {
	c.panicMode = false
	for c.current.Type != token.EOF {
		if c.previous.Type == token.SEMICOLON {
			return
		}
		switch c.current.Type {
		case token.CLASS, token.FUN, token.VAR, token.FOR,
			token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		c.advance()
	}
}

// Code emission

func (c *Compiler) emitByte(b byte) {
	c.chunk().Write(b, c.previous.Line)
}

func (c *Compiler) emitOp(code op.Code) {
	c.chunk().WriteOp(code, c.previous.Line)
}

func (c *Compiler) emitOpByte(code op.Code, operand byte) {
	c.emitOp(code)
	c.emitByte(operand)
}

func (c *Compiler) emitReturn() {
	c.emitOp(op.Null)
	c.emitOp(op.Return)
}

// emitJump emits a jump with a placeholder operand and returns the offset
// of the operand for patchJump.
func (c *Compiler) emitJump(code op.Code) int {
	c.emitOp(code)
	c.emitByte(placeholder)
	c.emitByte(placeholder)
	return c.chunk().Len() - 2
}

// patchJump points the jump operand at offset to the next instruction.
func (c *Compiler) patchJump(offset int) {
	jump := c.chunk().Len() - offset - 2
	if jump > math.MaxUint16 {
		c.error("Too much code to jump over.")
		return
	}
	c.chunk().WriteAt(offset, byte(jump>>8))
	c.chunk().WriteAt(offset+1, byte(jump))
}

func (c *Compiler) emitLoop(loopStart int) {
	c.emitOp(op.Loop)
	offset := c.chunk().Len() - loopStart + 2
	if offset > math.MaxUint16 {
		c.error("Loop body too large.")
		offset = 0
	}
	c.emitByte(byte(offset >> 8))
	c.emitByte(byte(offset))
}

func (c *Compiler) makeConstant(v value.Value) byte {
	index := c.chunk().AddConstant(v)
	if index >= bytecode.MaxConstants {
		c.error("Too many constants in one chunk.")
		return 0
	}
	return byte(index)
}

func (c *Compiler) emitConstant(v value.Value) {
	c.emitOpByte(op.Constant, c.makeConstant(v))
}

// identifierConstant returns the pool index of the interned name, reusing
// an existing entry for the same name.
func (c *Compiler) identifierConstant(name token.Token) byte {
	str := value.FromObject(c.heap.CreateString(name.Lexeme))
	chunk := c.chunk()
	for i := 0; i < chunk.ConstantCount() && i < bytecode.MaxConstants; i++ {
		if chunk.Constant(i).Equal(str) {
			return byte(i)
		}
	}
	return c.makeConstant(str)
}

func (c *Compiler) endFunction() *object.Function {
	c.emitReturn()
	fn := c.scope.Function()
	c.log.Debug().
		Str("function", fn.String()).
		Int("arity", fn.Arity()).
		Int("code_bytes", fn.Chunk().Len()).
		Int("constants", fn.Chunk().ConstantCount()).
		Msg("compiled function")
	c.scope = c.scope.Enclosing()
	return fn
}

// Scopes and variables

func (c *Compiler) beginScope() {
	c.scope.BeginScope()
}

func (c *Compiler) endScope() {
	for n := c.scope.EndScope(); n > 0; n-- {
		c.emitOp(op.Pop)
	}
}

func (c *Compiler) declareVariable() {
	if c.scope.Depth() == 0 {
		return
	}
	name := c.previous
	locals := c.scope.Locals()
	if locals.Declares(name.Lexeme) {
		c.error("Already a variable with this name in this scope.")
	}
	if _, ok := locals.Add(name); !ok {
		c.error("Too many local variables in function.")
	}
}

func (c *Compiler) parseVariable(message string) byte {
	c.consume(token.IDENTIFIER, message)
	c.declareVariable()
	if c.scope.Depth() > 0 {
		return 0
	}
	return c.identifierConstant(c.previous)
}

func (c *Compiler) markInitialized() {
	if c.scope.Depth() == 0 {
		return
	}
	c.scope.Locals().MarkInitialized(c.scope.Depth())
}

func (c *Compiler) defineVariable(global byte) {
	if c.scope.Depth() > 0 {
		c.markInitialized()
		return
	}
	c.emitOpByte(op.DefineGlobal, global)
}

// resolveLocal looks name up among the locals of the function being
// compiled. Locals of enclosing functions are not visible.
func (c *Compiler) resolveLocal(name token.Token) (int, bool) {
	locals := c.scope.Locals()
	if locals == nil {
		return 0, false
	}
	slot, local, ok := locals.Resolve(name.Lexeme)
	if !ok {
		return 0, false
	}
	if local.Depth == Uninitialized {
		c.error("Can't read local variable in its own initializer.")
	}
	return slot, true
}

// Declarations and statements

func (c *Compiler) declaration() {
	switch {
	case c.match(token.FUN):
		c.funDeclaration()
	case c.match(token.VAR):
		c.varDeclaration()
	default:
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) funDeclaration() {
	global := c.parseVariable("Expect function name.")
	name := c.heap.CreateString(c.previous.Lexeme)
	c.markInitialized()
	c.function(name)
	c.defineVariable(global)
}

func (c *Compiler) function(name *object.String) {
	fn := c.heap.CreateFunction(name)
	c.scope = newCompilationScope(c.scope, fn, FunctionBodyKind)
	c.beginScope()

	c.consume(token.LEFT_PAREN, "Expect '(' after function name.")
	if !c.check(token.RIGHT_PAREN) {
		for {
			fn.SetArity(fn.Arity() + 1)
			if fn.Arity() > MaxArgs {
				c.errorAtCurrent(fmt.Sprintf("Can't have more than %d parameters.", MaxArgs))
			}
			constant := c.parseVariable("Expect parameter name.")
			c.defineVariable(constant)
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")
	c.consume(token.LEFT_BRACE, "Expect '{' before function body.")
	c.block()

	c.endFunction()
	c.emitConstant(value.FromObject(fn))
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")
	if c.match(token.EQUAL) {
		c.expression()
	} else {
		c.emitOp(op.Null)
	}
	c.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	c.defineVariable(global)
}

func (c *Compiler) statement() {
	switch {
	case c.match(token.PRINT):
		c.printStatement()
	case c.match(token.FOR):
		c.forStatement()
	case c.match(token.IF):
		c.ifStatement()
	case c.match(token.RETURN):
		c.returnStatement()
	case c.match(token.WHILE):
		c.whileStatement()
	case c.match(token.LEFT_BRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) block() {
	for !c.check(token.RIGHT_BRACE) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RIGHT_BRACE, "Expect '}' after block.")
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after value.")
	c.emitOp(op.Print)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after expression.")
	c.emitOp(op.Pop)
}

func (c *Compiler) returnStatement() {
	if c.scope.Kind() == ScriptKind {
		c.error("Can't return from top-level code.")
	}
	if c.match(token.SEMICOLON) {
		c.emitReturn()
		return
	}
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after return value.")
	c.emitOp(op.Return)
}

func (c *Compiler) ifStatement() {
	c.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	thenJump := c.emitJump(op.JumpIfFalse)
	c.emitOp(op.Pop)
	c.statement()
	elseJump := c.emitJump(op.Jump)

	c.patchJump(thenJump)
	c.emitOp(op.Pop)
	if c.match(token.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := c.chunk().Len()
	c.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	exitJump := c.emitJump(op.JumpIfFalse)
	c.emitOp(op.Pop)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(op.Pop)
}

// forStatement compiles a for loop into the same shape as a while loop. The
// increment clause is emitted before the body, so the body jumps over it on
// entry and loops back to it at the end of each iteration.
func (c *Compiler) forStatement() {
	c.beginScope()
	c.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")
	switch {
	case c.match(token.SEMICOLON):
	case c.match(token.VAR):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := c.chunk().Len()
	exitJump := -1
	if !c.match(token.SEMICOLON) {
		c.expression()
		c.consume(token.SEMICOLON, "Expect ';' after loop condition.")
		exitJump = c.emitJump(op.JumpIfFalse)
		c.emitOp(op.Pop)
	}

	if !c.match(token.RIGHT_PAREN) {
		bodyJump := c.emitJump(op.Jump)
		incrementStart := c.chunk().Len()
		c.expression()
		c.emitOp(op.Pop)
		c.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")
		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	}

	c.statement()
	c.emitLoop(loopStart)
	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(op.Pop)
	}
	c.endScope()
}
