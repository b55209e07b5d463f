package compiler

import "github.com/deepnoodle-ai/lox/internal/token"

// MaxLocals is the number of local slots addressable by a one-byte operand.
const MaxLocals = 256

// Uninitialized is the depth of a local that has been declared but whose
// initializer has not finished compiling.
const Uninitialized = -1

// Local is a local variable known to the compiler.
type Local struct {
	Name  token.Token
	Depth int
}

// LocalScope holds the locals declared in one block. Scopes are chained to
// the scope of the enclosing block within the same function; slots are
// assigned linearly across the chain, so the first local of a scope takes
// the slot after the last local of its enclosing scope.
type LocalScope struct {
	enclosing *LocalScope
	locals    []Local
	offset    int
}

// NewLocalScope returns an empty scope nested in enclosing, which may be nil
// for the outermost block of a function.
func NewLocalScope(enclosing *LocalScope) *LocalScope {
	s := &LocalScope{enclosing: enclosing}
	if enclosing != nil {
		s.offset = enclosing.offset + len(enclosing.locals)
	}
	return s
}

func (s *LocalScope) Enclosing() *LocalScope {
	return s.enclosing
}

// Count returns the number of locals declared directly in this scope.
func (s *LocalScope) Count() int {
	return len(s.locals)
}

// Local returns the i'th local declared in this scope.
func (s *LocalScope) Local(i int) Local {
	return s.locals[i]
}

// Add declares an uninitialized local and returns its slot. It returns false
// if the function already uses every slot.
func (s *LocalScope) Add(name token.Token) (int, bool) {
	slot := s.offset + len(s.locals)
	if slot >= MaxLocals {
		return 0, false
	}
	s.locals = append(s.locals, Local{Name: name, Depth: Uninitialized})
	return slot, true
}

// MarkInitialized sets the depth of the most recently declared local.
func (s *LocalScope) MarkInitialized(depth int) {
	if len(s.locals) == 0 {
		return
	}
	s.locals[len(s.locals)-1].Depth = depth
}

// Declares reports whether name is declared directly in this scope.
func (s *LocalScope) Declares(name string) bool {
	for i := len(s.locals) - 1; i >= 0; i-- {
		if s.locals[i].Name.Lexeme == name {
			return true
		}
	}
	return false
}

// Resolve finds the innermost local called name, searching this scope and
// then its enclosing scopes.
func (s *LocalScope) Resolve(name string) (int, Local, bool) {
	for scope := s; scope != nil; scope = scope.enclosing {
		for i := len(scope.locals) - 1; i >= 0; i-- {
			if scope.locals[i].Name.Lexeme == name {
				return scope.offset + i, scope.locals[i], true
			}
		}
	}
	return 0, Local{}, false
}
