package object

// String is an immutable Lox string. Strings created through a Heap are
// interned, so equal content implies the same *String.
type String struct {
	value string
}

func (s *String) Type() string {
	return STRING
}

func (s *String) Value() string {
	return s.value
}

func (s *String) Len() int {
	return len(s.value)
}

func (s *String) String() string {
	return s.value
}
