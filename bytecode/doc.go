// Package bytecode provides the compiled representation of Lox functions.
//
// A [Chunk] holds three parallel pieces of data:
//
//   - the instruction stream: one-byte opcodes from package [op], each
//     followed by its fixed-width operands
//   - a line table with one source line per instruction byte
//   - a constant pool of [value.Value] entries referenced by a one-byte index
//
// Jump operands are two bytes, big-endian. Chunks are written only by the
// compiler of their owning function and are read-only once compilation of
// that function completes.
//
// # Package Dependencies
//
// This package depends only on [op] and [value] to avoid circular
// dependencies with the object package, which embeds a Chunk in every
// compiled function. Nested functions are reached through the [Nested]
// interface.
package bytecode
