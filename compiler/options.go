package compiler

import "github.com/rs/zerolog"

// Option is a configuration function for a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used to report compile errors and finished
// functions at debug level. The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) {
		c.log = logger
	}
}
