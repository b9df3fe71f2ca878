// Package logger wraps the standard log package behind a small interface so
// components can be handed a silent logger in tests.
package logger

import (
	"fmt"
	"log"
)

// Logger is the logging surface used by every internal package.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Std writes plain lines through the standard library logger.
type Std struct {
	// Prefix is prepended to every line, e.g. "gamepad".
	Prefix string
}

func (l Std) Info(format string, args ...any)  { l.write("", format, args...) }
func (l Std) Warn(format string, args ...any)  { l.write("Warning: ", format, args...) }
func (l Std) Error(format string, args ...any) { l.write("Error: ", format, args...) }

func (l Std) write(level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if l.Prefix != "" {
		log.Printf("[%s] %s%s", l.Prefix, level, msg)
		return
	}
	log.Printf("%s%s", level, msg)
}

// Discard drops everything.
type Discard struct{}

func (Discard) Info(string, ...any)  {}
func (Discard) Warn(string, ...any)  {}
func (Discard) Error(string, ...any) {}

// New returns a Std logger with the given prefix.
func New(prefix string) Logger {
	return Std{Prefix: prefix}
}
