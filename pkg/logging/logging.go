// Package logging defines the logging contract consumed by the store and
// session packages. Any logger with the leveled method set satisfies it;
// github.com/goliatone/go-logger's glog loggers do out of the box.
package logging

import "github.com/goliatone/go-logger/glog"

// Logger is the runtime logging contract.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
}

// Default returns a glog-backed logger at the given level.
func Default(level string) Logger {
	if level == "" {
		level = "info"
	}
	return glog.NewLogger(glog.WithLevel(level))
}

type nop struct{}

func (nop) Trace(string, ...any) {}
func (nop) Debug(string, ...any) {}
func (nop) Info(string, ...any)  {}
func (nop) Warn(string, ...any)  {}
func (nop) Error(string, ...any) {}
func (nop) Fatal(string, ...any) {}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return nop{}
}
