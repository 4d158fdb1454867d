// Package diagnostics is the analyzer's side-effect sink: suggestions,
// warnings, errors, and debug traces, each tagged with a source location.
// It also carries the implementation-fault path (Fatal) that aborts the
// process rather than reporting a diagnostic, and the process-wide atomic
// counters that back the CLI's summary line.
package diagnostics

import (
	"fmt"
	"io"
	"sort"
	"sync/atomic"

	"github.com/nsyo/jsre/internal/token"
)

// Severity is one of the four diagnostic levels.
type Severity int

const (
	Trace Severity = iota
	Suggest
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Trace:
		return "debug"
	case Suggest:
		return "suggest"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Code identifies a diagnostic's kind, independent of its rendered message,
// so tests and tools can match on it instead of parsing text.
type Code string

// Diagnostic is one reported message.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Pos      token.Position
}

func (d *Diagnostic) String() string {
	prefix := d.Severity.String()
	if d.Severity == Error {
		prefix = "error"
	}
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s", d.Pos.String(), prefix, d.Message)
	}
	return fmt.Sprintf("%s: %s", prefix, d.Message)
}

// New builds a Diagnostic at the given severity.
func New(sev Severity, code Code, pos token.Position, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Severity: sev, Code: code, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func NewError(code Code, pos token.Position, format string, args ...interface{}) *Diagnostic {
	return New(Error, code, pos, format, args...)
}

func NewWarning(code Code, pos token.Position, format string, args ...interface{}) *Diagnostic {
	return New(Warning, code, pos, format, args...)
}

func NewSuggestion(code Code, pos token.Position, format string, args ...interface{}) *Diagnostic {
	return New(Suggest, code, pos, format, args...)
}

func NewTrace(code Code, pos token.Position, format string, args ...interface{}) *Diagnostic {
	return New(Trace, code, pos, format, args...)
}

// Counters is a process-wide record of atomic counters: incremented
// without coordination since many modules may be analyzed concurrently.
type Counters struct {
	errors      int64
	warnings    int64
	suggestions int64
	traces      int64
}

func (c *Counters) Errors() int64      { return atomic.LoadInt64(&c.errors) }
func (c *Counters) Warnings() int64    { return atomic.LoadInt64(&c.warnings) }
func (c *Counters) Suggestions() int64 { return atomic.LoadInt64(&c.suggestions) }
func (c *Counters) Traces() int64      { return atomic.LoadInt64(&c.traces) }

func (c *Counters) bump(sev Severity) {
	switch sev {
	case Error:
		atomic.AddInt64(&c.errors, 1)
	case Warning:
		atomic.AddInt64(&c.warnings, 1)
	case Suggest:
		atomic.AddInt64(&c.suggestions, 1)
	case Trace:
		atomic.AddInt64(&c.traces, 1)
	}
}

// Summary renders the CLI's closing line.
func (c *Counters) Summary() string {
	return fmt.Sprintf("Found %d error(s), %d warning(s) and %d suggestion(s).",
		c.Errors(), c.Warnings(), c.Suggestions())
}

// Sink collects diagnostics and exposes the four reporting verbs:
// suggest/warn/error/trace. Bumping counters is atomic, but Report appends
// under no lock, so a Sink is not safe for concurrent Report calls; each
// module's analysis passes run single-threaded and the CLI drains one
// module at a time.
type Sink struct {
	Counters Counters
	Out      io.Writer

	// Enabled, if set, gates which severities are printed to Out — the
	// CLI's -d/-s flags (trace/suggest are opt-in; warnings and errors
	// always print). Every severity is still recorded and counted
	// regardless of Enabled, so the summary line's counts never depend on
	// which flags were passed.
	Enabled func(Severity) bool

	diagnostics []*Diagnostic
}

func NewSink(out io.Writer) *Sink {
	return &Sink{Out: out}
}

// Report records d, bumps the relevant counter, and (if Out is set and
// Enabled doesn't say otherwise) writes the rendered line immediately —
// matching a streaming CLI that prints diagnostics as they're found
// rather than buffering until the end.
func (s *Sink) Report(d *Diagnostic) {
	s.diagnostics = append(s.diagnostics, d)
	s.Counters.bump(d.Severity)
	if s.Out != nil && (s.Enabled == nil || s.Enabled(d.Severity)) {
		fmt.Fprintln(s.Out, d.String())
	}
}

func (s *Sink) Suggest(code Code, pos token.Position, format string, args ...interface{}) {
	s.Report(NewSuggestion(code, pos, format, args...))
}

func (s *Sink) Warn(code Code, pos token.Position, format string, args ...interface{}) {
	s.Report(NewWarning(code, pos, format, args...))
}

func (s *Sink) Error(code Code, pos token.Position, format string, args ...interface{}) {
	s.Report(NewError(code, pos, format, args...))
}

func (s *Sink) Trace(code Code, pos token.Position, format string, args ...interface{}) {
	s.Report(NewTrace(code, pos, format, args...))
}

// All returns every diagnostic reported so far, sorted by position then by
// severity (errors first) for deterministic CLI/test output.
func (s *Sink) All() []*Diagnostic {
	out := make([]*Diagnostic, len(s.diagnostics))
	copy(out, s.diagnostics)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Pos, out[j].Pos
		if pi.Filename != pj.Filename {
			return pi.Filename < pj.Filename
		}
		if pi.Line != pj.Line {
			return pi.Line < pj.Line
		}
		if pi.Column != pj.Column {
			return pi.Column < pj.Column
		}
		return out[i].Severity > out[j].Severity
	})
	return out
}

// Fatal is an implementation fault: a condition the analyzer cannot
// continue past. It panics with *FatalError rather
// than calling os.Exit directly, so the CLI entry point controls the exit
// code and can flush buffered output first.
func Fatal(format string, args ...interface{}) {
	panic(&FatalError{Message: fmt.Sprintf(format, args...)})
}

type FatalError struct {
	Message string
}

func (e *FatalError) Error() string { return e.Message }

// Assert panics with a FatalError if cond is false — used to guard
// internal invariants (node ids, sealed blocks, φ operand presence) whose
// violation indicates a builder bug, not a property of the analyzed code.
func Assert(cond bool, format string, args ...interface{}) {
	if !cond {
		Fatal(format, args...)
	}
}

// Recover turns a panicked *FatalError into a returned error, for a
// top-level driver that wants one fatal-message-and-exit path instead of
// letting the panic escape to the Go runtime's crash handler.
func Recover(err *error) {
	if r := recover(); r != nil {
		if fe, ok := r.(*FatalError); ok {
			*err = fe
			return
		}
		panic(r)
	}
}
