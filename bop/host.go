package bop

import (
	"fmt"
	"os"
)

// CallResult is what a Host.Call implementation returns for a name the
// evaluator could not resolve as a builtin or user function.
type CallResult struct {
	Handled bool
	Value   Value
	Err     error
}

// NotHandled lets a Host decline a call so the evaluator can fall
// through to its "function not found" error.
func NotHandled() CallResult { return CallResult{} }

// Handled wraps a successful host call result.
func Handled(v Value) CallResult { return CallResult{Handled: true, Value: v} }

// HandledErr wraps a failed host call; err flows back to the script
// unchanged, per spec.md §6's propagation rule.
func HandledErr(err error) CallResult { return CallResult{Handled: true, Err: err} }

// Host is the language-agnostic embedding contract the evaluator
// consumes: a single polymorphic capability set, matching spec.md §6.
type Host interface {
	// Call is invoked when the evaluator encounters a call that is
	// neither a builtin nor a user-defined function.
	Call(name string, args []Value, line int) CallResult
	// OnPrint is invoked by the builtin print for every rendered line.
	OnPrint(message string)
	// FunctionHint returns free-form text appended to "function not
	// found" errors; an empty string adds nothing.
	FunctionHint() string
	// OnTick is invoked once per statement or loop iteration, after
	// the step counter's own limit check has passed; a non-nil error
	// halts the run immediately.
	OnTick() error
}

// DefaultHost is the zero-configuration Host: print goes to Out (stdout
// when built by NewDefaultHost; discarded when Out is nil), no calls
// are handled, no hint text, ticks always succeed.
type DefaultHost struct {
	Out func(string)
}

// NewDefaultHost returns a Host that writes print() output to stdout.
func NewDefaultHost() *DefaultHost {
	return &DefaultHost{Out: func(s string) { fmt.Fprintln(os.Stdout, s) }}
}

func (h *DefaultHost) Call(name string, args []Value, line int) CallResult { return NotHandled() }

func (h *DefaultHost) OnPrint(message string) {
	if h.Out != nil {
		h.Out(message)
	}
}

func (h *DefaultHost) FunctionHint() string { return "" }

func (h *DefaultHost) OnTick() error { return nil }

// Limits bounds a single run: spec.md §6 names max_steps and
// max_memory; Seed is an ambient extension letting an embedder make
// rand() reproducible across runs without changing script source.
type Limits struct {
	MaxSteps  int
	MaxMemory int
	Seed      uint64
}

// StandardLimits is spec.md §6's "standard" preset.
func StandardLimits() Limits {
	return Limits{MaxSteps: 10_000, MaxMemory: 10 * 1024 * 1024}
}

// DemoLimits is spec.md §6's "demo" preset.
func DemoLimits() Limits {
	return Limits{MaxSteps: 1_000, MaxMemory: 1024 * 1024}
}
