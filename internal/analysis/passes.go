// Package analysis implements the two IR-level analysis/optimization
// passes the compiler requires: uninitialized-variable detection (a
// forward dataflow analysis that must run, since it rejects programs) and
// constant propagation (an optional rewrite). Pass selection is exposed
// through PipelineOptions, a small named-pass-toggle type rather than a
// fixed boolean-per-pass struct, so adding a pass later doesn't touch
// every call site.
package analysis

import (
	"github.com/pallene-lang/pallenec/internal/cerr"
	"github.com/pallene-lang/pallenec/internal/ir"
)

// PassName identifies one analysis/optimization pass for --pass
// selection on the command line and for programmatic pipeline control.
type PassName string

const (
	PassUninitialized PassName = "uninitialized"
	PassConstProp     PassName = "constant_propagation"
)

// Option toggles a pass on or off in a PipelineOptions.
type Option func(*PipelineOptions)

// PipelineOptions controls which passes Run executes. The zero value
// runs every pass: absent means enabled.
type PipelineOptions struct {
	enabled map[PassName]bool
}

func (o PipelineOptions) isEnabled(pass PassName) bool {
	if o.enabled == nil {
		return true
	}
	v, ok := o.enabled[pass]
	if !ok {
		return true
	}
	return v
}

// WithPass enables or disables a named pass.
func WithPass(pass PassName, enabled bool) Option {
	return func(o *PipelineOptions) {
		if o.enabled == nil {
			o.enabled = make(map[PassName]bool)
		}
		o.enabled[pass] = enabled
	}
}

// Run executes the enabled passes over mod in order (uninitialized
// analysis first, since it is a correctness check the other pass should
// not run ahead of) and returns any diagnostics. Both passes stop at
// their first error rather than accumulating every one, unlike the
// parser/checker stages.
func Run(mod *ir.Module, opts ...Option) []*cerr.Error {
	var o PipelineOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.isEnabled(PassUninitialized) {
		for _, fn := range mod.Functions {
			if err := CheckUninitialized(fn); err != nil {
				return []*cerr.Error{err}
			}
		}
	}

	if o.isEnabled(PassConstProp) {
		for _, fn := range mod.Functions {
			PropagateConstants(fn)
		}
	}

	return nil
}
