// Package procfilter selects scan targets with user-supplied expressions.
package procfilter

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"taskscan/internal/procmeta"
)

// Filter is a pre-compiled boolean expression evaluated against one
// process. The expression sees:
//
//	pid     int
//	tgid    int
//	comm    string
//	cmdline string
//	args    []string
//	env     map[string]string
type Filter struct {
	source  string
	program *vm.Program
}

// Compile type-checks and compiles source. The expression must evaluate to
// a boolean.
func Compile(source string) (*Filter, error) {
	program, err := expr.Compile(source, expr.Env(exprEnv(0, 0, nil)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter %q: %w", source, err)
	}
	return &Filter{source: source, program: program}, nil
}

// Match evaluates the filter against one process's metadata.
func (f *Filter) Match(pid, tgid int, md *procmeta.Metadata) (bool, error) {
	output, err := expr.Run(f.program, exprEnv(pid, tgid, md))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate filter %q: %w", f.source, err)
	}
	return output.(bool), nil
}

// String returns the filter's source expression.
func (f *Filter) String() string {
	return f.source
}

// exprEnv builds the evaluation environment. With a nil metadata it doubles
// as the type-checking environment for Compile.
func exprEnv(pid, tgid int, md *procmeta.Metadata) map[string]interface{} {
	if md == nil {
		md = &procmeta.Metadata{
			Args:    []string{},
			Environ: map[string]string{},
		}
	}
	return map[string]interface{}{
		"pid":     pid,
		"tgid":    tgid,
		"comm":    md.Comm,
		"cmdline": md.CmdlineFull,
		"args":    md.Args,
		"env":     md.Environ,
	}
}
