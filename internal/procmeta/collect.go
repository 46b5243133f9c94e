//go:build linux

package procmeta

import (
	"strings"

	"taskscan/internal/procfs"
)

// Collect reads the metadata of pid through tree.
//
// comm and cmdline failures abort the collection. environ needs ptrace
// access for other users' processes, so a failure there degrades to an
// empty environment instead of failing the whole collection.
func Collect(tree *procfs.Tree, pid int) (*Metadata, error) {
	comm, err := tree.ReadFile(pid, "comm")
	if err != nil {
		return nil, err
	}

	cmdline, err := tree.ReadFile(pid, "cmdline")
	if err != nil {
		return nil, err
	}

	environ, err := tree.ReadFile(pid, "environ")
	if err != nil {
		environ = nil
	}

	args := splitNUL(cmdline)
	return &Metadata{
		Comm:        strings.TrimRight(string(comm), "\n"),
		Args:        args,
		CmdlineFull: strings.Join(args, " "),
		Environ:     parseEnviron(splitNUL(environ)),
	}, nil
}
