//go:build linux

package procfs

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// StatusField scans /proc/<pid>/status for a line whose key is exactly name
// and returns its value parsed as a base-10 integer.
//
// A line matches only if it is strictly longer than name, starts with name
// byte-for-byte, and follows it immediately with a colon; "Tgid" therefore
// does not match a "TgidX:" line and "Pid" does not match "PPid:". The
// first matching line wins. The kernel writes fields as "Key:\tValue", so
// leading spaces and tabs after the colon are skipped before parsing.
func (t *Tree) StatusField(pid int, name string) (int, error) {
	path, err := t.pidPath(pid, "status")
	if err != nil {
		return 0, err
	}

	f, err := t.openVerified(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) <= len(name) || line[:len(name)] != name || line[len(name)] != ':' {
			continue
		}

		value := strings.TrimLeft(line[len(name)+1:], " \t")
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("parse %s field %q: %w", path, name, err)
		}
		return n, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	return 0, fmt.Errorf("%w: %q in %s", ErrFieldNotFound, name, path)
}

// Tgid returns the thread-group id of pid, i.e. the pid of the thread that
// is the process's main thread.
func (t *Tree) Tgid(pid int) (int, error) {
	return t.StatusField(pid, "Tgid")
}
