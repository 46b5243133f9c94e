//go:build linux

package procfs

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

// TIDFunc decides, per newly observed thread id, whether the enumerator
// should treat it as handled. Returning true marks the TID as seen so it is
// not reported again during the same call; returning false leaves it
// eligible for a later pass. Returning an error aborts the enumeration
// immediately. In a tracer the callback attaches to the thread and returns
// true only if the attach succeeded.
type TIDFunc func(tid int) (bool, error)

// scanState tracks the stability protocol. A clean pass in passOne still
// needs confirming; a clean pass in passTwo means the thread set is stable.
type scanState int

const (
	passOne scanState = iota
	passTwo
)

// ForEachTID lists /proc/<pid>/task and invokes fn once per newly observed
// thread id.
//
// A single listing races with thread activity in the target: a thread
// created behind the listing cursor is missed, and a TID that exits can be
// reused by an unrelated thread. Like gdb, the enumeration therefore only
// completes after two consecutive passes in which no new TID was accepted.
// Whenever a pass accepts a new TID and retryUntilStable is set, the
// directory is rewound and the check restarts from the first pass. This is
// only safe if fn attaches to accepted threads so they cannot disappear and
// have their TID reused.
//
// With retryUntilStable false, exactly two raw passes are taken. The second
// pass continues from the directory cursor, which a full first pass leaves
// at end-of-directory.
//
// If the target spawns accepted threads faster than they can be observed,
// the call does not terminate; bounding that is left to the caller, which
// can stop the enumeration by returning an error from fn.
func (t *Tree) ForEachTID(pid int, fn TIDFunc, retryUntilStable bool) error {
	path, err := t.pidPath(pid, "task")
	if err != nil {
		return err
	}

	dir, err := t.openVerified(path)
	if err != nil {
		return err
	}
	defer dir.Close()

	seen := make(map[int]struct{})
	state := passOne
	for {
		foundNew, err := t.scanPass(dir, path, seen, fn)
		if err != nil {
			return err
		}

		switch {
		case foundNew && retryUntilStable:
			// Restart the stability check; the next pass must re-read the
			// directory from the beginning.
			if _, err := dir.Seek(0, io.SeekStart); err != nil {
				return fmt.Errorf("rewind %s: %w", path, err)
			}
			state = passOne
		case state == passOne:
			state = passTwo
		default:
			return nil
		}
	}
}

// scanPass reads directory entries from the current cursor to the end,
// invoking fn for each TID not yet in seen. It reports whether any TID was
// newly accepted.
func (t *Tree) scanPass(dir *os.File, path string, seen map[int]struct{}, fn TIDFunc) (bool, error) {
	names, err := dir.Readdirnames(-1)
	if err != nil {
		return false, fmt.Errorf("list %s: %w", path, err)
	}

	foundNew := false
	for _, name := range names {
		if name == "." || name == ".." {
			continue
		}
		tid, err := strconv.Atoi(name)
		if err != nil {
			// Task directories only ever contain decimal TIDs.
			return false, fmt.Errorf("task entry %q in %s: %w", name, path, err)
		}

		if _, ok := seen[tid]; ok {
			continue
		}
		accept, err := fn(tid)
		if err != nil {
			return false, err
		}
		if accept {
			seen[tid] = struct{}{}
			foundNew = true
		}
	}
	return foundNew, nil
}
