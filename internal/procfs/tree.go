//go:build linux

package procfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"golang.org/x/sys/unix"
)

// DefaultRoot is where the kernel conventionally exposes procfs.
const DefaultRoot = "/proc"

// maxPath mirrors PATH_MAX. Constructed paths are bounds-checked against it
// before any system call is made.
const maxPath = 4096

// Tree is a handle to one procfs mount. The zero value is not usable; use
// New or NewTree.
type Tree struct {
	root  string
	fstat func(fd int, st *unix.Stat_t) error
}

// Option configures a Tree.
type Option func(*Tree)

// WithFstat replaces the fstat primitive used by VerifyFilesystem. Tests
// use it to model handles that live on other filesystems.
func WithFstat(fn func(fd int, st *unix.Stat_t) error) Option {
	return func(t *Tree) {
		t.fstat = fn
	}
}

// New returns a Tree for the system procfs mount at /proc.
func New() *Tree {
	return NewTree(DefaultRoot)
}

// NewTree returns a Tree rooted at an alternate mount point.
func NewTree(root string, opts ...Option) *Tree {
	t := &Tree{
		root:  root,
		fstat: unix.Fstat,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Root returns the tree's mount point.
func (t *Tree) Root() string {
	return t.root
}

// VerifyFilesystem checks that an already-open handle genuinely refers to
// procfs. procfs is served from an unnamed device, so its device major
// number is 0; any other major means a different filesystem was mounted
// over the expected path between path construction and open.
//
// It must be called on every handle opened under the tree before any
// content is read through it.
func (t *Tree) VerifyFilesystem(f *os.File) error {
	if f == nil {
		return fmt.Errorf("%w: nil file", ErrInvalidHandle)
	}
	fd := int(f.Fd())
	if fd < 0 {
		return fmt.Errorf("%w: %s is closed", ErrInvalidHandle, f.Name())
	}

	var st unix.Stat_t
	if err := t.fstat(fd, &st); err != nil {
		return fmt.Errorf("fstat %s: %w", f.Name(), err)
	}

	if major := unix.Major(st.Dev); major != 0 {
		return fmt.Errorf("%w: %s is on device %d:%d",
			ErrWrongFilesystem, f.Name(), major, unix.Minor(st.Dev))
	}
	return nil
}

// pidPath builds <root>/<pid>[/parts...], rejecting non-positive pids and
// paths that would exceed PATH_MAX before touching the filesystem.
func (t *Tree) pidPath(pid int, parts ...string) (string, error) {
	if pid <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	elems := append([]string{t.root, strconv.Itoa(pid)}, parts...)
	path := filepath.Join(elems...)
	if len(path) >= maxPath {
		return "", fmt.Errorf("%w: %d bytes", ErrPathTooLong, len(path))
	}
	return path, nil
}

// openVerified opens path and verifies the resulting handle. The handle is
// closed again if verification fails.
func (t *Tree) openVerified(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := t.VerifyFilesystem(f); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// ReadFile returns the full contents of <root>/<pid>/<name>, verifying the
// handle before reading.
func (t *Tree) ReadFile(pid int, name string) ([]byte, error) {
	path, err := t.pidPath(pid, name)
	if err != nil {
		return nil, err
	}

	f, err := t.openVerified(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// ListPIDs returns the process ids currently present in the tree, in
// ascending order. Non-numeric entries (self, sys, ...) are skipped.
func (t *Tree) ListPIDs() ([]int, error) {
	if len(t.root) >= maxPath {
		return nil, fmt.Errorf("%w: %d bytes", ErrPathTooLong, len(t.root))
	}

	dir, err := t.openVerified(t.root)
	if err != nil {
		return nil, err
	}
	defer dir.Close()

	names, err := dir.Readdirnames(-1)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.root, err)
	}

	var pids []int
	for _, name := range names {
		pid, err := strconv.Atoi(name)
		if err != nil || pid <= 0 {
			continue // not a process entry
		}
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids, nil
}
