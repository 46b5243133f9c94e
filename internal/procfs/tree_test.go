//go:build linux

package procfs

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// fakeTree returns a Tree rooted in a temp directory whose fstat reports
// the given device major number, so handle verification can be exercised
// without a real procfs mount.
func fakeTree(t *testing.T, major uint32) *Tree {
	t.Helper()
	return NewTree(t.TempDir(), WithFstat(func(fd int, st *unix.Stat_t) error {
		st.Dev = unix.Mkdev(major, 24)
		return nil
	}))
}

// hugeTree returns a Tree whose root alone exceeds PATH_MAX. Its fstat
// fails the test if it is ever reached, proving that nothing was opened.
func hugeTree(t *testing.T) *Tree {
	t.Helper()
	root := strings.Repeat("p", maxPath)
	return NewTree(root, WithFstat(func(fd int, st *unix.Stat_t) error {
		t.Fatal("fstat reached despite over-long path")
		return nil
	}))
}

func writePIDFile(t *testing.T, tree *Tree, pid int, name, content string) {
	t.Helper()
	dir := filepath.Join(tree.Root(), strconv.Itoa(pid))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func makeTaskDir(t *testing.T, tree *Tree, pid int, tids ...int) string {
	t.Helper()
	dir := filepath.Join(tree.Root(), strconv.Itoa(pid), "task")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, tid := range tids {
		require.NoError(t, os.Mkdir(filepath.Join(dir, strconv.Itoa(tid)), 0o755))
	}
	return dir
}

func TestVerifyFilesystem_NilFile(t *testing.T) {
	tree := fakeTree(t, 0)

	err := tree.VerifyFilesystem(nil)

	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestVerifyFilesystem_ClosedFile(t *testing.T) {
	tree := fakeTree(t, 0)
	f, err := os.CreateTemp(t.TempDir(), "handle")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	err = tree.VerifyFilesystem(f)

	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestVerifyFilesystem_ZeroMajor(t *testing.T) {
	tree := fakeTree(t, 0)
	f, err := os.CreateTemp(tree.Root(), "handle")
	require.NoError(t, err)
	defer f.Close()

	assert.NoError(t, tree.VerifyFilesystem(f))
}

func TestVerifyFilesystem_NonZeroMajor(t *testing.T) {
	tree := fakeTree(t, 8)
	f, err := os.CreateTemp(tree.Root(), "handle")
	require.NoError(t, err)
	defer f.Close()

	err = tree.VerifyFilesystem(f)

	assert.ErrorIs(t, err, ErrWrongFilesystem)
}

func TestVerifyFilesystem_FstatFailure(t *testing.T) {
	tree := NewTree(t.TempDir(), WithFstat(func(fd int, st *unix.Stat_t) error {
		return unix.EACCES
	}))
	f, err := os.CreateTemp(tree.Root(), "handle")
	require.NoError(t, err)
	defer f.Close()

	err = tree.VerifyFilesystem(f)

	assert.ErrorIs(t, err, unix.EACCES)
}

func TestVerifyFilesystem_RealProcfs(t *testing.T) {
	f, err := os.Open("/proc/self/status")
	require.NoError(t, err)
	defer f.Close()

	assert.NoError(t, New().VerifyFilesystem(f))
}

func TestReadFile(t *testing.T) {
	tree := fakeTree(t, 0)
	writePIDFile(t, tree, 42, "comm", "cat\n")

	data, err := tree.ReadFile(42, "comm")

	require.NoError(t, err)
	assert.Equal(t, "cat\n", string(data))
}

func TestReadFile_WrongFilesystem(t *testing.T) {
	tree := fakeTree(t, 8)
	writePIDFile(t, tree, 42, "comm", "cat\n")

	_, err := tree.ReadFile(42, "comm")

	assert.ErrorIs(t, err, ErrWrongFilesystem)
}

func TestReadFile_MissingProcess(t *testing.T) {
	tree := fakeTree(t, 0)

	_, err := tree.ReadFile(42, "comm")

	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestListPIDs(t *testing.T) {
	tree := fakeTree(t, 0)
	for _, name := range []string{"42", "1", "137"} {
		require.NoError(t, os.Mkdir(filepath.Join(tree.Root(), name), 0o755))
	}
	// Non-numeric entries like self and stat are not process entries.
	require.NoError(t, os.Mkdir(filepath.Join(tree.Root(), "self"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tree.Root(), "stat"), []byte("cpu 0\n"), 0o644))

	pids, err := tree.ListPIDs()

	require.NoError(t, err)
	assert.Equal(t, []int{1, 42, 137}, pids)
}

func TestListPIDs_WrongFilesystem(t *testing.T) {
	tree := fakeTree(t, 8)

	_, err := tree.ListPIDs()

	assert.ErrorIs(t, err, ErrWrongFilesystem)
}
