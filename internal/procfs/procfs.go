//go:build linux

package procfs

import "os"

// Default is the Tree for the system /proc mount. The package-level
// functions below operate on it.
var Default = New()

// VerifyFilesystem checks a handle against the system procfs mount.
func VerifyFilesystem(f *os.File) error {
	return Default.VerifyFilesystem(f)
}

// StatusField reads one integer field from /proc/<pid>/status.
func StatusField(pid int, name string) (int, error) {
	return Default.StatusField(pid, name)
}

// Tgid returns the thread-group id of pid.
func Tgid(pid int) (int, error) {
	return Default.Tgid(pid)
}

// ForEachTID enumerates the threads of pid under /proc.
func ForEachTID(pid int, fn TIDFunc, retryUntilStable bool) error {
	return Default.ForEachTID(pid, fn, retryUntilStable)
}
