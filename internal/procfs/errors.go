package procfs

import "errors"

// Sentinel errors for failures that do not originate in a system call.
// Syscall and strconv failures are returned wrapped and keep their own
// identity for errors.Is/As.
var (
	// ErrWrongFilesystem means a handle's device major number is non-zero,
	// so it cannot be procfs.
	ErrWrongFilesystem = errors.New("not on a procfs filesystem")

	// ErrFieldNotFound means a status record was read to the end without a
	// line matching the requested key.
	ErrFieldNotFound = errors.New("status field not found")

	// ErrPathTooLong means a constructed path exceeds PATH_MAX. It is
	// reported before any filesystem call is attempted.
	ErrPathTooLong = errors.New("path too long")

	// ErrInvalidHandle means a nil or closed file was passed for
	// verification.
	ErrInvalidHandle = errors.New("invalid file handle")

	// ErrInvalidPID means a non-positive process id was supplied.
	ErrInvalidPID = errors.New("invalid pid")
)
