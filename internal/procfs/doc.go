// Package procfs reads per-process state from the proc pseudo-filesystem.
//
// It provides the primitives a thread-attaching tracer needs:
//
//   - VerifyFilesystem: confirm that an open handle really refers to procfs
//     and not to a filesystem mounted over the expected path
//   - StatusField / Tgid: extract one integer field from /proc/<pid>/status
//   - ForEachTID: enumerate /proc/<pid>/task with a two-pass stability
//     protocol that tolerates threads spawning and exiting mid-scan
//   - ListPIDs / ReadFile: scan the process table and read per-process files
//
// Every handle is verified before any content is read through it, closing
// the window between path construction and open in which the expected mount
// could be replaced.
//
// All operations are synchronous and own their handles for the duration of
// a single call. Nothing in this package logs; failures are returned as
// errors for the caller to surface.
package procfs
