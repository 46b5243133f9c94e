// Package procmeta collects process metadata from the /proc filesystem.
//
// Metadata holds the comm name, command-line arguments, and environment
// variables of one process, read through a verified procfs tree so the data
// cannot come from a substituted mount. It is the input for filter
// expression evaluation.
package procmeta
