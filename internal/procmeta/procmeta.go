package procmeta

import (
	"bytes"
	"strings"
)

// Metadata holds structured process information for expression evaluation.
type Metadata struct {
	Comm        string            // Thread name from /proc/<pid>/comm
	Args        []string          // Command-line arguments
	CmdlineFull string            // Full command line as single string
	Environ     map[string]string // Parsed environment variables
}

// splitNUL splits the NUL-separated byte format of /proc cmdline and
// environ files into strings. A trailing NUL does not produce an empty
// final element.
func splitNUL(data []byte) []string {
	data = bytes.TrimRight(data, "\x00")
	if len(data) == 0 {
		return nil
	}
	return strings.Split(string(data), "\x00")
}

// parseEnviron converts KEY=VALUE pairs into a map. Entries without '=' or
// with an empty key are dropped; for duplicate keys the last value wins.
func parseEnviron(raw []string) map[string]string {
	result := make(map[string]string, len(raw))
	for _, entry := range raw {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		result[key] = value
	}
	return result
}
