package loader

import "strings"

// SplitRow splits one line of PostgreSQL COPY text output on single-tab
// delimiters, preserving empty fields from consecutive tabs. The trailing
// newline (and a possible preceding carriage return, for dumps produced or
// transferred on a CRLF system) is stripped first.
func SplitRow(line string) []string {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return strings.Split(line, "\t")
}
