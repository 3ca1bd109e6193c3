package monitor

import "strings"

// NewLines returns the complete lines of trace after the first seen lines,
// and the number of complete lines in trace.
//
// The trace always grows by appending. Its last segment after splitting on
// newlines is dropped: it is empty when the trace ends in a newline and an
// unfinished line otherwise, which is emitted once its newline arrives.
func NewLines(trace string, seen int) ([]string, int) {
	lines := strings.Split(trace, "\n")
	lines = lines[:len(lines)-1]
	if len(lines) <= seen {
		return nil, seen
	}
	return lines[seen:], len(lines)
}
