package engine

import (
	"strconv"
	"strings"
	"time"
)

// StartLayout is the fixed textual format for start instants at the
// apply-edit boundary.
const StartLayout = "2006-01-02 15:04"

// parseDuration parses non-negative integer day counts. The boolean is false
// for malformed or negative input; the caller recovers with a zero default.
func parseDuration(raw string) (int, bool) {
	d, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}

// parseStart parses a start instant in StartLayout.
func parseStart(raw string) (time.Time, bool) {
	t, err := time.Parse(StartLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parsePredecessors splits a ";"-delimited id list, trimming whitespace and
// discarding empty tokens. Unknown ids survive parsing: dangling references
// are the resolver's concern, not a parse failure.
func parsePredecessors(raw string) []string {
	var ids []string
	for _, token := range strings.Split(raw, ";") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		ids = append(ids, token)
	}
	return ids
}
