package booking

import "strings"

// NormalizeSeats trims and upper-cases seat labels and drops blank
// entries.  Order is preserved; duplicates are not removed, so the
// caller can distinguish "duplicate selection" from "empty
// selection".
func NormalizeSeats(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.ToUpper(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

// hasDuplicate reports whether the normalized label list contains the
// same seat more than once.
func hasDuplicate(labels []string) bool {
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			return true
		}
		seen[l] = struct{}{}
	}
	return false
}
