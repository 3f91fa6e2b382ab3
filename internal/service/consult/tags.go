package consult

import "strings"

// SplitTags splits a comma-separated tag cell into trimmed, non-empty tokens.
func SplitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// MergeTags unions the new tag string into the existing one. The result is
// de-duplicated and keeps first-seen order, so merging the same tags twice
// is a no-op.
func MergeTags(existing, added string) string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range append(SplitTags(existing), SplitTags(added)...) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return strings.Join(out, ", ")
}
