// Package favorites holds the toggle rules of the favorite cities list.
package favorites

// Toggle removes city from list when present and appends it otherwise.
// The input slice is never modified; the result is always a fresh slice.
func Toggle(list []string, city string) []string {
	out := make([]string, 0, len(list)+1)
	found := false
	for _, c := range list {
		if c == city {
			found = true
			continue
		}
		out = append(out, c)
	}
	if !found {
		out = append(out, city)
	}
	return out
}

func Contains(list []string, city string) bool {
	for _, c := range list {
		if c == city {
			return true
		}
	}
	return false
}

// Dedupe drops repeated names, keeping the first occurrence. Lists loaded
// from storage go through it so a hand-edited value cannot break the
// no-duplicates rule.
func Dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, c := range list {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
