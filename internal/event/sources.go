package event

// MergeSources unions incoming provenance tags into existing, preserving
// the existing order and appending unseen tags in arrival order. The
// second return reports whether anything new was added.
func MergeSources(existing, incoming []string) ([]string, bool) {
	seen := make(map[string]struct{}, len(existing))
	merged := make([]string, 0, len(existing)+len(incoming))
	for _, s := range existing {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		merged = append(merged, s)
	}
	changed := false
	for _, s := range incoming {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		merged = append(merged, s)
		changed = true
	}
	return merged, changed
}
