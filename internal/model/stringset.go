package model

// UnionStrings appends the elements of src that are not already present in
// dst, preserving first-seen order. Matching is case-sensitive exact match.
//
// Design decision: We keep ordered slices plus a transient seen-map rather
// than map[string]struct{} sets because:
//  1. First-seen order makes report output stable without sorting
//  2. The slices marshal directly to JSON
//  3. Set sizes are small (per-page extraction results)
func UnionStrings(dst, src []string) []string {
	if len(src) == 0 {
		return dst
	}
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range src {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		dst = append(dst, v)
	}
	return dst
}

// UnionSocial merges src into dst, unioning the handle set per platform.
// A nil dst is allocated on demand so callers can merge into a zero value.
func UnionSocial(dst, src map[string][]string) map[string][]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string][]string, len(src))
	}
	for platform, handles := range src {
		dst[platform] = UnionStrings(dst[platform], handles)
	}
	return dst
}
