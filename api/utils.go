package api

// truncate shortens s to at most max bytes.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// capped returns at most max entries of names, never nil.
func capped(names []string, max int) []string {
	if max < 0 {
		max = 0
	}
	if len(names) > max {
		names = names[:max]
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}
