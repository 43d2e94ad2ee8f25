package safety

import "path"

// Filter decides whether a resource (a channel or guild ID) may be touched.
// Entries are path.Match globs. The denylist wins over the allowlist, and an
// empty allowlist allows everything not denied.
type Filter struct {
	allow []string
	deny  []string
}

// NewFilter builds a Filter from allow and deny glob lists. Either may be nil.
func NewFilter(allowlist, denylist []string) *Filter {
	return &Filter{
		allow: append([]string(nil), allowlist...),
		deny:  append([]string(nil), denylist...),
	}
}

// IsAllowed reports whether resource passes the filter. A nil Filter allows
// everything.
func (f *Filter) IsAllowed(resource string) bool {
	if f == nil {
		return true
	}
	if matchAny(f.deny, resource) {
		return false
	}
	if len(f.allow) == 0 {
		return true
	}
	return matchAny(f.allow, resource)
}

func matchAny(patterns []string, s string) bool {
	for _, p := range patterns {
		if p == s {
			return true
		}
		// Malformed patterns never match.
		if ok, err := path.Match(p, s); err == nil && ok {
			return true
		}
	}
	return false
}
