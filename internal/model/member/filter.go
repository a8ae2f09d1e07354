package member

import "strings"

// Filter narrows a member listing. Empty fields do not filter.
type Filter struct {
	Major string
	Dev   string
}

// Match reports whether m passes every set criterion.
func (f Filter) Match(m Member) bool {
	if f.Major != "" && !strings.EqualFold(m.Major, f.Major) {
		return false
	}
	if f.Dev != "" && m.Dev != strings.EqualFold(f.Dev, "true") {
		return false
	}
	return true
}
