package diet

import "strings"

// Set is an ordered, case-insensitively deduplicated set of free-text labels
// (dietary requirements or allergens). The zero value is an empty set.
type Set struct {
	labels []string
	norm   []string
}

// NewSet trims labels, drops blanks and keeps the first spelling of each label
// that differs only by case.
func NewSet(labels ...string) Set {
	var s Set
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		n := strings.ToLower(l)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		s.labels = append(s.labels, l)
		s.norm = append(s.norm, n)
	}
	return s
}

// IsEmpty reports whether the set has no labels.
func (s Set) IsEmpty() bool { return len(s.labels) == 0 }

// Len returns the number of distinct labels.
func (s Set) Len() int { return len(s.labels) }

// Labels returns the labels in first-seen order, as supplied.
func (s Set) Labels() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// First returns the first label, or "" for an empty set.
func (s Set) First() string {
	if len(s.labels) == 0 {
		return ""
	}
	return s.labels[0]
}

func (s Set) normalized() []string { return s.norm }
