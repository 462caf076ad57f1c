package weekday

import (
	"sort"
	"strconv"
	"strings"
)

// Set is an unordered collection of weekdays. An empty set marks an
// irregular event, one that is not bound to specific weekdays.
type Set map[Weekday]struct{}

// NewSet builds a set from the given days. Invalid days are ignored.
func NewSet(days ...Weekday) Set {
	s := make(Set, len(days))
	for _, d := range days {
		s.Add(d)
	}
	return s
}

func (s Set) Add(d Weekday) {
	if d.Valid() {
		s[d] = struct{}{}
	}
}

func (s Set) Remove(d Weekday) {
	delete(s, d)
}

func (s Set) Contains(d Weekday) bool {
	_, ok := s[d]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

func (s Set) IsEmpty() bool {
	return len(s) == 0
}

func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for d := range s {
		if !other.Contains(d) {
			return false
		}
	}
	return true
}

// Days returns the members sorted by code.
func (s Set) Days() []Weekday {
	days := make([]Weekday, 0, len(s))
	for d := range s {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// Encode serializes the set as its weekday codes joined by single
// spaces. The empty set encodes to the empty string. The wire format
// carries no order guarantee; Decode(Encode(s)) is set-equal to s.
func Encode(s Set) string {
	if s.IsEmpty() {
		return ""
	}
	tokens := make([]string, 0, len(s))
	for _, d := range s.Days() {
		tokens = append(tokens, strconv.Itoa(int(d)))
	}
	return strings.Join(tokens, " ")
}

// Decode parses an encoded set. Tokens that are not integers, or that
// do not map to a known weekday code, are discarded rather than
// reported; malformed input degrades to a smaller or empty set.
func Decode(encoded string) Set {
	s := NewSet()
	for _, token := range strings.Fields(encoded) {
		code, err := strconv.ParseUint(token, 10, 8)
		if err != nil {
			continue
		}
		s.Add(Weekday(code))
	}
	return s
}
