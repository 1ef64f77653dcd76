package models

import (
	"fmt"
	"strings"
)

// Day is a teaching day. Weekends are not scheduled.
type Day string

const (
	Monday    Day = "MONDAY"
	Tuesday   Day = "TUESDAY"
	Wednesday Day = "WEDNESDAY"
	Thursday  Day = "THURSDAY"
	Friday    Day = "FRIDAY"
)

// Days lists teaching days in calendar order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

var dayAbbreviations = map[string]Day{
	"MON": Monday,
	"TUE": Tuesday,
	"WED": Wednesday,
	"THU": Thursday,
	"FRI": Friday,
}

// ParseDay accepts full day names or three-letter abbreviations in any case.
func ParseDay(raw string) (Day, error) {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if d := Day(upper); d.Valid() {
		return d, nil
	}
	if d, ok := dayAbbreviations[upper]; ok {
		return d, nil
	}
	return "", fmt.Errorf("invalid day %q", raw)
}

// Valid reports whether d is one of the five teaching days.
func (d Day) Valid() bool {
	return d.Index() > 0
}

// Index is the 1-based position of d in the week, 0 when invalid.
func (d Day) Index() int {
	for i, day := range Days {
		if d == day {
			return i + 1
		}
	}
	return 0
}

// DisplayName renders d for people, e.g. "Monday".
func (d Day) DisplayName() string {
	if !d.Valid() {
		return string(d)
	}
	return string(d[0]) + strings.ToLower(string(d[1:]))
}

// Term is the half of the academic year a semester covers.
type Term string

const (
	TermFall   Term = "FALL"
	TermSpring Term = "SPRING"
)

// ParseTerm accepts FALL or SPRING in any case.
func ParseTerm(raw string) (Term, error) {
	switch t := Term(strings.ToUpper(strings.TrimSpace(raw))); t {
	case TermFall, TermSpring:
		return t, nil
	default:
		return "", fmt.Errorf("invalid term %q", raw)
	}
}

// DisplayName renders t for people, e.g. "Fall".
func (t Term) DisplayName() string {
	switch t {
	case TermFall:
		return "Fall"
	case TermSpring:
		return "Spring"
	default:
		return string(t)
	}
}
