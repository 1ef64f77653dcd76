// Package timeofday models wall-clock times without a date, as stored in
// PostgreSQL TIME columns and entered in the booking forms.
package timeofday

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	clockPattern   = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)(?::([0-5]\d)(?:\.(\d{1,3}))?)?$`)
	displayPattern = regexp.MustCompile(`^(1[0-2]|[1-9]):([0-5]\d)(?::([0-5]\d))?\s*(AM|PM)$`)
)

// Time is a time of day with millisecond precision.
type Time struct {
	Hour        int
	Minute      int
	Second      int
	Millisecond int
}

// New builds a Time from its components, rejecting out-of-range values.
func New(hour, minute, second int) (Time, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return Time{}, fmt.Errorf("timeofday: invalid time %02d:%02d:%02d", hour, minute, second)
	}
	return Time{Hour: hour, Minute: minute, Second: second}, nil
}

// Parse reads a 24-hour timestamp of the form HH:MM[:SS[.mmm]].
func Parse(raw string) (Time, error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Time{}, fmt.Errorf("timeofday: malformed time %q, expected HH:MM[:SS[.mmm]]", raw)
	}
	t := Time{Hour: atoi(m[1]), Minute: atoi(m[2])}
	if m[3] != "" {
		t.Second = atoi(m[3])
	}
	if m[4] != "" {
		// ".5" is half a second, not five milliseconds
		t.Millisecond = atoi((m[4] + "00")[:3])
	}
	return t, nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(raw string) Time {
	t, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// Parse12h reads the display format produced by Format12h or Format12hSeconds.
func Parse12h(raw string) (Time, error) {
	m := displayPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(raw)))
	if m == nil {
		return Time{}, fmt.Errorf("timeofday: malformed display time %q, expected h:mm[:ss] AM|PM", raw)
	}
	hour := atoi(m[1]) % 12
	if m[4] == "PM" {
		hour += 12
	}
	t := Time{Hour: hour, Minute: atoi(m[2])}
	if m[3] != "" {
		t.Second = atoi(m[3])
	}
	return t, nil
}

// FromTime extracts the wall-clock part of t.
func FromTime(t time.Time) Time {
	return Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Millisecond: t.Nanosecond() / int(time.Millisecond)}
}

func (t Time) clock() time.Time {
	return time.Date(0, time.January, 1, t.Hour, t.Minute, t.Second, t.Millisecond*int(time.Millisecond), time.UTC)
}

// Compare returns -1, 0 or 1 when t is before, equal to or after u.
func (t Time) Compare(u Time) int {
	a, b := t.milliseconds(), u.milliseconds()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// IsBefore reports whether t is strictly earlier than u.
func (t Time) IsBefore(u Time) bool { return t.Compare(u) < 0 }

// IsAfter reports whether t is strictly later than u.
func (t Time) IsAfter(u Time) bool { return t.Compare(u) > 0 }

// IsSameAs reports whether t and u denote the same instant of the day.
func (t Time) IsSameAs(u Time) bool { return t.Compare(u) == 0 }

// Minutes returns the whole minutes elapsed since midnight.
func (t Time) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t Time) milliseconds() int {
	return ((t.Hour*60+t.Minute)*60+t.Second)*1000 + t.Millisecond
}

// String renders the 24-hour form HH:MM:SS, with milliseconds when present.
func (t Time) String() string {
	if t.Millisecond != 0 {
		return t.clock().Format("15:04:05.000")
	}
	return t.clock().Format("15:04:05")
}

// Format12h renders the display form without seconds, e.g. "1:30 PM".
func (t Time) Format12h() string {
	return t.clock().Format("3:04 PM")
}

// Format12hSeconds renders the display form with seconds, e.g. "1:30:05 PM".
func (t Time) Format12hSeconds() string {
	return t.clock().Format("3:04:05 PM")
}

// Scan implements sql.Scanner. lib/pq yields time.Time for TIME columns,
// views casting to text yield string or []byte.
func (t *Time) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*t = FromTime(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	case nil:
		return fmt.Errorf("timeofday: cannot scan NULL")
	default:
		return fmt.Errorf("timeofday: cannot scan %T", src)
	}
}

func (t *Time) scanString(raw string) error {
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer.
func (t Time) Value() (driver.Value, error) {
	return t.String(), nil
}

// MarshalJSON encodes the 24-hour form.
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes the 24-hour form.
func (t *Time) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timeofday: %w", err)
	}
	return t.scanString(raw)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
