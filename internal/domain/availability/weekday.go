package availability

import (
	"fmt"
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// IsWeekdayName reports whether s is a lowercase weekday name.
func IsWeekdayName(s string) bool {
	_, ok := weekdayNames[s]
	return ok
}

// WeekdaySet is a duplicate-free set of weekdays, one bit per time.Weekday.
type WeekdaySet uint8

// ParseWeekdays builds a set from lowercase names. Unknown or repeated names are rejected.
func ParseWeekdays(names []string) (WeekdaySet, error) {
	var set WeekdaySet
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		d, ok := weekdayNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown weekday %q", raw)
		}
		if set.Has(d) {
			return 0, fmt.Errorf("duplicate weekday %q", raw)
		}
		set = set.With(d)
	}
	return set, nil
}

// NewWeekdaySet builds a set from time.Weekday values.
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var set WeekdaySet
	for _, d := range days {
		set = set.With(d)
	}
	return set
}

func (s WeekdaySet) With(d time.Weekday) WeekdaySet { return s | 1<<uint(d) }

func (s WeekdaySet) Has(d time.Weekday) bool { return s&(1<<uint(d)) != 0 }

func (s WeekdaySet) Empty() bool { return s == 0 }

// Names returns the set as lowercase names, Monday first.
func (s WeekdaySet) Names() []string {
	order := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}
	var out []string
	for _, d := range order {
		if s.Has(d) {
			out = append(out, strings.ToLower(d.String()))
		}
	}
	return out
}
