package availability

import (
	"sort"

	"github.com/google/uuid"
)

// ResolvedInterval is one bookable half-hour start on a specific date.
type ResolvedInterval struct {
	LocationID uuid.UUID `json:"location_id"`
	Start      Clock     `json:"start_time"`
}

// Span is a half-open [Start, End) time range within a day.
type Span struct {
	Start Clock
	End   Clock
}

// Generate expands a rule into its half-hour start times. End itself is never a start.
func Generate(rule Rule) []Clock {
	var out []Clock
	for t := rule.Start; t < rule.End; t = t.Add(SlotMinutes) {
		out = append(out, t)
	}
	return out
}

// Availability unions the starts of all rules, dropping duplicates, earliest first.
func Availability(rules []Rule) []Clock {
	seen := make(map[Clock]struct{})
	var out []Clock
	for _, r := range rules {
		for _, t := range Generate(r) {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Intervals tags each start with its location.
func Intervals(locationID uuid.UUID, starts []Clock) []ResolvedInterval {
	out := make([]ResolvedInterval, len(starts))
	for i, t := range starts {
		out[i] = ResolvedInterval{LocationID: locationID, Start: t}
	}
	return out
}

// Subtract drops every start whose half-hour block overlaps a busy span.
func Subtract(starts []Clock, busy []Span) []Clock {
	if len(busy) == 0 {
		return starts
	}
	out := make([]Clock, 0, len(starts))
	for _, t := range starts {
		if !overlapsAny(t, t.Add(SlotMinutes), busy) {
			out = append(out, t)
		}
	}
	return out
}

// NotBefore drops starts earlier than cutoff.
func NotBefore(starts []Clock, cutoff Clock) []Clock {
	out := make([]Clock, 0, len(starts))
	for _, t := range starts {
		if t >= cutoff {
			out = append(out, t)
		}
	}
	return out
}

func overlapsAny(start, end Clock, busy []Span) bool {
	for _, b := range busy {
		// [start,end) overlaps [b.Start,b.End) iff start < b.End && b.Start < end.
		if start < b.End && b.Start < end {
			return true
		}
	}
	return false
}

func contains(list []Clock, t Clock) bool {
	for _, c := range list {
		if c == t {
			return true
		}
	}
	return false
}
