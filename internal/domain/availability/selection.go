package availability

import (
	"encoding/json"
	"sort"
)

// Selection is a visitor's in-progress choice of half-hour starts on one date.
// The zero value is an empty selection.
type Selection struct {
	slots []Clock
}

// NewSelection builds a selection from already-chosen starts, sorted and deduplicated.
func NewSelection(starts ...Clock) *Selection {
	s := &Selection{}
	for _, t := range starts {
		if s.index(t) < 0 {
			s.slots = insertSorted(s.slots, t)
		}
	}
	return s
}

// Toggle applies one visitor click on start time t.
//
// Clicking a selected start removes it and nothing else; the remainder is not repaired.
// Clicking an unselected start adds it when it extends the selection contiguously. Otherwise the
// selection becomes the longest unbroken half-hour run through t built from the previous selection
// plus t, and everything outside that run is deselected.
func (s *Selection) Toggle(available []Clock, t Clock) error {
	if i := s.index(t); i >= 0 {
		s.slots = append(s.slots[:i], s.slots[i+1:]...)
		return nil
	}
	if !contains(available, t) {
		return ErrSlotUnavailable
	}

	candidate := insertSorted(append([]Clock(nil), s.slots...), t)
	if Contiguous(candidate) {
		s.slots = candidate
		return nil
	}
	s.slots = runAround(candidate, t)
	return nil
}

// Reconcile checks the selection against a freshly computed availability list.
// If any selected start disappeared the selection is cleared and a *StaleSelectionError returned.
func (s *Selection) Reconcile(available []Clock) error {
	var missing []Clock
	for _, t := range s.slots {
		if !contains(available, t) {
			missing = append(missing, t)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	s.Clear()
	return &StaleSelectionError{Missing: missing}
}

func (s *Selection) Clear() { s.slots = nil }

func (s *Selection) Empty() bool { return s == nil || len(s.slots) == 0 }

func (s *Selection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.slots)
}

func (s *Selection) Contains(t Clock) bool { return s.index(t) >= 0 }

// Slots returns a sorted copy of the selected starts.
func (s *Selection) Slots() []Clock {
	if s == nil {
		return nil
	}
	return append([]Clock(nil), s.slots...)
}

func (s *Selection) MarshalJSON() ([]byte, error) {
	return json.Marshal(ClockStrings(s.slots))
}

func (s *Selection) UnmarshalJSON(data []byte) error {
	var starts []Clock
	if err := json.Unmarshal(data, &starts); err != nil {
		return err
	}
	*s = *NewSelection(starts...)
	return nil
}

func (s *Selection) index(t Clock) int {
	for i, c := range s.slots {
		if c == t {
			return i
		}
	}
	return -1
}

// Contiguous reports whether every adjacent pair of the sorted list is exactly one slot apart.
func Contiguous(sorted []Clock) bool {
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] != SlotMinutes {
			return false
		}
	}
	return true
}

func runAround(sorted []Clock, t Clock) []Clock {
	at := sort.Search(len(sorted), func(i int) bool { return sorted[i] >= t })
	lo, hi := at, at
	for lo > 0 && sorted[lo]-sorted[lo-1] == SlotMinutes {
		lo--
	}
	for hi < len(sorted)-1 && sorted[hi+1]-sorted[hi] == SlotMinutes {
		hi++
	}
	return append([]Clock(nil), sorted[lo:hi+1]...)
}

func insertSorted(list []Clock, t Clock) []Clock {
	i := sort.Search(len(list), func(i int) bool { return list[i] >= t })
	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = t
	return list
}
