package availability

// BookingInterval is the start, end and length committed for one booking.
type BookingInterval struct {
	Start           Clock `json:"start_time"`
	End             Clock `json:"end_time"`
	DurationMinutes int   `json:"duration_minutes"`
}

// ResolveBooking derives the booking interval from a finished selection.
//
// A single selected label books that half hour. With two or more labels the grid reads as
// "pick start, then pick end": the last label is the appointment's end time, not another block.
// So {09:00} books 09:00-09:30 and {09:00, 09:30, 10:00} books 09:00-10:00.
func ResolveBooking(sel *Selection) (BookingInterval, error) {
	if sel == nil || sel.Empty() {
		return BookingInterval{}, ErrEmptySelection
	}
	slots := sel.Slots()
	start := slots[0]
	if len(slots) == 1 {
		return BookingInterval{Start: start, End: start.Add(SlotMinutes), DurationMinutes: SlotMinutes}, nil
	}
	end := slots[len(slots)-1]
	return BookingInterval{Start: start, End: end, DurationMinutes: end.Minutes() - start.Minutes()}, nil
}

// Span returns the interval as a busy range.
func (b BookingInterval) Span() Span {
	return Span{Start: b.Start, End: b.End}
}
