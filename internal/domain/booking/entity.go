package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/linkcard/linkcard-api/internal/domain/availability"
)

// Status represents booking status
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Booking is a visitor appointment at a location.
// EndTime and DurationMinutes are stored as columns, never derived from notes.
type Booking struct {
	ID              uuid.UUID `db:"id"`
	LocationID      uuid.UUID `db:"location_id"`
	AppointmentDate time.Time `db:"appointment_date"`
	StartTime       string    `db:"start_time"`
	EndTime         string    `db:"end_time"`
	DurationMinutes int       `db:"duration_minutes"`
	VisitorName     string    `db:"visitor_name"`
	VisitorEmail    string    `db:"visitor_email"`
	VisitorPhone    string    `db:"visitor_phone"`
	Notes           string    `db:"notes"`
	Status          Status    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
}

// Span returns the booked [start, end) range of the day
func (b *Booking) Span() (availability.Span, error) {
	start, err := availability.ParseClock(b.StartTime)
	if err != nil {
		return availability.Span{}, err
	}
	end, err := availability.ParseClock(b.EndTime)
	if err != nil {
		return availability.Span{}, err
	}
	return availability.Span{Start: start, End: end}, nil
}
