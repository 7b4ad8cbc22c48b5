package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/linkcard/linkcard-api/internal/domain/availability"
)

// CreateSessionRequest is the body of POST /booking-sessions
type CreateSessionRequest struct {
	LocationID string `json:"location_id" validate:"required,uuid"`
	Date       string `json:"date" validate:"required,date"`
}

// ChangeDateRequest is the body of PUT /booking-sessions/{id}/date
type ChangeDateRequest struct {
	Date string `json:"date" validate:"required,date"`
}

// ToggleRequest is the body of POST /booking-sessions/{id}/toggle
type ToggleRequest struct {
	StartTime string `json:"start_time" validate:"required,clock"`
}

// SubmitRequest carries the visitor contact details
type SubmitRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email,max=254"`
	Phone string `json:"phone" validate:"omitempty,max=50"`
	Notes string `json:"notes" validate:"omitempty,max=1000"`
}

// AvailabilityResponse is the public start list for one date.
// An empty list is a normal answer, flagged by NoAvailability.
type AvailabilityResponse struct {
	LocationID     uuid.UUID                       `json:"location_id"`
	Date           string                          `json:"date"`
	NoAvailability bool                            `json:"no_availability"`
	StartTimes     []string                        `json:"start_times"`
	Intervals      []availability.ResolvedInterval `json:"intervals"`
}

func AvailabilityResponseFrom(d *DayAvailability) AvailabilityResponse {
	return AvailabilityResponse{
		LocationID:     d.LocationID,
		Date:           d.Date.Format(availability.DateLayout),
		NoAvailability: len(d.Starts) == 0,
		StartTimes:     availability.ClockStrings(d.Starts),
		Intervals:      availability.Intervals(d.LocationID, d.Starts),
	}
}

// SessionResponse is the visitor view of a booking session.
// Preview is the interval a submit would book right now.
type SessionResponse struct {
	ID             uuid.UUID                     `json:"id"`
	LocationID     uuid.UUID                     `json:"location_id"`
	Date           string                        `json:"date"`
	Loading        bool                          `json:"loading"`
	NoAvailability bool                          `json:"no_availability"`
	Available      []string                      `json:"available"`
	Selected       []string                      `json:"selected"`
	Preview        *availability.BookingInterval `json:"preview,omitempty"`
	ExpiresAt      time.Time                     `json:"expires_at"`
}

func SessionResponseFrom(s *Session) SessionResponse {
	sel := s.selection()
	resp := SessionResponse{
		ID:             s.ID,
		LocationID:     s.LocationID,
		Date:           s.Date.Format(availability.DateLayout),
		Loading:        s.Loading,
		NoAvailability: !s.Loading && len(s.Available) == 0,
		Available:      availability.ClockStrings(s.Available),
		Selected:       availability.ClockStrings(sel.Slots()),
		ExpiresAt:      s.ExpiresAt,
	}
	if preview, err := availability.ResolveBooking(sel); err == nil {
		resp.Preview = &preview
	}
	return resp
}

// BookingResponse represents a booking in API response
type BookingResponse struct {
	ID              uuid.UUID `json:"id"`
	LocationID      uuid.UUID `json:"location_id"`
	AppointmentDate string    `json:"appointment_date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	VisitorName     string    `json:"visitor_name"`
	VisitorEmail    string    `json:"visitor_email"`
	VisitorPhone    string    `json:"visitor_phone,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func BookingResponseFromEntity(b *Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		LocationID:      b.LocationID,
		AppointmentDate: b.AppointmentDate.Format(availability.DateLayout),
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		DurationMinutes: b.DurationMinutes,
		VisitorName:     b.VisitorName,
		VisitorEmail:    b.VisitorEmail,
		VisitorPhone:    b.VisitorPhone,
		Notes:           b.Notes,
		Status:          b.Status,
		CreatedAt:       b.CreatedAt,
	}
}
