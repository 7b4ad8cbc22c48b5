package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Queue names
const (
	QueueBookingCreated = "booking.created"
)

// BookingCreated is published after a visitor's booking is persisted.
// Downstream workers own the confirmation emails.
type BookingCreated struct {
	BookingID       uuid.UUID `json:"booking_id"`
	LocationID      uuid.UUID `json:"location_id"`
	AppointmentDate string    `json:"appointment_date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	VisitorName     string    `json:"visitor_name"`
	VisitorEmail    string    `json:"visitor_email"`
	CreatedAt       time.Time `json:"created_at"`
}

// Publisher hands domain events to the broker
type Publisher interface {
	PublishBookingCreated(ctx context.Context, event BookingCreated) error
	Close() error
}

// NopPublisher drops events; used when no broker is configured
type NopPublisher struct{}

func (NopPublisher) PublishBookingCreated(context.Context, BookingCreated) error { return nil }
func (NopPublisher) Close() error                                                { return nil }
