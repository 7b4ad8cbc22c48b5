package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/linkcard/linkcard-api/internal/domain/availability"
)

// Session is one visitor's in-progress booking.
// The selection is always interpreted against Available for Date.
type Session struct {
	ID         uuid.UUID               `json:"id"`
	LocationID uuid.UUID               `json:"location_id"`
	Date       time.Time               `json:"date"`
	Available  []availability.Clock    `json:"available"`
	Selection  *availability.Selection `json:"selection"`
	Loading    bool                    `json:"loading"`
	CreatedAt  time.Time               `json:"created_at"`
	ExpiresAt  time.Time               `json:"expires_at"`
}

func newSession(locationID uuid.UUID, date, now time.Time) *Session {
	return &Session{
		ID:         uuid.New(),
		LocationID: locationID,
		Date:       availability.Day(date),
		Selection:  &availability.Selection{},
		CreatedAt:  now,
	}
}

// selection never returns nil so callers can toggle directly
func (s *Session) selection() *availability.Selection {
	if s.Selection == nil {
		s.Selection = &availability.Selection{}
	}
	return s.Selection
}
