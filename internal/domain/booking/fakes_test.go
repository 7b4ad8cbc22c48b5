package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/linkcard/linkcard-api/internal/domain/availability"
	"github.com/linkcard/linkcard-api/internal/domain/location"
	"github.com/linkcard/linkcard-api/internal/pkg/events"
)

type fakeRepo struct {
	mu       sync.Mutex
	bookings []Booking
	// conflictOnCreate simulates a concurrent booking caught by the exclusion constraint
	conflictOnCreate bool
}

func (f *fakeRepo) Create(ctx context.Context, b *Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conflictOnCreate {
		return ErrSlotTaken
	}
	f.bookings = append(f.bookings, *b)
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			b := f.bookings[i]
			return &b, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeRepo) ListByLocationAndDate(ctx context.Context, locationID uuid.UUID, date time.Time) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Booking
	for _, b := range f.bookings {
		if b.LocationID == locationID && b.AppointmentDate.Equal(date) && b.Status == StatusConfirmed {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeLocations struct {
	loc     *location.Location
	records []availability.RuleRecord
	// onLoad runs inside LoadSchedule, before returning
	onLoad func()
}

func (f *fakeLocations) LoadSchedule(ctx context.Context, locationID uuid.UUID) (*location.Location, []availability.RuleRecord, error) {
	if f.loc == nil || f.loc.ID != locationID || !f.loc.IsActive {
		return nil, nil, location.ErrLocationNotFound
	}
	if f.onLoad != nil {
		f.onLoad()
	}
	return f.loc, f.records, nil
}

func (f *fakeLocations) GetOwnedLocation(ctx context.Context, ownerID, locationID uuid.UUID) (*location.Location, error) {
	if f.loc == nil || f.loc.ID != locationID {
		return nil, location.ErrLocationNotFound
	}
	if f.loc.OwnerID != ownerID {
		return nil, location.ErrNotLocationOwner
	}
	return f.loc, nil
}

type fakePublisher struct {
	events []events.BookingCreated
	err    error
}

func (f *fakePublisher) PublishBookingCreated(ctx context.Context, e events.BookingCreated) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakePublisher) Close() error { return nil }
