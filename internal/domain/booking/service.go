package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/linkcard/linkcard-api/internal/domain/availability"
	"github.com/linkcard/linkcard-api/internal/domain/location"
	"github.com/linkcard/linkcard-api/internal/pkg/events"
	"github.com/linkcard/linkcard-api/internal/pkg/logger"
)

// Locations is what the booking flow needs from the location domain
type Locations interface {
	LoadSchedule(ctx context.Context, locationID uuid.UUID) (*location.Location, []availability.RuleRecord, error)
	GetOwnedLocation(ctx context.Context, ownerID, locationID uuid.UUID) (*location.Location, error)
}

// DayAvailability is the bookable start list of one location on one date
type DayAvailability struct {
	LocationID uuid.UUID
	Date       time.Time
	Starts     []availability.Clock
}

// Service handles the visitor booking flow
type Service struct {
	repo      Repository
	locations Locations
	sessions  SessionStore
	publisher events.Publisher
	now       func() time.Time
}

// NewService creates booking service
func NewService(repo Repository, locations Locations, sessions SessionStore, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		locations: locations,
		sessions:  sessions,
		publisher: publisher,
		now:       time.Now,
	}
}

// Availability returns the bookable half-hour starts for date.
// Past dates, past starts of today and starts overlapping confirmed bookings are excluded.
func (s *Service) Availability(ctx context.Context, locationID uuid.UUID, date time.Time) (*DayAvailability, error) {
	loc, records, err := s.locations.LoadSchedule(ctx, locationID)
	if err != nil {
		return nil, err
	}

	day := availability.Day(date)
	out := &DayAvailability{LocationID: locationID, Date: day}

	now := s.now().In(loc.TimeLocation())
	today := availability.Day(now)
	if day.Before(today) {
		return out, nil
	}

	res := availability.Resolve(ctx, records, day)
	starts := availability.Availability(res.Rules)
	if len(starts) == 0 {
		return out, nil
	}

	busy, err := s.busySpans(ctx, locationID, day)
	if err != nil {
		return nil, err
	}
	starts = availability.Subtract(starts, busy)

	if day.Equal(today) {
		starts = availability.NotBefore(starts, availability.Clock(now.Hour()*60+now.Minute()))
	}
	out.Starts = starts
	return out, nil
}

func (s *Service) busySpans(ctx context.Context, locationID uuid.UUID, day time.Time) ([]availability.Span, error) {
	bookings, err := s.repo.ListByLocationAndDate(ctx, locationID, day)
	if err != nil {
		return nil, err
	}
	spans := make([]availability.Span, 0, len(bookings))
	for i := range bookings {
		span, err := bookings[i].Span()
		if err != nil {
			logger.LogWarn(ctx, "Skipping booking with unreadable times",
				"booking_id", bookings[i].ID.String(),
				"error", err.Error(),
			)
			continue
		}
		spans = append(spans, span)
	}
	return spans, nil
}

// CreateSession starts a booking session and loads availability for date
func (s *Service) CreateSession(ctx context.Context, locationID uuid.UUID, date time.Time) (*Session, error) {
	if err := s.checkNotPast(ctx, locationID, date); err != nil {
		return nil, err
	}

	sess := newSession(locationID, date, s.now().UTC())
	day, err := s.Availability(ctx, locationID, sess.Date)
	if err != nil {
		return nil, err
	}
	sess.Available = day.Starts

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// GetSession returns a live session
func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.sessions.Get(ctx, id)
}

// ChangeDate discards the selection and loads availability for the new date.
// While the load runs the session is marked Loading and toggles are rejected.
func (s *Service) ChangeDate(ctx context.Context, id uuid.UUID, date time.Time) (*Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkNotPast(ctx, sess.LocationID, date); err != nil {
		return nil, err
	}

	sess.Date = availability.Day(date)
	sess.Available = nil
	sess.selection().Clear()
	sess.Loading = true
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	day, loadErr := s.Availability(ctx, sess.LocationID, sess.Date)
	sess.Loading = false
	if loadErr == nil {
		sess.Available = day.Starts
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	if loadErr != nil {
		return nil, loadErr
	}
	return sess, nil
}

// Toggle adds or removes a start time from the session selection
// It shares the submit lock so a toggle cannot write back a session a submit already consumed.
func (s *Service) Toggle(ctx context.Context, id uuid.UUID, start availability.Clock) (*Session, error) {
	unlock, err := s.lockSession(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Loading {
		return nil, ErrAvailabilityLoading
	}
	if len(sess.Available) == 0 {
		return nil, availability.ErrNoAvailability
	}

	if err := sess.selection().Toggle(sess.Available, start); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Abandon discards the session and its selection
func (s *Service) Abandon(ctx context.Context, id uuid.UUID) error {
	return s.sessions.Delete(ctx, id)
}

// Submit turns the session selection into a confirmed booking.
// Availability is re-fetched first; a selection that went stale is cleared and reported.
func (s *Service) Submit(ctx context.Context, id uuid.UUID, req *SubmitRequest) (*Booking, error) {
	unlock, err := s.lockSession(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Loading {
		return nil, ErrAvailabilityLoading
	}
	sel := sess.selection()
	if sel.Empty() {
		return nil, availability.ErrEmptySelection
	}

	day, err := s.Availability(ctx, sess.LocationID, sess.Date)
	if err != nil {
		return nil, err
	}
	if err := sel.Reconcile(day.Starts); err != nil {
		s.refresh(ctx, sess, day.Starts)
		return nil, err
	}

	interval, err := availability.ResolveBooking(sel)
	if err != nil {
		return nil, err
	}
	// removals can leave gaps; every half hour inside the interval must still be free
	if missing := uncovered(interval, day.Starts); len(missing) > 0 {
		sel.Clear()
		s.refresh(ctx, sess, day.Starts)
		return nil, &availability.StaleSelectionError{Missing: missing}
	}

	b := &Booking{
		ID:              uuid.New(),
		LocationID:      sess.LocationID,
		AppointmentDate: sess.Date,
		StartTime:       interval.Start.String(),
		EndTime:         interval.End.String(),
		DurationMinutes: interval.DurationMinutes,
		VisitorName:     strings.TrimSpace(req.Name),
		VisitorEmail:    strings.ToLower(strings.TrimSpace(req.Email)),
		VisitorPhone:    strings.TrimSpace(req.Phone),
		Notes:           strings.TrimSpace(req.Notes),
		Status:          StatusConfirmed,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			sel.Clear()
			if fresh, ferr := s.Availability(ctx, sess.LocationID, sess.Date); ferr == nil {
				s.refresh(ctx, sess, fresh.Starts)
			}
		}
		return nil, err
	}

	logger.LogInfo(ctx, "Booking created",
		"booking_id", b.ID.String(),
		"location_id", b.LocationID.String(),
		"date", b.AppointmentDate.Format(availability.DateLayout),
		"start_time", b.StartTime,
		"end_time", b.EndTime,
	)

	if err := s.publisher.PublishBookingCreated(ctx, bookingCreatedEvent(b)); err != nil {
		logger.LogError(ctx, err, "Failed to publish booking.created", "booking_id", b.ID.String())
	}

	if err := s.sessions.Delete(ctx, id); err != nil {
		logger.LogWarn(ctx, "Failed to delete submitted session", "session_id", id.String(), "error", err.Error())
	}
	return b, nil
}

// GetBooking returns a booking for the visitor confirmation page
func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

// ListForOwner returns the confirmed bookings of an owned location on date
func (s *Service) ListForOwner(ctx context.Context, ownerID, locationID uuid.UUID, date time.Time) ([]Booking, error) {
	if _, err := s.locations.GetOwnedLocation(ctx, ownerID, locationID); err != nil {
		return nil, err
	}
	return s.repo.ListByLocationAndDate(ctx, locationID, availability.Day(date))
}

func (s *Service) checkNotPast(ctx context.Context, locationID uuid.UUID, date time.Time) error {
	loc, _, err := s.locations.LoadSchedule(ctx, locationID)
	if err != nil {
		return err
	}
	today := availability.Day(s.now().In(loc.TimeLocation()))
	if availability.Day(date).Before(today) {
		return ErrDateInPast
	}
	return nil
}

// lockSession takes the submit lock; ErrSubmissionInFlight when a submit or toggle holds it
func (s *Service) lockSession(ctx context.Context, id uuid.UUID) (func(), error) {
	acquired, err := s.sessions.AcquireSubmitLock(ctx, id)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrSubmissionInFlight
	}
	return func() {
		if err := s.sessions.ReleaseSubmitLock(context.WithoutCancel(ctx), id); err != nil {
			logger.LogError(ctx, err, "Failed to release submit lock", "session_id", id.String())
		}
	}, nil
}

// refresh stores the latest availability on the session, keeping the visitor on the same date
func (s *Service) refresh(ctx context.Context, sess *Session, starts []availability.Clock) {
	sess.Available = starts
	if err := s.sessions.Save(ctx, sess); err != nil {
		logger.LogWarn(ctx, "Failed to store refreshed availability", "session_id", sess.ID.String(), "error", err.Error())
	}
}

// uncovered returns the half-hour starts inside the interval that are not available
func uncovered(interval availability.BookingInterval, available []availability.Clock) []availability.Clock {
	free := make(map[availability.Clock]struct{}, len(available))
	for _, t := range available {
		free[t] = struct{}{}
	}
	span := interval.Span()
	var missing []availability.Clock
	for t := span.Start; t < span.End; t = t.Add(availability.SlotMinutes) {
		if _, ok := free[t]; !ok {
			missing = append(missing, t)
		}
	}
	return missing
}

func bookingCreatedEvent(b *Booking) events.BookingCreated {
	return events.BookingCreated{
		BookingID:       b.ID,
		LocationID:      b.LocationID,
		AppointmentDate: b.AppointmentDate.Format(availability.DateLayout),
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		DurationMinutes: b.DurationMinutes,
		VisitorName:     b.VisitorName,
		VisitorEmail:    b.VisitorEmail,
		CreatedAt:       b.CreatedAt,
	}
}
