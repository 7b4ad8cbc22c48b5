package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/linkcard/linkcard-api/internal/domain/location"
)

// Repository defines booking data access
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListByLocationAndDate(ctx context.Context, locationID uuid.UUID, date time.Time) ([]Booking, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates booking repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const bookingColumns = `id, location_id, appointment_date, start_time, end_time, duration_minutes,
	visitor_name, visitor_email, visitor_phone, notes, status, created_at`

func (r *repository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES (:id, :location_id, :appointment_date, :start_time, :end_time, :duration_minutes,
			:visitor_name, :visitor_email, :visitor_phone, :notes, :status, :created_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, b)
	return mapDBError(err)
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	var b Booking
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListByLocationAndDate returns confirmed bookings of one day, earliest first
func (r *repository) ListByLocationAndDate(ctx context.Context, locationID uuid.UUID, date time.Time) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + ` FROM bookings
		WHERE location_id = $1 AND appointment_date = $2 AND status = $3
		ORDER BY start_minute
	`
	var out []Booking
	err := r.db.SelectContext(ctx, &out, query, locationID, date.Format("2006-01-02"), StatusConfirmed)
	return out, err
}

// IsConflict reports an exclusion-constraint violation (overlapping confirmed booking)
func IsConflict(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23P01"
}

func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if IsConflict(err) {
		return fmt.Errorf("%w: %w", ErrSlotTaken, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return fmt.Errorf("%w: %w", location.ErrLocationNotFound, err)
	}
	return err
}
