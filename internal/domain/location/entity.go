package location

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/linkcard/linkcard-api/internal/domain/availability"
)

// Location is a place where a card owner receives appointments
type Location struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OwnerID   uuid.UUID `db:"owner_id" json:"owner_id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	Timezone  string    `db:"timezone" json:"timezone"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TimeLocation returns the IANA zone bookings at this location are expressed in.
// Unknown zones fall back to UTC.
func (l *Location) TimeLocation() *time.Location {
	if tz, err := time.LoadLocation(l.Timezone); err == nil && l.Timezone != "" {
		return tz
	}
	return time.UTC
}

// IsOwnedBy checks ownership
func (l *Location) IsOwnedBy(ownerID uuid.UUID) bool {
	return l.OwnerID == ownerID
}

// Rule is an availability rule row as stored in availability_rules
type Rule struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	LocationID   uuid.UUID      `db:"location_id" json:"location_id"`
	StartTime    string         `db:"start_time" json:"start_time"`
	EndTime      string         `db:"end_time" json:"end_time"`
	Days         pq.StringArray `db:"days" json:"days"`
	SpecificDate *time.Time     `db:"specific_date" json:"specific_date,omitempty"`
	ApplyToMonth bool           `db:"apply_to_month" json:"apply_to_month"`
	TargetMonth  *string        `db:"target_month" json:"target_month,omitempty"`
	IsActive     bool           `db:"is_active" json:"is_active"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// ToRecord converts the row into the raw record the availability engine compiles
func (r *Rule) ToRecord() availability.RuleRecord {
	rec := availability.RuleRecord{
		ID:           r.ID,
		LocationID:   r.LocationID,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Days:         []string(r.Days),
		SpecificDate: r.SpecificDate,
		ApplyToMonth: r.ApplyToMonth,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
	}
	if r.TargetMonth != nil {
		rec.TargetMonth = *r.TargetMonth
	}
	return rec
}

// Records converts a rule list of one location for the availability engine
func Records(rules []Rule, zone *time.Location) []availability.RuleRecord {
	out := make([]availability.RuleRecord, len(rules))
	for i := range rules {
		out[i] = rules[i].ToRecord()
		out[i].Zone = zone
	}
	return out
}
