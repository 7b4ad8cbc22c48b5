package location

import (
	"time"

	"github.com/google/uuid"

	"github.com/linkcard/linkcard-api/internal/domain/availability"
)

// CreateLocationRequest is the body of POST /locations
type CreateLocationRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Address  string `json:"address" validate:"max=500"`
	Timezone string `json:"timezone" validate:"required,timezone"`
}

// UpdateLocationRequest is the body of PUT /locations/{id}
type UpdateLocationRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
	Timezone *string `json:"timezone" validate:"omitempty,timezone"`
	IsActive *bool   `json:"is_active"`
}

// RuleRequest is the body of POST and PUT on /locations/{id}/rules
type RuleRequest struct {
	StartTime    string   `json:"start_time" validate:"required,clock"`
	EndTime      string   `json:"end_time" validate:"required,clock"`
	Days         []string `json:"days" validate:"omitempty,max=7,dive,weekday"`
	SpecificDate string   `json:"specific_date" validate:"omitempty,date"`
	ApplyToMonth bool     `json:"apply_to_month"`
	TargetMonth  string   `json:"target_month" validate:"omitempty,month"`
	IsActive     *bool    `json:"is_active"`
}

// LocationResponse represents location in API response
type LocationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Timezone  string    `json:"timezone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func LocationResponseFromEntity(l *Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Address:   l.Address,
		Timezone:  l.Timezone,
		IsActive:  l.IsActive,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// RuleResponse represents an availability rule in API response.
// Kind is empty and Issue set when the stored row cannot be compiled.
type RuleResponse struct {
	ID           uuid.UUID `json:"id"`
	LocationID   uuid.UUID `json:"location_id"`
	Kind         string    `json:"kind,omitempty"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	Days         []string  `json:"days"`
	SpecificDate *string   `json:"specific_date,omitempty"`
	ApplyToMonth bool      `json:"apply_to_month"`
	TargetMonth  *string   `json:"target_month,omitempty"`
	IsActive     bool      `json:"is_active"`
	Issue        string    `json:"issue,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func RuleResponseFromEntity(r *Rule) RuleResponse {
	resp := RuleResponse{
		ID:           r.ID,
		LocationID:   r.LocationID,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
		Days:         []string(r.Days),
		ApplyToMonth: r.ApplyToMonth,
		TargetMonth:  r.TargetMonth,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
	}
	if resp.Days == nil {
		resp.Days = []string{}
	}
	if r.SpecificDate != nil {
		d := r.SpecificDate.Format(availability.DateLayout)
		resp.SpecificDate = &d
	}

	compiled, err := availability.Compile(r.ToRecord())
	if err != nil {
		if dq, ok := err.(*availability.DataQualityError); ok {
			resp.Issue = dq.Reason
		} else {
			resp.Issue = err.Error()
		}
		return resp
	}
	resp.Kind = string(compiled.Recurrence.Kind())
	return resp
}

// CalendarDayResponse is one date of the owner calendar
type CalendarDayResponse struct {
	Date       string      `json:"date"`
	Kind       string      `json:"kind,omitempty"`
	RuleIDs    []uuid.UUID `json:"rule_ids"`
	StartTimes []string    `json:"start_times"`
}

// CalendarResponse is the month projection shown in the owner dashboard
type CalendarResponse struct {
	LocationID uuid.UUID                        `json:"location_id"`
	Month      string                           `json:"month"`
	Days       []CalendarDayResponse            `json:"days"`
	Issues     []*availability.DataQualityError `json:"issues"`
}

func CalendarResponseFromProjection(p *availability.MonthProjection) CalendarResponse {
	resp := CalendarResponse{
		LocationID: p.LocationID,
		Month:      p.Month.String(),
		Days:       make([]CalendarDayResponse, 0, len(p.Days)),
		Issues:     p.Issues,
	}
	if resp.Issues == nil {
		resp.Issues = []*availability.DataQualityError{}
	}
	for _, d := range p.Days {
		day := CalendarDayResponse{
			Date:       d.Date.Format(availability.DateLayout),
			RuleIDs:    make([]uuid.UUID, 0, len(d.Rules)),
			StartTimes: make([]string, 0, len(d.Intervals)),
		}
		if len(d.Rules) > 0 {
			day.Kind = string(d.Rules[0].Recurrence.Kind())
		}
		for _, r := range d.Rules {
			day.RuleIDs = append(day.RuleIDs, r.ID)
		}
		for _, iv := range d.Intervals {
			day.StartTimes = append(day.StartTimes, iv.Start.String())
		}
		resp.Days = append(resp.Days, day)
	}
	return resp
}
