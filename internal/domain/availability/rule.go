package availability

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// Kind names a recurrence mode.
type Kind string

const (
	KindOneOff  Kind = "one_off"
	KindMonthly Kind = "monthly"
	KindWeekly  Kind = "weekly"
	KindAlways  Kind = "always"
)

// Recurrence decides on which calendar dates a rule applies.
// Exactly one of OneOff, Monthly, Weekly or Always.
type Recurrence interface {
	Kind() Kind
	Covers(date time.Time) bool
}

// OneOff applies on a single calendar date and overrides every other rule on that date.
type OneOff struct {
	Date time.Time
}

// Monthly applies to every day of one calendar month, optionally narrowed to some weekdays.
type Monthly struct {
	Month YearMonth
	Days  WeekdaySet
}

// Weekly applies on the listed weekdays.
type Weekly struct {
	Days WeekdaySet
}

// Always applies on every date.
type Always struct{}

func (OneOff) Kind() Kind  { return KindOneOff }
func (Monthly) Kind() Kind { return KindMonthly }
func (Weekly) Kind() Kind  { return KindWeekly }
func (Always) Kind() Kind  { return KindAlways }

func (r OneOff) Covers(date time.Time) bool { return Day(r.Date).Equal(Day(date)) }

func (r Monthly) Covers(date time.Time) bool {
	if !r.Month.Contains(date) {
		return false
	}
	return r.Days.Empty() || r.Days.Has(date.Weekday())
}

func (r Weekly) Covers(date time.Time) bool { return r.Days.Has(date.Weekday()) }

func (Always) Covers(time.Time) bool { return true }

// YearMonth identifies one calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses "YYYY-MM".
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

func (m YearMonth) Contains(date time.Time) bool {
	return date.Year() == m.Year && date.Month() == m.Month
}

func (m YearMonth) IsZero() bool { return m.Year == 0 && m.Month == 0 }

// Days returns every date of the month, first to last.
func (m YearMonth) Days() []time.Time {
	first := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	var out []time.Time
	for d := first; d.Month() == m.Month; d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func (m YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Day truncates t to its calendar date in UTC, keeping t's own year/month/day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// Rule is a compiled, well-formed availability rule.
type Rule struct {
	ID         uuid.UUID
	LocationID uuid.UUID
	Start      Clock
	End        Clock
	Recurrence Recurrence
	Active     bool
}

// RuleRecord is the raw shape persisted by the rule store.
type RuleRecord struct {
	ID           uuid.UUID
	LocationID   uuid.UUID
	StartTime    string
	EndTime      string
	Days         []string
	SpecificDate *time.Time
	ApplyToMonth bool
	TargetMonth  string
	IsActive     bool
	CreatedAt    time.Time
	// Zone is the location timezone; a monthly record without TargetMonth targets the
	// month of CreatedAt in this zone (UTC when nil).
	Zone *time.Location
}

// Compile turns a raw record into a Rule.
// A set specific_date wins over apply_to_month, which wins over days; no filter at all is Always.
func Compile(rec RuleRecord) (Rule, error) {
	fail := func(format string, args ...any) (Rule, error) {
		return Rule{}, &DataQualityError{RuleID: rec.ID, LocationID: rec.LocationID, Reason: fmt.Sprintf(format, args...)}
	}

	start, err := ParseClock(rec.StartTime)
	if err != nil {
		return fail("start_time: %v", err)
	}
	end, err := ParseClock(rec.EndTime)
	if err != nil {
		return fail("end_time: %v", err)
	}
	if start >= end {
		return fail("start_time %s must be before end_time %s", start, end)
	}
	days, err := ParseWeekdays(rec.Days)
	if err != nil {
		return fail("days: %v", err)
	}

	rule := Rule{
		ID:         rec.ID,
		LocationID: rec.LocationID,
		Start:      start,
		End:        end,
		Active:     rec.IsActive,
	}

	switch {
	case rec.SpecificDate != nil && !rec.SpecificDate.IsZero():
		rule.Recurrence = OneOff{Date: Day(*rec.SpecificDate)}
	case rec.ApplyToMonth:
		month, err := targetMonth(rec)
		if err != nil {
			return fail("%v", err)
		}
		rule.Recurrence = Monthly{Month: month, Days: days}
	case !days.Empty():
		rule.Recurrence = Weekly{Days: days}
	default:
		rule.Recurrence = Always{}
	}
	return rule, nil
}

// CompileAll compiles every record, collecting the ones that fail instead of stopping.
func CompileAll(records []RuleRecord) ([]Rule, []*DataQualityError) {
	rules := make([]Rule, 0, len(records))
	var issues []*DataQualityError
	for _, rec := range records {
		rule, err := Compile(rec)
		if err != nil {
			dq, ok := err.(*DataQualityError)
			if !ok {
				dq = &DataQualityError{RuleID: rec.ID, LocationID: rec.LocationID, Reason: err.Error()}
			}
			issues = append(issues, dq)
			continue
		}
		rules = append(rules, rule)
	}
	return rules, issues
}

func targetMonth(rec RuleRecord) (YearMonth, error) {
	if rec.TargetMonth != "" {
		return ParseYearMonth(rec.TargetMonth)
	}
	if !rec.CreatedAt.IsZero() {
		zone := rec.Zone
		if zone == nil {
			zone = time.UTC
		}
		return MonthOf(rec.CreatedAt.In(zone)), nil
	}
	return YearMonth{}, fmt.Errorf("monthly rule has no target month")
}
