package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CalendarDay is the admin view of one date: which rules govern it and which starts they open.
type CalendarDay struct {
	Date      time.Time
	Rules     []Rule
	Intervals []ResolvedInterval
}

// MonthProjection maps every date of a month to its availability.
type MonthProjection struct {
	LocationID uuid.UUID
	Month      YearMonth
	Days       []CalendarDay
	Issues     []*DataQualityError
}

// ProjectMonth resolves each date of the month with the same resolver the booking flow uses.
func ProjectMonth(ctx context.Context, locationID uuid.UUID, records []RuleRecord, month YearMonth) *MonthProjection {
	rules, issues := CompileAll(records)
	logIssues(ctx, issues)

	proj := &MonthProjection{LocationID: locationID, Month: month, Issues: issues}
	for _, date := range month.Days() {
		resolved := ResolveRules(rules, date)
		proj.Days = append(proj.Days, CalendarDay{
			Date:      date,
			Rules:     resolved,
			Intervals: Intervals(locationID, Availability(resolved)),
		})
	}
	return proj
}
