package availability

import (
	"context"
	"sort"
	"time"

	"github.com/linkcard/linkcard-api/internal/pkg/logger"
)

// Resolution is the set of rules governing one date at one location.
type Resolution struct {
	Date   time.Time
	Rules  []Rule
	Issues []*DataQualityError
}

// Empty reports whether nothing is bookable on the date.
func (r *Resolution) Empty() bool { return len(r.Rules) == 0 }

// Resolve compiles the raw rule records and resolves them for date.
// Records that cannot be compiled are skipped and logged as data-quality warnings.
func Resolve(ctx context.Context, records []RuleRecord, date time.Time) *Resolution {
	rules, issues := CompileAll(records)
	logIssues(ctx, issues)
	return &Resolution{
		Date:   Day(date),
		Rules:  ResolveRules(rules, date),
		Issues: issues,
	}
}

func logIssues(ctx context.Context, issues []*DataQualityError) {
	for _, dq := range issues {
		logger.FromContext(ctx).Warn().
			Str("rule_id", dq.RuleID.String()).
			Str("location_id", dq.LocationID.String()).
			Str("reason", dq.Reason).
			Msg("Skipping malformed availability rule")
	}
}

// ResolveRules returns the active rules governing date.
//
// Matching is priority ordered and mutually exclusive: one-off rules for the date win outright,
// then monthly rules covering the date, then weekly and always-on rules.
func ResolveRules(rules []Rule, date time.Time) []Rule {
	date = Day(date)

	var oneOff, monthly, weekly []Rule
	for _, r := range rules {
		if !r.Active || r.Recurrence == nil || !r.Recurrence.Covers(date) {
			continue
		}
		switch r.Recurrence.Kind() {
		case KindOneOff:
			oneOff = append(oneOff, r)
		case KindMonthly:
			monthly = append(monthly, r)
		case KindWeekly, KindAlways:
			weekly = append(weekly, r)
		}
	}

	switch {
	case len(oneOff) > 0:
		return sortRules(oneOff)
	case len(monthly) > 0:
		return sortRules(monthly)
	case len(weekly) > 0:
		return sortRules(weekly)
	}
	return nil
}

func sortRules(rules []Rule) []Rule {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Start != rules[j].Start {
			return rules[i].Start < rules[j].Start
		}
		if rules[i].End != rules[j].End {
			return rules[i].End < rules[j].End
		}
		return rules[i].ID.String() < rules[j].ID.String()
	})
	return rules
}
