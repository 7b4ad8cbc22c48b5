package location

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/linkcard/linkcard-api/internal/domain/availability"
)

func newTestService() (*Service, *fakeRepo, *fakeRedis) {
	repo := newFakeRepo()
	rdb := newFakeRedis()
	svc := NewService(repo, &redisRuleCache{client: rdb, ttl: time.Minute})
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) }
	return svc, repo, rdb
}

func mustCreateLocation(t *testing.T, svc *Service, owner uuid.UUID) *Location {
	t.Helper()
	loc, err := svc.CreateLocation(context.Background(), owner, &CreateLocationRequest{Name: "Studio", Timezone: "Europe/Berlin"})
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	return loc
}

func TestCreateRuleCanonicalizes(t *testing.T) {
	svc, _, _ := newTestService()
	owner := uuid.New()
	loc := mustCreateLocation(t, svc, owner)

	rule, err := svc.CreateRule(context.Background(), owner, loc.ID, &RuleRequest{
		StartTime: "9:00",
		EndTime:   "12:00",
		Days:      []string{"Wednesday", "monday"},
	})
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}
	if rule.StartTime != "09:00" || rule.EndTime != "12:00" {
		t.Fatalf("expected canonical times, got %s-%s", rule.StartTime, rule.EndTime)
	}
	if len(rule.Days) != 2 || rule.Days[0] != "monday" || rule.Days[1] != "wednesday" {
		t.Fatalf("expected canonical days, got %v", rule.Days)
	}
	if !rule.IsActive {
		t.Fatalf("new rules are active by default")
	}
}

func TestCreateRuleRejectsInvalid(t *testing.T) {
	svc, repo, _ := newTestService()
	owner := uuid.New()
	loc := mustCreateLocation(t, svc, owner)

	tests := []struct {
		name string
		req  RuleRequest
	}{
		{name: "end before start", req: RuleRequest{StartTime: "12:00", EndTime: "11:00"}},
		{name: "zero length", req: RuleRequest{StartTime: "12:00", EndTime: "12:00"}},
		{name: "duplicate day", req: RuleRequest{StartTime: "09:00", EndTime: "10:00", Days: []string{"monday", "monday"}}},
		{name: "date and month", req: RuleRequest{StartTime: "09:00", EndTime: "10:00", SpecificDate: "2026-10-14", ApplyToMonth: true}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateRule(context.Background(), owner, loc.ID, &tc.req)
			if !errors.Is(err, ErrInvalidRule) {
				t.Fatalf("expected ErrInvalidRule, got %v", err)
			}
		})
	}
	if len(repo.rules) != 0 {
		t.Fatalf("invalid rules must not be stored, found %d", len(repo.rules))
	}
}

func TestCreateMonthlyRuleDefaultsToCurrentMonth(t *testing.T) {
	svc, _, _ := newTestService()
	owner := uuid.New()
	loc := mustCreateLocation(t, svc, owner)

	rule, err := svc.CreateRule(context.Background(), owner, loc.ID, &RuleRequest{StartTime: "13:00", EndTime: "14:00", ApplyToMonth: true})
	if err != nil {
		t.Fatalf("create rule: %v", err)
	}
	if rule.TargetMonth == nil || *rule.TargetMonth != "2026-10" {
		t.Fatalf("expected target month 2026-10, got %v", rule.TargetMonth)
	}
}

func TestOwnershipEnforced(t *testing.T) {
	svc, _, _ := newTestService()
	loc := mustCreateLocation(t, svc, uuid.New())

	_, err := svc.CreateRule(context.Background(), uuid.New(), loc.ID, &RuleRequest{StartTime: "09:00", EndTime: "10:00"})
	if !errors.Is(err, ErrNotLocationOwner) {
		t.Fatalf("expected ErrNotLocationOwner, got %v", err)
	}
	if _, err := svc.Calendar(context.Background(), uuid.New(), loc.ID, availability.YearMonth{Year: 2026, Month: time.October}); !errors.Is(err, ErrNotLocationOwner) {
		t.Fatalf("expected ErrNotLocationOwner for calendar, got %v", err)
	}
}

func TestLoadScheduleUsesCacheAndInvalidates(t *testing.T) {
	svc, repo, rdb := newTestService()
	owner := uuid.New()
	loc := mustCreateLocation(t, svc, owner)
	ctx := context.Background()

	if _, err := svc.CreateRule(ctx, owner, loc.ID, &RuleRequest{StartTime: "09:00", EndTime: "10:00", Days: []string{"wednesday"}}); err != nil {
		t.Fatalf("create rule: %v", err)
	}

	for i := 0; i < 3; i++ {
		_, records, err := svc.LoadSchedule(ctx, loc.ID)
		if err != nil {
			t.Fatalf("load schedule: %v", err)
		}
		if len(records) != 1 || records[0].StartTime != "09:00" {
			t.Fatalf("unexpected records %+v", records)
		}
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected one database read, got %d", repo.listCalls)
	}
	if _, ok := rdb.data[ruleCacheKey(loc.ID)]; !ok {
		t.Fatalf("expected rules cached under %s", ruleCacheKey(loc.ID))
	}

	if _, err := svc.CreateRule(ctx, owner, loc.ID, &RuleRequest{StartTime: "15:00", EndTime: "16:00"}); err != nil {
		t.Fatalf("create rule: %v", err)
	}
	_, records, err := svc.LoadSchedule(ctx, loc.ID)
	if err != nil {
		t.Fatalf("load schedule: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("cache must be invalidated on rule write, got %d records", len(records))
	}
}

func TestLoadScheduleFallsBackWhenCacheFails(t *testing.T) {
	svc, _, rdb := newTestService()
	owner := uuid.New()
	loc := mustCreateLocation(t, svc, owner)
	rdb.failGet = true

	if _, _, err := svc.LoadSchedule(context.Background(), loc.ID); err != nil {
		t.Fatalf("cache failure must not fail the read: %v", err)
	}
}

func TestLoadScheduleHidesInactiveLocation(t *testing.T) {
	svc, _, _ := newTestService()
	owner := uuid.New()
	loc := mustCreateLocation(t, svc, owner)
	inactive := false

	if _, err := svc.UpdateLocation(context.Background(), owner, loc.ID, &UpdateLocationRequest{IsActive: &inactive}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, _, err := svc.LoadSchedule(context.Background(), loc.ID); !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestCalendarIncludesIssuesForLegacyRows(t *testing.T) {
	svc, repo, _ := newTestService()
	owner := uuid.New()
	loc := mustCreateLocation(t, svc, owner)

	// written before validation existed
	legacyID := uuid.New()
	repo.rules[legacyID] = &Rule{ID: legacyID, LocationID: loc.ID, StartTime: "18:00", EndTime: "17:00", IsActive: true}
	if _, err := svc.CreateRule(context.Background(), owner, loc.ID, &RuleRequest{StartTime: "09:00", EndTime: "10:00", Days: []string{"friday"}}); err != nil {
		t.Fatalf("create rule: %v", err)
	}

	proj, err := svc.Calendar(context.Background(), owner, loc.ID, availability.YearMonth{Year: 2026, Month: time.October})
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(proj.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(proj.Issues))
	}
	// 2026-10-16 is a friday
	day := proj.Days[15]
	if day.Date.Format(availability.DateLayout) != "2026-10-16" || len(day.Intervals) != 2 {
		t.Fatalf("unexpected friday projection %+v", day)
	}
}

func TestLoadScheduleRecordsCarryLocationZone(t *testing.T) {
	svc, _, _ := newTestService()
	owner := uuid.New()
	loc := mustCreateLocation(t, svc, owner)
	ctx := context.Background()

	if _, err := svc.CreateRule(ctx, owner, loc.ID, &RuleRequest{StartTime: "09:00", EndTime: "10:00"}); err != nil {
		t.Fatalf("create rule: %v", err)
	}
	_, records, err := svc.LoadSchedule(ctx, loc.ID)
	if err != nil {
		t.Fatalf("load schedule: %v", err)
	}
	if len(records) != 1 || records[0].Zone == nil || records[0].Zone.String() != "Europe/Berlin" {
		t.Fatalf("expected records in Europe/Berlin, got %+v", records)
	}
}
