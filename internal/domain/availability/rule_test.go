package availability

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCompile_RecurrenceKinds(t *testing.T) {
	date := time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)
	created := time.Date(2026, 11, 3, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rec  RuleRecord
		want Kind
	}{
		{name: "specific date", rec: RuleRecord{StartTime: "09:00", EndTime: "10:00", SpecificDate: &date}, want: KindOneOff},
		{name: "specific date wins over month", rec: RuleRecord{StartTime: "09:00", EndTime: "10:00", SpecificDate: &date, ApplyToMonth: true, TargetMonth: "2026-10"}, want: KindOneOff},
		{name: "monthly", rec: RuleRecord{StartTime: "09:00", EndTime: "10:00", ApplyToMonth: true, TargetMonth: "2026-10"}, want: KindMonthly},
		{name: "monthly from created_at", rec: RuleRecord{StartTime: "09:00", EndTime: "10:00", ApplyToMonth: true, CreatedAt: created}, want: KindMonthly},
		{name: "weekly", rec: RuleRecord{StartTime: "09:00", EndTime: "10:00", Days: []string{"monday", "Wednesday"}}, want: KindWeekly},
		{name: "always", rec: RuleRecord{StartTime: "09:00", EndTime: "10:00"}, want: KindAlways},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rule, err := Compile(tc.rec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rule.Recurrence.Kind() != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, rule.Recurrence.Kind())
			}
		})
	}
}

func TestCompile_OneOffTruncatesToDate(t *testing.T) {
	date := time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)
	rule, err := Compile(RuleRecord{StartTime: "09:00", EndTime: "10:00", SpecificDate: &date})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rule.Recurrence.Covers(wednesday) {
		t.Fatalf("expected one-off rule to cover %s", wednesday.Format(DateLayout))
	}
}

func TestCompile_MonthlyFallsBackToCreatedMonth(t *testing.T) {
	created := time.Date(2026, 11, 3, 8, 0, 0, 0, time.UTC)
	rule, err := Compile(RuleRecord{StartTime: "09:00", EndTime: "10:00", ApplyToMonth: true, CreatedAt: created})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := rule.Recurrence.(Monthly)
	if m.Month != (YearMonth{Year: 2026, Month: time.November}) {
		t.Fatalf("expected 2026-11, got %s", m.Month)
	}
}

func TestCompile_MonthlyCreatedMonthUsesLocationZone(t *testing.T) {
	// 20:00 UTC on Oct 31 is already Nov 1 at UTC+9
	created := time.Date(2026, 10, 31, 20, 0, 0, 0, time.UTC)
	rec := RuleRecord{StartTime: "09:00", EndTime: "10:00", ApplyToMonth: true, CreatedAt: created, Zone: time.FixedZone("UTC+9", 9*60*60)}

	rule, err := Compile(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m := rule.Recurrence.(Monthly).Month; m != (YearMonth{Year: 2026, Month: time.November}) {
		t.Fatalf("expected 2026-11 in the location zone, got %s", m)
	}

	rec.Zone = nil
	rule, err = Compile(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m := rule.Recurrence.(Monthly).Month; m != (YearMonth{Year: 2026, Month: time.October}) {
		t.Fatalf("expected 2026-10 without a zone, got %s", m)
	}
}

func TestCompile_DataQualityErrors(t *testing.T) {
	tests := []struct {
		name string
		rec  RuleRecord
	}{
		{name: "start equals end", rec: RuleRecord{StartTime: "10:00", EndTime: "10:00"}},
		{name: "start after end", rec: RuleRecord{StartTime: "11:00", EndTime: "10:00"}},
		{name: "bad start", rec: RuleRecord{StartTime: "9am", EndTime: "10:00"}},
		{name: "bad end", rec: RuleRecord{StartTime: "09:00", EndTime: "25:00"}},
		{name: "unknown weekday", rec: RuleRecord{StartTime: "09:00", EndTime: "10:00", Days: []string{"someday"}}},
		{name: "duplicate weekday", rec: RuleRecord{StartTime: "09:00", EndTime: "10:00", Days: []string{"monday", "monday"}}},
		{name: "monthly without month", rec: RuleRecord{StartTime: "09:00", EndTime: "10:00", ApplyToMonth: true}},
		{name: "monthly with bad month", rec: RuleRecord{StartTime: "09:00", EndTime: "10:00", ApplyToMonth: true, TargetMonth: "October"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.rec.ID = uuid.New()
			_, err := Compile(tc.rec)
			var dq *DataQualityError
			if !errors.As(err, &dq) {
				t.Fatalf("expected DataQualityError, got %v", err)
			}
			if dq.RuleID != tc.rec.ID {
				t.Fatalf("expected rule id %s, got %s", tc.rec.ID, dq.RuleID)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 570},
		{in: "9:30", want: 570},
		{in: "23:59", want: 1439},
		{in: "24:00", want: 1440},
		{in: "24:30", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "1230", wantErr: true},
		{in: "", wantErr: true},
		{in: "+9:30", wantErr: true},
		{in: "-0:30", wantErr: true},
		{in: "09:+5", wantErr: true},
		{in: " 9:3a", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%q: expected %d, got %d (err=%v)", tc.in, tc.want, got, err)
		}
		if tc.in == "09:30" && got.String() != "09:30" {
			t.Fatalf("expected round trip, got %s", got)
		}
	}
}
