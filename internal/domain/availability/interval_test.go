package availability

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestResolveBooking(t *testing.T) {
	tests := []struct {
		name string
		sel  []string
		want BookingInterval
	}{
		{name: "single slot books half an hour", sel: []string{"09:00"}, want: BookingInterval{Start: MustClock("09:00"), End: MustClock("09:30"), DurationMinutes: 30}},
		{name: "two labels are start and end", sel: []string{"09:00", "09:30"}, want: BookingInterval{Start: MustClock("09:00"), End: MustClock("09:30"), DurationMinutes: 30}},
		{name: "last label is the end", sel: []string{"09:00", "09:30", "10:00"}, want: BookingInterval{Start: MustClock("09:00"), End: MustClock("10:00"), DurationMinutes: 60}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveBooking(NewSelection(clocks(tc.sel...)...))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestResolveBooking_EmptySelection(t *testing.T) {
	if _, err := ResolveBooking(&Selection{}); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
	if _, err := ResolveBooking(nil); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection for nil, got %v", err)
	}
}

func TestWeeklyRuleBookingScenario(t *testing.T) {
	rec := RuleRecord{
		ID:         uuid.New(),
		LocationID: testLocation,
		StartTime:  "09:00",
		EndTime:    "12:00",
		Days:       []string{"monday", "wednesday"},
		IsActive:   true,
	}

	res := Resolve(context.Background(), []RuleRecord{rec}, wednesday)
	available := Availability(res.Rules)
	want := clocks("09:00", "09:30", "10:00", "10:30", "11:00", "11:30")
	if !reflect.DeepEqual(available, want) {
		t.Fatalf("expected %v, got %v", ClockStrings(want), ClockStrings(available))
	}

	sel := &Selection{}
	for _, l := range []string{"10:00", "10:30"} {
		if err := sel.Toggle(available, MustClock(l)); err != nil {
			t.Fatalf("toggle %s: %v", l, err)
		}
	}

	booking, err := ResolveBooking(sel)
	if err != nil {
		t.Fatalf("resolve booking: %v", err)
	}
	// two labels read as start and end
	if booking.Start != MustClock("10:00") || booking.End != MustClock("10:30") || booking.DurationMinutes != 30 {
		t.Fatalf("expected 10:00-10:30 (30), got %s-%s (%d)", booking.Start, booking.End, booking.DurationMinutes)
	}

	if err := sel.Toggle(available, MustClock("11:00")); err != nil {
		t.Fatalf("toggle 11:00: %v", err)
	}
	booking, err = ResolveBooking(sel)
	if err != nil {
		t.Fatalf("resolve booking: %v", err)
	}
	if booking.Start != MustClock("10:00") || booking.End != MustClock("11:00") || booking.DurationMinutes != 60 {
		t.Fatalf("expected 10:00-11:00 (60), got %s-%s (%d)", booking.Start, booking.End, booking.DurationMinutes)
	}

	if res := Resolve(context.Background(), []RuleRecord{rec}, thursday); !res.Empty() {
		t.Fatalf("expected no availability on thursday, got %+v", res.Rules)
	}
}
