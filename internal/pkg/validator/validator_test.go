package validator

import "testing"

type ruleInput struct {
	StartTime string   `json:"start_time" validate:"required,clock"`
	EndTime   string   `json:"end_time" validate:"required,clock"`
	Days      []string `json:"days" validate:"omitempty,dive,weekday"`
	Date      string   `json:"specific_date" validate:"omitempty,date"`
	Month     string   `json:"target_month" validate:"omitempty,month"`
}

func TestValidateCustomTags(t *testing.T) {
	ok := ruleInput{StartTime: "09:00", EndTime: "24:00", Days: []string{"monday"}, Date: "2026-10-14", Month: "2026-10"}
	if errs := Validate(&ok); errs != nil {
		t.Fatalf("expected valid input, got %v", errs)
	}

	bad := ruleInput{StartTime: "9h", EndTime: "25:00", Days: []string{"Funday"}, Date: "14.10.2026", Month: "2026-13"}
	errs := Validate(&bad)
	for _, field := range []string{"start_time", "end_time", "days[0]", "specific_date", "target_month"} {
		if _, found := errs[field]; !found {
			t.Fatalf("expected error for %s, got %v", field, errs)
		}
	}
}

func TestValidateRequired(t *testing.T) {
	errs := Validate(&ruleInput{})
	if errs["start_time"] != "This field is required" {
		t.Fatalf("unexpected errors %v", errs)
	}
}
