package availability

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNoAvailability  = errors.New("no availability for the selected date")
	ErrSlotUnavailable = errors.New("start time is not available on the selected date")
	ErrEmptySelection  = errors.New("no time slots selected")
)

// DataQualityError describes a malformed or self-contradictory rule.
// It is reported to the location owner, never to the visitor.
type DataQualityError struct {
	RuleID     uuid.UUID `json:"rule_id"`
	LocationID uuid.UUID `json:"location_id"`
	Reason     string    `json:"reason"`
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("rule %s: %s", e.RuleID, e.Reason)
}

// StaleSelectionError is returned when selected start times vanished from a fresh availability list.
type StaleSelectionError struct {
	Missing []Clock
}

func (e *StaleSelectionError) Error() string {
	return fmt.Sprintf("selection is stale: %v no longer available", ClockStrings(e.Missing))
}
