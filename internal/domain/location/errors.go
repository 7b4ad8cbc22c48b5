package location

import "errors"

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrNotLocationOwner = errors.New("you can only manage your own locations")
	ErrRuleNotFound     = errors.New("availability rule not found")
	ErrInvalidRule      = errors.New("invalid availability rule")
	ErrInvalidTimezone  = errors.New("invalid timezone")
)
