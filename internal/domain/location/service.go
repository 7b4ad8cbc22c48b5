package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/linkcard/linkcard-api/internal/domain/availability"
	"github.com/linkcard/linkcard-api/internal/pkg/logger"
)

// Service handles location and availability rule business logic
type Service struct {
	repo  Repository
	cache RuleCache
	now   func() time.Time
}

// NewService creates location service
func NewService(repo Repository, cache RuleCache) *Service {
	if cache == nil {
		cache = nopRuleCache{}
	}
	return &Service{repo: repo, cache: cache, now: time.Now}
}

// CreateLocation creates a location for the owner
func (s *Service) CreateLocation(ctx context.Context, ownerID uuid.UUID, req *CreateLocationRequest) (*Location, error) {
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return nil, ErrInvalidTimezone
	}

	now := s.now().UTC()
	loc := &Location{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      req.Name,
		Address:   req.Address,
		Timezone:  req.Timezone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateLocation(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// ListLocations returns the owner's locations
func (s *Service) ListLocations(ctx context.Context, ownerID uuid.UUID) ([]Location, error) {
	return s.repo.ListLocationsByOwner(ctx, ownerID)
}

// GetOwnedLocation returns the location if ownerID owns it
func (s *Service) GetOwnedLocation(ctx context.Context, ownerID, locationID uuid.UUID) (*Location, error) {
	loc, err := s.repo.GetLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if !loc.IsOwnedBy(ownerID) {
		return nil, ErrNotLocationOwner
	}
	return loc, nil
}

// UpdateLocation applies a partial update
func (s *Service) UpdateLocation(ctx context.Context, ownerID, locationID uuid.UUID, req *UpdateLocationRequest) (*Location, error) {
	loc, err := s.GetOwnedLocation(ctx, ownerID, locationID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		loc.Name = *req.Name
	}
	if req.Address != nil {
		loc.Address = *req.Address
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return nil, ErrInvalidTimezone
		}
		loc.Timezone = *req.Timezone
	}
	if req.IsActive != nil {
		loc.IsActive = *req.IsActive
	}
	loc.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateLocation(ctx, loc); err != nil {
		return nil, err
	}
	s.invalidate(ctx, locationID)
	return loc, nil
}

// DeleteLocation removes the location and its rules
func (s *Service) DeleteLocation(ctx context.Context, ownerID, locationID uuid.UUID) error {
	if _, err := s.GetOwnedLocation(ctx, ownerID, locationID); err != nil {
		return err
	}
	if err := s.repo.DeleteLocation(ctx, locationID); err != nil {
		return err
	}
	s.invalidate(ctx, locationID)
	return nil
}

// CreateRule validates and stores a new availability rule
func (s *Service) CreateRule(ctx context.Context, ownerID, locationID uuid.UUID, req *RuleRequest) (*Rule, error) {
	loc, err := s.GetOwnedLocation(ctx, ownerID, locationID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rule := &Rule{
		ID:         uuid.New(),
		LocationID: locationID,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.applyRuleRequest(rule, loc, req); err != nil {
		return nil, err
	}

	if err := s.repo.CreateRule(ctx, rule); err != nil {
		return nil, err
	}
	s.invalidate(ctx, locationID)

	logger.LogInfo(ctx, "Availability rule created",
		"location_id", locationID.String(),
		"rule_id", rule.ID.String(),
	)
	return rule, nil
}

// ListRules returns every rule of the location, including inactive and malformed ones
func (s *Service) ListRules(ctx context.Context, ownerID, locationID uuid.UUID) ([]Rule, error) {
	if _, err := s.GetOwnedLocation(ctx, ownerID, locationID); err != nil {
		return nil, err
	}
	return s.repo.ListRules(ctx, locationID)
}

// UpdateRule replaces a rule
func (s *Service) UpdateRule(ctx context.Context, ownerID, locationID, ruleID uuid.UUID, req *RuleRequest) (*Rule, error) {
	loc, err := s.GetOwnedLocation(ctx, ownerID, locationID)
	if err != nil {
		return nil, err
	}
	rule, err := s.repo.GetRule(ctx, locationID, ruleID)
	if err != nil {
		return nil, err
	}

	if err := s.applyRuleRequest(rule, loc, req); err != nil {
		return nil, err
	}
	rule.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateRule(ctx, rule); err != nil {
		return nil, err
	}
	s.invalidate(ctx, locationID)
	return rule, nil
}

// DeleteRule removes a rule
func (s *Service) DeleteRule(ctx context.Context, ownerID, locationID, ruleID uuid.UUID) error {
	if _, err := s.GetOwnedLocation(ctx, ownerID, locationID); err != nil {
		return err
	}
	if err := s.repo.DeleteRule(ctx, locationID, ruleID); err != nil {
		return err
	}
	s.invalidate(ctx, locationID)
	return nil
}

// Calendar projects a month of availability for the owner view.
// Rules are read from the database so freshly saved rules show immediately.
func (s *Service) Calendar(ctx context.Context, ownerID, locationID uuid.UUID, month availability.YearMonth) (*availability.MonthProjection, error) {
	loc, err := s.GetOwnedLocation(ctx, ownerID, locationID)
	if err != nil {
		return nil, err
	}
	rules, err := s.repo.ListRules(ctx, locationID)
	if err != nil {
		return nil, err
	}
	return availability.ProjectMonth(ctx, locationID, Records(rules, loc.TimeLocation()), month), nil
}

// LoadSchedule returns an active location with its raw rules for the public booking flow.
// Inactive locations are reported as not found.
func (s *Service) LoadSchedule(ctx context.Context, locationID uuid.UUID) (*Location, []availability.RuleRecord, error) {
	loc, err := s.repo.GetLocation(ctx, locationID)
	if err != nil {
		return nil, nil, err
	}
	if !loc.IsActive {
		return nil, nil, ErrLocationNotFound
	}

	rules, err := s.cachedRules(ctx, locationID)
	if err != nil {
		return nil, nil, err
	}
	return loc, Records(rules, loc.TimeLocation()), nil
}

func (s *Service) cachedRules(ctx context.Context, locationID uuid.UUID) ([]Rule, error) {
	rules, hit, err := s.cache.Get(ctx, locationID)
	if err != nil {
		logger.LogWarn(ctx, "Rule cache read failed, falling back to database",
			"location_id", locationID.String(),
			"error", err.Error(),
		)
	}
	if hit {
		return rules, nil
	}

	rules, err = s.repo.ListRules(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, locationID, rules); err != nil {
		logger.LogWarn(ctx, "Rule cache write failed",
			"location_id", locationID.String(),
			"error", err.Error(),
		)
	}
	return rules, nil
}

func (s *Service) invalidate(ctx context.Context, locationID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, locationID); err != nil {
		logger.LogError(ctx, err, "Rule cache invalidation failed", "location_id", locationID.String())
	}
}

// applyRuleRequest copies the request onto rule in canonical form and checks that it compiles.
func (s *Service) applyRuleRequest(rule *Rule, loc *Location, req *RuleRequest) error {
	if req.SpecificDate != "" && req.ApplyToMonth {
		return fmt.Errorf("%w: specific_date and apply_to_month are mutually exclusive", ErrInvalidRule)
	}

	start, err := availability.ParseClock(req.StartTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	end, err := availability.ParseClock(req.EndTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	days, err := availability.ParseWeekdays(req.Days)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	rule.StartTime = start.String()
	rule.EndTime = end.String()
	rule.Days = pq.StringArray{}
	if names := days.Names(); names != nil {
		rule.Days = names
	}
	rule.ApplyToMonth = req.ApplyToMonth
	rule.SpecificDate = nil
	rule.TargetMonth = nil

	if req.SpecificDate != "" {
		date, err := availability.ParseDate(req.SpecificDate)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRule, err)
		}
		rule.SpecificDate = &date
	}
	if req.ApplyToMonth {
		month := availability.MonthOf(s.now().In(loc.TimeLocation()))
		if req.TargetMonth != "" {
			if month, err = availability.ParseYearMonth(req.TargetMonth); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidRule, err)
			}
		}
		m := month.String()
		rule.TargetMonth = &m
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if _, err := availability.Compile(rule.ToRecord()); err != nil {
		var dq *availability.DataQualityError
		if errors.As(err, &dq) {
			return fmt.Errorf("%w: %s", ErrInvalidRule, dq.Reason)
		}
		return fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	return nil
}
