package location

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines location and rule data access
type Repository interface {
	CreateLocation(ctx context.Context, loc *Location) error
	GetLocation(ctx context.Context, id uuid.UUID) (*Location, error)
	ListLocationsByOwner(ctx context.Context, ownerID uuid.UUID) ([]Location, error)
	UpdateLocation(ctx context.Context, loc *Location) error
	DeleteLocation(ctx context.Context, id uuid.UUID) error

	CreateRule(ctx context.Context, rule *Rule) error
	GetRule(ctx context.Context, locationID, ruleID uuid.UUID) (*Rule, error)
	ListRules(ctx context.Context, locationID uuid.UUID) ([]Rule, error)
	UpdateRule(ctx context.Context, rule *Rule) error
	DeleteRule(ctx context.Context, locationID, ruleID uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates location repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const locationColumns = `id, owner_id, name, address, timezone, is_active, created_at, updated_at`

const ruleColumns = `id, location_id, start_time, end_time, days, specific_date,
	apply_to_month, target_month, is_active, created_at, updated_at`

func (r *repository) CreateLocation(ctx context.Context, loc *Location) error {
	query := `
		INSERT INTO locations (` + locationColumns + `)
		VALUES (:id, :owner_id, :name, :address, :timezone, :is_active, :created_at, :updated_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, loc)
	return mapDBError(err)
}

func (r *repository) GetLocation(ctx context.Context, id uuid.UUID) (*Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	var loc Location
	if err := r.db.GetContext(ctx, &loc, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return &loc, nil
}

func (r *repository) ListLocationsByOwner(ctx context.Context, ownerID uuid.UUID) ([]Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE owner_id = $1 ORDER BY created_at`
	var locs []Location
	err := r.db.SelectContext(ctx, &locs, query, ownerID)
	return locs, err
}

func (r *repository) UpdateLocation(ctx context.Context, loc *Location) error {
	query := `
		UPDATE locations
		SET name = :name, address = :address, timezone = :timezone, is_active = :is_active, updated_at = :updated_at
		WHERE id = :id
	`
	res, err := r.db.NamedExecContext(ctx, query, loc)
	if err != nil {
		return mapDBError(err)
	}
	return expectRow(res, ErrLocationNotFound)
}

func (r *repository) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return mapDBError(err)
	}
	return expectRow(res, ErrLocationNotFound)
}

func (r *repository) CreateRule(ctx context.Context, rule *Rule) error {
	query := `
		INSERT INTO availability_rules (` + ruleColumns + `)
		VALUES (:id, :location_id, :start_time, :end_time, :days, :specific_date,
			:apply_to_month, :target_month, :is_active, :created_at, :updated_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, rule)
	return mapDBError(err)
}

func (r *repository) GetRule(ctx context.Context, locationID, ruleID uuid.UUID) (*Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM availability_rules WHERE id = $1 AND location_id = $2`
	var rule Rule
	if err := r.db.GetContext(ctx, &rule, query, ruleID, locationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return &rule, nil
}

func (r *repository) ListRules(ctx context.Context, locationID uuid.UUID) ([]Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM availability_rules WHERE location_id = $1 ORDER BY start_time, id`
	var rules []Rule
	err := r.db.SelectContext(ctx, &rules, query, locationID)
	return rules, err
}

func (r *repository) UpdateRule(ctx context.Context, rule *Rule) error {
	query := `
		UPDATE availability_rules
		SET start_time = :start_time, end_time = :end_time, days = :days, specific_date = :specific_date,
			apply_to_month = :apply_to_month, target_month = :target_month, is_active = :is_active,
			updated_at = :updated_at
		WHERE id = :id AND location_id = :location_id
	`
	res, err := r.db.NamedExecContext(ctx, query, rule)
	if err != nil {
		return mapDBError(err)
	}
	return expectRow(res, ErrRuleNotFound)
}

func (r *repository) DeleteRule(ctx context.Context, locationID, ruleID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM availability_rules WHERE id = $1 AND location_id = $2`, ruleID, locationID)
	if err != nil {
		return mapDBError(err)
	}
	return expectRow(res, ErrRuleNotFound)
}

func expectRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case "23503":
		return fmt.Errorf("%w: %w", ErrLocationNotFound, err)
	case "23514":
		return fmt.Errorf("%w: %s: %w", ErrInvalidRule, pqErr.Constraint, err)
	default:
		return err
	}
}
