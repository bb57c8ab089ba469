package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pennywise-app/pennywise-backend/internal/apperrors"
	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	portsrepo "github.com/pennywise-app/pennywise-backend/internal/core/ports/repositories"
	"github.com/pennywise-app/pennywise-backend/internal/models"
	"github.com/pennywise-app/pennywise-backend/internal/utils/mapping"
)

type PgxRuleRepository struct {
	BaseRepository
}

func newPgxRuleRepository(pool *pgxpool.Pool) portsrepo.RuleRepositoryFacade {
	return &PgxRuleRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.RuleRepositoryFacade = (*PgxRuleRepository)(nil)

const ruleColumns = `rule_id, user_id, field, match_type, value, category_id, business_id,
	display_name, is_enabled, source, created_from_id, created_from_kind,
	created_at, created_by, last_updated_at, last_updated_by`

func scanRule(row pgx.Row) (models.CategoryRule, error) {
	var m models.CategoryRule
	err := row.Scan(
		&m.RuleID, &m.UserID, &m.Field, &m.MatchType, &m.Value, &m.CategoryID, &m.BusinessID,
		&m.DisplayName, &m.IsEnabled, &m.Source, &m.CreatedFromID, &m.CreatedFromKind,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// FindRuleByID retrieves a rule owned by userID.
func (r *PgxRuleRepository) FindRuleByID(ctx context.Context, userID string, ruleID string) (*domain.CategoryRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM category_rules WHERE rule_id = $1 AND user_id = $2;`
	m, err := scanRule(r.Pool.QueryRow(ctx, query, ruleID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rule %s: %w", ruleID, err)
	}
	rule := mapping.ToDomainCategoryRule(m)
	return &rule, nil
}

// ListEnabledRules retrieves the user's enabled rules, optionally restricted
// to one field. Ordered oldest first so earlier rules win first-match ties.
func (r *PgxRuleRepository) ListEnabledRules(ctx context.Context, userID string, field *domain.RuleField) ([]domain.CategoryRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM category_rules
		WHERE user_id = $1 AND is_enabled = true`
	args := []any{userID}
	if field != nil {
		query += ` AND field = $2`
		args = append(args, string(*field))
	}
	query += ` ORDER BY created_at ASC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query enabled rules: %w", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CategoryRule, error) {
		return scanRule(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan enabled rules: %w", err)
	}
	return mapping.ToDomainCategoryRuleSlice(ms), nil
}

// ListRules retrieves all of the user's rules, enabled or not.
func (r *PgxRuleRepository) ListRules(ctx context.Context, userID string) ([]domain.CategoryRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM category_rules
		WHERE user_id = $1 ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CategoryRule, error) {
		return scanRule(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan rules: %w", err)
	}
	return mapping.ToDomainCategoryRuleSlice(ms), nil
}

// UpsertMerchantRule saves a merchant-name rule inside a transaction: an
// existing enabled rule for the same (user, lowercase value) is updated in
// place, otherwise a new row is inserted. Returns the stored rule and whether
// an existing row was updated.
func (r *PgxRuleRepository) UpsertMerchantRule(ctx context.Context, rule domain.CategoryRule) (*domain.CategoryRule, bool, error) {
	m := mapping.ToModelCategoryRule(rule)

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	findQuery := `SELECT ` + ruleColumns + ` FROM category_rules
		WHERE user_id = $1 AND field = $2 AND lower(value) = lower($3) AND is_enabled = true
		FOR UPDATE;`
	existing, err := scanRule(tx.QueryRow(ctx, findQuery, m.UserID, m.Field, m.Value))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to look up merchant rule: %w", err)
	}

	if err == nil {
		updateQuery := `UPDATE category_rules
			SET match_type = $3, value = $4, category_id = $5, business_id = $6,
				display_name = $7, source = $8, created_from_id = $9, created_from_kind = $10,
				last_updated_at = $11, last_updated_by = $12
			WHERE rule_id = $1 AND user_id = $2;`
		if _, err := tx.Exec(ctx, updateQuery,
			existing.RuleID, m.UserID,
			m.MatchType, m.Value, m.CategoryID, m.BusinessID,
			m.DisplayName, m.Source, m.CreatedFromID, m.CreatedFromKind,
			m.LastUpdatedAt, m.LastUpdatedBy,
		); err != nil {
			return nil, false, fmt.Errorf("failed to update merchant rule %s: %w", existing.RuleID, err)
		}
		if err := r.Commit(ctx, tx); err != nil {
			return nil, false, err
		}

		updated := applyMerchantRuleUpdate(existing, rule)
		return &updated, true, nil
	}

	if err := insertRule(ctx, tx, m); err != nil {
		return nil, false, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, false, err
	}
	return &rule, false, nil
}

// SaveRule inserts a rule without the merchant-name uniqueness treatment.
func (r *PgxRuleRepository) SaveRule(ctx context.Context, rule domain.CategoryRule) error {
	m := mapping.ToModelCategoryRule(rule)
	if err := insertRule(ctx, r.Pool, m); err != nil {
		return err
	}
	return nil
}

// DeleteRule removes a rule owned by userID.
func (r *PgxRuleRepository) DeleteRule(ctx context.Context, userID string, ruleID string) error {
	query := `DELETE FROM category_rules WHERE rule_id = $1 AND user_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, ruleID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete rule %s: %w", ruleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("rule not found")
	}
	return nil
}

// applyMerchantRuleUpdate merges the incoming rule into the stored row,
// keeping the row's identity and creation audit fields. The field list must
// stay in step with the UPDATE in UpsertMerchantRule.
func applyMerchantRuleUpdate(existing models.CategoryRule, incoming domain.CategoryRule) domain.CategoryRule {
	updated := mapping.ToDomainCategoryRule(existing)
	updated.MatchType = incoming.MatchType
	updated.Value = incoming.Value
	updated.CategoryID = incoming.CategoryID
	updated.BusinessID = incoming.BusinessID
	updated.DisplayName = incoming.DisplayName
	updated.Source = incoming.Source
	updated.CreatedFromID = incoming.CreatedFromID
	updated.CreatedFromKind = incoming.CreatedFromKind
	updated.LastUpdatedAt = incoming.LastUpdatedAt
	updated.LastUpdatedBy = incoming.LastUpdatedBy
	return updated
}

// pgxExecutor covers both the pool and a transaction.
type pgxExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertRule(ctx context.Context, db pgxExecutor, m models.CategoryRule) error {
	query := `INSERT INTO category_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`
	_, err := db.Exec(ctx, query,
		m.RuleID, m.UserID, m.Field, m.MatchType, m.Value, m.CategoryID, m.BusinessID,
		m.DisplayName, m.IsEnabled, m.Source, m.CreatedFromID, m.CreatedFromKind,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert rule %s: %w", m.RuleID, err)
	}
	return nil
}
