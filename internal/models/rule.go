package models

// CategoryRule is a row of the category_rules table. A partial unique index
// on (user_id, lower(value)) for enabled merchant-name rules backs the
// upsert-instead-of-duplicate policy.
type CategoryRule struct {
	RuleID          string  `db:"rule_id"`
	UserID          string  `db:"user_id"`
	Field           string  `db:"field"`
	MatchType       string  `db:"match_type"`
	Value           string  `db:"value"`
	CategoryID      string  `db:"category_id"`
	BusinessID      *string `db:"business_id"`
	DisplayName     string  `db:"display_name"`
	IsEnabled       bool    `db:"is_enabled"`
	Source          string  `db:"source"`
	CreatedFromID   *string `db:"created_from_id"`
	CreatedFromKind *string `db:"created_from_kind"`
	AuditFields
}
