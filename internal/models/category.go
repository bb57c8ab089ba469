package models

// Category is a row of the categories table.
type Category struct {
	CategoryID string `db:"category_id"`
	UserID     string `db:"user_id"`
	Name       string `db:"name"`
	Icon       string `db:"icon"`
	AuditFields
}

// Business is a row of the businesses table.
type Business struct {
	BusinessID string `db:"business_id"`
	UserID     string `db:"user_id"`
	Name       string `db:"name"`
	AuditFields
}
