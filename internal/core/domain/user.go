package domain

import "time"

// User represents an authenticated owner of entries, rules and categories.
type User struct {
	UserID       string     `json:"userID"`
	Name         string     `json:"name"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	AuditFields
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
}
