package domain

// Category is a user-defined spend category referenced by entries and rules.
type Category struct {
	CategoryID string `json:"categoryID"`
	UserID     string `json:"userID"`
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	AuditFields
}

// Business is an optional business context an entry can be attributed to;
// entries without one are personal.
type Business struct {
	BusinessID string `json:"businessID"`
	UserID     string `json:"userID"`
	Name       string `json:"name"`
	AuditFields
}
