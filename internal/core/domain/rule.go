package domain

// RuleField names the entry field a categorization rule is matched against.
type RuleField string

const (
	RuleFieldMerchantName RuleField = "merchant_name"
	RuleFieldDescription  RuleField = "description"
)

// MatchType is how a rule's value is compared to the candidate string.
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchContains MatchType = "contains"
	MatchRegex    MatchType = "regex"
)

// RuleSource records how a rule came to exist.
type RuleSource string

const (
	RuleSourceUser               RuleSource = "user"
	RuleSourceCategoryAssignment RuleSource = "category_assignment"
)

// CategoryRule maps a merchant/description pattern to a category and optional
// business. At most one enabled merchant-name rule exists per
// (user, lowercase value); creating a second one updates the first.
type CategoryRule struct {
	RuleID          string     `json:"ruleID"`
	UserID          string     `json:"userID"`
	Field           RuleField  `json:"field"`
	MatchType       MatchType  `json:"matchType"`
	Value           string     `json:"value"`
	CategoryID      string     `json:"categoryID"`
	BusinessID      *string    `json:"businessID"`
	DisplayName     string     `json:"displayName"`
	IsEnabled       bool       `json:"isEnabled"`
	Source          RuleSource `json:"source"`
	CreatedFromID   *string    `json:"createdFromID"`   // entry that spawned this rule
	CreatedFromKind *EntryKind `json:"createdFromKind"`
	AuditFields
}
