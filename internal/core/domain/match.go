package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DuplicateProbe carries the fields duplicate detection needs. All three of
// MerchantName, Amount and Date are required for detection to run; ExcludeID
// keeps the probe entry itself out of the candidate set when re-detecting
// after an edit.
type DuplicateProbe struct {
	Kind         EntryKind
	ExcludeID    string
	MerchantName *string
	Amount       *decimal.Decimal
	Date         *time.Time
}

// DuplicateCandidate is one plausible duplicate of the probe entry.
type DuplicateCandidate struct {
	Entry            Entry    `json:"entry"`
	Similarity       float64  `json:"similarity"`
	Confidence       float64  `json:"confidence"`
	AmountsMatch     bool     `json:"amountsMatch"`
	ExactAmountMatch bool     `json:"exactAmountMatch"`
	DatesMatch       bool     `json:"datesMatch"`
	MatchReasons     []string `json:"matchReasons"`
}

// DuplicateDetection is the result of a duplicate scan. Detected is false
// when required probe fields were missing; that is a result, not an error.
type DuplicateDetection struct {
	Detected   bool                 `json:"detected"`
	Candidates []DuplicateCandidate `json:"candidates"`
	TopMatch   *DuplicateCandidate  `json:"topMatch"`
}

// TransferProbe carries the fields transfer detection needs.
type TransferProbe struct {
	ExcludeID   string
	Description *string
	Amount      *decimal.Decimal
	Date        *time.Time
}

// TransferMatch is one opposite-amount counterpart found for a probe.
type TransferMatch struct {
	Entry      Entry           `json:"entry"`
	Confidence float64         `json:"confidence"`
	Reason     string          `json:"reason"`
	AmountDiff decimal.Decimal `json:"amountDiff"`
	DateDiff   int             `json:"dateDiffDays"`
}

// TransferDetection is the result of a transfer scan.
type TransferDetection struct {
	Detected        bool            `json:"detected"`
	TransferType    TransferType    `json:"transferType,omitempty"`
	AutoDetected    bool            `json:"autoDetected"`
	DetectionMethod DetectionMethod `json:"detectionMethod,omitempty"`
	Matches         []TransferMatch `json:"matches,omitempty"`
}

// SimilarEntry pairs an entry with its merchant similarity to the query name.
type SimilarEntry struct {
	Entry      Entry   `json:"entry"`
	Similarity float64 `json:"similarity"`
}

// SimilarQuery narrows a similar-transaction search. Zero-value From/To fall
// back to the default recent-history window. ExcludeID/ExcludeKind keep an
// entry from being similar to itself.
type SimilarQuery struct {
	From        *time.Time
	To          *time.Time
	ExcludeID   string
	ExcludeKind EntryKind
}

// SimilarStats aggregates the filtered similar-transaction population for
// suggestion UIs. Top values are modes; ties break arbitrarily.
type SimilarStats struct {
	TotalCount       int     `json:"totalCount"`
	CategorizedCount int     `json:"categorizedCount"`
	TopCategoryID    *string `json:"topCategoryID"`
	TopCategoryCount int     `json:"topCategoryCount"`
	TopBusinessID    *string `json:"topBusinessID"`
	TopBusinessCount int     `json:"topBusinessCount"`
}

// SimilarTransactions is the ranked list plus aggregate stats.
type SimilarTransactions struct {
	Entries []SimilarEntry `json:"entries"`
	Stats   SimilarStats   `json:"stats"`
}
