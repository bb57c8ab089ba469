package dto

import (
	"time"

	"github.com/pennywise-app/pennywise-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DetectDuplicatesRequest probes for duplicates of an entry. MerchantName,
// Amount and Date are all required for detection to run; when any is missing
// the response reports detected=false rather than failing.
type DetectDuplicatesRequest struct {
	Kind         string     `json:"kind" binding:"required,oneof=receipt bank_transaction"`
	EntryID      string     `json:"entryID"`
	MerchantName *string    `json:"merchantName"`
	Amount       *string    `json:"amount" binding:"omitempty,decimalstr"`
	Date         *time.Time `json:"date"`
}

// ToDuplicateProbe converts the request to a domain probe. Amount is assumed
// validated by the decimalstr binding.
func (r DetectDuplicatesRequest) ToDuplicateProbe() domain.DuplicateProbe {
	probe := domain.DuplicateProbe{
		Kind:         domain.EntryKind(r.Kind),
		ExcludeID:    r.EntryID,
		MerchantName: r.MerchantName,
		Date:         r.Date,
	}
	if r.Amount != nil {
		if amount, err := decimal.NewFromString(*r.Amount); err == nil {
			probe.Amount = &amount
		}
	}
	return probe
}

// DuplicateCandidateResponse is one scored duplicate candidate.
type DuplicateCandidateResponse struct {
	Entry            EntryResponse `json:"entry"`
	Similarity       float64       `json:"similarity"`
	Confidence       float64       `json:"confidence"`
	AmountsMatch     bool          `json:"amountsMatch"`
	ExactAmountMatch bool          `json:"exactAmountMatch"`
	DatesMatch       bool          `json:"datesMatch"`
	MatchReasons     []string      `json:"matchReasons"`
}

// DuplicateDetectionResponse is the ranked result of a duplicate scan.
type DuplicateDetectionResponse struct {
	Detected   bool                         `json:"detected"`
	Candidates []DuplicateCandidateResponse `json:"candidates"`
	TopMatch   *DuplicateCandidateResponse  `json:"topMatch,omitempty"`
}

// ToDuplicateDetectionResponse converts a domain detection result.
func ToDuplicateDetectionResponse(d *domain.DuplicateDetection) DuplicateDetectionResponse {
	resp := DuplicateDetectionResponse{Detected: d.Detected}
	resp.Candidates = make([]DuplicateCandidateResponse, len(d.Candidates))
	for i := range d.Candidates {
		resp.Candidates[i] = toDuplicateCandidateResponse(&d.Candidates[i])
	}
	if d.TopMatch != nil {
		top := toDuplicateCandidateResponse(d.TopMatch)
		resp.TopMatch = &top
	}
	return resp
}

func toDuplicateCandidateResponse(c *domain.DuplicateCandidate) DuplicateCandidateResponse {
	return DuplicateCandidateResponse{
		Entry:            ToEntryResponse(&c.Entry),
		Similarity:       c.Similarity,
		Confidence:       c.Confidence,
		AmountsMatch:     c.AmountsMatch,
		ExactAmountMatch: c.ExactAmountMatch,
		DatesMatch:       c.DatesMatch,
		MatchReasons:     c.MatchReasons,
	}
}

// MarkDuplicateRequest confirms a duplicate detection.
type MarkDuplicateRequest struct {
	LinkedID   string  `json:"linkedID" binding:"required"`
	LinkedKind string  `json:"linkedKind" binding:"required,oneof=receipt bank_transaction"`
	Confidence float64 `json:"confidence" binding:"min=0,max=1"`
}

// DetectTransferRequest probes a bank transaction for transfer classification.
type DetectTransferRequest struct {
	TransactionID string     `json:"transactionID"`
	Description   *string    `json:"description"`
	Amount        *string    `json:"amount" binding:"omitempty,decimalstr"`
	Date          *time.Time `json:"date"`
}

// ToTransferProbe converts the request to a domain probe.
func (r DetectTransferRequest) ToTransferProbe() domain.TransferProbe {
	probe := domain.TransferProbe{
		ExcludeID:   r.TransactionID,
		Description: r.Description,
		Date:        r.Date,
	}
	if r.Amount != nil {
		if amount, err := decimal.NewFromString(*r.Amount); err == nil {
			probe.Amount = &amount
		}
	}
	return probe
}

// TransferMatchResponse is one opposite-amount counterpart.
type TransferMatchResponse struct {
	Entry      EntryResponse `json:"entry"`
	Confidence float64       `json:"confidence"`
	Reason     string        `json:"reason"`
	AmountDiff string        `json:"amountDiff"`
	DateDiff   int           `json:"dateDiffDays"`
}

// TransferDetectionResponse is the result of a transfer scan.
type TransferDetectionResponse struct {
	Detected        bool                    `json:"detected"`
	TransferType    string                  `json:"transferType,omitempty"`
	AutoDetected    bool                    `json:"autoDetected"`
	DetectionMethod string                  `json:"detectionMethod,omitempty"`
	Matches         []TransferMatchResponse `json:"matches,omitempty"`
}

// ToTransferDetectionResponse converts a domain detection result.
func ToTransferDetectionResponse(d *domain.TransferDetection) TransferDetectionResponse {
	resp := TransferDetectionResponse{
		Detected:        d.Detected,
		TransferType:    string(d.TransferType),
		AutoDetected:    d.AutoDetected,
		DetectionMethod: string(d.DetectionMethod),
	}
	for i := range d.Matches {
		m := &d.Matches[i]
		resp.Matches = append(resp.Matches, TransferMatchResponse{
			Entry:      ToEntryResponse(&m.Entry),
			Confidence: m.Confidence,
			Reason:     m.Reason,
			AmountDiff: m.AmountDiff.String(),
			DateDiff:   m.DateDiff,
		})
	}
	return resp
}

// MarkTransferRequest confirms a transfer classification.
type MarkTransferRequest struct {
	TransferType string `json:"transferType" binding:"required,oneof=internal_transfer credit_card_payment"`
}

// AutoDetectResponse reports how many transactions a batch sweep flagged.
type AutoDetectResponse struct {
	Flagged int `json:"flagged"`
}

// SimilarEntryResponse pairs an entry with its merchant similarity.
type SimilarEntryResponse struct {
	Entry      EntryResponse `json:"entry"`
	Similarity float64       `json:"similarity"`
}

// SimilarStatsResponse aggregates the similar-transaction population.
type SimilarStatsResponse struct {
	TotalCount       int     `json:"totalCount"`
	CategorizedCount int     `json:"categorizedCount"`
	TopCategoryID    *string `json:"topCategoryID,omitempty"`
	TopCategoryCount int     `json:"topCategoryCount"`
	TopBusinessID    *string `json:"topBusinessID,omitempty"`
	TopBusinessCount int     `json:"topBusinessCount"`
}

// SimilarTransactionsResponse is the ranked similar-transaction list.
type SimilarTransactionsResponse struct {
	Entries []SimilarEntryResponse `json:"entries"`
	Stats   SimilarStatsResponse   `json:"stats"`
}

// ToSimilarTransactionsResponse converts a domain result.
func ToSimilarTransactionsResponse(s *domain.SimilarTransactions) SimilarTransactionsResponse {
	resp := SimilarTransactionsResponse{
		Entries: make([]SimilarEntryResponse, len(s.Entries)),
		Stats: SimilarStatsResponse{
			TotalCount:       s.Stats.TotalCount,
			CategorizedCount: s.Stats.CategorizedCount,
			TopCategoryID:    s.Stats.TopCategoryID,
			TopCategoryCount: s.Stats.TopCategoryCount,
			TopBusinessID:    s.Stats.TopBusinessID,
			TopBusinessCount: s.Stats.TopBusinessCount,
		},
	}
	for i := range s.Entries {
		resp.Entries[i] = SimilarEntryResponse{
			Entry:      ToEntryResponse(&s.Entries[i].Entry),
			Similarity: s.Entries[i].Similarity,
		}
	}
	return resp
}
