// Package recon implements the reconciliation matching engine: multi-factor
// pairwise scoring of extracted documents against bank transactions, and
// the greedy two-pass loop that partitions both collections into automatic
// matches, suggestions for review, and unmatched items with ranked
// candidates.
package recon

import (
	"github.com/finclear/reconcile-backend/internal/domain/document"
)

// Match types.
const (
	MatchTypeAutomatic = "automatic"
	MatchTypeSuggested = "suggested"
	MatchTypeManual    = "manual"
)

// Confidence tiers.
const (
	ConfidenceHigh         = "high"
	ConfidenceMedium       = "medium"
	ConfidenceLow          = "low"
	ConfidenceUserVerified = "user_verified"
)

// Transaction is a parsed bank-statement transaction. Amount sign follows
// bank convention: debits negative, credits positive. The engine compares
// magnitudes only.
type Transaction struct {
	TransactionID string   `json:"transaction_id"`
	Description   string   `json:"description"`
	Amount        float64  `json:"amount"`
	Date          string   `json:"date"`
	Type          string   `json:"type,omitempty"`
	Balance       *float64 `json:"balance,omitempty"`
}

// Config holds the engine's matching thresholds. All fields have working
// defaults; out-of-range values are clamped back to them at construction.
type Config struct {
	// NameThreshold is the minimum total score for a pair to surface as a
	// suggestion for human review (0-100).
	NameThreshold int `yaml:"name_threshold"`

	// AmountTolerance is the maximum absolute difference still counted as
	// an exact amount match, in the currency unit of the inputs.
	AmountTolerance float64 `yaml:"amount_tolerance"`

	// DateRangeDays is the maximum date distance eligible for partial
	// date credit.
	DateRangeDays int `yaml:"date_range_days"`

	// AutoMatchThreshold is the minimum total score to claim a pair
	// without human review (0-100).
	AutoMatchThreshold int `yaml:"auto_match_threshold"`
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		NameThreshold:      80,
		AmountTolerance:    0.01,
		DateRangeDays:      3,
		AutoMatchThreshold: 90,
	}
}

// PairScore is the audited score breakdown for one document/transaction
// pair. Each sub-score is 0-100; the total is the weighted sum.
type PairScore struct {
	NameScore   int          `json:"name_score"`
	AmountScore int          `json:"amount_score"`
	DateScore   int          `json:"date_score"`
	TotalScore  int          `json:"total_score"`
	Details     ScoreDetails `json:"details"`
}

// ScoreDetails carries the raw inputs behind each sub-score so a reviewer
// can see why the pair scored the way it did. A nil entry means the field
// was missing on at least one side.
type ScoreDetails struct {
	Name   *NameDetail   `json:"name_match,omitempty"`
	Amount *AmountDetail `json:"amount_match,omitempty"`
	Date   *DateDetail   `json:"date_match,omitempty"`
}

// NameDetail records the names that were fuzzily compared.
type NameDetail struct {
	DocumentVendor         string `json:"document_vendor"`
	TransactionDescription string `json:"transaction_description"`
	Similarity             int    `json:"similarity"`
}

// AmountDetail records the amounts that were compared. TransactionAmount
// is the absolute value of the bank amount.
type AmountDetail struct {
	DocumentAmount    float64 `json:"document_amount"`
	TransactionAmount float64 `json:"transaction_amount"`
	Difference        float64 `json:"difference"`
	Match             bool    `json:"match"`
}

// DateDetail records the dates that were compared. DaysDifference is 999
// when either date failed to parse.
type DateDetail struct {
	DocumentDate    string `json:"document_date"`
	TransactionDate string `json:"transaction_date"`
	DaysDifference  int    `json:"days_difference"`
	Match           bool   `json:"match"`
}

// MatchRecord pairs one document with one transaction, with the score
// that justified the pairing.
type MatchRecord struct {
	Document       document.Document `json:"document"`
	Transaction    Transaction       `json:"transaction"`
	MatchScore     int               `json:"match_score"`
	MatchDetails   PairScore         `json:"match_details"`
	MatchType      string            `json:"match_type"`
	Confidence     string            `json:"confidence"`
	RequiresReview bool              `json:"requires_review,omitempty"`
}

// PossibleMatch is a ranked candidate document for a still-unmatched
// transaction.
type PossibleMatch struct {
	Document document.Document `json:"document"`
	Score    int               `json:"score"`
	Details  PairScore         `json:"details"`
}

// UnmatchedTransaction is a transaction no document claimed, annotated
// with its best candidate documents for human review.
type UnmatchedTransaction struct {
	Transaction     Transaction     `json:"transaction"`
	PossibleMatches []PossibleMatch `json:"possible_matches"`
}

// Summary aggregates the reconciliation outcome.
type Summary struct {
	TotalDocuments             int     `json:"total_documents"`
	TotalTransactions          int     `json:"total_transactions"`
	MatchedCount               int     `json:"matched_count"`
	UnmatchedDocumentsCount    int     `json:"unmatched_documents_count"`
	UnmatchedTransactionsCount int     `json:"unmatched_transactions_count"`
	SuggestedMatchesCount      int     `json:"suggested_matches_count"`
	ReconciliationRate         float64 `json:"reconciliation_rate"`
}

// Result is the full output of one Reconcile call. Every input document
// lands in exactly one of Matched or UnmatchedDocuments, and every input
// transaction in exactly one of Matched or UnmatchedTransactions.
// Documents in SuggestedMatches stay in UnmatchedDocuments until a human
// confirms the pairing.
type Result struct {
	Matched               []MatchRecord          `json:"matched"`
	SuggestedMatches      []MatchRecord          `json:"suggested_matches"`
	UnmatchedDocuments    []document.Document    `json:"unmatched_documents"`
	UnmatchedTransactions []UnmatchedTransaction `json:"unmatched_transactions"`
	Summary               Summary                `json:"summary"`
}
