package recon

import (
	"fmt"
	"math"
	"sort"

	"github.com/finclear/reconcile-backend/internal/domain/document"
)

// Engine reconciles extracted documents against bank transactions.
//
// The engine is a pure function of its inputs: construction parameters
// are immutable after NewEngine, Reconcile holds no state between calls,
// and nothing shared is mutated, so one engine may serve concurrent
// callers without coordination.
type Engine struct {
	config Config
}

// NewEngine builds an engine from config, clamping out-of-range values
// back to the defaults. Construction never fails.
func NewEngine(config Config) *Engine {
	defaults := DefaultConfig()
	if config.NameThreshold <= 0 || config.NameThreshold > 100 {
		config.NameThreshold = defaults.NameThreshold
	}
	if config.AmountTolerance < 0 {
		config.AmountTolerance = defaults.AmountTolerance
	}
	if config.DateRangeDays < 0 {
		config.DateRangeDays = defaults.DateRangeDays
	}
	if config.AutoMatchThreshold <= 0 || config.AutoMatchThreshold > 100 {
		config.AutoMatchThreshold = defaults.AutoMatchThreshold
	}
	return &Engine{config: config}
}

// Config returns the engine's effective (clamped) configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Reconcile partitions documents and transactions into automatic matches,
// suggestions, and unmatched items.
//
// The assignment is greedy, not globally optimal: documents are processed
// in input order and each claims its best-scoring unclaimed transaction.
// An earlier document can take a transaction a later one would have
// matched better; SuggestedMatches and PossibleMatches give a reviewer
// the information to correct that.
func (e *Engine) Reconcile(documents []document.Document, transactions []Transaction) *Result {
	result := &Result{
		Matched:               make([]MatchRecord, 0),
		SuggestedMatches:      make([]MatchRecord, 0),
		UnmatchedDocuments:    make([]document.Document, 0),
		UnmatchedTransactions: make([]UnmatchedTransaction, 0),
		Summary: Summary{
			TotalDocuments:    len(documents),
			TotalTransactions: len(transactions),
		},
	}

	claimedTransactions := make(map[string]bool)
	claimedDocuments := make(map[string]bool)

	// Pass 1: per document, find the best-scoring unclaimed transaction.
	for i, doc := range documents {
		var bestScore PairScore
		bestIndex := -1

		for j := range transactions {
			if claimedTransactions[transactions[j].TransactionID] {
				continue
			}
			score := e.scorePair(doc, transactions[j])
			// Strictly greater: ties keep the first transaction in scan order.
			if score.TotalScore > bestScore.TotalScore {
				bestScore = score
				bestIndex = j
			}
		}

		if bestIndex < 0 {
			continue
		}
		bestTx := transactions[bestIndex]

		switch {
		case bestScore.TotalScore >= e.config.AutoMatchThreshold:
			confidence := ConfidenceMedium
			if bestScore.TotalScore >= 95 {
				confidence = ConfidenceHigh
			}
			result.Matched = append(result.Matched, MatchRecord{
				Document:     doc,
				Transaction:  bestTx,
				MatchScore:   bestScore.TotalScore,
				MatchDetails: bestScore,
				MatchType:    MatchTypeAutomatic,
				Confidence:   confidence,
			})
			claimedTransactions[bestTx.TransactionID] = true
			claimedDocuments[documentKey(doc, i)] = true

		case bestScore.TotalScore >= e.config.NameThreshold:
			// Suggested pairs do not claim the transaction: it stays
			// available to later documents and to the candidate search.
			result.SuggestedMatches = append(result.SuggestedMatches, MatchRecord{
				Document:       doc,
				Transaction:    bestTx,
				MatchScore:     bestScore.TotalScore,
				MatchDetails:   bestScore,
				MatchType:      MatchTypeSuggested,
				Confidence:     ConfidenceLow,
				RequiresReview: true,
			})
		}
	}

	// Pass 2: sweep everything not claimed.
	for i, doc := range documents {
		if !claimedDocuments[documentKey(doc, i)] {
			result.UnmatchedDocuments = append(result.UnmatchedDocuments, doc)
		}
	}
	for _, tx := range transactions {
		if claimedTransactions[tx.TransactionID] {
			continue
		}
		result.UnmatchedTransactions = append(result.UnmatchedTransactions, UnmatchedTransaction{
			Transaction:     tx,
			PossibleMatches: e.possibleMatches(tx, documents, claimedDocuments),
		})
	}

	result.Summary.MatchedCount = len(result.Matched)
	result.Summary.UnmatchedDocumentsCount = len(result.UnmatchedDocuments)
	result.Summary.UnmatchedTransactionsCount = len(result.UnmatchedTransactions)
	result.Summary.SuggestedMatchesCount = len(result.SuggestedMatches)
	if result.Summary.TotalDocuments > 0 {
		rate := float64(result.Summary.MatchedCount) / float64(result.Summary.TotalDocuments) * 100
		result.Summary.ReconciliationRate = math.Round(rate*100) / 100
	}

	return result
}

// ManualMatch scores a specific pair on demand so a human can confirm or
// audit it. No claiming or bookkeeping happens: repeated calls and
// subsequent Reconcile calls are unaffected.
func (e *Engine) ManualMatch(doc document.Document, tx Transaction) MatchRecord {
	score := e.scorePair(doc, tx)
	return MatchRecord{
		Document:     doc,
		Transaction:  tx,
		MatchScore:   score.TotalScore,
		MatchDetails: score,
		MatchType:    MatchTypeManual,
		Confidence:   ConfidenceUserVerified,
	}
}

// possibleMatches ranks unclaimed documents against an unmatched
// transaction: score at least 50, top three, descending. Stable sort
// keeps input order between equal scores.
func (e *Engine) possibleMatches(tx Transaction, documents []document.Document, excludeDocuments map[string]bool) []PossibleMatch {
	const minCandidateScore = 50
	const maxCandidates = 3

	candidates := make([]PossibleMatch, 0)
	for i, doc := range documents {
		if excludeDocuments[documentKey(doc, i)] {
			continue
		}
		score := e.scorePair(doc, tx)
		if score.TotalScore >= minCandidateScore {
			candidates = append(candidates, PossibleMatch{
				Document: doc,
				Score:    score.TotalScore,
				Details:  score,
			})
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Score > candidates[b].Score
	})
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates
}

// documentKey is the claim-bookkeeping identity for a document. Records
// without a document_id fall back to their position in the input slice.
func documentKey(doc document.Document, index int) string {
	if id, ok := doc.ID(); ok {
		return id
	}
	return fmt.Sprintf("doc#%d", index)
}
