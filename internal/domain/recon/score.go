package recon

import (
	"math"
	"time"

	"github.com/finclear/reconcile-backend/internal/domain/document"
	"github.com/finclear/reconcile-backend/internal/domain/fuzzy"
	"github.com/finclear/reconcile-backend/internal/domain/vendor"
)

// Sub-score weights. Vendor name is the strongest settlement signal,
// amount second (fees and partial payments shift it), date weakest
// (posting delay, batching).
const (
	nameWeight   = 0.50
	amountWeight = 0.35
	dateWeight   = 0.15
)

const dateLayout = "2006-01-02"

// unknownDaysDifference is recorded in DateDetail when a date fails to parse.
const unknownDaysDifference = 999

// scorePair computes the weighted multi-factor score for one pair.
// A field missing on either side zeroes that sub-score without failing the
// comparison; the remaining sub-scores still contribute.
func (e *Engine) scorePair(doc document.Document, tx Transaction) PairScore {
	var score PairScore

	docVendor := doc.VendorName()
	if docVendor != "" && tx.Description != "" {
		similarity := e.matchNames(docVendor, tx.Description)
		score.NameScore = similarity
		score.Details.Name = &NameDetail{
			DocumentVendor:         docVendor,
			TransactionDescription: tx.Description,
			Similarity:             similarity,
		}
	}

	if docAmount, ok := doc.Amount(); ok {
		// Debits post negative; compare magnitudes only.
		txAmount := math.Abs(tx.Amount)
		score.AmountScore = e.matchAmounts(docAmount, txAmount)
		score.Details.Amount = &AmountDetail{
			DocumentAmount:    docAmount,
			TransactionAmount: txAmount,
			Difference:        math.Abs(docAmount - txAmount),
			Match:             score.AmountScore == 100,
		}
	}

	if docDate, ok := doc.Date(); ok && tx.Date != "" {
		score.DateScore = e.matchDates(docDate, tx.Date)
		score.Details.Date = &DateDetail{
			DocumentDate:    docDate,
			TransactionDate: tx.Date,
			DaysDifference:  dateDifferenceDays(docDate, tx.Date),
			Match:           score.DateScore == 100,
		}
	}

	score.TotalScore = int(math.Round(
		float64(score.NameScore)*nameWeight +
			float64(score.AmountScore)*amountWeight +
			float64(score.DateScore)*dateWeight))

	return score
}

// matchNames normalizes both sides and takes the best of the four fuzzy
// ratios. Each ratio is blind to a different kind of legitimate variation
// (reordering, truncation, extra boilerplate); taking the max keeps one
// poorly-fitting algorithm from sinking a valid match.
func (e *Engine) matchNames(docVendor, txDescription string) int {
	norm1 := vendor.Normalize(docVendor)
	norm2 := vendor.Normalize(txDescription)

	best := fuzzy.Ratio(norm1, norm2)
	for _, score := range [3]int{
		fuzzy.PartialRatio(norm1, norm2),
		fuzzy.TokenSortRatio(norm1, norm2),
		fuzzy.TokenSetRatio(norm1, norm2),
	} {
		if score > best {
			best = score
		}
	}
	return best
}

// matchAmounts scores two non-negative amounts with tiered tolerance
// bands. Near-equal rounding or a small fee differential should not zero
// out an otherwise strong match.
func (e *Engine) matchAmounts(docAmount, txAmount float64) int {
	// epsilon absorbs float subtraction noise right at the tolerance
	// boundary (100.01 - 100.00 > 0.01 in float64).
	const epsilon = 1e-7

	difference := math.Abs(docAmount - txAmount)
	if difference <= e.config.AmountTolerance+epsilon {
		return 100
	}

	percentDiff := difference / math.Max(docAmount, txAmount) * 100
	switch {
	case percentDiff <= 1.0:
		return 80
	case percentDiff <= 5.0:
		return 50
	default:
		return 0
	}
}

// matchDates scores two YYYY-MM-DD dates: same day 100, then 20 points
// off per day floored at 50 inside the window, 0 outside the window or
// when either date fails to parse.
func (e *Engine) matchDates(docDate, txDate string) int {
	date1, err1 := time.Parse(dateLayout, docDate)
	date2, err2 := time.Parse(dateLayout, txDate)
	if err1 != nil || err2 != nil {
		return 0
	}

	diffDays := daysBetween(date1, date2)
	switch {
	case diffDays == 0:
		return 100
	case diffDays <= e.config.DateRangeDays:
		score := 100 - diffDays*20
		if score < 50 {
			score = 50
		}
		return score
	default:
		return 0
	}
}

func dateDifferenceDays(docDate, txDate string) int {
	date1, err1 := time.Parse(dateLayout, docDate)
	date2, err2 := time.Parse(dateLayout, txDate)
	if err1 != nil || err2 != nil {
		return unknownDaysDifference
	}
	return daysBetween(date1, date2)
}

func daysBetween(a, b time.Time) int {
	return int(math.Round(math.Abs(a.Sub(b).Hours() / 24)))
}
