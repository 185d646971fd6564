package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finclear/reconcile-backend/internal/domain/document"
)

// testDoc builds a flat document record. Pass nil amount or empty strings
// to leave fields out.
func testDoc(vendorName string, amount interface{}, date string) document.Document {
	doc := document.Document{}
	if vendorName != "" {
		doc["companyName"] = vendorName
	}
	if amount != nil {
		doc["totalAmount"] = amount
	}
	if date != "" {
		doc["documentDate"] = date
	}
	return doc
}

func testTx(id, description string, amount float64, date string) Transaction {
	return Transaction{
		TransactionID: id,
		Description:   description,
		Amount:        amount,
		Date:          date,
	}
}

func TestScorePair_ExactMatch(t *testing.T) {
	// Arrange
	engine := NewEngine(DefaultConfig())
	doc := testDoc("Acme Corp", 100.00, "2024-01-15")
	tx := testTx("tx1", "Acme Corp", 100.00, "2024-01-15")

	// Act
	score := engine.scorePair(doc, tx)

	// Assert
	assert.Equal(t, 100, score.NameScore)
	assert.Equal(t, 100, score.AmountScore)
	assert.Equal(t, 100, score.DateScore)
	assert.Equal(t, 100, score.TotalScore)

	require.NotNil(t, score.Details.Name)
	assert.Equal(t, "Acme Corp", score.Details.Name.DocumentVendor)
	require.NotNil(t, score.Details.Amount)
	assert.True(t, score.Details.Amount.Match)
	require.NotNil(t, score.Details.Date)
	assert.Equal(t, 0, score.Details.Date.DaysDifference)
}

func TestScorePair_SuffixInsensitiveNames(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	score := engine.matchNames("Acme Corp", "ACME CORPORATION")

	assert.GreaterOrEqual(t, score, 80)
}

func TestScorePair_MissingVendorName(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	doc := testDoc("", 100.00, "2024-01-15")
	tx := testTx("tx1", "Acme Corp", -100.00, "2024-01-15")

	score := engine.scorePair(doc, tx)

	assert.Equal(t, 0, score.NameScore)
	assert.Nil(t, score.Details.Name)
	// Amount and date still contribute: 0.35*100 + 0.15*100 = 50
	assert.Equal(t, 50, score.TotalScore)
}

func TestScorePair_DebitSignDiscarded(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	doc := testDoc("Acme", 250.00, "")
	tx := testTx("tx1", "Acme", -250.00, "")

	score := engine.scorePair(doc, tx)

	assert.Equal(t, 100, score.AmountScore)
	require.NotNil(t, score.Details.Amount)
	assert.Equal(t, 250.00, score.Details.Amount.TransactionAmount)
}

func TestMatchAmounts_ToleranceBoundary(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// Within tolerance (one cent) counts as exact.
	assert.Equal(t, 100, engine.matchAmounts(100.00, 100.01))
	// Two cents falls through to the percent tiers: 0.02% diff -> 80.
	assert.Equal(t, 80, engine.matchAmounts(100.00, 100.02))
}

func TestMatchAmounts_PercentTiers(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	tests := []struct {
		name     string
		doc, tx  float64
		expected int
	}{
		{"under one percent", 500.00, 504.00, 80},
		{"under five percent", 500.00, 515.00, 50},
		{"way off", 500.00, 900.00, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.matchAmounts(tt.doc, tt.tx))
		})
	}
}

func TestMatchAmounts_BothZero(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	assert.Equal(t, 100, engine.matchAmounts(0, 0))
}

func TestMatchDates_Decay(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	tests := []struct {
		name     string
		docDate  string
		txDate   string
		expected int
	}{
		{"same day", "2024-01-15", "2024-01-15", 100},
		{"one day", "2024-01-15", "2024-01-16", 80},
		{"two days", "2024-01-15", "2024-01-17", 60},
		{"three days floored", "2024-01-15", "2024-01-18", 50},
		{"outside window", "2024-01-15", "2024-01-19", 0},
		{"malformed document date", "01/15/2024", "2024-01-15", 0},
		{"malformed transaction date", "2024-01-15", "not a date", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.matchDates(tt.docDate, tt.txDate))
		})
	}
}

func TestScorePair_MalformedDateDetail(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	doc := testDoc("Acme", 100.00, "garbage")
	tx := testTx("tx1", "Acme", 100.00, "2024-01-15")

	score := engine.scorePair(doc, tx)

	assert.Equal(t, 0, score.DateScore)
	require.NotNil(t, score.Details.Date)
	assert.Equal(t, unknownDaysDifference, score.Details.Date.DaysDifference)
	assert.False(t, score.Details.Date.Match)
}

func TestScorePair_WeightedRounding(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	// name 100, amount 50 (3% off), date 100:
	// 50 + 17.5 + 15 = 82.5 -> rounds to 83
	doc := testDoc("Acme", 500.00, "2024-01-15")
	tx := testTx("tx1", "Acme", -515.00, "2024-01-15")

	score := engine.scorePair(doc, tx)

	assert.Equal(t, 83, score.TotalScore)
}
