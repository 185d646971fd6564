package bankstatement

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_StandardColumns(t *testing.T) {
	// Arrange
	csvData := strings.Join([]string{
		"Date,Description,Amount",
		"01/15/2024,ACME CORP PAYMENT,-1250.00",
		"2024-01-16,STARBUCKS #5521,-6.75",
	}, "\n")

	// Act
	statement, err := NewParser().ParseCSV([]byte(csvData))

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, statement.ID)
	assert.Equal(t, FormatCSV, statement.Format)
	require.Len(t, statement.Transactions, 2)

	first := statement.Transactions[0]
	assert.Equal(t, "bank_tx_0", first.TransactionID)
	assert.Equal(t, "2024-01-15", first.Date)
	assert.Equal(t, "ACME CORP PAYMENT", first.Description)
	assert.Equal(t, -1250.00, first.Amount)
}

func TestParseCSV_AlternateColumnNames(t *testing.T) {
	csvData := strings.Join([]string{
		"Posting Date,Memo,Transaction Amount",
		"01/15/2024,WIRE GLOBEX LTD,-500.00",
	}, "\n")

	statement, err := NewParser().ParseCSV([]byte(csvData))

	require.NoError(t, err)
	require.Len(t, statement.Transactions, 1)
	assert.Equal(t, "WIRE GLOBEX LTD", statement.Transactions[0].Description)
}

func TestParseCSV_DebitCreditColumns(t *testing.T) {
	csvData := strings.Join([]string{
		"Date,Description,Debit,Credit,Balance",
		"01/15/2024,ACME CORP,1250.00,,8750.00",
		"01/16/2024,CUSTOMER DEPOSIT,,2000.00,10750.00",
	}, "\n")

	statement, err := NewParser().ParseCSV([]byte(csvData))

	require.NoError(t, err)
	require.Len(t, statement.Transactions, 2)

	debit := statement.Transactions[0]
	assert.Equal(t, -1250.00, debit.Amount)
	assert.Equal(t, "debit", debit.Type)
	require.NotNil(t, debit.Balance)
	assert.Equal(t, 8750.00, *debit.Balance)

	credit := statement.Transactions[1]
	assert.Equal(t, 2000.00, credit.Amount)
	assert.Equal(t, "credit", credit.Type)
}

func TestParseCSV_SkipsUnparsableRows(t *testing.T) {
	csvData := strings.Join([]string{
		"Date,Description,Amount",
		"not a date,ACME CORP,-100.00",
		"01/15/2024,,-100.00",
		"01/16/2024,GOOD ROW,-42.00",
		"01/17/2024,BAD AMOUNT,abc",
	}, "\n")

	statement, err := NewParser().ParseCSV([]byte(csvData))

	require.NoError(t, err)
	require.Len(t, statement.Transactions, 1)
	assert.Equal(t, "GOOD ROW", statement.Transactions[0].Description)
}

func TestParseCSV_UndetectableColumns(t *testing.T) {
	_, err := NewParser().ParseCSV([]byte("Foo,Bar\n1,2"))
	assert.Error(t, err)

	_, err = NewParser().ParseCSV([]byte("Date,Description\n01/15/2024,no amount column"))
	assert.Error(t, err)
}

func TestParseText_ExtractsTransactionLines(t *testing.T) {
	text := strings.Join([]string{
		"FIRST NATIONAL BANK",
		"Statement period 01/01/2024 - 01/31/2024",
		"",
		"01/15/2024  ACME CORP PAYMENT       -$1,250.00",
		"01/16/2024  SQ *COFFEE SHOP         -6.75",
		"Some footer text without a transaction",
	}, "\n")

	statement, err := NewParser().ParseText([]byte(text))

	require.NoError(t, err)
	assert.Equal(t, FormatText, statement.Format)
	require.Len(t, statement.Transactions, 2)

	first := statement.Transactions[0]
	assert.Equal(t, "text_tx_0", first.TransactionID)
	assert.Equal(t, "2024-01-15", first.Date)
	assert.Equal(t, "ACME CORP PAYMENT", first.Description)
	assert.Equal(t, -1250.00, first.Amount)
}

func TestParse_DispatchesOnFormat(t *testing.T) {
	parser := NewParser()

	csvStatement, err := parser.Parse([]byte("Date,Description,Amount\n01/15/2024,X,-1.00"), "CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, csvStatement.Format)

	_, err = parser.Parse([]byte("anything"), "pdf")
	assert.Error(t, err)
}

func TestParseDate_Formats(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"01/15/2024", "2024-01-15"},
		{"2024-01-15", "2024-01-15"},
		{"01-15-2024", "2024-01-15"},
		{"1/5/2024", "2024-01-05"},
		{"Jan 15, 2024", "2024-01-15"},
		{"January 15, 2024", "2024-01-15"},
	}
	for _, tt := range tests {
		date, ok := ParseDate(tt.input)
		assert.True(t, ok, "input %q", tt.input)
		assert.Equal(t, tt.expected, date, "input %q", tt.input)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "nan", "None", "yesterday"} {
		_, ok := ParseDate(input)
		assert.False(t, ok, "input %q", input)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"1250.00", 1250.00},
		{"-1250.00", -1250.00},
		{"$1,250.00", 1250.00},
		{"€500.25", 500.25},
		{"(42.00)", -42.00},
		{"100.00CR", 100.00},
		{"100.00DR", -100.00},
		{" $ 19.99 ", 19.99},
	}
	for _, tt := range tests {
		amount, ok := ParseAmount(tt.input)
		assert.True(t, ok, "input %q", tt.input)
		assert.Equal(t, tt.expected, amount, "input %q", tt.input)
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, input := range []string{"", "nan", "abc", "()"} {
		_, ok := ParseAmount(input)
		assert.False(t, ok, "input %q", input)
	}
}

func TestParse_StatementIDsAreUnique(t *testing.T) {
	parser := NewParser()
	csvData := []byte("Date,Description,Amount\n01/15/2024,X,-1.00")

	first, err := parser.ParseCSV(csvData)
	require.NoError(t, err)
	second, err := parser.ParseCSV(csvData)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}
