// Package bankstatement parses bank statements into the transactions the
// reconciliation engine consumes.
//
// Two sources are supported: CSV exports, where column names are
// auto-detected across the common bank layouts, and plain statement text
// (e.g. extracted from a PDF upstream), where transaction lines are
// recognized by pattern. Rows that cannot be understood are skipped, not
// fatal: a statement with a few unreadable lines still reconciles.
package bankstatement

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finclear/reconcile-backend/internal/domain/recon"
)

// Supported input formats.
const (
	FormatCSV  = "csv"
	FormatText = "text"
)

// Statement is the result of parsing one statement file.
type Statement struct {
	ID           string              `json:"statement_id"`
	Format       string              `json:"format"`
	Transactions []recon.Transaction `json:"transactions"`
}

// Parser parses bank statements. The zero value is usable; NewParser is
// provided for symmetry with the rest of the codebase.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse dispatches on the declared format.
func (p *Parser) Parse(content []byte, format string) (*Statement, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV, "text/csv":
		return p.ParseCSV(content)
	case FormatText, "txt", "text/plain":
		return p.ParseText(content)
	default:
		return nil, fmt.Errorf("unsupported statement format %q", format)
	}
}

// Candidate column headers, compared case-insensitively.
var (
	dateColumns        = []string{"date", "transaction date", "posting date", "trans date", "value date"}
	descriptionColumns = []string{"description", "memo", "details", "transaction details", "payee", "merchant"}
	amountColumns      = []string{"amount", "transaction amount", "value"}
	debitColumns       = []string{"debit", "withdrawal", "withdrawals", "debits"}
	creditColumns      = []string{"credit", "deposit", "deposits", "credits"}
	balanceColumns     = []string{"balance", "running balance", "ending balance"}
)

// ParseCSV parses a CSV statement, auto-detecting the date, description,
// and amount columns. Banks that export separate debit/credit columns are
// handled by folding them into one signed amount (debits negative).
func (p *Parser) ParseCSV(content []byte) (*Statement, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read statement CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("statement CSV is empty")
	}

	header := records[0]
	dateCol := findColumn(header, dateColumns)
	descCol := findColumn(header, descriptionColumns)
	amountCol := findColumn(header, amountColumns)
	debitCol := findColumn(header, debitColumns)
	creditCol := findColumn(header, creditColumns)
	balanceCol := findColumn(header, balanceColumns)

	if dateCol < 0 || descCol < 0 {
		return nil, errors.New("could not detect date and description columns")
	}
	if amountCol < 0 && (debitCol < 0 || creditCol < 0) {
		return nil, errors.New("could not detect an amount column")
	}

	statement := &Statement{
		ID:           uuid.NewString(),
		Format:       FormatCSV,
		Transactions: make([]recon.Transaction, 0, len(records)-1),
	}

	for idx, row := range records[1:] {
		tx := recon.Transaction{TransactionID: fmt.Sprintf("bank_tx_%d", idx)}

		date, ok := ParseDate(field(row, dateCol))
		if !ok {
			continue
		}
		tx.Date = date

		tx.Description = strings.TrimSpace(field(row, descCol))
		if tx.Description == "" {
			continue
		}

		if amountCol >= 0 {
			amount, ok := ParseAmount(field(row, amountCol))
			if !ok {
				continue
			}
			tx.Amount = amount
		} else {
			debit, hasDebit := ParseAmount(field(row, debitCol))
			credit, hasCredit := ParseAmount(field(row, creditCol))
			switch {
			case hasDebit && debit > 0:
				tx.Amount = -debit // debits post as negative
				tx.Type = "debit"
			case hasCredit && credit > 0:
				tx.Amount = credit
				tx.Type = "credit"
			default:
				continue
			}
		}

		if balanceCol >= 0 {
			if balance, ok := ParseAmount(field(row, balanceCol)); ok {
				tx.Balance = &balance
			}
		}

		statement.Transactions = append(statement.Transactions, tx)
	}

	return statement, nil
}

// transactionLinePattern recognizes "date description amount" lines in
// statement text: a short date, free text, and a trailing decimal amount.
var transactionLinePattern = regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\s+(.+?)\s+([-+]?\$?\s*[\d,]+\.\d{2})`)

// ParseText extracts transactions from plain statement text.
func (p *Parser) ParseText(content []byte) (*Statement, error) {
	statement := &Statement{
		ID:           uuid.NewString(),
		Format:       FormatText,
		Transactions: make([]recon.Transaction, 0),
	}

	matches := transactionLinePattern.FindAllStringSubmatch(string(content), -1)
	for idx, m := range matches {
		date, ok := ParseDate(m[1])
		if !ok {
			continue
		}
		amount, ok := ParseAmount(m[3])
		if !ok {
			continue
		}
		statement.Transactions = append(statement.Transactions, recon.Transaction{
			TransactionID: fmt.Sprintf("text_tx_%d", idx),
			Date:          date,
			Description:   strings.TrimSpace(m[2]),
			Amount:        amount,
		})
	}

	return statement, nil
}

// dateLayouts are tried in order when normalizing statement dates. US
// month-first layouts come before day-first ones, matching how ambiguous
// dates are resolved in the source statements.
var dateLayouts = []string{
	"01/02/2006",
	"2006-01-02",
	"01-02-2006",
	"02/01/2006",
	"2006/01/02",
	"01/02/06",
	"02-01-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate normalizes a statement date to YYYY-MM-DD.
func ParseDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "none") {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

var currencyRunes = regexp.MustCompile(`[$€£¥,\s]`)

// ParseAmount parses a statement amount. Handles currency symbols,
// thousands separators, parenthesized negatives, and CR/DR suffixes.
func ParseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "none") {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = currencyRunes.ReplaceAllString(s, "")

	upper := strings.ToUpper(s)
	switch {
	case strings.HasSuffix(upper, "CR"):
		s = s[:len(s)-2]
	case strings.HasSuffix(upper, "DR"):
		negative = true
		s = s[:len(s)-2]
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	if negative {
		value = value.Neg()
	}
	f, _ := value.Float64()
	return f, true
}

func findColumn(header []string, names []string) int {
	for _, name := range names {
		for i, col := range header {
			if strings.EqualFold(strings.TrimSpace(col), name) {
				return i
			}
		}
	}
	return -1
}

func field(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}
