package cli

import (
	"fmt"
	"strings"

	"github.com/finclear/reconcile-backend/internal/domain/document"
	"github.com/finclear/reconcile-backend/internal/domain/recon"
)

// PrintHeader prints the application header
func PrintHeader(command string) {
	fmt.Printf("reconcile: %s\n", command)
}

// PrintConfiguration prints the engine thresholds in effect
func PrintConfiguration(cfg recon.Config) {
	fmt.Printf("Name threshold: %d | Amount tolerance: %.2f | Date range: %d days | Auto-match: %d\n\n",
		cfg.NameThreshold,
		cfg.AmountTolerance,
		cfg.DateRangeDays,
		cfg.AutoMatchThreshold)
}

// PrintReportSummary prints the reconciliation result summary
func PrintReportSummary(result *recon.Result) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Summary: Documents=%d Transactions=%d Matched=%d Suggested=%d Unmatched docs=%d Unmatched txs=%d\n",
		result.Summary.TotalDocuments,
		result.Summary.TotalTransactions,
		result.Summary.MatchedCount,
		result.Summary.SuggestedMatchesCount,
		result.Summary.UnmatchedDocumentsCount,
		result.Summary.UnmatchedTransactionsCount)
	fmt.Printf("Reconciliation rate: %.2f%%\n", result.Summary.ReconciliationRate)

	if len(result.SuggestedMatches) > 0 {
		fmt.Printf("\n%d suggested match(es) awaiting review:\n", len(result.SuggestedMatches))
		for _, m := range result.SuggestedMatches {
			fmt.Printf("  - %s <-> %s (score %d, %s)\n",
				describeDocument(m.Document),
				m.Transaction.Description,
				m.MatchScore,
				m.Confidence)
		}
	}
}

// describeDocument picks a short human label for a document
func describeDocument(doc document.Document) string {
	if name := doc.VendorName(); name != "" {
		return name
	}
	if id, ok := doc.ID(); ok {
		return id
	}
	return "(unidentified document)"
}
