package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/finclear/reconcile-backend/internal/adapters/bankstatement"
	"github.com/finclear/reconcile-backend/internal/cli"
	"github.com/finclear/reconcile-backend/internal/domain/document"
	"github.com/finclear/reconcile-backend/internal/domain/recon"
	"github.com/finclear/reconcile-backend/internal/infrastructure/config"
	"github.com/finclear/reconcile-backend/internal/infrastructure/logging"
)

func main() {
	// Parse flags
	var (
		documentsFile = flag.String("documents", "", "Path to extracted documents JSON (array of objects)")
		statementFile = flag.String("statement", "", "Path to bank statement file")
		format        = flag.String("format", "", "Statement format: csv or text (default from config)")
		outFile       = flag.String("out", "", "Write the reconciliation report JSON here (default stdout)")
	)
	flags := cli.RegisterReconFlags()
	flag.Parse()

	// Load configuration
	cfg := loadConfig(flags.ConfigFile)

	// Setup logging
	logCfg := cfg.Observability.Logging
	if flags.Verbose {
		logCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(logCfg, "recon")

	if *documentsFile == "" || *statementFile == "" {
		logger.Error("Both -documents and -statement are required")
		os.Exit(1)
	}

	// Load documents
	documents, err := loadDocuments(*documentsFile)
	if err != nil {
		logger.Error("Failed to load documents", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Parse the bank statement
	statementFormat := *format
	if statementFormat == "" {
		statementFormat = cfg.Statement.Format
	}
	content, err := os.ReadFile(*statementFile)
	if err != nil {
		logger.Error("Failed to read statement", slog.String("error", err.Error()))
		os.Exit(1)
	}
	statement, err := bankstatement.NewParser().Parse(content, statementFormat)
	if err != nil {
		logger.Error("Failed to parse statement", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Build the engine with any flag overrides applied on top of config
	engineCfg := flags.Apply(cfg.Matching.ToEngineConfig())
	engine := recon.NewEngine(engineCfg)

	logger.Info("Starting reconciliation",
		slog.Int("documents", len(documents)),
		slog.Int("transactions", len(statement.Transactions)),
		slog.String("statement_id", statement.ID),
		slog.String("format", statement.Format),
	)

	result := engine.Reconcile(documents, statement.Transactions)

	logger.Info("Reconciliation complete",
		slog.Int("matched", result.Summary.MatchedCount),
		slog.Int("suggested", result.Summary.SuggestedMatchesCount),
		slog.Int("unmatched_documents", result.Summary.UnmatchedDocumentsCount),
		slog.Int("unmatched_transactions", result.Summary.UnmatchedTransactionsCount),
		slog.Float64("reconciliation_rate", result.Summary.ReconciliationRate),
	)

	// Emit the report
	report, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Error("Failed to encode report", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *outFile != "" {
		if err := os.WriteFile(*outFile, append(report, '\n'), 0644); err != nil {
			logger.Error("Failed to write report", slog.String("error", err.Error()))
			os.Exit(1)
		}
		cli.PrintHeader("reconciliation report")
		cli.PrintConfiguration(engine.Config())
		cli.PrintReportSummary(result)
		fmt.Printf("\nReport written to %s\n", *outFile)
	} else {
		fmt.Println(string(report))
	}
}

// loadDocuments reads a JSON array of extracted documents
func loadDocuments(path string) ([]document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var documents []document.Document
	if err := json.Unmarshal(data, &documents); err != nil {
		return nil, fmt.Errorf("parsing documents file: %w", err)
	}
	return documents, nil
}

// loadConfig loads from the given file, or config.yaml, or the environment
func loadConfig(configFile string) *config.Config {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config file %s: %v\n", configFile, err)
			os.Exit(1)
		}
		return cfg
	}
	return config.LoadOrEnv()
}
