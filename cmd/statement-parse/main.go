package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/finclear/reconcile-backend/internal/adapters/bankstatement"
	"github.com/finclear/reconcile-backend/internal/domain/recon"
	"github.com/finclear/reconcile-backend/internal/domain/vendor"
	"github.com/finclear/reconcile-backend/internal/infrastructure/config"
	"github.com/finclear/reconcile-backend/internal/infrastructure/logging"
)

// categorizedTransaction is a transaction annotated with its vendor category
type categorizedTransaction struct {
	recon.Transaction
	Vendor         string                 `json:"vendor,omitempty"`
	Categorization *vendor.Categorization `json:"categorization,omitempty"`
}

func main() {
	// Parse flags
	var (
		file       = flag.String("file", "", "Path to bank statement file")
		format     = flag.String("format", "", "Statement format: csv or text (default from config)")
		categorize = flag.Bool("categorize", false, "Annotate transactions with vendor categories")
		outFile    = flag.String("out", "", "Write parsed statement JSON here (default stdout)")
		configFile = flag.String("config", "", "Configuration file path")
		verbose    = flag.Bool("verbose", false, "Verbose output")
	)
	flag.Parse()

	cfg := loadConfig(*configFile)

	logCfg := cfg.Observability.Logging
	if *verbose {
		logCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(logCfg, "statement")

	if *file == "" {
		logger.Error("-file is required")
		os.Exit(1)
	}

	statementFormat := *format
	if statementFormat == "" {
		statementFormat = cfg.Statement.Format
	}

	content, err := os.ReadFile(*file)
	if err != nil {
		logger.Error("Failed to read statement", slog.String("error", err.Error()))
		os.Exit(1)
	}

	statement, err := bankstatement.NewParser().Parse(content, statementFormat)
	if err != nil {
		logger.Error("Failed to parse statement", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Statement parsed",
		slog.String("statement_id", statement.ID),
		slog.String("format", statement.Format),
		slog.Int("transactions", len(statement.Transactions)),
	)

	var output interface{} = statement
	if *categorize {
		output = categorizeStatement(statement, logger)
	}

	report, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		logger.Error("Failed to encode output", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *outFile != "" {
		if err := os.WriteFile(*outFile, append(report, '\n'), 0644); err != nil {
			logger.Error("Failed to write output", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Printf("Parsed %d transaction(s) to %s\n", len(statement.Transactions), *outFile)
	} else {
		fmt.Println(string(report))
	}
}

// categorizedStatement mirrors bankstatement.Statement with annotated rows
type categorizedStatement struct {
	ID           string                   `json:"statement_id"`
	Format       string                   `json:"format"`
	Transactions []categorizedTransaction `json:"transactions"`
}

func categorizeStatement(statement *bankstatement.Statement, logger *slog.Logger) *categorizedStatement {
	mapping := vendor.DefaultMapping()

	out := &categorizedStatement{
		ID:           statement.ID,
		Format:       statement.Format,
		Transactions: make([]categorizedTransaction, 0, len(statement.Transactions)),
	}

	known := 0
	for _, tx := range statement.Transactions {
		annotated := categorizedTransaction{
			Transaction: tx,
			Vendor:      vendor.Normalize(tx.Description),
		}
		if c := mapping.Categorize(tx.Description); c != nil {
			annotated.Categorization = c
			known++
		}
		out.Transactions = append(out.Transactions, annotated)
	}

	logger.Info("Categorization complete",
		slog.Int("known_vendors", known),
		slog.Int("unknown_vendors", len(statement.Transactions)-known),
	)
	return out
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
