package cli

import (
	"flag"

	"github.com/finclear/reconcile-backend/internal/domain/recon"
)

// ReconFlags are common flags for the reconciliation commands
type ReconFlags struct {
	ConfigFile         string
	NameThreshold      int
	AmountTolerance    float64
	DateRangeDays      int
	AutoMatchThreshold int
	Verbose            bool
}

// RegisterReconFlags registers common reconciliation flags on the default
// flag set. Call flag.Parse afterwards.
func RegisterReconFlags() *ReconFlags {
	f := &ReconFlags{}
	flag.StringVar(&f.ConfigFile, "config", "", "Configuration file path")
	flag.IntVar(&f.NameThreshold, "name-threshold", 0, "Minimum score to suggest a match (0 = config default)")
	flag.Float64Var(&f.AmountTolerance, "amount-tolerance", 0, "Absolute amount difference treated as exact (0 = config default)")
	flag.IntVar(&f.DateRangeDays, "date-range", 0, "Days of partial date credit (0 = config default)")
	flag.IntVar(&f.AutoMatchThreshold, "auto-threshold", 0, "Minimum score to auto-match (0 = config default)")
	flag.BoolVar(&f.Verbose, "verbose", false, "Verbose output")
	return f
}

// Apply overlays any explicitly set flags onto an engine config
func (f *ReconFlags) Apply(cfg recon.Config) recon.Config {
	if f.NameThreshold > 0 {
		cfg.NameThreshold = f.NameThreshold
	}
	if f.AmountTolerance > 0 {
		cfg.AmountTolerance = f.AmountTolerance
	}
	if f.DateRangeDays > 0 {
		cfg.DateRangeDays = f.DateRangeDays
	}
	if f.AutoMatchThreshold > 0 {
		cfg.AutoMatchThreshold = f.AutoMatchThreshold
	}
	return cfg
}
