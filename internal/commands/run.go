package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/recon/internal/config"
	"github.com/cleared-dev/recon/internal/model"
	"github.com/cleared-dev/recon/internal/normalize"
	"github.com/cleared-dev/recon/internal/recon"
	"github.com/cleared-dev/recon/internal/report"
	"github.com/cleared-dev/recon/internal/runlog"
)

// ErrUnreconciled signals a completed run that still has differences; the
// process exits nonzero so scripts can gate on a clean reconciliation.
var ErrUnreconciled = errors.New("unreconciled differences remain")

func newRunCommand() *cobra.Command {
	var (
		bankFile    string
		bankFormat  string
		booksFile   string
		booksFormat string
		threshold   float64
		window      int
		outputDir   string
		configPath  string
		noWorkbook  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile a bank export against a books export",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := runOptions{
				BankFile:    bankFile,
				BankFormat:  bankFormat,
				BooksFile:   booksFile,
				BooksFormat: booksFormat,
				ConfigPath:  configPath,
				NoWorkbook:  noWorkbook,
			}
			if cmd.Flags().Changed("threshold") {
				opts.Threshold = &threshold
			}
			if cmd.Flags().Changed("window") {
				opts.Window = &window
			}
			if cmd.Flags().Changed("output") {
				opts.OutputDir = &outputDir
			}
			return runReconcile(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&bankFile, "bank", "", "bank export CSV (required)")
	_ = cmd.MarkFlagRequired("bank")
	cmd.Flags().StringVar(&bankFormat, "bank-format", "", "bank institution profile (required)")
	_ = cmd.MarkFlagRequired("bank-format")
	cmd.Flags().StringVar(&booksFile, "books", "", "books export CSV (required)")
	_ = cmd.MarkFlagRequired("books")
	cmd.Flags().StringVar(&booksFormat, "books-format", "quickbooks", "books export profile")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.01, "max amount delta for a fuzzy match")
	cmd.Flags().IntVar(&window, "window", 3, "max date offset in days for a fuzzy match")
	cmd.Flags().StringVar(&outputDir, "output", "", "report output directory (default from config)")
	cmd.Flags().StringVar(&configPath, "config", "recon.yaml", "config file path")
	cmd.Flags().BoolVar(&noWorkbook, "no-workbook", false, "skip the XLSX report")

	return cmd
}

type runOptions struct {
	BankFile    string
	BankFormat  string
	BooksFile   string
	BooksFormat string
	ConfigPath  string
	NoWorkbook  bool

	// Flag overrides; nil means use the config value.
	Threshold *float64
	Window    *int
	OutputDir *string
}

func runReconcile(cmd *cobra.Command, opts runOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	engineCfg := recon.Config{
		MatchThreshold: decimal.NewFromFloat(cfg.Matching.MatchThreshold),
		DateWindow:     cfg.Matching.DateWindowDays,
	}
	if opts.Threshold != nil {
		engineCfg.MatchThreshold = decimal.NewFromFloat(*opts.Threshold)
	}
	if opts.Window != nil {
		engineCfg.DateWindow = *opts.Window
	}
	outputDir := cfg.Output.Dir
	if opts.OutputDir != nil {
		outputDir = *opts.OutputDir
	}

	registry, err := cfg.Registry()
	if err != nil {
		return err
	}

	bank, err := parseFile(registry, opts.BankFormat, opts.BankFile, model.SourceBank)
	if err != nil {
		return err
	}
	books, err := parseFile(registry, opts.BooksFormat, opts.BooksFile, model.SourceBooks)
	if err != nil {
		return err
	}

	res, err := recon.Reconcile(bank, books, engineCfg)
	if err != nil {
		return err
	}
	sum := recon.Summarize(res)

	report.WriteConsole(cmd.OutOrStdout(), res, sum)

	if !opts.NoWorkbook {
		if err := writeArtifacts(cmd, res, sum, outputDir); err != nil {
			return err
		}
	}

	entry := runlog.Entry{
		RunID:       runlog.NewRunID(),
		Timestamp:   time.Now(),
		BankFile:    opts.BankFile,
		BooksFile:   opts.BooksFile,
		BankCount:   len(bank),
		BooksCount:  len(books),
		Matched:     len(res.Pairs),
		BankOnly:    len(res.BankOnly),
		BooksOnly:   len(res.BooksOnly),
		BadRecords:  len(res.RecordErrors),
		NetVariance: sum.BankOnly.NetImpact.Sub(sum.BooksOnly.NetImpact),
	}
	if err := runlog.Append(".", entry); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	if len(res.BankOnly) > 0 || len(res.BooksOnly) > 0 || len(res.RecordErrors) > 0 {
		return ErrUnreconciled
	}
	return nil
}

// loadConfig reads the config file if it exists, otherwise falls back to
// defaults so the tool works outside an initialized workspace.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.Load(path)
}

func parseFile(registry *normalize.Registry, format, path string, source model.Source) ([]model.Transaction, error) {
	profile, ok := registry.Get(format)
	if !ok {
		return nil, fmt.Errorf("unknown format %q (available: %v)", format, registry.Names())
	}

	parser, err := normalize.NewParser(profile, source)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	txns, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return txns, nil
}

func writeArtifacts(cmd *cobra.Command, res *recon.Result, sum recon.Summary, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	now := time.Now()
	workbookPath := report.WorkbookPath(outputDir, now)
	if err := report.WriteWorkbook(workbookPath, res, sum); err != nil {
		return err
	}
	cmd.Printf("\nReport saved: %s\n", workbookPath)

	if len(res.BankOnly) > 0 {
		csvPath := filepath.Join(outputDir, fmt.Sprintf("ledger_import_%s.csv", now.Format("20060102_150405")))
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", csvPath, err)
		}
		defer f.Close()
		if err := report.WriteLedgerImport(f, res.BankOnly); err != nil {
			return err
		}
		cmd.Printf("Ledger import saved: %s\n", csvPath)
	}
	return nil
}
