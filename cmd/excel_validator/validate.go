package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/excel-validator/internal/annotate"
	"github.com/jonathan/excel-validator/internal/config"
	"github.com/jonathan/excel-validator/internal/logging"
	"github.com/jonathan/excel-validator/internal/observability"
	"github.com/jonathan/excel-validator/internal/scan"
	"github.com/jonathan/excel-validator/internal/workbook"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errFileTooBig is returned when the source exceeds the size ceiling and no
// override was given.
var errFileTooBig = errors.New("File is too big to generate annotated Excel file")

var validateCmd = &cobra.Command{
	Use:   "validate <config> <file> <sheetName> <tmpDir>",
	Short: "Validate a worksheet and annotate the broken cells",
	Long: `Validates one worksheet against a rule file.

With --errors the broken cells are printed, one per line. Otherwise a copy of
the workbook is written to tmpDir with every broken cell filled and a Log
sheet listing each violation.`,
	Args: cobra.ExactArgs(4),
	RunE: runValidate,
}

var (
	validateErrorsOnly    bool
	validateNoSizeLimit   bool
	validateWriteMessages bool
	validateJSONReport    string
	validateSettings      string
	validateVerbose       bool
)

func init() {
	validateCmd.Flags().BoolVar(&validateErrorsOnly, "errors", false, "Print the broken cells instead of writing an annotated file")
	validateCmd.Flags().BoolVar(&validateNoSizeLimit, "no-file-size-limit", false, "Annotate files above the size ceiling")
	validateCmd.Flags().BoolVar(&validateWriteMessages, "write-messages", false, "Write the messages into the marked cells")
	validateCmd.Flags().StringVar(&validateJSONReport, "json-report", "", "Path to write the violations as JSON (optional)")
	validateCmd.Flags().StringVar(&validateSettings, "settings", "", "Path to a runtime settings file (optional)")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Print the rule set and scan statistics")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath, source, sheetName, tmpDir := args[0], args[1], args[2], args[3]
	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)

	settings, err := config.LoadSettings(validateSettings)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Level:      settings.Log.Level,
		Format:     settings.Log.Format,
		File:       settings.Log.File,
		MaxSizeMB:  settings.Log.MaxSizeMB,
		MaxBackups: settings.Log.MaxBackups,
	}, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	runID := uuid.New().String()
	logger = logger.With(zap.String("run_id", runID))

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	rs, err := cfg.RuleSet()
	if err != nil {
		return fmt.Errorf("failed to build rule set: %w", err)
	}
	if validateVerbose {
		printer.PrintRuleSet(rs)
	}

	if _, err := os.Stat(source); os.IsNotExist(err) {
		return fmt.Errorf("excel file not found: %s", source)
	}

	wb, err := workbook.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	sheet, err := wb.Sheet(sheetName)
	if err != nil {
		_ = wb.Close()
		return fmt.Errorf("failed to open sheet: %w", err)
	}

	log, stats, err := scan.New(rs, logger).ScanWithStats(sheet)
	_ = wb.Close()
	if err != nil {
		return fmt.Errorf("failed to scan sheet: %w", err)
	}

	if validateVerbose {
		printer.PrintScanStats(source, sheetName, stats, log.Len())
	}
	printer.PrintSummary(log.Len())

	if validateJSONReport != "" {
		report := annotate.NewReport(runID, source, sheetName, log, time.Now())
		if err := annotate.WriteReport(validateJSONReport, report); err != nil {
			return fmt.Errorf("failed to write JSON report: %w", err)
		}
		logger.Info("JSON report written", zap.String("path", validateJSONReport))
	}

	if log.Empty() {
		return nil
	}

	if validateErrorsOnly {
		printer.PrintReport(log)
		return nil
	}

	annotator := annotate.New(annotate.Options{
		SheetName:     sheetName,
		OutputDir:     tmpDir,
		MaxFileSize:   settings.MaxFileSize,
		NoSizeLimit:   validateNoSizeLimit,
		WriteMessages: validateWriteMessages || settings.WriteMessages,
		FillColor:     settings.FillRGB(),
		Excludes:      rs.Excludes,
	}, logger)

	outcome, err := annotator.Annotate(source, log)
	if err != nil {
		return fmt.Errorf("failed to annotate workbook: %w", err)
	}
	if outcome.SizeLimitExceeded {
		printer.PrintOutcome(outcome)
		return errFileTooBig
	}

	printer.PrintOutcome(outcome)
	return nil
}
