package main

import (
	"fmt"

	"github.com/jonathan/excel-validator/internal/config"
	"github.com/jonathan/excel-validator/internal/observability"
	"github.com/spf13/cobra"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config <config>",
	Short: "Check a rule file without scanning a workbook",
	Long:  "Loads the rule file, checks it against the rule schema, builds every rule and prints a summary of the resulting rule set.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckConfig,
}

func init() {
	rootCmd.AddCommand(checkConfigCmd)
}

func runCheckConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(args[0])
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	rs, err := cfg.RuleSet()
	if err != nil {
		return fmt.Errorf("failed to build rule set: %w", err)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintRuleSet(rs)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
	return nil
}
