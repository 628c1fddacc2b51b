// Package main provides the entry point for the excel_validator CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "excel_validator",
	Short:        "Validate spreadsheet data against declarative rules",
	Long:         "excel_validator checks a worksheet against a YAML or TOML rule file and either prints the broken cells or writes an annotated copy of the workbook with a Log sheet.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
