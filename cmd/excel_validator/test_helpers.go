package main

import (
	"os"
	"path/filepath"
	"testing"
)

// getBinaryPath returns the path to the excel_validator binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "excel_validator"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/excel_validator ./cmd/excel_validator'", binaryPath)
	}

	return binaryPath
}
