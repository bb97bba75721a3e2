// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// WriteSchemaFile writes a YAML schema file into a temporary directory and
// returns its path.
func WriteSchemaFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write schema file: %v", err)
	}
	return path
}

// SchemaFile returns the path of the shared testdata schema file.
func SchemaFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(GetTestdataDir(t), "schema.yaml")
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}

// GetTestdataDir returns the path to the CLI testdata directory.
func GetTestdataDir(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	// Try different relative paths based on where tests are run from
	candidates := []string{
		filepath.Join(wd, "testdata"),
		filepath.Join(wd, "..", "testdata"),
		filepath.Join(wd, "..", "..", "testdata"),
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(filepath.Join(candidate, "schema.yaml")); err == nil {
			return candidate
		}
	}

	t.Fatalf("testdata directory not found, tried: %v", candidates)
	return ""
}
