// Package main is the leapterm command.
package main

import (
	"os"

	"github.com/leapstack-labs/leapterm/internal/cli"

	// Register dialects and adapters.
	_ "github.com/leapstack-labs/leapterm/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapterm/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapterm/pkg/adapters/sqlite"
	_ "github.com/leapstack-labs/leapterm/pkg/dialects/ansi"
	_ "github.com/leapstack-labs/leapterm/pkg/dialects/duckdb"
	_ "github.com/leapstack-labs/leapterm/pkg/dialects/postgres"
	_ "github.com/leapstack-labs/leapterm/pkg/dialects/sqlite"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
