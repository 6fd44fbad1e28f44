// Package main provides the bornfill CLI.
package main

import (
	"os"

	"github.com/born-ml/fill/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
