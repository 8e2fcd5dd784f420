// Package main is the entry point for the flatql binary.
package main

import (
	"os"

	"github.com/nao1215/flatql/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
