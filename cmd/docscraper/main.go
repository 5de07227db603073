// Package main provides the entry point for the docscraper CLI.
package main

import (
	"os"

	"github.com/docscraper/docscraper/cmd/docscraper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
