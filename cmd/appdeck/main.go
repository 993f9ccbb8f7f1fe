// Package main provides the appdeck CLI: the API server plus client
// commands for working with apps, items, and shared pages.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
