//go:build mage

package main

import "github.com/magefile/mage/sh"

// Lint runs golangci-lint over the whole module.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt applies gofmt to the tree.
func Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV(binGo, "vet", "./...")
}
