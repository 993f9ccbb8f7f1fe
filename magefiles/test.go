//go:build mage

package main

import "github.com/magefile/mage/sh"

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// Cover runs the tests with coverage and prints the per-function summary.
func Cover() error {
	if err := sh.RunV(binGo, "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func=coverage.out")
}

// Race runs the tests with the race detector.
func Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}
