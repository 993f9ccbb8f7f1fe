// Version command for the appdeck CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/appdeck/pkg/appdeck"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the appdeck version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("appdeck", appdeck.Version)
	},
}
