// Share command: resolve a public share code the way the share page does.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/appdeck/internal/client"
	"github.com/mesh-intelligence/appdeck/internal/syncer"
)

var shareCmd = &cobra.Command{
	Use:   "share <code>",
	Short: "Resolve a share code and show the public app",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := client.New(cfg.Remote.BaseURL)
		resolver := syncer.NewShareResolver(api)

		switch resolver.Resolve(cmd.Context(), args[0]) {
		case syncer.StateNotFound:
			return fmt.Errorf("no published app with share code %q", args[0])
		case syncer.StateFound:
		}

		app := resolver.App()
		if flagJSON {
			return printJSON(app)
		}

		fmt.Printf("%s %s (%s)\n", app.Icon, app.Name, app.AppType)
		if app.Description != "" {
			fmt.Println(app.Description)
		}
		if len(app.DataItems) > 0 {
			fmt.Printf("\nitems (%d):\n", len(app.DataItems))
			for _, it := range app.DataItems {
				fmt.Printf("  %3d  %s\n", it.DisplayOrder, it.DisplayName())
			}
		}
		if len(app.Forms) > 0 {
			fmt.Printf("\nforms (%d):\n", len(app.Forms))
			for _, f := range app.Forms {
				fmt.Printf("  %s (%d fields)\n", f.Name, len(f.Fields))
			}
		}
		return nil
	},
}
