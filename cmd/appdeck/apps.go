// App commands: list, create, delete.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

var (
	flagAppDescription string
	flagAppType        string
	flagAppIcon        string
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "Work with apps",
}

var appsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List apps",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSyncer()
		if err != nil {
			return err
		}
		s.RefreshApps(cmd.Context())

		apps := s.Store.Apps()
		if flagJSON {
			return printJSON(apps)
		}
		offlineNote(s)
		if len(apps) == 0 {
			fmt.Println("no apps")
			return nil
		}
		for _, app := range apps {
			fmt.Printf("%s  %s %s (%s) share:%s\n", app.ID, app.Icon, app.Name, app.AppType, app.ShareCode)
		}
		return nil
	},
}

var appsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an app",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagAppType != "" && !types.ValidAppType(flagAppType) {
			return fmt.Errorf("unknown app type %q", flagAppType)
		}
		s, err := newSyncer()
		if err != nil {
			return err
		}
		app := s.CreateApp(cmd.Context(), types.NewApp{
			Name:        args[0],
			Description: flagAppDescription,
			AppType:     flagAppType,
			Icon:        flagAppIcon,
		})
		if flagJSON {
			return printJSON(app)
		}
		offlineNote(s)
		fmt.Printf("created %s (share code %s)\n", app.ID, app.ShareCode)
		return nil
	},
}

var appsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an app and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSyncer()
		if err != nil {
			return err
		}
		s.DeleteApp(cmd.Context(), args[0])
		offlineNote(s)
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

func init() {
	appsCreateCmd.Flags().StringVar(&flagAppDescription, "description", "", "app description")
	appsCreateCmd.Flags().StringVar(&flagAppType, "type", "", "app type: data, form, website, or embed")
	appsCreateCmd.Flags().StringVar(&flagAppIcon, "icon", "", "app icon")

	appsCmd.AddCommand(appsListCmd)
	appsCmd.AddCommand(appsCreateCmd)
	appsCmd.AddCommand(appsDeleteCmd)
}
