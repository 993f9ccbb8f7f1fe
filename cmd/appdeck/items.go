// Item commands: list, add, favorite.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

var flagFavoritesOnly bool

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Work with data items",
}

var itemsListCmd = &cobra.Command{
	Use:   "list <app-id>",
	Short: "List an app's items in display order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSyncer()
		if err != nil {
			return err
		}
		appID := args[0]
		if err := s.RefreshAppContent(cmd.Context(), appID); err != nil {
			log.Debug("using local items", "appID", appID, "error", err)
		}

		items := s.Store.ProjectItems(appID, flagFavoritesOnly)
		if flagJSON {
			return printJSON(items)
		}
		offlineNote(s)
		if len(items) == 0 {
			fmt.Println("no items")
			return nil
		}
		for _, it := range items {
			marker := " "
			if it.IsFavorite {
				marker = "*"
			}
			fmt.Printf("%s %3d  %s  %s\n", marker, it.DisplayOrder, it.ID, it.DisplayName())
		}
		if flagFavoritesOnly {
			fmt.Printf("%d favorite(s) across all apps\n", s.Store.FavoritesCount())
		}
		return nil
	},
}

var itemsAddCmd = &cobra.Command{
	Use:   "add <app-id> <json-data>",
	Short: "Add an item from a JSON object",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data map[string]any
		if err := json.Unmarshal([]byte(args[1]), &data); err != nil {
			return fmt.Errorf("item data must be a JSON object: %w", err)
		}
		s, err := newSyncer()
		if err != nil {
			return err
		}
		it := s.CreateItem(cmd.Context(), types.NewDataItem{AppID: args[0], Data: data})
		if flagJSON {
			return printJSON(it)
		}
		offlineNote(s)
		fmt.Printf("added %s at position %d\n", it.ID, it.DisplayOrder)
		return nil
	},
}

var itemsFavoriteCmd = &cobra.Command{
	Use:   "favorite <app-id> <item-id>",
	Short: "Toggle an item's favorite flag",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSyncer()
		if err != nil {
			return err
		}
		appID, itemID := args[0], args[1]
		// Pull the app's items first so the toggle has a record to flip.
		if err := s.RefreshAppContent(cmd.Context(), appID); err != nil {
			log.Debug("toggling against local items only", "appID", appID, "error", err)
		}
		if _, ok := s.Store.Item(itemID); !ok {
			return fmt.Errorf("item %q not found in app %q", itemID, appID)
		}
		if s.ToggleFavorite(cmd.Context(), itemID) {
			fmt.Printf("%s is now a favorite\n", itemID)
		} else {
			fmt.Printf("%s is no longer a favorite\n", itemID)
		}
		return nil
	},
}

func init() {
	itemsListCmd.Flags().BoolVar(&flagFavoritesOnly, "favorites", false, "only show favorites")

	itemsCmd.AddCommand(itemsListCmd)
	itemsCmd.AddCommand(itemsAddCmd)
	itemsCmd.AddCommand(itemsFavoriteCmd)
}
