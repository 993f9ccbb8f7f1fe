// Shared helpers for appdeck client commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mesh-intelligence/appdeck/internal/client"
	"github.com/mesh-intelligence/appdeck/internal/state"
	"github.com/mesh-intelligence/appdeck/internal/syncer"
)

// newSyncer wires the client command stack: local record store in the data
// directory, REST client against the configured server, and the syncer that
// reconciles the two. Commands work offline through the syncer's fallback.
func newSyncer() (*syncer.Syncer, error) {
	store, err := state.NewStore(cfg.DataDir, log)
	if err != nil {
		return nil, fmt.Errorf("open local state: %w", err)
	}
	api := client.New(cfg.Remote.BaseURL)
	return syncer.New(api, store, log), nil
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// offlineNote prints a marker when the last operation fell back to local
// state.
func offlineNote(s *syncer.Syncer) {
	if s.Store.Offline() {
		fmt.Println("(offline: showing local data)")
	}
}
