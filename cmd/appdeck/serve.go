// Serve command: runs the appdeck API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/appdeck/internal/httpapi"
	"github.com/mesh-intelligence/appdeck/internal/sheets"
	"github.com/mesh-intelligence/appdeck/internal/sqlite"
	"github.com/mesh-intelligence/appdeck/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the appdeck API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newStore()
		if err != nil {
			return err
		}
		if err := store.Attach(cfg.StoreConfig()); err != nil {
			return fmt.Errorf("attach %s backend: %w", cfg.Backend, err)
		}
		defer store.Detach()

		api := httpapi.New(store, log, httpapi.Options{
			AllowedOrigins: cfg.Server.CORSOrigins,
		})
		srv := &http.Server{
			Addr:    cfg.Server.Address,
			Handler: api.Handler(),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Info("server listening", "address", cfg.Server.Address, "backend", cfg.Backend)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// newStore selects the backend once at startup. There is no runtime
// switching; changing backends means restarting the server.
func newStore() (types.Store, error) {
	switch cfg.Backend {
	case types.BackendSQLite:
		return sqlite.NewBackend(log), nil
	case types.BackendSheets:
		return sheets.NewBackend(log), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
