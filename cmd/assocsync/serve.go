package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnwards/assocsync/internal/api"
	"github.com/johnwards/assocsync/internal/api/associations"
	"github.com/johnwards/assocsync/internal/api/definitions"
	"github.com/johnwards/assocsync/internal/api/mappings"
	"github.com/johnwards/assocsync/internal/config"
	"github.com/johnwards/assocsync/internal/coordinator"
	"github.com/johnwards/assocsync/internal/database"
	"github.com/johnwards/assocsync/internal/hubspot"
	"github.com/johnwards/assocsync/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), cfg)
	},
}

// newHandler wires the store, CRM client and coordinators behind the HTTP
// routes and middleware. onCritical is called once when the store becomes
// unusable.
func newHandler(c config.Config, db *sql.DB, onCritical func(error)) http.Handler {
	client := hubspot.New(hubspot.Options{
		BaseURL: c.HubSpot.BaseURL,
		Timeout: c.HubSpot.Timeout,
		Tokens:  hubspot.StaticTokens(c.HubSpot.Token, c.HubSpot.TenantTokens),
	})
	svcs := coordinator.New(store.New(db), client)
	errs := api.NewErrorReporter(onCritical)

	mux := http.NewServeMux()
	definitions.RegisterRoutes(mux, svcs.Definitions, errs)
	mappings.RegisterRoutes(mux, svcs.Mappings, errs)
	associations.RegisterRoutes(mux, svcs.Associations, errs)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		api.WriteFailure(w, http.StatusNotFound, fmt.Sprintf("No route found for %s %s", r.Method, r.URL.Path))
	})

	return api.Chain(mux,
		api.Recovery(),
		api.RequestID(),
		api.Auth(c.AuthToken),
		api.Logging(),
	)
}

func serve(ctx context.Context, c config.Config) error {
	db, err := database.Open(c.DBPath, 0)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	critical := make(chan error, 1)
	onCritical := func(err error) {
		select {
		case critical <- err:
		default:
		}
	}

	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           newHandler(c, db, onCritical),
		ReadHeaderTimeout: 10 * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("starting assocsync server", "addr", c.Addr, "hubspot", c.HubSpot.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cause error
	select {
	case <-sigCtx.Done():
		slog.Info("shutting down server")
	case err := <-critical:
		slog.Error("store unavailable, shutting down", "error", err)
		cause = fmt.Errorf("store unavailable: %w", err)
	case err, ok := <-listenErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	return cause
}
