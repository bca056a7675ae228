package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/johnwards/assocsync/internal/crmfake"
)

var (
	fakeAddr  string
	fakeToken string
)

var fakecrmCmd = &cobra.Command{
	Use:   "fakecrm",
	Short: "Run an in-memory CRM associations API for local development",
	Long: `fakecrm serves the HubSpot v4 association endpoints assocsync uses from
memory. Point hubspot.base_url at it to run the service without a portal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := &http.Server{
			Addr:    fakeAddr,
			Handler: crmfake.New(fakeToken).Handler(),
		}
		go func() {
			<-ctx.Done()
			slog.Info("shutting down fake crm")
			if err := srv.Shutdown(context.Background()); err != nil {
				slog.Error("fake crm shutdown error", "error", err)
			}
		}()

		slog.Info("starting fake crm", "addr", fakeAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	},
}

func init() {
	fakecrmCmd.Flags().StringVar(&fakeAddr, "addr", ":8081", "listen address")
	fakecrmCmd.Flags().StringVar(&fakeToken, "token", "", "bearer token to require (default: none)")
}
