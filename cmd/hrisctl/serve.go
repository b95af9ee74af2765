package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-client-go/internal/config"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/fakeapi"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/logger"
	"github.com/spf13/cobra"
)

func newServeFakeCommand() *cobra.Command {
	var (
		addr     string
		origins  []string
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "serve-fake",
		Short: "Run the in-memory backend for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(os.Stderr, cfg)

			srv := fakeapi.New(fakeapi.WithLogger(log), fakeapi.WithAllowedOrigins(origins...))
			srv.AddUser(user.Profile{
				ID:            "demo-user",
				EmployeeID:    "EMP-001",
				FullName:      "Demo Employee",
				OfficialEmail: email,
				Position:      "Engineer",
				Role:          "employee",
				IsActive:      true,
			}, password)
			srv.AddNotification("demo-user", "Welcome", "Your account is ready.")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = httpServer.Shutdown(shutdownCtx)
			}()

			fmt.Fprintf(cmd.OutOrStdout(), "fake backend listening on %s (login %s)\n", addr, email)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringSliceVar(&origins, "allow-origin", []string{"http://localhost:8081"}, "browser origins allowed by CORS")
	cmd.Flags().StringVar(&email, "email", "demo@example.com", "seeded employee email")
	cmd.Flags().StringVar(&password, "password", "secret123", "seeded employee password")
	return cmd
}
