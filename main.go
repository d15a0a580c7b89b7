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

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"tasktracker/config"
	"tasktracker/database"
	"tasktracker/utilities"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		utilities.LogError(err, "tasktracker")
		os.Exit(1)
	}
}

type serveOptions struct {
	Addr string
}

func newRootCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:           "tasktracker",
		Short:         "TaskTracker API server",
		Long:          "A task management HTTP API backed by a relational database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		utilities.InitLogger()
	}
	cmd.Flags().StringVar(&opts.Addr, "addr", ":8000", "listen address")

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newMigrateCommand())

	return cmd
}

func newServeCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Create the schema if needed and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.Addr, "addr", ":8000", "listen address")

	return cmd
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema if needed and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore(db)

			utilities.LogInfo("Database tables created successfully")
			return nil
		},
	}
}

// openStore loads the configuration, connects and creates the schema.
func openStore() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		utilities.LogError(err, "Error loading configuration")
		return nil, fmt.Errorf("load config: %w", err)
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		utilities.LogError(err, "Error connecting to the database")
		return nil, err
	}

	if err := database.CreateTables(db); err != nil {
		utilities.LogError(err, "Error creating database tables")
		database.Close(db)
		return nil, err
	}
	return db, nil
}

func closeStore(db *gorm.DB) {
	if err := database.Close(db); err != nil {
		utilities.LogError(err, "Error closing database")
	}
}

func runServe(ctx context.Context, opts *serveOptions) error {
	utilities.LogInfo("TaskTracker API starting up...")

	db, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(db)
	utilities.LogInfo("Database tables created successfully")

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           NewRouter(database.NewTaskRepository(db), database.NewPinger(db)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		utilities.LogInfo("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			utilities.LogError(err, "Server error")
			return err
		}
	case <-ctx.Done():
	}

	utilities.LogInfo("TaskTracker API shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utilities.LogError(err, "Shutdown error")
		return err
	}
	return nil
}
