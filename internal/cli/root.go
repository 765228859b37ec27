package cli

import (
	"context"
	"fmt"

	"uav-maintenance-service/internal/config"
	"uav-maintenance-service/internal/fleet"
	"uav-maintenance-service/internal/pkg/logger"
	"uav-maintenance-service/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// openBackend connects the configured record store. Tests replace it.
var openBackend = func(ctx context.Context) (*repository.Backend, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	backend, err := repository.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}
	return backend, log, nil
}

// RootCmd returns the fleetctl command tree
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fleetctl",
		Short: "Operate the UAV maintenance record store",
		Long: `fleetctl talks to the record store configured for the API server
(STORE_DRIVER and friends, or config.yaml) and runs the same filter and
statistics code the service uses.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(MigrateCmd())
	rootCmd.AddCommand(ListCmd())
	rootCmd.AddCommand(StatsCmd())

	return rootCmd
}

// withStore opens the backend, loads the fleet and hands it to fn
func withStore(ctx context.Context, fn func(*fleet.Store) error) error {
	backend, log, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer backend.Close(ctx)

	store := fleet.NewStore(backend.Records, log)
	if err := store.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	return fn(store)
}
