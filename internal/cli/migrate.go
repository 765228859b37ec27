package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// MigrateCmd applies the record store schema
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the record store schema",
		Long: `Create the uavs and users tables and their indexes.

postgres and sqlite run their schema statements; mongo ensures its indexes;
memory has nothing to apply.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			backend, _, err := openBackend(ctx)
			if err != nil {
				return err
			}
			defer backend.Close(ctx)

			if err := backend.Migrate(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s schema applied (%s)\n",
				color.New(color.FgGreen).Sprint("✓"), backend.Driver)
			return nil
		},
	}
}
