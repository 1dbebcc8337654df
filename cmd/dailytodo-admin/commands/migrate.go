package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyunwkim/dailytodo/internal/config"
	"github.com/hyunwkim/dailytodo/internal/database"
)

// NewMigrateCmd creates the migrate command, which brings the database
// schema up to date and exits.
func NewMigrateCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long:  "Creates the todos and insights tables if absent and adds any missing columns. Safe to run repeatedly.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer func() { _ = db.Close() }()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := database.EnsureSchema(ctx, db); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}

			fmt.Println("Schema is up to date.")
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file (optional)")
	return cmd
}
