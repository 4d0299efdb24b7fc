package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"assets-manager/db"
	"assets-manager/internal/config"
	"assets-manager/internal/logger"
	"assets-manager/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back the assets database schema",
	Long:  `Reads DB_DSN and DB_DRIVER from the environment (or .env) and runs the embedded goose migrations.`,
}

func init() {
	rootCmd.AddCommand(
		migrationCmd("up", "Apply every pending migration", db.Up),
		migrationCmd("down", "Roll back the most recent migration", db.Down),
		migrationCmd("reset", "Roll back every migration and apply them again", db.Reset),
		migrationCmd("status", "Print the state of each migration", db.Status),
	)
}

func migrationCmd(use, short string, fn func(context.Context, *sql.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(ccmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if cfg.DBDSN == "" {
				return fmt.Errorf("DB_DSN is required")
			}
			logg, err := logger.New(cfg.LogLevel, cfg.Environment)
			if err != nil {
				return err
			}
			defer func() { _ = logg.Sync() }()

			ctx := ccmd.Context()
			pg, err := store.OpenPostgres(ctx, cfg.DBDriver, cfg.DBDSN, cfg.DBConnectTimeout, logg)
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := fn(ctx, pg.DB()); err != nil {
				return err
			}
			logg.Info("migration finished", zap.String("command", use))
			return nil
		},
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
