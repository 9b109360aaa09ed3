package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"sareeadmin.GO/config"
	"sareeadmin.GO/model/migrations"
)

var (
	migrateSteps int
	migrateAuto  bool
)

var migrateCmd = &cobra.Command{
	Use:       "db:migrate [up|down]",
	Short:     "Apply or roll back schema migrations (Postgres), or --auto for sqlite/mysql",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.NewDB()
		if err != nil {
			return fmt.Errorf("connect to DB: %w", err)
		}
		out := cmd.OutOrStdout()
		if migrateAuto {
			if err := migrations.AutoMigrate(db); err != nil {
				return err
			}
			fmt.Fprintf(out, "Schema synced from entities (%s).\n", db.Dialector.Name())
			return nil
		}

		direction := "up"
		if len(args) == 1 {
			direction = args[0]
		}
		var v uint
		if direction == "down" {
			v, err = migrations.Down(db, migrateSteps)
		} else {
			v, err = migrations.Up(db)
		}
		if err != nil {
			return fmt.Errorf("migrate %s: %w", direction, err)
		}
		fmt.Fprintf(out, "Schema at version %d.\n", v)
		return nil
	},
}

func init() {
	migrateCmd.Flags().IntVar(&migrateSteps, "steps", 1, "Migrations to roll back with down")
	migrateCmd.Flags().BoolVar(&migrateAuto, "auto", false, "Create tables from the entities with GORM AutoMigrate")
	rootCmd.AddCommand(migrateCmd)
}
