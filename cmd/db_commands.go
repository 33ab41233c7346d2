package main

import (
	"fmt"

	"scan2know/config"
	"scan2know/seed"

	"github.com/apex/log"
	"github.com/spf13/cobra"
)

var skipMigrate bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.OpenDB(cfg)
		if err != nil {
			return err
		}
		defer config.CloseDB(db)

		if err := config.Migrate(db); err != nil {
			return err
		}
		log.Info("migrations applied")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the ingredient catalog and demo products with the bundled data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := seed.Default()
		if err != nil {
			return err
		}

		db, err := config.OpenDB(cfg)
		if err != nil {
			return err
		}
		defer config.CloseDB(db)

		if !skipMigrate {
			if err := config.Migrate(db); err != nil {
				return err
			}
		}

		res, err := seed.Run(cmd.Context(), db, catalog)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d ingredients and %d demo products\n", res.Ingredients, res.Products)
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not run migrations before seeding")
	rootCmd.AddCommand(migrateCmd, seedCmd)
}
