package main

import (
	"context"
	"os"

	"scan2know/config"

	"github.com/apex/log"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "scan2know",
	Short: "Food label scanning and ingredient risk service",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		config.SetupLogging(cfg)
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
