package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"commerce-backend/internal/app"
	"commerce-backend/internal/config"
	"commerce-backend/internal/observability"
	"commerce-backend/internal/seed"
	"commerce-backend/internal/tools/common"
)

func main() {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Commerce backend API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var envFile string
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to an env file loaded before configuration")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return common.LoadEnvFile(envFile)
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.InitializeApp(cmd.Context())
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Populate the database with baseline categories and users",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := observability.NewLogger(cfg)
			db, err := app.ProvideDatabase(cfg, logger)
			if err != nil {
				return err
			}
			return seed.Run(db, logger)
		},
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
