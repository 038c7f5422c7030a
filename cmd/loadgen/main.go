package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"commerce-backend/internal/tools/loadgen"
)

func main() {
	var opts loadgen.Options
	var duration time.Duration

	cmd := &cobra.Command{
		Use:           "loadgen",
		Short:         "Generate synthetic traffic against a running API instance",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Duration = duration
			return loadgen.Run(opts)
		},
	}
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "http://localhost:8080", "base URL of the API server")
	cmd.Flags().StringVar(&opts.Profile, "profile", "mixed", "traffic profile: mixed, auth, catalog, health")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 4, "number of concurrent workers")
	cmd.Flags().DurationVar(&duration, "duration", 30*time.Second, "how long to run")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
