package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	profilePath string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tripsampler",
	Short: "Stratified sampler for taxi trip records",
	Long: `tripsampler

Buckets taxi trips by pickup date and hour, draws a bounded random
sample from every non-empty bucket and writes the concatenated sample.

Usage:
  go run ./cmd/tripsampler [command]

Examples:
  go run ./cmd/tripsampler sample --input converted.csv --output test.csv
  go run ./cmd/tripsampler sample -i yellow_tripdata_2024-01.parquet -o sample.parquet --size 3
  go run ./cmd/tripsampler inspect -i converted.csv
  go run ./cmd/tripsampler version`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "sampling profile YAML (default from SAMPLER_PROFILE, else built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
