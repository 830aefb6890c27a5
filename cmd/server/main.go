package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "clientscore",
	Short:        "ClientScore review API",
	SilenceUsage: true,
	RunE:         runServe,
}

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE:  runMigrate,
	}
	recomputeCmd = &cobra.Command{
		Use:   "recompute [business-id...]",
		Short: "Recompute rating aggregates from the visible reviews",
		RunE:  runRecompute,
	}
)

var recomputeAll bool

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(recomputeCmd)
	recomputeCmd.Flags().BoolVar(&recomputeAll, "all", false, "Recompute every business")
}

func main() {
	// Load environment variables
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
