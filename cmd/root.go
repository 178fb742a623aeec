// Package cmd implements the command-line interface for matchcrawl.
package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	cmdcollect "github.com/jonesrussell/matchcrawl/cmd/collect"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	rootCmd = &cobra.Command{
		Use:   "matchcrawl",
		Short: "A football match metadata harvester",
		Long: `matchcrawl harvests match metadata (kickoff, teams, standings, venue,
weather, tracking figures) from the K League and J.League websites into
CSV or SQLite datasets.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are visible to config loading.
	_ = godotenv.Load()

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("matchcrawl version %s\n", "1.0.0")
		},
	})

	rootCmd.AddCommand(cmdcollect.Command(&cfgFile, &debug))
}
