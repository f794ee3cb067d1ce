package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/quran-reader-api/internal/config"
	"github.com/quran-reader-api/internal/logging"
	"github.com/quran-reader-api/pkg/client"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	sessionID string
	envPath   string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "quranctl",
	Short: "Operator tool for the Quran Reader API",
	Long: `quranctl queries a running Quran Reader API and maintains its
meaning search index.`,
	SilenceUsage: true,
	// Run before any subcommand
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(envPath); err != nil && verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: error loading %s: %v\n", envPath, err)
		}
		cfg := config.GetConfig()
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logging.Init(level, cfg.LogFormat)
	},
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", client.DefaultBaseURL, "API base URL including the prefix")
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", "", "Session id sent as X-Session-ID")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", ".env", "Path to .env file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(meaningCmd)
	rootCmd.AddCommand(indexMeaningsCmd)
	return rootCmd
}

func apiClient() *client.Client {
	c := client.NewClient(serverURL)
	if sessionID != "" {
		c = c.WithSession(sessionID)
	}
	return c
}
