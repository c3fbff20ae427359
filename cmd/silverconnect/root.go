package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/aretw0/silverconnect/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "silverconnect",
	Short: "SilverConnect is a social platform for seniors",
	Long: `SilverConnect lets seniors join communities, book activities, make friends and chat.
Without a subcommand it runs the demonstration.`,
	SilenceUsage: true,
	RunE:         runDemo,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().String("lang", "", "Message language (en or id), overrides the config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every state transition and write state spans to stderr")
}
