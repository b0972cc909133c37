package main

import (
	"fmt"
	"os"

	"github.com/aretw0/venuebot"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "venuebot",
	Short: "venuebot helps people find places to go in their city",
	Long: `venuebot is a chat bot that asks for a city, lets the user pick a category
and answers with venues from the catalog service.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Override the log level (debug, info, warn, error)")
}

// loadBot builds a Bot from the persistent flags.
func loadBot(cmd *cobra.Command) (*venuebot.Bot, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := venuebot.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	return venuebot.New(cfg)
}
