package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/venuebot"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of venuebot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("venuebot version %s\n", strings.TrimSpace(venuebot.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
