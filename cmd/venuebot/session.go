package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect and reset stored dialogue sessions",
	Long: `List, inspect and remove sessions held by the configured backend.
Only the redis backend outlives the process, so these commands are mostly useful with it.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List users with a live session",
	RunE: func(cmd *cobra.Command, args []string) error {
		bot, err := loadBot(cmd)
		if err != nil {
			return err
		}
		defer bot.Close()

		users, err := bot.Sessions.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		if len(users) == 0 {
			fmt.Println("No active sessions found.")
			return nil
		}
		fmt.Println("Active Sessions:")
		for _, u := range users {
			fmt.Println("- " + u)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <user-id>",
	Short: "Print the stored session of a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bot, err := loadBot(cmd)
		if err != nil {
			return err
		}
		defer bot.Close()

		sess, err := bot.Sessions.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load session %q: %w", args[0], err)
		}
		data, err := json.MarshalIndent(sess, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <user-id>...",
	Short: "Reset the dialogue of one or more users",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bot, err := loadBot(cmd)
		if err != nil {
			return err
		}
		defer bot.Close()

		var errs []error
		for _, id := range args {
			if err := bot.Sessions.Delete(cmd.Context(), id); err != nil {
				errs = append(errs, fmt.Errorf("failed to remove %q: %w", id, err))
				continue
			}
			fmt.Printf("Removed session '%s'\n", id)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}
