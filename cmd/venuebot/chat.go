package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"

	"github.com/aretw0/venuebot"
	"github.com/aretw0/venuebot/internal/presentation/tui"
	"github.com/aretw0/venuebot/pkg/adapters/console"
	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the bot in the terminal",
	Long: `Runs the dialogue on stdin and stdout. Buttons are numbered; type a number
to tap one. Type /quit to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bot, err := loadBot(cmd)
		if err != nil {
			return err
		}
		defer bot.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		bot.Start(ctx)

		interactive := console.IsTerminal(os.Stdin)
		if interactive {
			tui.PrintBanner(os.Stdout, strings.TrimSpace(venuebot.Version))
		}

		opts := []console.Option{console.WithInteractive(interactive)}
		if name, _ := cmd.Flags().GetString("name"); name != "" {
			opts = append(opts, console.WithUser(domain.User{ID: "console", FirstName: name}))
		}
		err = bot.Chat(os.Stdin, os.Stdout, opts...).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().String("name", "", "First name the bot greets you with")
}
