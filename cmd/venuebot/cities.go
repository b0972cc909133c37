package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/spf13/cobra"
)

var citiesCmd = &cobra.Command{
	Use:   "cities [query]",
	Short: "List the city directory or resolve a query against it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bot, err := loadBot(cmd)
		if err != nil {
			return err
		}
		defer bot.Close()

		if _, err := bot.Refresher.Refresh(cmd.Context()); err != nil {
			return err
		}

		var cities []domain.City
		if len(args) > 0 {
			cities = bot.Directory.Resolve(args[0])
			if len(cities) == 0 {
				return fmt.Errorf("no city matches %q", args[0])
			}
		} else {
			cities = bot.Directory.Load().Cities()
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME")
		for _, c := range cities {
			fmt.Fprintf(w, "%s\t%s\n", c.ID, c.Name)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(citiesCmd)
}
