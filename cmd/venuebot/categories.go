package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/aretw0/venuebot/pkg/domain"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories offered to users",
	Long: `Prints the configured categories. With --remote the list is fetched from the
catalog service instead, which helps when picking codes for the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bot, err := loadBot(cmd)
		if err != nil {
			return err
		}
		defer bot.Close()

		categories := bot.Categories()
		if remote, _ := cmd.Flags().GetBool("remote"); remote {
			if bot.Catalog == nil {
				return fmt.Errorf("no catalog client configured")
			}
			categories, err = bot.Catalog.Categories(cmd.Context())
			if err != nil {
				return err
			}
		}
		printCategories(categories)
		return nil
	},
}

func printCategories(categories []domain.Category) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tLABEL")
	for _, c := range categories {
		fmt.Fprintf(w, "%s\t%s\n", c.Code, c.Label)
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.Flags().Bool("remote", false, "Fetch the categories from the catalog service")
}
