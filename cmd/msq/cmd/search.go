package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	var (
		page int
		lat  float64
		lon  float64
	)

	searchCommand := &cobra.Command{
		Use:   "search <query>",
		Short: "Search marketplace listings",
		Long: "Runs one page of a marketplace search through the API server and\n" +
			"prints the rendered results. Pages must be requested in order;\n" +
			"--page 1 starts a fresh search.",
		Example: `  msq search "thinkpad x260"
  msq search "thinkpad x260" --page 2
  msq search "bike" --lat 40.4168 --lon -3.7038`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var latPtr, lonPtr *float64
			if cmd.Flags().Changed("lat") {
				latPtr = &lat
			}
			if cmd.Flags().Changed("lon") {
				lonPtr = &lon
			}

			c := newClient()
			content, err := c.Search(context.Background(), args[0], page, latPtr, lonPtr)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(map[string]string{"content": content})
			}
			fmt.Println(content)
			return nil
		},
	}

	searchCommand.Flags().IntVar(&page, "page", 1, "result page, starting at 1")
	searchCommand.Flags().Float64Var(&lat, "lat", 0, "search center latitude")
	searchCommand.Flags().Float64Var(&lon, "lon", 0, "search center longitude")

	return searchCommand
}

func linksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "links <item-id> [item-id...]",
		Short: "Resolve item IDs to marketplace URLs",
		Example: `  msq links 9f3c2a
  msq links 9f3c2a b81d04 --output json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			content, err := c.ItemLinks(context.Background(), args)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(map[string]string{"content": content})
			}
			fmt.Println(content)
			return nil
		},
	}
}
