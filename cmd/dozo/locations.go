package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/app"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/render"
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List the locations with a food catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		catalogs, err := app.LoadCatalogs(cfg)
		if err != nil {
			return err
		}
		for _, loc := range catalogs.Locations() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", loc, render.CityLabel(loc))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(locationsCmd)
}
