package main

import (
	"github.com/spf13/cobra"

	"github.com/octobees/place-finder/internal/entity"
	"github.com/octobees/place-finder/internal/service"
)

var detailsCmd = &cobra.Command{
	Use:   "details <place_id>",
	Short: "Print the extended record of a place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		place, err := a.Places.Details(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), place)
	},
}

var (
	nearbyLat     float64
	nearbyLng     float64
	nearbyRadius  uint
	nearbyKeyword string
)

var nearbyCmd = &cobra.Command{
	Use:   "nearby <place_type>",
	Short: "List places of a type around a coordinate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		q := service.NearbyQuery{
			PlaceType: args[0],
			Radius:    nearbyRadius,
			Keyword:   nearbyKeyword,
		}
		if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
			q.Location = &entity.Coordinates{Lat: nearbyLat, Lng: nearbyLng}
		} else {
			q.Location = &entity.Coordinates{Lat: cfg.Maps.Lat, Lng: cfg.Maps.Lng}
		}

		found, err := a.Places.Nearby(cmd.Context(), q)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{"places": found, "total": len(found)})
	},
}

func init() {
	nearbyCmd.Flags().Float64Var(&nearbyLat, "lat", 0, "Latitude (defaults to DEFAULT_LAT)")
	nearbyCmd.Flags().Float64Var(&nearbyLng, "lng", 0, "Longitude (defaults to DEFAULT_LNG)")
	nearbyCmd.Flags().UintVar(&nearbyRadius, "radius", 0, "Radius in meters (defaults to DEFAULT_RADIUS)")
	nearbyCmd.Flags().StringVar(&nearbyKeyword, "keyword", "", "Optional keyword filter")
	rootCmd.AddCommand(detailsCmd, nearbyCmd)
}
