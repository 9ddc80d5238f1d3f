package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/octobees/place-finder/internal/entity"
	"github.com/octobees/place-finder/internal/service"
)

var (
	queryMax     int
	queryNoCache bool
	queryLat     float64
	queryLng     float64
)

var queryCmd = &cobra.Command{
	Use:   "query <prompt>",
	Short: "Resolve a prompt and print the result as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		req := service.QueryRequest{
			Prompt:     strings.Join(args, " "),
			MaxResults: queryMax,
			UseCache:   !queryNoCache,
		}
		if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
			req.UserLocation = &entity.Coordinates{Lat: queryLat, Lng: queryLng}
		}

		result, err := a.Query.Resolve(cmd.Context(), req)
		var qe *service.QueryError
		if errors.As(err, &qe) && errors.Is(err, service.ErrNoResults) {
			fmt.Fprintln(cmd.OutOrStdout(), qe.NarrativeText)
			return err
		}
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	queryCmd.Flags().IntVarP(&queryMax, "max", "n", service.DefaultMaxResults, "Maximum number of places (1-10)")
	queryCmd.Flags().BoolVar(&queryNoCache, "no-cache", false, "Bypass the response cache")
	queryCmd.Flags().Float64Var(&queryLat, "lat", 0, "Latitude of the user")
	queryCmd.Flags().Float64Var(&queryLng, "lng", 0, "Longitude of the user")
	rootCmd.AddCommand(queryCmd)
}
