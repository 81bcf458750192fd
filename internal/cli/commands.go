package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fakhrymubarak/weather-dashboard/internal/favorites"
	"github.com/spf13/cobra"
)

// newShowCommand mounts the dashboard the way the page does on load: the
// last searched city, or the current position.
func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the weather of the last searched city or the current location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			// Mount failures are reported through the state.
			_ = a.dashboard.Mount(cmd.Context())
			printState(cmd.OutOrStdout(), a.dashboard.State())
			return nil
		},
	}
}

func newSearchCommand() *cobra.Command {
	var lat, lon float64
	cmd := &cobra.Command{
		Use:   "search [city]",
		Short: "Fetch the weather of a city, or of a position with --lat and --lon",
		RunE: func(cmd *cobra.Command, args []string) error {
			city := strings.TrimSpace(strings.Join(args, " "))
			byCoords := cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon")
			switch {
			case byCoords && city != "":
				return errors.New("give either a city or --lat/--lon, not both")
			case byCoords && !(cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon")):
				return errors.New("--lat and --lon must be given together")
			case !byCoords && city == "":
				return errors.New("a city or --lat/--lon is required")
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			a.dashboard.LoadFavorites(cmd.Context())
			if byCoords {
				err = a.dashboard.FetchByCoordinates(cmd.Context(), lat, lon)
			} else {
				err = a.dashboard.Search(cmd.Context(), city)
			}
			printState(cmd.OutOrStdout(), a.dashboard.State())
			return err
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in decimal degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in decimal degrees")
	return cmd
}

func newFavoriteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <city>",
		Short: "Add a city to the favorites, or remove it if already there",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			city := strings.TrimSpace(strings.Join(args, " "))
			a.dashboard.LoadFavorites(cmd.Context())
			list, err := a.dashboard.ToggleFavorite(cmd.Context(), city)
			if err != nil {
				return err
			}
			if favorites.Contains(list, city) {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to favorites\n", city)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from favorites\n", city)
			}
			printFavorites(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func newFavoritesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List the favorite cities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			printFavorites(cmd.OutOrStdout(), a.dashboard.LoadFavorites(cmd.Context()))
			return nil
		},
	}
}
