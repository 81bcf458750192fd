package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fakhrymubarak/weather-dashboard/internal/model"
)

func printState(w io.Writer, state model.DashboardState) {
	if state.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", state.Error)
	}
	if s := state.Weather; s != nil {
		fmt.Fprintln(w, s.LocationName)
		if state.Clock != nil {
			fmt.Fprintf(w, "%s %s\n", state.Clock.Date, state.Clock.Time)
		}
		fmt.Fprintf(w, "%.1f°C, %s\n", s.TemperatureC, s.ConditionDescription)
		fmt.Fprintf(w, "Humidity: %.0f%%  Wind: %.1f m/s\n", s.HumidityPct, s.WindSpeedMs)
	}
	if len(state.Forecast) > 0 {
		fmt.Fprintln(w, "Forecast:")
		for _, f := range state.Forecast {
			fmt.Fprintf(w, "  %s  %5.1f°C  %s\n",
				time.Unix(f.TimestampUnix, 0).UTC().Format("Mon, Jan 2"), f.TemperatureC, f.ConditionDescription)
		}
	}
	printFavorites(w, state.Favorites)
}

func printFavorites(w io.Writer, favs []string) {
	if len(favs) == 0 {
		fmt.Fprintln(w, "No favorites yet.")
		return
	}
	fmt.Fprintf(w, "Favorites: %s\n", strings.Join(favs, ", "))
}
