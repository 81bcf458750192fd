// Package cli exposes the dashboard as the weather-dashboard command.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "weather-dashboard",
		Short:         "Current weather, a five day forecast and favorite cities",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCommand(),
		newShowCommand(),
		newSearchCommand(),
		newFavoriteCommand(),
		newFavoritesCommand(),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
