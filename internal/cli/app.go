package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/fakhrymubarak/weather-dashboard/internal/config"
	"github.com/fakhrymubarak/weather-dashboard/internal/dashboard"
	"github.com/fakhrymubarak/weather-dashboard/internal/geolocation"
	"github.com/fakhrymubarak/weather-dashboard/internal/repository"
	"github.com/fakhrymubarak/weather-dashboard/internal/service"
	"github.com/fakhrymubarak/weather-dashboard/internal/storage"
)

// app holds the wired dependencies of one command run.
type app struct {
	store     storage.Store
	dashboard *dashboard.Dashboard
}

func newApp(ctx context.Context) (*app, error) {
	locator, err := geolocation.FromConfig()
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", config.GetStorageDriver(), err)
	}

	repo := repository.NewWeatherRepository(&http.Client{Timeout: config.GetOpenWeatherTimeout()})
	d := dashboard.New(
		service.NewWeatherService(repo),
		storage.NewPreferences(store),
		locator,
		dashboard.WithLogger(config.GetLogger()),
	)
	return &app{store: store, dashboard: d}, nil
}

func (a *app) Close() error {
	return errors.Join(a.dashboard.Close(), a.store.Close())
}
