// Package dashboard owns the state of the weather dashboard: the displayed
// snapshot and forecast, the favorites list, the error and loading flags and
// the local clock. Every mutation goes through a Dashboard method.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fakhrymubarak/weather-dashboard/internal/clock"
	"github.com/fakhrymubarak/weather-dashboard/internal/config"
	"github.com/fakhrymubarak/weather-dashboard/internal/favorites"
	"github.com/fakhrymubarak/weather-dashboard/internal/geolocation"
	"github.com/fakhrymubarak/weather-dashboard/internal/model"
	"github.com/fakhrymubarak/weather-dashboard/internal/repository"
	"github.com/fakhrymubarak/weather-dashboard/internal/service"
	"github.com/fakhrymubarak/weather-dashboard/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Messages shown to the user.
const (
	MsgCityNotFound           = "City not found"
	MsgLocationNotFound       = "Location not found"
	MsgFetchFailed            = "Failed to fetch data"
	MsgLocationFailed         = "Failed to get location"
	MsgGeolocationUnsupported = "Geolocation is not supported by this browser"
)

var (
	// ErrSuperseded is returned by a fetch whose result was dropped because a
	// newer fetch was issued while it was in flight.
	ErrSuperseded = errors.New("fetch superseded by a newer request")
	ErrEmptyCity  = errors.New("city name is empty")
	ErrClosed     = errors.New("dashboard is closed")
)

type Option func(*Dashboard)

// WithClockOptions is passed to every clock driver the dashboard starts.
func WithClockOptions(opts ...clock.Option) Option {
	return func(d *Dashboard) { d.clockOpts = append(d.clockOpts, opts...) }
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(d *Dashboard) { d.logger = logger }
}

type Dashboard struct {
	weather   service.WeatherServiceInterface
	prefs     *storage.Preferences
	locator   geolocation.Locator
	clockOpts []clock.Option
	logger    *zap.SugaredLogger

	mountOnce sync.Once
	mountErr  error

	// lastCityMu orders LastCity writes, favMu orders favorites writes.
	lastCityMu sync.Mutex
	favMu      sync.Mutex

	mu        sync.Mutex
	seq       uint64
	snapshot  *model.WeatherSnapshot
	forecast  []model.ForecastEntry
	favorites []string
	errMsg    string
	loading   bool
	clock     *clock.Driver
	closed    bool
}

func New(weather service.WeatherServiceInterface, prefs *storage.Preferences, locator geolocation.Locator, opts ...Option) *Dashboard {
	if locator == nil {
		locator = geolocation.Unsupported{}
	}
	d := &Dashboard{
		weather:   weather,
		prefs:     prefs,
		locator:   locator,
		logger:    config.GetLogger(),
		forecast:  []model.ForecastEntry{},
		favorites: []string{},
	}
	for _, opt := range opts {
		opt(d)
	}
	d.clockOpts = append([]clock.Option{clock.WithInterval(config.GetClockInterval())}, d.clockOpts...)
	return d
}

// Mount loads the stored preferences and shows the last searched city, or
// the current position when none was stored. Only the first call does any
// work; later calls return its result.
func (d *Dashboard) Mount(ctx context.Context) error {
	d.mountOnce.Do(func() {
		d.mountErr = d.mount(ctx)
	})
	return d.mountErr
}

func (d *Dashboard) mount(ctx context.Context) error {
	d.LoadFavorites(ctx)

	lastCity, err := d.prefs.LastCity(ctx)
	if err != nil {
		d.logger.Warnw("Could not load last city", "error", err)
		lastCity = ""
	}
	if lastCity != "" {
		return d.FetchByName(ctx, lastCity)
	}

	d.mu.Lock()
	seq := d.seq
	d.mu.Unlock()

	coords, err := d.locator.Locate(ctx)
	if err != nil {
		msg := MsgLocationFailed
		if errors.Is(err, geolocation.ErrUnsupported) {
			msg = MsgGeolocationUnsupported
		}
		d.logger.Infow("Geolocation unavailable", "error", err)
		d.mu.Lock()
		// A search issued while locating owns the error field now.
		if d.seq == seq {
			d.errMsg = msg
		}
		d.mu.Unlock()
		return err
	}
	return d.FetchByCoordinates(ctx, coords.Lat, coords.Lon)
}

// LoadFavorites replaces the in-memory favorites with the stored list. An
// unreadable list loads as empty.
func (d *Dashboard) LoadFavorites(ctx context.Context) []string {
	favs, err := d.prefs.Favorites(ctx)
	if err != nil {
		d.logger.Warnw("Could not load favorites, starting with an empty list", "error", err)
	}
	d.favMu.Lock()
	defer d.favMu.Unlock()
	d.mu.Lock()
	d.favorites = favs
	d.mu.Unlock()
	return append([]string{}, favs...)
}

// Search fetches the typed city. Blank input is ignored.
func (d *Dashboard) Search(ctx context.Context, input string) error {
	city := strings.TrimSpace(input)
	if city == "" {
		return nil
	}
	return d.FetchByName(ctx, city)
}

// FetchByName shows the weather of a city and remembers it as the last city.
func (d *Dashboard) FetchByName(ctx context.Context, name string) error {
	return d.fetch(ctx, repository.ByName(name), MsgCityNotFound, name)
}

// FetchByCoordinates shows the weather at a position. The last city is left as is.
func (d *Dashboard) FetchByCoordinates(ctx context.Context, lat, lon float64) error {
	return d.fetch(ctx, repository.ByCoordinates(lat, lon), MsgLocationNotFound, "")
}

// fetch runs one fetch cycle. Only the most recently issued cycle may touch
// the state once its network calls return.
func (d *Dashboard) fetch(ctx context.Context, q repository.Query, notFoundMsg, lastCity string) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.seq++
	seq := d.seq
	d.loading = true
	d.errMsg = ""
	d.mu.Unlock()

	logger := d.logger.With("request_id", uuid.NewString(), "seq", seq, "location", q.String())
	logger.Infow("Fetching weather")

	result, err := d.weather.Fetch(ctx, q)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	if seq != d.seq {
		d.mu.Unlock()
		logger.Infow("Dropping superseded fetch result", "error", err)
		return ErrSuperseded
	}
	d.loading = false
	switch {
	case errors.Is(err, service.ErrNotFound):
		d.errMsg = notFoundMsg
		d.snapshot = nil
		d.forecast = []model.ForecastEntry{}
		d.stopClockLocked()
	case err != nil:
		// The previous snapshot, forecast and clock stay on screen.
		d.errMsg = MsgFetchFailed
	default:
		snapshot := result.Snapshot
		d.snapshot = &snapshot
		d.forecast = result.Forecast
		d.stopClockLocked()
		d.clock = clock.Start(snapshot.TimezoneOffsetSeconds, d.clockOpts...)
	}
	d.mu.Unlock()

	if err != nil {
		logger.Warnw("Fetch failed", "error", err)
		return err
	}
	logger.Infow("Fetched weather", "name", result.Snapshot.LocationName, "forecast_entries", len(result.Forecast))

	if lastCity != "" {
		d.persistLastCity(ctx, seq, lastCity)
	}
	return nil
}

func (d *Dashboard) persistLastCity(ctx context.Context, seq uint64, city string) {
	d.lastCityMu.Lock()
	defer d.lastCityMu.Unlock()

	d.mu.Lock()
	current := d.seq == seq
	d.mu.Unlock()
	if !current {
		return
	}
	if err := d.prefs.SetLastCity(ctx, city); err != nil {
		d.logger.Errorw("Could not persist last city", "city", city, "error", err)
	}
}

// stopClockLocked releases the running clock driver. d.mu must be held.
func (d *Dashboard) stopClockLocked() {
	if d.clock != nil {
		d.clock.Stop()
		d.clock = nil
	}
}

// ToggleFavorite adds the city to the favorites or removes it, then stores
// the whole list. The returned list is the state after the toggle even when
// storing it failed.
func (d *Dashboard) ToggleFavorite(ctx context.Context, city string) ([]string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrEmptyCity
	}

	d.favMu.Lock()
	defer d.favMu.Unlock()

	d.mu.Lock()
	d.favorites = favorites.Toggle(d.favorites, city)
	list := append([]string(nil), d.favorites...)
	d.mu.Unlock()

	if err := d.prefs.SetFavorites(ctx, list); err != nil {
		d.logger.Errorw("Could not persist favorites", "city", city, "error", err)
		return list, fmt.Errorf("persist favorites: %w", err)
	}
	return list, nil
}

func (d *Dashboard) IsFavorite(city string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return favorites.Contains(d.favorites, city)
}

// State returns a copy of the current state.
func (d *Dashboard) State() model.DashboardState {
	d.mu.Lock()
	defer d.mu.Unlock()

	state := model.DashboardState{
		Forecast:  append([]model.ForecastEntry{}, d.forecast...),
		Favorites: append([]string{}, d.favorites...),
		Error:     d.errMsg,
		Loading:   d.loading,
	}
	if d.snapshot != nil {
		snapshot := *d.snapshot
		state.Weather = &snapshot
	}
	if d.clock != nil {
		reading := d.clock.Reading()
		state.Clock = &reading
	}
	return state
}

// Close stops the clock. Fetches still in flight are discarded when they return.
func (d *Dashboard) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.stopClockLocked()
	return nil
}
