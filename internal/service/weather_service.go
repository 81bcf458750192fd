package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fakhrymubarak/weather-dashboard/internal/config"
	"github.com/fakhrymubarak/weather-dashboard/internal/model"
	"github.com/fakhrymubarak/weather-dashboard/internal/repository"
)

var (
	// ErrNotFound means the provider answered but rejected the location.
	ErrNotFound = errors.New("location not found")
	// ErrFetchFailed covers every transport, decoding and forecast failure.
	ErrFetchFailed = errors.New("failed to fetch weather data")
)

// ForecastStride is the number of 3-hour provider steps per day.
const ForecastStride = 8

// forecastCadence is the step the provider is expected to use between list items.
const forecastCadence = 3 * time.Hour

// Result holds the snapshot and forecast of a single fetch cycle.
type Result struct {
	Snapshot model.WeatherSnapshot
	Forecast []model.ForecastEntry
}

type WeatherServiceInterface interface {
	Fetch(ctx context.Context, q repository.Query) (*Result, error)
}

type WeatherService struct {
	WeatherRepo repository.WeatherRepository
}

func NewWeatherService(repo ...repository.WeatherRepository) *WeatherService {
	var weatherRepo repository.WeatherRepository
	if len(repo) > 0 && repo[0] != nil {
		weatherRepo = repo[0]
	} else {
		weatherRepo = repository.NewWeatherRepository()
	}
	return &WeatherService{WeatherRepo: weatherRepo}
}

// Fetch requests current conditions and, when the provider accepts the
// location, the forecast for the same query.
func (s *WeatherService) Fetch(ctx context.Context, q repository.Query) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := config.GetLogger()

	current, err := s.WeatherRepo.GetCurrent(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: current conditions for %s: %v", ErrFetchFailed, q, err)
	}
	if !current.Cod.OK() {
		logger.Infow("Provider rejected location", "location", q.String(), "cod", int(current.Cod), "message", current.Message)
		return nil, fmt.Errorf("%w: %s (cod %d)", ErrNotFound, q, current.Cod)
	}

	forecast, err := s.WeatherRepo.GetForecast(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: forecast for %s: %v", ErrFetchFailed, q, err)
	}
	if !forecast.Cod.OK() || forecast.List == nil {
		return nil, fmt.Errorf("%w: forecast for %s returned cod %d", ErrFetchFailed, q, forecast.Cod)
	}
	if !hasExpectedCadence(forecast.List) {
		logger.Warnw("Forecast list is not at 3-hour cadence, daily sampling may be skewed",
			"location", q.String(), "items", len(forecast.List))
	}

	return &Result{
		Snapshot: toSnapshot(current),
		Forecast: SampleDaily(forecast.List),
	}, nil
}

func toSnapshot(data *model.OpenWeatherMapResponse) model.WeatherSnapshot {
	snapshot := model.WeatherSnapshot{
		LocationName:          data.Name,
		TemperatureC:          data.Main.Temp,
		HumidityPct:           float64(data.Main.Humidity),
		WindSpeedMs:           data.Wind.Speed,
		TimezoneOffsetSeconds: data.Timezone,
	}
	if len(data.Weather) > 0 {
		snapshot.ConditionIcon = data.Weather[0].Icon
		snapshot.ConditionDescription = data.Weather[0].Description
	}
	return snapshot
}

// SampleDaily keeps items 0, 8, 16, ... of a 3-hour forecast list, in order.
// It assumes the provider's cadence; it does not regroup by calendar day.
func SampleDaily(list []model.OpenWeatherMapForecastItem) []model.ForecastEntry {
	entries := make([]model.ForecastEntry, 0, (len(list)+ForecastStride-1)/ForecastStride)
	for i := 0; i < len(list); i += ForecastStride {
		item := list[i]
		entry := model.ForecastEntry{
			TimestampUnix: item.Dt,
			TemperatureC:  item.Main.Temp,
		}
		if len(item.Weather) > 0 {
			entry.ConditionIcon = item.Weather[0].Icon
			entry.ConditionDescription = item.Weather[0].Description
		}
		entries = append(entries, entry)
	}
	return entries
}

func hasExpectedCadence(list []model.OpenWeatherMapForecastItem) bool {
	if len(list) < 2 {
		return true
	}
	return time.Duration(list[1].Dt-list[0].Dt)*time.Second == forecastCadence
}
