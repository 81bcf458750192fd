package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fakhrymubarak/weather-dashboard/internal/config"
	"github.com/fakhrymubarak/weather-dashboard/internal/model"
)

// Custom error types
var (
	ErrAPIKeyMissing = errors.New("API key missing")
	ErrExternalAPI   = errors.New("external API error")
	ErrDecode        = errors.New("undecodable provider response")
	ErrInvalidQuery  = errors.New("empty location query")
)

// Query identifies a location either by city name or by coordinates.
type Query struct {
	City        string
	Coordinates *model.Coordinates
}

func ByName(city string) Query {
	return Query{City: city}
}

func ByCoordinates(lat, lon float64) Query {
	return Query{Coordinates: &model.Coordinates{Lat: lat, Lon: lon}}
}

// String is used as the log key of a query.
func (q Query) String() string {
	if q.Coordinates != nil {
		return fmt.Sprintf("%g,%g", q.Coordinates.Lat, q.Coordinates.Lon)
	}
	return q.City
}

func (q Query) values() (url.Values, error) {
	params := url.Values{}
	switch {
	case q.Coordinates != nil:
		params.Set("lat", strconv.FormatFloat(q.Coordinates.Lat, 'f', -1, 64))
		params.Set("lon", strconv.FormatFloat(q.Coordinates.Lon, 'f', -1, 64))
	case strings.TrimSpace(q.City) != "":
		params.Set("q", q.City)
	default:
		return nil, ErrInvalidQuery
	}
	return params, nil
}

// WeatherRepository defines the interface for provider data access
type WeatherRepository interface {
	GetCurrent(ctx context.Context, q Query) (*model.OpenWeatherMapResponse, error)
	GetForecast(ctx context.Context, q Query) (*model.OpenWeatherMapForecastResponse, error)
}

// weatherRepository implements WeatherRepository against the OpenWeatherMap 2.5 API
type weatherRepository struct {
	httpClient *http.Client
}

// NewWeatherRepository creates a new weather repository instance
func NewWeatherRepository(httpClient ...*http.Client) WeatherRepository {
	client := &http.Client{Timeout: config.GetOpenWeatherTimeout()}
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &weatherRepository{
		httpClient: client,
	}
}

// GetCurrent retrieves current conditions. A payload reporting a provider
// failure is decoded and returned as is; callers inspect Cod.
func (r *weatherRepository) GetCurrent(ctx context.Context, q Query) (*model.OpenWeatherMapResponse, error) {
	var data model.OpenWeatherMapResponse
	if err := r.get(ctx, "weather", q, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetForecast retrieves the 5 day / 3 hour forecast list.
func (r *weatherRepository) GetForecast(ctx context.Context, q Query) (*model.OpenWeatherMapForecastResponse, error) {
	var data model.OpenWeatherMapForecastResponse
	if err := r.get(ctx, "forecast", q, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (r *weatherRepository) get(ctx context.Context, endpoint string, q Query, out interface{}) error {
	apiKey := config.GetOpenWeatherMapAPIKey()
	if apiKey == "" {
		return ErrAPIKeyMissing
	}

	params, err := q.values()
	if err != nil {
		return err
	}
	params.Set("units", config.GetOpenWeatherUnits())
	params.Set("appid", apiKey)

	endpointURL := fmt.Sprintf("%s/%s?%s", config.GetOpenWeatherApiUrl(), endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExternalAPI, err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExternalAPI, err)
	}
	defer resp.Body.Close()

	// The provider embeds its status in the payload, so the HTTP status is
	// only logged. A body that is not JSON is a transport-level failure.
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		config.GetLogger().Warnw("Provider returned an undecodable body",
			"endpoint", endpoint, "location", q.String(), "status", resp.StatusCode, "error", err)
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}
