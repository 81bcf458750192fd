// Package geolocation answers "where is the user" when no city has been searched yet.
package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fakhrymubarak/weather-dashboard/internal/config"
	"github.com/fakhrymubarak/weather-dashboard/internal/model"
)

var (
	// ErrUnsupported means no geolocation capability is configured.
	ErrUnsupported = errors.New("geolocation is not supported")
	// ErrDenied means the capability exists but could not produce a position.
	ErrDenied = errors.New("geolocation request failed")
)

// Locator returns the user's current position in a single query.
type Locator interface {
	Locate(ctx context.Context) (model.Coordinates, error)
}

// Unsupported is the locator of a host without any geolocation source.
type Unsupported struct{}

func (Unsupported) Locate(context.Context) (model.Coordinates, error) {
	return model.Coordinates{}, ErrUnsupported
}

// Static always reports the same position.
type Static struct {
	Coordinates model.Coordinates
}

func (s Static) Locate(ctx context.Context) (model.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return model.Coordinates{}, fmt.Errorf("%w: %v", ErrDenied, err)
	}
	return s.Coordinates, nil
}

// IPAPI resolves the caller's public IP address to a position using an
// ip-api.com compatible endpoint.
type IPAPI struct {
	URL        string
	HTTPClient *http.Client
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func NewIPAPI(url string, httpClient ...*http.Client) *IPAPI {
	client := &http.Client{Timeout: 5 * time.Second}
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &IPAPI{URL: url, HTTPClient: client}
}

func (l *IPAPI) Locate(ctx context.Context) (model.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("%w: %v", ErrDenied, err)
	}
	resp, err := l.HTTPClient.Do(req)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("%w: %v", ErrDenied, err)
	}
	defer resp.Body.Close()

	var data ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return model.Coordinates{}, fmt.Errorf("%w: decode: %v", ErrDenied, err)
	}
	if data.Status != "success" {
		return model.Coordinates{}, fmt.Errorf("%w: %s", ErrDenied, data.Message)
	}
	return model.Coordinates{Lat: data.Lat, Lon: data.Lon}, nil
}

// FromConfig builds the locator selected by geolocation.provider.
func FromConfig() (Locator, error) {
	switch provider := config.GetGeolocationProvider(); provider {
	case "none", "":
		return Unsupported{}, nil
	case "static":
		lat, lon := config.GetGeolocationCoordinates()
		return Static{Coordinates: model.Coordinates{Lat: lat, Lon: lon}}, nil
	case "ip":
		return NewIPAPI(config.GetGeolocationIPApiUrl()), nil
	default:
		return nil, fmt.Errorf("unknown geolocation provider %q", provider)
	}
}
