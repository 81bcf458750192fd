package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/fakhrymubarak/weather-dashboard/internal/dashboard"
	"github.com/fakhrymubarak/weather-dashboard/internal/model"
	"github.com/fakhrymubarak/weather-dashboard/internal/repository"
	"github.com/fakhrymubarak/weather-dashboard/internal/service"
	"github.com/fakhrymubarak/weather-dashboard/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock service for testing
type mockWeatherService struct {
	results map[string]*service.Result
	errs    map[string]error
}

func (m *mockWeatherService) Fetch(ctx context.Context, q repository.Query) (*service.Result, error) {
	key := q.String()
	if err, ok := m.errs[key]; ok {
		return nil, err
	}
	if r, ok := m.results[key]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w: %s", service.ErrNotFound, key)
}

// Ensure mockWeatherService implements WeatherServiceInterface
var _ service.WeatherServiceInterface = (*mockWeatherService)(nil)

func paris() *service.Result {
	return &service.Result{
		Snapshot: model.WeatherSnapshot{
			LocationName:          "Paris",
			TemperatureC:          18.4,
			HumidityPct:           61,
			WindSpeedMs:           3.6,
			ConditionIcon:         "01d",
			ConditionDescription:  "clear sky",
			TimezoneOffsetSeconds: 7200,
		},
		Forecast: []model.ForecastEntry{
			{TimestampUnix: 1700000000, TemperatureC: 11.2, ConditionIcon: "02d", ConditionDescription: "few clouds"},
		},
	}
}

func newTestHandler(t *testing.T) (*DashboardHandler, *dashboard.Dashboard) {
	t.Helper()
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	weather := &mockWeatherService{
		results: map[string]*service.Result{"Paris": paris(), "48.8566,2.3522": paris()},
		errs:    map[string]error{"Atlantis": fmt.Errorf("%w: timeout", service.ErrFetchFailed)},
	}
	d := dashboard.New(weather, storage.NewPreferences(store), nil)
	t.Cleanup(func() { _ = d.Close() })
	return NewDashboardHandler(d), d
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Error   *string         `json:"error"`
	Message string          `json:"message"`
}

func do(t *testing.T, h http.Handler, method, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var env envelope
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	}
	return rr, env
}

func TestHandleSearch(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantError  string
		wantCity   string
	}{
		{name: "Success by city", target: "/api/search?city=Paris", wantStatus: http.StatusOK, wantCity: "Paris"},
		{name: "Success by coordinates", target: "/api/search?lat=48.8566&lon=2.3522", wantStatus: http.StatusOK, wantCity: "Paris"},
		{name: "City not found", target: "/api/search?city=Nowhereville", wantStatus: http.StatusNotFound, wantError: dashboard.MsgCityNotFound},
		{name: "Location not found", target: "/api/search?lat=1&lon=2", wantStatus: http.StatusNotFound, wantError: dashboard.MsgLocationNotFound},
		{name: "Network failure", target: "/api/search?city=Atlantis", wantStatus: http.StatusBadGateway, wantError: dashboard.MsgFetchFailed},
		{name: "Missing parameters", target: "/api/search", wantStatus: http.StatusBadRequest, wantError: "Missing 'city' or 'lat'/'lon' query parameter"},
		{name: "Blank city", target: "/api/search?city=%20%20", wantStatus: http.StatusBadRequest, wantError: "Missing 'city' or 'lat'/'lon' query parameter"},
		{name: "Invalid latitude", target: "/api/search?lat=abc&lon=2", wantStatus: http.StatusBadRequest, wantError: "Invalid 'lat' or 'lon' query parameter"},
		{name: "Latitude out of range", target: "/api/search?lat=91&lon=2", wantStatus: http.StatusBadRequest, wantError: "Invalid 'lat' or 'lon' query parameter"},
		{name: "Missing longitude", target: "/api/search?lat=10", wantStatus: http.StatusBadRequest, wantError: "Invalid 'lat' or 'lon' query parameter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t)
			rr, env := do(t, h.Routes(), http.MethodPost, tt.target)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantError != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantError, *env.Error)
				assert.Equal(t, "Error", env.Message)
				return
			}
			assert.Nil(t, env.Error)
			assert.Equal(t, "Success", env.Message)

			var state model.DashboardState
			require.NoError(t, json.Unmarshal(env.Data, &state))
			require.NotNil(t, state.Weather)
			assert.Equal(t, tt.wantCity, state.Weather.LocationName)
			assert.Len(t, state.Forecast, 1)
			assert.NotNil(t, state.Clock)
		})
	}
}

func TestHandleSearch_ClosedDashboard(t *testing.T) {
	h, d := newTestHandler(t)
	require.NoError(t, d.Close())

	rr, env := do(t, h.Routes(), http.MethodPost, "/api/search?city=Paris")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	require.NotNil(t, env.Error)
}

func TestHandleState(t *testing.T) {
	h, d := newTestHandler(t)
	require.NoError(t, d.Search(context.Background(), "Paris"))

	rr, env := do(t, h.Routes(), http.MethodGet, "/api/dashboard")
	assert.Equal(t, http.StatusOK, rr.Code)

	var state model.DashboardState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	require.NotNil(t, state.Weather)
	assert.Equal(t, "Paris", state.Weather.LocationName)
	assert.Empty(t, state.Error)
	assert.False(t, state.Loading)
}

func TestHandleToggleFavorite(t *testing.T) {
	h, d := newTestHandler(t)
	mux := h.Routes()

	rr, env := do(t, mux, http.MethodPost, "/api/favorites?city=Paris")
	assert.Equal(t, http.StatusOK, rr.Code)
	var list []string
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, []string{"Paris"}, list)
	assert.True(t, d.IsFavorite("Paris"))

	rr, env = do(t, mux, http.MethodPost, "/api/favorites?city=Paris")
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list)

	rr, env = do(t, mux, http.MethodPost, "/api/favorites")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Missing 'city' query parameter", *env.Error)
}

func TestMethodNotAllowed(t *testing.T) {
	tests := []struct {
		method    string
		target    string
		wantAllow string
	}{
		{http.MethodPost, "/", http.MethodGet},
		{http.MethodPost, "/api/dashboard", http.MethodGet},
		{http.MethodGet, "/api/search?city=Paris", http.MethodPost},
		{http.MethodDelete, "/api/favorites?city=Paris", http.MethodPost},
		{http.MethodGet, "/search", http.MethodPost},
		{http.MethodGet, "/favorites/toggle", http.MethodPost},
	}

	h, _ := newTestHandler(t)
	mux := h.Routes()
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rr, env := do(t, mux, tt.method, tt.target)
			assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
			assert.Equal(t, tt.wantAllow, rr.Header().Get("Allow"))
			require.NotNil(t, env.Error)
			assert.Equal(t, "Method not allowed", *env.Error)
		})
	}
}

func TestHandleIndex(t *testing.T) {
	h, d := newTestHandler(t)
	mux := h.Routes()

	rr, _ := do(t, mux, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No favorites yet.")
	assert.NotContains(t, rr.Body.String(), "clear sky")

	require.NoError(t, d.Search(context.Background(), "Paris"))
	_, err := d.ToggleFavorite(context.Background(), "Paris")
	require.NoError(t, err)

	rr, _ = do(t, mux, http.MethodGet, "/")
	body := rr.Body.String()
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, body, "Paris")
	assert.Contains(t, body, "18.4&deg;C, clear sky")
	assert.Contains(t, body, "http://openweathermap.org/img/wn/01d@2x.png")
	assert.Contains(t, body, "http://openweathermap.org/img/wn/02d@2x.png")
	assert.Contains(t, body, "Tue, Nov 14")
	assert.Contains(t, body, "&#9733;")
	assert.Contains(t, body, d.State().Clock.Date)
}

func TestHandleIndex_ShowsError(t *testing.T) {
	h, d := newTestHandler(t)
	_ = d.Search(context.Background(), "Nowhereville")

	rr, _ := do(t, h.Routes(), http.MethodGet, "/")
	assert.Contains(t, rr.Body.String(), dashboard.MsgCityNotFound)
}

func TestHandleIndex_UnknownPath(t *testing.T) {
	h, _ := newTestHandler(t)
	rr, _ := do(t, h.Routes(), http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFormHandlers_Redirect(t *testing.T) {
	h, d := newTestHandler(t)
	mux := h.Routes()

	post := func(target, city string) *httptest.ResponseRecorder {
		form := url.Values{"city": {city}}
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		return rr
	}

	rr := post("/search", "  Paris ")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	require.NotNil(t, d.State().Weather)
	assert.Equal(t, "Paris", d.State().Weather.LocationName)

	rr = post("/favorites/toggle", "Paris")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.True(t, d.IsFavorite("Paris"))

	rr = post("/search", "Nowhereville")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, dashboard.MsgCityNotFound, d.State().Error)
}
