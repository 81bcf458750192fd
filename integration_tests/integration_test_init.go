package integrationtest

import (
	"context"
	"net/http/httptest"

	"github.com/alicebob/miniredis/v2"
	"github.com/fakhrymubarak/weather-dashboard/internal/config"
	"github.com/fakhrymubarak/weather-dashboard/internal/dashboard"
	"github.com/fakhrymubarak/weather-dashboard/internal/geolocation"
	"github.com/fakhrymubarak/weather-dashboard/internal/handler"
	"github.com/fakhrymubarak/weather-dashboard/internal/middleware"
	"github.com/fakhrymubarak/weather-dashboard/internal/repository"
	"github.com/fakhrymubarak/weather-dashboard/internal/service"
	"github.com/fakhrymubarak/weather-dashboard/internal/storage"
)

const testAPIKey = "test_api_key"

var (
	miniRedisMock *miniredis.Miniredis
)

func createMockRedisServer() {
	miniRedisMock = miniredis.NewMiniRedis()
	err := miniRedisMock.StartAddr(config.GetTestRedisMockPort())
	if err != nil {
		panic(err)
	}
}

func mockOWMApi() *httptest.Server {
	return repository.NewMockProviderServer(testAPIKey,
		map[string]int{"London": 0, "Paris": 3600, "Tokyo": 32400},
		map[string]string{"48.8566,2.3522": "Paris"})
}

// testServer is one dashboard process: a store from the configured driver,
// a dashboard over it and the HTTP stack in front.
type testServer struct {
	*httptest.Server
	Store     storage.Store
	Dashboard *dashboard.Dashboard
}

func startTestServer(ctx context.Context, locator geolocation.Locator) (*testServer, error) {
	store, err := storage.Open(ctx)
	if err != nil {
		return nil, err
	}
	d := dashboard.New(service.NewWeatherService(), storage.NewPreferences(store), locator)
	routes := handler.NewDashboardHandler(d).Routes()
	srv := httptest.NewServer(middleware.RequestLogger(config.GetLogger())(routes))
	return &testServer{Server: srv, Store: store, Dashboard: d}, nil
}

func (s *testServer) Close() {
	s.Server.Close()
	_ = s.Dashboard.Close()
	_ = s.Store.Close()
}
