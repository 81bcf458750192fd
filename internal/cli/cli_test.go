package cli

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/fakhrymubarak/weather-dashboard/internal/repository"
	"github.com/fakhrymubarak/weather-dashboard/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv points the commands at a mock provider and a SQLite file shared
// by every command of the test.
func setupEnv(t *testing.T) {
	t.Helper()
	srv := repository.NewMockProviderServer("test_api_key",
		map[string]int{"Paris": 3600, "Tokyo": 32400},
		map[string]string{"48.8566,2.3522": "Paris"})
	t.Cleanup(srv.Close)

	t.Setenv("OPENWEATHERMAP_API_URL", srv.URL)
	t.Setenv("OPENWEATHERMAP_API_KEY", "test_api_key")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "dashboard.db"))
	t.Setenv("GEOLOCATION_PROVIDER", "static")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestShow_UsesGeolocationWithoutLastCity(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Paris\n")
	assert.Contains(t, out, "18.4°C, clear sky")
	assert.Contains(t, out, "Humidity: 61%  Wind: 3.6 m/s")
	assert.Contains(t, out, "Forecast:")
	assert.Equal(t, 5, bytes.Count([]byte(out), []byte("broken clouds")))
	assert.Contains(t, out, "No favorites yet.")
}

func TestShow_GeolocationUnsupported(t *testing.T) {
	setupEnv(t)
	t.Setenv("GEOLOCATION_PROVIDER", "none")

	out, err := run(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Error: Geolocation is not supported by this browser")
}

func TestSearch_RemembersLastCity(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "search", "Tokyo")
	require.NoError(t, err)
	assert.Contains(t, out, "Tokyo\n")

	out, err = run(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Tokyo\n")
	assert.NotContains(t, out, "Paris")
}

func TestSearch_ByCoordinates(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "search", "--lat", "48.8566", "--lon", "2.3522")
	require.NoError(t, err)
	assert.Contains(t, out, "Paris\n")
}

func TestSearch_NotFound(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "search", "Nowhereville")
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Contains(t, out, "Error: City not found")
}

func TestSearch_InvalidArguments(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "Nothing to search", args: []string{"search"}},
		{name: "Blank city", args: []string{"search", "  "}},
		{name: "City and coordinates", args: []string{"search", "Paris", "--lat", "1", "--lon", "2"}},
		{name: "Latitude only", args: []string{"search", "--lat", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestFavorite_TogglesAndPersists(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "favorite", "Tokyo")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Tokyo to favorites")

	_, err = run(t, "favorite", "Paris")
	require.NoError(t, err)

	out, err = run(t, "favorites")
	require.NoError(t, err)
	assert.Equal(t, "Favorites: Tokyo, Paris\n", out)

	out, err = run(t, "favorite", "Tokyo")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed Tokyo from favorites")
	assert.Contains(t, out, "Favorites: Paris")
}

func TestFavorites_Empty(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "favorites")
	require.NoError(t, err)
	assert.Equal(t, "No favorites yet.\n", out)
}

func TestNewApp_UnknownDriver(t *testing.T) {
	setupEnv(t)
	t.Setenv("STORAGE_DRIVER", "etcd")

	_, err := run(t, "favorites")
	assert.ErrorContains(t, err, "unknown storage driver")
}

func TestServe_ServesUntilCancelled(t *testing.T) {
	setupEnv(t)
	a, err := newApp(context.Background())
	require.NoError(t, err)
	defer a.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, a.dashboard, ln) }()

	url := "http://" + ln.Addr().String() + "/api/dashboard"
	assert.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	// The background mount resolves the static location.
	assert.Eventually(t, func() bool {
		s := a.dashboard.State()
		return s.Weather != nil && s.Weather.LocationName == "Paris"
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
