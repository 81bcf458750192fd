package repository

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"time"
)

// RoundTripperFunc allows us to easily mock http.Client responses in tests.
type RoundTripperFunc func(*http.Request) *http.Response

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

// NewMockHTTPClient returns a client whose every request is answered by fn.
func NewMockHTTPClient(fn func(req *http.Request) *http.Response) *http.Client {
	return &http.Client{Transport: RoundTripperFunc(fn)}
}

// JSONResponse builds a canned provider response.
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

// MockCurrentBody is a /weather payload for name at the given UTC offset.
func MockCurrentBody(name string, timezone int) string {
	return fmt.Sprintf(`{"cod":200,"name":%q,"timezone":%d,`+
		`"main":{"temp":18.4,"feels_like":17.9,"temp_min":16.1,"temp_max":20.3,"pressure":1016,"humidity":61},`+
		`"wind":{"speed":3.6,"deg":240},`+
		`"weather":[{"id":800,"main":"Clear","description":"clear sky","icon":"01d"}]}`, name, timezone)
}

// MockForecastBody is a /forecast payload of n items at 3-hour cadence from start.
func MockForecastBody(n int, start int64) string {
	items := make([]string, n)
	for i := range items {
		dt := start + int64(i)*10800
		items[i] = fmt.Sprintf(`{"dt":%d,"main":{"temp":%d.5,"humidity":50},`+
			`"weather":[{"id":803,"main":"Clouds","description":"broken clouds","icon":"04d"}],"dt_txt":%q}`,
			dt, 10+i%8, time.Unix(dt, 0).UTC().Format("2006-01-02 15:04:05"))
	}
	return fmt.Sprintf(`{"cod":"200","message":0,"cnt":%d,"list":[%s]}`, n, strings.Join(items, ","))
}

// NewMockProviderServer stands in for the OpenWeatherMap API. cities maps
// the known city names to their UTC offset; coords maps "lat,lon" query
// values to one of those names. Unknown locations get the provider's 404
// payload.
func NewMockProviderServer(apiKey string, cities map[string]int, coords map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query()
		if q.Get("appid") != apiKey {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
			return
		}

		city := q.Get("q")
		if city == "" {
			city = coords[q.Get("lat")+","+q.Get("lon")]
		}
		timezone, ok := cities[city]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
			return
		}

		switch path.Base(r.URL.Path) {
		case "weather":
			_, _ = w.Write([]byte(MockCurrentBody(city, timezone)))
		case "forecast":
			_, _ = w.Write([]byte(MockForecastBody(40, 1700000000)))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"cod":"404","message":"Internal error"}`))
		}
	}))
}
