package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StatusCode is the provider's embedded "cod" field. The current weather
// endpoint sends it as a number on success and as a string on failure, the
// forecast endpoint always sends a string.
type StatusCode int

func (c *StatusCode) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid status code %s: %w", string(b), err)
	}
	*c = StatusCode(n)
	return nil
}

// OK reports whether the provider accepted the request.
func (c StatusCode) OK() bool {
	return c == 200
}

type OpenWeatherMapCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type OpenWeatherMapResponse struct {
	Cod     StatusCode `json:"cod"`
	Message string     `json:"message"`
	Name    string     `json:"name"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
		SeaLevel  int     `json:"sea_level"`
		GrndLevel int     `json:"grnd_level"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Weather  []OpenWeatherMapCondition `json:"weather"`
	Timezone int                       `json:"timezone"`
}

type OpenWeatherMapForecastItem struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []OpenWeatherMapCondition `json:"weather"`
	DtTxt   string                    `json:"dt_txt"`
}

type OpenWeatherMapForecastResponse struct {
	Cod     StatusCode                   `json:"cod"`
	Message json.RawMessage              `json:"message"`
	Cnt     int                          `json:"cnt"`
	List    []OpenWeatherMapForecastItem `json:"list"`
}
