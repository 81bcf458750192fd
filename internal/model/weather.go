package model

// WeatherSnapshot is the current conditions of the displayed location.
type WeatherSnapshot struct {
	LocationName          string  `json:"location_name"`
	TemperatureC          float64 `json:"temperature_c"`
	HumidityPct           float64 `json:"humidity_pct"`
	WindSpeedMs           float64 `json:"wind_speed_ms"`
	ConditionIcon         string  `json:"condition_icon"`
	ConditionDescription  string  `json:"condition_description"`
	TimezoneOffsetSeconds int     `json:"timezone_offset_seconds"`
}

// ForecastEntry is one sampled point of the provider's forecast, nominally one per day.
type ForecastEntry struct {
	TimestampUnix        int64   `json:"timestamp_unix"`
	TemperatureC         float64 `json:"temperature_c"`
	ConditionIcon        string  `json:"condition_icon"`
	ConditionDescription string  `json:"condition_description"`
}

// LocalClock is the wall clock of the displayed location.
type LocalClock struct {
	Time string `json:"time"`
	Date string `json:"date"`
}

// DashboardState is a point-in-time copy of everything the dashboard renders.
type DashboardState struct {
	Weather   *WeatherSnapshot `json:"weather"`
	Forecast  []ForecastEntry  `json:"forecast"`
	Favorites []string         `json:"favorites"`
	Error     string           `json:"error"`
	Loading   bool             `json:"loading"`
	Clock     *LocalClock      `json:"clock"`
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
