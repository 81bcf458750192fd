package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func initConfig() {
	once.Do(func() {
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		root, err := getProjectRoot()
		if err != nil {
			GetLogger().Errorw("Error finding project root", "error", err)
			return
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Errorw("Error reading config file", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			if err = viper.MergeInConfig(); err != nil {
				GetLogger().Errorw("Error merging test config file", "error", err)
			}
		}
	})
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func stringOr(key, def string) string {
	initConfig()
	if v := viper.GetString(key); v != "" {
		return v
	}
	return def
}

func durationOr(key string, def time.Duration) time.Duration {
	initConfig()
	durStr := viper.GetString(key)
	if durStr == "" {
		return def
	}
	dur, err := time.ParseDuration(durStr)
	if err != nil || dur <= 0 {
		return def
	}
	return dur
}

// GetOpenWeatherApiUrl returns the provider base URL, without the endpoint path.
func GetOpenWeatherApiUrl() string {
	return strings.TrimRight(stringOr("openweathermap.api_url", "https://api.openweathermap.org/data/2.5"), "/")
}

func GetOpenWeatherMapAPIKey() string {
	_ = godotenv.Load()
	return os.Getenv("OPENWEATHERMAP_API_KEY")
}

// GetOpenWeatherUnits returns the unit system requested from the provider.
func GetOpenWeatherUnits() string {
	return stringOr("openweathermap.units", "metric")
}

// GetOpenWeatherTimeout returns the HTTP client timeout for provider calls. Defaults to 10s.
func GetOpenWeatherTimeout() time.Duration {
	return durationOr("openweathermap.timeout", 10*time.Second)
}

// GetStorageDriver returns the persistent store backend: "redis" or "sqlite".
func GetStorageDriver() string {
	return strings.ToLower(stringOr("storage.driver", "redis"))
}

func GetRedisAddr() string {
	return stringOr("redis.addr", "localhost:6379")
}

// GetRedisPassword returns the AUTH password, empty when the server has none.
func GetRedisPassword() string {
	initConfig()
	return viper.GetString("redis.password")
}

func GetRedisDB() int {
	initConfig()
	return viper.GetInt("redis.db")
}

func GetRedisKeyPrefix() string {
	initConfig()
	return viper.GetString("redis.key_prefix")
}

func GetSQLitePath() string {
	return stringOr("sqlite.path", "dashboard.db")
}

// GetGeolocationProvider returns the locator used when no city was stored: "none", "static" or "ip".
func GetGeolocationProvider() string {
	return strings.ToLower(stringOr("geolocation.provider", "none"))
}

// GetGeolocationCoordinates returns the coordinates used by the static locator.
func GetGeolocationCoordinates() (lat, lon float64) {
	initConfig()
	return viper.GetFloat64("geolocation.lat"), viper.GetFloat64("geolocation.lon")
}

func GetGeolocationIPApiUrl() string {
	return stringOr("geolocation.ip_api_url", "http://ip-api.com/json")
}

// GetClockInterval returns the local clock refresh interval. Defaults to 1s.
func GetClockInterval() time.Duration {
	return durationOr("clock.interval", time.Second)
}

func GetServerPort() string {
	return stringOr("server.port", "8080")
}

func GetServerTimeout(key string) string {
	initConfig()
	return viper.GetString("server." + key)
}

// GetServerTimeoutDuration parses a server timeout, falling back to def when unset or invalid.
func GetServerTimeoutDuration(key string, def time.Duration) time.Duration {
	return durationOr("server."+key, def)
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		var l *zap.Logger
		var err error
		if os.Getenv("LOG_MODE") == "production" {
			l, err = zap.NewProduction()
		} else {
			l, err = zap.NewDevelopment()
		}
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

// GetTestRedisMockPort returns the listen address of the miniredis instance used by integration tests.
func GetTestRedisMockPort() string {
	return stringOr("test.redis_mock_port", ":16379")
}
