package main

import (
	"embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"
)

//go:embed data/*.json
var fixtures embed.FS

var configKeys = []string{
	"PORT",
	"APP_ENV",
	"APP_NAME",
	"APP_VERSION",
	"TIMEOUT",
	"ELASTIC_APM_ACTIVE",
	"ELK_URL",
	"SESSION_SECRET",
	"SESSION_TTL_HOURS",
	"TODAY",
	"CATALOGUE_FILE",
	"PERSONAS_FILE",
	"LOCATIONS_FILE",
	"RATE_LIMIT_RPS",
	"RATE_LIMIT_BURST",
}

// readConfig reads the optional config file named by CONFIG_FILE, then lets
// environment variables override it.
func readConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(getEnv("CONFIG_FILE", "config.json"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "screenings-and-vaccinations")
	v.SetDefault("TIMEOUT", 30)
	v.SetDefault("SESSION_TTL_HOURS", 12)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	// A missing config file is fine, a broken one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// clock returns "today": the pinned TODAY when configured, otherwise the
// current date.
func (c *Config) clock() func() time.Time {
	if c.Today != "" {
		if t, err := parseDate(c.Today); err == nil {
			pinned := toDate(t)
			return func() time.Time { return pinned }
		}
	}
	return func() time.Time { return toDate(time.Now()) }
}

func loadPersonas(fileName string) ([]Person, error) {
	var personas []Person
	if err := loadJSON(fileName, "data/personas.json", &personas); err != nil {
		return nil, err
	}
	for i := range personas {
		if err := personas[i].Validate(); err != nil {
			return nil, fmt.Errorf("persona %d: %w", i, err)
		}
	}
	return personas, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// jsonSerializer swaps echo's encoding/json serializer for goccy/go-json.
type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i any, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i any) error {
	err := json.NewDecoder(c.Request().Body).Decode(i)
	if ute, ok := err.(*json.UnmarshalTypeError); ok {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Unmarshal type error: expected=%v, got=%v, field=%v, offset=%v", ute.Type, ute.Value, ute.Field, ute.Offset)).SetInternal(err)
	} else if se, ok := err.(*json.SyntaxError); ok {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Syntax error: offset=%v, error=%v", se.Offset, se.Error())).SetInternal(err)
	}
	return err
}
