package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/subtally/subtally/internal/types"
)

type Configuration struct {
	Logging  LoggingConfig  `validate:"required"`
	Cache    CacheConfig    `validate:"required"`
	Calendar CalendarConfig `validate:"required"`
	Reminder ReminderConfig `validate:"required"`
	Schedule ScheduleConfig `validate:"required"`
	Currency CurrencyConfig `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type CacheConfig struct {
	// Enabled toggles the billing schedule cache. Correctness is identical
	// with the cache off; only projection latency changes.
	Enabled bool

	// HorizonYears bounds how far past the anchor the cached (month, day)
	// set is materialized. Queries beyond the horizon bypass the cache.
	HorizonYears int `validate:"gte=1,lte=50"`
}

type CalendarConfig struct {
	// WeekStart is the first day of a displayed week row. The reference
	// grid is Sunday-first.
	WeekStart string `validate:"oneof=sunday monday"`
}

type ReminderConfig struct {
	// Hour is the local hour of day reminder timestamps are pinned to.
	Hour int `validate:"gte=0,lte=23"`
}

type ScheduleConfig struct {
	// MaxIterations caps occurrence stepping so a degenerate anchor can
	// never spin the generator forever.
	MaxIterations int `validate:"gte=1"`
}

type CurrencyConfig struct {
	// Display is the currency totals and breakdowns are reported in.
	Display string `validate:"required,len=3"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/subtally")

	v.SetEnvPrefix("SUBTALLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.horizonyears", DefaultCacheHorizonYears)
	v.SetDefault("calendar.weekstart", "sunday")
	v.SetDefault("reminder.hour", DefaultReminderHour)
	v.SetDefault("schedule.maxiterations", DefaultMaxIterations)
	v.SetDefault("currency.display", "USD")
}

const (
	DefaultReminderHour      = 10
	DefaultMaxIterations     = 10000
	DefaultCacheHorizonYears = 5
)

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// and tests, without touching the filesystem or environment.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Logging:  LoggingConfig{Level: types.LogLevelDebug},
		Cache:    CacheConfig{Enabled: true, HorizonYears: DefaultCacheHorizonYears},
		Calendar: CalendarConfig{WeekStart: "sunday"},
		Reminder: ReminderConfig{Hour: DefaultReminderHour},
		Schedule: ScheduleConfig{MaxIterations: DefaultMaxIterations},
		Currency: CurrencyConfig{Display: "USD"},
	}
}

// FirstWeekday maps the configured week start onto time.Weekday.
func (c CalendarConfig) FirstWeekday() time.Weekday {
	if c.WeekStart == "monday" {
		return time.Monday
	}
	return time.Sunday
}
