package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rorymcdaniel/temperature-checker/internal/models"
)

// Thresholds are the mode-dependent decision temperatures, °F.
// Open and close values differ on purpose: the gap is the hysteresis
// band that keeps the checker from flapping across a single boundary.
type Thresholds struct {
	CloseWindowsTemp      float64
	OpenWindowsTemp       float64
	ForecastHighThreshold float64

	HeatingCloseTemp            float64
	HeatingOpenTemp             float64
	HeatingForecastLowThreshold float64
}

// QuietHours is a recurring daily window during which notifications are
// suppressed. When the start is later than the end the window wraps
// midnight (e.g. 22:30–07:00).
type QuietHours struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// Config holds all recognized options with their defaults applied.
type Config struct {
	DBPath         string
	ZipCode        string
	TelegramToken  string
	TelegramChatID string
	DefaultMode    models.Mode

	Thresholds Thresholds
	Quiet      QuietHours

	// Admin HTTP server ("serve" subcommand).
	Port           string
	AuthSigningKey string
	LogLevel       string
}

// Load reads configuration from an optional .env file, an optional
// configs/config.yml, and the environment, with defaults for everything
// but credentials.
func Load() (*Config, error) {
	// Best-effort, matching dotenv semantics: absence is not an error.
	_ = godotenv.Load()

	setDefaults()

	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	viper.AutomaticEnv()

	cfg := &Config{
		DBPath:         viper.GetString("database_path"),
		ZipCode:        viper.GetString("zip_code"),
		TelegramToken:  viper.GetString("telegram_bot_token"),
		TelegramChatID: viper.GetString("telegram_chat_id"),
		DefaultMode:    models.Mode(viper.GetString("default_mode")),
		Thresholds: Thresholds{
			CloseWindowsTemp:            viper.GetFloat64("close_windows_temp"),
			OpenWindowsTemp:             viper.GetFloat64("open_windows_temp"),
			ForecastHighThreshold:       viper.GetFloat64("forecast_high_threshold"),
			HeatingCloseTemp:            viper.GetFloat64("heating_close_temp"),
			HeatingOpenTemp:             viper.GetFloat64("heating_open_temp"),
			HeatingForecastLowThreshold: viper.GetFloat64("heating_forecast_low_threshold"),
		},
		Quiet: QuietHours{
			StartHour:   viper.GetInt("quiet_start_hour"),
			StartMinute: viper.GetInt("quiet_start_minute"),
			EndHour:     viper.GetInt("quiet_end_hour"),
			EndMinute:   viper.GetInt("quiet_end_minute"),
		},
		Port:           viper.GetString("port"),
		AuthSigningKey: viper.GetString("auth_signing_key"),
		LogLevel:       viper.GetString("log_level"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("database_path", "temperature_checker.db")
	viper.SetDefault("zip_code", "")
	viper.SetDefault("telegram_bot_token", "")
	viper.SetDefault("telegram_chat_id", "")
	viper.SetDefault("default_mode", string(models.ModeCooling))

	viper.SetDefault("close_windows_temp", 78.0)
	viper.SetDefault("open_windows_temp", 76.0)
	viper.SetDefault("forecast_high_threshold", 80.0)
	viper.SetDefault("heating_close_temp", 55.0)
	viper.SetDefault("heating_open_temp", 65.0)
	viper.SetDefault("heating_forecast_low_threshold", 70.0)

	viper.SetDefault("quiet_start_hour", 22)
	viper.SetDefault("quiet_start_minute", 30)
	viper.SetDefault("quiet_end_hour", 7)
	viper.SetDefault("quiet_end_minute", 0)

	viper.SetDefault("port", "8080")
	viper.SetDefault("auth_signing_key", "")
	viper.SetDefault("log_level", "info")
}

func (c *Config) validate() error {
	if !models.ValidMode(c.DefaultMode) {
		return fmt.Errorf("invalid default_mode %q: must be %q or %q",
			c.DefaultMode, models.ModeCooling, models.ModeHeating)
	}
	if err := validClock("quiet_start", c.Quiet.StartHour, c.Quiet.StartMinute); err != nil {
		return err
	}
	return validClock("quiet_end", c.Quiet.EndHour, c.Quiet.EndMinute)
}

func validClock(name string, hour, minute int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("%s_hour %d out of range 0-23", name, hour)
	}
	if minute < 0 || minute > 59 {
		return fmt.Errorf("%s_minute %d out of range 0-59", name, minute)
	}
	return nil
}
