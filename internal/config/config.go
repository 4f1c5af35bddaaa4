package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is everything one run needs, layered from defaults, config.yaml,
// .env, environment variables and command-line flags.
type Config struct {
	Recordset      string         `mapstructure:"recordset"`
	MonthlyMinDate string         `mapstructure:"monthly_min_date"`
	OverallMinDate string         `mapstructure:"overall_min_date"`
	MaxDate        string         `mapstructure:"max_date"`
	OutDir         string         `mapstructure:"out_dir"`
	API            APIConfig      `mapstructure:"api"`
	Telegram       TelegramConfig `mapstructure:"telegram"`
}

// APIConfig tunes the iDigBio client.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	RequestTimeout int    `mapstructure:"request_timeout"`
	MaxRetries     int    `mapstructure:"max_retries"`
}

// TelegramConfig is optional chart delivery; both fields empty disables it.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// Load builds the config. Precedence, lowest first: defaults, config.yaml,
// .env file, environment variables, flags.
func Load(flags *pflag.FlagSet) (*Config, error) {
	godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.ReadInConfig() // missing config.yaml is fine

	v.AutomaticEnv()
	setupEnvAliases(v)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	now := time.Now()

	v.SetDefault("recordset", "")
	v.SetDefault("monthly_min_date", fmt.Sprintf("%d-01-01", now.Year()))
	v.SetDefault("overall_min_date", "2015-01-16")
	v.SetDefault("max_date", now.Format("2006-01-02"))
	v.SetDefault("out_dir", "docs/charts")

	v.SetDefault("api.base_url", "https://search.idigbio.org/v2")
	v.SetDefault("api.request_timeout", 30)
	v.SetDefault("api.max_retries", 3)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
}

func setupEnvAliases(v *viper.Viper) {
	v.BindEnv("recordset", "IDIGBIO_RECORDSET")
	v.BindEnv("monthly_min_date", "CHARTS_MONTHLY_MIN_DATE")
	v.BindEnv("overall_min_date", "CHARTS_OVERALL_MIN_DATE")
	v.BindEnv("max_date", "CHARTS_MAX_DATE")
	v.BindEnv("out_dir", "CHARTS_OUT_DIR")

	v.BindEnv("api.base_url", "IDIGBIO_API_BASE_URL")
	v.BindEnv("api.request_timeout", "IDIGBIO_REQUEST_TIMEOUT")
	v.BindEnv("api.max_retries", "IDIGBIO_MAX_RETRIES")

	v.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "TELEGRAM_CHAT_ID")
}

func validate(cfg *Config) error {
	if cfg.Recordset == "" {
		return fmt.Errorf("recordset is required: pass --recordset or set IDIGBIO_RECORDSET")
	}
	for name, value := range map[string]string{
		"monthly_min_date": cfg.MonthlyMinDate,
		"overall_min_date": cfg.OverallMinDate,
		"max_date":         cfg.MaxDate,
	} {
		if _, err := time.Parse("2006-01-02", value); err != nil {
			return fmt.Errorf("%s must be YYYY-MM-DD, got %q", name, value)
		}
	}
	if cfg.OutDir == "" {
		return fmt.Errorf("out_dir must not be empty")
	}
	if cfg.API.RequestTimeout <= 0 {
		return fmt.Errorf("api.request_timeout must be positive, got %d", cfg.API.RequestTimeout)
	}
	if cfg.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must not be negative, got %d", cfg.API.MaxRetries)
	}
	return nil
}
