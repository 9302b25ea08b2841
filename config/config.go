package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	AWS    AWSConfig
	JWT    JWTConfig
	Notify NotifyConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type AWSConfig struct {
	Region     string
	S3Bucket   string
	PresignTTL time.Duration
}

type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

type NotifyConfig struct {
	// AdvanceDelay is the debounce between dismissing one match popup and
	// showing the next queued one, so bursts don't flicker.
	AdvanceDelay time.Duration
}

type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables or a .env file
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = viper.ReadInConfig()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("S3_PRESIGN_TTL_MIN", 5)
	viper.SetDefault("JWT_TOKEN_TTL_HOURS", 72)
	viper.SetDefault("NOTIFY_ADVANCE_DELAY_MS", 350)
	viper.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Server: ServerConfig{
			Port:           viper.GetString("PORT"),
			AllowedOrigins: viper.GetStringSlice("ALLOWED_ORIGINS"),
		},
		AWS: AWSConfig{
			Region:     viper.GetString("AWS_REGION"),
			S3Bucket:   viper.GetString("S3_BUCKET_NAME"),
			PresignTTL: time.Duration(viper.GetInt("S3_PRESIGN_TTL_MIN")) * time.Minute,
		},
		JWT: JWTConfig{
			Secret:   viper.GetString("JWT_SECRET"),
			TokenTTL: time.Duration(viper.GetInt("JWT_TOKEN_TTL_HOURS")) * time.Hour,
		},
		Notify: NotifyConfig{
			AdvanceDelay: time.Duration(viper.GetInt("NOTIFY_ADVANCE_DELAY_MS")) * time.Millisecond,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if c.AWS.Region == "" {
		return fmt.Errorf("AWS_REGION is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.Notify.AdvanceDelay < 0 {
		return fmt.Errorf("NOTIFY_ADVANCE_DELAY_MS must not be negative")
	}
	return nil
}
