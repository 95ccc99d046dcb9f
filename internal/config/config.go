package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string   `mapstructure:"API_PORT"`
	Env           string   `mapstructure:"ENV"`
	MongoURI      string   `mapstructure:"MONGO_URI"`
	MongoDatabase string   `mapstructure:"MONGO_DATABASE"`
	JWTSecret     string   `mapstructure:"JWT_SECRET"`
	CORSOrigins   []string `mapstructure:"CORS_ORIGINS"`
	TextbeltKey   string   `mapstructure:"TEXTBELT_API_KEY"`
}

// Load reads configuration from the environment, falling back to an optional
// .env file. MONGO_URI and JWT_SECRET have no sane defaults and must be set.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("API_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("MONGO_DATABASE", "doctors_portal")
	v.SetDefault("CORS_ORIGINS", "*")

	v.BindEnv("API_PORT")
	v.BindEnv("ENV")
	v.BindEnv("MONGO_URI")
	v.BindEnv("MONGO_DATABASE")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("TEXTBELT_API_KEY")

	// The .env file is a development convenience, not a requirement.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

// IsDev reports whether the process runs in the development environment.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}
