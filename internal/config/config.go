package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            int
	DatabaseURL     string
	JWTSecret       string
	CORSOrigins     []string
	LogLevel        string
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment. An empty DATABASE_URL
// selects the in-memory store (development mode).
func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("PORT", 8081)
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("JWT_SECRET", "dev-secret-change-in-production")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	shutdownTimeout, err := time.ParseDuration(viper.GetString("SHUTDOWN_TIMEOUT"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:            viper.GetInt("PORT"),
		DatabaseURL:     viper.GetString("DATABASE_URL"),
		JWTSecret:       viper.GetString("JWT_SECRET"),
		CORSOrigins:     viper.GetStringSlice("CORS_ORIGINS"),
		LogLevel:        viper.GetString("LOG_LEVEL"),
		ShutdownTimeout: shutdownTimeout,
	}, nil
}
