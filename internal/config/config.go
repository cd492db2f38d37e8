// Package config loads settings for the CLI and the local board service from
// an optional config file plus environment variables.
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Client side.
	APIBaseURL  string        `mapstructure:"API_BASE_URL"`
	HTTPTimeout time.Duration `mapstructure:"HTTP_TIMEOUT"`
	TokenFile   string        `mapstructure:"TOKEN_FILE"`

	// Local board service.
	Port      string `mapstructure:"PORT"`
	JWTSecret string `mapstructure:"JWT_SECRET"`
	RedisURL  string `mapstructure:"REDIS_URL"`
	Seed      bool   `mapstructure:"SEED"`
}

func Load() *Config {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found; using environment variables and defaults")
		} else {
			log.Fatalf("Error reading config file: %s", err)
		}
	}

	viper.SetDefault("API_BASE_URL", "http://localhost:8080")
	viper.SetDefault("HTTP_TIMEOUT", 15*time.Second)
	viper.SetDefault("TOKEN_FILE", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("JWT_SECRET", "dev-secret-change-me")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("SEED", false)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode config into struct, %v", err)
	}

	return &config
}
