package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Weather  WeatherConfig  `json:"weather"`
	Advisory AdvisoryConfig `json:"advisory"`
	Logging  LoggingConfig  `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	User         string `json:"user"`
	Password     string `json:"password"`
	DBName       string `json:"db_name"`
	SSLMode      string `json:"ssl_mode"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

// WeatherConfig represents forecast provider and cache configuration
type WeatherConfig struct {
	BaseURL        string        `json:"base_url"`
	FetchTimeout   time.Duration `json:"fetch_timeout"`
	CacheReadLimit int           `json:"cache_read_limit"`
}

// AdvisoryConfig represents decision-layer configuration
type AdvisoryConfig struct {
	HorizonDays      int    `json:"horizon_days"`
	ForecastDays     int    `json:"forecast_days"`
	SearchRadiusDays int    `json:"search_radius_days"`
	Currency         string `json:"currency"`
	CropProfilePath  string `json:"crop_profile_path"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `json:"level"`
}

// LoadConfig loads configuration from an optional JSON file, then overrides
// with environment variables.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         5432,
			User:         os.Getenv("USER"),
			DBName:       "harvestwise_advisory",
			SSLMode:      "disable",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		Weather: WeatherConfig{
			BaseURL:        "https://api.open-meteo.com/v1",
			FetchTimeout:   10 * time.Second,
			CacheReadLimit: 24,
		},
		Advisory: AdvisoryConfig{
			HorizonDays:      30,
			ForecastDays:     180,
			SearchRadiusDays: 7,
			Currency:         "PHP",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	overrideWithEnv(config)

	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPass := os.Getenv("DATABASE_PASSWORD"); dbPass != "" {
		config.Database.Password = dbPass
	}
	if dbName := os.Getenv("DATABASE_DBNAME"); dbName != "" {
		config.Database.DBName = dbName
	}
	if baseURL := os.Getenv("OPEN_METEO_BASE_URL"); baseURL != "" {
		config.Weather.BaseURL = baseURL
	}
	if currency := os.Getenv("ADVISORY_CURRENCY"); currency != "" {
		config.Advisory.Currency = currency
	}
	if profiles := os.Getenv("CROP_PROFILE_PATH"); profiles != "" {
		config.Advisory.CropProfilePath = profiles
	}
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
