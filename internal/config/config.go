package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Redis     RedisConfig     `json:"redis"`
	Auth      AuthConfig      `json:"auth"`
	Webhook   WebhookConfig   `json:"webhook"`
	RateLimit RateLimitConfig `json:"rate_limit"`
}

type ServerConfig struct {
	Port        string `json:"port"`
	Environment string `json:"environment"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
	SSLMode  string `json:"ssl_mode"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type AuthConfig struct {
	JWTSecret   string `json:"jwt_secret"`
	ExpiryHours int    `json:"expiry_hours"`
}

type WebhookConfig struct {
	KeyEventsURL string `json:"key_events_url"`
}

// RateLimitConfig is the per-IP courtesy limit on public endpoints. The
// per-key hourly quota comes from each key's tier, not from here.
type RateLimitConfig struct {
	RequestsPerMinute int `json:"requests_per_minute"`
}

func Load(path string) (*Config, error) {
	config := defaults()

	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(file, config); err != nil {
			return nil, err
		}
	}

	config.applyEnv()

	if config.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required (set AUTH_JWT_SECRET)")
	}

	return config, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8080",
			Environment: "development",
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "pricing",
			SSLMode: "disable",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		Auth: AuthConfig{
			ExpiryHours: 24,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 300,
		},
	}
}

// Environment variables override file values.
func (c *Config) applyEnv() {
	setString(&c.Server.Port, "SERVER_PORT")
	setString(&c.Server.Environment, "SERVER_ENVIRONMENT")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSL_MODE")
	setString(&c.Redis.Host, "REDIS_HOST")
	setString(&c.Redis.Port, "REDIS_PORT")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setInt(&c.Redis.DB, "REDIS_DB")
	setString(&c.Auth.JWTSecret, "AUTH_JWT_SECRET")
	setInt(&c.Auth.ExpiryHours, "AUTH_EXPIRY_HOURS")
	setString(&c.Webhook.KeyEventsURL, "WEBHOOK_KEY_EVENTS_URL")
	setInt(&c.RateLimit.RequestsPerMinute, "RATE_LIMIT_PER_MINUTE")
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
