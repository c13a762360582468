package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config holds all application settings
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Email    EmailConfig
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig contains Redis connection settings. Only a single instance is
// needed here (rate limiting counters), but Addrs is kept for parity with
// sentinel/cluster deployments.
type RedisConfig struct {
	Addrs      []string `mapstructure:"addrs"`
	Addr       string   `mapstructure:"addr"`
	Password   string   `mapstructure:"password"`
	DB         int      `mapstructure:"db"`
	MaxRetries int      `mapstructure:"max_retries"`
}

// AuthConfig contains the login code and access token settings
type AuthConfig struct {
	// Secret keys the login code hash and signs access tokens.
	Secret string `mapstructure:"secret"`
	// LoginCodeTTLSeconds is how long an issued code stays valid.
	LoginCodeTTLSeconds int `mapstructure:"login_code_ttl_seconds"`
	// LoginCodeLength is the number of A-Z0-9 characters in a code.
	LoginCodeLength int `mapstructure:"login_code_length"`
	// AccessTokenLifetimeHrs is the JWT lifetime handed out on authenticate.
	AccessTokenLifetimeHrs int `mapstructure:"access_token_lifetime_hrs"`
}

// EmailConfig contains the outbound email settings
type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
}

// PostgresConnectionString builds the PostgreSQL DSN
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load reads the configuration from a file plus explicitly bound env vars
func Load(configPath string) (*Config, error) {
	vip := viper.New() // fresh instance to avoid global state

	vip.SetDefault("auth.login_code_ttl_seconds", 1800)
	vip.SetDefault("auth.login_code_length", 6)
	vip.SetDefault("auth.access_token_lifetime_hrs", 24)

	// Bind env vars explicitly per key
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")

	vip.BindEnv("auth.secret", "AUTH_SECRET")
	vip.BindEnv("auth.login_code_ttl_seconds", "AUTH_LOGIN_CODE_TTL_SECONDS")
	vip.BindEnv("auth.login_code_length", "AUTH_LOGIN_CODE_LENGTH")
	vip.BindEnv("auth.access_token_lifetime_hrs", "AUTH_ACCESS_TOKEN_LIFETIME_HRS")

	vip.BindEnv("email.enabled", "EMAIL_ENABLED")
	vip.BindEnv("email.resend_api_key", "RESEND_API_KEY")
	vip.BindEnv("email.from", "EMAIL_FROM")

	vip.BindEnv("server.port", "SERVER_PORT")

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Config file '%s' not found, relying on env vars/defaults.", configPath)
			} else {
				log.Printf("Warning: failed to read config file '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Loaded configuration ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("Auth Secret Set: %t", cfg.Auth.Secret != "")
		log.Printf("Login Code TTL Seconds: %d", cfg.Auth.LoginCodeTTLSeconds)
		log.Printf("Login Code Length: %d", cfg.Auth.LoginCodeLength)
		log.Printf("Email Enabled: %t", cfg.Email.Enabled)
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("----------------------------")
	}

	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("auth secret is required in config (check AUTH_SECRET env var)")
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if cfg.Email.Enabled && (cfg.Email.ResendAPIKey == "" || cfg.Email.From == "") {
		return nil, fmt.Errorf("email is enabled but resend_api_key or from is missing (check RESEND_API_KEY, EMAIL_FROM env vars)")
	}
	if os.Getenv("GIN_MODE") == "release" && cfg.Database.Password == "" {
		return nil, fmt.Errorf("database password is required in release mode (check DATABASE_PASSWORD env var)")
	}

	return &cfg, nil
}
