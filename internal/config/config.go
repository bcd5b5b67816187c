package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Matching MatchingConfig
	Chat     ChatConfig
	DeepLink DeepLinkConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type AuthConfig struct {
	ServiceSecret string
}

type MatchingConfig struct {
	// MinSharedQuestions is a hard floor: candidates sharing fewer answered
	// questions are never proposed.
	MinSharedQuestions int
	// MatchCost is the points charged to the requester on confirmation.
	MatchCost int
	// TopCategories bounds the category breakdown; the rest folds into
	// a single "Other" bucket.
	TopCategories int
	// ProposalTTL bounds how long a pending proposal stays confirmable.
	ProposalTTL time.Duration
}

type ChatConfig struct {
	// DeliveryMaxAttempts bounds live-delivery retries before the session is
	// downgraded instead of looping.
	DeliveryMaxAttempts int
	GatewayURL          string
}

type DeepLinkConfig struct {
	BotUsername string
}

type LoggingConfig struct {
	Level    string
	FilePath string
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = viper.ReadInConfig()

	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("MATCH_MIN_SHARED_QUESTIONS", 3)
	viper.SetDefault("MATCH_COST_POINTS", 10)
	viper.SetDefault("MATCH_TOP_CATEGORIES", 4)
	viper.SetDefault("MATCH_PROPOSAL_TTL_MIN", 30)
	viper.SetDefault("CHAT_DELIVERY_MAX_ATTEMPTS", 3)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FILE_PATH", "logs/app.log")

	config := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("SERVER_HOST"),
			Port:         viper.GetInt("SERVER_PORT"),
			Env:          viper.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetInt("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			ServiceSecret: viper.GetString("SERVICE_JWT_SECRET"),
		},
		Matching: MatchingConfig{
			MinSharedQuestions: viper.GetInt("MATCH_MIN_SHARED_QUESTIONS"),
			MatchCost:          viper.GetInt("MATCH_COST_POINTS"),
			TopCategories:      viper.GetInt("MATCH_TOP_CATEGORIES"),
			ProposalTTL:        time.Duration(viper.GetInt("MATCH_PROPOSAL_TTL_MIN")) * time.Minute,
		},
		Chat: ChatConfig{
			DeliveryMaxAttempts: viper.GetInt("CHAT_DELIVERY_MAX_ATTEMPTS"),
			GatewayURL:          viper.GetString("CHAT_GATEWAY_URL"),
		},
		DeepLink: DeepLinkConfig{
			BotUsername: viper.GetString("COMMUNICATOR_BOT_USERNAME"),
		},
		Logging: LoggingConfig{
			Level:    viper.GetString("LOG_LEVEL"),
			FilePath: viper.GetString("LOG_FILE_PATH"),
		},
	}

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Auth.ServiceSecret == "" {
		return fmt.Errorf("service JWT secret is required")
	}
	if len(c.Auth.ServiceSecret) < 32 {
		return fmt.Errorf("service JWT secret must be at least 32 characters")
	}
	if c.Matching.MinSharedQuestions < 1 {
		return fmt.Errorf("minimum shared questions must be positive")
	}
	if c.Matching.MatchCost < 0 {
		return fmt.Errorf("match cost cannot be negative")
	}
	if c.DeepLink.BotUsername == "" {
		return fmt.Errorf("communicator bot username is required")
	}
	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
