package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// ConfigPathEnv names the optional YAML config file. Environment variables still override it.
const ConfigPathEnv = "QUOTEFLOW_CONFIG_PATH"

// DBConfig holds database configuration
type DBConfig struct {
	Host            string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            string        `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string        `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password        string        `yaml:"password" env:"DB_PASSWORD" env-default:"password"`
	DBName          string        `yaml:"name" env:"DB_NAME" env-default:"quoteflow"`
	SSLMode         string        `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"100"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	LogLevel        string        `yaml:"log_level" env:"DB_LOG_LEVEL" env-default:"warn"`
	Migrate         bool          `yaml:"migrate" env:"DB_MIGRATE" env-default:"true"`
}

// GetDSN returns the PostgreSQL connection string
func (c *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// GormLogLevel maps the configured level onto gorm's logger levels
func (c *DBConfig) GormLogLevel() logger.LogLevel {
	switch c.LogLevel {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	Env             string        `yaml:"env" env:"APP_ENV" env-default:"development"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string `yaml:"signing_key" env:"JWT_SIGNING_KEY" env-default:"defaultsecretkey"`
	ExpirationHours int    `yaml:"expiration_hours" env:"JWT_EXPIRATION_HOURS" env-default:"168"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// StorageConfig selects where product images are kept
type StorageConfig struct {
	Driver        string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"local"`
	LocalDir      string `yaml:"local_dir" env:"STORAGE_LOCAL_DIR" env-default:"uploads"`
	PublicPath    string `yaml:"public_path" env:"STORAGE_PUBLIC_PATH" env-default:"/uploads"`
	MaxImageBytes int64  `yaml:"max_image_bytes" env:"STORAGE_MAX_IMAGE_BYTES" env-default:"5242880"`
	S3Bucket      string `yaml:"s3_bucket" env:"AWS_S3_BUCKET" env-default:"quoteflow"`
	S3Prefix      string `yaml:"s3_prefix" env:"AWS_S3_PREFIX" env-default:"products/"`
	S3Endpoint    string `yaml:"s3_endpoint" env:"AWS_S3_ENDPOINT"`
	S3Region      string `yaml:"s3_region" env:"AWS_REGION" env-default:"us-east-1"`
	S3AccessKey   string `yaml:"s3_access_key" env:"AWS_ACCESS_KEY_ID"`
	S3SecretKey   string `yaml:"s3_secret_key" env:"AWS_SECRET_ACCESS_KEY"`
}

// KafkaConfig holds the quote event publisher settings. No brokers disables publishing.
type KafkaConfig struct {
	Brokers      []string      `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic        string        `yaml:"topic" env:"KAFKA_TOPIC" env-default:"quote-request-events"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"KAFKA_WRITE_TIMEOUT" env-default:"5s"`
}

// RateLimitConfig throttles the anonymous quote submission endpoint per client IP
type RateLimitConfig struct {
	QuoteRequestsPerMinute int `yaml:"quote_requests_per_minute" env:"RATE_LIMIT_QUOTES_PER_MINUTE" env-default:"30"`
	Burst                  int `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"10"`
}

// Config holds all configuration
type Config struct {
	ServiceName string          `yaml:"service_name" env:"SERVICE_NAME" env-default:"quoteflow"`
	Server      ServerConfig    `yaml:"server"`
	DB          DBConfig        `yaml:"db"`
	JWT         JWTConfig       `yaml:"jwt"`
	Log         LogConfig       `yaml:"log"`
	Storage     StorageConfig   `yaml:"storage"`
	Kafka       KafkaConfig     `yaml:"kafka"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

// Load reads .env (when present), then the optional YAML file and the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	var cfg Config
	if path := os.Getenv(ConfigPathEnv); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.SigningKey == "" {
		return errors.New("JWT_SIGNING_KEY must not be empty")
	}
	if c.JWT.ExpirationHours <= 0 {
		return errors.New("JWT_EXPIRATION_HOURS must be positive")
	}
	switch c.Storage.Driver {
	case "local", "s3":
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	return nil
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("db_host", c.DB.Host),
		zap.String("db_port", c.DB.Port),
		zap.String("db_user", c.DB.User),
		zap.String("db_name", c.DB.DBName),
		zap.String("server_port", c.Server.Port),
		zap.String("storage_driver", c.Storage.Driver),
		zap.Strings("kafka_brokers", c.Kafka.Brokers),
	}
}
