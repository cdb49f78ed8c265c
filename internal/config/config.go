package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config is loaded once at startup and injected into the components that
// need it. Business logic never reads the environment directly.
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Consul   ConsulConfig
	Token    TokenConfig
	SMTP     SMTPConfig
	GitHub   GitHubConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	ServiceName    string
	ServiceAddress string
	ServiceID      string
	PublicURL      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	PoolSize uint64
	Timeout  time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	URI string
}

type ConsulConfig struct {
	Address string
	Enabled bool
}

// TokenConfig carries both signing secrets. The session secret signs login
// tokens, the email secret signs confirmation-link tokens. Rotating a secret
// invalidates every outstanding token of that kind.
type TokenConfig struct {
	SessionSecret string
	EmailSecret   string
	SessionTTL    time.Duration
	ConfirmTTL    time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type GitHubConfig struct {
	APIBaseURL string
	Token      string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           getEnv("HOST", "0.0.0.0"),
			Port:           getEnv("PORT", "5000"),
			ServiceName:    getEnv("SERVICE_NAME", "devhub"),
			ServiceAddress: getEnv("SERVICE_ADDRESS", "devhub"),
			ServiceID:      getEnv("SERVICE_NAME", "devhub") + "-" + getEnv("HOSTNAME", "api"),
			PublicURL:      getEnv("PUBLIC_URL", "http://localhost:5000"),
			ReadTimeout:    getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "devhub"),
			PoolSize: getEnvAsUint64("MONGODB_POOL_SIZE", 100),
			Timeout:  getEnvAsDuration("MONGODB_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		RabbitMQ: RabbitMQConfig{
			URI: getEnv("RABBITMQ_URI", ""),
		},
		Consul: ConsulConfig{
			Address: getEnv("CONSUL_ADDRESS", ""),
			Enabled: getEnv("CONSUL_ADDRESS", "") != "",
		},
		Token: TokenConfig{
			SessionSecret: getEnv("JWT_SECRET", "devsecret"),
			EmailSecret:   getEnv("EMAIL_TOKEN_SECRET", "devemailsecret"),
			SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			ConfirmTTL:    getEnvAsDuration("CONFIRM_TTL", 24*time.Hour),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "noreply@devhub.local"),
		},
		GitHub: GitHubConfig{
			APIBaseURL: getEnv("GITHUB_API_URL", "https://api.github.com"),
			Token:      getEnv("GITHUB_TOKEN", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			log.Printf("error parsing int env var %s: %s", key, err)
			return defaultValue
		}
		return intVal
	}
	return defaultValue
}

func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	if value, exists := os.LookupEnv(key); exists {
		uintVal, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			log.Printf("error parsing uint env var %s: %s", key, err)
			return defaultValue
		}
		return uintVal
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			log.Printf("error parsing duration env var %s: %s", key, err)
			return defaultValue
		}
		return d
	}
	return defaultValue
}
