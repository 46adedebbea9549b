package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	APIBaseURL     string
	ListenAddr     string
	PublicBaseURL  string
	HTTPTimeout    time.Duration
	SearchDebounce time.Duration
	AllowedOrigins []string
	Session        SessionConfig
	Redis          RedisConfig
	Postgres       PostgresConfig
	Kafka          KafkaConfig
}

type SessionConfig struct {
	Backend     string
	File        string
	RedisPrefix string
}

type RedisConfig struct {
	Host string
	Port string
}

type PostgresConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

type KafkaConfig struct {
	Broker string
	Topic  string
}

// Enabled is false when no broker is configured; events are then dropped.
func (k KafkaConfig) Enabled() bool {
	return k.Broker != ""
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not read .env: %v", err)
	}

	cfg := Config{
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080"), "/"),
		ListenAddr:     getEnv("LISTEN_ADDR", ":8090"),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:8090"),
		HTTPTimeout:    time.Duration(getEnvInt("HTTP_TIMEOUT_SEC", 10)) * time.Second,
		SearchDebounce: time.Duration(getEnvInt("SEARCH_DEBOUNCE_MS", 300)) * time.Millisecond,
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		Session: SessionConfig{
			Backend:     strings.ToLower(getEnv("SESSION_BACKEND", BackendFile)),
			File:        getEnv("SESSION_FILE", "./data/session.json"),
			RedisPrefix: getEnv("SESSION_REDIS_PREFIX", "finder:session:"),
		},
		Redis: RedisConfig{
			Host: getEnv("REDIS_HOST", "localhost"),
			Port: getEnv("REDIS_PORT", "6379"),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "finder"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
		},
		Kafka: KafkaConfig{
			Broker: getEnv("KAFKA_BROKER", ""),
			Topic:  getEnv("EVENTS_TOPIC", "finder-activity"),
		},
	}

	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("API_BASE_URL must not be empty")
	}
	if cfg.ListenAddr == "" {
		return Config{}, fmt.Errorf("LISTEN_ADDR must not be empty")
	}
	if cfg.HTTPTimeout <= 0 {
		return Config{}, fmt.Errorf("HTTP_TIMEOUT_SEC must be > 0")
	}
	if cfg.SearchDebounce < 0 {
		return Config{}, fmt.Errorf("SEARCH_DEBOUNCE_MS must be >= 0")
	}
	switch cfg.Session.Backend {
	case BackendFile:
		if cfg.Session.File == "" {
			return Config{}, fmt.Errorf("SESSION_FILE must not be empty for the file backend")
		}
	case BackendRedis, BackendPostgres, BackendMemory:
	default:
		return Config{}, fmt.Errorf("SESSION_BACKEND %q is not one of file, redis, postgres, memory", cfg.Session.Backend)
	}
	if cfg.Kafka.Enabled() && cfg.Kafka.Topic == "" {
		return Config{}, fmt.Errorf("EVENTS_TOPIC must not be empty when KAFKA_BROKER is set")
	}

	return cfg, nil
}

func (c PostgresConfig) DSN() string {
	return "host=" + c.Host + " port=" + c.Port + " user=" + c.User +
		" password=" + c.Password + " dbname=" + c.Name + " sslmode=disable"
}

func MustInitPostgres(cfg PostgresConfig) *sql.DB {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Host + ":" + cfg.Port,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

// KafkaBatchTimeout caps how long a single activity event waits for a batch
// to fill before it is flushed.
const KafkaBatchTimeout = 10 * time.Millisecond

func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Broker),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: KafkaBatchTimeout,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
