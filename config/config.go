package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"bookswap-api/pkg/database"

	"go.uber.org/zap"
)

type Config struct {
	Port string
	DB   DB

	JWT   JWT
	Redis Redis
	Kafka Kafka
	SMTP  SMTP
}

type DB struct {
	database.Config
}

type JWT struct {
	AccessSecret string
	Issuer       string
	Audience     string
	AccessTTL    time.Duration
}

type Redis struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type Kafka struct {
	Enabled    bool
	Brokers    []string
	EmailTopic string
	OrderTopic string
	EmailGroup string
}

type SMTP struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	From     string
	TMPLDir  string
}

func Load(log *zap.Logger) *Config {
	cfg := &Config{
		Port: getEnv("APP_PORT", log),
		DB: DB{
			Config: database.Config{
				Host:     getEnv("DB_HOST", log),
				Port:     getEnv("DB_PORT", log),
				User:     getEnv("DB_USER", log),
				Password: getEnv("DB_PASSWORD", log),
				Name:     getEnv("DB_NAME", log),
				SSLMode:  getEnv("DB_SSLMODE", log),
			},
		},
		JWT: JWT{
			AccessSecret: getEnv("JWT_ACCESS_SECRET", log),
			Issuer:       getEnvDefault("JWT_ISSUER", "bookswap"),
			Audience:     getEnvDefault("JWT_AUDIENCE", "bookswap-web"),
			AccessTTL:    time.Duration(atoiDefault(os.Getenv("JWT_ACCESS_TTL_MIN"), 60)) * time.Minute,
		},
		Redis: Redis{
			Enabled:  os.Getenv("REDIS_ENABLED") == "true",
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       atoiDefault(os.Getenv("REDIS_DB"), 0),
		},
		Kafka: Kafka{
			Enabled:    os.Getenv("KAFKA_BROKERS") != "",
			Brokers:    splitAndTrim(os.Getenv("KAFKA_BROKERS")),
			EmailTopic: getEnvDefault("KAFKA_TOPIC_EMAIL", "bookswap.email"),
			OrderTopic: getEnvDefault("KAFKA_TOPIC_ORDERS", "bookswap.orders"),
			EmailGroup: getEnvDefault("KAFKA_GROUP_EMAIL", "bookswap-email-sender"),
		},
		SMTP: SMTP{
			Enabled:  os.Getenv("SMTP_HOST") != "",
			Host:     os.Getenv("SMTP_HOST"),
			Port:     atoiDefault(os.Getenv("SMTP_PORT"), 465),
			User:     os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASS"),
			From:     getEnvDefault("SMTP_FROM", os.Getenv("EMAIL_USER")),
			TMPLDir:  getEnvDefault("TMPL_DIR", "templates"),
		},
	}
	return cfg
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("required environment variable is not set", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvDefault(key, def string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return def
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		if pt := strings.TrimSpace(p); pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
