package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port               string
	AllowedOrigin      string
	DataFile           string
	DatabaseURL        string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	AuthSecret         string
	SessionTTLMinutes  int
	OperatorUser       string
	OperatorPassword   string
	SyncEndpoint       string
	SyncTimeoutSeconds int
	ClampStock         bool
}

func Load() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	sessionTTL, err := strconv.Atoi(getEnv("SESSION_TTL_MINUTES", "480"))
	if err != nil || sessionTTL < 1 {
		sessionTTL = 480
	}
	syncTimeout, err := strconv.Atoi(getEnv("SYNC_TIMEOUT_SECONDS", "5"))
	if err != nil || syncTimeout < 1 {
		syncTimeout = 5
	}

	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		AllowedOrigin:      getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		DataFile:           getEnv("DATA_FILE", "gameshop.json"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            redisDB,
		AuthSecret:         strings.TrimSpace(os.Getenv("AUTH_SECRET")),
		SessionTTLMinutes:  sessionTTL,
		OperatorUser:       getEnv("OPERATOR_USER", "admin"),
		OperatorPassword:   getEnv("OPERATOR_PASSWORD", "admin"),
		SyncEndpoint:       os.Getenv("SYNC_ENDPOINT"),
		SyncTimeoutSeconds: syncTimeout,
		ClampStock:         parseBool(os.Getenv("CLAMP_STOCK")),
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}
