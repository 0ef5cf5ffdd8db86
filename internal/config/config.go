package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/cloud-ru/loanstore-go/internal/clock"
	"github.com/cloud-ru/loanstore-go/pkg/utils"
)

// Config содержит конфигурацию реестра кредитов
type Config struct {
	DBPath            string
	Today             string
	Timezone          string
	MaxAmount         float64
	MaxInterestPerDay int
	MaxPenaltyPerDay  float64
	OTELEndpoint      string
	OTELServiceName   string
	LogLevel          string
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:            getEnvString("LOANSTORE_DB", "./loanstore.sqlite"),
		Today:             getEnvString("LEDGER_TODAY", ""),
		Timezone:          getEnvString("LEDGER_TIMEZONE", "Local"),
		MaxAmount:         getEnvFloat("MAX_AMOUNT", 1e12),
		MaxInterestPerDay: getEnvInt("MAX_INTEREST_PER_DAY", 100),
		MaxPenaltyPerDay:  getEnvFloat("MAX_PENALTY_PER_DAY", 100),
		OTELEndpoint:      getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName:   getEnvString("OTEL_SERVICE_NAME", "loanstore"),
		LogLevel:          getEnvString("LOG_LEVEL", "INFO"),
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if cfg.Today != "" {
		if _, err := utils.ParseDate(cfg.Today); err != nil {
			return nil, fmt.Errorf("LEDGER_TODAY: %w", err)
		}
	}

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// Location возвращает часовой пояс, в котором определяется текущая дата
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("LEDGER_TIMEZONE: %w", err)
	}
	return loc, nil
}

// Clock возвращает часы реестра: зафиксированную дату, если задан Today,
// иначе системные часы в поясе Timezone
func (c *Config) Clock() (clock.Clock, error) {
	if c.Today != "" {
		d, err := utils.ParseDate(c.Today)
		if err != nil {
			return nil, fmt.Errorf("today: %w", err)
		}
		return clock.NewFixed(d), nil
	}
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	return clock.System{Location: loc}, nil
}
