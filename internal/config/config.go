package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN          string
	Environment    string
	HTTPAddr       string
	MigrationsPath string

	// Pipeline settings
	OffDay         time.Weekday // designated non-presentation weekday
	FineAmount     int          // flat charge per missed date
	TrackedClasses []string
	ExemptStudents []string // student ids never fined
	SelectionHour  int      // hour of day the scheduled run fires

	// Notification backends (each optional)
	SendgridAPIKey string
	EmailFrom      string
	TelegramToken  string
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables win in deployment
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    os.Getenv("ENV"),
		HTTPAddr:       os.Getenv("HTTP_ADDR"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		SendgridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		EmailFrom:      os.Getenv("EMAIL_FROM"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		OffDay:         time.Sunday,
		FineAmount:     10,
		TrackedClasses: []string{"year_3", "year_4"},
		SelectionHour:  6,
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	if v := os.Getenv("OFF_DAY"); v != "" {
		day, err := strconv.Atoi(v)
		if err != nil || day < 0 || day > 6 {
			return nil, fmt.Errorf("OFF_DAY must be a weekday index 0-6, got %q", v)
		}
		cfg.OffDay = time.Weekday(day)
	}
	if v := os.Getenv("FINE_AMOUNT"); v != "" {
		amount, err := strconv.Atoi(v)
		if err != nil || amount < 0 {
			return nil, fmt.Errorf("FINE_AMOUNT must be a non-negative integer, got %q", v)
		}
		cfg.FineAmount = amount
	}
	if v := os.Getenv("TRACKED_CLASSES"); v != "" {
		cfg.TrackedClasses = splitList(v)
	}
	if v := os.Getenv("FINE_EXEMPT_STUDENTS"); v != "" {
		cfg.ExemptStudents = splitList(v)
	}
	if v := os.Getenv("SELECTION_HOUR"); v != "" {
		hour, err := strconv.Atoi(v)
		if err != nil || hour < 0 || hour > 23 {
			return nil, fmt.Errorf("SELECTION_HOUR must be 0-23, got %q", v)
		}
		cfg.SelectionHour = hour
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if len(cfg.TrackedClasses) == 0 {
		return nil, fmt.Errorf("TRACKED_CLASSES must name at least one class")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
