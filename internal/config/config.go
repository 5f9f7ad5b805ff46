package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBDSN         string
	MediaDir      string
	LogFile       string
	BaseURL       string
	UploadTimeout time.Duration
}

func Load() Config {
	// Optional .env; real environment variables win when both are set.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "menuqr.db"
	} // sqlite file in project root
	media := os.Getenv("MEDIA_DIR")
	if media == "" {
		media = "./web/media"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./menuqr.log"
	}
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://localhost:" + port
	}
	timeout := 5 * time.Second
	if ms := os.Getenv("UPLOAD_TIMEOUT_MS"); ms != "" {
		if n, err := strconv.Atoi(ms); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Millisecond
		}
	}

	cfg := Config{Port: port, DBDSN: dsn, MediaDir: media, LogFile: logFile, BaseURL: base, UploadTimeout: timeout}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s BASE_URL=%s", cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.BaseURL)
	return cfg
}
