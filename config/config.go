package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/sirupsen/logrus"
)

type Config struct {
	// External tool binaries
	MpvPath       string
	YtdlpPath     string
	FFmpegPath    string
	TesseractPath string

	// Player IPC
	SocketPath     string
	ConnectTimeout time.Duration

	// Application paths
	DBPath        string
	LogDir        string
	ScreenshotDir string
	AttachDir     string

	// Tool invocation
	ToolTimeout time.Duration

	// Remote metadata admission control
	RateLimit         int
	RateLimitInterval time.Duration

	// Interactive defaults
	SeekStep    float64
	SpeedStep   float64
	OCRLanguage string
}

func LoadConfig() *Config {
	return &Config{
		MpvPath:           GetEnv("MPV_PATH", "mpv"),
		YtdlpPath:         GetEnv("YTDLP_PATH", "yt-dlp"),
		FFmpegPath:        GetEnv("FFMPEG_PATH", "ffmpeg"),
		TesseractPath:     GetEnv("TESSERACT_PATH", "tesseract"),
		SocketPath:        GetEnv("MPV_SOCKET", "/tmp/medianote-mpv.sock"),
		ConnectTimeout:    getEnvAsDuration("CONNECT_TIMEOUT", 10*time.Second),
		DBPath:            GetEnv("DB_PATH", "./data/medianote.db"),
		LogDir:            GetEnv("LOG_DIR", "./logs"),
		ScreenshotDir:     GetEnv("SCREENSHOT_DIR", "./screenshots"),
		AttachDir:         GetEnv("ATTACH_DIR", "./attachments"),
		ToolTimeout:       getEnvAsDuration("TOOL_TIMEOUT", 10*time.Minute),
		RateLimit:         getEnvAsInt("RATE_LIMIT", 5),
		RateLimitInterval: getEnvAsDuration("RATE_LIMIT_INTERVAL", 1*time.Second),
		SeekStep:          getEnvAsFloat("SEEK_STEP", 5),
		SpeedStep:         getEnvAsFloat("SPEED_STEP", 0.1),
		OCRLanguage:       GetEnv("OCR_LANGUAGE", "eng"),
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid duration, using default")
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid integer, using default")
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid float, using default")
	}
	return defaultValue
}

func ValidateConfig(cfg *Config) error {
	if cfg.MpvPath == "" {
		return errors.New("mpv path is required")
	}
	if cfg.SocketPath == "" {
		return errors.New("player socket path is required")
	}
	if cfg.DBPath == "" {
		return errors.New("database path is required")
	}
	if cfg.ToolTimeout <= 0 {
		return errors.New("tool timeout must be greater than 0")
	}
	if cfg.ConnectTimeout <= 0 {
		return errors.New("connect timeout must be greater than 0")
	}
	if cfg.SeekStep <= 0 {
		return errors.New("seek step must be greater than 0")
	}
	if cfg.SpeedStep <= 0 {
		return errors.New("speed step must be greater than 0")
	}
	return nil
}
