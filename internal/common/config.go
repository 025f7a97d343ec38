package common

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Text     TextConfig
	OCR      OCRConfig
	Vendors  VendorsConfig
	Matching MatchingConfig
	Catalog  CatalogConfig
	Run      RunConfig
	Log      LogConfig
}

// TextConfig selects how the embedded text layer is read.
type TextConfig struct {
	Backend   string // "pdftotext" | "go"
	Pdftotext string
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Enabled     bool
	Backend     string // "tesseract" | "gosseract"
	Pdftoppm    string
	Tesseract   string
	Language    string
	DPI         int
	PSM         int
	TessdataDir string
	TempDir     string
}

// VendorsConfig points at the vendor order sheet.
type VendorsConfig struct {
	SheetURL     string
	File         string
	SheetName    string
	FetchTimeout time.Duration
}

// MatchingConfig holds vendor matching knobs.
type MatchingConfig struct {
	FuzzyEnabled   bool
	FuzzyThreshold float64
}

// CatalogConfig locates the item catalog; empty Path uses the embedded one.
type CatalogConfig struct {
	Path string
}

// RunConfig bounds one processing run.
type RunConfig struct {
	Timeout       time.Duration
	MaxUploadSize int64
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
	JSON  bool
}

// LoadConfig loads configuration from environment variables, after reading an
// optional .env file from the working directory.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not read .env file", "error", err)
	}

	return &Config{
		Text: TextConfig{
			Backend:   getEnv("TEXT_BACKEND", "pdftotext"),
			Pdftotext: getEnv("PDFTOTEXT", "pdftotext"),
		},
		OCR: OCRConfig{
			Enabled:     getEnvAsBool("OCR_ENABLED", true),
			Backend:     getEnv("OCR_BACKEND", "tesseract"),
			Pdftoppm:    getEnv("PDFTOPPM", "pdftoppm"),
			Tesseract:   getEnv("TESSERACT", "tesseract"),
			Language:    getEnv("OCR_LANG", "eng"),
			DPI:         getEnvAsInt("OCR_DPI", 300),
			PSM:         getEnvAsInt("OCR_PSM", 6),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
			TempDir:     getEnv("OCR_TEMP_DIR", ""),
		},
		Vendors: VendorsConfig{
			SheetURL:     getEnv("VENDOR_SHEET_URL", ""),
			File:         getEnv("VENDOR_FILE", ""),
			SheetName:    getEnv("VENDOR_SHEET_NAME", ""),
			FetchTimeout: getEnvAsDuration("VENDOR_FETCH_TIMEOUT", 15*time.Second),
		},
		Matching: MatchingConfig{
			FuzzyEnabled:   getEnvAsBool("FUZZY_ENABLED", true),
			FuzzyThreshold: getEnvAsFloat64("FUZZY_THRESHOLD", 0.95),
		},
		Catalog: CatalogConfig{
			Path: getEnv("CATALOG_PATH", ""),
		},
		Run: RunConfig{
			Timeout:       getEnvAsDuration("RUN_TIMEOUT", 5*time.Minute),
			MaxUploadSize: int64(getEnvAsInt("MAX_UPLOAD_MB", 100)) << 20,
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			JSON:  getEnvAsBool("LOG_JSON", false),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator()
	v.Field("TEXT_BACKEND", c.Text.Backend, OneOf("pdftotext", "go"))
	v.Field("OCR_BACKEND", c.OCR.Backend, OneOf("tesseract", "gosseract"))
	v.Field("OCR_DPI", c.OCR.DPI, InRange(72, 1200))
	v.Field("FUZZY_THRESHOLD", c.Matching.FuzzyThreshold, InRange(0, 1))
	v.Field("LOG_LEVEL", c.Log.Level, OneOf("debug", "info", "warn", "error"))
	if c.Text.Backend == "pdftotext" {
		v.Field("PDFTOTEXT", c.Text.Pdftotext, Required)
	}
	if c.Vendors.SheetURL != "" && c.Vendors.File != "" {
		return NewAppError(CodeConfig, "set only one of VENDOR_SHEET_URL and VENDOR_FILE", ErrInvalidInput)
	}
	if v.HasErrors() {
		return NewAppError(CodeConfig, v.ErrorMessage(), v.Error())
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
