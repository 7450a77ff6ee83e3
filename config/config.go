package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config carries the environment settings the service runs with.
type Config struct {
	Port             string
	ReportsWorkbook  string
	DefaultsWorkbook string
	DefaultsSheet    string
	GCSBucket        string
	UploadDir        string
}

// Load reads .env (if present) and assembles the runtime configuration
// with development defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		Port:             envOr("PORT", "8080"),
		ReportsWorkbook:  envOr("REPORTS_WORKBOOK", "./data/reports.xlsx"),
		DefaultsWorkbook: envOr("DEFAULTS_WORKBOOK", "./data/defaults.xlsx"),
		DefaultsSheet:    envOr("DEFAULTS_SHEET", "defaults"),
		GCSBucket:        os.Getenv("GCS_BUCKET"),
		UploadDir:        envOr("UPLOAD_DIR", "./uploads"),
	}
}

// UseGCS reports whether uploads should go to Google Cloud Storage.
// Set explicitly with USE_GCS=true, or implied by running on Google
// Cloud (GOOGLE_APPLICATION_CREDENTIALS, or K_SERVICE on Cloud Run).
func (c *Config) UseGCS() bool {
	return os.Getenv("USE_GCS") == "true" ||
		os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" ||
		os.Getenv("K_SERVICE") != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
