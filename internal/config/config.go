// Package config reads the pdf2png settings from the environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Renderer names accepted by PDFPNG_RENDERER.
const (
	RendererMuPDF = "mupdf"
	RendererPDFJS = "pdfjs"
)

// PDFJSConfig holds settings for the headless browser renderer.
type PDFJSConfig struct {
	ChromePath   string
	NoSandbox    bool
	AutoDownload bool
	LibraryURL   string
	WorkerURL    string
	CMapURL      string
}

// AppConfig is the centralized configuration for the CLI. Flags override
// every field.
type AppConfig struct {
	Renderer string
	OutDir   string
	Zip      bool
	// Timeout bounds one conversion. Zero disables it.
	Timeout time.Duration
	PDFJS   PDFJSConfig
}

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Load reads configuration from environment variables.
func Load() *AppConfig {
	return &AppConfig{
		Renderer: strings.ToLower(getEnv("PDFPNG_RENDERER", RendererMuPDF)),
		OutDir:   getEnv("PDFPNG_OUT_DIR", "."),
		Zip:      getEnvBool("PDFPNG_ZIP", false),
		Timeout:  getEnvDuration("PDFPNG_TIMEOUT", 0),
		PDFJS: PDFJSConfig{
			ChromePath:   getEnv("PDFPNG_CHROME_PATH", ""),
			NoSandbox:    getEnvBool("PDFPNG_NO_SANDBOX", false),
			AutoDownload: getEnvBool("PDFPNG_AUTO_DOWNLOAD", false),
			LibraryURL:   getEnv("PDFPNG_PDFJS_URL", ""),
			WorkerURL:    getEnv("PDFPNG_PDFJS_WORKER_URL", ""),
			CMapURL:      getEnv("PDFPNG_CMAP_URL", ""),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

// getEnvDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if s, err := strconv.Atoi(v); err == nil {
		return time.Duration(s) * time.Second
	}
	return def
}
