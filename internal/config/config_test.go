package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"PDFPNG_RENDERER", "PDFPNG_OUT_DIR", "PDFPNG_ZIP", "PDFPNG_TIMEOUT",
		"PDFPNG_CHROME_PATH", "PDFPNG_NO_SANDBOX", "PDFPNG_AUTO_DOWNLOAD",
		"PDFPNG_PDFJS_URL", "PDFPNG_PDFJS_WORKER_URL", "PDFPNG_CMAP_URL",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, RendererMuPDF, cfg.Renderer)
	assert.Equal(t, ".", cfg.OutDir)
	assert.False(t, cfg.Zip)
	assert.Zero(t, cfg.Timeout)
	assert.Equal(t, PDFJSConfig{}, cfg.PDFJS)
}

func TestLoad(t *testing.T) {
	t.Setenv("PDFPNG_RENDERER", "PDFJS")
	t.Setenv("PDFPNG_OUT_DIR", "/tmp/out")
	t.Setenv("PDFPNG_ZIP", "true")
	t.Setenv("PDFPNG_TIMEOUT", "90s")
	t.Setenv("PDFPNG_CHROME_PATH", "/usr/bin/chromium")
	t.Setenv("PDFPNG_NO_SANDBOX", "1")
	t.Setenv("PDFPNG_AUTO_DOWNLOAD", "yes")
	t.Setenv("PDFPNG_CMAP_URL", "https://example.test/cmaps/")

	cfg := Load()

	assert.Equal(t, RendererPDFJS, cfg.Renderer)
	assert.Equal(t, "/tmp/out", cfg.OutDir)
	assert.True(t, cfg.Zip)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, "/usr/bin/chromium", cfg.PDFJS.ChromePath)
	assert.True(t, cfg.PDFJS.NoSandbox)
	assert.False(t, cfg.PDFJS.AutoDownload, "unparsable bool falls back to default")
	assert.Equal(t, "https://example.test/cmaps/", cfg.PDFJS.CMapURL)
}

func TestGetEnvDuration(t *testing.T) {
	key := "PDFPNG_TEST_DURATION"

	t.Setenv(key, "45")
	assert.Equal(t, 45*time.Second, getEnvDuration(key, time.Minute))

	t.Setenv(key, "2m")
	assert.Equal(t, 2*time.Minute, getEnvDuration(key, time.Minute))

	t.Setenv(key, "soon")
	assert.Equal(t, time.Minute, getEnvDuration(key, time.Minute))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PDFPNG_OUT_DIR=from-file\nPDFPNG_ZIP=true\n"), 0o600))

	t.Setenv("PDFPNG_OUT_DIR", "")
	os.Unsetenv("PDFPNG_OUT_DIR")
	t.Setenv("PDFPNG_ZIP", "false")

	require.NoError(t, LoadDotEnv(path))
	cfg := Load()

	assert.Equal(t, "from-file", cfg.OutDir)
	assert.False(t, cfg.Zip, "existing variables win over the file")
}

func TestLoadDotEnv_Missing(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}
