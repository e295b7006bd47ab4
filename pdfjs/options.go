package pdfjs

import "time"

// Default pdf.js distribution, matching the build the converter was
// validated against.
const (
	DefaultLibraryURL = "https://cdnjs.cloudflare.com/ajax/libs/pdf.js/3.11.174/pdf.min.js"
	DefaultWorkerURL  = "https://cdnjs.cloudflare.com/ajax/libs/pdf.js/3.11.174/pdf.worker.min.js"
	DefaultCMapURL    = "https://cdnjs.cloudflare.com/ajax/libs/pdf.js/3.11.174/cmaps/"
)

// defaultCloseTimeout bounds tearing a document down when no
// [WithTimeout] is set.
const defaultCloseTimeout = 5 * time.Second

// config holds internal configuration for a Renderer.
type config struct {
	chromePath   string
	timeout      time.Duration
	noSandbox    bool
	headless     string
	autoDownload bool
	libraryURL   string
	workerURL    string
	cmapURL      string
}

func defaultConfig() config {
	return config{
		headless:   "new",
		libraryURL: DefaultLibraryURL,
		workerURL:  DefaultWorkerURL,
		cmapURL:    DefaultCMapURL,
	}
}

// closeTimeout is how long Close waits for the tab before cancelling it.
func (c config) closeTimeout() time.Duration {
	if c.timeout > 0 {
		return c.timeout
	}
	return defaultCloseTimeout
}

// Option configures a [Renderer].
type Option func(*config)

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default chromedp searches standard locations automatically.
func WithChromePath(path string) Option {
	return func(c *config) {
		c.chromePath = path
	}
}

// WithTimeout bounds each call into the browser. The default of zero
// applies no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithNoSandbox disables the Chrome sandbox. This is required when
// running as root, for example inside Docker containers.
func WithNoSandbox() Option {
	return func(c *config) {
		c.noSandbox = true
	}
}

// WithAutoDownload fetches a Chromium build when no browser is installed
// and no explicit path was given.
func WithAutoDownload() Option {
	return func(c *config) {
		c.autoDownload = true
	}
}

// WithLibraryURL sets where pdf.js is loaded from.
func WithLibraryURL(url string) Option {
	return func(c *config) {
		if url != "" {
			c.libraryURL = url
		}
	}
}

// WithWorkerURL sets the pdf.js worker script location.
func WithWorkerURL(url string) Option {
	return func(c *config) {
		if url != "" {
			c.workerURL = url
		}
	}
}

// WithCMapURL sets the character map location used when the caller does
// not pass one to Open.
func WithCMapURL(url string) Option {
	return func(c *config) {
		if url != "" {
			c.cmapURL = url
		}
	}
}
