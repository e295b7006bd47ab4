package pdfpng

import (
	"time"

	"go.uber.org/zap"
)

// converterConfig holds internal configuration for a Converter.
type converterConfig struct {
	archiver     Archiver
	refs         RefStore
	display      Display
	downloader   Downloader
	logger       *zap.Logger
	resultsDelay time.Duration
	errorTTL     time.Duration
	open         OpenOptions
	preflight    bool
}

func defaultConfig() converterConfig {
	return converterConfig{
		display:      NopDisplay{},
		logger:       zap.NewNop(),
		resultsDelay: 500 * time.Millisecond,
		errorTTL:     5 * time.Second,
		preflight:    true,
	}
}

// Option configures a [Converter].
type Option func(*converterConfig)

// WithArchiver enables bulk download. Without an archiver,
// [Converter.DownloadAll] reports [LibraryUnavailable].
func WithArchiver(a Archiver) Option {
	return func(c *converterConfig) {
		c.archiver = a
	}
}

// WithRefStore sets where transient references live. Defaults to an
// in-memory [MemRefs].
func WithRefStore(r RefStore) Option {
	return func(c *converterConfig) {
		c.refs = r
	}
}

// WithDisplay sets the surface that receives phase, progress, result and
// error updates.
func WithDisplay(d Display) Option {
	return func(c *converterConfig) {
		if d != nil {
			c.display = d
		}
	}
}

// WithDownloader sets the download trigger. Defaults to a [DirDownloader]
// writing into the working directory.
func WithDownloader(d Downloader) Option {
	return func(c *converterConfig) {
		c.downloader = d
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *converterConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithResultsDelay sets the pause between the final progress update and
// the switch to the results phase. Defaults to 500ms.
func WithResultsDelay(d time.Duration) Option {
	return func(c *converterConfig) {
		c.resultsDelay = d
	}
}

// WithErrorTTL sets how long an error message stays displayed. Defaults
// to 5 seconds. A zero or negative value keeps messages until replaced
// or reset.
func WithErrorTTL(d time.Duration) Option {
	return func(c *converterConfig) {
		c.errorTTL = d
	}
}

// WithCMaps sets the character map location passed to the renderer when
// opening documents.
func WithCMaps(url string, packed bool) Option {
	return func(c *converterConfig) {
		c.open = OpenOptions{CMapURL: url, CMapPacked: packed}
	}
}

// WithoutPreflight disables the header and trailer scan used to classify
// open failures the renderer did not explain.
func WithoutPreflight() Option {
	return func(c *converterConfig) {
		c.preflight = false
	}
}
