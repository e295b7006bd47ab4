// pdf2png converts every page of a PDF file to a PNG image.
//
// Usage:
//
//	pdf2png convert [options] <file.pdf>...
//	pdf2png info [--json] <file.pdf>
//
// Settings are read from the environment (and a .env file in the working
// directory); flags override them. See internal/config for the variables.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	pdfpng "github.com/porticus-lab/go-pdf-png"
	"github.com/porticus-lab/go-pdf-png/internal/config"
	"github.com/porticus-lab/go-pdf-png/internal/pdfinfo"
	"github.com/porticus-lab/go-pdf-png/internal/term"
	"github.com/porticus-lab/go-pdf-png/mupdf"
	"github.com/porticus-lab/go-pdf-png/pdfjs"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: reading .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:  "pdf2png",
		Usage: "Convert PDF pages to PNG images",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log every conversion step",
			},
		},
		Commands: []*cli.Command{
			convertCommand(),
			infoCommand(),
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Render every page to PNG and save the images",
		ArgsUsage: "<file.pdf>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Directory the images are saved to",
			},
			&cli.BoolFlag{
				Name:  "zip",
				Usage: "Save all pages as one {name}_png_images.zip archive",
			},
			&cli.StringFlag{
				Name:    "pages",
				Aliases: []string{"p"},
				Usage:   `Pages to save, e.g. "1", "1-5", "1,3,5" (default: all)`,
			},
			&cli.StringFlag{
				Name:  "renderer",
				Usage: "Rendering backend: mupdf or pdfjs",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Abort a conversion after this long (0 disables)",
			},
			&cli.StringFlag{
				Name:  "chrome-path",
				Usage: "Browser executable for the pdfjs renderer",
			},
			&cli.BoolFlag{
				Name:  "no-sandbox",
				Usage: "Disable the browser sandbox (containers)",
			},
			&cli.BoolFlag{
				Name:  "auto-download",
				Usage: "Download a browser when none is installed",
			},
			&cli.StringFlag{
				Name:  "pdfjs-url",
				Usage: "Location of the pdf.js library script",
			},
			&cli.StringFlag{
				Name:  "pdfjs-worker-url",
				Usage: "Location of the pdf.js worker script",
			},
			&cli.StringFlag{
				Name:  "cmap-url",
				Usage: "Base URL of the pdf.js character maps",
			},
		},
		Action: runConvert,
	}
}

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Display header version, encryption and page count",
		ArgsUsage: "<file.pdf>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the result as JSON",
			},
		},
		Action: runInfo,
	}
}

// loadConfig merges flags that were set over the environment.
func loadConfig(cmd *cli.Command) *config.AppConfig {
	cfg := config.Load()
	if cmd.IsSet("out") {
		cfg.OutDir = cmd.String("out")
	}
	if cmd.IsSet("zip") {
		cfg.Zip = cmd.Bool("zip")
	}
	if cmd.IsSet("renderer") {
		cfg.Renderer = cmd.String("renderer")
	}
	if cmd.IsSet("timeout") {
		cfg.Timeout = cmd.Duration("timeout")
	}
	if cmd.IsSet("chrome-path") {
		cfg.PDFJS.ChromePath = cmd.String("chrome-path")
	}
	if cmd.IsSet("no-sandbox") {
		cfg.PDFJS.NoSandbox = cmd.Bool("no-sandbox")
	}
	if cmd.IsSet("auto-download") {
		cfg.PDFJS.AutoDownload = cmd.Bool("auto-download")
	}
	if cmd.IsSet("pdfjs-url") {
		cfg.PDFJS.LibraryURL = cmd.String("pdfjs-url")
	}
	if cmd.IsSet("pdfjs-worker-url") {
		cfg.PDFJS.WorkerURL = cmd.String("pdfjs-worker-url")
	}
	if cmd.IsSet("cmap-url") {
		cfg.PDFJS.CMapURL = cmd.String("cmap-url")
	}
	return cfg
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	lc := zap.NewProductionConfig()
	lc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	lc.Encoding = "console"
	lc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return lc.Build()
}

// newRenderer builds the configured backend. The returned close function
// is never nil.
func newRenderer(cfg *config.AppConfig) (pdfpng.Renderer, func(), error) {
	switch cfg.Renderer {
	case config.RendererMuPDF:
		return mupdf.New(), func() {}, nil
	case config.RendererPDFJS:
		var opts []pdfjs.Option
		if cfg.PDFJS.ChromePath != "" {
			opts = append(opts, pdfjs.WithChromePath(cfg.PDFJS.ChromePath))
		}
		if cfg.PDFJS.NoSandbox {
			opts = append(opts, pdfjs.WithNoSandbox())
		}
		if cfg.PDFJS.AutoDownload {
			opts = append(opts, pdfjs.WithAutoDownload())
		}
		if cfg.PDFJS.LibraryURL != "" {
			opts = append(opts, pdfjs.WithLibraryURL(cfg.PDFJS.LibraryURL))
		}
		if cfg.PDFJS.WorkerURL != "" {
			opts = append(opts, pdfjs.WithWorkerURL(cfg.PDFJS.WorkerURL))
		}
		if cfg.PDFJS.CMapURL != "" {
			opts = append(opts, pdfjs.WithCMapURL(cfg.PDFJS.CMapURL))
		}
		r, err := pdfjs.New(opts...)
		if err != nil {
			return nil, func() {}, err
		}
		return r, func() { r.Close() }, nil
	}
	return nil, func() {}, fmt.Errorf("unknown renderer %q", cfg.Renderer)
}

// runConvert implements the "convert" command.
func runConvert(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return errors.New("no input file specified")
	}

	cfg := loadConfig(cmd)
	if err := checkOutputMode(cfg.Zip, cmd.String("pages")); err != nil {
		return err
	}
	logger, err := newLogger(cmd.Bool("verbose"))
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	// A renderer that fails to start leaves the converter without one, so
	// every file is reported as "library not loaded".
	renderer, closeRenderer, err := newRenderer(cfg)
	if err != nil {
		logger.Error("renderer unavailable", zap.String("renderer", cfg.Renderer), zap.Error(err))
	}
	defer closeRenderer()

	refs, err := pdfpng.NewTempRefs("")
	if err != nil {
		return err
	}
	defer refs.Close()

	display := term.New(os.Stderr)
	downloader := &pdfpng.DirDownloader{
		Dir:   cfg.OutDir,
		Refs:  refs,
		Saved: func(path string) { fmt.Fprintln(os.Stdout, path) },
	}

	opts := []pdfpng.Option{
		pdfpng.WithArchiver(pdfpng.NewZipArchiver()),
		pdfpng.WithRefStore(refs),
		pdfpng.WithDisplay(display),
		pdfpng.WithDownloader(downloader),
		pdfpng.WithLogger(logger),
		pdfpng.WithResultsDelay(0),
		pdfpng.WithErrorTTL(0),
	}
	if cfg.PDFJS.CMapURL != "" {
		opts = append(opts, pdfpng.WithCMaps(cfg.PDFJS.CMapURL, true))
	}
	conv := pdfpng.NewConverter(renderer, opts...)
	defer conv.Close()

	failed := 0
	for _, path := range files {
		if err := convertFile(ctx, conv, cfg, path, cmd.String("pages")); err != nil {
			logger.Debug("file failed", zap.String("file", path), zap.Error(err))
			failed++
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

// checkOutputMode rejects a page selection together with an archive:
// the archive always holds every page.
func checkOutputMode(zip bool, pages string) error {
	if zip && pages != "" {
		return errors.New("--pages cannot be combined with --zip (or PDFPNG_ZIP); the archive holds every page")
	}
	return nil
}

// convertFile converts one file and saves the requested pages. Failures
// have already been shown on the display.
func convertFile(ctx context.Context, conv *pdfpng.Converter, cfg *config.AppConfig, path, pages string) error {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	src, err := pdfpng.OpenSourceFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	if err := conv.Select(ctx, src); err != nil {
		return err
	}

	arts := conv.Artifacts()
	if cfg.Zip {
		return conv.DownloadAll(ctx)
	}

	indices, err := parsePageRange(pages, len(arts))
	if err != nil {
		err = fmt.Errorf("invalid page range %q: %w", pages, err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	for _, idx := range indices {
		if err := conv.Download(ctx, idx+1); err != nil {
			fmt.Fprintf(os.Stderr, "error: page %d: %v\n", idx+1, err)
			return err
		}
	}
	return nil
}

// runInfo implements the "info" command.
func runInfo(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return errors.New("no input file specified")
	}
	inputFile := cmd.Args().First()

	info, err := pdfinfo.Open(inputFile)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inputFile, err)
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(struct {
			File string `json:"file"`
			pdfinfo.Info
		}{inputFile, info}); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	}

	fmt.Printf("File:      %s\n", inputFile)
	fmt.Printf("Size:      %s\n", pdfpng.FormatFileSize(int64(info.Size)))
	fmt.Printf("Version:   PDF-%s\n", info.Version)
	fmt.Printf("Encrypted: %t\n", info.Encrypted)
	if info.Pages > 0 {
		fmt.Printf("Pages:     %d\n", info.Pages)
	} else {
		fmt.Println("Pages:     unknown")
	}
	if info.HeaderOffset > 0 {
		fmt.Printf("Header at: byte %d\n", info.HeaderOffset)
	}
	if info.StartXRef < 0 {
		fmt.Println("Xref:      missing (file may be truncated)")
	}
	return nil
}
