// Package pdfjs renders PDF pages with pdf.js running inside a headless
// Chrome instance driven over the Chrome DevTools Protocol.
//
// Each opened document gets its own browser tab holding one canvas. Pages
// are rasterized onto that canvas in turn and exported as PNG:
//
//	r, err := pdfjs.New(pdfjs.WithNoSandbox())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	conv := pdfpng.NewConverter(r)
//
// pdf.js itself is loaded from [DefaultLibraryURL] unless overridden; a
// failure to fetch it surfaces as [pdfpng.ErrResourceUnavailable].
package pdfjs

import (
	"context"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	pdfpng "github.com/porticus-lab/go-pdf-png"
)

//go:embed harness.js
var harness string

// ErrClosed is returned when attempting to use a closed [Renderer].
var ErrClosed = errors.New("pdfjs: renderer is closed")

// Renderer implements [pdfpng.Renderer] on top of a headless browser.
//
// A Renderer manages one browser process that is reused across documents.
// It is safe for concurrent use; each document renders in its own tab.
//
// Call [Renderer.Close] when the Renderer is no longer needed to release
// browser resources.
type Renderer struct {
	cfg           config
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// New starts a headless browser with the given options.
//
// The browser starts eagerly so that a missing or broken installation is
// reported here rather than on the first document.
func New(opts ...Option) (*Renderer, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.chromePath == "" && cfg.autoDownload {
		if _, ok := lookBrowser(); !ok {
			path, err := resolveBrowser()
			if err != nil {
				return nil, err
			}
			cfg.chromePath = path
		}
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("headless", cfg.headless),
	)
	if cfg.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(cfg.chromePath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("pdfjs: starting browser: %w", err)
	}

	return &Renderer{
		cfg:           cfg,
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close shuts the browser down. Close is idempotent.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	r.browserCancel()
	r.allocCancel()
	return nil
}

func (r *Renderer) checkClosed() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	return nil
}

// Open loads pdf.js into a fresh tab and opens data there. Character maps
// default to the renderer's configured location when opts leaves them
// empty.
func (r *Renderer) Open(ctx context.Context, data []byte, opts pdfpng.OpenOptions) (pdfpng.Document, error) {
	if err := r.checkClosed(); err != nil {
		return nil, err
	}
	if opts.CMapURL == "" {
		opts = pdfpng.OpenOptions{CMapURL: r.cfg.cmapURL, CMapPacked: true}
	}

	tabCtx, tabCancel := chromedp.NewContext(r.browserCtx)
	d := &document{cfg: r.cfg, tabCtx: tabCtx, cancel: tabCancel}

	if err := d.run(ctx, chromedp.Navigate("about:blank")); err != nil {
		tabCancel()
		return nil, fmt.Errorf("pdfjs: opening tab: %w", err)
	}
	var installed bool
	if err := d.run(ctx, chromedp.Evaluate(harness, &installed)); err != nil {
		tabCancel()
		return nil, fmt.Errorf("pdfjs: installing harness: %w", err)
	}
	if _, err := d.call(ctx, "load", r.cfg.libraryURL, r.cfg.workerURL); err != nil {
		tabCancel()
		return nil, err
	}
	res, err := d.call(ctx, "open", base64.StdEncoding.EncodeToString(data), opts.CMapURL, opts.CMapPacked)
	if err != nil {
		tabCancel()
		return nil, err
	}
	d.pages = res.Pages
	d.surface = &surface{doc: d}
	return d, nil
}

// result is the envelope every harness call resolves to.
type result struct {
	OK      bool    `json:"ok"`
	Name    string  `json:"name"`
	Message string  `json:"message"`
	Pages   int     `json:"pages"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Data    string  `json:"data"`
}

type document struct {
	cfg     config
	tabCtx  context.Context
	cancel  context.CancelFunc
	pages   int
	surface *surface

	closeOnce sync.Once
}

// run executes actions in the document tab. Cancelling ctx tears the tab
// down, which aborts any in-flight evaluation.
func (d *document) run(ctx context.Context, actions ...chromedp.Action) error {
	if d.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.timeout)
		defer cancel()
	}
	stop := context.AfterFunc(ctx, d.cancel)
	defer stop()

	err := chromedp.Run(d.tabCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// call invokes window.__pdfpng[fn](args...) and awaits its result.
func (d *document) call(ctx context.Context, fn string, args ...any) (result, error) {
	encoded, err := json.Marshal(args)
	if err != nil {
		return result{}, fmt.Errorf("pdfjs: encoding %s arguments: %w", fn, err)
	}
	expr := fmt.Sprintf("window.__pdfpng.%s(...%s)", fn, encoded)

	var res result
	if err := d.run(ctx, chromedp.Evaluate(expr, &res, awaitPromise)); err != nil {
		return result{}, fmt.Errorf("pdfjs: %s: %w", fn, err)
	}
	if !res.OK {
		return res, jsError(fn, res.Name, res.Message)
	}
	return res, nil
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

func (d *document) NumPages() int {
	return d.pages
}

func (d *document) Page(ctx context.Context, n int) (pdfpng.Page, error) {
	if n < 1 || n > d.pages {
		return nil, fmt.Errorf("pdfjs: page %d out of range 1-%d", n, d.pages)
	}
	return &page{doc: d, n: n}, nil
}

func (d *document) Surface() pdfpng.Surface {
	return d.surface
}

// Close destroys the pdf.js document and closes its tab. A browser that
// does not answer within the close timeout has its tab cancelled anyway.
func (d *document) Close() error {
	var err error
	d.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.closeTimeout())
		defer cancel()
		_, err = d.call(ctx, "close")
		d.cancel()
	})
	return err
}

type page struct {
	doc *document
	n   int
}

// Viewport asks pdf.js for the page size in points, rotation included,
// and scales it.
func (p *page) Viewport(ctx context.Context, scale float64) (pdfpng.Viewport, error) {
	res, err := p.doc.call(ctx, "viewport", p.n)
	if err != nil {
		return pdfpng.Viewport{}, err
	}
	return pdfpng.ViewportFor(res.Width, res.Height, scale), nil
}

func (p *page) Render(ctx context.Context, s pdfpng.Surface, vp pdfpng.Viewport) error {
	if _, ok := s.(*surface); !ok {
		return fmt.Errorf("pdfjs: cannot render onto %T", s)
	}
	_, err := p.doc.call(ctx, "render", p.n, vp.Scale)
	return err
}

// surface is the tab's canvas.
type surface struct {
	doc *document
}

func (s *surface) Resize(ctx context.Context, vp pdfpng.Viewport) error {
	if vp.Empty() {
		return fmt.Errorf("pdfjs: empty viewport %dx%d", vp.Width, vp.Height)
	}
	_, err := s.doc.call(ctx, "resize", vp.Width, vp.Height)
	return err
}

func (s *surface) EncodePNG(ctx context.Context) ([]byte, error) {
	res, err := s.doc.call(ctx, "png")
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(res.Data)
	if err != nil {
		return nil, fmt.Errorf("pdfjs: decoding canvas data: %w", err)
	}
	return data, nil
}

// jsError maps a pdf.js exception name onto the structured failure
// reasons.
func jsError(fn, name, msg string) error {
	switch name {
	case "InvalidPDFException":
		return fmt.Errorf("%w: %s", pdfpng.ErrInvalidDocument, msg)
	case "PasswordException":
		return fmt.Errorf("%w: %s", pdfpng.ErrPasswordRequired, msg)
	case "NetworkError", "MissingPDFException", "UnexpectedResponseException":
		return fmt.Errorf("%w: %s: %s", pdfpng.ErrResourceUnavailable, name, msg)
	}
	return fmt.Errorf("pdfjs: %s: %s: %s", fn, name, msg)
}
