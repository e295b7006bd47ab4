package pdfpng

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/porticus-lab/go-pdf-png/internal/pdfinfo"
)

// Converter turns a selected PDF file into one PNG artifact per page and
// drives a [Display] through the upload, processing and results phases.
//
// Conversions run one at a time. All methods are safe for concurrent use;
// a [Converter.Select] or [Converter.Reset] issued while a conversion is
// running returns [ErrBusy].
//
// Call [Converter.Close] when the Converter is no longer needed to release
// every outstanding reference.
type Converter struct {
	renderer Renderer
	cfg      converterConfig
	log      *zap.Logger

	// run is held for the duration of a conversion.
	run sync.Mutex

	mu     sync.Mutex
	phase  Phase
	sess   *session
	closed bool

	errMu    sync.Mutex
	errTimer *time.Timer
	errGen   uint64
}

// NewConverter creates a Converter that renders with r. A nil r models a
// renderer that failed to initialize: every selection is then rejected
// with [LibraryUnavailable].
func NewConverter(r Renderer, opts ...Option) *Converter {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.refs == nil {
		cfg.refs = NewMemRefs()
	}
	if cfg.downloader == nil {
		cfg.downloader = &DirDownloader{Dir: "."}
	}
	if d, ok := cfg.downloader.(*DirDownloader); ok && d.Refs == nil {
		d.Refs = cfg.refs
	}
	return &Converter{
		renderer: r,
		cfg:      cfg,
		log:      cfg.logger,
		phase:    PhaseUpload,
	}
}

// Phase returns the current UI phase.
func (c *Converter) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Artifacts returns the pages converted in the current session, in page
// order. After a failed conversion it holds the pages finished before the
// failure.
func (c *Converter) Artifacts() []*Artifact {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return nil
	}
	return c.sess.snapshot()
}

// BaseName returns the display name of the current file without its
// extension, or "" when no file is selected.
func (c *Converter) BaseName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return ""
	}
	return c.sess.base
}

// Select validates the first of files and converts it. Extra files are
// ignored; an empty call does nothing.
//
// Every failure is reported to the display and returned as an [*Error].
// Validation failures leave the phase unchanged; conversion failures
// return the phase to [PhaseUpload].
func (c *Converter) Select(ctx context.Context, files ...SourceFile) error {
	if len(files) == 0 {
		return nil
	}
	if err := c.checkClosed(); err != nil {
		return err
	}

	f := files[0]
	c.log.Info("file selected",
		zap.String("name", f.Name),
		zap.String("type", f.MediaType),
	)

	if !f.IsPDF() {
		return c.reject(newError("select", InvalidFileType, fmt.Errorf("%q is not a PDF", f.Name)))
	}
	if c.renderer == nil {
		return c.reject(newError("select", LibraryUnavailable, errors.New("renderer not initialized")))
	}

	if !c.run.TryLock() {
		return ErrBusy
	}
	defer c.run.Unlock()
	// Close may have finished between the check above and the lock.
	if err := c.checkClosed(); err != nil {
		return err
	}

	return c.convert(ctx, f)
}

// convert runs the page loop for f. The caller holds c.run.
func (c *Converter) convert(ctx context.Context, f SourceFile) error {
	sess := newSession(f.BaseName())

	c.mu.Lock()
	prev := c.sess
	c.sess = sess
	fromResults := c.phase == PhaseResults
	c.mu.Unlock()

	if prev != nil {
		if err := prev.release(c.cfg.refs); err != nil {
			c.log.Warn("releasing previous session", zap.Error(err))
		}
	}
	if fromResults {
		c.setPhase(PhaseUpload)
		c.cfg.display.ClearResults()
	}

	c.log.Info("starting conversion", zap.String("file", f.Name))
	c.setPhase(PhaseProcessing)

	data, err := f.bytes()
	if err != nil {
		return c.fail(err, nil)
	}
	c.log.Info("file read", zap.Int("bytes", len(data)))

	doc, err := c.renderer.Open(ctx, data, c.cfg.open)
	if err != nil {
		return c.fail(err, data)
	}
	defer func() {
		if err := doc.Close(); err != nil {
			c.log.Warn("closing document", zap.Error(err))
		}
	}()

	total := doc.NumPages()
	c.log.Info("document loaded", zap.Int("pages", total))

	surface := doc.Surface()
	for n := 1; n <= total; n++ {
		c.cfg.display.SetProgress(pageProgress(n-1, total))

		a, err := c.renderPage(ctx, doc, surface, sess.base, n, total)
		if err != nil {
			return c.fail(fmt.Errorf("page %d: %w", n, err), nil)
		}

		c.mu.Lock()
		sess.add(a)
		c.mu.Unlock()
	}

	c.cfg.display.SetProgress(completeProgress)
	if err := sleep(ctx, c.cfg.resultsDelay); err != nil {
		return c.fail(err, nil)
	}

	c.setPhase(PhaseResults)
	c.cfg.display.ShowResults(c.Artifacts())
	c.log.Info("conversion complete", zap.Int("pages", total))
	return nil
}

func (c *Converter) renderPage(ctx context.Context, doc Document, s Surface, base string, n, total int) (*Artifact, error) {
	page, err := doc.Page(ctx, n)
	if err != nil {
		return nil, err
	}
	vp, err := page.Viewport(ctx, Scale)
	if err != nil {
		return nil, err
	}
	if err := s.Resize(ctx, vp); err != nil {
		return nil, err
	}
	if err := page.Render(ctx, s, vp); err != nil {
		return nil, err
	}
	png, err := s.EncodePNG(ctx)
	if err != nil {
		return nil, err
	}

	name := PageFileName(base, n, total)
	ref, err := c.cfg.refs.Mint(name, png)
	if err != nil {
		return nil, err
	}
	return newArtifact(n, name, png, ref), nil
}

// fail classifies a conversion error, returns to the upload phase and
// shows the message. data, when non-nil, is the document that failed to
// open and feeds the preflight scan.
func (c *Converter) fail(err error, data []byte) error {
	kind := Classify(err)
	if kind == UnclassifiedConversionFailure && data != nil && c.cfg.preflight {
		kind = preflightKind(data)
	}
	e := newError("convert", kind, err)
	c.log.Error("conversion failed", zap.Stringer("kind", kind), zap.Error(err))

	c.setPhase(PhaseUpload)
	c.showError(e.Message())
	return e
}

// preflightKind explains an open failure from the file structure alone.
func preflightKind(data []byte) Kind {
	info, err := pdfinfo.Inspect(data)
	switch {
	case err != nil:
		return CorruptDocument
	case info.Encrypted:
		return PasswordProtected
	}
	return UnclassifiedConversionFailure
}

// reject reports a validation failure without changing phase.
func (c *Converter) reject(e *Error) error {
	c.log.Warn("file rejected", zap.Stringer("kind", e.Kind), zap.Error(e.Err))
	c.showError(e.Message())
	return e
}

// DownloadAll archives every artifact and triggers one download named
// "{base}_png_images.zip". It does nothing when there are no artifacts.
// The archive reference is released as soon as the download has been
// handed off.
func (c *Converter) DownloadAll(ctx context.Context) error {
	if err := c.checkClosed(); err != nil {
		return err
	}

	c.mu.Lock()
	var (
		base    string
		entries []ArchiveEntry
	)
	if c.sess != nil {
		base = c.sess.base
		entries = c.sess.entries()
	}
	c.mu.Unlock()

	if len(entries) == 0 {
		return nil
	}
	if c.cfg.archiver == nil {
		e := errArchiverUnavailable()
		c.log.Error("archiver not available")
		c.showError(e.Message())
		return e
	}

	blob, err := c.cfg.archiver.Archive(ctx, entries)
	if err != nil {
		return c.downloadFailed(err)
	}

	name := ArchiveFileName(base)
	ref, err := c.cfg.refs.Mint(name, blob)
	if err != nil {
		return c.downloadFailed(err)
	}
	defer func() {
		if err := c.cfg.refs.Release(ref); err != nil {
			c.log.Warn("releasing archive reference", zap.Error(err))
		}
	}()

	if err := c.cfg.downloader.Download(ctx, ref, name); err != nil {
		return c.downloadFailed(err)
	}
	c.log.Info("archive downloaded", zap.String("name", name), zap.Int("entries", len(entries)))
	return nil
}

func (c *Converter) downloadFailed(err error) error {
	e := errArchiverUnavailable()
	e.Kind = UnclassifiedConversionFailure
	e.Err = err
	c.log.Error("bulk download failed", zap.Error(err))
	c.showError(e.Message())
	return e
}

// Download triggers a download of a single page's PNG under its
// generated name.
func (c *Converter) Download(ctx context.Context, page int) error {
	if err := c.checkClosed(); err != nil {
		return err
	}

	c.mu.Lock()
	var a *Artifact
	if c.sess != nil {
		a = c.sess.artifact(page)
	}
	var ref Ref
	var name string
	if a != nil {
		ref, name = a.Ref, a.Name
	}
	c.mu.Unlock()

	if a == nil {
		return fmt.Errorf("%w %d", ErrNoArtifact, page)
	}
	if err := c.cfg.downloader.Download(ctx, ref, name); err != nil {
		return newError("download", Classify(err), err)
	}
	return nil
}

// Reset releases every artifact reference, clears the session and returns
// the display to an empty upload phase.
func (c *Converter) Reset() error {
	if err := c.checkClosed(); err != nil {
		return err
	}
	c.log.Info("reset requested")
	if !c.run.TryLock() {
		return ErrBusy
	}
	defer c.run.Unlock()
	if err := c.checkClosed(); err != nil {
		return err
	}

	c.mu.Lock()
	sess := c.sess
	c.sess = nil
	c.mu.Unlock()

	var err error
	if sess != nil {
		err = sess.release(c.cfg.refs)
	}

	c.setPhase(PhaseUpload)
	c.cfg.display.SetProgress(Progress{})
	c.cfg.display.ClearResults()
	c.clearError()
	c.cfg.display.ClearInput()
	return err
}

// Close waits for a running conversion, then releases all resources held
// by the Converter. Close is idempotent.
func (c *Converter) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.run.Lock()
	defer c.run.Unlock()

	c.errMu.Lock()
	if c.errTimer != nil {
		c.errTimer.Stop()
		c.errTimer = nil
	}
	c.errGen++
	c.errMu.Unlock()

	c.mu.Lock()
	sess := c.sess
	c.sess = nil
	c.mu.Unlock()
	if sess != nil {
		return sess.release(c.cfg.refs)
	}
	return nil
}

func (c *Converter) checkClosed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

func (c *Converter) setPhase(to Phase) {
	c.mu.Lock()
	from := c.phase
	if !canTransition(from, to) {
		c.mu.Unlock()
		c.log.Warn("ignoring phase change", zap.Stringer("from", from), zap.Stringer("to", to))
		return
	}
	c.phase = to
	c.mu.Unlock()
	c.cfg.display.SetPhase(to)
}

// showError replaces the displayed message and schedules it to clear.
func (c *Converter) showError(msg string) {
	c.errMu.Lock()
	defer c.errMu.Unlock()

	if c.errTimer != nil {
		c.errTimer.Stop()
		c.errTimer = nil
	}
	c.errGen++
	gen := c.errGen
	c.cfg.display.ShowError(msg)
	if c.cfg.errorTTL > 0 {
		c.errTimer = time.AfterFunc(c.cfg.errorTTL, func() { c.expireError(gen) })
	}
}

func (c *Converter) expireError(gen uint64) {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	if gen != c.errGen {
		return
	}
	c.errTimer = nil
	c.cfg.display.ClearError()
}

func (c *Converter) clearError() {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	if c.errTimer != nil {
		c.errTimer.Stop()
		c.errTimer = nil
	}
	c.errGen++
	c.cfg.display.ClearError()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
