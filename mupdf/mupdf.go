// Package mupdf renders PDF pages natively with MuPDF through go-fitz.
//
// It needs no browser or network access, which makes it the default
// renderer of the pdf2png command. Character maps for CJK fonts are built
// into MuPDF, so [pdfpng.OpenOptions] is ignored.
package mupdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/gen2brain/go-fitz"

	pdfpng "github.com/porticus-lab/go-pdf-png"
	"github.com/porticus-lab/go-pdf-png/internal/pdfinfo"
)

// Renderer implements [pdfpng.Renderer] with MuPDF. The zero value is
// ready to use.
type Renderer struct{}

// New returns a MuPDF renderer.
func New() *Renderer {
	return &Renderer{}
}

// Open parses data in memory.
func (r *Renderer) Open(ctx context.Context, data []byte, _ pdfpng.OpenOptions) (pdfpng.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// MuPDF also reads images, text and ebooks; only accept PDF input.
	if _, err := pdfinfo.Inspect(data); err != nil {
		return nil, fmt.Errorf("%w: %v", pdfpng.ErrInvalidDocument, err)
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		if errors.Is(err, fitz.ErrNeedsPassword) {
			return nil, fmt.Errorf("%w: %v", pdfpng.ErrPasswordRequired, err)
		}
		return nil, fmt.Errorf("%w: %v", pdfpng.ErrInvalidDocument, err)
	}
	return &document{doc: doc, pages: doc.NumPage(), surface: &surface{}}, nil
}

type document struct {
	doc     *fitz.Document
	pages   int
	surface *surface
}

func (d *document) NumPages() int {
	return d.pages
}

func (d *document) Page(ctx context.Context, n int) (pdfpng.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < 1 || n > d.pages {
		return nil, fmt.Errorf("mupdf: page %d out of range 1-%d", n, d.pages)
	}
	return &page{doc: d, index: n - 1}, nil
}

func (d *document) Surface() pdfpng.Surface {
	return d.surface
}

func (d *document) Close() error {
	return d.doc.Close()
}

type page struct {
	doc   *document
	index int
}

// Viewport reads the page bounds, which MuPDF reports in points.
func (p *page) Viewport(ctx context.Context, scale float64) (pdfpng.Viewport, error) {
	if err := ctx.Err(); err != nil {
		return pdfpng.Viewport{}, err
	}
	b, err := p.doc.doc.Bound(p.index)
	if err != nil {
		return pdfpng.Viewport{}, fmt.Errorf("mupdf: bounds of page %d: %w", p.index+1, err)
	}
	return pdfpng.ViewportFor(float64(b.Dx()), float64(b.Dy()), scale), nil
}

// Render rasterizes the page at the viewport's density and copies the
// pixels onto s.
func (p *page) Render(ctx context.Context, s pdfpng.Surface, vp pdfpng.Viewport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, ok := s.(*surface)
	if !ok {
		return fmt.Errorf("mupdf: cannot render onto %T", s)
	}
	img, err := p.doc.doc.ImageDPI(p.index, vp.DPI())
	if err != nil {
		return fmt.Errorf("mupdf: rendering page %d: %w", p.index+1, err)
	}
	dst.draw(img)
	return nil
}

// surface is a reusable RGBA buffer. Its backing array is kept across
// pages and only grows.
type surface struct {
	img *image.RGBA
}

func (s *surface) Resize(ctx context.Context, vp pdfpng.Viewport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if vp.Empty() {
		return fmt.Errorf("mupdf: empty viewport %dx%d", vp.Width, vp.Height)
	}
	s.resize(vp.Width, vp.Height)
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return nil
}

func (s *surface) resize(w, h int) {
	n := 4 * w * h
	if s.img != nil && cap(s.img.Pix) >= n {
		s.img = &image.RGBA{Pix: s.img.Pix[:n], Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

// draw copies src onto the surface. MuPDF rounds page bounds outward, so
// the raster can differ from the viewport by a pixel; the raster wins.
func (s *surface) draw(src *image.RGBA) {
	b := src.Bounds()
	if s.img == nil || s.img.Bounds().Size() != b.Size() {
		s.resize(b.Dx(), b.Dy())
	}
	draw.Draw(s.img, s.img.Bounds(), src, b.Min, draw.Src)
}

func (s *surface) EncodePNG(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.img == nil {
		return nil, errors.New("mupdf: nothing rendered")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.img); err != nil {
		return nil, fmt.Errorf("mupdf: encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
