package pdfpng

import (
	"context"
	"math"
)

// Scale is the fixed oversampling factor applied to every page. A page of
// 612x792 points renders to 1224x1584 pixels.
const Scale = 2.0

// pointsPerInch is the PDF user-space unit density.
const pointsPerInch = 72.0

// Viewport holds the pixel dimensions of a page rendered at Scale.
type Viewport struct {
	Width  int
	Height int
	Scale  float64
}

// ViewportFor converts page dimensions in points to a pixel viewport at
// scale. Fractional pixels are dropped, as a canvas does when its size is
// assigned.
func ViewportFor(widthPt, heightPt, scale float64) Viewport {
	return Viewport{
		Width:  int(math.Floor(math.Abs(widthPt) * scale)),
		Height: int(math.Floor(math.Abs(heightPt) * scale)),
		Scale:  scale,
	}
}

// DPI returns the rasterization density equivalent to the viewport scale.
func (v Viewport) DPI() float64 {
	return pointsPerInch * v.Scale
}

// Empty reports whether the viewport has no drawable area.
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// OpenOptions carries the resource locations a renderer may need when
// opening a document.
type OpenOptions struct {
	// CMapURL is the base location of character maps used by some
	// embedded CJK fonts.
	CMapURL string
	// CMapPacked selects the binary (.bcmap) character map format.
	CMapPacked bool
}

// Renderer opens PDF bytes for page-by-page rasterization.
//
// Implementations should wrap [ErrInvalidDocument], [ErrPasswordRequired]
// or [ErrResourceUnavailable] so that failures classify without text
// matching.
type Renderer interface {
	Open(ctx context.Context, data []byte, opts OpenOptions) (Document, error)
}

// Document is an opened PDF.
type Document interface {
	// NumPages returns the page count.
	NumPages() int
	// Page returns page n, 1-indexed.
	Page(ctx context.Context, n int) (Page, error)
	// Surface returns the drawing surface shared by all pages of the
	// document. Pages must be rendered onto it one at a time.
	Surface() Surface
	Close() error
}

// Page is one page of a [Document].
type Page interface {
	Viewport(ctx context.Context, scale float64) (Viewport, error)
	Render(ctx context.Context, s Surface, vp Viewport) error
}

// Surface is a resizable raster target.
type Surface interface {
	Resize(ctx context.Context, vp Viewport) error
	EncodePNG(ctx context.Context) ([]byte, error)
}
