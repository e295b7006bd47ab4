package mupdf

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdfpng "github.com/porticus-lab/go-pdf-png"
	"github.com/porticus-lab/go-pdf-png/internal/testpdf"
)

func TestRenderPages(t *testing.T) {
	ctx := context.Background()
	doc, err := New().Open(ctx, testpdf.Pages(2), pdfpng.OpenOptions{})
	require.NoError(t, err)
	defer doc.Close()

	require.Equal(t, 2, doc.NumPages())

	s := doc.Surface()
	for n := 1; n <= 2; n++ {
		p, err := doc.Page(ctx, n)
		require.NoError(t, err)

		vp, err := p.Viewport(ctx, pdfpng.Scale)
		require.NoError(t, err)
		assert.Equal(t, 1224, vp.Width)
		assert.Equal(t, 1584, vp.Height)

		require.NoError(t, s.Resize(ctx, vp))
		require.NoError(t, p.Render(ctx, s, vp))

		data, err := s.EncodePNG(ctx)
		require.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.InDelta(t, 1224, img.Bounds().Dx(), 1)
		assert.InDelta(t, 1584, img.Bounds().Dy(), 1)
	}
}

func TestOpenInvalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte("definitely not a pdf")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Open(context.Background(), tt.data, pdfpng.OpenOptions{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, pdfpng.ErrInvalidDocument), "got %v", err)
			assert.Equal(t, pdfpng.CorruptDocument, pdfpng.Classify(err))
		})
	}
}

func TestOpenPasswordProtected(t *testing.T) {
	data := testpdf.Build(testpdf.Options{Encrypt: true})

	_, err := New().Open(context.Background(), data, pdfpng.OpenOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pdfpng.ErrPasswordRequired), "got %v", err)

	conv := pdfpng.NewConverter(New(), pdfpng.WithResultsDelay(0), pdfpng.WithErrorTTL(0))
	defer conv.Close()

	err = conv.Select(context.Background(), pdfpng.SourceFile{Name: "locked.pdf", Data: data})
	assert.Equal(t, pdfpng.PasswordProtected, pdfpng.Classify(err))
	assert.Equal(t, pdfpng.PhaseUpload, conv.Phase())
	assert.Empty(t, conv.Artifacts())
}

func TestOpenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Open(ctx, testpdf.Pages(1), pdfpng.OpenOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPageOutOfRange(t *testing.T) {
	ctx := context.Background()
	doc, err := New().Open(ctx, testpdf.Pages(1), pdfpng.OpenOptions{})
	require.NoError(t, err)
	defer doc.Close()

	_, err = doc.Page(ctx, 0)
	assert.Error(t, err)
	_, err = doc.Page(ctx, 2)
	assert.Error(t, err)
}

func TestSurfaceReuse(t *testing.T) {
	ctx := context.Background()
	s := &surface{}

	require.NoError(t, s.Resize(ctx, pdfpng.Viewport{Width: 20, Height: 10, Scale: 1}))
	big := &s.img.Pix[0]

	require.NoError(t, s.Resize(ctx, pdfpng.Viewport{Width: 5, Height: 5, Scale: 1}))
	assert.Equal(t, image.Rect(0, 0, 5, 5), s.img.Bounds())
	assert.Same(t, big, &s.img.Pix[0], "smaller resize should reuse the buffer")
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, s.img.RGBAAt(4, 4))

	src := image.NewRGBA(image.Rect(0, 0, 6, 5))
	src.SetRGBA(5, 4, color.RGBA{1, 2, 3, 255})
	s.draw(src)
	assert.Equal(t, image.Rect(0, 0, 6, 5), s.img.Bounds())
	assert.Equal(t, color.RGBA{1, 2, 3, 255}, s.img.RGBAAt(5, 4))

	assert.Error(t, s.Resize(ctx, pdfpng.Viewport{}))
}

func TestEncodeBeforeRender(t *testing.T) {
	_, err := (&surface{}).EncodePNG(context.Background())
	assert.Error(t, err)
}
