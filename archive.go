package pdfpng

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/klauspost/compress/zip"
)

// ArchiveEntry is one named file inside an archive.
type ArchiveEntry struct {
	Name string
	Data []byte
}

// Archiver combines entries into a single archive blob.
type Archiver interface {
	Archive(ctx context.Context, entries []ArchiveEntry) ([]byte, error)
}

// ZipArchiver builds zip archives. The zero value stores entries without
// compression; PNG data is already deflated.
type ZipArchiver struct {
	deflate bool
	now     func() time.Time
}

// ZipOption configures a [ZipArchiver].
type ZipOption func(*ZipArchiver)

// WithDeflate compresses entries instead of storing them.
func WithDeflate() ZipOption {
	return func(z *ZipArchiver) {
		z.deflate = true
	}
}

// NewZipArchiver returns a zip [Archiver].
func NewZipArchiver(opts ...ZipOption) *ZipArchiver {
	z := &ZipArchiver{now: time.Now}
	for _, o := range opts {
		o(z)
	}
	return z
}

// Archive writes every entry, in order, into one zip blob.
func (z *ZipArchiver) Archive(ctx context.Context, entries []ArchiveEntry) ([]byte, error) {
	method := zip.Store
	if z.deflate {
		method = zip.Deflate
	}
	now := time.Now
	if z.now != nil {
		now = z.now
	}
	modified := now()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			zw.Close()
			return nil, err
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   method,
			Modified: modified,
		})
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("pdfpng: adding %s to archive: %w", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			zw.Close()
			return nil, fmt.Errorf("pdfpng: writing %s to archive: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("pdfpng: finishing archive: %w", err)
	}
	return buf.Bytes(), nil
}
