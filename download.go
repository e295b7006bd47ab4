package pdfpng

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Downloader saves the data behind ref under filename.
type Downloader interface {
	Download(ctx context.Context, ref Ref, filename string) error
}

// DirDownloader saves downloads into a local directory.
type DirDownloader struct {
	Dir  string
	Refs RefStore
	// Saved, if set, is called with the path of every completed download.
	Saved func(path string)
}

// Download copies the referenced data to Dir/filename, creating Dir if
// needed. Only the base of filename is used.
func (d *DirDownloader) Download(ctx context.Context, ref Ref, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("pdfpng: creating %s: %w", d.Dir, err)
	}

	src, err := d.Refs.Open(ref)
	if err != nil {
		return fmt.Errorf("pdfpng: opening %s: %w", filename, err)
	}
	defer src.Close()

	path := filepath.Join(d.Dir, filepath.Base(filename))
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pdfpng: creating %s: %w", path, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("pdfpng: writing %s: %w", path, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("pdfpng: closing %s: %w", path, err)
	}
	if d.Saved != nil {
		d.Saved(path)
	}
	return nil
}
