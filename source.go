package pdfpng

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
)

// SourceFile is a user-selected input file.
//
// Either Data or Content must be set. Content is read in full when the
// conversion starts; a read failure is reported as an unclassified
// conversion error.
type SourceFile struct {
	Name      string
	MediaType string
	Data      []byte
	Content   io.Reader
}

// OpenSourceFile reads the file at path. The media type is derived from
// the extension.
func OpenSourceFile(path string) (SourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SourceFile{}, fmt.Errorf("pdfpng: reading %s: %w", path, err)
	}
	return SourceFile{
		Name:      filepath.Base(path),
		MediaType: mime.TypeByExtension(filepath.Ext(path)),
		Data:      data,
	}, nil
}

// BaseName returns the display name without its ".pdf" extension.
func (f SourceFile) BaseName() string {
	return BaseName(f.Name)
}

// IsPDF reports whether the declared media type or the name indicates a
// PDF.
func (f SourceFile) IsPDF() bool {
	return f.MediaType == PDFMediaType || isPDFName(f.Name)
}

func (f SourceFile) bytes() ([]byte, error) {
	if f.Content == nil {
		return f.Data, nil
	}
	data, err := io.ReadAll(f.Content)
	if err != nil {
		return nil, fmt.Errorf("pdfpng: reading %s: %w", f.Name, err)
	}
	return data, nil
}
