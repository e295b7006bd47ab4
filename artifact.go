package pdfpng

import (
	"bytes"
	"encoding/base64"
	"io"
	"os"
)

// Artifact is one converted page.
//
// An Artifact is returned by [Converter.Artifacts]. It is safe to call
// its byte helpers multiple times; the underlying PNG data is never
// modified. Each call hands out a fresh copy, so fields never change
// under the caller. Ref resolves until the owning session is released;
// after that the [RefStore] reports [ErrRefReleased] for it.
type Artifact struct {
	// Page is the 1-based page number.
	Page int
	// Name is the download file name, e.g. "report_page_01.png".
	Name string
	// Size is the PNG size formatted by [FormatFileSize].
	Size string
	// Ref resolves to the PNG bytes for previews and downloads.
	Ref Ref

	data []byte
}

func newArtifact(page int, name string, data []byte, ref Ref) *Artifact {
	return &Artifact{
		Page: page,
		Name: name,
		Size: FormatFileSize(int64(len(data))),
		Ref:  ref,
		data: data,
	}
}

// Bytes returns the raw PNG content.
func (a *Artifact) Bytes() []byte {
	return a.data
}

// Base64 returns the PNG encoded as a standard base64 string (RFC 4648),
// suitable for a data: URL preview.
func (a *Artifact) Base64() string {
	return base64.StdEncoding.EncodeToString(a.data)
}

// Reader returns an [*bytes.Reader] over the PNG content.
func (a *Artifact) Reader() *bytes.Reader {
	return bytes.NewReader(a.data)
}

// WriteTo writes the full PNG content to w. It implements [io.WriterTo].
func (a *Artifact) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(a.data)
	return int64(n), err
}

// WriteToFile writes the PNG to the file at path, creating it if needed.
func (a *Artifact) WriteToFile(path string, perm os.FileMode) error {
	return os.WriteFile(path, a.data, perm)
}

// Len returns the size of the PNG in bytes.
func (a *Artifact) Len() int {
	return len(a.data)
}
