package pdfpng

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

var samplePNG = []byte("\x89PNG\r\n\x1a\nfake content for testing")

func newTestArtifact() *Artifact {
	return newArtifact(3, "report_page_03.png", samplePNG, Ref{URL: "blob:test"})
}

func TestArtifact_Metadata(t *testing.T) {
	a := newTestArtifact()
	if a.Page != 3 {
		t.Errorf("Page = %d, want 3", a.Page)
	}
	if a.Name != "report_page_03.png" {
		t.Errorf("Name = %q", a.Name)
	}
	if want := FormatFileSize(int64(len(samplePNG))); a.Size != want {
		t.Errorf("Size = %q, want %q", a.Size, want)
	}
}

func TestArtifact_Bytes(t *testing.T) {
	a := newTestArtifact()
	if !bytes.Equal(a.Bytes(), samplePNG) {
		t.Error("Bytes() did not return original data")
	}
}

func TestArtifact_Base64(t *testing.T) {
	a := newTestArtifact()
	got := a.Base64()
	want := base64.StdEncoding.EncodeToString(samplePNG)
	if got != want {
		t.Errorf("Base64() = %q, want %q", got, want)
	}
	// base64 of the PNG signature starts with iVBOR
	if got[:5] != "iVBOR" {
		t.Errorf("Base64 does not start with PNG prefix, got %s...", got[:10])
	}
}

func TestArtifact_Reader(t *testing.T) {
	a := newTestArtifact()
	reader := a.Reader()
	if reader.Len() != len(samplePNG) {
		t.Errorf("Reader().Len() = %d, want %d", reader.Len(), len(samplePNG))
	}
	buf := make([]byte, len(samplePNG))
	n, err := reader.Read(buf)
	if err != nil {
		t.Fatalf("Reader().Read: %v", err)
	}
	if !bytes.Equal(buf[:n], samplePNG) {
		t.Error("Reader() produced different content")
	}
}

func TestArtifact_WriteTo(t *testing.T) {
	a := newTestArtifact()
	var buf bytes.Buffer
	n, err := a.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(len(samplePNG)) {
		t.Errorf("WriteTo wrote %d bytes, want %d", n, len(samplePNG))
	}
	if !bytes.Equal(buf.Bytes(), samplePNG) {
		t.Error("WriteTo produced different content")
	}
}

func TestArtifact_WriteToFile(t *testing.T) {
	a := newTestArtifact()
	path := filepath.Join(t.TempDir(), a.Name)
	if err := a.WriteToFile(path, 0o644); err != nil {
		t.Fatalf("WriteToFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if !bytes.Equal(data, samplePNG) {
		t.Error("WriteToFile produced different content")
	}
}

func TestArtifact_Len(t *testing.T) {
	a := newTestArtifact()
	if a.Len() != len(samplePNG) {
		t.Errorf("Len() = %d, want %d", a.Len(), len(samplePNG))
	}
}
