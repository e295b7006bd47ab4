package pdfinfo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/porticus-lab/go-pdf-png/internal/testpdf"
)

func TestInspectSimple(t *testing.T) {
	data := testpdf.Pages(3)

	info, err := Inspect(data)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.Version != "1.4" {
		t.Errorf("Version = %q, want 1.4", info.Version)
	}
	if info.HeaderOffset != 0 {
		t.Errorf("HeaderOffset = %d, want 0", info.HeaderOffset)
	}
	if info.Pages != 3 {
		t.Errorf("Pages = %d, want 3", info.Pages)
	}
	if info.Encrypted {
		t.Error("Encrypted = true for a plain document")
	}
	if info.StartXRef <= 0 || info.StartXRef >= int64(len(data)) {
		t.Errorf("StartXRef = %d out of range", info.StartXRef)
	}
	if info.Size != len(data) {
		t.Errorf("Size = %d, want %d", info.Size, len(data))
	}
}

func TestInspectEncrypted(t *testing.T) {
	data := testpdf.Build(testpdf.Options{Encrypt: true, Version: "1.7"})

	info, err := Inspect(data)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if !info.Encrypted {
		t.Error("Encrypted = false, want true")
	}
	if info.Version != "1.7" {
		t.Errorf("Version = %q, want 1.7", info.Version)
	}
}

func TestInspectXRefStreamEncrypt(t *testing.T) {
	data := []byte("%PDF-1.5\n" +
		"5 0 obj\n<< /Type /XRef /Size 6 /W [1 2 1] /Root 1 0 R /Encrypt 4 0 R /Length 0 >>\nstream\n\nendstream\nendobj\n" +
		"startxref\n9\n%%EOF\n")

	info, err := Inspect(data)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if !info.Encrypted {
		t.Error("Encrypted = false for xref stream with /Encrypt")
	}
	if info.StartXRef != 9 {
		t.Errorf("StartXRef = %d, want 9", info.StartXRef)
	}
}

func TestInspectLeadingGarbage(t *testing.T) {
	data := testpdf.Build(testpdf.Options{Garbage: []byte("junk before header\n")})

	info, err := Inspect(data)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.HeaderOffset != len("junk before header\n") {
		t.Errorf("HeaderOffset = %d", info.HeaderOffset)
	}
	if info.Pages != 1 {
		t.Errorf("Pages = %d, want 1", info.Pages)
	}
}

func TestInspectNotPDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte("hello, this is not a pdf")},
		{"png", []byte("\x89PNG\r\n\x1a\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Inspect(tt.data)
			if !errors.Is(err, ErrNoHeader) {
				t.Fatalf("Inspect error = %v, want ErrNoHeader", err)
			}
		})
	}
}

func TestInspectTruncated(t *testing.T) {
	data := testpdf.Pages(2)
	info, err := Inspect(data[:40])
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.StartXRef != -1 {
		t.Errorf("StartXRef = %d, want -1", info.StartXRef)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, testpdf.Pages(2), 0o644); err != nil {
		t.Fatal(err)
	}
	info, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if info.Pages != 2 {
		t.Errorf("Pages = %d, want 2", info.Pages)
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}
