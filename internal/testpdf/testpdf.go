// Package testpdf builds small, valid PDF files for tests.
package testpdf

import (
	"bytes"
	"fmt"
)

// Letter is the US Letter page size in points.
var Letter = Size{Width: 612, Height: 792}

// Size is a page size in points.
type Size struct {
	Width  float64
	Height float64
}

// Options controls the generated document.
type Options struct {
	// Pages lists one size per page. Empty means a single Letter page.
	Pages []Size
	// Version is written after %PDF-. Defaults to "1.4".
	Version string
	// Encrypt adds a standard security handler entry to the trailer.
	// The page content is not actually encrypted.
	Encrypt bool
	// Garbage is prepended before the header.
	Garbage []byte
}

// Pages returns a document with n Letter pages.
func Pages(n int) []byte {
	sizes := make([]Size, n)
	for i := range sizes {
		sizes[i] = Letter
	}
	return Build(Options{Pages: sizes})
}

// Build writes a complete PDF with a classic xref table. Each page draws
// a filled rectangle so renderers produce non-blank output.
func Build(opts Options) []byte {
	if len(opts.Pages) == 0 {
		opts.Pages = []Size{Letter}
	}
	if opts.Version == "" {
		opts.Version = "1.4"
	}

	var buf bytes.Buffer
	buf.Write(opts.Garbage)
	offsets := map[int]int{}
	obj := func(id int, body string) {
		offsets[id] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", id, body)
	}

	fmt.Fprintf(&buf, "%%PDF-%s\n", opts.Version)
	obj(1, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for i := range opts.Pages {
		if i > 0 {
			kids += " "
		}
		kids += fmt.Sprintf("%d 0 R", 3+i*2)
	}
	obj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(opts.Pages)))

	for i, size := range opts.Pages {
		pageID := 3 + i*2
		contentID := pageID + 1
		obj(pageID, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] /Contents %d 0 R /Resources << >> >>",
			size.Width, size.Height, contentID))

		content := fmt.Sprintf("0.2 0.4 0.8 rg 36 36 %g %g re f", size.Width/2, size.Height/2)
		offsets[contentID] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
			contentID, len(content), content)
	}
	next := 3 + len(opts.Pages)*2

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", next)
	buf.WriteString("0000000000 65535 f \n")
	for id := 1; id < next; id++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[id])
	}

	trailer := fmt.Sprintf("/Size %d /Root 1 0 R", next)
	if opts.Encrypt {
		trailer += " /Encrypt << /Filter /Standard /V 1 /R 2 /P -4" +
			" /O <0000000000000000000000000000000000000000000000000000000000000000>" +
			" /U <0000000000000000000000000000000000000000000000000000000000000000> >>" +
			" /ID [<00000000000000000000000000000000> <00000000000000000000000000000000>]"
	}
	fmt.Fprintf(&buf, "trailer\n<< %s >>\nstartxref\n%d\n%%%%EOF\n", trailer, xref)
	return buf.Bytes()
}
