package pdfpng

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// PDFMediaType is the media type accepted without looking at the name.
const PDFMediaType = "application/pdf"

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders n in binary units with at most two decimals,
// e.g. "0 Bytes", "1 KB", "1.5 KB". Sizes above the gigabyte range stay
// in GB.
func FormatFileSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*100) / 100
	return humanize.FtoaWithDigits(v, 2) + " " + sizeUnits[i]
}

// PageFileName returns the download name for page (1-based) of a document
// with total pages. The page index is zero-padded to at least two digits,
// wider when total needs it.
func PageFileName(base string, page, total int) string {
	width := len(strconv.Itoa(total))
	if width < 2 {
		width = 2
	}
	return fmt.Sprintf("%s_page_%0*d.png", base, width, page)
}

// ArchiveFileName returns the bulk download name for base.
func ArchiveFileName(base string) string {
	return base + "_png_images.zip"
}

// BaseName strips a trailing ".pdf" (any case) from name.
func BaseName(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return name[:len(name)-len(".pdf")]
	}
	return name
}

// isPDFName reports whether name ends in ".pdf", case-insensitively.
func isPDFName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
