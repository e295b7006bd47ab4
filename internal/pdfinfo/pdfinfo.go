// Package pdfinfo reads basic facts about a PDF file without parsing its
// object graph: header version, xref location, encryption and page count.
//
// The scan tolerates damaged files. It is used to explain open failures a
// renderer did not classify and to back the CLI "info" command.
package pdfinfo

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
)

// headerWindow is how far into the file a header may start. Readers
// accept leading junk up to this offset.
const headerWindow = 1024

// ErrNoHeader is returned when no %PDF- header is found near the start.
var ErrNoHeader = errors.New("pdfinfo: not a PDF file")

// Info holds what the scan found.
type Info struct {
	// Version is the header version, e.g. "1.7".
	Version string
	// HeaderOffset is the byte offset of "%PDF-".
	HeaderOffset int
	// StartXRef is the offset recorded after the last "startxref", or -1.
	StartXRef int64
	// Encrypted is true when a trailer names a security handler.
	Encrypted bool
	// Pages is the page-tree root count, or 0 if it sits in a compressed
	// object stream.
	Pages int
	// Size is the file length in bytes.
	Size int
}

// Open reads and inspects the file at path.
func Open(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("pdfinfo: reading file: %w", err)
	}
	return Inspect(data)
}

var (
	encryptRe  = regexp.MustCompile(`/Encrypt\s*(?:\d+\s+\d+\s+R|<<)`)
	pagesRe    = regexp.MustCompile(`/Type\s*/Pages\b`)
	countRe    = regexp.MustCompile(`/Count\s+(\d+)`)
	xrefTypeRe = regexp.MustCompile(`/Type\s*/XRef\b`)
)

// Inspect scans data. Only a missing header is an error; everything else
// is best effort.
func Inspect(data []byte) (Info, error) {
	info := Info{Size: len(data), StartXRef: -1}

	head := data
	if len(head) > headerWindow {
		head = head[:headerWindow]
	}
	off := bytes.Index(head, []byte("%PDF-"))
	if off < 0 {
		return info, ErrNoHeader
	}
	info.HeaderOffset = off
	info.Version = readVersion(data[off+len("%PDF-"):])

	if x, ok := findStartXRef(data); ok {
		info.StartXRef = x
	}
	info.Encrypted = hasEncrypt(data)
	info.Pages = pageCount(data)
	return info, nil
}

func readVersion(b []byte) string {
	end := 0
	for end < len(b) && end < 8 && (b[end] == '.' || (b[end] >= '0' && b[end] <= '9')) {
		end++
	}
	if end == 0 {
		return "?"
	}
	return string(b[:end])
}

// findStartXRef locates the last "startxref" in the file tail and reads
// the offset that follows it.
func findStartXRef(data []byte) (int64, bool) {
	from := len(data) - headerWindow
	if from < 0 {
		from = 0
	}
	idx := bytes.LastIndex(data[from:], []byte("startxref"))
	if idx < 0 {
		return 0, false
	}
	pos := from + idx + len("startxref")
	for pos < len(data) && isSpace(data[pos]) {
		pos++
	}
	end := pos
	for end < len(data) && data[end] >= '0' && data[end] <= '9' {
		end++
	}
	if end == pos {
		return 0, false
	}
	v, err := strconv.ParseInt(string(data[pos:end]), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// hasEncrypt looks for /Encrypt in classic trailers and in xref stream
// dictionaries. Neither can live inside a compressed object stream.
func hasEncrypt(data []byte) bool {
	for _, dict := range trailerDicts(data) {
		if encryptRe.Match(dict) {
			return true
		}
	}
	for _, loc := range xrefTypeRe.FindAllIndex(data, -1) {
		if encryptRe.Match(enclosingObject(data, loc[0])) {
			return true
		}
	}
	return false
}

// trailerDicts returns the dictionary text following every "trailer"
// keyword.
func trailerDicts(data []byte) [][]byte {
	var out [][]byte
	rest := data
	for {
		i := bytes.Index(rest, []byte("trailer"))
		if i < 0 {
			return out
		}
		rest = rest[i+len("trailer"):]
		if d := dictAt(rest); d != nil {
			out = append(out, d)
		}
	}
}

// dictAt returns the balanced << ... >> starting at the first "<<" in b.
func dictAt(b []byte) []byte {
	start := bytes.Index(b, []byte("<<"))
	if start < 0 {
		return nil
	}
	depth := 0
	for i := start; i+1 < len(b); i++ {
		switch {
		case b[i] == '<' && b[i+1] == '<':
			depth++
			i++
		case b[i] == '>' && b[i+1] == '>':
			depth--
			i++
			if depth == 0 {
				return b[start : i+1]
			}
		}
	}
	return nil
}

// enclosingObject returns the text between the "obj" keyword before pos
// and the next "stream" or "endobj" after it.
func enclosingObject(data []byte, pos int) []byte {
	start := bytes.LastIndex(data[:pos], []byte("obj"))
	if start < 0 {
		start = 0
	}
	end := len(data)
	for _, kw := range [][]byte{[]byte("stream"), []byte("endobj")} {
		if i := bytes.Index(data[pos:], kw); i >= 0 && pos+i < end {
			end = pos + i
		}
	}
	return data[start:end]
}

// pageCount returns the largest /Count among uncompressed /Pages nodes,
// which is the root of the page tree.
func pageCount(data []byte) int {
	best := 0
	for _, loc := range pagesRe.FindAllIndex(data, -1) {
		m := countRe.FindSubmatch(enclosingObject(data, loc[0]))
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(string(m[1])); err == nil && n > best {
			best = n
		}
	}
	return best
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}
