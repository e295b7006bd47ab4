package pdfpng

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Sentinel errors returned by the library.
var (
	// ErrClosed is returned when attempting to use a closed [Converter].
	ErrClosed = errors.New("pdfpng: converter is closed")

	// ErrBusy is returned by [Converter.Select] while another conversion
	// is still running.
	ErrBusy = errors.New("pdfpng: conversion already in progress")

	// ErrNoArtifact is returned by [Converter.Download] for a page that
	// has no converted image.
	ErrNoArtifact = errors.New("pdfpng: no artifact for page")

	// ErrRefReleased is returned when a [Ref] is used after release.
	ErrRefReleased = errors.New("pdfpng: reference already released")
)

// Structured failure reasons. Renderers wrap these so that [Classify]
// does not have to inspect error text.
var (
	ErrInvalidDocument     = errors.New("pdfpng: invalid or corrupted PDF")
	ErrPasswordRequired    = errors.New("pdfpng: document requires a password")
	ErrResourceUnavailable = errors.New("pdfpng: renderer resources unavailable")
)

// Kind classifies a failure for display.
type Kind int

const (
	// UnclassifiedConversionFailure covers anything not matched below.
	UnclassifiedConversionFailure Kind = iota
	InvalidFileType
	LibraryUnavailable
	CorruptDocument
	PasswordProtected
	NetworkFailure
)

func (k Kind) String() string {
	switch k {
	case InvalidFileType:
		return "InvalidFileType"
	case LibraryUnavailable:
		return "LibraryUnavailable"
	case CorruptDocument:
		return "CorruptDocument"
	case PasswordProtected:
		return "PasswordProtected"
	case NetworkFailure:
		return "NetworkFailure"
	default:
		return "UnclassifiedConversionFailure"
	}
}

const conversionPrefix = "Error converting PDF. "

// Error is the failure type surfaced by [Converter] operations.
type Error struct {
	Kind Kind
	Op   string // "select", "convert", "download"
	Err  error

	msg string
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("pdfpng: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("pdfpng: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the user-visible text for the failure.
func (e *Error) Message() string {
	if e.msg != "" {
		return e.msg
	}
	switch e.Kind {
	case InvalidFileType:
		return "Please select a valid PDF file."
	case LibraryUnavailable:
		return "PDF processing library not loaded. Please refresh the page and try again."
	case CorruptDocument:
		return conversionPrefix + "The file appears to be corrupted or not a valid PDF."
	case PasswordProtected:
		return conversionPrefix + "Password-protected PDFs are not supported."
	case NetworkFailure:
		return conversionPrefix + "Network error loading PDF processing library."
	default:
		return conversionPrefix + "Please try again with a different file."
	}
}

func newError(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// errArchiverUnavailable is the bulk-download failure when no archiver is
// configured.
func errArchiverUnavailable() *Error {
	return &Error{
		Op:   "download",
		Kind: LibraryUnavailable,
		msg:  "Unable to create ZIP file. Please try downloading images individually.",
	}
}

// Substrings matched when a renderer returns an unstructured error. The
// list is not exhaustive.
var (
	invalidHints  = []string{"Invalid PDF", "invalid pdf", "not a PDF"}
	passwordHints = []string{"password"}
)

// Classify maps an error to a [Kind]. Structured reasons win over text
// matching; text matching is a last resort.
func Classify(err error) Kind {
	if err == nil {
		return UnclassifiedConversionFailure
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, ErrPasswordRequired):
		return PasswordProtected
	case errors.Is(err, ErrInvalidDocument):
		return CorruptDocument
	case errors.Is(err, ErrResourceUnavailable):
		return NetworkFailure
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return UnclassifiedConversionFailure
	}

	msg := err.Error()
	for _, h := range invalidHints {
		if strings.Contains(msg, h) {
			return CorruptDocument
		}
	}
	for _, h := range passwordHints {
		if strings.Contains(msg, h) {
			return PasswordProtected
		}
	}

	var ne net.Error
	if errors.As(err, &ne) || strings.Contains(msg, "NetworkError") {
		return NetworkFailure
	}
	return UnclassifiedConversionFailure
}
