package pdfpng

import (
	"fmt"
	"math"
)

// Progress is a snapshot of the shared progress indicator.
type Progress struct {
	// Percent is the fill width, 0 to 100.
	Percent float64
	// Message is optional status text; empty keeps the previous text.
	Message string
}

// Rounded returns Percent rounded to the nearest integer for display.
func (p Progress) Rounded() int {
	return int(math.Round(p.Percent))
}

func pageProgress(done, total int) Progress {
	return Progress{
		Percent: float64(done) / float64(total) * 100,
		Message: fmt.Sprintf("Converting page %d of %d...", done+1, total),
	}
}

var completeProgress = Progress{Percent: 100, Message: "Conversion complete!"}
