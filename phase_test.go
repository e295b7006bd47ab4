package pdfpng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Phase
		want     bool
	}{
		{PhaseUpload, PhaseProcessing, true},
		{PhaseUpload, PhaseResults, false},
		{PhaseProcessing, PhaseResults, true},
		{PhaseProcessing, PhaseUpload, true},
		{PhaseResults, PhaseUpload, true},
		{PhaseResults, PhaseProcessing, false},
		{PhaseResults, PhaseResults, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, canTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "upload", PhaseUpload.String())
	assert.Equal(t, "processing", PhaseProcessing.String())
	assert.Equal(t, "results", PhaseResults.String())
	assert.Equal(t, "unknown", Phase(9).String())
}

func TestPageProgress(t *testing.T) {
	p := pageProgress(0, 4)
	assert.Equal(t, 0.0, p.Percent)
	assert.Equal(t, "Converting page 1 of 4...", p.Message)

	p = pageProgress(3, 4)
	assert.Equal(t, 75.0, p.Percent)
	assert.Equal(t, "Converting page 4 of 4...", p.Message)

	assert.Equal(t, 100.0, completeProgress.Percent)
	assert.Equal(t, 33, pageProgress(1, 3).Rounded())
}
