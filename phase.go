package pdfpng

// Phase is one of the mutually exclusive UI states.
type Phase int

const (
	// PhaseUpload is the initial state, waiting for a file.
	PhaseUpload Phase = iota
	// PhaseProcessing is active while pages are converted.
	PhaseProcessing
	// PhaseResults shows the converted pages.
	PhaseResults
)

func (p Phase) String() string {
	switch p {
	case PhaseUpload:
		return "upload"
	case PhaseProcessing:
		return "processing"
	case PhaseResults:
		return "results"
	default:
		return "unknown"
	}
}

// canTransition reports whether the state machine allows from -> to.
// Staying in the same phase is always allowed.
func canTransition(from, to Phase) bool {
	if from == to {
		return true
	}
	switch from {
	case PhaseUpload:
		return to == PhaseProcessing
	case PhaseProcessing:
		return to == PhaseResults || to == PhaseUpload
	case PhaseResults:
		return to == PhaseUpload
	}
	return false
}
