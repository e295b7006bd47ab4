package pdfpng

// Display is the passive surface a [Converter] reports to. Calls are made
// synchronously from the goroutine running the operation, except
// [Display.ClearError], which fires from a timer once a message expires.
type Display interface {
	// SetPhase shows exactly one phase view and hides the others.
	SetPhase(Phase)
	SetProgress(Progress)
	// ShowResults renders one entry per artifact: preview, page label,
	// size and an individual download control.
	ShowResults([]*Artifact)
	ClearResults()
	// ShowError replaces any displayed error message with msg.
	ShowError(msg string)
	ClearError()
	// ClearInput empties the file selector so the same file can be
	// chosen again.
	ClearInput()
}

// NopDisplay discards everything. Embed it to implement only part of
// [Display].
type NopDisplay struct{}

func (NopDisplay) SetPhase(Phase)          {}
func (NopDisplay) SetProgress(Progress)    {}
func (NopDisplay) ShowResults([]*Artifact) {}
func (NopDisplay) ClearResults()           {}
func (NopDisplay) ShowError(string)        {}
func (NopDisplay) ClearError()             {}
func (NopDisplay) ClearInput()             {}
