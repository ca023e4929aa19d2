// Package hooks defines the callback slots long-running passes report
// progress through. The core never prints or logs user-facing status itself;
// callers inject whichever presentation they want.
package hooks

// Hooks carries optional observer callbacks. Any slot may be nil.
type Hooks struct {
	OnProgress func(fraction float64) // 0–1
	OnStatus   func(msg string)
	OnWarning  func(msg string)
	OnSuccess  func(msg string)
}

// Progress reports a completion fraction in [0, 1].
func (h *Hooks) Progress(fraction float64) {
	if h != nil && h.OnProgress != nil {
		h.OnProgress(fraction)
	}
}

// Status reports a transient status line.
func (h *Hooks) Status(msg string) {
	if h != nil && h.OnStatus != nil {
		h.OnStatus(msg)
	}
}

// Warning reports a non-fatal problem.
func (h *Hooks) Warning(msg string) {
	if h != nil && h.OnWarning != nil {
		h.OnWarning(msg)
	}
}

// Success reports completion.
func (h *Hooks) Success(msg string) {
	if h != nil && h.OnSuccess != nil {
		h.OnSuccess(msg)
	}
}
