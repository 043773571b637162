package dispatch

import "sync/atomic"

// ToolModeFlag is the per-UI toggle between tool-augmented and
// retrieval-augmented fallback execution. It is a single mutable cell read at
// dispatch time: callbacks must never capture its value early, only the cell.
type ToolModeFlag struct {
	disabled atomic.Bool
}

// NewToolModeFlag returns the flag in its default state: tools enabled.
func NewToolModeFlag() *ToolModeFlag {
	return &ToolModeFlag{}
}

// Set toggles tool mode.
func (f *ToolModeFlag) Set(enabled bool) {
	f.disabled.Store(!enabled)
}

// Enabled reports the current value, whatever it is at call time.
func (f *ToolModeFlag) Enabled() bool {
	return !f.disabled.Load()
}
