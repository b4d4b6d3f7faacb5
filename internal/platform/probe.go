// Package platform exposes the foreground-window probe. Each OS supplies
// its own implementation behind build tags; platforms without one report
// no foreground window rather than failing.
package platform

import "github.com/penwyp/go-activity-monitor/internal/core/model"

// Probe reports the currently foregrounded application. Poll returns nil
// when no foreground window can be determined (locked screen, missing
// permission, unsupported OS); it never returns an error so a flaky probe
// cannot wedge the tracker.
type Probe interface {
	Poll() *model.ActiveWindow
}

// NewProbe returns the probe for the current OS.
func NewProbe() Probe {
	return newOSProbe()
}
