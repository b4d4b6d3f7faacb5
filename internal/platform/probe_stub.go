//go:build !windows

package platform

import "github.com/penwyp/go-activity-monitor/internal/core/model"

// stubProbe reports no foreground window. Tracking on these platforms is a
// no-op until a native probe lands; the tracker keeps polling and simply
// records nothing.
type stubProbe struct{}

func newOSProbe() Probe {
	return stubProbe{}
}

func (stubProbe) Poll() *model.ActiveWindow {
	return nil
}
