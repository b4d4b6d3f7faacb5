//go:build windows

package platform

import (
	"path/filepath"
	"strings"
	"unsafe"

	"github.com/penwyp/go-activity-monitor/internal/core/model"
	"golang.org/x/sys/windows"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
)

type windowsProbe struct{}

func newOSProbe() Probe {
	return windowsProbe{}
}

// Poll reads the foreground window via user32 and resolves the owning
// process image through QueryFullProcessImageName.
func (windowsProbe) Poll() *model.ActiveWindow {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return nil
	}

	var titleBuf [512]uint16
	length, _, _ := procGetWindowTextW.Call(hwnd,
		uintptr(unsafe.Pointer(&titleBuf[0])), uintptr(len(titleBuf)))
	title := windows.UTF16ToString(titleBuf[:length])

	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if pid == 0 {
		return nil
	}

	appName, exePath := processImage(pid)
	return &model.ActiveWindow{
		AppName:     appName,
		WindowTitle: title,
		ExePath:     exePath,
	}
}

func processImage(pid uint32) (appName, exePath string) {
	appName, exePath = "Unknown", "unknown.exe"

	handle, err := windows.OpenProcess(
		windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return appName, exePath
	}
	defer windows.CloseHandle(handle)

	var pathBuf [windows.MAX_PATH]uint16
	size := uint32(len(pathBuf))
	if err := windows.QueryFullProcessImageName(handle, 0, &pathBuf[0], &size); err != nil {
		return appName, exePath
	}

	exePath = windows.UTF16ToString(pathBuf[:size])
	base := filepath.Base(exePath)
	appName = strings.TrimSuffix(strings.TrimSuffix(base, ".exe"), ".EXE")
	return appName, exePath
}
