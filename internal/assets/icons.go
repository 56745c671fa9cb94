// Package assets embeds the tray and window icons.
package assets

import (
	_ "embed"

	"fyne.io/fyne/v2"
)

//go:generate go run ../../cmd/icongen -out .

//go:embed tray.png
var trayIconData []byte

//go:embed app.png
var appIconData []byte

// TrayIcon returns the system tray icon resource
func TrayIcon() fyne.Resource {
	return fyne.NewStaticResource("tray.png", trayIconData)
}

// AppIcon returns the ticker window and taskbar icon resource
func AppIcon() fyne.Resource {
	return fyne.NewStaticResource("app.png", appIconData)
}
