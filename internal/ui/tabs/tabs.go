package tabs

import "fyne.io/fyne/v2"

// Tab is a dashboard page. Stop ends any background refresh it started.
type Tab interface {
	GetWidget() fyne.CanvasObject
	Stop()
}

type UiTab struct {
	Title string
	Tab   Tab
}
