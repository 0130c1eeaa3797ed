package app

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"

	"github.com/nivschuman/ElectionLifecycle/internal/config"
	"github.com/nivschuman/ElectionLifecycle/internal/lifecycle"
	"github.com/nivschuman/ElectionLifecycle/internal/registry"
	"github.com/nivschuman/ElectionLifecycle/internal/ui/tabs"
	"github.com/nivschuman/ElectionLifecycle/internal/winners"
)

type AppBuilder interface {
	BuildApp() App
}

type AppBuilderImpl struct {
	registry *registry.Registry
	machine  *lifecycle.StateMachine
	engine   *winners.Engine
	ticker   tabs.StatisticsSource
	uiConfig config.UiConfig
}

type App interface {
	Start()
}

type AppImpl struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	tabs       []tabs.UiTab
}

func NewAppBuilderImpl(registry *registry.Registry, machine *lifecycle.StateMachine, engine *winners.Engine, ticker tabs.StatisticsSource, uiConfig config.UiConfig) *AppBuilderImpl {
	return &AppBuilderImpl{
		registry: registry,
		machine:  machine,
		engine:   engine,
		ticker:   ticker,
		uiConfig: uiConfig,
	}
}

func (appBuilder *AppBuilderImpl) BuildApp() App {
	a := app.New()
	w := a.NewWindow("Elections Dashboard")

	uiTabs := []tabs.UiTab{
		{Title: "Elections", Tab: tabs.NewElectionsTab(appBuilder.machine, appBuilder.engine, w, appBuilder.uiConfig.RefreshInterval)},
		{Title: "Results", Tab: tabs.NewResultsTab(appBuilder.registry, appBuilder.engine)},
		{Title: "Ticker", Tab: tabs.NewTickerTab(appBuilder.ticker)},
	}

	t := container.NewAppTabs()
	for _, uiTab := range uiTabs {
		t.Append(container.NewTabItem(uiTab.Title, uiTab.Tab.GetWidget()))
	}

	w.SetContent(t)
	w.Resize(fyne.NewSize(900, 650))
	return &AppImpl{fyneApp: a, mainWindow: w, tabs: uiTabs}
}

// Start blocks until the window is closed.
func (app *AppImpl) Start() {
	app.mainWindow.ShowAndRun()

	for _, uiTab := range app.tabs {
		uiTab.Tab.Stop()
	}
}
