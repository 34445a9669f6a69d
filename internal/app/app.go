package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rook-computer/mapcanvas/internal/host"
	"github.com/rook-computer/mapcanvas/internal/system"
	"github.com/rook-computer/mapcanvas/internal/web"
)

// Watcher calls exit when the user asks to quit. It must stop watching once
// ctx is done; it may return earlier and keep watching in the background.
type Watcher func(ctx context.Context, exit func())

type App struct {
	Registry *host.Registry
	Ticker   *host.Ticker
	Web      web.Server
	Logger   Logger

	// Console is switched to graphics mode while the app runs, if set.
	Console *system.Console

	// Watchers run alongside the tick loop, e.g. key handlers of previews.
	Watchers []Watcher

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(reg *host.Registry, ticker *host.Ticker, webServer web.Server) *App {
	return &App{Registry: reg, Ticker: ticker, Web: webServer, Logger: NoopLogger{}, exitCh: make(chan error, 1)}
}

// Exit requests the app to stop running. Only the first request counts.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Start serves the API and runs the tick loop until ctx is done, Exit is
// called, or the ticker reaches its MaxTicks. Cancellation of ctx is not an
// error.
func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	app.exitOnce.Store(false)

	if app.Web == nil {
		app.Web = &web.NoopServer{}
	}
	if err := app.Web.Start(ctx); err != nil {
		app.Logger.Errorf("app", "web server start error: %v", err)
		return err
	}
	defer func() {
		if err := app.Web.Stop(); err != nil {
			app.Logger.Errorf("app", "web server stop error: %v", err)
		}
	}()

	if app.Console != nil {
		_ = app.Console.EnterGraphics()
		defer func() { _ = app.Console.Restore() }()
	}

	loopCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.Ticker.RunLoop(loopCtx)
		app.Exit(nil)
	}()
	for _, watch := range app.Watchers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			watch(loopCtx, func() { app.Exit(nil) })
		}()
	}
	app.Logger.Infof("app", "running with %d maps and %d viewers", len(app.Registry.Maps()), len(app.Registry.Viewers()))

	var err error
	select {
	case <-ctx.Done():
		if !errors.Is(ctx.Err(), context.Canceled) {
			err = ctx.Err()
		}
	case err = <-app.exitCh:
	}
	cancel()
	wg.Wait()
	app.Logger.Infof("app", "stopped after %d ticks", app.Ticker.Ticks())
	return err
}

// Stop closes every sink that holds a device.
func (app *App) Stop() error {
	for _, sink := range app.Ticker.Sinks {
		if c, ok := sink.(interface{ Close() }); ok {
			c.Close()
		}
	}
	return nil
}
