package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rook-computer/mapcanvas/internal/cmd"
	"github.com/rook-computer/mapcanvas/internal/host"
	"github.com/rook-computer/mapcanvas/internal/preview"
	"github.com/rook-computer/mapcanvas/internal/render"
	"github.com/rook-computer/mapcanvas/internal/system"
	"github.com/rook-computer/mapcanvas/internal/web"
)

const fetchTimeout = 30 * time.Second

// SceneFromFlags translates the map flags into a Scene, loading --font.
func SceneFromFlags(flags *cmd.Flags) (Scene, error) {
	scene := Scene{
		Images:         flags.Image,
		BigImages:      flags.BigImage,
		GIFs:           flags.GIF,
		BigGIFs:        flags.BigGIF,
		Texts:          flags.Text,
		AnimatedTexts:  flags.AnimatedText,
		QRCodes:        flags.QR,
		Crop:           flags.Crop,
		At:             flags.At,
		CharsPerSecond: flags.CharsPerSecond,
		Delay:          flags.Delay,
	}
	if !flags.All {
		scene.Receivers = viewerIDs(flags.Viewers)
	}
	if flags.Font != "" {
		f, err := LoadFont(flags.Font, flags.FontSize)
		if err != nil {
			return Scene{}, err
		}
		scene.Font = f
	}
	return scene, nil
}

func viewerIDs(names []string) []render.ViewerID {
	ids := make([]render.ViewerID, 0, len(names))
	for _, name := range names {
		ids = append(ids, render.ViewerID(name))
	}
	return ids
}

// Setup builds a ready to start App from the command line: the registry
// with the scene's maps and the online viewers, the preview sinks and the
// API server. On error every device opened so far is closed again.
func Setup(ctx context.Context, flags *cmd.Flags, logger Logger) (a *App, err error) {
	if logger == nil {
		logger = NoopLogger{}
	}

	reg := host.NewRegistry(flags.Worlds, host.NewMemoryStorage())
	for _, viewer := range viewerIDs(flags.Viewers) {
		if err := reg.Join(viewer); err != nil {
			return nil, err
		}
	}

	scene, err := SceneFromFlags(flags)
	if err != nil {
		return nil, err
	}
	ids, err := scene.Build(ctx, reg, Sources{Client: &http.Client{Timeout: fetchTimeout}})
	if err != nil {
		return nil, err
	}
	logger.Infof("app", "created maps %v", ids)

	ticker := host.NewTicker(reg)
	ticker.Logger = logger
	ticker.MaxTicks = flags.Ticks
	ticker.TextColor = flags.TextColor

	var server web.Server = &web.NoopServer{}
	if flags.Listen != "" {
		httpServer := web.NewHTTPServer(web.ServerConfig{ListenAddr: flags.Listen, DevMode: flags.Dev}, reg)
		httpServer.Logger = logger
		server = httpServer
	}

	a = New(reg, ticker, server)
	a.Logger = logger
	defer func() {
		if err != nil {
			_ = a.Stop()
			a = nil
		}
	}()

	if flags.PNGDir != "" {
		sink, err := preview.NewPNGDir(flags.PNGDir)
		if err != nil {
			return a, err
		}
		ticker.Sinks = append(ticker.Sinks, sink)
	}

	target := preview.Target{MapID: flags.Show, Viewer: render.ViewerID(flags.ShowFor)}
	if target.Viewer == "" && len(flags.Viewers) > 0 {
		target.Viewer = render.ViewerID(flags.Viewers[0])
	}
	if flags.FB != "" {
		fb, err := preview.OpenFramebuffer(flags.FB, target)
		if err != nil {
			return a, err
		}
		fb.Logger = logger
		fb.Clear()
		ticker.Sinks = append(ticker.Sinks, fb)
		a.Console = &system.Console{Logger: logger}
		a.Watchers = append(a.Watchers, func(ctx context.Context, exit func()) {
			system.WatchExitKeys(ctx, logger, exit)
		})
	}
	if flags.Terminal {
		term, err := preview.OpenTerminal(target)
		if err != nil {
			return a, fmt.Errorf("terminal preview: %w", err)
		}
		ticker.Sinks = append(ticker.Sinks, term)
		a.Watchers = append(a.Watchers, term.WatchKeys)
	}
	return a, nil
}
