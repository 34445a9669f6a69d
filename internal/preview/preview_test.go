package preview

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/rook-computer/mapcanvas/internal/host"
	"github.com/rook-computer/mapcanvas/internal/render"
	"github.com/rook-computer/mapcanvas/internal/testutil/assert"
)

var (
	red  = color.RGBA{R: 0xFF, A: 0xFF}
	blue = color.RGBA{B: 0xFF, A: 0xFF}
)

// testFrame is a map whose top half is red and bottom half blue.
func testFrame(mapID int, viewer render.ViewerID) host.Frame {
	img := image.NewRGBA(render.MapBounds)
	for y := 0; y < render.MapHeight; y++ {
		c := red
		if y >= render.MapHeight/2 {
			c = blue
		}
		for x := 0; x < render.MapWidth; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return host.Frame{Tick: 1, MapID: mapID, Viewer: viewer, Image: img}
}

func TestFramebufferPublish(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 400, 200))
	f := NewFramebuffer(dst, Target{MapID: 1, Viewer: "alice"})
	f.Clear()

	assert.NoError(t, f.Publish(testFrame(2, "alice")))
	assert.Equal(t, Background, dst.RGBAAt(200, 10))

	assert.NoError(t, f.Publish(testFrame(1, "alice")))
	// The map fills a centred 200×200 square.
	assert.Equal(t, red, dst.RGBAAt(100, 0))
	assert.Equal(t, blue, dst.RGBAAt(299, 199))
	assert.Equal(t, Background, dst.RGBAAt(99, 50))
	assert.Equal(t, Background, dst.RGBAAt(300, 50))
	f.Close()
}

func TestFramebufferTransparentPixels(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 128, 128))
	f := NewFramebuffer(dst, Target{MapID: 0, Viewer: "alice"})

	frame := host.Frame{MapID: 0, Viewer: "alice", Image: image.NewRGBA(render.MapBounds)}
	assert.NoError(t, f.Publish(frame))
	assert.Equal(t, Background, dst.RGBAAt(64, 64))
}

func TestFramebufferTooSmall(t *testing.T) {
	f := NewFramebuffer(image.NewRGBA(image.Rect(0, 0, 10, 10)), Target{Viewer: "alice"})
	f.Padding = 5

	assert.True(t, f.Publish(testFrame(0, "alice")) != nil)
}

func TestPNGDir(t *testing.T) {
	dir := t.TempDir()
	p, err := NewPNGDir(dir)
	assert.NoError(t, err)

	assert.NoError(t, p.Publish(testFrame(3, "bob")))
	assert.NoError(t, p.Publish(testFrame(3, "bob")))

	path := p.Path(3, "bob")
	assert.Equal(t, dir+"/map-3-bob.png", path)
	file, err := os.Open(path)
	assert.NoError(t, err)
	defer file.Close()
	img, err := png.Decode(file)
	assert.NoError(t, err)
	assert.Equal(t, render.MapBounds, img.Bounds())

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(entries))
}

func newSimulationTerminal(t *testing.T, w, h int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	assert.NoError(t, screen.Init())
	screen.SetSize(w, h)
	return NewTerminal(screen, Target{MapID: 1, Viewer: "alice"}), screen
}

func cellColors(screen tcell.Screen, x, y int) (fg, bg tcell.Color) {
	_, _, style, _ := screen.GetContent(x, y)
	fg, bg, _ = style.Decompose()
	return fg, bg
}

func TestTerminalPublish(t *testing.T) {
	term, screen := newSimulationTerminal(t, 140, 70)
	defer term.Close()

	assert.NoError(t, term.Publish(testFrame(1, "alice")))

	mainc, _, _, _ := screen.GetContent(0, 0)
	assert.Equal(t, upperHalf, mainc)
	fg, bg := cellColors(screen, 10, 0)
	assert.Equal(t, tcell.NewRGBColor(0xFF, 0, 0), fg)
	assert.Equal(t, tcell.NewRGBColor(0xFF, 0, 0), bg)
	fg, bg = cellColors(screen, 10, 63)
	assert.Equal(t, tcell.NewRGBColor(0, 0, 0xFF), fg)
	assert.Equal(t, tcell.NewRGBColor(0, 0, 0xFF), bg)

	mainc, _, _, _ = screen.GetContent(0, 64)
	assert.Equal(t, ' ', mainc)
}

func TestTerminalScalesDown(t *testing.T) {
	term, screen := newSimulationTerminal(t, 40, 10)
	defer term.Close()

	assert.NoError(t, term.Publish(testFrame(1, "alice")))

	// 20×20 pixels: ten rows of cells, the top five red.
	fg, _ := cellColors(screen, 0, 4)
	assert.Equal(t, tcell.NewRGBColor(0xFF, 0, 0), fg)
	fg, _ = cellColors(screen, 0, 5)
	assert.Equal(t, tcell.NewRGBColor(0, 0, 0xFF), fg)
	mainc, _, _, _ := screen.GetContent(20, 0)
	assert.Equal(t, ' ', mainc)
}

func TestTerminalWatchKeys(t *testing.T) {
	term, screen := newSimulationTerminal(t, 20, 10)
	defer term.Close()

	quit := make(chan struct{})
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		term.WatchKeys(ctx, func() { close(quit) })
		close(done)
	}()

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case <-quit:
	case <-time.After(5 * time.Second):
		t.Fatal("q did not quit")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("WatchKeys did not return after cancel")
	}
}
