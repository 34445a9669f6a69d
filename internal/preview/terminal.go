package preview

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/rook-computer/mapcanvas/internal/host"
	"github.com/rook-computer/mapcanvas/internal/render"
)

// upperHalf shows the upper pixel as foreground and the lower one as
// background, so a cell holds two map rows.
const upperHalf = '▀'

// Terminal shows one map canvas in a terminal, two pixel rows per cell,
// scaled down when the terminal is too small.
type Terminal struct {
	Target Target

	mu     sync.Mutex
	screen tcell.Screen
}

// OpenTerminal initialises the controlling terminal.
func OpenTerminal(target Target) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal screen: %w", err)
	}
	return NewTerminal(screen, target), nil
}

// NewTerminal draws on an already initialised screen.
func NewTerminal(screen tcell.Screen, target Target) *Terminal {
	screen.HideCursor()
	screen.Clear()
	return &Terminal{Target: target, screen: screen}
}

func (t *Terminal) Publish(frame host.Frame) error {
	if !t.Target.matches(frame) {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	w, h := t.screen.Size()
	size := min(w, 2*h, render.MapWidth)
	if size <= 0 {
		return nil
	}
	img := flatten(frame.Image, size)
	for cy := 0; cy < size/2; cy++ {
		for x := 0; x < size; x++ {
			top, bottom := img.RGBAAt(x, 2*cy), img.RGBAAt(x, 2*cy+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			t.screen.SetContent(x, cy, upperHalf, nil, style)
		}
	}
	t.screen.Show()
	return nil
}

// WatchKeys polls terminal events until ctx is done, calling onQuit once
// when Ctrl-C, Escape or q is pressed.
func (t *Terminal) WatchKeys(ctx context.Context, onQuit func()) {
	var once sync.Once
	quit := func() { once.Do(onQuit) }
	go func() {
		<-ctx.Done()
		t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()
	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return
			}
		case *tcell.EventResize:
			t.mu.Lock()
			t.screen.Clear()
			t.screen.Sync()
			t.mu.Unlock()
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyCtrlC, ev.Key() == tcell.KeyEscape:
				quit()
			case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
				quit()
			}
		}
	}
}

// Close restores the terminal.
func (t *Terminal) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
}
