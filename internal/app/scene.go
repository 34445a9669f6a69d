package app

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rook-computer/mapcanvas/internal/host"
	"github.com/rook-computer/mapcanvas/internal/imagetools"
	"github.com/rook-computer/mapcanvas/internal/render"
)

// lineBreak separates lines of a text given on the command line.
const lineBreak = `\n`

// Scene lists the maps created at startup. Every entry of the single-map
// kinds becomes one map; the big kinds become one map per 128×128 part.
type Scene struct {
	Images        []string
	BigImages     []string
	GIFs          []string
	BigGIFs       []string
	Texts         []string
	AnimatedTexts []string
	QRCodes       []string

	// Crop centre-crops big sources to a square instead of scaling them up.
	Crop bool

	At             image.Point
	CharsPerSecond int
	Delay          int
	Font           *render.Font

	// Receivers of single-map renderers; nil shows them to every viewer.
	// Big maps are always shown to every viewer.
	Receivers []render.ViewerID
}

// Sources opens images by path or http(s) URL.
type Sources struct {
	Client *http.Client
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

func (s Sources) Image(ctx context.Context, src string) (image.Image, error) {
	if isURL(src) {
		return imagetools.Fetch(ctx, s.Client, src)
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return imagetools.LoadImage(f)
}

func (s Sources) GIF(ctx context.Context, src string) (*render.GIF, int, error) {
	if isURL(src) {
		return imagetools.FetchGIF(ctx, s.Client, src)
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return imagetools.LoadGIF(f)
}

// Build creates the scene's maps in the default world and returns their ids
// in creation order. It stops at the first source that fails.
func (s Scene) Build(ctx context.Context, reg *host.Registry, src Sources) ([]int, error) {
	var ids []int
	create := func(renderers ...render.Renderer) error {
		for _, r := range renderers {
			id, err := reg.CreateMap("", r)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	}

	for _, path := range s.Images {
		r, err := s.image(ctx, src, path)
		if err == nil {
			err = create(r)
		}
		if err != nil {
			return ids, fmt.Errorf("image %s: %w", path, err)
		}
	}
	for _, path := range s.BigImages {
		rs, err := s.bigImage(ctx, src, path)
		if err == nil {
			err = create(rs...)
		}
		if err != nil {
			return ids, fmt.Errorf("big image %s: %w", path, err)
		}
	}
	for _, path := range s.GIFs {
		r, err := s.gif(ctx, src, path)
		if err == nil {
			err = create(r)
		}
		if err != nil {
			return ids, fmt.Errorf("gif %s: %w", path, err)
		}
	}
	for _, path := range s.BigGIFs {
		rs, err := s.bigGIF(ctx, src, path)
		if err == nil {
			err = create(rs...)
		}
		if err != nil {
			return ids, fmt.Errorf("big gif %s: %w", path, err)
		}
	}
	for _, text := range s.Texts {
		r, err := render.NewTextRenderer(strings.Split(text, lineBreak), s.textOptions()...)
		if err == nil {
			err = create(r)
		}
		if err != nil {
			return ids, fmt.Errorf("text %q: %w", text, err)
		}
	}
	for _, text := range s.AnimatedTexts {
		opts := append(s.textOptions(), render.WithCharsPerSecond(s.CharsPerSecond), render.WithDelay(s.Delay))
		r, err := render.NewAnimatedTextRenderer(strings.Split(text, lineBreak), opts...)
		if err == nil {
			err = create(r)
		}
		if err != nil {
			return ids, fmt.Errorf("animated text %q: %w", text, err)
		}
	}
	for _, payload := range s.QRCodes {
		r, err := s.qrCode(payload)
		if err == nil {
			err = create(r)
		}
		if err != nil {
			return ids, fmt.Errorf("qr %q: %w", payload, err)
		}
	}
	return ids, nil
}

func (s Scene) options() []render.Option {
	opts := []render.Option{render.WithStartingPoint(s.At)}
	if len(s.Receivers) > 0 {
		opts = append(opts, render.WithReceivers(s.Receivers...))
	}
	return opts
}

func (s Scene) textOptions() []render.Option {
	opts := s.options()
	if s.Font != nil {
		opts = append(opts, render.WithFont(s.Font))
	}
	return opts
}

func (s Scene) image(ctx context.Context, src Sources, path string) (render.Renderer, error) {
	img, err := src.Image(ctx, path)
	if err != nil {
		return nil, err
	}
	resized, err := imagetools.ResizeToMapSize(img)
	if err != nil {
		return nil, err
	}
	return render.NewImageRenderer(resized, s.options()...)
}

func (s Scene) bigImage(ctx context.Context, src Sources, path string) ([]render.Renderer, error) {
	img, err := src.Image(ctx, path)
	if err != nil {
		return nil, err
	}
	parts, err := imagetools.DivideIntoMapSizedParts(img, s.Crop)
	if err != nil {
		return nil, err
	}
	renderers := make([]render.Renderer, 0, len(parts))
	for _, part := range parts {
		r, err := render.NewImageRenderer(part)
		if err != nil {
			return nil, err
		}
		renderers = append(renderers, r)
	}
	return renderers, nil
}

func (s Scene) gif(ctx context.Context, src Sources, path string) (render.Renderer, error) {
	gif, repeat, err := src.GIF(ctx, path)
	if err != nil {
		return nil, err
	}
	if gif, err = imagetools.ResizeGIF(gif); err != nil {
		return nil, err
	}
	return render.NewGIFRenderer(gif, append(s.options(), render.WithRepeat(repeat))...)
}

func (s Scene) bigGIF(ctx context.Context, src Sources, path string) ([]render.Renderer, error) {
	gif, repeat, err := src.GIF(ctx, path)
	if err != nil {
		return nil, err
	}
	parts, err := imagetools.DivideGIF(gif, s.Crop)
	if err != nil {
		return nil, err
	}
	renderers := make([]render.Renderer, 0, len(parts))
	for _, part := range parts {
		r, err := render.NewGIFRenderer(part, render.WithRepeat(repeat))
		if err != nil {
			return nil, err
		}
		renderers = append(renderers, r)
	}
	return renderers, nil
}

func (s Scene) qrCode(payload string) (render.Renderer, error) {
	img, err := imagetools.QRCode(payload)
	if err != nil {
		return nil, err
	}
	return render.NewImageRenderer(img, s.options()...)
}

// LoadFont reads a TrueType (.ttf) or OpenType (.otf) font file.
func LoadFont(path string, size float64) (*render.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	name := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(path), ".otf") {
		return render.LoadOpenType(name, data, size)
	}
	return render.LoadTrueType(name, data, size)
}
