package imagetools

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"io"
	"net/http"
	"time"

	// Decoders for LoadImage.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/rook-computer/mapcanvas/internal/render"
)

// defaultFrameDelay replaces GIF frame delays of zero, matching what
// browsers show.
const defaultFrameDelay = 100 * time.Millisecond

// userAgent is sent by Fetch; some image hosts refuse requests without one.
const userAgent = "Mozilla/5.0"

// LoadImage decodes a png, jpeg, gif, bmp, tiff or webp image. For GIFs only
// the first frame is returned.
func LoadImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// LoadGIF decodes an animated GIF into a render.GIF and the repeat value its
// loop count asks for: RepeatForever for 0, one pass for -1, and n+1 passes
// for n. Frames are composited onto a running canvas so that every returned
// frame is a complete picture.
func LoadGIF(r io.Reader) (*render.GIF, int, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("decode gif: %w", err)
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() && len(g.Image) > 0 {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)
	frames := make([]render.Frame, 0, len(g.Image))
	for i, paletted := range g.Image {
		var previous *image.RGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			previous = Copy(canvas)
		}

		draw.Draw(canvas, paletted.Bounds(), paletted, paletted.Bounds().Min, draw.Over)

		delay := defaultFrameDelay
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		f, err := render.NewFrame(canvas, delay)
		if err != nil {
			return nil, 0, fmt.Errorf("frame %d: %w", i, err)
		}
		frames = append(frames, f)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, paletted.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			draw.Draw(canvas, canvas.Bounds(), previous, image.Point{}, draw.Src)
		}
	}

	out, err := render.NewGIF(frames)
	if err != nil {
		return nil, 0, err
	}
	return out, repeatFromLoopCount(g.LoopCount), nil
}

func repeatFromLoopCount(loopCount int) int {
	switch {
	case loopCount == 0:
		return render.RepeatForever
	case loopCount < 0:
		return 1
	default:
		return loopCount + 1
	}
}

// Fetch downloads url with client and decodes it with LoadImage.
func Fetch(ctx context.Context, client *http.Client, url string) (image.Image, error) {
	body, err := fetch(ctx, client, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return LoadImage(body)
}

// FetchGIF downloads url with client and decodes it with LoadGIF.
func FetchGIF(ctx context.Context, client *http.Client, url string) (*render.GIF, int, error) {
	body, err := fetch(ctx, client, url)
	if err != nil {
		return nil, 0, err
	}
	defer body.Close()
	return LoadGIF(body)
}

func fetch(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	return resp.Body, nil
}
