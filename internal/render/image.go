package render

import "image"

// ImageRenderer draws a static image at its starting point. It holds its own
// copy of the image, so later changes to the caller's image have no effect.
type ImageRenderer struct {
	base
	image *image.RGBA
}

// NewImageRenderer builds an image renderer. It renders once per viewer
// unless WithRenderOnce(false) is given.
func NewImageRenderer(img image.Image, opts ...Option) (*ImageRenderer, error) {
	o := newOptions(opts)
	if err := o.check(KindImage, commonOptions); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, invalidf("image must not be nil")
	}
	r := &ImageRenderer{image: CloneImage(img)}
	r.base = newBase(KindImage, r, o)
	return r, nil
}

func (r *ImageRenderer) draw(ctx Context) {
	ctx.Canvas.DrawImage(r.image, r.startingPoint.X, r.startingPoint.Y)
}

// Image returns a copy of the rendered image.
func (r *ImageRenderer) Image() *image.RGBA { return CloneImage(r.image) }

// SetImage replaces the rendered image with a copy of img.
func (r *ImageRenderer) SetImage(img image.Image) error {
	if img == nil {
		return invalidf("image must not be nil")
	}
	r.image = CloneImage(img)
	return nil
}
