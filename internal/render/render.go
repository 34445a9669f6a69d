package render

import "image"

// Surface identifies the map a render invocation applies to. The host owns
// surfaces; renderers only ever hold their identity.
type Surface struct {
	ID    int
	World string
}

// ViewerID identifies a recipient of a surface. The empty ID is not a valid
// viewer.
type ViewerID string

// Canvas is the drawing target the host provides for one (surface, viewer)
// pair. Both primitives anchor their output at the top-left origin (x, y);
// clipping is the canvas' concern.
type Canvas interface {
	DrawImage(img image.Image, x, y int)
	DrawText(text string, x, y int, font *Font)
}

// Context bundles the arguments of a single render invocation.
type Context struct {
	Surface Surface
	Canvas  Canvas
	Viewer  ViewerID
}

// Precondition gates every draw attempt of a renderer.
type Precondition func(ctx Context) bool

// Kind names a renderer variant.
type Kind string

const (
	KindImage        Kind = "image"
	KindText         Kind = "text"
	KindAnimatedText Kind = "animated-text"
	KindGIF          Kind = "gif"
)

// Renderer is the contract the host drives once per surface, viewer and tick.
//
// Renderers are not safe for concurrent use. Animation state is shared by all
// surfaces and viewers a renderer is attached to; only the receiver set and
// the once-delivery record are kept per viewer.
type Renderer interface {
	Kind() Kind

	// Render draws onto canvas if the renderer is eligible for the
	// (surface, viewer) pair. Ineligible calls have no effect.
	Render(surface Surface, canvas Canvas, viewer ViewerID)

	// Stop disables the renderer permanently. It is idempotent.
	Stop()
	Stopped() bool

	AddReceiver(viewer ViewerID) error
	RemoveReceiver(viewer ViewerID) (bool, error)
	Receivers() []ViewerID
	InitialReceivers() []ViewerID
	RendersForAll() bool
	RenderOnce() bool
	Delivered(surfaceID int, viewer ViewerID) bool
	Undelivered(surfaceID int) []ViewerID

	StartingPoint() image.Point
	SetStartingPoint(p image.Point) error
}

// drawer is implemented by every renderer kind. draw is only called after
// eligibility has been established.
type drawer interface {
	draw(ctx Context)
}
