package render

import (
	"image"
	"slices"
)

type deliveryKey struct {
	surface int
	viewer  ViewerID
}

// base is the state every renderer kind shares: the receiver set, the
// delivery policy and record, the precondition and the stop flag.
type base struct {
	kind Kind
	self drawer

	startingPoint image.Point
	precondition  Precondition

	forAll    bool
	receivers map[ViewerID]struct{}
	initial   []ViewerID

	renderOnce bool
	delivered  map[deliveryKey]struct{}

	stopped bool
}

func newBase(kind Kind, self drawer, o options) base {
	b := base{
		kind:          kind,
		self:          self,
		startingPoint: o.startingPoint,
		precondition:  o.precondition,
		forAll:        len(o.receivers) == 0,
		receivers:     make(map[ViewerID]struct{}, len(o.receivers)),
		renderOnce:    o.renderOnce,
		delivered:     make(map[deliveryKey]struct{}),
	}
	for _, v := range o.receivers {
		b.receivers[v] = struct{}{}
	}
	b.initial = sortedViewers(b.receivers)
	return b
}

func (b *base) Kind() Kind { return b.kind }

func (b *base) Render(surface Surface, canvas Canvas, viewer ViewerID) {
	if canvas == nil {
		panic("render: nil canvas")
	}
	ctx := Context{Surface: surface, Canvas: canvas, Viewer: viewer}
	if !b.mayRender(ctx) {
		return
	}
	b.self.draw(ctx)
	if b.renderOnce {
		b.delivered[deliveryKey{surface.ID, viewer}] = struct{}{}
	}
}

func (b *base) mayRender(ctx Context) bool {
	if b.stopped {
		return false
	}
	if !b.forAll {
		if _, ok := b.receivers[ctx.Viewer]; !ok {
			return false
		}
	}
	if b.renderOnce {
		if _, ok := b.delivered[deliveryKey{ctx.Surface.ID, ctx.Viewer}]; ok {
			return false
		}
	}
	return b.precondition(ctx)
}

func (b *base) Stop()         { b.stopped = true }
func (b *base) Stopped() bool { return b.stopped }

// AddReceiver adds a viewer to the receiver set. On a renderer that draws
// for every viewer the set is recorded but does not restrict anything.
func (b *base) AddReceiver(viewer ViewerID) error {
	if viewer == "" {
		return invalidf("receiver must not be empty")
	}
	b.receivers[viewer] = struct{}{}
	return nil
}

// RemoveReceiver removes a viewer and reports whether it was a receiver.
func (b *base) RemoveReceiver(viewer ViewerID) (bool, error) {
	if viewer == "" {
		return false, invalidf("receiver must not be empty")
	}
	_, ok := b.receivers[viewer]
	delete(b.receivers, viewer)
	return ok, nil
}

// Receivers returns the current receivers, sorted. It is empty for a
// renderer that draws for every viewer.
func (b *base) Receivers() []ViewerID { return sortedViewers(b.receivers) }

// InitialReceivers returns the receivers the renderer was built with.
func (b *base) InitialReceivers() []ViewerID { return slices.Clone(b.initial) }

func (b *base) RendersForAll() bool { return b.forAll }
func (b *base) RenderOnce() bool    { return b.renderOnce }

// Delivered reports whether the once-delivery for the pair has happened.
// It is always false for repeating renderers.
func (b *base) Delivered(surfaceID int, viewer ViewerID) bool {
	_, ok := b.delivered[deliveryKey{surfaceID, viewer}]
	return ok
}

// Undelivered returns the receivers still waiting for a draw on the surface.
// Renderers drawing for every viewer have no enumerable audience and return
// nil.
func (b *base) Undelivered(surfaceID int) []ViewerID {
	if b.forAll {
		return nil
	}
	var out []ViewerID
	for v := range b.receivers {
		if !b.Delivered(surfaceID, v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

func (b *base) StartingPoint() image.Point { return b.startingPoint }

func (b *base) SetStartingPoint(p image.Point) error {
	if err := checkStartingPoint(p.X, p.Y); err != nil {
		return err
	}
	b.startingPoint = p
	return nil
}

func sortedViewers(set map[ViewerID]struct{}) []ViewerID {
	out := make([]ViewerID, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
