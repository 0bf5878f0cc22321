package client

import (
	"context"
	"math"
	"sync"
)

type DragState int

const (
	DragIdle DragState = iota
	DragDragging
	DragDroppedOnFolder
	DragDroppedOnTrash
	DragNoOp
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragDragging:
		return "dragging"
	case DragDroppedOnFolder:
		return "dropped on folder"
	case DragDroppedOnTrash:
		return "dropped on trash"
	case DragNoOp:
		return "no-op"
	}
	return "unknown"
}

type Point struct {
	X, Y float64
}

// DropTarget is where a drag ended: a folder (or namespace) id, or the trash.
type DropTarget struct {
	ID    string
	Trash bool
}

// DropHandler runs the mutation a drop resolves to. Reconciler implements it.
type DropHandler interface {
	Move(ctx context.Context, listing string, ids []string, parent string) (*Mutation, error)
	Delete(ctx context.Context, listing string, ids []string) (*Mutation, error)
}

// DragController is the pointer state machine of one listing view.
type DragController struct {
	handler            DropHandler
	activationDistance float64

	mutex     sync.Mutex
	listing   string
	state     DragState
	selection []string
	pressedID string
	origin    Point
	activeID  string
	delta     Point
}

func NewDragController(handler DropHandler, listing string, activationDistance float64) *DragController {
	return &DragController{
		handler:            handler,
		activationDistance: activationDistance,
		listing:            listing,
	}
}

// Navigate switches the view to another listing and drops all local state.
func (d *DragController) Navigate(listing string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.listing = listing
	d.selection = nil
	d.reset()
}

func (d *DragController) Select(ids ...string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.selection = dedupe(ids)
}

func (d *DragController) Selection() []string {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return append([]string(nil), d.selection...)
}

func (d *DragController) State() DragState {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.state
}

func (d *DragController) ActiveID() string {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.activeID
}

func (d *DragController) Delta() Point {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.delta
}

func (d *DragController) PointerDown(id string, at Point) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.state != DragIdle {
		return
	}
	d.pressedID = id
	d.origin = at
}

// PointerMove starts the drag once the pointer has travelled the activation
// distance. Dragging an unselected item replaces the selection with it.
func (d *DragController) PointerMove(at Point) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	delta := Point{X: at.X - d.origin.X, Y: at.Y - d.origin.Y}
	switch d.state {
	case DragIdle:
		if d.pressedID == "" || math.Hypot(delta.X, delta.Y) < d.activationDistance {
			return
		}
		d.state = DragDragging
		d.activeID = d.pressedID
		if !contains(d.selection, d.activeID) {
			d.selection = []string{d.activeID}
		}
		d.delta = delta
	case DragDragging:
		d.delta = delta
	}
}

// Drop ends the drag on target and runs the resulting mutation. The
// returned state is the outcome; the controller itself is back to idle with
// an empty selection.
func (d *DragController) Drop(ctx context.Context, target DropTarget) (DragState, error) {
	d.mutex.Lock()
	if d.state != DragDragging {
		d.reset()
		d.mutex.Unlock()
		return DragNoOp, nil
	}
	ids := append([]string(nil), d.selection...)
	if len(ids) == 0 {
		ids = []string{d.activeID}
	}
	listing := d.listing
	var outcome DragState
	switch {
	case target.Trash:
		outcome = DragDroppedOnTrash
	case target.ID == "" || target.ID == d.activeID || contains(ids, target.ID):
		outcome = DragNoOp
	default:
		outcome = DragDroppedOnFolder
	}
	d.state = outcome
	d.selection = nil
	d.mutex.Unlock()

	var err error
	switch outcome {
	case DragDroppedOnFolder:
		_, err = d.handler.Move(ctx, listing, ids, target.ID)
	case DragDroppedOnTrash:
		_, err = d.handler.Delete(ctx, listing, ids)
	}

	d.mutex.Lock()
	d.reset()
	d.mutex.Unlock()
	return outcome, err
}

// Cancel abandons a drag without a mutation.
func (d *DragController) Cancel() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.reset()
}

func (d *DragController) reset() {
	d.state = DragIdle
	d.pressedID = ""
	d.activeID = ""
	d.origin = Point{}
	d.delta = Point{}
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
