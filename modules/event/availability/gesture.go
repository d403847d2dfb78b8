package availability

import "meetgrid/modules/event/entity"

type GestureState int

const (
	GestureIdle GestureState = iota
	GestureDragging
)

func (s GestureState) String() string {
	if s == GestureDragging {
		return "dragging"
	}
	return "idle"
}

// Gesture tracks one press-drag-release interaction over a grid.
//
//	Idle --Press--> Dragging --Release/Leave--> Idle
//
// Leaving the grid mid-drag commits the in-progress selection, exactly like a
// release.
type Gesture struct {
	grid    Grid
	state   GestureState
	anchor  entity.SlotKey
	current entity.SlotKey
	mode    Mode
}

func NewGesture(grid Grid) *Gesture {
	return &Gesture{grid: grid}
}

func (g *Gesture) State() GestureState {
	return g.state
}

func (g *Gesture) Mode() Mode {
	return g.mode
}

// Press starts a drag at key and fixes the mode from the anchor cell.
func (g *Gesture) Press(store *Store, key entity.SlotKey, participant string) {
	g.mode = ModeFor(store, key, participant)
	g.anchor = key
	g.current = key
	g.state = GestureDragging
}

// Enter moves the moving corner of the rectangle. Ignored while idle.
func (g *Gesture) Enter(key entity.SlotKey) {
	if g.state != GestureDragging {
		return
	}
	g.current = key
}

// Pending is the region currently covered by an active drag.
func (g *Gesture) Pending() []entity.SlotKey {
	if g.state != GestureDragging {
		return nil
	}
	return g.grid.Region(g.anchor, g.current)
}

// Release ends the drag and returns the selection to commit. ok is false when
// there was no drag in progress.
func (g *Gesture) Release() (sel Selection, ok bool) {
	if g.state != GestureDragging {
		return Selection{}, false
	}
	sel = Selection{
		Region: g.grid.Region(g.anchor, g.current),
		Mode:   g.mode,
	}
	g.state = GestureIdle
	g.anchor = entity.SlotKey{}
	g.current = entity.SlotKey{}
	return sel, true
}

// Leave is a release triggered by the pointer leaving the grid.
func (g *Gesture) Leave() (Selection, bool) {
	return g.Release()
}
