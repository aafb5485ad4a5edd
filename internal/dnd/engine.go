package dnd

import (
	"errors"

	"github.com/evanschultz/dragboard/internal/board"
	"github.com/evanschultz/dragboard/internal/domain"
)

// ErrGestureInProgress and related errors describe rejected drag-starts.
var (
	ErrGestureInProgress = errors.New("drag gesture already in progress")
	ErrUnknownEntity     = errors.New("dragged entity not on board")
)

// State is the gesture state of an Engine.
type State int

// StateIdle and StateDragging are the two engine states.
const (
	StateIdle State = iota
	StateDragging
)

// String returns a readable state name.
func (s State) String() string {
	if s == StateDragging {
		return "dragging"
	}
	return "idle"
}

// DragStartEvent opens a gesture.
type DragStartEvent struct {
	Active Descriptor
}

// DragOverEvent reports the region under the pointer while dragging. Over is
// nil when the pointer is outside every droppable region.
type DragOverEvent struct {
	Active Descriptor
	Over   *Descriptor
}

// DragEndEvent closes a gesture. Over is nil for a drop on empty space.
type DragEndEvent struct {
	Active Descriptor
	Over   *Descriptor
}

// Change describes the structural effect of one event. The zero value means
// nothing changed.
type Change struct {
	Kind       Kind
	ID         string
	FromIndex  int
	ToIndex    int
	FromColumn string
	ToColumn   string
}

// Empty reports whether the event changed nothing.
func (c Change) Empty() bool {
	return c.ID == ""
}

// Moved reports whether the entity changed sequence position.
func (c Change) Moved() bool {
	return !c.Empty() && c.FromIndex != c.ToIndex
}

// Reassigned reports whether a task changed column.
func (c Change) Reassigned() bool {
	return !c.Empty() && c.Kind == KindTask && c.FromColumn != c.ToColumn
}

// Engine is the drag state machine. It owns the overlay slot and computes new
// boards; it never holds a board itself.
type Engine struct {
	state   State
	overlay Overlay
}

// NewEngine returns an idle engine.
func NewEngine() *Engine {
	return &Engine{}
}

// State returns the current gesture state.
func (e *Engine) State() State {
	return e.state
}

// Active returns the entity recorded at drag-start, if a gesture is open.
func (e *Engine) Active() (Entity, bool) {
	return e.overlay.Active()
}

// DragStart records the grasped entity. No structural change happens yet.
// While a gesture is open, further starts are rejected and the original
// gesture keeps tracking.
func (e *Engine) DragStart(b board.Board, ev DragStartEvent) error {
	if e.state == StateDragging {
		return ErrGestureInProgress
	}
	dragged := Classify(ev.Active, nil).Dragged
	live, ok := resolve(b, dragged)
	if !ok {
		return ErrUnknownEntity
	}
	e.overlay.Set(live)
	e.state = StateDragging
	return nil
}

// DragOver applies live task placement. Column drags are deferred to DragEnd.
// Events for anything but the gesture opened by DragStart are ignored.
func (e *Engine) DragOver(b board.Board, ev DragOverEvent) (board.Board, Change) {
	dragged, ok := e.tracking(ev.Active)
	if !ok {
		return b, Change{}
	}
	c := Classify(ev.Active, ev.Over)
	if dragged.Kind != KindTask || c.Target.IsNone() {
		return b, Change{}
	}
	activeID := dragged.ID()
	overID := c.Target.ID()
	if activeID == overID {
		return b, Change{}
	}
	activeIndex := b.TaskIndex(activeID)
	if activeIndex < 0 {
		return b, Change{}
	}
	active, _ := b.Task(activeID)

	switch c.Target.Kind {
	case KindTask:
		overIndex := b.TaskIndex(overID)
		if overIndex < 0 {
			return b, Change{}
		}
		over, _ := b.Task(overID)
		next := b.ReassignTask(activeID, over.ColumnID).MoveTask(activeIndex, overIndex)
		return next, taskChange(active, activeIndex, overIndex, over.ColumnID)
	case KindColumn:
		if b.ColumnIndex(overID) < 0 {
			return b, Change{}
		}
		next := b.ReassignTask(activeID, overID)
		return next, taskChange(active, activeIndex, activeIndex, overID)
	default:
		return b, Change{}
	}
}

// DragEnd finalizes a column drag and closes the gesture. Task drags have
// already been applied by DragOver. An end for an entity other than the one
// being tracked is ignored and leaves the gesture open.
func (e *Engine) DragEnd(b board.Board, ev DragEndEvent) (board.Board, Change) {
	if e.state == StateIdle {
		e.reset()
		return b, Change{}
	}
	dragged, ok := e.tracking(ev.Active)
	if !ok {
		return b, Change{}
	}
	defer e.reset()

	c := Classify(ev.Active, ev.Over)
	if dragged.Kind != KindColumn || c.Target.Kind != KindColumn {
		return b, Change{}
	}
	activeIndex := b.ColumnIndex(dragged.ID())
	overIndex := b.ColumnIndex(c.Target.ID())
	if activeIndex < 0 || overIndex < 0 || activeIndex == overIndex {
		return b, Change{}
	}
	return b.MoveColumn(activeIndex, overIndex), Change{
		Kind:      KindColumn,
		ID:        dragged.ID(),
		FromIndex: activeIndex,
		ToIndex:   overIndex,
	}
}

// Cancel closes the gesture without a drop target. Placement already applied
// by DragOver stays in place.
func (e *Engine) Cancel() {
	e.reset()
}

// tracking returns the recorded entity when d refers to the open gesture.
func (e *Engine) tracking(d Descriptor) (Entity, bool) {
	if e.state != StateDragging {
		return Entity{}, false
	}
	active, ok := e.overlay.Active()
	if !ok {
		return Entity{}, false
	}
	if d.ID != active.ID() || d.Kind != active.Kind.String() {
		return Entity{}, false
	}
	return active, true
}

// reset clears the overlay and returns to idle.
func (e *Engine) reset() {
	e.overlay.Clear()
	e.state = StateIdle
}

// taskChange builds the Change for a task drag-over, or the zero Change when
// nothing moved.
func taskChange(active domain.Task, from, to int, toColumn string) Change {
	if from == to && active.ColumnID == toColumn {
		return Change{}
	}
	return Change{
		Kind:       KindTask,
		ID:         active.ID,
		FromIndex:  from,
		ToIndex:    to,
		FromColumn: active.ColumnID,
		ToColumn:   toColumn,
	}
}

// resolve looks an entity up on the board by id so the overlay holds live
// values rather than the event payload.
func resolve(b board.Board, e Entity) (Entity, bool) {
	switch e.Kind {
	case KindColumn:
		c, ok := b.Column(e.ID())
		if !ok {
			return Entity{}, false
		}
		return ColumnEntity(c), true
	case KindTask:
		t, ok := b.Task(e.ID())
		if !ok {
			return Entity{}, false
		}
		return TaskEntity(t), true
	default:
		return Entity{}, false
	}
}
