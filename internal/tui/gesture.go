package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/evanschultz/dragboard/internal/dnd"
)

// pointerState tracks one left-button gesture from press to release. A press
// on a draggable region stays pending until the pointer travels the
// activation distance; a release before that is a click.
type pointerState struct {
	pressed  bool
	dragging bool
	origin   region
	startX   int
	startY   int
	x        int
	y        int
	// grab offset of the pointer inside the pressed region.
	grabX int
	grabY int
	// lastOver is the target key of the last forwarded drag-over.
	lastOver string
	changed  bool
}

// activated reports whether the pointer has moved far enough from the press.
func (p pointerState) activated(distance int) bool {
	dx := p.x - p.startX
	dy := p.y - p.startY
	return dx*dx+dy*dy >= distance*distance
}

func (m Model) handleMousePress(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseLeft {
		return m, nil
	}
	if m.mode != modeNone || m.help.ShowAll || m.pointer.dragging {
		return m, nil
	}
	hit, ok := m.layout.hit(msg.X, msg.Y)
	if !ok {
		m.pointer = pointerState{}
		return m, nil
	}
	m.pointer = pointerState{
		pressed: true,
		origin:  hit,
		startX:  msg.X,
		startY:  msg.Y,
		x:       msg.X,
		y:       msg.Y,
		grabX:   msg.X - hit.rect.X,
		grabY:   msg.Y - hit.rect.Y,
	}
	return m, nil
}

func (m Model) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	if !m.pointer.pressed {
		return m, nil
	}
	m.pointer.x = msg.X
	m.pointer.y = msg.Y
	if !m.pointer.dragging {
		if !m.pointer.origin.draggable() || !m.pointer.activated(m.cfg.ActivationDistance) {
			return m, nil
		}
		if !m.startDrag() {
			return m, nil
		}
	}
	m.dragOverAt(msg.X, msg.Y)
	return m, nil
}

func (m Model) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	p := m.pointer
	m.pointer = pointerState{}
	if !p.pressed {
		return m, nil
	}
	if !p.dragging {
		return m.click(p.origin)
	}

	active, ok := m.activeDescriptor()
	if !ok {
		m.svc.CancelDrag()
		m.refresh()
		m.status = "dragged item was removed"
		return m, nil
	}
	change := m.svc.DragEnd(dnd.DragEndEvent{Active: active, Over: m.overAt(msg.X, msg.Y)})
	m.refresh()
	switch {
	case change.Moved() && change.Kind == dnd.KindColumn:
		m.selectColumnID(change.ID)
		m.refresh()
		m.status = "moved column"
	case p.changed:
		m.status = "moved task"
	default:
		m.status = "drop: no change"
	}
	return m, nil
}

// startDrag opens a gesture for the pressed region. It returns false and
// drops the press when the service rejects the start.
func (m *Model) startDrag() bool {
	active, ok := m.describe(m.pointer.origin)
	if !ok {
		m.pointer = pointerState{}
		return false
	}
	if err := m.svc.DragStart(dnd.DragStartEvent{Active: active}); err != nil {
		m.status = "drag ignored: " + err.Error()
		m.pointer = pointerState{}
		return false
	}
	m.pointer.dragging = true
	switch m.pointer.origin.kind {
	case regionTask:
		m.selectTaskID(m.pointer.origin.id)
	case regionColumn:
		m.selectColumnID(m.pointer.origin.id)
	}
	m.refresh()
	m.status = "dragging " + strings.ToLower(active.Kind)
	return true
}

// dragOverAt forwards the target under the pointer when it changes.
func (m *Model) dragOverAt(x, y int) {
	active, ok := m.activeDescriptor()
	if !ok {
		return
	}
	over := m.overAt(x, y)
	target := overKey(over)
	if target == m.pointer.lastOver {
		return
	}
	m.pointer.lastOver = target
	change := m.svc.DragOver(dnd.DragOverEvent{Active: active, Over: over})
	if change.Empty() {
		return
	}
	m.pointer.changed = true
	m.refresh()
	if change.Kind == dnd.KindTask {
		m.selectTaskID(change.ID)
		m.refresh()
	}
}

func (m *Model) cancelDrag() Model {
	m.svc.CancelDrag()
	m.pointer = pointerState{}
	m.refresh()
	m.status = "drag cancelled"
	return *m
}

// click handles a release that never became a drag.
func (m Model) click(origin region) (tea.Model, tea.Cmd) {
	switch origin.kind {
	case regionTask:
		m.selectTaskID(origin.id)
	case regionColumn:
		m.selectColumnID(origin.id)
	case regionAddTask:
		return m.createTask(origin.columnID)
	case regionAddColumn:
		return m.createColumn()
	}
	m.refresh()
	return m, nil
}

// activeDescriptor describes the live dragged entity.
func (m Model) activeDescriptor() (dnd.Descriptor, bool) {
	switch m.snap.Active.Kind {
	case dnd.KindColumn:
		return dnd.ColumnDescriptor(m.snap.Active.Column), true
	case dnd.KindTask:
		return dnd.TaskDescriptor(m.snap.Active.Task), true
	default:
		return dnd.Descriptor{}, false
	}
}

// describe builds the descriptor carried by a region.
func (m Model) describe(r region) (dnd.Descriptor, bool) {
	switch r.kind {
	case regionTask:
		task, ok := m.taskByID(r.id)
		if !ok {
			return dnd.Descriptor{}, false
		}
		return dnd.TaskDescriptor(task), true
	case regionColumn, regionAddTask:
		column, ok := m.columnByID(r.columnID)
		if !ok {
			return dnd.Descriptor{}, false
		}
		return dnd.ColumnDescriptor(column), true
	default:
		return dnd.Descriptor{}, false
	}
}

// overAt resolves the drop target under the pointer. Column drags only see
// columns; task drags see the innermost region.
func (m Model) overAt(x, y int) *dnd.Descriptor {
	var (
		r  region
		ok bool
	)
	if m.snap.Active.Kind == dnd.KindColumn {
		r, ok = m.layout.columnAt(x, y)
	} else {
		r, ok = m.layout.hit(x, y)
	}
	if !ok {
		return nil
	}
	d, ok := m.describe(r)
	if !ok {
		return nil
	}
	return &d
}

func overKey(d *dnd.Descriptor) string {
	if d == nil {
		return ""
	}
	return d.Kind + ":" + d.ID
}
