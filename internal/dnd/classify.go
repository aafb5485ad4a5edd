// Package dnd interprets drag gestures as structural board mutations.
//
// A gesture arrives as drag-start, zero or more drag-over events and a
// drag-end. Task drags reshape the board on every drag-over so the task
// visibly lands in the hovered column; column drags are applied once, at
// drag-end.
package dnd

import "github.com/evanschultz/dragboard/internal/domain"

// Kind tags the entity a descriptor refers to.
type Kind int

// Kind values.
const (
	KindNone Kind = iota
	KindColumn
	KindTask
)

// Declared kind names carried on draggable and droppable regions.
const (
	KindNameColumn = "Column"
	KindNameTask   = "Task"
)

// String returns the declared name of the kind.
func (k Kind) String() string {
	switch k {
	case KindColumn:
		return KindNameColumn
	case KindTask:
		return KindNameTask
	default:
		return "None"
	}
}

// Descriptor is the metadata attached to one draggable or droppable region.
// Payload is a domain.Column or domain.Task snapshot.
type Descriptor struct {
	ID      string
	Kind    string
	Payload any
}

// ColumnDescriptor describes a column region.
func ColumnDescriptor(c domain.Column) Descriptor {
	return Descriptor{ID: c.ID, Kind: KindNameColumn, Payload: c}
}

// TaskDescriptor describes a task region.
func TaskDescriptor(t domain.Task) Descriptor {
	return Descriptor{ID: t.ID, Kind: KindNameTask, Payload: t}
}

// Entity is a tagged Column or Task value.
type Entity struct {
	Kind   Kind
	Column domain.Column
	Task   domain.Task
}

// ColumnEntity wraps a column.
func ColumnEntity(c domain.Column) Entity {
	return Entity{Kind: KindColumn, Column: c}
}

// TaskEntity wraps a task.
func TaskEntity(t domain.Task) Entity {
	return Entity{Kind: KindTask, Task: t}
}

// ID returns the id of the wrapped entity, or "" for KindNone.
func (e Entity) ID() string {
	switch e.Kind {
	case KindColumn:
		return e.Column.ID
	case KindTask:
		return e.Task.ID
	default:
		return ""
	}
}

// IsNone reports whether the entity is unclassified.
func (e Entity) IsNone() bool {
	return e.Kind == KindNone
}

// Classified is the result of classifying one drag event.
type Classified struct {
	Dragged Entity
	Target  Entity
}

// Classify resolves the dragged and target descriptors into tagged entities.
// A nil target, an unknown kind, or a payload that does not match its
// declared kind classifies as KindNone.
func Classify(dragged Descriptor, target *Descriptor) Classified {
	out := Classified{Dragged: classifyOne(dragged)}
	if target != nil {
		out.Target = classifyOne(*target)
	}
	return out
}

// classifyOne classifies a single descriptor.
func classifyOne(d Descriptor) Entity {
	switch d.Kind {
	case KindNameColumn:
		c, ok := d.Payload.(domain.Column)
		if !ok || c.ID != d.ID {
			return Entity{}
		}
		return ColumnEntity(c)
	case KindNameTask:
		t, ok := d.Payload.(domain.Task)
		if !ok || t.ID != d.ID {
			return Entity{}
		}
		return TaskEntity(t)
	default:
		return Entity{}
	}
}
