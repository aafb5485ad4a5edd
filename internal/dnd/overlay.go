package dnd

// Overlay holds the single entity currently grasped by the pointer so a
// detached copy of it can be drawn above the board.
type Overlay struct {
	active Entity
}

// Set records the active entity. It reports false and keeps the current one
// when the slot is already occupied or e is unclassified.
func (o *Overlay) Set(e Entity) bool {
	if e.IsNone() || !o.active.IsNone() {
		return false
	}
	o.active = e
	return true
}

// Clear empties the slot.
func (o *Overlay) Clear() {
	o.active = Entity{}
}

// Active returns the active entity, if any.
func (o *Overlay) Active() (Entity, bool) {
	if o.active.IsNone() {
		return Entity{}, false
	}
	return o.active, true
}
