package domain

import "time"

// ChangeOperation describes one recorded board mutation.
type ChangeOperation string

// ChangeOperation values used by the session activity log.
const (
	ChangeOperationCreate   ChangeOperation = "create"
	ChangeOperationRename   ChangeOperation = "rename"
	ChangeOperationEdit     ChangeOperation = "edit"
	ChangeOperationDelete   ChangeOperation = "delete"
	ChangeOperationMove     ChangeOperation = "move"
	ChangeOperationReassign ChangeOperation = "reassign"
)

// EntityKind tags which sequence an entity lives in.
type EntityKind string

// EntityKind values.
const (
	EntityKindColumn EntityKind = "column"
	EntityKindTask   EntityKind = "task"
)

// ChangeEvent represents a single activity-log entry for a board entity.
type ChangeEvent struct {
	ID         int64
	Kind       EntityKind
	EntityID   string
	Operation  ChangeOperation
	Metadata   map[string]string
	OccurredAt time.Time
}
