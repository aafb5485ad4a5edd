package app

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/evanschultz/dragboard/internal/board"
	"github.com/evanschultz/dragboard/internal/dnd"
	"github.com/evanschultz/dragboard/internal/domain"
)

// defaultActivityLimit caps the activity ring when no limit is configured.
const defaultActivityLimit = 50

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	ActivityLimit int
}

// Clock returns the current time.
type Clock func() time.Time

// Service owns the board for one session. All calls are expected from a
// single goroutine (the UI update loop); it holds no locks.
type Service struct {
	board         board.Board
	engine        *dnd.Engine
	idGen         IDGenerator
	clock         Clock
	log           Logger
	activity      []domain.ChangeEvent
	activityLimit int
	nextEventID   int64
}

// Snapshot is the render state handed to presentational code.
type Snapshot struct {
	Columns  []domain.Column
	Tasks    []domain.Task
	Active   dnd.Entity
	Dragging bool
}

// NewService constructs a new value for this package.
func NewService(idGen IDGenerator, clock Clock, logger Logger, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = UUIDGenerator()
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = nopLogger{}
	}
	if cfg.ActivityLimit <= 0 {
		cfg.ActivityLimit = defaultActivityLimit
	}
	return &Service{
		board:         board.New(),
		engine:        dnd.NewEngine(),
		idGen:         idGen,
		clock:         clock,
		log:           logger,
		activityLimit: cfg.ActivityLimit,
	}
}

// Board returns the current board value.
func (s *Service) Board() board.Board {
	return s.board
}

// Snapshot returns the current columns, tasks and active drag entity. The
// active entity is refreshed from the board so the overlay shows live values.
func (s *Service) Snapshot() Snapshot {
	snap := Snapshot{
		Columns:  s.board.Columns(),
		Tasks:    s.board.Tasks(),
		Dragging: s.engine.State() == dnd.StateDragging,
	}
	active, ok := s.engine.Active()
	if !ok {
		return snap
	}
	switch active.Kind {
	case dnd.KindColumn:
		if c, found := s.board.Column(active.ID()); found {
			snap.Active = dnd.ColumnEntity(c)
		}
	case dnd.KindTask:
		if t, found := s.board.Task(active.ID()); found {
			snap.Active = dnd.TaskEntity(t)
		}
	}
	return snap
}

// CreateColumn appends a column with the default title.
func (s *Service) CreateColumn() (domain.Column, error) {
	column, err := domain.NewColumn(s.idGen(), domain.DefaultColumnTitle(len(s.board.Columns())+1))
	if err != nil {
		return domain.Column{}, fmt.Errorf("create column: %w", err)
	}
	if s.board.ColumnIndex(column.ID) >= 0 {
		return domain.Column{}, fmt.Errorf("create column %q: %w", column.ID, ErrDuplicateID)
	}
	s.board = s.board.AddColumnTitled(column.ID, column.Title)
	s.record(domain.EntityKindColumn, column.ID, domain.ChangeOperationCreate, map[string]string{"title": column.Title})
	s.log.Debug("column created", "column_id", column.ID, "title", column.Title)
	return column, nil
}

// DeleteColumn removes a column and every task in it.
func (s *Service) DeleteColumn(id string) error {
	if _, ok := s.board.Column(id); !ok {
		return fmt.Errorf("delete column %q: %w", id, ErrNotFound)
	}
	removed := len(s.board.TasksInColumn(id))
	s.board = s.board.RemoveColumn(id)
	s.record(domain.EntityKindColumn, id, domain.ChangeOperationDelete, map[string]string{"tasks_removed": strconv.Itoa(removed)})
	s.log.Debug("column deleted", "column_id", id, "tasks_removed", removed)
	return nil
}

// RenameColumn replaces a column title.
func (s *Service) RenameColumn(id, title string) (domain.Column, error) {
	column, ok := s.board.Column(id)
	if !ok {
		return domain.Column{}, fmt.Errorf("rename column %q: %w", id, ErrNotFound)
	}
	previous := column.Title
	if err := column.Rename(title); err != nil {
		return domain.Column{}, fmt.Errorf("rename column %q: %w", id, err)
	}
	s.board = s.board.RenameColumn(id, column.Title)
	s.record(domain.EntityKindColumn, id, domain.ChangeOperationRename, map[string]string{"from": previous, "to": column.Title})
	return column, nil
}

// CreateTask appends a task with default content to a column.
func (s *Service) CreateTask(columnID string) (domain.Task, error) {
	if _, ok := s.board.Column(columnID); !ok {
		return domain.Task{}, fmt.Errorf("create task in column %q: %w", columnID, ErrNotFound)
	}
	task, err := domain.NewTask(domain.TaskInput{
		ID:       s.idGen(),
		ColumnID: columnID,
		Content:  domain.DefaultTaskContent(len(s.board.Tasks()) + 1),
	})
	if err != nil {
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}
	if s.board.TaskIndex(task.ID) >= 0 {
		return domain.Task{}, fmt.Errorf("create task %q: %w", task.ID, ErrDuplicateID)
	}
	s.board = s.board.AddTask(task.ID, task.ColumnID, task.Content)
	s.record(domain.EntityKindTask, task.ID, domain.ChangeOperationCreate, map[string]string{"column_id": columnID})
	s.log.Debug("task created", "task_id", task.ID, "column_id", columnID)
	return task, nil
}

// DeleteTask removes one task.
func (s *Service) DeleteTask(id string) error {
	if _, ok := s.board.Task(id); !ok {
		return fmt.Errorf("delete task %q: %w", id, ErrNotFound)
	}
	s.board = s.board.RemoveTask(id)
	s.record(domain.EntityKindTask, id, domain.ChangeOperationDelete, nil)
	return nil
}

// EditTask replaces task content.
func (s *Service) EditTask(id, content string) (domain.Task, error) {
	task, ok := s.board.Task(id)
	if !ok {
		return domain.Task{}, fmt.Errorf("edit task %q: %w", id, ErrNotFound)
	}
	if err := task.Edit(content); err != nil {
		return domain.Task{}, fmt.Errorf("edit task %q: %w", id, err)
	}
	s.board = s.board.EditTask(id, task.Content)
	s.record(domain.EntityKindTask, id, domain.ChangeOperationEdit, nil)
	return task, nil
}

// Dragging reports whether a gesture is open.
func (s *Service) Dragging() bool {
	return s.engine.State() == dnd.StateDragging
}

// DragStart opens a gesture. Rejected starts are logged and returned; the
// caller is expected to ignore them.
func (s *Service) DragStart(ev dnd.DragStartEvent) error {
	if err := s.engine.DragStart(s.board, ev); err != nil {
		if errors.Is(err, dnd.ErrGestureInProgress) {
			s.log.Warn("drag start ignored", "id", ev.Active.ID, "kind", ev.Active.Kind, "err", err)
		} else {
			s.log.Debug("drag start ignored", "id", ev.Active.ID, "kind", ev.Active.Kind, "err", err)
		}
		return err
	}
	s.log.Debug("drag start", "id", ev.Active.ID, "kind", ev.Active.Kind)
	return nil
}

// DragOver applies live placement for task drags.
func (s *Service) DragOver(ev dnd.DragOverEvent) dnd.Change {
	s.warnForeign("drag over ignored", ev.Active)
	next, change := s.engine.DragOver(s.board, ev)
	s.board = next
	s.recordDrag(change)
	return change
}

// DragEnd closes the gesture, applying a column reorder if one was dropped.
func (s *Service) DragEnd(ev dnd.DragEndEvent) dnd.Change {
	s.warnForeign("drag end ignored", ev.Active)
	next, change := s.engine.DragEnd(s.board, ev)
	s.board = next
	s.recordDrag(change)
	s.log.Debug("drag end", "id", ev.Active.ID, "kind", ev.Active.Kind, "dropped", ev.Over != nil, "changed", !change.Empty())
	return change
}

// CancelDrag closes the gesture without a drop target.
func (s *Service) CancelDrag() {
	if !s.Dragging() {
		return
	}
	s.engine.Cancel()
	s.log.Debug("drag cancelled")
}

// warnForeign logs events that belong to a gesture the engine did not open.
func (s *Service) warnForeign(msg string, d dnd.Descriptor) {
	active, ok := s.engine.Active()
	if !ok || active.ID() == d.ID {
		return
	}
	s.log.Warn(msg, "id", d.ID, "kind", d.Kind, "tracking", active.ID())
}

// Activity lists recorded changes, newest first.
func (s *Service) Activity() []domain.ChangeEvent {
	out := slices.Clone(s.activity)
	slices.Reverse(out)
	return out
}

// recordDrag turns an engine change into activity entries.
func (s *Service) recordDrag(change dnd.Change) {
	if change.Empty() {
		return
	}
	kind := domain.EntityKindTask
	if change.Kind == dnd.KindColumn {
		kind = domain.EntityKindColumn
	}
	if change.Reassigned() {
		s.record(kind, change.ID, domain.ChangeOperationReassign, map[string]string{
			"from_column": change.FromColumn,
			"to_column":   change.ToColumn,
		})
	}
	if change.Moved() {
		s.record(kind, change.ID, domain.ChangeOperationMove, map[string]string{
			"from": strconv.Itoa(change.FromIndex),
			"to":   strconv.Itoa(change.ToIndex),
		})
	}
}

// record appends one activity entry, dropping the oldest past the limit.
func (s *Service) record(kind domain.EntityKind, id string, op domain.ChangeOperation, meta map[string]string) {
	s.nextEventID++
	s.activity = append(s.activity, domain.ChangeEvent{
		ID:         s.nextEventID,
		Kind:       kind,
		EntityID:   id,
		Operation:  op,
		Metadata:   meta,
		OccurredAt: s.clock().UTC(),
	})
	if over := len(s.activity) - s.activityLimit; over > 0 {
		s.activity = slices.Delete(s.activity, 0, over)
	}
}
