// Package board holds the ordered column and task sequences of one board.
//
// A Board is a value: every mutation returns a new Board and leaves the
// receiver untouched. Tasks live in a single sequence shared by all columns;
// a task's column is its ColumnID, and its order within that column is its
// order in the shared sequence.
package board

import (
	"slices"

	"github.com/evanschultz/dragboard/internal/domain"
)

// Board represents the board state used by this package.
type Board struct {
	columns []domain.Column
	tasks   []domain.Task
}

// New returns an empty board.
func New() Board {
	return Board{}
}

// FromSequences builds a board from existing sequences. Tasks that reference
// an unknown column are dropped.
func FromSequences(columns []domain.Column, tasks []domain.Task) Board {
	b := Board{columns: slices.Clone(columns)}
	for _, task := range tasks {
		if b.ColumnIndex(task.ColumnID) < 0 {
			continue
		}
		b.tasks = append(b.tasks, task)
	}
	return b
}

// Columns returns a copy of the ordered column sequence.
func (b Board) Columns() []domain.Column {
	return slices.Clone(b.columns)
}

// Tasks returns a copy of the ordered task sequence.
func (b Board) Tasks() []domain.Task {
	return slices.Clone(b.tasks)
}

// TasksInColumn returns the tasks of one column in display order.
func (b Board) TasksInColumn(columnID string) []domain.Task {
	out := make([]domain.Task, 0)
	for _, task := range b.tasks {
		if task.ColumnID == columnID {
			out = append(out, task)
		}
	}
	return out
}

// ColumnIndex returns the sequence index of a column, or -1.
func (b Board) ColumnIndex(id string) int {
	return slices.IndexFunc(b.columns, func(c domain.Column) bool { return c.ID == id })
}

// TaskIndex returns the sequence index of a task, or -1.
func (b Board) TaskIndex(id string) int {
	return slices.IndexFunc(b.tasks, func(t domain.Task) bool { return t.ID == id })
}

// Column returns the column with the given id.
func (b Board) Column(id string) (domain.Column, bool) {
	idx := b.ColumnIndex(id)
	if idx < 0 {
		return domain.Column{}, false
	}
	return b.columns[idx], true
}

// Task returns the task with the given id.
func (b Board) Task(id string) (domain.Task, bool) {
	idx := b.TaskIndex(id)
	if idx < 0 {
		return domain.Task{}, false
	}
	return b.tasks[idx], true
}

// AddColumn appends a column with the default title for its position.
func (b Board) AddColumn(id string) Board {
	return b.AddColumnTitled(id, domain.DefaultColumnTitle(len(b.columns)+1))
}

// AddColumnTitled appends a column with an explicit title. Duplicate ids are ignored.
func (b Board) AddColumnTitled(id, title string) Board {
	if id == "" || b.ColumnIndex(id) >= 0 {
		return b
	}
	out := b.clone()
	out.columns = append(out.columns, domain.Column{ID: id, Title: title})
	return out
}

// RemoveColumn removes a column and every task assigned to it.
func (b Board) RemoveColumn(id string) Board {
	if b.ColumnIndex(id) < 0 {
		return b
	}
	out := Board{
		columns: slices.DeleteFunc(slices.Clone(b.columns), func(c domain.Column) bool { return c.ID == id }),
		tasks:   slices.DeleteFunc(slices.Clone(b.tasks), func(t domain.Task) bool { return t.ColumnID == id }),
	}
	return out
}

// RenameColumn replaces the title of a column.
func (b Board) RenameColumn(id, title string) Board {
	idx := b.ColumnIndex(id)
	if idx < 0 {
		return b
	}
	out := b.clone()
	out.columns[idx].Title = title
	return out
}

// AddTask appends a task. It is a no-op when the column does not exist or the
// task id is already taken.
func (b Board) AddTask(id, columnID, content string) Board {
	if id == "" || b.TaskIndex(id) >= 0 || b.ColumnIndex(columnID) < 0 {
		return b
	}
	out := b.clone()
	out.tasks = append(out.tasks, domain.Task{ID: id, ColumnID: columnID, Content: content})
	return out
}

// RemoveTask removes one task.
func (b Board) RemoveTask(id string) Board {
	if b.TaskIndex(id) < 0 {
		return b
	}
	out := b.clone()
	out.tasks = slices.DeleteFunc(out.tasks, func(t domain.Task) bool { return t.ID == id })
	return out
}

// EditTask replaces the content of a task.
func (b Board) EditTask(id, content string) Board {
	idx := b.TaskIndex(id)
	if idx < 0 {
		return b
	}
	out := b.clone()
	out.tasks[idx].Content = content
	return out
}

// ReassignTask sets the column of a task without changing its position.
func (b Board) ReassignTask(id, columnID string) Board {
	idx := b.TaskIndex(id)
	if idx < 0 || b.ColumnIndex(columnID) < 0 {
		return b
	}
	if b.tasks[idx].ColumnID == columnID {
		return b
	}
	out := b.clone()
	out.tasks[idx].ColumnID = columnID
	return out
}

// MoveColumn relocates the column at from to index to, shifting the columns
// in between by one.
func (b Board) MoveColumn(from, to int) Board {
	moved, ok := move(b.columns, from, to)
	if !ok {
		return b
	}
	return Board{columns: moved, tasks: slices.Clone(b.tasks)}
}

// MoveTask relocates the task at from to index to, shifting the tasks in
// between by one.
func (b Board) MoveTask(from, to int) Board {
	moved, ok := move(b.tasks, from, to)
	if !ok {
		return b
	}
	return Board{columns: slices.Clone(b.columns), tasks: moved}
}

// clone copies both sequences so the receiver stays unaliased.
func (b Board) clone() Board {
	return Board{
		columns: slices.Clone(b.columns),
		tasks:   slices.Clone(b.tasks),
	}
}

// move returns a copy of in with element from placed at index to. It reports
// false for equal or out-of-range indices.
func move[T any](in []T, from, to int) ([]T, bool) {
	if from == to || from < 0 || to < 0 || from >= len(in) || to >= len(in) {
		return nil, false
	}
	out := slices.Clone(in)
	item := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, item)
	return out, true
}
