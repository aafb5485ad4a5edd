package domain

import (
	"fmt"
	"strings"
)

// Task is a unit of work. ColumnID is a back-reference to the owning column;
// membership order lives in the board's task sequence, not on the task.
type Task struct {
	ID       string
	ColumnID string
	Content  string
}

// TaskInput holds input values for task construction.
type TaskInput struct {
	ID       string
	ColumnID string
	Content  string
}

// DefaultTaskContent returns the content given to the n-th created task.
func DefaultTaskContent(n int) string {
	return fmt.Sprintf("Task %d", n)
}

// NewTask constructs a new value for this package.
func NewTask(in TaskInput) (Task, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.ColumnID = strings.TrimSpace(in.ColumnID)
	in.Content = strings.TrimSpace(in.Content)

	if in.ID == "" {
		return Task{}, ErrInvalidID
	}
	if in.ColumnID == "" {
		return Task{}, ErrInvalidColumnID
	}
	if in.Content == "" {
		return Task{}, ErrInvalidContent
	}
	return Task{
		ID:       in.ID,
		ColumnID: in.ColumnID,
		Content:  in.Content,
	}, nil
}

// Edit replaces the task content.
func (t *Task) Edit(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrInvalidContent
	}
	t.Content = content
	return nil
}

// Reassign points the task at another column.
func (t *Task) Reassign(columnID string) error {
	columnID = strings.TrimSpace(columnID)
	if columnID == "" {
		return ErrInvalidColumnID
	}
	t.ColumnID = columnID
	return nil
}
