package domain

import (
	"errors"
	"testing"
)

func TestNewColumnValidation(t *testing.T) {
	if _, err := NewColumn("", "todo"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := NewColumn("c1", "   "); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}
	c, err := NewColumn(" c1 ", "  Column 1 ")
	if err != nil {
		t.Fatalf("NewColumn() error = %v", err)
	}
	if c.ID != "c1" || c.Title != "Column 1" {
		t.Fatalf("unexpected column %#v", c)
	}
}

func TestColumnRename(t *testing.T) {
	c, err := NewColumn("c1", "todo")
	if err != nil {
		t.Fatalf("NewColumn() error = %v", err)
	}
	if err := c.Rename("  done "); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if c.Title != "done" {
		t.Fatalf("unexpected column title %q", c.Title)
	}
	if err := c.Rename(""); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}
	if c.Title != "done" {
		t.Fatalf("expected title unchanged after failed rename, got %q", c.Title)
	}
}

func TestNewTaskValidation(t *testing.T) {
	cases := []struct {
		name string
		in   TaskInput
		want error
	}{
		{name: "missing id", in: TaskInput{ColumnID: "c1", Content: "x"}, want: ErrInvalidID},
		{name: "missing column", in: TaskInput{ID: "t1", Content: "x"}, want: ErrInvalidColumnID},
		{name: "blank content", in: TaskInput{ID: "t1", ColumnID: "c1", Content: " "}, want: ErrInvalidContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewTask(tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestTaskEditAndReassign(t *testing.T) {
	task, err := NewTask(TaskInput{ID: "t1", ColumnID: "c1", Content: " Ship feature "})
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	if task.Content != "Ship feature" {
		t.Fatalf("unexpected content %q", task.Content)
	}
	if err := task.Edit("  rewrite docs "); err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if task.Content != "rewrite docs" {
		t.Fatalf("unexpected content %q", task.Content)
	}
	if err := task.Reassign("c2"); err != nil {
		t.Fatalf("Reassign() error = %v", err)
	}
	if task.ColumnID != "c2" {
		t.Fatalf("unexpected column id %q", task.ColumnID)
	}
	if err := task.Reassign(" "); !errors.Is(err, ErrInvalidColumnID) {
		t.Fatalf("expected ErrInvalidColumnID, got %v", err)
	}
}

func TestDefaultTitles(t *testing.T) {
	if got := DefaultColumnTitle(2); got != "Column 2" {
		t.Fatalf("unexpected default column title %q", got)
	}
	if got := DefaultTaskContent(3); got != "Task 3" {
		t.Fatalf("unexpected default task content %q", got)
	}
}
