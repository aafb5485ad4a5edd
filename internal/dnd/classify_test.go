package dnd

import (
	"testing"

	"github.com/evanschultz/dragboard/internal/domain"
)

func TestClassify(t *testing.T) {
	col := domain.Column{ID: "c1", Title: "Column 1"}
	task := domain.Task{ID: "t1", ColumnID: "c1", Content: "x"}
	colD := ColumnDescriptor(col)
	taskD := TaskDescriptor(task)

	cases := []struct {
		name        string
		dragged     Descriptor
		target      *Descriptor
		wantDragged Kind
		wantTarget  Kind
	}{
		{name: "task over column", dragged: taskD, target: &colD, wantDragged: KindTask, wantTarget: KindColumn},
		{name: "column over task", dragged: colD, target: &taskD, wantDragged: KindColumn, wantTarget: KindTask},
		{name: "no target", dragged: taskD, wantDragged: KindTask, wantTarget: KindNone},
		{name: "unknown kind", dragged: Descriptor{ID: "x", Kind: "Lane"}, target: &colD, wantDragged: KindNone, wantTarget: KindColumn},
		{name: "payload mismatch", dragged: Descriptor{ID: "c1", Kind: KindNameTask, Payload: col}, wantDragged: KindNone, wantTarget: KindNone},
		{name: "id mismatch", dragged: Descriptor{ID: "other", Kind: KindNameColumn, Payload: col}, wantDragged: KindNone, wantTarget: KindNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.dragged, tc.target)
			if got.Dragged.Kind != tc.wantDragged {
				t.Fatalf("dragged kind = %v, want %v", got.Dragged.Kind, tc.wantDragged)
			}
			if got.Target.Kind != tc.wantTarget {
				t.Fatalf("target kind = %v, want %v", got.Target.Kind, tc.wantTarget)
			}
		})
	}
}

func TestEntityID(t *testing.T) {
	if got := ColumnEntity(domain.Column{ID: "c1"}).ID(); got != "c1" {
		t.Fatalf("unexpected column entity id %q", got)
	}
	if got := TaskEntity(domain.Task{ID: "t1"}).ID(); got != "t1" {
		t.Fatalf("unexpected task entity id %q", got)
	}
	if got := (Entity{}).ID(); got != "" || !(Entity{}).IsNone() {
		t.Fatalf("expected empty id for none entity, got %q", got)
	}
	if KindTask.String() != "Task" || KindColumn.String() != "Column" || KindNone.String() != "None" {
		t.Fatal("unexpected kind names")
	}
}

func TestOverlaySingleSlot(t *testing.T) {
	var o Overlay
	if _, ok := o.Active(); ok {
		t.Fatal("expected empty overlay")
	}
	if o.Set(Entity{}) {
		t.Fatal("expected none entity to be refused")
	}
	if !o.Set(ColumnEntity(domain.Column{ID: "c1"})) {
		t.Fatal("expected first set to succeed")
	}
	if o.Set(TaskEntity(domain.Task{ID: "t1"})) {
		t.Fatal("expected occupied slot to refuse")
	}
	active, ok := o.Active()
	if !ok || active.ID() != "c1" {
		t.Fatalf("unexpected active %#v", active)
	}
	o.Clear()
	if _, ok := o.Active(); ok {
		t.Fatal("expected cleared overlay")
	}
}
