package tui

import (
	"strings"

	"github.com/evanschultz/dragboard/internal/domain"
)

// board geometry, in terminal cells.
const (
	minColumnWidth = 16
	columnGap      = 1
	addColumnWidth = 16
	addColumnLabel = "+ add column"
	addTaskLabel   = "+ add task"
	// column chrome: border plus one cell of horizontal padding per side.
	columnChrome = 4
	// card prefix drawn before every task line.
	cardPrefixWidth = 2
)

// regionKind identifies what sits under one hit rectangle.
type regionKind int

const (
	regionNone regionKind = iota
	regionColumn
	regionTask
	regionAddTask
	regionAddColumn
)

func (k regionKind) String() string {
	switch k {
	case regionColumn:
		return "column"
	case regionTask:
		return "task"
	case regionAddTask:
		return "addTask"
	case regionAddColumn:
		return "addColumn"
	default:
		return "none"
	}
}

// rect is a cell rectangle with an exclusive far edge.
type rect struct {
	X, Y, W, H int
}

func (r rect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// region is one hit target. columnID is the owning column for task and
// add-task regions and the column itself for column regions.
type region struct {
	kind     regionKind
	id       string
	columnID string
	rect     rect
}

// draggable reports whether a press on the region may start a gesture.
func (r region) draggable() bool {
	return r.kind == regionColumn || r.kind == regionTask
}

type taskSlot struct {
	task  domain.Task
	lines []string
	rect  rect
}

type columnSlot struct {
	column  domain.Column
	tasks   []taskSlot
	rect    rect
	addTask rect
}

// layoutParams places the board. top may sit above viewTop when the board is
// scrolled; rows outside [viewTop, viewBottom) are not hittable. A zero
// viewBottom leaves the viewport unbounded.
type layoutParams struct {
	top          int
	left         int
	columnWidth  int
	maxTaskLines int
	viewTop      int
	viewBottom   int
}

// boardLayout is the geometry of one rendered frame. Regions are ordered
// outermost first so hit can scan from the end.
type boardLayout struct {
	params    layoutParams
	columns   []columnSlot
	addColumn rect
	regions   []region
	height    int
}

// innerWidth is the text width inside a column box.
func (l boardLayout) innerWidth() int {
	return l.params.columnWidth - columnChrome
}

// layoutBoard places columns left to right and stacks each column's tasks in
// sequence order. Every column box gets the height of the tallest one.
func layoutBoard(columns []domain.Column, tasks []domain.Task, p layoutParams) boardLayout {
	p.columnWidth = max(p.columnWidth, minColumnWidth)
	p.maxTaskLines = max(p.maxTaskLines, 1)
	l := boardLayout{params: p}
	textWidth := p.columnWidth - columnChrome - cardPrefixWidth

	height := 5
	x := p.left
	for _, column := range columns {
		slot := columnSlot{column: column}
		// border + title + spacer
		row := 3
		for _, task := range tasks {
			if task.ColumnID != column.ID {
				continue
			}
			lines := cardLines(task.Content, textWidth, p.maxTaskLines)
			slot.tasks = append(slot.tasks, taskSlot{
				task:  task,
				lines: lines,
				rect:  rect{X: x + 1, Y: p.top + row, W: p.columnWidth - 2, H: len(lines)},
			})
			row += len(lines) + 1
		}
		slot.addTask = rect{X: x + 1, Y: p.top + row, W: p.columnWidth - 2, H: 1}
		// add-task row + bottom border
		height = max(height, row+2)
		l.columns = append(l.columns, slot)
		x += p.columnWidth + columnGap
	}
	l.height = height
	l.addColumn = rect{X: x, Y: p.top, W: addColumnWidth, H: 3}

	for i := range l.columns {
		slot := &l.columns[i]
		slot.rect = rect{X: p.left + i*(p.columnWidth+columnGap), Y: p.top, W: p.columnWidth, H: height}
		l.regions = append(l.regions, region{kind: regionColumn, id: slot.column.ID, columnID: slot.column.ID, rect: slot.rect})
	}
	for _, slot := range l.columns {
		for _, ts := range slot.tasks {
			l.regions = append(l.regions, region{kind: regionTask, id: ts.task.ID, columnID: slot.column.ID, rect: ts.rect})
		}
		l.regions = append(l.regions, region{kind: regionAddTask, id: slot.column.ID, columnID: slot.column.ID, rect: slot.addTask})
	}
	l.regions = append(l.regions, region{kind: regionAddColumn, rect: l.addColumn})
	return l
}

// visible reports whether row y is inside the viewport.
func (l boardLayout) visible(y int) bool {
	if y < l.params.viewTop {
		return false
	}
	return l.params.viewBottom <= 0 || y < l.params.viewBottom
}

// hit returns the innermost region under the cell.
func (l boardLayout) hit(x, y int) (region, bool) {
	if !l.visible(y) {
		return region{}, false
	}
	for i := len(l.regions) - 1; i >= 0; i-- {
		if l.regions[i].rect.contains(x, y) {
			return l.regions[i], true
		}
	}
	return region{}, false
}

// columnAt returns the column region under the cell, ignoring anything
// nested inside it.
func (l boardLayout) columnAt(x, y int) (region, bool) {
	if !l.visible(y) {
		return region{}, false
	}
	for _, r := range l.regions {
		if r.kind == regionColumn && r.rect.contains(x, y) {
			return r, true
		}
	}
	return region{}, false
}

// cardLines wraps content into at most maxLines lines of width cells. A cut
// card ends with an ellipsis.
func cardLines(content string, width, maxLines int) []string {
	width = max(width, 1)
	var lines []string
	for _, raw := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		runes := []rune(strings.TrimRight(raw, " \t\r"))
		if len(runes) == 0 {
			lines = append(lines, "")
			continue
		}
		for len(runes) > width {
			cut := width
			if sp := lastSpace(runes[:width]); sp > 0 {
				cut = sp
			}
			lines = append(lines, strings.TrimRight(string(runes[:cut]), " "))
			runes = []rune(strings.TrimLeft(string(runes[cut:]), " "))
		}
		lines = append(lines, string(runes))
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		if len(last) >= width {
			last = last[:width-1]
		}
		lines[maxLines-1] = string(last) + "…"
	}
	return lines
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}
