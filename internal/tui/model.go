package tui

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/evanschultz/dragboard/internal/app"
	"github.com/evanschultz/dragboard/internal/dnd"
	"github.com/evanschultz/dragboard/internal/domain"
)

// Service is the board API the model drives.
type Service interface {
	Snapshot() app.Snapshot
	Activity() []domain.ChangeEvent
	CreateColumn() (domain.Column, error)
	DeleteColumn(string) error
	RenameColumn(string, string) (domain.Column, error)
	CreateTask(string) (domain.Task, error)
	DeleteTask(string) error
	EditTask(string, string) (domain.Task, error)
	DragStart(dnd.DragStartEvent) error
	DragOver(dnd.DragOverEvent) dnd.Change
	DragEnd(dnd.DragEndEvent) dnd.Change
	CancelDrag()
}

// inputMode represents a selectable mode.
type inputMode int

const (
	modeNone inputMode = iota
	modeEditTask
	modeRenameColumn
	modeTaskInfo
	modeActivityLog
)

// boardTop is the first screen row of the board: header plus a spacer.
const boardTop = 2

// footerRows is the status line plus the bordered help line.
const footerRows = 3

// activityLogViewWindow caps rows shown in the activity modal.
const activityLogViewWindow = 14

// Model is the bubbletea model for one board session.
type Model struct {
	svc Service
	cfg RuntimeConfig

	ready  bool
	width  int
	height int

	status string

	help help.Model
	keys keyMap

	snap   app.Snapshot
	layout boardLayout

	selectedColumn int
	// selectedTask is an index into the selected column's tasks; -1 selects
	// the column itself.
	selectedTask int
	columnOffset int
	// rowOffset scrolls the board vertically, in rows.
	rowOffset int

	mode      inputMode
	input     textinput.Model
	editingID string

	pointer pointerState

	markdown *markdownRenderer
	copyText ClipboardWriter
}

// clipboardMsg reports the outcome of a copy.
type clipboardMsg struct {
	text string
	err  error
}

// NewModel constructs a model over svc.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:          svc,
		status:       "ready",
		help:         h,
		keys:         newKeyMap(),
		selectedTask: -1,
		markdown:     &markdownRenderer{},
		copyText:     systemClipboard,
	}
	m.applyRuntimeConfig(DefaultRuntimeConfig())
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	m.refresh()
	return m
}

// Init has no startup work; the board is read synchronously.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update routes one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		m.refresh()
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "copied: " + truncate(firstLine(msg.text), 32)
		return m, nil

	case tea.KeyPressMsg:
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	case tea.MouseClickMsg:
		return m.handleMousePress(msg)

	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg)

	case tea.MouseReleaseMsg:
		return m.handleMouseRelease(msg)

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	default:
		return m, nil
	}
}

// refresh re-reads the board and recomputes geometry.
func (m *Model) refresh() {
	m.snap = m.svc.Snapshot()
	m.clampSelection()
	m.ensureColumnVisible()
	m.layout = m.computeLayout()
	if m.ensureRowVisible() {
		m.layout = m.computeLayout()
	}
}

func (m Model) computeLayout() boardLayout {
	return layoutBoard(m.snap.Columns, m.snap.Tasks, layoutParams{
		top:          boardTop - m.rowOffset,
		left:         -m.columnOffset * (m.cfg.ColumnWidth + columnGap),
		columnWidth:  m.cfg.ColumnWidth,
		maxTaskLines: m.cfg.MaxTaskLines,
		viewTop:      boardTop,
		viewBottom:   m.viewBottom(),
	})
}

// viewBottom is the first row below the board viewport, or 0 before the
// window size is known.
func (m Model) viewBottom() int {
	if m.height <= 0 {
		return 0
	}
	return max(boardTop+1, m.height-footerRows)
}

// ensureRowVisible clamps the vertical scroll and, outside a drag, scrolls
// the selection into view. It reports whether the offset changed.
func (m *Model) ensureRowVisible() bool {
	prev := m.rowOffset
	bottom := m.viewBottom()
	if bottom <= 0 {
		m.rowOffset = 0
		return m.rowOffset != prev
	}
	maxOffset := max(0, m.layout.height-(bottom-boardTop))
	if !m.pointer.dragging {
		if r, ok := m.selectedRect(); ok {
			switch {
			case r.Y < boardTop:
				m.rowOffset -= boardTop - r.Y
			case r.Y+r.H > bottom:
				m.rowOffset += r.Y + r.H - bottom
			}
		}
	}
	m.rowOffset = clamp(m.rowOffset, 0, maxOffset)
	return m.rowOffset != prev
}

// selectedRect is the on-screen rectangle of the selection: a task card, or
// the column title rows when the header is selected.
func (m Model) selectedRect() (rect, bool) {
	if m.selectedColumn < 0 || m.selectedColumn >= len(m.layout.columns) {
		return rect{}, false
	}
	slot := m.layout.columns[m.selectedColumn]
	if m.selectedTask >= 0 && m.selectedTask < len(slot.tasks) {
		return slot.tasks[m.selectedTask].rect, true
	}
	return rect{X: slot.rect.X, Y: slot.rect.Y, W: slot.rect.W, H: 2}, true
}

// scrollRows moves the viewport by delta rows.
func (m *Model) scrollRows(delta int) {
	m.rowOffset += delta
	m.refresh()
}

func (m *Model) clampSelection() {
	if len(m.snap.Columns) == 0 {
		m.selectedColumn = 0
		m.selectedTask = -1
		return
	}
	m.selectedColumn = clamp(m.selectedColumn, 0, len(m.snap.Columns)-1)
	tasks := m.columnTasks(m.selectedColumn)
	m.selectedTask = clamp(m.selectedTask, -1, len(tasks)-1)
}

// ensureColumnVisible scrolls horizontally so the selected column is on screen.
func (m *Model) ensureColumnVisible() {
	if m.width <= 0 {
		return
	}
	visible := max(1, m.width/(m.cfg.ColumnWidth+columnGap))
	if m.selectedColumn < m.columnOffset {
		m.columnOffset = m.selectedColumn
	}
	if m.selectedColumn >= m.columnOffset+visible {
		m.columnOffset = m.selectedColumn - visible + 1
	}
	m.columnOffset = clamp(m.columnOffset, 0, max(0, len(m.snap.Columns)-1))
}

// columnTasks returns the tasks of the column at idx in display order.
func (m Model) columnTasks(idx int) []domain.Task {
	if idx < 0 || idx >= len(m.snap.Columns) {
		return nil
	}
	id := m.snap.Columns[idx].ID
	out := make([]domain.Task, 0)
	for _, t := range m.snap.Tasks {
		if t.ColumnID == id {
			out = append(out, t)
		}
	}
	return out
}

func (m Model) currentColumn() (domain.Column, bool) {
	if m.selectedColumn < 0 || m.selectedColumn >= len(m.snap.Columns) {
		return domain.Column{}, false
	}
	return m.snap.Columns[m.selectedColumn], true
}

func (m Model) currentTask() (domain.Task, bool) {
	tasks := m.columnTasks(m.selectedColumn)
	if m.selectedTask < 0 || m.selectedTask >= len(tasks) {
		return domain.Task{}, false
	}
	return tasks[m.selectedTask], true
}

func (m Model) columnByID(id string) (domain.Column, bool) {
	for _, c := range m.snap.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Column{}, false
}

func (m Model) taskByID(id string) (domain.Task, bool) {
	for _, t := range m.snap.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}

// selectColumnID selects a column header.
func (m *Model) selectColumnID(id string) {
	for idx, c := range m.snap.Columns {
		if c.ID == id {
			m.selectedColumn = idx
			m.selectedTask = -1
			return
		}
	}
}

// selectTaskID selects a task wherever it currently lives.
func (m *Model) selectTaskID(id string) {
	task, ok := m.taskByID(id)
	if !ok {
		return
	}
	for colIdx, c := range m.snap.Columns {
		if c.ID != task.ColumnID {
			continue
		}
		for taskIdx, t := range m.columnTasks(colIdx) {
			if t.ID == id {
				m.selectedColumn = colIdx
				m.selectedTask = taskIdx
				return
			}
		}
	}
}

// handleNormalModeKey handles board keys.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.cancel) {
		if m.pointer.dragging || m.snap.Dragging {
			return m.cancelDrag(), nil
		}
		m.pointer = pointerState{}
		if m.help.ShowAll {
			m.help.ShowAll = false
		}
		return m, nil
	}
	if key.Matches(msg, m.keys.quit) {
		if m.pointer.dragging {
			m.svc.CancelDrag()
		}
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.toggleHelp) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	if m.pointer.dragging {
		m.status = "finish or cancel the drag first (esc)"
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.moveLeft):
		if m.selectedColumn > 0 {
			m.selectedColumn--
		}
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.moveRight):
		if m.selectedColumn < len(m.snap.Columns)-1 {
			m.selectedColumn++
		}
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		if m.selectedTask >= 0 {
			m.selectedTask--
		}
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		if m.selectedTask < len(m.columnTasks(m.selectedColumn))-1 {
			m.selectedTask++
		}
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.newColumn):
		return m.createColumn()
	case key.Matches(msg, m.keys.newTask):
		column, ok := m.currentColumn()
		if !ok {
			m.status = "no column yet: press " + m.keys.newColumn.Help().Key
			return m, nil
		}
		return m.createTask(column.ID)
	case key.Matches(msg, m.keys.edit):
		return m.startEdit()
	case key.Matches(msg, m.keys.delete):
		return m.deleteSelected()
	case key.Matches(msg, m.keys.yank):
		task, ok := m.currentTask()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		return m, m.yankCmd(task.Content)
	case key.Matches(msg, m.keys.taskInfo):
		if _, ok := m.currentTask(); !ok {
			m.status = "no task selected"
			return m, nil
		}
		m.mode = modeTaskInfo
		m.status = "task info"
		return m, nil
	case key.Matches(msg, m.keys.activityLog):
		m.mode = modeActivityLog
		m.status = "activity log"
		return m, nil
	default:
		return m, nil
	}
}

// handleInputModeKey handles keys while a modal is open.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeTaskInfo, modeActivityLog:
		if m.mode == modeTaskInfo && key.Matches(msg, m.keys.yank) {
			if task, ok := m.currentTask(); ok {
				return m, m.yankCmd(task.Content)
			}
		}
		switch msg.String() {
		case "esc", "q", "enter", "i", "g":
			m.mode = modeNone
			m.status = "ready"
		}
		return m, nil

	case modeEditTask, modeRenameColumn:
		switch msg.String() {
		case "esc":
			m.mode = modeNone
			m.editingID = ""
			m.input.Blur()
			m.status = "edit cancelled"
			return m, nil
		case "enter":
			return m.submitInput()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// newModalInput constructs a focused-ready text input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// startEdit opens the editor for the selected task, or the column title
// when the header is selected.
func (m Model) startEdit() (tea.Model, tea.Cmd) {
	if task, ok := m.currentTask(); ok {
		m.mode = modeEditTask
		m.editingID = task.ID
		m.input = newModalInput("content: ", "task content", task.Content, 500)
		m.status = "edit task"
		cmd := m.input.Focus()
		return m, cmd
	}
	column, ok := m.currentColumn()
	if !ok {
		m.status = "nothing to edit"
		return m, nil
	}
	m.mode = modeRenameColumn
	m.editingID = column.ID
	m.input = newModalInput("title: ", "column title", column.Title, 80)
	m.status = "rename column"
	cmd := m.input.Focus()
	return m, cmd
}

// submitInput applies the open editor.
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	id := m.editingID
	switch m.mode {
	case modeEditTask:
		if _, err := m.svc.EditTask(id, value); err != nil {
			m.status = editErrorStatus(err)
			return m, nil
		}
		m.status = "task updated"
	case modeRenameColumn:
		column, err := m.svc.RenameColumn(id, value)
		if err != nil {
			m.status = editErrorStatus(err)
			return m, nil
		}
		m.status = "renamed column to " + column.Title
	}
	m.mode = modeNone
	m.editingID = ""
	m.input.Blur()
	m.refresh()
	return m, nil
}

func editErrorStatus(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidContent):
		return "task content is required"
	case errors.Is(err, domain.ErrInvalidTitle):
		return "column title is required"
	case errors.Is(err, app.ErrNotFound):
		return "item no longer exists"
	default:
		return err.Error()
	}
}

func (m Model) createColumn() (tea.Model, tea.Cmd) {
	column, err := m.svc.CreateColumn()
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.refresh()
	m.selectColumnID(column.ID)
	m.refresh()
	m.status = "created " + column.Title
	return m, nil
}

func (m Model) createTask(columnID string) (tea.Model, tea.Cmd) {
	task, err := m.svc.CreateTask(columnID)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.refresh()
	m.selectTaskID(task.ID)
	m.refresh()
	m.status = "created " + truncate(task.Content, 24)
	return m, nil
}

// deleteSelected removes the selected task, or the selected column and its
// tasks when the header is selected.
func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	if task, ok := m.currentTask(); ok {
		if err := m.svc.DeleteTask(task.ID); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = "deleted " + truncate(task.Content, 24)
		m.refresh()
		return m, nil
	}
	column, ok := m.currentColumn()
	if !ok {
		m.status = "nothing to delete"
		return m, nil
	}
	removed := len(m.columnTasks(m.selectedColumn))
	if err := m.svc.DeleteColumn(column.ID); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.status = fmt.Sprintf("deleted %s (%d tasks)", column.Title, removed)
	m.refresh()
	return m, nil
}

// yankCmd copies text off the update loop.
func (m Model) yankCmd(text string) tea.Cmd {
	write := m.copyText
	return func() tea.Msg {
		return clipboardMsg{text: text, err: write(text)}
	}
}

// handleMouseWheel moves the selection, or scrolls the board under a held
// drag so cards below the fold can be reached.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNone || m.help.ShowAll {
		return m, nil
	}
	if m.pointer.dragging {
		switch msg.Button {
		case tea.MouseWheelUp:
			m.scrollRows(-1)
		case tea.MouseWheelDown:
			m.scrollRows(1)
		}
		m.dragOverAt(m.pointer.x, m.pointer.y)
		return m, nil
	}
	switch msg.Button {
	case tea.MouseWheelUp:
		if m.selectedTask >= 0 {
			m.selectedTask--
		}
	case tea.MouseWheelDown:
		if m.selectedTask < len(m.columnTasks(m.selectedColumn))-1 {
			m.selectedTask++
		}
	}
	m.refresh()
	return m, nil
}

func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	if limit == 1 {
		return string(rs[:1])
	}
	return string(rs[:limit-1]) + "…"
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
