package tui

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/evanschultz/dragboard/internal/dnd"
	"github.com/evanschultz/dragboard/internal/domain"
)

// styles groups the palette used by one frame.
type styles struct {
	accent     lipgloss.Style
	title      lipgloss.Style
	muted      lipgloss.Style
	dim        lipgloss.Style
	selected   lipgloss.Style
	dragSource lipgloss.Style
	column     lipgloss.Style
	modal      lipgloss.Style
}

func newStyles() styles {
	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	return styles{
		accent:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		muted:      lipgloss.NewStyle().Foreground(muted),
		dim:        lipgloss.NewStyle().Foreground(dim),
		selected:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		dragSource: lipgloss.NewStyle().Faint(true).Foreground(dim),
		column: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dim).
			Padding(0, 1),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
	}
}

func newView(content string) tea.View {
	v := tea.NewView(content)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// View renders the board, the drag overlay and any modal on one canvas.
func (m Model) View() tea.View {
	if !m.ready || m.width <= 0 || m.height <= 0 {
		return newView("loading...")
	}
	s := newStyles()
	canvas := lipgloss.NewCanvas(m.width, m.height)
	canvas.Compose(lipgloss.NewLayer(m.renderHeader(s)).X(0).Y(0).Z(0))

	for idx, slot := range m.layout.columns {
		if slot.rect.X < 0 || slot.rect.X >= m.width {
			continue
		}
		if box, y, ok := clipAbove(m.renderColumn(slot, idx, s, false), slot.rect.Y, boardTop); ok {
			canvas.Compose(lipgloss.NewLayer(box).X(slot.rect.X).Y(y).Z(1))
		}
	}
	if add := m.layout.addColumn; add.X >= 0 && add.X < m.width {
		button := s.column.Render(s.muted.Render(addColumnLabel))
		if box, y, ok := clipAbove(button, add.Y, boardTop); ok {
			canvas.Compose(lipgloss.NewLayer(box).X(add.X).Y(y).Z(1))
		}
	}

	footer := m.renderFooter(s)
	canvas.Compose(lipgloss.NewLayer(footer).X(0).Y(max(0, m.height-lipgloss.Height(footer))).Z(2))

	if overlay, x, y, ok := m.renderDragOverlay(s); ok {
		canvas.Compose(lipgloss.NewLayer(overlay).X(x).Y(y).Z(10))
	}
	if modal := m.renderModal(s); modal != "" {
		x := max(0, (m.width-lipgloss.Width(modal))/2)
		y := max(0, (m.height-lipgloss.Height(modal))/2)
		canvas.Compose(lipgloss.NewLayer(modal).X(x).Y(y).Z(20))
	}
	return newView(canvas.Render())
}

func (m Model) renderHeader(s styles) string {
	header := s.title.Render("dragboard") + s.muted.Render(fmt.Sprintf("  %d columns · %d tasks", len(m.snap.Columns), len(m.snap.Tasks)))
	if m.snap.Dragging && !m.snap.Active.IsNone() {
		header += s.accent.Render("  dragging " + truncate(entityLabel(m.snap.Active), 32))
	}
	return header
}

func (m Model) renderFooter(s styles) string {
	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		BorderTop(true).
		BorderForeground(lipgloss.Color("239")).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))
	status := strings.TrimSpace(m.status)
	if status == "" || status == "ready" {
		if len(m.snap.Columns) == 0 {
			status = "press " + m.keys.newColumn.Help().Key + " or click + add column"
		} else {
			status = "drag cards and columns with the mouse"
		}
	}
	return s.dim.Render(truncate(status, max(1, m.width-1))) + "\n" + helpLine
}

// renderColumn draws one column box. asOverlay renders the floating copy of
// a dragged column.
func (m Model) renderColumn(slot columnSlot, colIdx int, s styles, asOverlay bool) string {
	inner := m.layout.innerWidth()
	activeTaskID := ""
	if m.pointer.dragging && m.snap.Active.Kind == dnd.KindTask {
		activeTaskID = m.snap.Active.Task.ID
	}
	source := !asOverlay && m.pointer.dragging && m.snap.Active.Kind == dnd.KindColumn && m.snap.Active.Column.ID == slot.column.ID
	selected := colIdx == m.selectedColumn && !asOverlay

	title := slot.column.Title
	if m.cfg.ShowTaskCount {
		title = fmt.Sprintf("%s (%d)", title, len(slot.tasks))
	}
	titleStyle := s.accent
	if selected && m.selectedTask < 0 {
		titleStyle = titleStyle.Underline(true)
	}
	if source {
		titleStyle = s.dragSource
	}

	lines := make([]string, 0, m.layout.height)
	lines = append(lines, padCells(titleStyle.Render(truncate(title, inner)), inner), "")
	for taskIdx, ts := range slot.tasks {
		prefix, style := "│ ", lipgloss.NewStyle()
		prefixStyle := s.dim
		switch {
		case source || ts.task.ID == activeTaskID:
			prefix, style, prefixStyle = "┊ ", s.dragSource, s.dragSource
		case selected && taskIdx == m.selectedTask:
			prefix, style, prefixStyle = "┃ ", s.selected, s.selected
		}
		for _, line := range ts.lines {
			lines = append(lines, padCells(prefixStyle.Render(prefix)+style.Render(line), inner))
		}
		lines = append(lines, "")
	}
	addStyle := s.muted
	if source {
		addStyle = s.dragSource
	}
	lines = append(lines, padCells(addStyle.Render(addTaskLabel), inner))
	for len(lines) < m.layout.height-2 {
		lines = append(lines, "")
	}
	for i, line := range lines {
		lines[i] = padCells(line, inner)
	}

	box := s.column
	switch {
	case asOverlay:
		box = box.BorderForeground(lipgloss.Color("212"))
	case source:
		box = box.BorderForeground(lipgloss.Color("236"))
	case selected:
		box = box.BorderForeground(lipgloss.Color("62"))
	}
	return box.Render(strings.Join(lines, "\n"))
}

// renderDragOverlay draws the dragged entity at the pointer, outside the
// column that clips it.
func (m Model) renderDragOverlay(s styles) (string, int, int, bool) {
	if !m.pointer.dragging || !m.cfg.ShowOverlay {
		return "", 0, 0, false
	}
	x := m.pointer.x - m.pointer.grabX
	y := m.pointer.y - m.pointer.grabY
	switch m.snap.Active.Kind {
	case dnd.KindTask:
		width := m.layout.innerWidth() - cardPrefixWidth
		lines := cardLines(m.snap.Active.Task.Content, width, m.cfg.MaxTaskLines)
		for i, line := range lines {
			lines[i] = padCells(s.selected.Render(line), width)
		}
		card := s.column.BorderForeground(lipgloss.Color("212")).Render(strings.Join(lines, "\n"))
		// the card border sits one row above the grabbed text.
		return card, max(0, x), max(0, y-1), true
	case dnd.KindColumn:
		for _, slot := range m.layout.columns {
			if slot.column.ID == m.snap.Active.Column.ID {
				return m.renderColumn(slot, -1, s, true), max(0, x), max(0, y), true
			}
		}
	}
	return "", 0, 0, false
}

func (m Model) renderModal(s styles) string {
	width := clamp(m.width-8, 30, 80)
	box := s.modal.Width(width)
	switch {
	case m.help.ShowAll:
		helpBubble := m.help
		helpBubble.SetWidth(width - 4)
		return box.Render(s.accent.Render("Keys") + "\n" + helpBubble.View(m.keys) + "\n" + s.muted.Render("? or esc close"))
	case m.mode == modeEditTask || m.mode == modeRenameColumn:
		title := "Edit Task"
		if m.mode == modeRenameColumn {
			title = "Rename Column"
		}
		return box.Render(strings.Join([]string{
			s.accent.Render(title),
			m.input.View(),
			s.muted.Render("enter save • esc cancel"),
		}, "\n"))
	case m.mode == modeTaskInfo:
		return box.Render(m.renderTaskDetails(s, width-4))
	case m.mode == modeActivityLog:
		return box.Render(m.renderActivityLog(s, width-4))
	}
	return ""
}

func (m Model) renderTaskDetails(s styles, width int) string {
	task, ok := m.currentTask()
	if !ok {
		return s.muted.Render("(task no longer exists)")
	}
	columnTitle := task.ColumnID
	if column, found := m.columnByID(task.ColumnID); found {
		columnTitle = column.Title
	}
	body := task.Content
	if m.cfg.RenderMarkdown && m.markdown != nil {
		if rendered := m.markdown.render(task.Content, width); rendered != "" {
			body = rendered
		}
	}
	return strings.Join([]string{
		s.accent.Render("Task Details"),
		s.muted.Render("id: " + task.ID + "  column: " + columnTitle),
		"",
		body,
		"",
		s.muted.Render(m.keys.yank.Help().Key + " copy • esc close"),
	}, "\n")
}

func (m Model) renderActivityLog(s styles, width int) string {
	lines := []string{s.accent.Render("Activity Log")}
	events := m.svc.Activity()
	if len(events) == 0 {
		lines = append(lines, s.muted.Render("(no activity yet)"))
	}
	for idx, event := range events {
		if idx >= activityLogViewWindow {
			lines = append(lines, s.muted.Render(fmt.Sprintf("… %d older", len(events)-idx)))
			break
		}
		lines = append(lines, truncate(m.activitySummary(event), width))
	}
	lines = append(lines, s.muted.Render("esc close"))
	return strings.Join(lines, "\n")
}

// activitySummary formats one change event as a single row.
func (m Model) activitySummary(event domain.ChangeEvent) string {
	target := event.EntityID
	switch event.Kind {
	case domain.EntityKindColumn:
		if c, ok := m.columnByID(event.EntityID); ok {
			target = c.Title
		}
	case domain.EntityKindTask:
		if t, ok := m.taskByID(event.EntityID); ok {
			target = firstLine(t.Content)
		}
	}
	row := fmt.Sprintf("%s  %s %s %s", formatActivityTimestamp(event.OccurredAt), event.Operation, event.Kind, truncate(target, 28))
	switch event.Operation {
	case domain.ChangeOperationMove:
		row += fmt.Sprintf(" (%s→%s)", event.Metadata["from"], event.Metadata["to"])
	case domain.ChangeOperationReassign:
		row += " (" + m.columnTitle(event.Metadata["from_column"]) + "→" + m.columnTitle(event.Metadata["to_column"]) + ")"
	case domain.ChangeOperationRename:
		row += " → " + event.Metadata["to"]
	}
	return row
}

func (m Model) columnTitle(id string) string {
	if c, ok := m.columnByID(id); ok {
		return c.Title
	}
	return id
}

func formatActivityTimestamp(at time.Time) string {
	if at.IsZero() {
		return "--:--:--"
	}
	return at.Local().Format("15:04:05")
}

// entityLabel names an entity for status lines.
func entityLabel(e dnd.Entity) string {
	switch e.Kind {
	case dnd.KindColumn:
		return e.Column.Title
	case dnd.KindTask:
		return firstLine(e.Task.Content)
	default:
		return ""
	}
}

// clipAbove drops the rows of block that a vertical scroll pushed above top.
func clipAbove(block string, y, top int) (string, int, bool) {
	if y >= top {
		return block, y, true
	}
	lines := strings.Split(block, "\n")
	cut := top - y
	if cut >= len(lines) {
		return "", top, false
	}
	return strings.Join(lines[cut:], "\n"), top, true
}

// padCells right-pads s with spaces to width visible cells.
func padCells(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
