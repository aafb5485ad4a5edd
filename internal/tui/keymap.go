package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// keyMap holds every binding the board responds to.
type keyMap struct {
	quit        key.Binding
	toggleHelp  key.Binding
	moveLeft    key.Binding
	moveRight   key.Binding
	moveUp      key.Binding
	moveDown    key.Binding
	newColumn   key.Binding
	newTask     key.Binding
	edit        key.Binding
	delete      key.Binding
	yank        key.Binding
	taskInfo    key.Binding
	activityLog key.Binding
	cancel      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveLeft:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		moveRight:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		moveUp:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "task up")),
		moveDown:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "task down")),
		newColumn:   key.NewBinding(key.WithKeys("N", "shift+n"), key.WithHelp("N", "new column")),
		newTask:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		delete:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		yank:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy task")),
		taskInfo:    key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i/enter", "task info")),
		activityLog: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "activity log")),
		cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
	}
}

// applyConfig overrides the configurable bindings. Blank values keep defaults.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.newColumn, cfg.NewColumn, "N", "new column")
	configureBinding(&k.newTask, cfg.NewTask, "n", "new task")
	configureBinding(&k.edit, cfg.Edit, "e", "edit")
	configureBinding(&k.delete, cfg.Delete, "d", "delete")
	configureBinding(&k.yank, cfg.Yank, "y", "copy task")
	configureBinding(&k.activityLog, cfg.ActivityLog, "g", "activity log")
}

// configureBinding replaces the keys and help of b from a raw config value.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, helpKey := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(helpKey, desc)
}

// parseBindingKeys turns one configured key into matcher keys plus its help
// label. Single uppercase runes also match their shift+ form.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	value := strings.TrimSpace(raw)
	if value == "" {
		value = fallback
	}
	if strings.EqualFold(value, "space") || value == " " {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(value) == 1 {
		r, _ := utf8.DecodeRuneInString(value)
		if unicode.IsUpper(r) {
			return []string{value, "shift+" + string(unicode.ToLower(r))}, value
		}
		return []string{value}, value
	}
	return []string{strings.ToLower(value)}, value
}

// ShortHelp returns the footer bindings.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.newColumn, k.newTask, k.edit, k.delete, k.taskInfo, k.toggleHelp, k.quit,
	}
}

// FullHelp returns the grouped bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.newColumn, k.newTask, k.edit, k.delete, k.yank},
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown},
		{k.taskInfo, k.activityLog, k.cancel, k.toggleHelp, k.quit},
	}
}
