package tui

import "github.com/atotto/clipboard"

// KeyConfig holds configurable key overrides. Blank fields keep defaults.
type KeyConfig struct {
	NewColumn   string
	NewTask     string
	Edit        string
	Delete      string
	Yank        string
	ActivityLog string
}

// RuntimeConfig holds the presentation and gesture settings for one session.
type RuntimeConfig struct {
	ColumnWidth        int
	MaxTaskLines       int
	ShowTaskCount      bool
	RenderMarkdown     bool
	ActivationDistance int
	ShowOverlay        bool
	Keys               KeyConfig
}

// ClipboardWriter copies text to the system clipboard.
type ClipboardWriter func(string) error

type Option func(*Model)

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		ColumnWidth:        30,
		MaxTaskLines:       3,
		ShowTaskCount:      true,
		RenderMarkdown:     true,
		ActivationDistance: 2,
		ShowOverlay:        true,
	}
}

func WithRuntimeConfig(cfg RuntimeConfig) Option {
	return func(m *Model) {
		m.applyRuntimeConfig(cfg)
	}
}

func WithClipboardWriter(w ClipboardWriter) Option {
	return func(m *Model) {
		if w != nil {
			m.copyText = w
		}
	}
}

// systemClipboard writes through the platform clipboard tool.
func systemClipboard(text string) error {
	return clipboard.WriteAll(text)
}

// applyRuntimeConfig normalizes cfg and rebuilds the key map.
func (m *Model) applyRuntimeConfig(cfg RuntimeConfig) {
	defaults := DefaultRuntimeConfig()
	if cfg.ColumnWidth < minColumnWidth {
		cfg.ColumnWidth = defaults.ColumnWidth
	}
	if cfg.MaxTaskLines < 1 {
		cfg.MaxTaskLines = defaults.MaxTaskLines
	}
	if cfg.ActivationDistance < 0 {
		cfg.ActivationDistance = 0
	}
	m.cfg = cfg
	m.keys = newKeyMap()
	m.keys.applyConfig(cfg.Keys)
}
