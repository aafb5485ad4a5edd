package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/natefinch/atomic"
	toml "github.com/pelletier/go-toml/v2"
)

// IDStrategy values accepted by ids.strategy.
const (
	IDStrategyUUID    = "uuid"
	IDStrategyCounter = "counter"
)

// ErrConfigExists reports that WriteDefault would overwrite a file.
var ErrConfigExists = errors.New("config file already exists")

const defaultHeader = `# dragboard configuration.
# Missing keys fall back to built-in defaults.
# ids.strategy: "uuid" or "counter". logging.level: debug|info|warn|error|fatal.

`

var validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}

type Config struct {
	Board    BoardConfig    `toml:"board"`
	Drag     DragConfig     `toml:"drag"`
	IDs      IDConfig       `toml:"ids"`
	Activity ActivityConfig `toml:"activity"`
	Logging  LoggingConfig  `toml:"logging"`
	Keys     KeyConfig      `toml:"keys"`
}

type BoardConfig struct {
	ColumnWidth    int  `toml:"column_width"`
	MaxTaskLines   int  `toml:"max_task_lines"`
	ShowTaskCount  bool `toml:"show_task_count"`
	RenderMarkdown bool `toml:"render_markdown"`
}

type DragConfig struct {
	// ActivationDistance is the pointer travel, in cells, before a press becomes a drag.
	ActivationDistance int  `toml:"activation_distance"`
	ShowOverlay        bool `toml:"show_overlay"`
}

type IDConfig struct {
	Strategy string `toml:"strategy"` // uuid | counter
}

type ActivityConfig struct {
	Limit int `toml:"limit"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type KeyConfig struct {
	NewColumn   string `toml:"new_column"`
	NewTask     string `toml:"new_task"`
	Edit        string `toml:"edit"`
	Delete      string `toml:"delete"`
	Yank        string `toml:"yank"`
	ActivityLog string `toml:"activity_log"`
}

func Default() Config {
	return Config{
		Board: BoardConfig{
			ColumnWidth:    30,
			MaxTaskLines:   3,
			ShowTaskCount:  true,
			RenderMarkdown: true,
		},
		Drag: DragConfig{
			ActivationDistance: 2,
			ShowOverlay:        true,
		},
		IDs: IDConfig{
			Strategy: IDStrategyUUID,
		},
		Activity: ActivityConfig{
			Limit: 50,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     "log",
			},
		},
		Keys: KeyConfig{
			NewColumn:   "N",
			NewTask:     "n",
			Edit:        "e",
			Delete:      "d",
			Yank:        "y",
			ActivityLog: "g",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.Board.ColumnWidth < 16 {
		return fmt.Errorf("board.column_width must be >= 16, got %d", c.Board.ColumnWidth)
	}
	if c.Board.MaxTaskLines < 1 {
		return fmt.Errorf("board.max_task_lines must be >= 1, got %d", c.Board.MaxTaskLines)
	}
	if c.Drag.ActivationDistance < 0 {
		return fmt.Errorf("drag.activation_distance must be >= 0, got %d", c.Drag.ActivationDistance)
	}
	switch strings.ToLower(strings.TrimSpace(c.IDs.Strategy)) {
	case IDStrategyUUID, IDStrategyCounter:
	default:
		return fmt.Errorf("invalid ids.strategy: %q", c.IDs.Strategy)
	}
	if c.Activity.Limit <= 0 {
		return fmt.Errorf("activity.limit must be > 0, got %d", c.Activity.Limit)
	}
	if !slices.Contains(validLogLevels, strings.ToLower(strings.TrimSpace(c.Logging.Level))) {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// WriteDefault writes cfg as TOML to path. Existing files are kept unless
// overwrite is set.
func WriteDefault(path string, cfg Config, overwrite bool) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("config path is required")
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	encoded, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(defaultHeader)
	buf.Write(encoded)
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
