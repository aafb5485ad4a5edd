package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/evanschultz/dragboard/internal/config"
)

// TestMain pins dev mode off so path output does not depend on the build.
func TestMain(m *testing.M) {
	_ = os.Setenv("DRAGBOARD_DEV_MODE", "false")
	os.Exit(m.Run())
}

type fakeProgram struct {
	runErr error
}

func (f fakeProgram) Run() (tea.Model, error) {
	return nil, f.runErr
}

// scriptedProgram feeds messages to the model instead of owning a terminal.
type scriptedProgram struct {
	model tea.Model
	runFn func(tea.Model) (tea.Model, error)
}

func (p scriptedProgram) Run() (tea.Model, error) {
	if p.runFn == nil {
		return p.model, nil
	}
	return p.runFn(p.model)
}

// isolatePaths points config and data resolution at temp dirs.
func isolatePaths(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("APPDATA", filepath.Join(root, "config"))
	t.Setenv("LOCALAPPDATA", filepath.Join(root, "data"))
	t.Setenv("DRAGBOARD_CONFIG", "")
	t.Setenv("DRAGBOARD_APP_NAME", "")
	return root
}

func withProgramFactory(t *testing.T, factory func(tea.Model) program) {
	t.Helper()
	orig := programFactory
	programFactory = factory
	t.Cleanup(func() { programFactory = orig })
}

func TestRunPathsCommand(t *testing.T) {
	isolatePaths(t)
	var out strings.Builder
	err := run(context.Background(), []string{"--app", "boardx", "--dev", "paths"}, &out, io.Discard)
	if err != nil {
		t.Fatalf("run(paths) error = %v", err)
	}
	output := out.String()
	for _, want := range []string{"app: boardx", "dev_mode: true", "boardx-dev", "log_dir:"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in paths output, got %q", want, output)
		}
	}
}

func TestRunConfigEnvOverride(t *testing.T) {
	root := isolatePaths(t)
	cfgPath := filepath.Join(root, "custom.toml")
	t.Setenv("DRAGBOARD_CONFIG", cfgPath)

	var out strings.Builder
	if err := run(context.Background(), []string{"paths"}, &out, io.Discard); err != nil {
		t.Fatalf("run(paths) error = %v", err)
	}
	if !strings.Contains(out.String(), "config: "+cfgPath) {
		t.Fatalf("expected env config path in output, got %q", out.String())
	}

	out.Reset()
	flagPath := filepath.Join(root, "flag.toml")
	if err := run(context.Background(), []string{"--config", flagPath, "paths"}, &out, io.Discard); err != nil {
		t.Fatalf("run(paths) error = %v", err)
	}
	if !strings.Contains(out.String(), "config: "+flagPath) {
		t.Fatalf("expected flag to win over env, got %q", out.String())
	}
}

func TestRunConfigInit(t *testing.T) {
	root := isolatePaths(t)
	cfgPath := filepath.Join(root, "nested", "config.toml")

	var out strings.Builder
	if err := run(context.Background(), []string{"--config", cfgPath, "config", "init"}, &out, io.Discard); err != nil {
		t.Fatalf("run(config init) error = %v", err)
	}
	if !strings.Contains(out.String(), "wrote "+cfgPath) {
		t.Fatalf("expected write confirmation, got %q", out.String())
	}
	loaded, err := config.Load(cfgPath, config.Default())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Board.ColumnWidth != config.Default().Board.ColumnWidth {
		t.Fatalf("expected default column width, got %d", loaded.Board.ColumnWidth)
	}

	err = run(context.Background(), []string{"--config", cfgPath, "config", "init"}, io.Discard, io.Discard)
	if !errors.Is(err, config.ErrConfigExists) {
		t.Fatalf("expected ErrConfigExists on second init, got %v", err)
	}
	if err := run(context.Background(), []string{"--config", cfgPath, "config", "init", "--force"}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run(config init --force) error = %v", err)
	}
}

func TestRunStartsProgram(t *testing.T) {
	isolatePaths(t)
	var started bool
	withProgramFactory(t, func(m tea.Model) program {
		started = m != nil
		return fakeProgram{}
	})
	if err := run(context.Background(), nil, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !started {
		t.Fatal("expected program factory to receive a model")
	}
}

func TestRunDrivesBoardModel(t *testing.T) {
	isolatePaths(t)
	var final tea.Model
	withProgramFactory(t, func(m tea.Model) program {
		return scriptedProgram{model: m, runFn: func(model tea.Model) (tea.Model, error) {
			model, _ = model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
			model, _ = model.Update(tea.KeyPressMsg{Code: 'N', Text: "N"})
			final = model
			return model, nil
		}}
	})
	if err := run(context.Background(), nil, io.Discard, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if final == nil {
		t.Fatal("expected scripted program to run")
	}
	if v := final.View(); v.Content == nil {
		t.Fatal("expected rendered view content")
	}
}

func TestRunPropagatesProgramError(t *testing.T) {
	isolatePaths(t)
	withProgramFactory(t, func(tea.Model) program {
		return fakeProgram{runErr: errors.New("boom")}
	})
	err := run(context.Background(), nil, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected program error, got %v", err)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	root := isolatePaths(t)
	cfgPath := filepath.Join(root, "bad.toml")
	if err := os.WriteFile(cfgPath, []byte("[ids]\nstrategy = \"snowflake\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	withProgramFactory(t, func(tea.Model) program {
		t.Fatal("program must not start with an invalid config")
		return nil
	})
	err := run(context.Background(), []string{"--config", cfgPath}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("expected load config error, got %v", err)
	}
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	isolatePaths(t)
	if err := run(context.Background(), []string{"nope"}, io.Discard, io.Discard); err == nil {
		t.Fatal("expected unknown command error")
	}
}

func TestRunDevModeWritesFileLogOnly(t *testing.T) {
	root := isolatePaths(t)
	logDir := filepath.Join(root, "logs")
	cfgPath := filepath.Join(root, "dev.toml")
	content := "[logging]\nlevel = \"debug\"\n[logging.dev_file]\nenabled = true\ndir = \"" + filepath.ToSlash(logDir) + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	withProgramFactory(t, func(tea.Model) program { return fakeProgram{} })

	var stderr bytes.Buffer
	if err := run(context.Background(), []string{"--dev", "--config", cfgPath}, io.Discard, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if stderr.Len() != 0 {
		t.Fatalf("expected console sink muted during tui run, got %q", stderr.String())
	}
	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), "dragboard-") || !strings.HasSuffix(entries[0].Name(), ".log") {
		t.Fatalf("expected one dev log file, got %v", entries)
	}
	raw, err := os.ReadFile(filepath.Join(logDir, entries[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(raw), "application service initialized") {
		t.Fatalf("expected service init log line, got %q", string(raw))
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Setenv("DRAGBOARD_BOOL_TEST", "true")
	got, ok := parseBoolEnv("DRAGBOARD_BOOL_TEST")
	if !ok || !got {
		t.Fatalf("expected true bool env parse, got value=%t ok=%t", got, ok)
	}

	t.Setenv("DRAGBOARD_BOOL_TEST", "not-bool")
	if _, ok = parseBoolEnv("DRAGBOARD_BOOL_TEST"); ok {
		t.Fatal("expected invalid bool env to return ok=false")
	}

	t.Setenv("DRAGBOARD_BOOL_TEST", "")
	if _, ok = parseBoolEnv("DRAGBOARD_BOOL_TEST"); ok {
		t.Fatal("expected empty bool env to return ok=false")
	}
}

func TestToTUIRuntimeConfigMapsFields(t *testing.T) {
	cfg := config.Default()
	cfg.Board.ColumnWidth = 40
	cfg.Drag.ActivationDistance = 5
	cfg.Drag.ShowOverlay = false
	cfg.Keys.Yank = "c"

	got := toTUIRuntimeConfig(cfg)
	if got.ColumnWidth != 40 || got.ActivationDistance != 5 || got.ShowOverlay {
		t.Fatalf("unexpected runtime config %#v", got)
	}
	if got.Keys.Yank != "c" || got.Keys.NewColumn != "N" {
		t.Fatalf("unexpected key mapping %#v", got.Keys)
	}
}

func TestDevLogFilePath(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	got := devLogFilePath("/tmp/logs", " my app/x ", now)
	want := filepath.Join("/tmp/logs", "my-app-x-20260304.log")
	if got != want {
		t.Fatalf("devLogFilePath() = %q, want %q", got, want)
	}
	if stem := sanitizeLogFileStem("  "); stem != "dragboard" {
		t.Fatalf("expected fallback stem, got %q", stem)
	}
}

func TestRuntimeLoggerCanMuteConsoleSink(t *testing.T) {
	var console bytes.Buffer
	cfg := config.Default().Logging

	logger, err := newRuntimeLogger(&console, "dragboard", false, cfg, t.TempDir(), func() time.Time {
		return time.Date(2026, 2, 23, 12, 0, 0, 0, time.UTC)
	})
	if err != nil {
		t.Fatalf("newRuntimeLogger() error = %v", err)
	}
	if logger.DevLogPath() != "" {
		t.Fatalf("expected no dev log outside dev mode, got %q", logger.DevLogPath())
	}

	logger.Info("before")
	logger.SetConsoleEnabled(false)
	logger.Info("during")
	logger.SetConsoleEnabled(true)
	logger.Info("after")

	out := console.String()
	if !strings.Contains(out, "before") {
		t.Fatalf("expected console log to include 'before', got %q", out)
	}
	if strings.Contains(out, "during") {
		t.Fatalf("expected muted console log to omit 'during', got %q", out)
	}
	if !strings.Contains(out, "after") {
		t.Fatalf("expected console log to include 'after', got %q", out)
	}
}

func TestRuntimeLoggerRejectsBadLevel(t *testing.T) {
	cfg := config.Default().Logging
	cfg.Level = "loud"
	if _, err := newRuntimeLogger(io.Discard, "dragboard", false, cfg, t.TempDir(), nil); err == nil {
		t.Fatal("expected invalid level error")
	}
}

func TestRuntimeLoggerDevSinkIgnoresConsoleMute(t *testing.T) {
	var console bytes.Buffer
	cfg := config.Default().Logging
	dataDir := t.TempDir()
	logger, err := newRuntimeLogger(&console, "dragboard", true, cfg, dataDir, func() time.Time {
		return time.Date(2026, 5, 6, 8, 0, 0, 0, time.UTC)
	})
	if err != nil {
		t.Fatalf("newRuntimeLogger() error = %v", err)
	}
	want := filepath.Join(dataDir, "log", "dragboard-20260506.log")
	if logger.DevLogPath() != want {
		t.Fatalf("DevLogPath() = %q, want %q", logger.DevLogPath(), want)
	}

	logger.SetConsoleEnabled(false)
	logger.Warn("drag over ignored", "id", "t2")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if console.Len() != 0 {
		t.Fatalf("expected muted console, got %q", console.String())
	}
	raw, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(raw), "drag over ignored") || !strings.Contains(string(raw), "id=t2") {
		t.Fatalf("expected logfmt line in dev log, got %q", string(raw))
	}
}
