package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"
	"github.com/evanschultz/dragboard/internal/config"
	"github.com/evanschultz/dragboard/internal/platform"
)

// logSink is one destination of the runtime logger. Console sinks can be
// muted while the board owns the terminal.
type logSink struct {
	logger  *charmLog.Logger
	console bool
}

// runtimeLogger fans board events out to its sinks. It satisfies app.Logger.
type runtimeLogger struct {
	sinks        []logSink
	consoleMuted bool
	closeFile    func() error
	devLog       string
}

// sinkOptions returns charm log options shared by every sink.
func sinkOptions(level charmLog.Level, appName string, formatter charmLog.Formatter) charmLog.Options {
	return charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       formatter,
	}
}

// newRuntimeLogger builds a styled console sink and, in dev mode, a logfmt
// sink appending to a daily file under the data dir.
func newRuntimeLogger(stderr io.Writer, appName string, devMode bool, cfg config.LoggingConfig, dataDir string, now func() time.Time) (*runtimeLogger, error) {
	level, err := charmLog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}
	if now == nil {
		now = time.Now
	}
	if stderr == nil {
		stderr = io.Discard
	}

	l := &runtimeLogger{}
	l.sinks = append(l.sinks, logSink{
		logger:  charmLog.NewWithOptions(stderr, sinkOptions(level, appName, charmLog.TextFormatter)),
		console: true,
	})
	if !devMode || !cfg.DevFile.Enabled {
		return l, nil
	}

	path := devLogFilePath(platform.ResolveUnder(dataDir, cfg.DevFile.Dir), appName, now().UTC())
	file, err := openDevLog(path)
	if err != nil {
		return nil, err
	}
	l.sinks = append(l.sinks, logSink{
		logger: charmLog.NewWithOptions(file, sinkOptions(level, appName, charmLog.LogfmtFormatter)),
	})
	l.closeFile = file.Close
	l.devLog = path
	return l, nil
}

// openDevLog creates the log dir and opens path for appending.
func openDevLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create dev log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open dev log file: %w", err)
	}
	return file, nil
}

// DevLogPath returns the active dev log file path.
func (l *runtimeLogger) DevLogPath() string {
	if l == nil {
		return ""
	}
	return l.devLog
}

// Close closes the optional dev-file sink.
func (l *runtimeLogger) Close() error {
	if l == nil || l.closeFile == nil {
		return nil
	}
	return l.closeFile()
}

// SetConsoleEnabled mutes or restores the console sinks.
func (l *runtimeLogger) SetConsoleEnabled(enabled bool) {
	if l == nil {
		return
	}
	l.consoleMuted = !enabled
}

// each calls fn for every sink that is currently accepting events.
func (l *runtimeLogger) each(fn func(*charmLog.Logger)) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if sink.console && l.consoleMuted {
			continue
		}
		fn(sink.logger)
	}
}

func (l *runtimeLogger) Debug(msg any, keyvals ...any) {
	l.each(func(s *charmLog.Logger) { s.Debug(msg, keyvals...) })
}

func (l *runtimeLogger) Info(msg any, keyvals ...any) {
	l.each(func(s *charmLog.Logger) { s.Info(msg, keyvals...) })
}

func (l *runtimeLogger) Warn(msg any, keyvals ...any) {
	l.each(func(s *charmLog.Logger) { s.Warn(msg, keyvals...) })
}

func (l *runtimeLogger) Error(msg any, keyvals ...any) {
	l.each(func(s *charmLog.Logger) { s.Error(msg, keyvals...) })
}

// devLogFilePath names one log file per app and day.
func devLogFilePath(dir, appName string, now time.Time) string {
	fileName := fmt.Sprintf("%s-%s.log", sanitizeLogFileStem(appName), now.Format("20060102"))
	return filepath.Join(filepath.Clean(dir), fileName)
}

// sanitizeLogFileStem normalizes app names into safe file-name segments.
func sanitizeLogFileStem(appName string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-")
	stem := strings.Trim(replacer.Replace(strings.TrimSpace(appName)), "-")
	if stem == "" {
		return "dragboard"
	}
	return stem
}
