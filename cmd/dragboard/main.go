package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/evanschultz/dragboard/internal/app"
	"github.com/evanschultz/dragboard/internal/config"
	"github.com/evanschultz/dragboard/internal/platform"
	"github.com/evanschultz/dragboard/internal/tui"
	"github.com/spf13/cobra"
)

// version is set at build time.
var version = "dev"

// program is the slice of tea.Program the CLI needs.
type program interface {
	Run() (tea.Model, error)
}

// programFactory builds the terminal program; tests swap it out.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

func main() {
	root := newRootCommand(os.Stdout, os.Stderr)
	if err := fang.Execute(context.Background(), root, fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// run executes the command tree without fang styling.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// rootOptions holds flags shared by every command.
type rootOptions struct {
	configPath string
	appName    string
	devMode    bool
}

// resolved is the path and config state for one invocation.
type resolved struct {
	paths      platform.Paths
	configPath string
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	opts := &rootOptions{appName: "dragboard", devMode: version == "dev"}
	if envDev, ok := parseBoolEnv("DRAGBOARD_DEV_MODE"); ok {
		opts.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("DRAGBOARD_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	root := &cobra.Command{
		Use:           "dragboard",
		Short:         "Terminal board with mouse drag-and-drop for columns and tasks",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBoard(opts, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config TOML")
	root.PersistentFlags().StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	root.PersistentFlags().BoolVar(&opts.devMode, "dev", opts.devMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(newPathsCommand(opts, stdout))
	root.AddCommand(newConfigCommand(opts, stdout))
	return root
}

func newPathsCommand(opts *rootOptions, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := opts.resolve()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(stdout, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(stdout, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(stdout, "config: %s\n", r.configPath)
			_, _ = fmt.Fprintf(stdout, "data_dir: %s\n", r.paths.DataDir)
			_, _ = fmt.Fprintf(stdout, "log_dir: %s\n", r.paths.LogDir)
			return nil
		},
	}
}

func newConfigCommand(opts *rootOptions, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := opts.resolve()
			if err != nil {
				return err
			}
			if err := config.WriteDefault(r.configPath, config.Default(), force); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return fmt.Errorf("%w (use --force to overwrite)", err)
				}
				return err
			}
			_, _ = fmt.Fprintf(stdout, "wrote %s\n", r.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.AddCommand(initCmd)
	return cmd
}

// resolve applies env and flag overrides to the platform paths.
func (o *rootOptions) resolve() (resolved, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: o.appName,
		DevMode: o.devMode,
	})
	if err != nil {
		return resolved{}, err
	}
	configPath := strings.TrimSpace(o.configPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("DRAGBOARD_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	return resolved{paths: paths, configPath: configPath}, nil
}

// runBoard loads config, wires the service and runs the TUI.
func runBoard(opts *rootOptions, stderr io.Writer) error {
	r, err := opts.resolve()
	if err != nil {
		return err
	}
	cfg, err := config.Load(r.configPath, config.Default())
	if err != nil {
		return fmt.Errorf("load config %q: %w", r.configPath, err)
	}

	logger, err := newRuntimeLogger(stderr, opts.appName, opts.devMode, cfg.Logging, r.paths.DataDir, time.Now)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	// Runtime logs go to the dev-file sink only while the board owns the terminal.
	logger.SetConsoleEnabled(false)
	defer func() {
		if closeErr := logger.Close(); closeErr != nil {
			_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", closeErr)
		}
	}()

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode, "config_path", r.configPath)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	idGen, err := app.NewIDGenerator(app.IDStrategy(cfg.IDs.Strategy))
	if err != nil {
		return fmt.Errorf("configure ids: %w", err)
	}
	svc := app.NewService(idGen, time.Now, logger, app.ServiceConfig{ActivityLimit: cfg.Activity.Limit})
	logger.Debug("application service initialized", "id_strategy", cfg.IDs.Strategy, "activity_limit", cfg.Activity.Limit)

	m := tui.NewModel(svc, tui.WithRuntimeConfig(toTUIRuntimeConfig(cfg)))
	if _, err := programFactory(m).Run(); err != nil {
		logger.Error("tui run failed", "err", err)
		return fmt.Errorf("run tui: %w", err)
	}
	logger.Info("tui exited")
	return nil
}

// toTUIRuntimeConfig maps file config onto TUI settings.
func toTUIRuntimeConfig(cfg config.Config) tui.RuntimeConfig {
	return tui.RuntimeConfig{
		ColumnWidth:        cfg.Board.ColumnWidth,
		MaxTaskLines:       cfg.Board.MaxTaskLines,
		ShowTaskCount:      cfg.Board.ShowTaskCount,
		RenderMarkdown:     cfg.Board.RenderMarkdown,
		ActivationDistance: cfg.Drag.ActivationDistance,
		ShowOverlay:        cfg.Drag.ShowOverlay,
		Keys: tui.KeyConfig{
			NewColumn:   cfg.Keys.NewColumn,
			NewTask:     cfg.Keys.NewTask,
			Edit:        cfg.Keys.Edit,
			Delete:      cfg.Keys.Delete,
			Yank:        cfg.Keys.Yank,
			ActivityLog: cfg.Keys.ActivityLog,
		},
	}
}

// parseBoolEnv reads a boolean env var; ok is false when unset or invalid.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
