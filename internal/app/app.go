package app

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/five82/galley/internal/config"
	"github.com/five82/galley/internal/logging"
	"github.com/five82/galley/internal/prefs"
	"github.com/five82/galley/internal/recipes"
	"github.com/five82/galley/internal/state"
	"github.com/five82/galley/internal/ui"
)

// Options configure a galley run.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/galley/prefs.toml
	// Flags are bound over config file and environment values when set.
	Flags *pflag.FlagSet
}

// Env holds the dependencies shared by the TUI and the headless commands.
type Env struct {
	Config config.Config
	Logger *zap.Logger
	Client *recipes.Client

	closeLog func() error
}

// Setup loads configuration, opens the log file and builds the API client.
// A log file that cannot be opened degrades to a no-op logger.
func Setup(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.Flags)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	env := &Env{Config: cfg, Logger: logging.Nop(), closeLog: func() error { return nil }}
	if logger, closeFn, err := logging.New(cfg.Log.File, cfg.Log.Level); err == nil {
		env.Logger, env.closeLog = logger, closeFn
	}

	client, err := recipes.NewClient(cfg.APIURL,
		recipes.WithTimeout(cfg.Timeout),
		recipes.WithLogger(env.Logger.Named("api")),
	)
	if err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("init recipe client: %w", err)
	}
	env.Client = client

	env.Logger.Info("galley starting",
		zap.String("api", client.BaseURL()),
		zap.Duration("timeout", cfg.Timeout),
		zap.String("config", cfg.Path))
	return env, nil
}

// Close flushes and closes the log file.
func (e *Env) Close() error {
	if e == nil || e.closeLog == nil {
		return nil
	}
	return e.closeLog()
}

// NewStore returns a store sized from prefs when the remembered page size is
// still offered, otherwise from config.
func (e *Env) NewStore(p prefs.Prefs) *state.Store {
	limit := e.Config.PageSize
	if p.PageSize > 0 && slices.Contains(e.Config.PageSizes, p.PageSize) {
		limit = p.PageSize
	}
	return state.NewStore(limit)
}

// Run boots the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	return ui.Run(ctx, ui.Options{
		Store:        env.NewStore(userPrefs),
		Fetcher:      env.Client,
		Logger:       env.Logger.Named("ui"),
		LimitOptions: env.Config.PageSizes,
		Prefs:        userPrefs,
		PrefsPath:    prefsPath,
		APIURL:       env.Client.BaseURL(),
		Probe:        env.probe,
	})
}

// probe runs the startup health check. The UI starts without waiting for it
// and reports fetch failures on its own.
func (e *Env) probe(ctx context.Context) error {
	return Probe(ctx, e.Client, e.Logger, defaultProbeAttempts)
}
