// Package runtime provides the per-invocation application context for
// keyframe: storage, configuration, and the history manager restored from the
// journal.
package runtime

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/keyframe-studio/keyframe/internal/command"
	"github.com/keyframe-studio/keyframe/internal/config"
	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/history"
	"github.com/keyframe-studio/keyframe/internal/logging"
	"github.com/keyframe-studio/keyframe/internal/model"
	"github.com/keyframe-studio/keyframe/internal/output"
	"github.com/keyframe-studio/keyframe/internal/storage"
)

// Context holds the application runtime context.
type Context struct {
	Ctx       context.Context
	DB        *storage.DB
	Formatter *output.Formatter
	Config    *config.RuntimeConfig
	Settings  *model.Settings

	// Repositories
	Elements     *storage.ElementRepo
	HistoryRepo  *storage.HistoryRepo
	SettingsRepo *storage.SettingsRepo

	History  *history.Manager
	Registry *prometheus.Registry

	// JournalErr is set when the saved history could not be restored and the
	// session started with empty history instead.
	JournalErr error
	// Warnings collects non-fatal notices for the user, such as low disk space.
	Warnings []string

	// Debug mode
	Debug bool
}

// Options configures the runtime context.
type Options struct {
	DBPath    string
	InMemory  bool
	Format    output.Format
	ColorMode output.ColorMode
	Debug     bool
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		DBPath:    storage.DefaultPath(),
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
	}
}

// New opens the database, loads configuration and restores the history
// manager from the saved journal.
func New(opts Options) (*Context, error) {
	env := config.DefaultRuntimeConfig()
	if err := env.LoadFromEnv(); err != nil {
		return nil, errors.NewUserError("invalid KEYFRAME_* environment variable: "+err.Error(),
			"Check KEYFRAME_MAX_HISTORY, KEYFRAME_AUTO_MERGE and KEYFRAME_MERGE_TIMEOUT")
	}

	storeOpts := storage.Options{
		Path:         opts.DBPath,
		InMemory:     opts.InMemory,
		MinFreeSpace: env.Storage.MinFreeSpace,
	}
	switch {
	case env.InMemory():
		storeOpts.InMemory = true
	case env.Storage.Path != "":
		storeOpts.Path = env.Storage.Path
	}
	if !storeOpts.InMemory && storeOpts.Path == "" {
		storeOpts.Path = storage.DefaultPath()
	}

	db, err := storage.Open(storeOpts)
	if err != nil {
		return nil, err
	}

	c := &Context{
		Ctx:          logging.NewSessionContext(),
		DB:           db,
		Elements:     storage.NewElementRepo(db),
		HistoryRepo:  storage.NewHistoryRepo(db),
		SettingsRepo: storage.NewSettingsRepo(db),
		Registry:     prometheus.NewRegistry(),
		Debug:        opts.Debug,
	}

	if err := c.init(opts); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Context) init(opts Options) error {
	settings, err := c.SettingsRepo.Get()
	if err != nil {
		return errors.Wrap(err, "load settings")
	}
	c.Settings = settings

	cfg, err := config.Load(settings)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	c.Config = cfg

	initLogging(cfg, opts.Debug)

	c.Formatter = output.NewFormatter()
	c.Formatter.Format = opts.Format
	c.Formatter.ColorMode = opts.ColorMode

	c.History = history.New(c.historyOptions())
	c.restore()

	if !c.DB.InMemory() {
		if w := storage.CheckDiskSpaceWarning(c.DB.Path(), cfg.Storage.MinFreeSpaceWarning); w != "" {
			c.Warnings = append(c.Warnings, w)
		}
	}
	return nil
}

func initLogging(cfg *config.RuntimeConfig, debug bool) {
	if debug {
		logging.InitDebug()
		return
	}
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(cfg.Log.Level)
	lc.JSON = cfg.Log.JSON
	logging.Init(lc)
}

func (c *Context) historyOptions() history.Options {
	return history.Options{
		MaxHistory:   c.Config.History.MaxHistory,
		AutoMerge:    c.Config.History.AutoMerge,
		MergeTimeout: c.Config.History.MergeTimeout,
		Logger:       logging.LoggerFromContext(c.Ctx).With(logging.KeyComponent, "history"),
		Metrics:      history.NewMetrics(c.Registry),
	}
}

// restore loads the saved journal into the manager. A journal that cannot be
// decoded is reported and replaced on the next commit.
func (c *Context) restore() {
	log := logging.LoggerFromContext(c.Ctx)

	state, err := c.HistoryRepo.Get()
	if err == nil {
		err = c.History.Restore(c.Elements, state)
	}
	if err != nil {
		c.JournalErr = err
		c.Warnings = append(c.Warnings, "saved history could not be read and was reset: "+err.Error())
		log.Warn("history journal discarded", logging.KeyError, err)
	}
}

// Close closes the runtime context.
func (c *Context) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Commit saves both history stacks to the journal.
func (c *Context) Commit() error {
	state, err := c.History.Snapshot()
	if err != nil {
		return err
	}
	if err := c.HistoryRepo.Save(state); err != nil {
		return errors.NewSystemErrorWithOp("commit", "cannot save history", err)
	}
	c.JournalErr = nil
	return nil
}

// Run executes cmd through the history manager and commits the journal.
func (c *Context) Run(cmd command.Command) error {
	if err := c.History.Execute(cmd); err != nil {
		return err
	}
	return c.Commit()
}

// SaveSettings persists settings and applies them to the running manager.
// Environment variables still take precedence.
func (c *Context) SaveSettings(settings *model.Settings) error {
	if err := c.SettingsRepo.Save(settings); err != nil {
		return err
	}
	cfg, err := config.Load(settings)
	if err != nil {
		return err
	}
	c.Settings = settings
	c.Config = cfg

	opts := c.History.Options()
	opts.MaxHistory = cfg.History.MaxHistory
	opts.AutoMerge = cfg.History.AutoMerge
	opts.MergeTimeout = cfg.History.MergeTimeout
	c.History.SetOptions(opts)
	return c.Commit()
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.IsJSON()
}

// Logger returns the session logger.
func (c *Context) Logger() *slog.Logger {
	return logging.LoggerFromContext(c.Ctx)
}
