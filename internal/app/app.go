package app

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"glyphboard/internal/config"
	"glyphboard/internal/editor"
	"glyphboard/internal/mirror"
	"glyphboard/internal/render"
	"glyphboard/internal/render/backend"
	"glyphboard/internal/script"
	"glyphboard/internal/store"
)

// Application is the central coordinator for all glyphboard components.
// It manages component lifecycles, wiring, and the main event loop.
type Application struct {
	opts Options

	log     *Logger
	cfg     *config.Config
	editor  *editor.Editor
	sig     *render.Signal
	metrics *Metrics
	taps    *tapBuffer

	term    *backend.Terminal
	mirror  *mirror.Server
	scripts *script.Engine
	watcher *config.Watcher

	// mirrorUp is owned by the event loop goroutine; the mirror field
	// itself is immutable after New.
	mirrorUp bool

	boardPath string

	reload    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	running   atomic.Bool
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the TOML configuration file. Empty uses
	// the per-user default location; a missing file means defaults.
	ConfigPath string

	// BoardPath is the board document to load and save. Empty uses the
	// autosave path from config, then the per-user default location.
	BoardPath string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// LogOutput is where logs are written. Defaults to os.Stderr.
	LogOutput io.Writer

	// Debug forces debug-level logging.
	Debug bool
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:   opts,
		reload: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	if err := app.bootstrap(); err != nil {
		return nil, err
	}

	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Logger.
	level := ParseLogLevel(app.opts.LogLevel)
	if app.opts.Debug {
		level = LogLevelDebug
	}
	logCfg := DefaultLoggerConfig()
	logCfg.Level = level
	logCfg.Output = app.opts.LogOutput
	app.log = NewLogger(logCfg)

	// 2. Configuration. A missing file means defaults; a present but
	// broken file is fatal rather than silently ignored.
	configPath := app.opts.ConfigPath
	if configPath == "" {
		configPath = defaultConfigPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if cfg == nil {
		cfg = config.Default()
		if err := cfg.ApplyEnvironment(); err != nil {
			return &InitError{Component: "config", Err: err}
		}
		if err := cfg.Validate(); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	} else {
		app.log.Debug("config loaded from %s", configPath)
	}
	app.cfg = cfg

	// 3. Editor core and repaint signal.
	app.editor = editor.New(cfg.EditorConfig())
	app.editor.SetCanvasMode(cfg.CanvasMode())
	app.sig = render.NewSignal()
	app.editor.OnChange(app.sig.Notify)

	// 4. Metrics and the double-tap buffer.
	app.metrics = NewMetrics()
	app.taps = newTapBuffer()

	// 5. Board document.
	app.boardPath = app.resolveBoardPath()
	if err := app.loadBoard(); err != nil {
		return &InitError{Component: "board", Err: err}
	}

	// 6. Mirror server, constructed here and started in Run.
	if cfg.Mirror.Enabled {
		app.mirror = mirror.New(mirror.Config{
			Listen:   cfg.Mirror.Listen,
			Announce: cfg.Mirror.Announce,
		})
	}

	// 7. Script engine.
	if cfg.Script.Dir != "" {
		app.scripts = script.New(app.editor, script.Options{
			Dir:      cfg.Script.Dir,
			Timeout:  time.Duration(cfg.Script.TimeoutMS) * time.Millisecond,
			OnChange: app.sig.Notify,
		})
	}

	// 8. Config hot-reload. Watch failures lose live reload, nothing
	// else, so they only warn.
	watcher, err := config.NewWatcher(configPath, func() {
		select {
		case app.reload <- struct{}{}:
		default:
		}
	})
	if err != nil {
		app.log.Warn("config watch unavailable: %v", err)
	} else {
		app.watcher = watcher
	}

	return nil
}

// defaultConfigPath returns the per-user config file location, or ""
// when no user config directory exists.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "glyphboard", "config.toml")
}

// resolveBoardPath picks the board document path: the explicit option,
// then the configured autosave path, then the per-user default.
func (app *Application) resolveBoardPath() string {
	if app.opts.BoardPath != "" {
		return app.opts.BoardPath
	}
	if app.cfg.Autosave.Path != "" {
		return app.cfg.Autosave.Path
	}
	path, err := store.DefaultBoardPath()
	if err != nil {
		app.log.Warn("no default board path: %v", err)
		return ""
	}
	return path
}

// SetTerminal attaches the terminal front-end. Must be called before
// Run; run without one the application serves only the mirror.
func (app *Application) SetTerminal(t *backend.Terminal) error {
	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.term = t
	return nil
}

// Run starts the application main loop and blocks until quit or
// Shutdown. A normal quit returns ErrQuit.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if app.term != nil {
		if err := app.term.Init(); err != nil {
			return &InitError{Component: "terminal", Err: err}
		}
		defer app.term.Fini()

		w, h := app.term.Size()
		app.editor.Transform().SetScreenSize(float64(w), float64(h))
	}

	if app.mirror != nil {
		if err := app.mirror.Start(); err != nil {
			app.log.Warn("mirror unavailable: %v", err)
		} else {
			app.mirrorUp = true
			app.log.Info("mirror listening on %s", app.mirror.Addr())
		}
	}

	app.runStartupScripts()

	app.sig.Notify()
	err := app.eventLoop()

	app.saveOnExit()
	app.logSessionStats()

	return err
}

// Shutdown initiates shutdown and releases background components. Safe
// to call more than once and from any goroutine.
func (app *Application) Shutdown() {
	app.closeOnce.Do(func() {
		close(app.done)
		if app.watcher != nil {
			_ = app.watcher.Close()
		}
		if app.scripts != nil {
			_ = app.scripts.Close()
		}
		if app.mirror != nil {
			_ = app.mirror.Close()
		}
	})
}

// IsRunning returns true while Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// Editor returns the canvas editor.
func (app *Application) Editor() *editor.Editor {
	return app.editor
}

// BoardPath returns the resolved board document path.
func (app *Application) BoardPath() string {
	return app.boardPath
}

// logSessionStats reports loop activity at debug level on exit.
func (app *Application) logSessionStats() {
	s := app.metrics.Snapshot()
	log := app.log.WithComponent("metrics")
	log.Debug("session: %s uptime, %d frames (avg %.1f fps), %d events, %d autosaves",
		s.Uptime.Round(time.Second), s.FrameCount, s.AvgFPS(), s.EventCount, s.Autosaves)
	if app.mirrorUp {
		ms := app.mirror.Stats()
		log.Debug("mirror: %d published, %d dropped", ms.Published, ms.Dropped)
	}
}

// saveOnExit persists the board when autosave is on, so quitting never
// loses more than one autosave interval anyway.
func (app *Application) saveOnExit() {
	if !app.cfg.Autosave.Enabled {
		return
	}
	if err := app.SaveBoard(); err != nil && !errors.Is(err, errNoBoardPath) {
		app.log.Error("final save failed: %v", err)
	}
}
