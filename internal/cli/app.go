package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/amterp/kanpad/internal/config"
	"github.com/amterp/kanpad/internal/discovery"
	"github.com/amterp/kanpad/internal/logging"
	"github.com/amterp/kanpad/internal/model"
	"github.com/amterp/kanpad/internal/prompt"
	"github.com/amterp/kanpad/internal/resolver"
	"github.com/amterp/kanpad/internal/service"
	"github.com/amterp/kanpad/internal/store"
)

// App holds all the dependencies for the CLI.
type App struct {
	GlobalStore  store.GlobalStore
	Config       *model.GlobalConfig
	Location     *discovery.Result
	Paths        *config.Paths
	Store        store.Store
	Logger       *log.Logger
	Prompter     prompt.Prompter
	Board        *service.BoardService
	Theme        *service.ThemeService
	Doctor       *service.DoctorService
	CardResolver *resolver.CardResolver
	ListResolver *resolver.ListResolver
	Interactive  bool
}

// LoadConfig reads the global config file and applies environment overrides
// and defaults. A broken config file is reported and replaced by defaults.
func LoadConfig(globalStore store.GlobalStore) *model.GlobalConfig {
	cfg, err := globalStore.Load()
	if err != nil {
		PrintWarning("failed to load global config: %v", err)
		cfg = &model.GlobalConfig{}
	}
	if err := config.ApplyEnv(cfg); err != nil {
		PrintWarning("ignoring environment overrides: %v", err)
	}
	cfg.ApplyDefaults()
	return cfg
}

// NewApp creates a new App with all dependencies wired up and the board
// and theme loaded. If interactive is false, prompts fail instead of asking.
func NewApp(interactive bool) (*App, error) {
	return openApp(interactive, false)
}

// openApp is NewApp with optional log timestamps for long-running commands.
func openApp(interactive, timestamps bool) (*App, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	globalStore := store.NewGlobalStore()
	return newApp(context.Background(), globalStore, LoadConfig(globalStore), cwd, interactive, timestamps)
}

func newApp(ctx context.Context, globalStore store.GlobalStore, cfg *model.GlobalConfig, startDir string, interactive, timestamps bool) (*App, error) {
	logger := logging.New(logging.OptionsFromConfig(cfg.Log, timestamps))

	location, err := discovery.DiscoverFrom(startDir, cfg)
	if err != nil {
		return nil, err
	}
	paths := config.NewPaths(location.DataRoot)

	kv, err := store.Open(ctx, cfg.Storage, paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("store opened", "backend", cfg.Storage.Backend, "root", location.DataRoot, "source", location.Source)

	var prompter prompt.Prompter
	if interactive {
		prompter = prompt.NewHuhPrompter()
	} else {
		prompter = &prompt.NoopPrompter{}
	}

	board := service.NewBoardService(kv, service.WithLogger(logger))
	theme := service.NewThemeService(kv, service.DetectDarkBackground, logger)
	if board.Load(ctx) == store.LoadedUnavailable {
		kv.Close()
		return nil, fmt.Errorf("board storage is unavailable")
	}
	theme.Load(ctx)

	return &App{
		GlobalStore:  globalStore,
		Config:       cfg,
		Location:     location,
		Paths:        paths,
		Store:        kv,
		Logger:       logger,
		Prompter:     prompter,
		Board:        board,
		Theme:        theme,
		Doctor:       service.NewDoctorService(kv, globalStore.Path()),
		CardResolver: resolver.NewCardResolver(),
		ListResolver: resolver.NewListResolver(prompter),
		Interactive:  interactive,
	}, nil
}

// Close releases the store.
func (a *App) Close() {
	if err := a.Store.Close(); err != nil {
		a.Logger.Warn("failed to close store", "err", err)
	}
}

// mustApp creates the App or exits.
func mustApp(interactive bool) *App {
	app, err := NewApp(interactive)
	if err != nil {
		Fatal(err)
	}
	return app
}

// Fatal prints an error and exits.
func Fatal(err error) {
	PrintError("%v", err)
	os.Exit(1)
}

// Fatal closes the store, prints an error and exits.
func (a *App) Fatal(err error) {
	a.Close()
	Fatal(err)
}
