package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tchat/internal/bus"
	"tchat/internal/clipboard"
	"tchat/internal/config"
	"tchat/internal/hints"
	"tchat/internal/lock"
	"tchat/internal/logging"
	"tchat/internal/outbox"
	"tchat/internal/session"
	"tchat/internal/store"
	"tchat/internal/tui"
	"tchat/internal/tui/model"
	"tchat/internal/tui/ui"
)

// Params holds the resolved session configuration passed to the fx module.
type Params struct {
	SessionName string
	Config      *config.Config
}

// Module returns the fx module for the application, composing all providers
// and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("tchat",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideBus,
			provideLock,
			provideStore,
			provideClipboard,
			provideHints,
			provideSender,
			provideViewModel,
			provideTheme,
			provideApp,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	// The TUI owns the terminal; logs go to the session file only.
	return logging.NewFileOnly(session.LogPath(p.SessionName), p.SessionName)
}

func provideBus() *bus.Bus {
	return bus.NewBus()
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := session.EnsureDir(p.SessionName); err != nil {
		return nil, err
	}
	l, err := lock.Acquire(session.Dir(p.SessionName))
	if err != nil {
		return nil, err
	}
	logger.Info("session lock acquired", zap.String("session", p.SessionName))
	return l, nil
}

func provideStore(p Params, logger *zap.Logger) (*store.DB, error) {
	dbPath := session.DBPath(p.SessionName)
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideClipboard(p Params) *clipboard.System {
	maxKB := p.Config.Composer.AttachmentMaxKB
	if maxKB <= 0 {
		maxKB = config.DefaultAttachmentMaxKB
	}
	return clipboard.NewSystem(maxKB)
}

func provideHints(db *store.DB, logger *zap.Logger) *hints.Tracker {
	return hints.NewTracker(db, logger)
}

func provideSender(db *store.DB, b *bus.Bus, logger *zap.Logger) *outbox.Sender {
	return outbox.NewSender(db, outbox.Loopback{}, b, logger)
}

func provideViewModel(db *store.DB) *model.ViewModel {
	return model.NewViewModel(db)
}

func provideTheme(p Params) *ui.Theme {
	theme := ui.DefaultTheme()
	if p.Config.Composer.RTL {
		theme.Direction = ui.RightToLeft
	}
	return theme
}

func provideApp(p Params, vm *model.ViewModel, b *bus.Bus, theme *ui.Theme, clip *clipboard.System, tracker *hints.Tracker, logger *zap.Logger) *tui.App {
	return tui.NewApp(vm, b, theme, logger, tui.Options{
		Session:     p.SessionName,
		Placeholder: p.Config.Composer.Placeholder,
		Clipboard:   clip,
		Hints:       tracker,
	})
}

func registerLifecycle(lc fx.Lifecycle, shutdowner fx.Shutdowner, a *tui.App, sender *outbox.Sender, lk *lock.Lock, db *store.DB, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sender.Start(context.Background())

			// The TUI blocks; when it exits, take the whole app down.
			go func() {
				if err := a.Run(); err != nil {
					logger.Error("tui error", zap.Error(err))
				}
				_ = shutdowner.Shutdown()
			}()

			return nil
		},
		OnStop: func(_ context.Context) error {
			a.Stop()
			sender.Stop()
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("stopped")
			return nil
		},
	})
}
