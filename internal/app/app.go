package app

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qcalc/internal/config"
	"github.com/kobzarvs/qcalc/internal/history"
	"github.com/kobzarvs/qcalc/internal/logger"
	"github.com/kobzarvs/qcalc/internal/session"
	"github.com/kobzarvs/qcalc/internal/ui"
)

// SessionID names the interactive session in the store.
const SessionID = "tui"

// App is the top-level runtime for the interactive calculator.
type App struct {
	cfg config.Config
}

func New(cfg config.Config) *App {
	return &App{cfg: cfg}
}

// OpenStore builds the configured session store.
func OpenStore(ctx context.Context, opts config.SessionOptions) (session.Store, error) {
	switch opts.Store {
	case "none":
		return session.NewMemoryStore(), nil
	case "redis":
		ttl, err := opts.TTL()
		if err != nil {
			return nil, err
		}
		store := session.NewRedisStore(opts.RedisAddr, opts.RedisPassword, opts.RedisDB,
			session.WithPrefix(opts.RedisPrefix),
			session.WithTTL(ttl),
		)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	default:
		dir := opts.Dir
		if dir == "" {
			var err error
			if dir, err = session.StateDir(); err != nil {
				return nil, err
			}
		}
		return session.NewFileStore(dir)
	}
}

// Restore loads the stored interactive session into u. A missing snapshot
// is not an error.
func Restore(ctx context.Context, m *session.Manager, u *ui.UI) error {
	snap, err := m.Load(ctx)
	if errors.Is(err, session.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	snap.Apply(u.Session(), u.History())
	return nil
}

// Track feeds every change of u's session to m.
func Track(m *session.Manager, u *ui.UI) {
	u.Session().OnChange(func() {
		m.Update(session.Capture(u.Session(), u.History()))
	})
}

func (a *App) Run() error {
	runtime.LockOSThread()
	ctx := context.Background()

	store, err := OpenStore(ctx, a.cfg.Session)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	interval, _ := a.cfg.Session.AutosaveInterval()
	manager := session.NewManager(store, SessionID, interval)

	u := ui.New(a.cfg, history.New(a.cfg.Calculator.HistoryLimit))
	if err := Restore(ctx, manager, u); err != nil {
		logger.Warn("restore session failed", "error", err)
	}
	Track(manager, u)
	defer func() {
		if err := manager.Stop(ctx); err != nil {
			logger.Error("save session failed", "error", err)
		}
	}()

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	// Wake the loop now and then so autosave status and resizes settle.
	stopTick := make(chan struct{})
	defer close(stopTick)
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stopTick:
				return
			case <-ticker.C:
				_ = s.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	logger.Info("calculator started", "store", a.cfg.Session.Store, "angle", a.cfg.Calculator.AngleMode, "format", a.cfg.Calculator.FormatMode)
	u.Render(s)
	for {
		ev := s.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			if u.HandleKey(ev) {
				logger.Info("calculator stopped")
				return nil
			}
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt:
			if !u.ConsumeDirty() {
				continue
			}
		}
		u.Render(s)
	}
}
