package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/kobzarvs/codepad/internal/config"
	"github.com/kobzarvs/codepad/internal/editor"
	"github.com/kobzarvs/codepad/internal/gitinfo"
	"github.com/kobzarvs/codepad/internal/logger"
	"github.com/kobzarvs/codepad/internal/scheduler"
	"github.com/kobzarvs/codepad/internal/state"
	"github.com/kobzarvs/codepad/internal/watcher"
)

type Options struct {
	Path     string
	Language string
	Theme    string
	// StatePath is where cursor positions are remembered between runs.
	// Empty means state.DefaultPath.
	StatePath string
	// Screen overrides the terminal; tests pass a simulation screen.
	Screen tcell.Screen
}

// App is the terminal host for one editing session.
type App struct {
	opts Options
	log  *zap.SugaredLogger
}

// Interrupt payloads posted to the event loop from other goroutines.
type (
	fileChanged struct{}
	flushTick   struct{}
)

func New(opts Options) *App {
	return &App{opts: opts, log: logger.Named("app")}
}

func (a *App) Run() error {
	runtime.LockOSThread()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.opts.Theme != "" {
		if cfg.Theme, err = cfg.Theme.WithTheme(a.opts.Theme); err != nil {
			return err
		}
	}
	if a.opts.Language != "" {
		cfg.Editor.Language = a.opts.Language
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return err
	}

	s := a.opts.Screen
	if s == nil {
		if s, err = tcell.NewScreen(); err != nil {
			return err
		}
	}
	if err := s.Init(); err != nil {
		return err
	}
	s.EnableMouse()
	defer s.Fini()

	ed := editor.New(cfg, langs, editor.Options{
		Post: func(res scheduler.Result) error {
			return s.PostEvent(tcell.NewEventInterrupt(res))
		},
	})
	ed.Start()
	defer ed.Close()

	path := a.opts.Path
	if path != "" {
		text, err := readBuffer(path)
		if err != nil {
			return err
		}
		ed.SetPath(path)
		ed.SetText(text)
		ed.MarkClean()
		ed.SetBranch(gitinfo.Branch(path))

		if store := a.openState(); store != nil {
			restoreView(store, ed)
			defer func() {
				rememberView(store, ed)
				if err := store.Save(); err != nil {
					a.log.Warnw("saving editor state failed", "error", err)
				}
			}()
		}

		if w, err := watcher.New(watcher.Config{Path: path}); err != nil {
			a.log.Warnw("file watcher unavailable", "path", path, "error", err)
		} else if changes, err := w.Start(); err != nil {
			a.log.Warnw("file watcher unavailable", "path", path, "error", err)
			_ = w.Stop()
		} else {
			defer func() { _ = w.Stop() }()
			go func() {
				for range changes {
					_ = s.PostEvent(tcell.NewEventInterrupt(fileChanged{}))
				}
			}()
		}
	}

	// Throttled notifications are retried on this tick so the last edit of a
	// burst gets colored.
	stopTick := make(chan struct{})
	defer close(stopTick)
	go func() {
		ticker := time.NewTicker(2 * cfg.Editor.ThrottleInterval())
		defer ticker.Stop()
		for {
			select {
			case <-stopTick:
				return
			case <-ticker.C:
				_ = s.PostEvent(tcell.NewEventInterrupt(flushTick{}))
			}
		}
	}()

	ed.Render(s)
	for {
		ev := s.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlS {
				if err := save(ed); err != nil {
					a.log.Errorw("save failed", "path", ed.Path(), "error", err)
				}
				break
			}
			if ed.HandleKey(ev) {
				return nil
			}
		case *tcell.EventMouse:
			ed.HandleMouse(ev)
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt:
			if !a.handleInterrupt(ed, ev.Data()) {
				continue
			}
		}
		ed.Render(s)
	}
}

// handleInterrupt reports whether the interrupt changed what is on screen.
func (a *App) handleInterrupt(ed *editor.Session, data any) bool {
	switch data := data.(type) {
	case scheduler.Result:
		return ed.Apply(data)
	case flushTick:
		ed.Flush()
		return false
	case fileChanged:
		return a.reload(ed)
	}
	return false
}

func (a *App) openState() *state.Store {
	path := a.opts.StatePath
	if path == "" {
		var err error
		if path, err = state.DefaultPath(); err != nil {
			a.log.Warnw("editor state unavailable", "error", err)
			return nil
		}
	}
	store, err := state.Open(path)
	if err != nil {
		a.log.Warnw("editor state unreadable, starting fresh", "path", path, "error", err)
	}
	return store
}

// restoreView puts the cursor and scroll back where they were when the file
// was last closed. Offsets past the end of a file that shrank are clamped.
func restoreView(store *state.Store, ed *editor.Session) {
	st, ok := store.Get(ed.Path())
	if !ok {
		return
	}
	ed.SetCaret(st.Anchor, st.Cursor)
	ed.SetScrollRow(st.Scroll)
}

func rememberView(store *state.Store, ed *editor.Session) {
	store.Put(ed.Path(), state.FileState{
		Cursor: ed.Cursor(),
		Anchor: ed.Anchor(),
		Scroll: ed.ScrollRow(),
	})
}

// reload replaces the buffer with the file on disk unless it has unsaved
// edits.
func (a *App) reload(ed *editor.Session) bool {
	if ed.Dirty() || ed.Path() == "" {
		return false
	}
	text, err := readBuffer(ed.Path())
	if err != nil {
		a.log.Warnw("reload failed", "path", ed.Path(), "error", err)
		return false
	}
	if text == ed.Text() {
		return false
	}
	a.log.Infow("reloading changed file", "path", ed.Path())
	ed.SetText(text)
	ed.MarkClean()
	return true
}

func save(ed *editor.Session) error {
	if ed.Path() == "" {
		return errors.New("buffer has no file name")
	}
	if err := os.WriteFile(ed.Path(), []byte(ed.Text()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", ed.Path(), err)
	}
	ed.MarkClean()
	return nil
}

// readBuffer returns the contents of path, or an empty buffer for a file that
// does not exist yet.
func readBuffer(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	return string(data), nil
}
