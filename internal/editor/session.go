// Package editor holds the state of one editing session and wires it to the
// highlighting pipeline. All Session methods run on the UI goroutine; only the
// scheduler's worker runs elsewhere.
package editor

import (
	"time"

	"github.com/kobzarvs/codepad/internal/brackets"
	"github.com/kobzarvs/codepad/internal/config"
	"github.com/kobzarvs/codepad/internal/highlight"
	"github.com/kobzarvs/codepad/internal/lineindex"
	"github.com/kobzarvs/codepad/internal/logger"
	"github.com/kobzarvs/codepad/internal/scheduler"
	"github.com/kobzarvs/codepad/internal/textpos"
	"github.com/kobzarvs/codepad/internal/theme"
	"github.com/kobzarvs/codepad/internal/version"
)

type LineNumberMode int

const (
	LineNumberAbsolute LineNumberMode = iota
	LineNumberOff
)

// Options carries the host hooks for a session.
type Options struct {
	// Post hands scheduler results to the UI goroutine. The session applies
	// them when the host calls Apply. A failed post is retried by Flush.
	Post  func(scheduler.Result) error
	Clock func() time.Time
}

type Session struct {
	cfg      config.Config
	langs    config.Languages
	registry *highlight.Registry

	lang    *config.Language
	palette theme.Palette
	font    config.Font
	engine  *highlight.Engine

	counter  *version.Counter
	sched    *scheduler.Scheduler
	lines    *lineindex.Cache
	brackets brackets.Cache
	pairs    []brackets.Pair

	text *textpos.Text
	// layout holds the line starts of the live text; the gutter cache in
	// lines may trail it until the background rebuild lands.
	layout []int

	cursor int
	anchor int
	scroll int
	width  int
	height int

	applied *highlight.AttributedText
	// stale is set when a notification was throttled and still needs one.
	stale bool

	tabWidth       int
	lineNumberMode LineNumberMode
	bufferLines    int
	syncLimit      int

	path   string
	branch string
	dirty  bool
}

func New(cfg config.Config, langs config.Languages, opts Options) *Session {
	tabWidth := cfg.Editor.TabWidth
	if tabWidth < 1 {
		tabWidth = 4
	}
	lineMode := LineNumberAbsolute
	if cfg.Editor.LineNumbers == "off" {
		lineMode = LineNumberOff
	}
	syncLimit := cfg.Editor.SyncHighlightLimit
	if syncLimit <= 0 {
		syncLimit = config.DefaultSyncHighlightLimit
	}
	pairs, err := brackets.ParsePairs(cfg.Editor.BracketPairs)
	if err != nil {
		logger.Warn("invalid bracket pairs, using defaults", "error", err)
		pairs = brackets.DefaultPairs
	}

	s := &Session{
		cfg:            cfg,
		langs:          langs,
		registry:       highlight.NewRegistry(),
		palette:        theme.FromConfig(cfg.Theme),
		font:           cfg.Font,
		counter:        &version.Counter{},
		lines:          lineindex.NewCache(),
		pairs:          pairs,
		text:           textpos.NewText(""),
		layout:         []int{0},
		tabWidth:       tabWidth,
		lineNumberMode: lineMode,
		bufferLines:    lineindex.BufferLines(cfg.Editor.GutterBuffer, cfg.Editor.LineHeight),
		syncLimit:      syncLimit,
	}
	s.sched = scheduler.New(s.counter, s.lines, scheduler.Options{
		Throttle: cfg.Editor.ThrottleInterval(),
		Post:     opts.Post,
		Clock:    opts.Clock,
	})
	if name := cfg.Editor.Language; name != "" {
		s.lang = langs.Lookup(name)
	}
	s.rebuildEngine()
	return s
}

// Start launches the background worker.
func (s *Session) Start() {
	s.sched.Start()
}

// Close stops the background worker. Pending results are discarded.
func (s *Session) Close() {
	s.sched.Stop()
}

// Results exposes scheduler results when no Post hook was configured.
func (s *Session) Results() <-chan scheduler.Result {
	return s.sched.Results()
}

// Highlight runs a synchronous pass over the live text and applies it.
// A nil visible range colors the whole document.
func (s *Session) Highlight(visible *textpos.Range) *highlight.AttributedText {
	out := s.engine.HighlightText(s.text, visible)
	s.applied = out
	return out
}

// RebuildLineIndex rebuilds the gutter cache from the live text on the
// calling goroutine.
func (s *Session) RebuildLineIndex() []int {
	return s.lines.Rebuild(s.text.String())
}

func (s *Session) FindLine(offset int) int {
	return s.lines.FindLine(offset)
}

// MatchBrackets returns the bracket pair adjacent to the cursor, if any.
func (s *Session) MatchBrackets() []brackets.Match {
	return s.brackets.MatchFor(s.cursor, s.text.Units(), s.pairs)
}

func (s *Session) BumpVersion() uint64 {
	return s.counter.Bump()
}

func (s *Session) CurrentVersion() uint64 {
	return s.counter.Current()
}

// Apply installs a background result if it is still current for the live
// text. It reports whether anything changed.
func (s *Session) Apply(res scheduler.Result) bool {
	if !s.sched.Accept(res, s.text.Len()) {
		return false
	}
	switch res.Kind {
	case scheduler.KindHighlight:
		s.applied = res.Attributed
	case scheduler.KindLineIndex:
		s.lines.Store(res.Offsets)
	default:
		return false
	}
	return true
}

// SetText replaces the whole document. Selection and scroll survive the swap
// when they still fit the new text.
func (s *Session) SetText(text string) {
	s.sched.CancelPending()
	s.brackets.Reset()

	sel := s.Selection()
	cursor, anchor, scroll := s.cursor, s.anchor, s.scroll

	s.text = textpos.NewText(text)
	s.layout = lineindex.Build(text)
	s.applied = nil
	s.stale = false

	n := s.text.Len()
	if sel.End <= n {
		s.cursor = s.snap(cursor)
		s.anchor = s.snap(anchor)
	} else {
		s.cursor = s.snap(min(cursor, n))
		s.anchor = s.cursor
	}
	s.scroll = min(scroll, len(s.layout)-1)
	s.BumpVersion()
	s.RebuildLineIndex()

	if n <= s.syncLimit {
		visible := s.VisibleRange()
		s.Highlight(&visible)
		return
	}
	s.sched.Force(s.request())
}

// Text returns the live document.
func (s *Session) Text() string {
	return s.text.String()
}

// Len is the document length in UTF-16 units.
func (s *Session) Len() int {
	return s.text.Len()
}

// Attributed returns the last applied highlight result, or nil.
func (s *Session) Attributed() *highlight.AttributedText {
	return s.applied
}

// Lines exposes the gutter cache.
func (s *Session) Lines() *lineindex.Cache {
	return s.lines
}

func (s *Session) SetTheme(t config.Theme) {
	s.cfg.Theme = t
	s.palette = theme.FromConfig(t)
	s.rebuildEngine()
	s.forceHighlight()
}

// SetLanguage switches the pattern set. A nil language disables coloring.
// The definition may differ from one compiled earlier under the same name, so
// the cached set is recompiled.
func (s *Session) SetLanguage(lang *config.Language) {
	s.lang = lang
	if lang != nil {
		s.registry.Invalidate(lang.Name)
	}
	s.rebuildEngine()
	s.forceHighlight()
}

func (s *Session) SetFont(f config.Font) {
	s.font = f
	s.rebuildEngine()
	s.forceHighlight()
}

func (s *Session) Language() *config.Language {
	return s.lang
}

func (s *Session) Palette() theme.Palette {
	return s.palette
}

// SetPath records the file the buffer belongs to and picks its language
// unless one was forced in the configuration.
func (s *Session) SetPath(path string) {
	s.path = path
	if s.cfg.Editor.Language != "" {
		return
	}
	if lang := s.langs.Match(path); lang != nil {
		s.lang = lang
		s.rebuildEngine()
	}
}

func (s *Session) Path() string {
	return s.path
}

// SetBranch sets the version control branch shown in the status line.
func (s *Session) SetBranch(branch string) {
	s.branch = branch
}

func (s *Session) Dirty() bool {
	return s.dirty
}

func (s *Session) MarkClean() {
	s.dirty = false
}

// SetViewSize records the text area size in cells. A changed height changes
// the visible range, so it requests a highlight.
func (s *Session) SetViewSize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.requestHighlight()
}

// VisibleRange is the character range of the rows on screen plus the
// configured buffer of lines on either side. Before the view size is known it
// covers the whole document.
func (s *Session) VisibleRange() textpos.Range {
	n := s.text.Len()
	if s.height <= 0 {
		return textpos.Range{End: n}
	}
	first := max(0, s.scroll-s.bufferLines)
	last := min(len(s.layout)-1, s.scroll+s.height-1+s.bufferLines)
	if first > last {
		return textpos.Range{Start: n, End: n}
	}
	end := n
	if last+1 < len(s.layout) {
		end = s.layout[last+1]
	}
	return textpos.Range{Start: s.layout[first], End: end}
}

// Flush retries a throttled notification, or one whose result the host could
// not deliver. The host calls it on idle ticks so the last edit of a burst is
// still colored.
func (s *Session) Flush() bool {
	if s.sched.TakeUndelivered() {
		s.stale = true
	}
	if !s.stale {
		return false
	}
	if _, ok := s.sched.Notify(s.request()); ok {
		s.stale = false
		return true
	}
	return false
}

func (s *Session) request() scheduler.Request {
	visible := s.VisibleRange()
	return scheduler.Request{
		Text:    s.text.String(),
		Visible: &visible,
		Engine:  s.engine,
	}
}

func (s *Session) requestHighlight() {
	s.stale = true
	s.Flush()
}

func (s *Session) forceHighlight() {
	s.stale = false
	s.sched.Force(s.request())
}

func (s *Session) rebuildEngine() {
	var ps *highlight.PatternSet
	if s.lang != nil {
		ps = s.registry.Get(*s.lang)
	}
	s.engine = highlight.New(ps, s.palette, s.font, highlight.Options{
		MaxChars: s.cfg.Editor.MaxHighlightChars,
	})
}
