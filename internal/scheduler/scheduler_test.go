package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kobzarvs/codepad/internal/config"
	"github.com/kobzarvs/codepad/internal/highlight"
	"github.com/kobzarvs/codepad/internal/lineindex"
	"github.com/kobzarvs/codepad/internal/textpos"
	"github.com/kobzarvs/codepad/internal/theme"
	"github.com/kobzarvs/codepad/internal/version"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testEngine(t *testing.T) *highlight.Engine {
	t.Helper()
	cfg := config.Default()
	lang := config.BuiltinLanguages().Lookup("go")
	if lang == nil {
		t.Fatalf("go language missing")
	}
	return highlight.New(highlight.Compile(*lang), theme.FromConfig(cfg.Theme), cfg.Font, highlight.Options{})
}

func waitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for result")
	}
	return Result{}
}

func TestNotifyThrottle(t *testing.T) {
	clock := &fakeClock{now: time.Unix(100, 0)}
	var counter version.Counter
	s := New(&counter, lineindex.NewCache(), Options{Throttle: 16 * time.Millisecond, Clock: clock.Now})

	v, ok := s.Notify(Request{Text: "a"})
	if !ok || v != 1 {
		t.Fatalf("first Notify = %d %v, want 1 true", v, ok)
	}
	clock.Advance(5 * time.Millisecond)
	v, ok = s.Notify(Request{Text: "ab"})
	if ok || v != 1 || counter.Current() != 1 {
		t.Fatalf("throttled Notify = %d %v (counter %d), want 1 false", v, ok, counter.Current())
	}
	clock.Advance(20 * time.Millisecond)
	v, ok = s.Notify(Request{Text: "abc"})
	if !ok || v != 2 {
		t.Fatalf("Notify after interval = %d %v, want 2 true", v, ok)
	}
	if got := s.Force(Request{Text: "abcd"}); got != 3 {
		t.Fatalf("Force = %d, want 3", got)
	}
}

func TestResultsDelivered(t *testing.T) {
	var counter version.Counter
	lines := lineindex.NewCache()
	s := New(&counter, lines, Options{})
	s.Start()
	defer s.Stop()

	text := "func main() {\n\treturn 1\n}"
	v := s.Force(Request{Text: text, Engine: testEngine(t)})

	got := map[Kind]Result{}
	for len(got) < 2 {
		res := waitResult(t, s.Results())
		got[res.Kind] = res
	}
	length := textpos.UnitLen(text)
	for kind, res := range got {
		if res.Version != v {
			t.Fatalf("%v version = %d, want %d", kind, res.Version, v)
		}
		if !s.Accept(res, length) {
			t.Fatalf("%v result rejected", kind)
		}
	}
	if got[KindHighlight].Attributed == nil || len(got[KindHighlight].Attributed.Spans) == 0 {
		t.Fatalf("highlight result has no spans")
	}
	if lines.LineCount() != 3 {
		t.Fatalf("line cache count = %d, want 3", lines.LineCount())
	}
	if off := got[KindLineIndex].Offsets; len(off) != 3 || off[1] != 14 {
		t.Fatalf("offsets = %v", off)
	}
}

func TestStaleResultDiscarded(t *testing.T) {
	var counter version.Counter
	lines := lineindex.NewCache()
	var once sync.Once
	s := New(&counter, lines, Options{
		OnJobStart: func(kind Kind, v uint64) {
			// An edit lands while the first job is running.
			once.Do(func() { counter.Bump() })
		},
	})
	s.Start()
	defer s.Stop()

	text := "a\nb"
	s.Force(Request{Text: text, Engine: testEngine(t)})
	for i := 0; i < 2; i++ {
		res := waitResult(t, s.Results())
		if s.Accept(res, textpos.UnitLen(text)) {
			t.Fatalf("%v result for version %d accepted at version %d", res.Kind, res.Version, counter.Current())
		}
	}
	if lines.LineCount() != 1 {
		t.Fatalf("stale line index stored: count = %d", lines.LineCount())
	}
}

func TestPendingJobsCancelled(t *testing.T) {
	var counter version.Counter
	s := New(&counter, lineindex.NewCache(), Options{})
	engine := testEngine(t)

	s.Force(Request{Text: "old", Engine: engine})
	if s.pending() != 2 {
		t.Fatalf("Pending = %d, want 2", s.pending())
	}
	v := s.Force(Request{Text: "new text", Engine: engine})
	if s.pending() != 2 {
		t.Fatalf("Pending after second dispatch = %d, want 2", s.pending())
	}

	s.Start()
	defer s.Stop()
	for i := 0; i < 2; i++ {
		res := waitResult(t, s.Results())
		if res.Version != v {
			t.Fatalf("result for cancelled version %d delivered", res.Version)
		}
	}
	select {
	case res := <-s.Results():
		t.Fatalf("unexpected extra result: %v v%d", res.Kind, res.Version)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCancelPending(t *testing.T) {
	var counter version.Counter
	s := New(&counter, lineindex.NewCache(), Options{})
	s.Force(Request{Text: "x"})
	if s.pending() != 1 {
		t.Fatalf("Pending = %d, want 1 without an engine", s.pending())
	}
	s.CancelPending()
	if s.pending() != 0 {
		t.Fatalf("Pending after cancel = %d", s.pending())
	}
	s.Stop()
	s.Stop()
}

func TestAcceptLengthMismatch(t *testing.T) {
	var counter version.Counter
	s := New(&counter, lineindex.NewCache(), Options{})
	v := counter.Bump()
	res := Result{Kind: KindHighlight, Version: v, Length: 10}
	if s.Accept(res, 11) {
		t.Fatalf("result accepted with mismatched length")
	}
	if !s.Accept(res, 10) {
		t.Fatalf("matching result rejected")
	}
}

func TestPostOption(t *testing.T) {
	var counter version.Counter
	posted := make(chan Result, 4)
	s := New(&counter, lineindex.NewCache(), Options{Post: func(r Result) error {
		posted <- r
		return nil
	}})
	s.Start()
	defer s.Stop()

	s.Force(Request{Text: "a\nb"})
	res := waitResult(t, posted)
	if res.Kind != KindLineIndex || len(res.Offsets) != 2 {
		t.Fatalf("posted result = %+v", res)
	}
}

func TestPostFailureMarksUndelivered(t *testing.T) {
	var counter version.Counter
	posted := make(chan Result, 4)
	s := New(&counter, lineindex.NewCache(), Options{Post: func(r Result) error {
		defer func() { posted <- r }()
		return errors.New("queue full")
	}})
	s.Start()
	defer s.Stop()

	s.Force(Request{Text: "a"})
	waitResult(t, posted)
	// The mark is stored after Post returns.
	deadline := time.Now().Add(2 * time.Second)
	for !s.TakeUndelivered() {
		if time.Now().After(deadline) {
			t.Fatalf("failed post not marked undelivered")
		}
		time.Sleep(time.Millisecond)
	}
	if s.TakeUndelivered() {
		t.Fatalf("mark not cleared by TakeUndelivered")
	}
}

func TestPostFailureForStaleResultIgnored(t *testing.T) {
	var counter version.Counter
	posted := make(chan Result, 4)
	s := New(&counter, lineindex.NewCache(), Options{Post: func(r Result) error {
		counter.Bump()
		defer func() { posted <- r }()
		return errors.New("queue full")
	}})
	s.Start()
	defer s.Stop()

	s.Force(Request{Text: "a"})
	waitResult(t, posted)
	time.Sleep(20 * time.Millisecond)
	if s.TakeUndelivered() {
		t.Fatalf("superseded result marked undelivered")
	}
}
