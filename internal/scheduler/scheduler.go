// Package scheduler moves highlighting and line indexing off the UI goroutine.
//
// Every accepted edit bumps the session version and queues one job of each
// kind tagged with that version. A single worker runs jobs in order and posts
// their results back; the UI applies a result only if its version is still
// the current one and the text length still matches.
package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kobzarvs/codepad/internal/config"
	"github.com/kobzarvs/codepad/internal/highlight"
	"github.com/kobzarvs/codepad/internal/lineindex"
	"github.com/kobzarvs/codepad/internal/logger"
	"github.com/kobzarvs/codepad/internal/textpos"
	"github.com/kobzarvs/codepad/internal/version"
)

type Kind int

const (
	KindHighlight Kind = iota + 1
	KindLineIndex
)

func (k Kind) String() string {
	switch k {
	case KindHighlight:
		return "highlight"
	case KindLineIndex:
		return "lineindex"
	default:
		return "unknown"
	}
}

// Request is a snapshot of everything a job needs. It is copied into the job
// so the worker never reads live editor state.
type Request struct {
	Text    string
	Visible *textpos.Range
	Engine  *highlight.Engine
}

type Result struct {
	Kind       Kind
	Version    uint64
	Length     int
	Attributed *highlight.AttributedText
	Offsets    []int
}

type job struct {
	kind      Kind
	version   uint64
	req       Request
	cancelled atomic.Bool
}

type Options struct {
	// Throttle drops notifications arriving sooner than this after the last
	// accepted one.
	Throttle time.Duration
	// Post delivers a result to the UI goroutine. When nil, results go to
	// the Results channel. An error marks the result undelivered.
	Post func(Result) error
	// Clock and OnJobStart are test hooks.
	Clock      func() time.Time
	OnJobStart func(kind Kind, version uint64)
}

type Scheduler struct {
	counter *version.Counter
	lines   *lineindex.Cache
	opts    Options
	log     *zap.SugaredLogger

	mu           sync.Mutex
	queue        []*job
	lastAccepted time.Time
	started      bool

	// undelivered is set when Post failed for a result that was still
	// current.
	undelivered atomic.Bool

	wake     chan struct{}
	results  chan Result
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func New(counter *version.Counter, lines *lineindex.Cache, opts Options) *Scheduler {
	if opts.Throttle <= 0 {
		opts.Throttle = config.DefaultThrottle
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Scheduler{
		counter: counter,
		lines:   lines,
		opts:    opts,
		log:     logger.Named("scheduler"),
		wake:    make(chan struct{}, 1),
		results: make(chan Result, 16),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.log.Debugw("worker started", "throttle", s.opts.Throttle)
	go s.loop()
}

// Stop cancels queued jobs and waits for the worker to exit.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.CancelPending()
		close(s.stopCh)
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.done
		}
		s.log.Debugw("worker stopped")
	})
}

// TakeUndelivered reports whether a current result was lost by Post since the
// last call, and clears the mark.
func (s *Scheduler) TakeUndelivered() bool {
	return s.undelivered.Swap(false)
}

// Results is the default delivery channel when Options.Post is nil.
func (s *Scheduler) Results() <-chan Result {
	return s.results
}

// Notify reports an edit. Notifications inside the throttle interval are
// dropped without bumping the version; the returned bool reports acceptance.
func (s *Scheduler) Notify(req Request) (uint64, bool) {
	now := s.opts.Clock()
	s.mu.Lock()
	if !s.lastAccepted.IsZero() && now.Sub(s.lastAccepted) < s.opts.Throttle {
		s.mu.Unlock()
		return s.counter.Current(), false
	}
	s.lastAccepted = now
	s.mu.Unlock()
	return s.dispatch(req), true
}

// Force dispatches req regardless of throttling.
func (s *Scheduler) Force(req Request) uint64 {
	return s.dispatch(req)
}

// CancelPending marks every queued job cancelled and empties the queue. A job
// already running finishes; its result is rejected by the version check.
func (s *Scheduler) CancelPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.queue {
		j.cancelled.Store(true)
	}
	s.queue = nil
}

// pending returns the number of queued jobs that have not started.
func (s *Scheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Accept reports whether res may be applied to a buffer of liveLength units.
func (s *Scheduler) Accept(res Result, liveLength int) bool {
	if cur := s.counter.Current(); res.Version != cur {
		s.log.Debugw("stale result discarded", "kind", res.Kind, "version", res.Version, "current", cur)
		return false
	}
	if res.Length != liveLength {
		s.log.Debugw("result length mismatch", "kind", res.Kind, "length", res.Length, "live", liveLength)
		return false
	}
	return true
}

func (s *Scheduler) dispatch(req Request) uint64 {
	v := s.counter.Bump()
	s.mu.Lock()
	for _, j := range s.queue {
		j.cancelled.Store(true)
	}
	s.queue = s.queue[:0]
	if req.Engine != nil {
		s.queue = append(s.queue, &job{kind: KindHighlight, version: v, req: req})
	}
	s.queue = append(s.queue, &job{kind: KindLineIndex, version: v, req: req})
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return v
}

func (s *Scheduler) next() *job {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.queue) > 0 {
		j := s.queue[0]
		s.queue = s.queue[1:]
		if !j.cancelled.Load() {
			return j
		}
	}
	return nil
}

func (s *Scheduler) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.stopCh:
			return
		case <-s.wake:
		}
		for j := s.next(); j != nil; j = s.next() {
			s.run(j)
			select {
			case <-s.stopCh:
				return
			default:
			}
		}
	}
}

func (s *Scheduler) run(j *job) {
	if j.cancelled.Load() {
		return
	}
	if s.opts.OnJobStart != nil {
		s.opts.OnJobStart(j.kind, j.version)
	}
	t := textpos.NewText(j.req.Text)
	res := Result{Kind: j.kind, Version: j.version, Length: t.Len()}
	switch j.kind {
	case KindHighlight:
		res.Attributed = j.req.Engine.HighlightText(t, j.req.Visible)
	case KindLineIndex:
		res.Offsets = lineindex.Build(j.req.Text)
		s.counter.RunIfCurrent(j.version, func() { s.lines.Store(res.Offsets) })
	}
	if j.cancelled.Load() {
		return
	}
	s.post(res)
}

func (s *Scheduler) post(res Result) {
	if s.opts.Post != nil {
		if err := s.opts.Post(res); err != nil && s.counter.IsCurrent(res.Version) {
			s.undelivered.Store(true)
			s.log.Debugw("result not delivered", "kind", res.Kind, "version", res.Version, "error", err)
		}
		return
	}
	select {
	case s.results <- res:
	case <-s.stopCh:
	}
}
