// Package agent runs the per-visit visitor counter widget: it reads the
// current count on mount and increments it at most once per session, the
// first time the widget becomes visible.
package agent

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// Phase is the agent's position in its lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseDisplaying
	PhaseDisplayingFallback
	PhaseWatching
	PhaseIncrementing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseDisplaying:
		return "displaying"
	case PhaseDisplayingFallback:
		return "displaying-fallback"
	case PhaseWatching:
		return "watching"
	case PhaseIncrementing:
		return "incrementing"
	default:
		return "unknown"
	}
}

// Soft errors shown next to a degraded count.
const (
	ErrMsgReadFallback      = "Using local count due to server error"
	ErrMsgIncrementFallback = "Incremented local count due to server error"
)

// MaxRetries bounds the retries of a failed read or increment.
const MaxRetries = 3

// Counter is the remote visitor counter as seen by the widget.
type Counter interface {
	Read(ctx context.Context) (int64, error)
	Increment(ctx context.Context) (int64, error)
}

// View is a snapshot of what the widget displays.
type View struct {
	Phase       Phase
	Count       int64
	Err         string
	Incremented bool
}

// Display returns the number shown to visitors: the configured baseline plus
// the live count.
func (v View) Display(baseline int64) int64 {
	return baseline + v.Count
}

// Option configures an Agent.
type Option func(*Agent)

// WithBackoff replaces the delay before retry attempt n (1-based).
func WithBackoff(fn func(attempt int) time.Duration) Option {
	return func(a *Agent) { a.backoff = fn }
}

// WithObserver registers fn to receive a snapshot after every transition.
// fn runs on the agent's goroutine and must not block.
func WithObserver(fn func(View)) Option {
	return func(a *Agent) { a.observe = fn }
}

// LinearBackoff waits one second per attempt: 1s, 2s, 3s.
func LinearBackoff(attempt int) time.Duration {
	return time.Duration(attempt) * time.Second
}

// Agent is the client-side counter state machine. Run drives it; View may be
// called from any goroutine.
type Agent struct {
	counter Counter
	cache   Cache
	backoff func(int) time.Duration
	observe func(View)

	mu          sync.RWMutex
	phase       Phase
	count       int64
	softErr     string
	incremented bool
}

// New creates an idle agent.
func New(counter Counter, cache Cache, opts ...Option) *Agent {
	a := &Agent{
		counter: counter,
		cache:   cache,
		backoff: LinearBackoff,
	}
	for _, opt := range opts {
		opt(a)
	}
	if cache != nil {
		if v, ok := cache.Get(IncrementedKey); ok && v == "true" {
			a.incremented = true
		}
	}
	return a
}

// View returns the current snapshot.
func (a *Agent) View() View {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.viewLocked()
}

func (a *Agent) viewLocked() View {
	return View{
		Phase:       a.phase,
		Count:       a.count,
		Err:         a.softErr,
		Incremented: a.incremented,
	}
}

type opKind int

const (
	opRead opKind = iota
	opIncrement
)

type opResult struct {
	kind    opKind
	attempt int
	count   int64
	err     error
}

// Run mounts the widget and processes events until the session's work is
// done, visible is closed, or ctx is cancelled.
//
// The read is issued immediately. The first true received from visible is
// the one-shot increment trigger; the agent stops receiving from visible
// after it. The increment is only issued once the read has completed and
// only if this session has not incremented before.
func (a *Agent) Run(ctx context.Context, visible <-chan bool) error {
	results := make(chan opResult, 1)
	inflight := false

	var retryTimer *time.Timer
	var retryC <-chan time.Time
	var retryOp opResult
	defer func() {
		if retryTimer != nil {
			retryTimer.Stop()
		}
	}()

	start := func(kind opKind, attempt int) {
		inflight = true
		go a.call(ctx, kind, attempt, results)
	}

	a.transition(PhaseLoading, a.count, "")
	start(opRead, 0)

	loaded := false
	triggered := false

	for {
		if loaded && !inflight && retryC == nil {
			if a.isIncremented() {
				return nil
			}
			if visible == nil && !triggered {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			if inflight {
				<-results
			}
			return ctx.Err()

		case v, ok := <-visible:
			if !ok {
				visible = nil
				continue
			}
			if !v {
				continue
			}
			triggered = true
			visible = nil
			if loaded && !inflight && retryC == nil {
				a.beginIncrement()
				start(opIncrement, 0)
			}

		case <-retryC:
			retryC = nil
			start(retryOp.kind, retryOp.attempt)

		case r := <-results:
			inflight = false

			if r.err != nil && r.attempt < MaxRetries && ctx.Err() == nil {
				slog.Debug("visitor counter call failed, retrying",
					"attempt", r.attempt+1, "error", r.err)
				retryOp = opResult{kind: r.kind, attempt: r.attempt + 1}
				retryTimer = time.NewTimer(a.backoff(r.attempt + 1))
				retryC = retryTimer.C
				continue
			}
			if r.err != nil && ctx.Err() != nil {
				return ctx.Err()
			}

			switch r.kind {
			case opRead:
				a.finishRead(r)
				loaded = true
				if a.isIncremented() {
					continue
				}
				v := a.View()
				a.transition(PhaseWatching, v.Count, v.Err)
				if triggered {
					a.beginIncrement()
					start(opIncrement, 0)
				}
			case opIncrement:
				a.finishIncrement(r)
			}
		}
	}
}

func (a *Agent) call(ctx context.Context, kind opKind, attempt int, results chan<- opResult) {
	var n int64
	var err error
	if kind == opRead {
		n, err = a.counter.Read(ctx)
	} else {
		n, err = a.counter.Increment(ctx)
	}
	results <- opResult{kind: kind, attempt: attempt, count: n, err: err}
}

func (a *Agent) finishRead(r opResult) {
	if r.err == nil {
		a.store(CountKey, strconv.FormatInt(r.count, 10))
		a.transition(PhaseDisplaying, r.count, "")
		return
	}

	slog.Warn("failed to read visitor count", "error", r.err)
	a.transition(PhaseDisplayingFallback, a.cachedCount(), ErrMsgReadFallback)
}

// beginIncrement marks the session before the request is sent so a remount
// never issues a second increment.
func (a *Agent) beginIncrement() {
	a.mu.Lock()
	a.incremented = true
	a.mu.Unlock()
	a.store(IncrementedKey, "true")

	v := a.View()
	a.transition(PhaseIncrementing, v.Count, v.Err)
}

func (a *Agent) finishIncrement(r opResult) {
	if r.err == nil {
		a.store(CountKey, strconv.FormatInt(r.count, 10))
		a.transition(PhaseDisplaying, r.count, "")
		return
	}

	slog.Warn("failed to increment visitor count", "error", r.err)
	local := a.View().Count + 1
	a.store(CountKey, strconv.FormatInt(local, 10))
	a.transition(PhaseDisplaying, local, ErrMsgIncrementFallback)
}

func (a *Agent) transition(phase Phase, count int64, softErr string) {
	a.mu.Lock()
	a.phase = phase
	a.count = count
	a.softErr = softErr
	v := a.viewLocked()
	a.mu.Unlock()

	if a.observe != nil {
		a.observe(v)
	}
}

func (a *Agent) isIncremented() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.incremented
}

// cachedCount is the last count persisted by this session, or 0.
func (a *Agent) cachedCount() int64 {
	if a.cache == nil {
		return 0
	}
	v, ok := a.cache.Get(CountKey)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// store writes through to the session cache. Cache failures only cost the
// fallback value, so they are logged and ignored.
func (a *Agent) store(key, value string) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Set(key, value); err != nil {
		slog.Warn("failed to update visitor cache", "key", key, "error", err)
	}
}
