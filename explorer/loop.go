package explorer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/mangagraph/errors"
	"github.com/teranos/mangagraph/graph"
	"github.com/teranos/mangagraph/logger"
)

// ErrLoopStopped is returned by Do once the loop has stopped
var ErrLoopStopped = errors.New("explorer loop stopped")

// Listener receives loop output. Calls are made on the loop goroutine and
// must not block; implementations hand off to their own queues.
type Listener interface {
	OnView(view *graph.Graph)
	OnFrame(frame FrameUpdate)
}

type op struct {
	fn   func(*Explorer)
	done chan struct{}
}

// Loop owns an Explorer on a single goroutine. A ticker drives Frame at the
// configured rate; every other input is posted with Do and runs between
// frames, so a state change and its view publish precede the next frame.
type Loop struct {
	ex       *Explorer
	interval time.Duration
	ops      chan op
	logger   *zap.SugaredLogger

	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
	lastView  *graph.Graph

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLoop creates a loop for ex ticking every interval
func NewLoop(ctx context.Context, ex *Explorer, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = ex.Config().FrameInterval()
	}
	loopCtx, cancel := context.WithCancel(ctx)
	return &Loop{
		ex:        ex,
		interval:  interval,
		ops:       make(chan op, 64),
		logger:    logger.ComponentLogger("explorer.loop"),
		listeners: make(map[int]Listener),
		lastView:  ex.View(),
		ctx:       loopCtx,
		cancel:    cancel,
	}
}

// Start begins the loop goroutine
func (l *Loop) Start() {
	l.wg.Add(1)
	go l.run()
	l.logger.Infow("Explorer loop started", "interval", l.interval)
}

// Stop unmounts the loop and waits for the goroutine to exit
func (l *Loop) Stop() {
	l.cancel()
	l.wg.Wait()
	l.logger.Infow("Explorer loop stopped")
}

// Done is closed when the loop's context ends
func (l *Loop) Done() <-chan struct{} {
	return l.ctx.Done()
}

// Subscribe registers a listener and returns its unsubscribe func.
// The current view is delivered immediately.
func (l *Loop) Subscribe(listener Listener) func() {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.listeners[id] = listener
	view := l.lastView
	l.mu.Unlock()

	if view != nil {
		listener.OnView(view)
	}
	return func() {
		l.mu.Lock()
		delete(l.listeners, id)
		l.mu.Unlock()
	}
}

// LastView returns the most recently published view
func (l *Loop) LastView() *graph.Graph {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastView
}

// Do runs fn on the loop goroutine and waits for it to finish
func (l *Loop) Do(ctx context.Context, fn func(*Explorer)) error {
	o := op{fn: fn, done: make(chan struct{})}
	select {
	case l.ops <- o:
	case <-l.ctx.Done():
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-o.done:
		return nil
	case <-l.ctx.Done():
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) run() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.ctx.Done():
			return
		case o := <-l.ops:
			l.exec(o)
		case now := <-ticker.C:
			l.publishFrame(l.ex.Frame(now))
		}
	}
}

// exec runs one op and publishes a new view if it changed visibility
func (l *Loop) exec(o op) {
	defer close(o.done)
	defer func() {
		if r := recover(); r != nil {
			l.logger.Errorw("Recovered panic in explorer op", "panic", r)
		}
	}()

	before := l.ex.Generation()
	o.fn(l.ex)
	if l.ex.Generation() != before {
		l.publishView(l.ex.View())
	}
}

func (l *Loop) publishView(view *graph.Graph) {
	l.mu.Lock()
	l.lastView = view
	targets := l.snapshot()
	l.mu.Unlock()

	for _, t := range targets {
		t.OnView(view)
	}
}

func (l *Loop) publishFrame(frame FrameUpdate) {
	l.mu.Lock()
	targets := l.snapshot()
	l.mu.Unlock()

	for _, t := range targets {
		t.OnFrame(frame)
	}
}

// snapshot copies the listener set; callers hold mu
func (l *Loop) snapshot() []Listener {
	out := make([]Listener, 0, len(l.listeners))
	for _, t := range l.listeners {
		out = append(out, t)
	}
	return out
}
