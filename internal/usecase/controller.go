package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"AdvocateDirectory/internal/debounce"
	"AdvocateDirectory/internal/domain"
	"AdvocateDirectory/internal/ports"
	"AdvocateDirectory/internal/search"
)

var (
	// ErrAlreadyStarted is returned when Start is called more than once.
	ErrAlreadyStarted = errors.New("controller already started")
	// ErrDisposed is returned when Start is called after Dispose.
	ErrDisposed = errors.New("controller disposed")
)

// Status tracks the one-time fetch.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ControllerDeps wires the driven adapters into the controller.
type ControllerDeps struct {
	Source ports.AdvocateSource
	Delay  time.Duration
	Logger *zap.Logger
}

// Controller owns the advocate list for one consumer: it fetches the full
// set once, debounces search input and exposes the filtered view. All state
// is guarded by mu; nothing is mutated after Dispose.
type Controller struct {
	source    ports.AdvocateSource
	logger    *zap.Logger
	debouncer *debounce.Debouncer
	engine    *search.Engine

	mu        sync.Mutex
	started   bool
	disposed  bool
	cancel    context.CancelFunc
	status    Status
	fetchErr  error
	full      *search.Set
	raw       string
	debounced string
	visible   []domain.Advocate
	updates   chan struct{}

	wg sync.WaitGroup
}

// NewController builds a controller; call Start to fetch and Dispose to tear down.
func NewController(deps ControllerDeps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Controller{
		source:    deps.Source,
		logger:    logger,
		debouncer: debounce.New(deps.Delay),
		engine:    search.NewEngine(logger),
		full:      search.NewSet(nil),
		updates:   make(chan struct{}, 1),
	}
	c.refreshLocked()
	return c
}

// Start issues the single listing request in the background.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return ErrDisposed
	}
	if c.started {
		return ErrAlreadyStarted
	}
	c.started = true

	if c.source == nil {
		c.status = StatusFailed
		c.fetchErr = errors.New("no advocate source configured")
		c.logger.Error("failed to fetch advocates", zap.Error(c.fetchErr))
		c.notifyLocked()
		return nil
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.status = StatusLoading
	c.notifyLocked()

	c.wg.Add(1)
	go c.fetch(fetchCtx)
	return nil
}

func (c *Controller) fetch(ctx context.Context) {
	defer c.wg.Done()

	c.logger.Info("fetching advocates")
	records, err := c.source.FetchAdvocates(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		c.logger.Debug("discarding advocates response after teardown")
		return
	}

	// The caller's context ended while the controller is still live.
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = fmt.Errorf("fetch advocates: %w", ctxErr)
	}

	if err != nil {
		c.status = StatusFailed
		c.fetchErr = err
		c.logger.Error("failed to fetch advocates", zap.Error(err))
		c.notifyLocked()
		return
	}

	c.full = search.NewSet(records)
	c.status = StatusReady
	c.fetchErr = nil
	c.logger.Info("advocates loaded", zap.Int("count", c.full.Len()))
	c.refreshLocked()
	c.notifyLocked()
}

// Dispose cancels the in-flight fetch and any pending debounce, closes the
// update channel and waits for the fetch goroutine. It is idempotent.
func (c *Controller) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	if c.cancel != nil {
		c.cancel()
	}
	c.debouncer.Cancel()
	close(c.updates)
	c.mu.Unlock()

	c.wg.Wait()
}

// SearchTextChanged records the raw input at once and schedules the
// debounced propagation to the filter.
func (c *Controller) SearchTextChanged(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}

	c.raw = text
	c.notifyLocked()

	c.debouncer.Debounce(func() {
		c.applyDebounced(text)
	})
}

func (c *Controller) applyDebounced(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A newer keystroke owns the pending update.
	if c.disposed || c.raw != text {
		return
	}
	if c.debounced == text {
		return
	}

	c.debounced = text
	c.refreshLocked()
	c.notifyLocked()
}

// ResetRequested clears the search and shows the full set immediately,
// dropping any pending debounced update.
func (c *Controller) ResetRequested() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}

	c.debouncer.Cancel()
	c.raw = ""
	c.debounced = ""
	c.refreshLocked()
	c.notifyLocked()
}

// CurrentSearchText is what the user is typing right now.
func (c *Controller) CurrentSearchText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.raw
}

// DebouncedSearchText is the text currently driving the filter.
func (c *Controller) DebouncedSearchText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.debounced
}

// VisibleRecords returns a copy of the filtered view in original order.
func (c *Controller) VisibleRecords() []domain.Advocate {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.Advocate, len(c.visible))
	copy(out, c.visible)
	return out
}

// TotalRecords is the size of the full record set.
func (c *Controller) TotalRecords() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.full.Len()
}

// Status reports the fetch state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Err returns the fetch failure, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchErr
}

// Updates signals state changes. Signals coalesce; the channel is closed by
// Dispose.
func (c *Controller) Updates() <-chan struct{} {
	return c.updates
}

// FilterComputations exposes how many real filter passes ran.
func (c *Controller) FilterComputations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Computations()
}

func (c *Controller) refreshLocked() {
	c.visible = c.engine.Filter(c.full, c.debounced)
}

func (c *Controller) notifyLocked() {
	if c.disposed {
		return
	}
	select {
	case c.updates <- struct{}{}:
	default:
	}
}
