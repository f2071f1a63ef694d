package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"AdvocateDirectory/internal/domain"
)

const testDelay = 50 * time.Millisecond

type fakeSource struct {
	records []domain.Advocate
	err     error
	block   chan struct{}
	calls   atomic.Int32
}

func (f *fakeSource) FetchAdvocates(ctx context.Context) ([]domain.Advocate, error) {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func sampleRecords() []domain.Advocate {
	return []domain.Advocate{
		{ID: "1", FirstName: "John", LastName: "Doe", City: "New York", Degree: "MD",
			Specialties: []string{"Cardiology"}, YearsOfExperience: 5, PhoneNumber: "1234567890"},
		{ID: "2", FirstName: "Jane", LastName: "Smith", City: "Boston", Degree: "RN",
			Specialties: []string{"Pediatrics", "Oncology"}, YearsOfExperience: 12, PhoneNumber: "9876543210"},
		{ID: "3", FirstName: "Carlos", LastName: "Ruiz", City: "Austin", Degree: "PhD",
			Specialties: []string{"Trauma & PTSD"}, YearsOfExperience: 15, PhoneNumber: "5125550100"},
	}
}

func ids(records []domain.Advocate) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, string(r.ID))
	}
	return out
}

func startReady(t *testing.T, src *fakeSource) *Controller {
	t.Helper()
	c := NewController(ControllerDeps{Source: src, Delay: testDelay})
	t.Cleanup(c.Dispose)

	require.NoError(t, c.Start(context.Background()))
	require.Eventually(t, func() bool { return c.Status() == StatusReady }, time.Second, 5*time.Millisecond)
	return c
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestControllerInitialState(t *testing.T) {
	c := NewController(ControllerDeps{})
	defer c.Dispose()

	assert.Equal(t, StatusIdle, c.Status())
	assert.Empty(t, c.CurrentSearchText())
	assert.Empty(t, c.DebouncedSearchText())
	assert.Empty(t, c.VisibleRecords())
	assert.Zero(t, c.TotalRecords())
	assert.NoError(t, c.Err())
}

func TestControllerLoadsOnce(t *testing.T) {
	src := &fakeSource{records: sampleRecords()}
	c := startReady(t, src)

	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, 3, c.TotalRecords())
	assert.Equal(t, []string{"1", "2", "3"}, ids(c.VisibleRecords()))
	assert.ErrorIs(t, c.Start(context.Background()), ErrAlreadyStarted)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestControllerFetchFailure(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	boom := errors.New("connection refused")
	c := NewController(ControllerDeps{Source: &fakeSource{err: boom}, Delay: testDelay, Logger: zap.New(core)})
	defer c.Dispose()

	require.NoError(t, c.Start(context.Background()))
	require.Eventually(t, func() bool { return c.Status() == StatusFailed }, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, c.Err(), boom)
	assert.Empty(t, c.VisibleRecords())
	assert.Equal(t, 1, logs.FilterMessage("failed to fetch advocates").Len())

	// Typing still works against the empty set.
	c.SearchTextChanged("john")
	assert.Equal(t, "john", c.CurrentSearchText())
	require.Eventually(t, func() bool { return c.DebouncedSearchText() == "john" }, time.Second, 5*time.Millisecond)
	assert.Empty(t, c.VisibleRecords())
}

func TestControllerDisposeDropsLateResponse(t *testing.T) {
	src := &fakeSource{records: sampleRecords(), block: make(chan struct{})}
	c := NewController(ControllerDeps{Source: src, Delay: testDelay})

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, StatusLoading, c.Status())

	c.Dispose()
	close(src.block)

	assert.Equal(t, StatusLoading, c.Status())
	assert.Zero(t, c.TotalRecords())
	assert.ErrorIs(t, c.Start(context.Background()), ErrDisposed)

	_, open := <-c.Updates()
	assert.False(t, open, "updates channel should be closed")

	// Idempotent.
	c.Dispose()
}

func TestControllerDebouncesTyping(t *testing.T) {
	c := startReady(t, &fakeSource{records: sampleRecords()})

	for _, text := range []string{"b", "bo", "bos", "bost", "bosto", "boston"} {
		c.SearchTextChanged(text)
		time.Sleep(testDelay / 6)
	}

	assert.Equal(t, "boston", c.CurrentSearchText())
	assert.Empty(t, c.DebouncedSearchText(), "filter should not move while typing")
	assert.Len(t, c.VisibleRecords(), 3)

	require.Eventually(t, func() bool { return c.DebouncedSearchText() == "boston" }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"2"}, ids(c.VisibleRecords()))
	assert.Equal(t, 1, c.FilterComputations())
}

func TestControllerTypeThenRevert(t *testing.T) {
	c := startReady(t, &fakeSource{records: sampleRecords()})

	c.SearchTextChanged("x")
	c.SearchTextChanged("")

	time.Sleep(3 * testDelay)
	assert.Empty(t, c.DebouncedSearchText())
	assert.Len(t, c.VisibleRecords(), 3)
	assert.Zero(t, c.FilterComputations())
}

func TestControllerResetIsImmediate(t *testing.T) {
	c := startReady(t, &fakeSource{records: sampleRecords()})

	c.SearchTextChanged("md")
	require.Eventually(t, func() bool { return c.DebouncedSearchText() == "md" }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"1"}, ids(c.VisibleRecords()))

	c.SearchTextChanged("mdx")
	c.ResetRequested()

	assert.Empty(t, c.CurrentSearchText())
	assert.Empty(t, c.DebouncedSearchText())
	assert.Equal(t, []string{"1", "2", "3"}, ids(c.VisibleRecords()))

	// The pending "mdx" update must not land after the reset.
	time.Sleep(3 * testDelay)
	assert.Empty(t, c.DebouncedSearchText())
	assert.Len(t, c.VisibleRecords(), 3)
}

func TestControllerSearchBeforeLoad(t *testing.T) {
	src := &fakeSource{records: sampleRecords(), block: make(chan struct{})}
	c := NewController(ControllerDeps{Source: src, Delay: testDelay})
	defer c.Dispose()

	require.NoError(t, c.Start(context.Background()))
	c.SearchTextChanged("1")
	require.Eventually(t, func() bool { return c.DebouncedSearchText() == "1" }, time.Second, 5*time.Millisecond)
	assert.Empty(t, c.VisibleRecords())

	close(src.block)
	require.Eventually(t, func() bool { return c.Status() == StatusReady }, time.Second, 5*time.Millisecond)

	// Years are matched as substrings: 12 and 15 both contain "1".
	assert.Equal(t, []string{"2", "3"}, ids(c.VisibleRecords()))
}

func TestControllerVisibleRecordsIsACopy(t *testing.T) {
	c := startReady(t, &fakeSource{records: sampleRecords()})

	got := c.VisibleRecords()
	got[0].FirstName = "Mutated"

	assert.Equal(t, "John", c.VisibleRecords()[0].FirstName)
}

func TestControllerUpdatesSignal(t *testing.T) {
	c := startReady(t, &fakeSource{records: sampleRecords()})

	// Drain whatever the load produced.
	select {
	case <-c.Updates():
	default:
	}

	c.ResetRequested()
	select {
	case _, ok := <-c.Updates():
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected an update after reset")
	}
}

func TestControllerConcurrentInput(t *testing.T) {
	c := startReady(t, &fakeSource{records: sampleRecords()})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.SearchTextChanged("jo")
				_ = c.VisibleRecords()
				if j%7 == 0 {
					c.ResetRequested()
				}
			}
		}()
	}
	wg.Wait()

	c.SearchTextChanged("jo")
	require.Eventually(t, func() bool { return c.DebouncedSearchText() == "jo" }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"1"}, ids(c.VisibleRecords()))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "ready", StatusReady.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", Status(42).String())
}

func TestControllerDirectoryScenario(t *testing.T) {
	records := []domain.Advocate{
		{ID: "1", FirstName: "John", LastName: "Doe", City: "New York", Degree: "MD",
			Specialties: []string{"Cardiology"}, YearsOfExperience: 5, PhoneNumber: "1234567890"},
		{ID: "2", FirstName: "Jane", LastName: "Smith", City: "Boston", Degree: "RN",
			Specialties: []string{"Pediatrics"}, YearsOfExperience: 8, PhoneNumber: "9876543210"},
	}
	c := startReady(t, &fakeSource{records: records})

	c.SearchTextChanged("John")
	require.Eventually(t, func() bool { return c.DebouncedSearchText() == "John" }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"1"}, ids(c.VisibleRecords()))

	c.ResetRequested()
	assert.Equal(t, []string{"1", "2"}, ids(c.VisibleRecords()))

	c.SearchTextChanged("5")
	require.Eventually(t, func() bool { return c.DebouncedSearchText() == "5" }, time.Second, 5*time.Millisecond)
	visible := c.VisibleRecords()
	require.Len(t, visible, 1)
	assert.Equal(t, "(123) 456-7890", visible[0].PhoneNumber.Formatted())
}

func TestControllerParentContextCancelled(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	src := &fakeSource{records: sampleRecords(), block: make(chan struct{})}
	c := NewController(ControllerDeps{Source: src, Delay: testDelay, Logger: zap.New(core)})
	defer c.Dispose()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, c.Start(ctx))
	cancel()

	require.Eventually(t, func() bool { return c.Status() == StatusFailed }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, c.Err(), context.Canceled)
	assert.Zero(t, c.TotalRecords())
	assert.Equal(t, 1, logs.FilterMessage("failed to fetch advocates").Len())
}
