package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"PitchDeck/internal/domain/models"
	"PitchDeck/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingProc struct {
	mu      sync.Mutex
	fail    int // number of calls to fail before succeeding
	events  []*models.DeckEvent
	batches []int
}

func (p *recordingProc) Process(_ context.Context, e *models.DeckEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail > 0 {
		p.fail--
		return errors.New("backend down")
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingProc) ProcessBatch(_ context.Context, events []*models.DeckEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail > 0 {
		p.fail--
		return errors.New("backend down")
	}
	p.events = append(p.events, events...)
	p.batches = append(p.batches, len(events))
	return nil
}

func (p *recordingProc) batchSizes() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.batches...)
}

func (p *recordingProc) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type dropCounter struct {
	metrics.Nop
	mu       sync.Mutex
	drops    map[string]int
	buffered int
}

func (d *dropCounter) RecordEventDropped(reason string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.drops == nil {
		d.drops = map[string]int{}
	}
	d.drops[reason]++
}

func (d *dropCounter) RecordBufferDepth(depth int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buffered = depth
}

func (d *dropCounter) bufferDepth() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buffered
}

func (d *dropCounter) get(reason string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.drops[reason]
}

func event(session string, kind models.EventKind) *models.DeckEvent {
	return &models.DeckEvent{SessionID: session, Kind: kind, Timestamp: time.Now()}
}

func TestProcess_RejectsInvalidEvents(t *testing.T) {
	m := &dropCounter{}
	p := NewEventPipeline(&recordingProc{}, m)

	assert.ErrorIs(t, p.Process(context.Background(), nil), ErrInvalidEvent)
	assert.ErrorIs(t, p.Process(context.Background(), event("", models.EventSlideViewed)), ErrInvalidEvent)
	assert.ErrorIs(t, p.Process(context.Background(), event("s", "clicked")), ErrInvalidEvent)
	assert.Equal(t, 3, m.get("invalid"))
}

func TestProcess_ThrottlesSlideViewsPerSession(t *testing.T) {
	proc := &recordingProc{}
	m := &dropCounter{}
	p := NewEventPipeline(proc, m, WithMaxRPS(2))
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return clock }
	ctx := context.Background()

	require.NoError(t, p.Process(ctx, event("a", models.EventSlideViewed)))
	require.NoError(t, p.Process(ctx, event("a", models.EventSlideViewed)))
	require.NoError(t, p.Process(ctx, event("b", models.EventSlideViewed)))
	require.NoError(t, p.Process(ctx, event("a", models.EventTabSelected)))

	clock = clock.Add(600 * time.Millisecond)
	require.NoError(t, p.Process(ctx, event("a", models.EventSlideViewed)))

	assert.Equal(t, 4, proc.count())
	assert.Equal(t, 1, m.get("throttled"))
}

func TestProcess_BuffersOnFailureAndRetries(t *testing.T) {
	proc := &recordingProc{fail: 2}
	p := NewEventPipeline(proc, metrics.Nop{}, WithBackoff(time.Millisecond, 4*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := p.Process(ctx, event("a", models.EventSessionStarted))
	require.Error(t, err)
	assert.Equal(t, 1, p.Buffered())

	p.Start(ctx)
	defer p.Stop()

	assert.Eventually(t, func() bool { return proc.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestProcess_DropsWhenBufferFull(t *testing.T) {
	m := &dropCounter{}
	p := NewEventPipeline(&recordingProc{fail: 10}, m, WithBufferSize(1), WithMaxRPS(0))
	ctx := context.Background()

	require.Error(t, p.Process(ctx, event("a", models.EventSlideViewed)))
	require.Error(t, p.Process(ctx, event("a", models.EventSlideViewed)))
	assert.Equal(t, 1, p.Buffered())
	assert.Equal(t, 1, m.get("buffer_full"))
	assert.Equal(t, 1, m.bufferDepth())
}

func TestRecord_NeverBlocks(t *testing.T) {
	m := &dropCounter{}
	p := NewEventPipeline(&recordingProc{}, m, WithBufferSize(1))

	assert.True(t, p.Record(event("a", models.EventSessionStarted)))
	assert.False(t, p.Record(event("a", models.EventSessionStarted)))
	assert.False(t, p.Record(event("", models.EventSessionStarted)))
	assert.Equal(t, 1, m.get("intake_full"))
	assert.Equal(t, 1, m.get("invalid"))
}

func TestStartStop_DeliversRecordedEvents(t *testing.T) {
	proc := &recordingProc{}
	p := NewEventPipeline(proc, metrics.Nop{})
	p.Start(context.Background())
	p.Start(context.Background())

	for i := 0; i < 5; i++ {
		p.Record(event("s", models.EventTabSelected))
	}
	assert.Eventually(t, func() bool { return proc.count() == 5 }, time.Second, 5*time.Millisecond)

	p.Stop()
	p.Stop()
}

func TestDrain_SendsFullBatches(t *testing.T) {
	proc := &recordingProc{}
	p := NewEventPipeline(proc, metrics.Nop{}, WithBatch(3, time.Hour))
	p.Start(context.Background())

	for i := 0; i < 7; i++ {
		require.True(t, p.Record(event("s", models.EventTabSelected)))
	}
	assert.Eventually(t, func() bool { return proc.count() == 6 }, time.Second, 5*time.Millisecond)

	p.Stop()
	assert.Equal(t, 7, proc.count())
	assert.Equal(t, []int{3, 3, 1}, proc.batchSizes())
}

func TestDrain_FlushesOnTimeout(t *testing.T) {
	proc := &recordingProc{}
	p := NewEventPipeline(proc, metrics.Nop{}, WithBatch(100, 10*time.Millisecond))
	p.Start(context.Background())
	defer p.Stop()

	p.Record(event("s", models.EventSessionStarted))
	p.Record(event("s", models.EventTabSelected))
	assert.Eventually(t, func() bool { return proc.count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestDrain_FailedBatchGoesToRetryBuffer(t *testing.T) {
	proc := &recordingProc{fail: 1}
	m := &dropCounter{}
	p := NewEventPipeline(proc, m,
		WithBatch(2, time.Hour),
		WithBackoff(time.Millisecond, 2*time.Millisecond))
	p.Start(context.Background())
	defer p.Stop()

	p.Record(event("s", models.EventSessionStarted))
	p.Record(event("s", models.EventTabSelected))

	assert.Eventually(t, func() bool { return proc.count() == 2 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return p.Buffered() == 0 }, time.Second, 5*time.Millisecond)
}

func TestAllow_PrunesIdleSessions(t *testing.T) {
	p := NewEventPipeline(&recordingProc{}, metrics.Nop{}, WithMaxRPS(10))
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return clock }
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, p.Process(ctx, event(id, models.EventSlideViewed)))
	}
	assert.Equal(t, 3, p.tracked())

	clock = clock.Add(2 * time.Minute)
	require.NoError(t, p.Process(ctx, event("d", models.EventSlideViewed)))
	assert.Equal(t, 1, p.tracked())
}
