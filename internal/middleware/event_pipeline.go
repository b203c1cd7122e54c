package middleware

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"PitchDeck/internal/domain/models"
	domrepo "PitchDeck/internal/domain/repository"
	applogger "PitchDeck/pkg/logger"
)

var ErrInvalidEvent = errors.New("invalid deck event")

const pruneEvery = time.Minute

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, e *models.DeckEvent) error
	ProcessBatch(ctx context.Context, events []*models.DeckEvent) error
}

// EventPipeline sits between the deck service and the event backend.
// It validates and throttles per session, sends recorded events in batches,
// and buffers while downstream is unavailable. Record never blocks the caller.
type EventPipeline struct {
	proc     Proc
	metrics  domrepo.Metrics
	log      *applogger.Logger
	maxRPS   int
	bufSize  int
	intake   chan *models.DeckEvent
	bufCh    chan *models.DeckEvent
	stopCh   chan struct{}
	done     sync.WaitGroup
	started  bool
	mu       sync.Mutex
	lastSeen map[string]time.Time // per-session last accepted time
	pruned   time.Time

	batchSize    int
	batchTimeout time.Duration
	minBackoff   time.Duration
	maxBackoff   time.Duration
	now          func() time.Time
}

type PipelineOption func(*EventPipeline)

// WithMaxRPS sets the max events per second per session. Zero disables throttling.
func WithMaxRPS(n int) PipelineOption {
	return func(p *EventPipeline) {
		if n >= 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the intake and retry buffer sizes.
func WithBufferSize(n int) PipelineOption {
	return func(p *EventPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithBatch flushes recorded events once size are pending or timeout has passed.
func WithBatch(size int, timeout time.Duration) PipelineOption {
	return func(p *EventPipeline) {
		if size > 0 {
			p.batchSize = size
		}
		if timeout > 0 {
			p.batchTimeout = timeout
		}
	}
}

// WithBackoff sets the retry delay bounds.
func WithBackoff(min, max time.Duration) PipelineOption {
	return func(p *EventPipeline) {
		if min > 0 && max >= min {
			p.minBackoff = min
			p.maxBackoff = max
		}
	}
}

func WithPipelineLogger(l *applogger.Logger) PipelineOption {
	return func(p *EventPipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// NewEventPipeline creates a new pipeline.
func NewEventPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *EventPipeline {
	p := &EventPipeline{
		proc:         proc,
		metrics:      metrics,
		log:          applogger.Nop(),
		maxRPS:       20,
		bufSize:      1000,
		stopCh:       make(chan struct{}),
		lastSeen:     make(map[string]time.Time),
		batchSize:    100,
		batchTimeout: time.Second,
		minBackoff:   50 * time.Millisecond,
		maxBackoff:   2 * time.Second,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.intake = make(chan *models.DeckEvent, p.bufSize)
	p.bufCh = make(chan *models.DeckEvent, p.bufSize)
	return p
}

// Start launches the intake and retry loops.
func (p *EventPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	p.done.Add(2)
	go p.drainIntake(ctx)
	go p.retryLoop(ctx)
}

// Stop stops both loops and waits for them. The pending batch is flushed;
// events still in the retry buffer are dropped.
func (p *EventPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
	p.done.Wait()
}

// Record queues an event for asynchronous processing. It reports false when
// the event was rejected or dropped.
func (p *EventPipeline) Record(e *models.DeckEvent) bool {
	if err := validateEvent(e); err != nil {
		p.metrics.RecordEventDropped("invalid")
		return false
	}
	cp := *e
	select {
	case p.intake <- &cp:
		return true
	default:
		p.metrics.RecordEventDropped("intake_full")
		return false
	}
}

func (p *EventPipeline) drainIntake(ctx context.Context) {
	defer p.done.Done()
	batch := make([]*models.DeckEvent, 0, p.batchSize)
	ticker := time.NewTicker(p.batchTimeout)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		p.flush(ctx, batch)
		batch = make([]*models.DeckEvent, 0, p.batchSize)
	}

	for {
		select {
		case <-p.stopCh:
			for {
				select {
				case e := <-p.intake:
					if p.admit(e, p.now()) == nil {
						batch = append(batch, e)
					}
				default:
					flush()
					return
				}
			}
		case <-ctx.Done():
			return
		case <-ticker.C:
			flush()
		case e := <-p.intake:
			if p.admit(e, p.now()) != nil {
				continue
			}
			batch = append(batch, e)
			if len(batch) >= p.batchSize {
				flush()
			}
		}
	}
}

// flush sends a batch downstream; on failure every event moves to the retry buffer.
func (p *EventPipeline) flush(ctx context.Context, batch []*models.DeckEvent) {
	start := p.now()
	if err := p.proc.ProcessBatch(ctx, batch); err != nil {
		p.metrics.RecordError("pipeline_batch")
		p.log.Warn("event batch failed",
			applogger.Int("events", len(batch)),
			applogger.Error(err),
		)
		for _, e := range batch {
			p.buffer(e)
		}
		return
	}
	p.metrics.RecordLatency("pipeline_batch", p.now().Sub(start).Seconds())
}

func (p *EventPipeline) buffer(e *models.DeckEvent) {
	select {
	case p.bufCh <- e:
		p.metrics.RecordBufferDepth(len(p.bufCh))
	default:
		p.metrics.RecordEventDropped("buffer_full")
	}
}

func (p *EventPipeline) retryLoop(ctx context.Context) {
	defer p.done.Done()
	backoff := p.minBackoff
	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case e := <-p.bufCh:
			if e == nil {
				continue
			}
			if err := p.proc.Process(ctx, e); err != nil {
				if backoff < p.maxBackoff {
					backoff *= 2
					if backoff > p.maxBackoff {
						backoff = p.maxBackoff
					}
				}
				p.metrics.RecordError("pipeline_flush")
				p.log.Warn("event retry failed",
					applogger.String("session", e.SessionID),
					applogger.Duration("backoff_ms", backoff),
					applogger.Error(err),
				)
				select {
				case <-time.After(backoff):
				case <-p.stopCh:
					return
				case <-ctx.Done():
					return
				}
				select {
				case p.bufCh <- e:
				default:
					p.metrics.RecordEventDropped("buffer_full")
				}
			} else {
				backoff = p.minBackoff
				p.metrics.RecordBufferDepth(len(p.bufCh))
			}
		}
	}
}

// Process validates, throttles, and forwards an event, buffering it on downstream errors.
func (p *EventPipeline) Process(ctx context.Context, e *models.DeckEvent) error {
	start := p.now()
	if err := p.admit(e, start); err != nil {
		if errors.Is(err, errThrottled) {
			return nil
		}
		return err
	}

	if err := p.proc.Process(ctx, e); err != nil {
		p.metrics.RecordError("pipeline_process")
		p.buffer(e)
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

var errThrottled = errors.New("throttled")

// admit rejects invalid events and throttled slide views, counting the drop.
func (p *EventPipeline) admit(e *models.DeckEvent, now time.Time) error {
	if err := validateEvent(e); err != nil {
		p.metrics.RecordEventDropped("invalid")
		return err
	}
	if !p.allow(e, now) {
		p.metrics.RecordEventDropped("throttled")
		return errThrottled
	}
	return nil
}

// Buffered returns the number of events waiting for retry.
func (p *EventPipeline) Buffered() int { return len(p.bufCh) }

func validateEvent(e *models.DeckEvent) error {
	if e == nil {
		return fmt.Errorf("%w: nil", ErrInvalidEvent)
	}
	if e.SessionID == "" {
		return fmt.Errorf("%w: session empty", ErrInvalidEvent)
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: kind %q", ErrInvalidEvent, e.Kind)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: timestamp missing", ErrInvalidEvent)
	}
	if e.SlideIndex < 0 {
		return fmt.Errorf("%w: negative slide index", ErrInvalidEvent)
	}
	return nil
}

// allow throttles slide_viewed bursts per session; lifecycle events always pass.
func (p *EventPipeline) allow(e *models.DeckEvent, now time.Time) bool {
	if p.maxRPS <= 0 || e.Kind != models.EventSlideViewed {
		return true
	}
	window := time.Second / time.Duration(p.maxRPS)

	p.mu.Lock()
	defer p.mu.Unlock()
	if now.Sub(p.pruned) >= pruneEvery {
		for id, seen := range p.lastSeen {
			if now.Sub(seen) >= window {
				delete(p.lastSeen, id)
			}
		}
		p.pruned = now
	}
	last, ok := p.lastSeen[e.SessionID]
	if ok && now.Sub(last) < window {
		return false
	}
	p.lastSeen[e.SessionID] = now
	return true
}

// tracked reports how many sessions hold throttle state.
func (p *EventPipeline) tracked() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.lastSeen)
}

// Forget drops per-session throttle state.
func (p *EventPipeline) Forget(sessionID string) {
	p.mu.Lock()
	delete(p.lastSeen, sessionID)
	p.mu.Unlock()
}
