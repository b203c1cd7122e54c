package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"PitchDeck/internal/domain/models"
	drepo "PitchDeck/internal/domain/repository"
	domsvc "PitchDeck/internal/domain/service"
	"PitchDeck/internal/services/roadmap"
	"PitchDeck/pkg/logger"
)

// Worker protocol actions.
const (
	ActionPrepareData = "prepareData"
	ActionDataReady   = "dataReady"
	ActionError       = "error"
)

var (
	ErrQueueFull     = errors.New("roadmap worker queue is full")
	ErrWorkerStopped = errors.New("roadmap worker is not running")
)

// WorkerMessage is both the request and the reply envelope. ID and Session
// are optional; ID is echoed back so websocket clients can match replies.
type WorkerMessage struct {
	Action    string                   `json:"action"`
	ID        string                   `json:"id,omitempty"`
	Session   string                   `json:"session,omitempty"`
	Phases    []models.Phase           `json:"phases,omitempty"`
	Years     []int                    `json:"years,omitempty"`
	Colors    []string                 `json:"colors,omitempty"`
	ChartData *models.RoadmapChartData `json:"chartData,omitempty"`
	Error     string                   `json:"error,omitempty"`

	// cause keeps the typed error for in-process callers; it never crosses a transport.
	cause error
}

type PrepareFunc func(models.RoadmapRequest) (*models.RoadmapChartData, error)

type WorkerOption func(*RoadmapWorker)

func WithWorkers(n int) WorkerOption {
	return func(w *RoadmapWorker) {
		if n > 0 {
			w.workers = n
		}
	}
}

func WithQueueSize(n int) WorkerOption {
	return func(w *RoadmapWorker) {
		if n > 0 {
			w.queueSize = n
		}
	}
}

// WithPrepareFunc replaces the reshaper, mostly for tests.
func WithPrepareFunc(fn PrepareFunc) WorkerOption {
	return func(w *RoadmapWorker) {
		if fn != nil {
			w.prepare = fn
		}
	}
}

// WithEventSink records roadmap_prepared for requests that carry a session.
func WithEventSink(s domsvc.EventSink) WorkerOption {
	return func(w *RoadmapWorker) { w.events = s }
}

type workerJob struct {
	ctx   context.Context
	msg   WorkerMessage
	reply chan WorkerMessage
}

// RoadmapWorker runs the roadmap reshaper on a fixed pool of goroutines
// behind a bounded queue. Every accepted request gets exactly one reply.
type RoadmapWorker struct {
	log       *logger.Logger
	metrics   drepo.Metrics
	events    domsvc.EventSink
	prepare   PrepareFunc
	workers   int
	queueSize int

	jobs    chan workerJob
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.RWMutex
	running bool
}

func NewRoadmapWorker(l *logger.Logger, metrics drepo.Metrics, opts ...WorkerOption) *RoadmapWorker {
	w := &RoadmapWorker{
		log:       l,
		metrics:   metrics,
		prepare:   roadmap.PrepareData,
		workers:   2,
		queueSize: 64,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = logger.Nop()
	}
	return w
}

// Start launches the worker goroutines. Calling Start on a running worker is a no-op.
func (w *RoadmapWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	w.jobs = make(chan workerJob, w.queueSize)
	w.stopCh = make(chan struct{})
	w.running = true

	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.loop(ctx, i)
	}
	w.log.Info("roadmap worker started",
		logger.Int("workers", w.workers),
		logger.Int("queue_size", w.queueSize))
	return nil
}

// Stop waits for in-flight jobs, then answers anything still queued with an error.
func (w *RoadmapWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()

	for {
		select {
		case j := <-w.jobs:
			j.reply <- errorMessage(j.msg, ErrWorkerStopped)
			w.metrics.RecordWorkerJob(j.msg.Action, "cancelled")
		default:
			w.metrics.RecordQueueDepth(0)
			w.log.Info("roadmap worker stopped")
			return
		}
	}
}

// Submit queues a request without blocking. The returned channel receives
// exactly one reply.
func (w *RoadmapWorker) Submit(ctx context.Context, msg WorkerMessage) (<-chan WorkerMessage, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.running {
		return nil, ErrWorkerStopped
	}

	j := workerJob{ctx: ctx, msg: copyMessage(msg), reply: make(chan WorkerMessage, 1)}
	select {
	case w.jobs <- j:
		w.metrics.RecordQueueDepth(len(w.jobs))
		return j.reply, nil
	default:
		w.metrics.RecordWorkerJob(msg.Action, "rejected")
		return nil, ErrQueueFull
	}
}

// Do submits and waits for the reply.
func (w *RoadmapWorker) Do(ctx context.Context, msg WorkerMessage) (WorkerMessage, error) {
	ch, err := w.Submit(ctx, msg)
	if err != nil {
		return WorkerMessage{}, err
	}
	select {
	case reply := <-ch:
		return reply, nil
	case <-ctx.Done():
		return WorkerMessage{}, ctx.Err()
	}
}

// Prepare implements service.RoadmapPreparer on top of the worker protocol.
func (w *RoadmapWorker) Prepare(ctx context.Context, req models.RoadmapRequest) (*models.RoadmapChartData, error) {
	reply, err := w.Do(ctx, WorkerMessage{
		Action: ActionPrepareData,
		Phases: req.Phases,
		Years:  req.Years,
		Colors: req.Colors,
	})
	if err != nil {
		return nil, err
	}
	if err := reply.Err(); err != nil {
		return nil, fmt.Errorf("prepare roadmap: %w", err)
	}
	return reply.ChartData, nil
}

func (w *RoadmapWorker) loop(ctx context.Context, id int) {
	defer w.wg.Done()
	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case j := <-w.jobs:
			w.metrics.RecordQueueDepth(len(w.jobs))
			j.reply <- w.handle(j, id)
		}
	}
}

func (w *RoadmapWorker) handle(j workerJob, id int) (reply WorkerMessage) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("roadmap worker panic",
				logger.Int("worker_id", id),
				logger.Any("panic", r))
			outcome = "panic"
			reply = errorMessage(j.msg, fmt.Errorf("internal error: %v", r))
		}
		w.metrics.RecordWorkerJob(j.msg.Action, outcome)
		w.metrics.RecordLatency("roadmap_worker", time.Since(start).Seconds())
	}()

	if err := j.ctx.Err(); err != nil {
		outcome = "cancelled"
		return errorMessage(j.msg, err)
	}
	if j.msg.Action != ActionPrepareData {
		outcome = "unknown_action"
		return errorMessage(j.msg, fmt.Errorf("unknown action %q", j.msg.Action))
	}

	data, err := w.prepare(models.RoadmapRequest{
		Phases: j.msg.Phases,
		Years:  j.msg.Years,
		Colors: j.msg.Colors,
	})
	if err != nil {
		outcome = "error"
		return errorMessage(j.msg, err)
	}

	if j.msg.Session != "" && w.events != nil {
		w.events.Record(&models.DeckEvent{
			SessionID: j.msg.Session,
			Kind:      models.EventRoadmapPrepared,
			Detail:    fmt.Sprintf("%d phases", len(j.msg.Phases)),
			Timestamp: time.Now().UTC(),
		})
	}
	return WorkerMessage{Action: ActionDataReady, ID: j.msg.ID, ChartData: data}
}

func errorMessage(req WorkerMessage, err error) WorkerMessage {
	return WorkerMessage{Action: ActionError, ID: req.ID, Error: err.Error(), cause: err}
}

// Err returns the failure carried by an error reply, or nil.
func (m WorkerMessage) Err() error {
	if m.Action != ActionError {
		return nil
	}
	if m.cause != nil {
		return m.cause
	}
	return errors.New(m.Error)
}

// copyMessage detaches the request from caller-owned slices.
func copyMessage(m WorkerMessage) WorkerMessage {
	out := m
	out.Years = append([]int(nil), m.Years...)
	out.Colors = append([]string(nil), m.Colors...)
	out.Phases = make([]models.Phase, len(m.Phases))
	for i, p := range m.Phases {
		out.Phases[i] = p
		out.Phases[i].Milestones = append([]models.Milestone(nil), p.Milestones...)
	}
	return out
}
