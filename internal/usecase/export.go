package usecase

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"PitchDeck/internal/domain/models"
	drepo "PitchDeck/internal/domain/repository"
	domsvc "PitchDeck/internal/domain/service"
	"PitchDeck/internal/services/charts"
	"PitchDeck/internal/services/export"
	"PitchDeck/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	StatusExportReady  = "Export ready"
	StatusExportFailed = "Export failed"
)

// ExportResult is one export attempt.
type ExportResult struct {
	Document     []byte    `json:"-"`
	Status       string    `json:"status"`
	Charts       int       `json:"charts"`
	Placeholders int       `json:"placeholders"`
	At           time.Time `json:"at"`
	Error        string    `json:"error,omitempty"`
}

type ExportOption func(*ExportService)

func WithPrintDelay(d time.Duration) ExportOption {
	return func(s *ExportService) {
		if d >= 0 {
			s.printDelay = d
		}
	}
}

// WithCompany overrides the company name printed on the cover.
func WithCompany(name string) ExportOption {
	return func(s *ExportService) { s.company = name }
}

// WithRenderConcurrency bounds parallel chart renders.
func WithRenderConcurrency(n int) ExportOption {
	return func(s *ExportService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithStatusTTL bounds how long an export outcome stays queryable.
func WithStatusTTL(ttl time.Duration) ExportOption {
	return func(s *ExportService) {
		if ttl > 0 {
			s.statusTTL = ttl
		}
	}
}

func WithExportClock(now func() time.Time) ExportOption {
	return func(s *ExportService) {
		if now != nil {
			s.now = now
		}
	}
}

// ExportService builds the printable deck document.
type ExportService struct {
	deck        *DeckService
	renderer    domsvc.ChartRenderer
	metrics     drepo.Metrics
	log         *logger.Logger
	printDelay  time.Duration
	company     string
	concurrency int
	statusTTL   time.Duration
	now         func() time.Time

	mu   sync.Mutex
	last map[string]ExportResult
}

func NewExportService(deck *DeckService, renderer domsvc.ChartRenderer, metrics drepo.Metrics, l *logger.Logger, opts ...ExportOption) *ExportService {
	s := &ExportService{
		deck:        deck,
		renderer:    renderer,
		metrics:     metrics,
		log:         l,
		printDelay:  500 * time.Millisecond,
		concurrency: 4,
		statusTTL:   time.Hour,
		now:         time.Now,
		last:        make(map[string]ExportResult),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s
}

// Export renders every chart concurrently and assembles the document. A chart
// that fails to render becomes a placeholder; anything else fails the export,
// which is reported once and not retried. A non-empty sessionID must name a
// live session.
func (s *ExportService) Export(ctx context.Context, sessionID string) (ExportResult, error) {
	start := s.now()
	if sessionID != "" {
		if _, err := s.deck.Session(ctx, sessionID); err != nil {
			return ExportResult{Status: StatusExportFailed, At: start.UTC(), Error: err.Error()}, fmt.Errorf("export: %w", err)
		}
	}
	s.deck.Record(sessionID, models.EventExportRequested, "")

	res, err := s.build(ctx)
	res.At = start.UTC()
	if err != nil {
		res.Status = StatusExportFailed
		res.Error = err.Error()
		res.Document = nil
		s.log.Error("export failed", logger.String("session", sessionID), logger.Error(err))
		s.metrics.RecordError("export")
		s.deck.Record(sessionID, models.EventExportFailed, err.Error())
	} else {
		res.Status = StatusExportReady
		s.metrics.RecordLatency("export", s.now().Sub(start).Seconds())
	}

	s.remember(sessionID, res)
	return res, err
}

// remember stores res without its document and drops outcomes past the TTL.
func (s *ExportService) remember(sessionID string, res ExportResult) {
	res.Document = nil
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.last {
		if res.At.Sub(r.At) > s.statusTTL {
			delete(s.last, id)
		}
	}
	s.last[sessionID] = res
}

// Status returns the outcome of the latest export for a session.
func (s *ExportService) Status(sessionID string) (ExportResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.last[sessionID]
	if ok && s.now().Sub(r.At) > s.statusTTL {
		delete(s.last, sessionID)
		return ExportResult{}, false
	}
	return r, ok
}

// tracked reports how many export outcomes are held.
func (s *ExportService) tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.last)
}

func (s *ExportService) build(ctx context.Context) (ExportResult, error) {
	d, err := s.deck.Deck()
	if err != nil {
		return ExportResult{}, err
	}

	var (
		mu       sync.Mutex
		svgs     = make(map[string][]byte)
		degraded int
		res      ExportResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range d.Slides {
		for j := range d.Slides[i].Charts {
			spec := &d.Slides[i].Charts[j]
			res.Charts++
			if !charts.Supports(spec.Type) {
				res.Placeholders++
				continue
			}
			g.Go(func() error {
				var buf bytes.Buffer
				if err := s.renderer.RenderSVG(gctx, spec, &buf); err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					s.log.Warn("export chart degraded to placeholder",
						logger.String("chart", spec.ID),
						logger.Error(err))
					mu.Lock()
					degraded++
					mu.Unlock()
					return nil
				}
				mu.Lock()
				svgs[spec.ID] = buf.Bytes()
				mu.Unlock()
				return nil
			})
		}
	}
	err = g.Wait()
	res.Placeholders += degraded
	if err != nil {
		return res, fmt.Errorf("render charts: %w", err)
	}

	doc, err := export.BuildDocument(ctx, d, export.Options{
		Company:    s.company,
		Date:       s.now(),
		PrintDelay: s.printDelay,
		AutoPrint:  true,
		Charts:     svgs,
	})
	if err != nil {
		return res, err
	}
	res.Document = doc
	return res, nil
}
