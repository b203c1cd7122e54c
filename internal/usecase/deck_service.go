package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"PitchDeck/internal/domain/models"
	drepo "PitchDeck/internal/domain/repository"
	domsvc "PitchDeck/internal/domain/service"
	"PitchDeck/pkg/logger"

	"github.com/google/uuid"
)

type DeckOption func(*DeckService)

// WithSwipeThreshold sets the default swipe distance in pixels.
func WithSwipeThreshold(px float64) DeckOption {
	return func(s *DeckService) {
		if px > 0 {
			s.swipePx = px
		}
	}
}

func WithRoadmapPreparer(p domsvc.RoadmapPreparer) DeckOption {
	return func(s *DeckService) { s.roadmap = p }
}

// WithEventStorage enables session event history queries.
func WithEventStorage(st drepo.Storage) DeckOption {
	return func(s *DeckService) { s.history = st }
}

func WithClock(now func() time.Time) DeckOption {
	return func(s *DeckService) {
		if now != nil {
			s.now = now
		}
	}
}

// DeckService owns the deck content and every viewing session's navigation state.
type DeckService struct {
	source  drepo.DeckSource
	store   drepo.SessionStore
	events  domsvc.EventSink
	metrics drepo.Metrics
	log     *logger.Logger
	roadmap domsvc.RoadmapPreparer
	history drepo.Storage
	hub     *followerHub
	swipePx float64
	now     func() time.Time

	deck  atomic.Pointer[models.Deck]
	navMu sync.Mutex
}

func NewDeckService(
	source drepo.DeckSource,
	store drepo.SessionStore,
	events domsvc.EventSink,
	metrics drepo.Metrics,
	l *logger.Logger,
	opts ...DeckOption,
) *DeckService {
	s := &DeckService{
		source:  source,
		store:   store,
		events:  events,
		metrics: metrics,
		log:     l,
		swipePx: 50,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.hub = newFollowerHub(metrics)
	return s
}

// Reload reads the deck from its source and swaps it in atomically.
func (s *DeckService) Reload(ctx context.Context) error {
	d, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load deck: %w", err)
	}
	s.deck.Store(d)
	s.log.Info("deck loaded",
		logger.String("title", d.Title),
		logger.Int("slides", len(d.Slides)))
	return nil
}

// Deck returns the current deck.
func (s *DeckService) Deck() (*models.Deck, error) {
	d := s.deck.Load()
	if d == nil {
		return nil, ErrDeckNotLoaded
	}
	return d, nil
}

func (s *DeckService) Slide(id string) (*models.Slide, error) {
	d, err := s.Deck()
	if err != nil {
		return nil, err
	}
	sl, _, ok := d.Slide(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSlideNotFound, id)
	}
	return sl, nil
}

// Roadmap prepares the deck's own roadmap through the worker.
func (s *DeckService) Roadmap(ctx context.Context) (*models.RoadmapChartData, error) {
	d, err := s.Deck()
	if err != nil {
		return nil, err
	}
	if s.roadmap == nil {
		return nil, fmt.Errorf("roadmap preparer not configured")
	}
	return s.roadmap.Prepare(ctx, d.Roadmap)
}

// CreateSession starts a viewing session at slide start (clamped to 0 when out of range).
func (s *DeckService) CreateSession(ctx context.Context, start int) (*models.SessionView, error) {
	d, err := s.Deck()
	if err != nil {
		return nil, err
	}
	nav := NewNavigator(len(d.Slides), start)
	now := s.now().UTC()
	sess := &models.Session{
		ID:        uuid.NewString(),
		Index:     nav.Index(),
		Total:     nav.Total(),
		Tabs:      map[string]string{},
		Scenarios: map[string]string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.emit(sess, d, models.EventSessionStarted, "")
	s.viewed(sess, d)
	return s.view(d, sess), nil
}

// Session returns the current view of a session.
func (s *DeckService) Session(ctx context.Context, id string) (*models.SessionView, error) {
	d, err := s.Deck()
	if err != nil {
		return nil, err
	}
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(d, sess), nil
}

// Navigate applies one navigation command. The bool reports whether the slide changed.
func (s *DeckService) Navigate(ctx context.Context, req models.NavigateRequest) (*models.SessionView, bool, error) {
	d, err := s.Deck()
	if err != nil {
		return nil, false, err
	}

	s.navMu.Lock()
	defer s.navMu.Unlock()

	sess, err := s.store.Get(ctx, req.ID)
	if err != nil {
		return nil, false, err
	}
	nav := NewNavigator(len(d.Slides), clampIndex(sess.Index, len(d.Slides)))

	var changed bool
	switch req.Action {
	case "next":
		changed = nav.Next()
	case "prev":
		changed = nav.Prev()
	case "goto":
		changed = nav.GoTo(req.Index)
	case "swipe":
		threshold := req.Threshold
		if threshold <= 0 {
			threshold = s.swipePx
		}
		changed = nav.Swipe(req.DeltaX, threshold)
	case "key":
		changed = nav.Key(req.Key)
	default:
		return nil, false, fmt.Errorf("%w: %q", ErrInvalidCommand, req.Action)
	}

	// a reload may have shrunk the deck under the session
	if nav.Index() != sess.Index {
		changed = true
	}
	if !changed && sess.Total == nav.Total() {
		return s.view(d, sess), false, nil
	}

	sess.Index = nav.Index()
	sess.Total = nav.Total()
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, false, fmt.Errorf("save session: %w", err)
	}

	v := s.view(d, sess)
	if changed {
		s.viewed(sess, d)
		s.hub.broadcast(sess.ID, *v)
	}
	return v, changed, nil
}

// SelectTab sets the active tab of a slide for this session.
func (s *DeckService) SelectTab(ctx context.Context, id, slideID, tabID string) (*models.SessionView, error) {
	return s.selectOn(ctx, id, slideID, func(sl *models.Slide, sess *models.Session) (models.EventKind, error) {
		if !sl.HasTab(tabID) {
			return "", fmt.Errorf("%w: %s/%s", ErrTabNotFound, slideID, tabID)
		}
		sess.Tabs[slideID] = tabID
		return models.EventTabSelected, nil
	}, tabID)
}

// SelectScenario sets the selected scenario of a slide for this session.
func (s *DeckService) SelectScenario(ctx context.Context, id, slideID, name string) (*models.SessionView, error) {
	return s.selectOn(ctx, id, slideID, func(sl *models.Slide, sess *models.Session) (models.EventKind, error) {
		if !sl.HasScenario(name) {
			return "", fmt.Errorf("%w: %s/%s", ErrScenarioNotFound, slideID, name)
		}
		sess.Scenarios[slideID] = name
		return models.EventScenarioSelected, nil
	}, name)
}

func (s *DeckService) selectOn(
	ctx context.Context,
	id, slideID string,
	apply func(*models.Slide, *models.Session) (models.EventKind, error),
	detail string,
) (*models.SessionView, error) {
	d, err := s.Deck()
	if err != nil {
		return nil, err
	}
	sl, _, ok := d.Slide(slideID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSlideNotFound, slideID)
	}

	s.navMu.Lock()
	defer s.navMu.Unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Tabs == nil {
		sess.Tabs = map[string]string{}
	}
	if sess.Scenarios == nil {
		sess.Scenarios = map[string]string{}
	}

	kind, err := apply(sl, sess)
	if err != nil {
		return nil, err
	}
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.emit(sess, d, kind, slideID+":"+detail)

	v := s.view(d, sess)
	s.hub.broadcast(sess.ID, *v)
	return v, nil
}

// EndSession removes the session and disconnects its followers.
func (s *DeckService) EndSession(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.hub.closeSession(id)
	if f, ok := s.events.(sessionForgetter); ok {
		f.Forget(id)
	}
	return nil
}

// sessionForgetter is implemented by sinks that keep per-session state.
type sessionForgetter interface {
	Forget(sessionID string)
}

// Follow subscribes to navigation changes of a session. Call the returned
// func to unsubscribe.
func (s *DeckService) Follow(ctx context.Context, id string) (<-chan models.SessionView, func(), error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.subscribe(id)
	return ch, cancel, nil
}

// Events returns a session's recorded engagement events, newest first.
func (s *DeckService) Events(ctx context.Context, id string, from, to time.Time, limit int) ([]*models.DeckEvent, error) {
	if s.history == nil {
		return []*models.DeckEvent{}, nil
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.history.Query(ctx, id, from, to, limit)
}

// Record forwards an externally triggered event for a session.
func (s *DeckService) Record(sessionID string, kind models.EventKind, detail string) {
	if s.events == nil || sessionID == "" {
		return
	}
	s.events.Record(&models.DeckEvent{
		SessionID: sessionID,
		Kind:      kind,
		Detail:    detail,
		Timestamp: s.now().UTC(),
	})
}

func (s *DeckService) viewed(sess *models.Session, d *models.Deck) {
	sl := d.Slides[sess.Index]
	s.metrics.RecordSlideView(sl.ID)
	s.emit(sess, d, models.EventSlideViewed, strconv.Itoa(sess.Index+1))
}

func (s *DeckService) emit(sess *models.Session, d *models.Deck, kind models.EventKind, detail string) {
	if s.events == nil {
		return
	}
	e := &models.DeckEvent{
		SessionID:  sess.ID,
		Kind:       kind,
		SlideIndex: sess.Index,
		Detail:     detail,
		Timestamp:  s.now().UTC(),
	}
	if sess.Index < len(d.Slides) {
		e.SlideID = d.Slides[sess.Index].ID
	}
	if !s.events.Record(e) {
		s.log.Debug("deck event dropped",
			logger.String("session", sess.ID),
			logger.String("kind", string(kind)))
	}
}

func clampIndex(i, total int) int {
	if i >= total {
		i = total - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (s *DeckService) view(d *models.Deck, sess *models.Session) *models.SessionView {
	idx := clampIndex(sess.Index, len(d.Slides))
	nav := NewNavigator(len(d.Slides), idx)
	sl := d.Slides[idx]

	v := &models.SessionView{
		Session:  *sess,
		Slide:    sl,
		Progress: nav.Progress(),
		Tab:      sess.Tabs[sl.ID],
		Scenario: sess.Scenarios[sl.ID],
	}
	v.Session.Index = idx
	v.Session.Total = len(d.Slides)
	if v.Tab == "" && len(sl.Tabs) > 0 {
		v.Tab = sl.Tabs[0].ID
	}
	if v.Scenario == "" && len(sl.Scenarios) > 0 {
		v.Scenario = defaultScenario(sl.Scenarios)
	}
	return v
}

func defaultScenario(names []string) string {
	for _, n := range names {
		if n == "base" {
			return n
		}
	}
	return names[0]
}
