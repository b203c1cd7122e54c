package usecase

import (
	"sync"

	"PitchDeck/internal/domain/models"
	drepo "PitchDeck/internal/domain/repository"
)

const followerBuffer = 8

// followerHub fans session views out to presenter-sync subscribers.
// Slow subscribers lose intermediate views, never the presenter's request.
type followerHub struct {
	mu      sync.Mutex
	subs    map[string]map[chan models.SessionView]struct{}
	total   int
	metrics drepo.Metrics
}

func newFollowerHub(m drepo.Metrics) *followerHub {
	return &followerHub{subs: make(map[string]map[chan models.SessionView]struct{}), metrics: m}
}

func (h *followerHub) subscribe(id string) (<-chan models.SessionView, func()) {
	ch := make(chan models.SessionView, followerBuffer)

	h.mu.Lock()
	if h.subs[id] == nil {
		h.subs[id] = make(map[chan models.SessionView]struct{})
	}
	h.subs[id][ch] = struct{}{}
	h.total++
	h.metrics.RecordActiveFollowers(h.total)
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() { h.unsubscribe(id, ch) })
	}
}

func (h *followerHub) unsubscribe(id string, ch chan models.SessionView) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[id]
	if !ok {
		return
	}
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	if len(set) == 0 {
		delete(h.subs, id)
	}
	close(ch)
	h.total--
	h.metrics.RecordActiveFollowers(h.total)
}

func (h *followerHub) broadcast(id string, v models.SessionView) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[id] {
		select {
		case ch <- v:
		default:
			// drop the oldest so the follower converges on the latest view
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

func (h *followerHub) closeSession(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[id] {
		close(ch)
		h.total--
	}
	delete(h.subs, id)
	h.metrics.RecordActiveFollowers(h.total)
}

func (h *followerHub) count(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[id])
}
