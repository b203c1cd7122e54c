package usecase

import (
	"fmt"

	"PitchDeck/internal/domain/models"
)

// Navigator is the deck shell's slide state machine. It holds an index in
// [0, total) and never wraps.
type Navigator struct {
	index int
	total int
}

func NewNavigator(total, start int) *Navigator {
	n := &Navigator{total: total}
	if start >= 0 && start < total {
		n.index = start
	}
	return n
}

func (n *Navigator) Index() int { return n.index }

func (n *Navigator) Total() int { return n.total }

// Next advances one slide and reports whether the index changed.
func (n *Navigator) Next() bool {
	if n.index >= n.total-1 {
		return false
	}
	n.index++
	return true
}

// Prev goes back one slide and reports whether the index changed.
func (n *Navigator) Prev() bool {
	if n.index <= 0 {
		return false
	}
	n.index--
	return true
}

// GoTo jumps to k. Out-of-range targets leave the state untouched and return false.
func (n *Navigator) GoTo(k int) bool {
	if k < 0 || k >= n.total {
		return false
	}
	changed := k != n.index
	n.index = k
	return changed
}

// Swipe maps a horizontal drag to navigation: left past threshold is next,
// right past threshold is prev.
func (n *Navigator) Swipe(deltaX, threshold float64) bool {
	switch {
	case deltaX <= -threshold:
		return n.Next()
	case deltaX >= threshold:
		return n.Prev()
	}
	return false
}

// Key applies a keyboard key name as reported by the browser.
func (n *Navigator) Key(name string) bool {
	switch name {
	case "ArrowRight", "PageDown", " ", "Space", "Spacebar":
		return n.Next()
	case "ArrowLeft", "PageUp":
		return n.Prev()
	case "Home":
		return n.GoTo(0)
	case "End":
		return n.GoTo(n.total - 1)
	}
	return false
}

func (n *Navigator) Progress() models.Progress {
	if n.total == 0 {
		return models.Progress{Label: "0 / 0"}
	}
	return models.Progress{
		Index:   n.index,
		Total:   n.total,
		Percent: float64(n.index+1) / float64(n.total) * 100,
		Label:   fmt.Sprintf("%d / %d", n.index+1, n.total),
	}
}
