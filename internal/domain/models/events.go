package models

import "time"

type EventKind string

const (
	EventSessionStarted   EventKind = "session_started"
	EventSlideViewed      EventKind = "slide_viewed"
	EventTabSelected      EventKind = "tab_selected"
	EventScenarioSelected EventKind = "scenario_selected"
	EventRoadmapPrepared  EventKind = "roadmap_prepared"
	EventExportRequested  EventKind = "export_requested"
	EventExportFailed     EventKind = "export_failed"
)

func (k EventKind) Valid() bool {
	switch k {
	case EventSessionStarted, EventSlideViewed, EventTabSelected, EventScenarioSelected,
		EventRoadmapPrepared, EventExportRequested, EventExportFailed:
		return true
	}
	return false
}

// DeckEvent is an engagement record emitted by the deck service.
type DeckEvent struct {
	SessionID  string    `json:"session_id" ch:"session_id"`
	Kind       EventKind `json:"kind" ch:"kind"`
	SlideIndex int       `json:"slide_index" ch:"slide_index"`
	SlideID    string    `json:"slide_id" ch:"slide_id"`
	Detail     string    `json:"detail,omitempty" ch:"detail"`
	Timestamp  time.Time `json:"timestamp" ch:"timestamp"`
}
