// Package feed carries remote "like" events over WebSocket.
//
// A Hub broadcasts events to every connected viewer; a Client dials a hub and
// delivers de-duplicated events on a channel. Neither side touches the
// animation state: viewers drain Client.Events on their frame thread.
package feed

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MaxCountPerEvent caps how many hearts a single event may request.
const MaxCountPerEvent = 50

var (
	// ErrInvalidEvent is returned for events that fail validation.
	ErrInvalidEvent = errors.New("invalid like event")
	// ErrHubClosed is returned when publishing to a closed hub.
	ErrHubClosed = errors.New("hub closed")
)

// LikeEvent is one remote like, possibly representing several taps.
type LikeEvent struct {
	ID     string    `json:"id"`
	User   string    `json:"user"`
	Count  int       `json:"count"`
	SentAt time.Time `json:"sentAt"`
}

// NewLikeEvent creates an event with a fresh random ID.
func NewLikeEvent(user string, count int) LikeEvent {
	return LikeEvent{
		ID:     uuid.NewString(),
		User:   user,
		Count:  count,
		SentAt: time.Now().UTC(),
	}
}

// Validate checks the ID format and the count range.
func (e LikeEvent) Validate() error {
	if _, err := uuid.Parse(e.ID); err != nil {
		return fmt.Errorf("%w: bad id %q: %v", ErrInvalidEvent, e.ID, err)
	}
	if e.Count < 1 || e.Count > MaxCountPerEvent {
		return fmt.Errorf("%w: count %d out of range [1, %d]", ErrInvalidEvent, e.Count, MaxCountPerEvent)
	}
	return nil
}
