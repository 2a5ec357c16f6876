// Package events defines the auth event stream contract. Events are
// best-effort notifications for downstream consumers; no core invariant
// depends on their delivery.
package events

import (
	"context"
	"time"
)

// EventType identifies an auth event.
type EventType string

const (
	UserRegistered EventType = "user.registered"
	UserLoggedIn   EventType = "user.logged_in"
	UserLoggedOut  EventType = "user.logged_out"
	TokenRefreshed EventType = "token.refreshed"
)

// Event is a single auth event.
type Event struct {
	ID     string    `json:"id"`
	Type   EventType `json:"type"`
	Source string    `json:"source"`
	UserID string    `json:"user_id"`
	Time   time.Time `json:"time"`
}

// Publisher publishes auth events.
type Publisher interface {
	Publish(ctx context.Context, eventType EventType, userID string)
	Close() error
}

// NopPublisher discards all events. Used when event publication is
// disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, EventType, string) {}

func (NopPublisher) Close() error { return nil }
