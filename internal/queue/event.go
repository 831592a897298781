package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type EventKind string

const (
	EventBlockCreated    EventKind = "block.created"
	EventBlockUpdated    EventKind = "block.updated"
	EventBlockDeleted    EventKind = "block.deleted"
	EventBlocksReordered EventKind = "blocks.reordered"
	EventVersionCreated  EventKind = "version.created"
	EventVersionRestored EventKind = "version.restored"
	EventPagePublished   EventKind = "page.published"
	EventPageUnpublished EventKind = "page.unpublished"
	EventPageDeleted     EventKind = "page.deleted"
)

// PageEvent announces a change to a page after it was stored.
type PageEvent struct {
	Kind          EventKind `json:"kind"`
	PageID        string    `json:"page_id"`
	BlockID       string    `json:"block_id,omitempty"`
	VersionNumber int64     `json:"version_number,omitempty"`
	At            time.Time `json:"at"`
}

func (e *PageEvent) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers page events. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, event *PageEvent) error
	Close() error
}

var (
	_ Publisher = Nop{}
	_ Publisher = Log{}
	_ Publisher = (*Memory)(nil)
)

type Nop struct{}

func (Nop) Publish(context.Context, *PageEvent) error { return nil }

func (Nop) Close() error { return nil }

// Log writes events to the logger.
type Log struct{}

func (Log) Publish(_ context.Context, event *PageEvent) error {
	logrus.WithFields(logrus.Fields{
		"page_id": event.PageID,
		"block":   event.BlockID,
		"version": event.VersionNumber,
	}).Infof("page event %s", event.Kind)

	return nil
}

func (Log) Close() error { return nil }

// Memory keeps published events in order.
type Memory struct {
	mu     sync.Mutex
	events []*PageEvent
}

func NewMemory() *Memory {
	return &Memory{events: make([]*PageEvent, 0)}
}

func (m *Memory) Publish(_ context.Context, event *PageEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, event)
	return nil
}

func (m *Memory) Events() []*PageEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	events := make([]*PageEvent, len(m.events))
	copy(events, m.events)
	return events
}

func (m *Memory) Close() error { return nil }
