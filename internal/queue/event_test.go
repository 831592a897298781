package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageEvent_MarshalBinary(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	data, err := (&PageEvent{Kind: EventVersionCreated, PageID: "p1", VersionNumber: 3, At: at}).MarshalBinary()
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"version.created","page_id":"p1","version_number":3,"at":"2026-03-01T10:00:00Z"}`, string(data))

	var decoded PageEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, EventVersionCreated, decoded.Kind)
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	ctx := context.TODO()

	require.NoError(t, m.Publish(ctx, &PageEvent{Kind: EventBlockCreated, PageID: "p1"}))
	require.NoError(t, m.Publish(ctx, &PageEvent{Kind: EventBlockDeleted, PageID: "p1"}))

	events := m.Events()
	require.Len(t, events, 2)
	assert.Equal(t, EventBlockCreated, events[0].Kind)
	assert.Equal(t, EventBlockDeleted, events[1].Kind)
	assert.NoError(t, m.Close())
}

func TestLogAndNop(t *testing.T) {
	for _, p := range []Publisher{Log{}, Nop{}} {
		assert.NoError(t, p.Publish(context.TODO(), &PageEvent{Kind: EventPagePublished, PageID: "p1"}))
		assert.NoError(t, p.Close())
	}
}

func TestNewKafka_RequiresConfig(t *testing.T) {
	_, err := NewKafka("", "page-events")
	assert.Error(t, err)

	_, err = NewKafka("localhost:9092", "")
	assert.Error(t, err)
}
