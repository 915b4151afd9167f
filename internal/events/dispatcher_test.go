package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesSubscribersInOrder(t *testing.T) {
	ctx := context.Background()
	d := NewInMemoryDispatcher()

	var calls []string
	d.Subscribe(EventUserSignedUp, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.SubjectID)
		return nil
	})
	d.Subscribe(EventUserSignedUp, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.SubjectID)
		return nil
	})

	require.NoError(t, d.Publish(ctx, Event{
		ID:        "evt-1",
		Type:      EventUserSignedUp,
		SubjectID: "user-1",
		Timestamp: time.Now(),
	}))

	assert.Equal(t, []string{"first:user-1", "second:user-1"}, calls)
}

func TestPublishUnsubscribedTypeIsNoop(t *testing.T) {
	ctx := context.Background()
	d := NewInMemoryDispatcher()

	assert.NoError(t, d.Publish(ctx, Event{Type: EventNoteDeleted}))
}

func TestHandlerErrorDoesNotStopOthers(t *testing.T) {
	ctx := context.Background()
	d := NewInMemoryDispatcher()

	var reached bool
	d.Subscribe(EventUserApproved, func(context.Context, Event) error {
		return errors.New("handler failed")
	})
	d.Subscribe(EventUserApproved, func(context.Context, Event) error {
		reached = true
		return nil
	})

	require.NoError(t, d.Publish(ctx, Event{Type: EventUserApproved}))
	assert.True(t, reached)
}

func TestSubscribersAreTypeScoped(t *testing.T) {
	ctx := context.Background()
	d := NewInMemoryDispatcher()

	var hits int
	d.Subscribe(EventNoteCreated, func(context.Context, Event) error {
		hits++
		return nil
	})

	require.NoError(t, d.Publish(ctx, Event{Type: EventNoteCreated}))
	require.NoError(t, d.Publish(ctx, Event{Type: EventNoteDeleted}))
	assert.Equal(t, 1, hits)
}
