package chat

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/rental-marketplace/internal/model"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func msg(id, from, to string, at time.Duration) model.Message {
	return model.Message{
		ID: id, SenderID: from, SenderName: "name-" + from,
		ReceiverID: to, ReceiverName: "name-" + to,
		Text: id, Timestamp: t0.Add(at),
	}
}

func TestConversations_KeepsLatestPerCounterpart(t *testing.T) {
	msgs := []model.Message{
		msg("m1", "A", "B", 1*time.Minute),
		msg("m2", "B", "A", 2*time.Minute),
		msg("m3", "A", "B", 3*time.Minute),
	}
	got := Conversations(msgs, "A")
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].UserID)
	assert.Equal(t, "name-B", got[0].Name)
	assert.Equal(t, "m3", got[0].LastMessage.ID)
}

func TestConversations_OrderNewestFirst(t *testing.T) {
	msgs := []model.Message{
		msg("m1", "A", "B", 1*time.Minute),
		msg("m2", "C", "A", 5*time.Minute),
		msg("m3", "X", "Y", 9*time.Minute),
		msg("m4", "A", "D", 3*time.Minute),
	}
	got := Conversations(msgs, "A")
	require.Len(t, got, 3)
	assert.Equal(t, []string{"C", "D", "B"}, []string{got[0].UserID, got[1].UserID, got[2].UserID})
}

func TestConversations_EqualTimestampsKeepFirstSeen(t *testing.T) {
	msgs := []model.Message{
		msg("m1", "A", "B", time.Minute),
		msg("m2", "B", "A", time.Minute),
		msg("m3", "A", "C", time.Minute),
	}
	got := Conversations(msgs, "A")
	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].LastMessage.ID)
	assert.Equal(t, "B", got[0].UserID)
	assert.Equal(t, "C", got[1].UserID)
}

func TestConversations_NoMessages(t *testing.T) {
	got := Conversations(nil, "A")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestThread(t *testing.T) {
	msgs := []model.Message{
		msg("m3", "A", "B", 3*time.Minute),
		msg("m1", "A", "B", 1*time.Minute),
		msg("m9", "A", "C", 2*time.Minute),
		msg("m2", "B", "A", 2*time.Minute),
	}
	got := Thread(msgs, "A", "B")
	require.Len(t, got, 3)
	assert.Equal(t, []string{"m1", "m2", "m3"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestPoller_FetchesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	updates := make(chan int, 16)

	p := &Poller{
		Interval: 5 * time.Millisecond,
		Fetch: func(context.Context) ([]model.Message, error) {
			n := calls.Add(1)
			if n == 2 {
				return nil, errors.New("backend hiccup")
			}
			return make([]model.Message, n), nil
		},
		OnUpdate: func(m []model.Message) { updates <- len(m) },
	}

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	assert.Equal(t, 1, <-updates)
	assert.Equal(t, 3, <-updates)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}
