package bot

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pokerlog/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherPersistsConversation(t *testing.T) {
	m, _, _ := newTestMachine(t)
	sessions := session.NewMemoryStore()
	d := NewDispatcher(m, sessions)
	ctx := context.Background()

	resp, err := d.Dispatch(ctx, "chat-1", MenuAddGame)
	require.NoError(t, err)
	assert.Equal(t, AddDate, resp.State)

	resp, err = d.Dispatch(ctx, "chat-1", "15.06.2025")
	require.NoError(t, err)
	assert.Equal(t, AddCity, resp.State)

	conv, err := sessions.Load(ctx, "chat-1")
	require.NoError(t, err)
	assert.Equal(t, AddCity.String(), conv.State)
	assert.Equal(t, day(2025, 6, 15), conv.Draft.GameDate)

	// Another chat starts from the main menu and stays idle there.
	resp, err = d.Dispatch(ctx, "chat-2", "15.06.2025")
	require.NoError(t, err)
	assert.Equal(t, MainMenu, resp.State)
	_, err = sessions.Load(ctx, "chat-2")
	assert.ErrorIs(t, err, session.ErrNoConversation)
	assert.Equal(t, 1, sessions.Len())
	assert.Zero(t, d.pending())
}

func TestDispatcherLocksPerConversation(t *testing.T) {
	m, _, _ := newTestMachine(t)
	d := NewDispatcher(m, session.NewMemoryStore())

	release := d.lock("x")

	var entered atomic.Bool
	done := make(chan struct{})
	go func() {
		unlock := d.lock("x")
		entered.Store(true)
		unlock()
		close(done)
	}()

	// A different conversation is not blocked.
	other := d.lock("y")
	other()

	time.Sleep(50 * time.Millisecond)
	assert.False(t, entered.Load())

	release()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second holder never acquired the lock")
	}
	assert.True(t, entered.Load())
	assert.Zero(t, d.pending())
}

func TestDispatcherConcurrentConversations(t *testing.T) {
	m, st, _ := newTestMachine(t)
	sessions := session.NewMemoryStore()
	d := NewDispatcher(m, sessions)
	ctx := context.Background()

	flow := []string{MenuAddGame, "10.01.2024", "Выборг", "2", "A", "B", "0", "50", "10", "-"}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for _, in := range flow {
				_, err := d.Dispatch(ctx, id, in)
				assert.NoError(t, err)
			}
		}(fmt.Sprintf("chat-%d", i))
	}
	wg.Wait()

	games, err := st.AllGames(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 4)
	assert.Zero(t, sessions.Len())
	assert.Zero(t, d.pending())
}

func TestDispatcherDropsIdleConversations(t *testing.T) {
	m, _, _ := newTestMachine(t)
	sessions := session.NewMemoryStore()
	d := NewDispatcher(m, sessions)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		_, err := d.Dispatch(ctx, fmt.Sprintf("idle-%d", i), MenuRecent)
		require.NoError(t, err)
	}
	assert.Zero(t, sessions.Len())

	for _, in := range []string{MenuAddGame, "10.01.2024", "Выборг"} {
		_, err := d.Dispatch(ctx, "busy", in)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, sessions.Len())

	// Leaving the form through the main menu forgets the draft.
	resp, err := d.Dispatch(ctx, "busy", CancelLabel)
	require.NoError(t, err)
	assert.Equal(t, MainMenu, resp.State)
	assert.Zero(t, sessions.Len())

	// The next message starts over from a fresh conversation.
	resp, err = d.Dispatch(ctx, "busy", MenuAddGame)
	require.NoError(t, err)
	assert.Equal(t, AddDate, resp.State)
	conv, err := sessions.Load(ctx, "busy")
	require.NoError(t, err)
	assert.True(t, conv.Draft.IsEmpty())
}
