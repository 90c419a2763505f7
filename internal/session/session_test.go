package session

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreIsolatesConversations(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Load(ctx, "alice")
	assert.ErrorIs(t, err, ErrNoConversation)

	alice := &Conversation{ID: "alice", State: "add_city"}
	alice.Draft.City = "Выборг"
	alice.Draft.Select("C")
	require.NoError(t, s.Save(ctx, alice))
	require.NoError(t, s.Save(ctx, &Conversation{ID: "bob", State: "search_game"}))

	// Mutating the caller's copy must not leak into the store.
	alice.Draft.Select("D")
	alice.State = "main_menu"

	got, err := s.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "add_city", got.State)
	assert.Equal(t, []string{"C"}, got.Draft.SelectedPlayers)

	bob, err := s.Load(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, bob.Draft.City)

	require.NoError(t, s.Delete(ctx, "alice"))
	require.NoError(t, s.Delete(ctx, "alice"))
	assert.Equal(t, 1, s.Len())
}

func TestDraftSelectIsIdempotent(t *testing.T) {
	var d Draft
	assert.True(t, d.Select("C"))
	assert.False(t, d.Select("C"))
	assert.True(t, d.Select("D"))
	assert.Equal(t, []string{"C", "D"}, d.SelectedPlayers)
	assert.True(t, d.IsSelected("D"))
	assert.False(t, d.IsSelected("E"))
}

func TestDraftIsEmpty(t *testing.T) {
	var d Draft
	assert.True(t, d.IsEmpty())

	d.City = "Выборг"
	assert.False(t, d.IsEmpty())

	d = Draft{DeleteOptions: map[string]uint{"1": 10}}
	assert.False(t, d.IsEmpty())

	d = Draft{Buyin: decimal.NewFromInt(50)}
	assert.False(t, d.IsEmpty())

	c := &Conversation{Draft: d}
	c.Reset()
	assert.True(t, c.Draft.IsEmpty())
}

func TestResetClearsDraft(t *testing.T) {
	c := &Conversation{ID: "x", State: "delete_disambiguate"}
	c.Draft.DeleteOptions = map[string]uint{"1": 10}
	c.Draft.Winner = "A"
	c.Reset()
	assert.Equal(t, Draft{}, c.Draft)
	assert.Equal(t, "delete_disambiguate", c.State)
}

func TestConversationJSONKeepsMoneyAndDates(t *testing.T) {
	conv := &Conversation{ID: "42", State: "add_description"}
	conv.Draft.GameDate = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	conv.Draft.Buyin = decimal.RequireFromString("100.50")
	conv.Draft.Bank = decimal.RequireFromString("402.00")
	conv.Draft.DeleteOptions = map[string]uint{"1": 7, "2": 9}

	raw, err := encodeConversation(conv)
	require.NoError(t, err)
	got, err := decodeConversation(raw)
	require.NoError(t, err)

	assert.True(t, conv.Draft.GameDate.Equal(got.Draft.GameDate))
	assert.True(t, conv.Draft.Buyin.Equal(got.Draft.Buyin))
	assert.True(t, conv.Draft.Bank.Equal(got.Draft.Bank))
	assert.Equal(t, conv.Draft.DeleteOptions, got.Draft.DeleteOptions)
	assert.Equal(t, "pokerlog:conversation:42", redisKey(conv.ID))
}

func TestDialRedisFailsFast(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := DialRedis(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
