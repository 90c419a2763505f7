package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"pokerlog/config"
	"pokerlog/internal/db"
	"pokerlog/internal/db/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	conn, err := db.InitDB(&config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	s := New(conn)
	t.Cleanup(func() { s.Close() })
	return s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newGame(date time.Time, city, winner, second string, bank int64) *models.Game {
	return &models.Game{
		Date:         datatypes.Date(date),
		City:         city,
		PlayersCount: 2,
		Winner:       winner,
		SecondPlace:  second,
		Buyin:        decimal.NewFromInt(bank / 2),
		BigBlind:     20,
		Bank:         decimal.NewFromInt(bank),
	}
}

func TestGormStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateGame links participants and assigns ID", func(t *testing.T) {
		g := newGame(day(2025, 6, 15), "Архангельск", "A", "B", 400)
		g.PlayersCount = 3
		g.Rebuys = 1
		g.Buyin = decimal.NewFromInt(100)
		desc := "финальный стол"
		g.Description = &desc

		require.NoError(t, s.CreateGame(ctx, g, []string{"A", "B", "C"}))
		require.NotZero(t, g.ID)

		got, err := s.GetGame(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, day(2025, 6, 15), got.Day())
		assert.Equal(t, "Архангельск", got.City)
		assert.True(t, decimal.NewFromInt(400).Equal(got.Bank), "bank %s", got.Bank)
		assert.True(t, decimal.NewFromInt(100).Equal(got.Buyin), "buyin %s", got.Buyin)
		require.NotNil(t, got.Description)
		assert.Equal(t, desc, *got.Description)
		assert.ElementsMatch(t, []string{"A", "B", "C"}, got.ParticipantNames())
	})

	t.Run("EnsurePlayer does not duplicate names", func(t *testing.T) {
		first, err := s.EnsurePlayer(ctx, "A")
		require.NoError(t, err)
		again, err := s.EnsurePlayer(ctx, "A")
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)

		var count int64
		require.NoError(t, s.db.Model(&models.Player{}).Where("name = ?", "A").Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("GetGame on a missing id is ErrNotFound", func(t *testing.T) {
		_, err := s.GetGame(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGormStoreQueries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed := []struct {
		game    *models.Game
		players []string
	}{
		{newGame(day(2025, 1, 10), "Санкт-Петербург", "A", "B", 100), []string{"A", "B"}},
		{newGame(day(2025, 2, 10), "Архангельск", "B", "C", 200), []string{"B", "C"}},
		{newGame(day(2025, 2, 10), "Выборг", "C", "A", 300), []string{"C", "A"}},
		{newGame(day(2024, 12, 31), "Санкт-Петербург", "A", "C", 400), []string{"A", "C"}},
		{newGame(day(2025, 3, 1), "Архангельск", "A", "B", 500), []string{"A", "B", "D"}},
		{newGame(day(2025, 4, 1), "Выборг", "D", "A", 600), []string{"D", "A"}},
	}
	for _, sd := range seed {
		require.NoError(t, s.CreateGame(ctx, sd.game, sd.players))
	}

	t.Run("RecentGames is newest first and limited", func(t *testing.T) {
		games, err := s.RecentGames(ctx, 5)
		require.NoError(t, err)
		require.Len(t, games, 5)
		assert.Equal(t, day(2025, 4, 1), games[0].Day())
		assert.Equal(t, day(2025, 3, 1), games[1].Day())
		for i := 1; i < len(games); i++ {
			assert.False(t, games[i].Day().After(games[i-1].Day()))
		}
	})

	t.Run("GamesByDate matches the exact day", func(t *testing.T) {
		games, err := s.GamesByDate(ctx, day(2025, 2, 10))
		require.NoError(t, err)
		assert.Len(t, games, 2)

		none, err := s.GamesByDate(ctx, day(2025, 2, 11))
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("GamesByCity is a case-insensitive substring match", func(t *testing.T) {
		games, err := s.GamesByCity(ctx, "бург")
		require.NoError(t, err)
		require.Len(t, games, 2)
		for _, g := range games {
			assert.Equal(t, "Санкт-Петербург", g.City)
		}

		upper, err := s.GamesByCity(ctx, "АРХАН")
		require.NoError(t, err)
		assert.Len(t, upper, 2)

		wildcard, err := s.GamesByCity(ctx, "%")
		require.NoError(t, err)
		assert.Empty(t, wildcard)
	})

	t.Run("GamesByPlayer follows the participant links", func(t *testing.T) {
		games, err := s.GamesByPlayer(ctx, "D")
		require.NoError(t, err)
		require.Len(t, games, 2)
		assert.Equal(t, day(2025, 4, 1), games[0].Day())
		assert.Len(t, games[1].Participants, 3)

		none, err := s.GamesByPlayer(ctx, "Nobody")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("GamesBetween is inclusive", func(t *testing.T) {
		games, err := s.GamesBetween(ctx, day(2025, 1, 10), day(2025, 3, 1))
		require.NoError(t, err)
		assert.Len(t, games, 4)
	})

	t.Run("AllGames returns everything", func(t *testing.T) {
		games, err := s.AllGames(ctx)
		require.NoError(t, err)
		assert.Len(t, games, len(seed))
	})
}

func TestDeleteGame(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	g := newGame(day(2025, 5, 5), "Выборг", "A", "B", 100)
	require.NoError(t, s.CreateGame(ctx, g, []string{"A", "B"}))

	deleted, err := s.DeleteGame(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, deleted.ID)
	assert.Equal(t, "A", deleted.Winner)

	_, err = s.GetGame(ctx, g.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.DeleteGame(ctx, g.ID)
	assert.ErrorIs(t, err, ErrNotFound, "second delete should be a clean not found")

	var links int64
	require.NoError(t, s.db.Table("game_players").Where("game_id = ?", g.ID).Count(&links).Error)
	assert.Zero(t, links)

	// Players stay behind after their games are gone.
	var players int64
	require.NoError(t, s.db.Model(&models.Player{}).Count(&players).Error)
	assert.EqualValues(t, 2, players)
}

func TestConcurrentDeletesResolveToNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	g := newGame(day(2025, 5, 5), "Выборг", "A", "B", 100)
	require.NoError(t, s.CreateGame(ctx, g, []string{"A", "B"}))

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.DeleteGame(ctx, g.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 1, succeeded)
}

func TestConcurrentCreatesShareNewPlayers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 6)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g := newGame(day(2025, 7, i+1), "Выборг", "Новый", "Другой", 100)
			errs[i] = s.CreateGame(ctx, g, []string{"Новый", "Другой"})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}

	var players int64
	require.NoError(t, s.db.Model(&models.Player{}).Count(&players).Error)
	assert.EqualValues(t, 2, players)

	games, err := s.AllGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, 6)
	ids := map[uint]bool{}
	for _, g := range games {
		for _, p := range g.Participants {
			ids[p.ID] = true
		}
	}
	assert.Len(t, ids, 2)
}
