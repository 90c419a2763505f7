// Package store provides persistence for games, players and the
// participants association between them.
package store

import (
	"context"
	"errors"
	"time"

	"pokerlog/internal/db/models"
)

// ErrNotFound is returned when a game is missing, including when it was
// deleted concurrently.
var ErrNotFound = errors.New("not found")

// Store defines the record operations the conversation flows need.
type Store interface {
	// CreateGame persists game together with its participant links in one
	// transaction. Players are looked up by name and created when missing.
	// game.ID is populated by the store.
	CreateGame(ctx context.Context, game *models.Game, participants []string) error

	// DeleteGame removes a game and its participant links and returns the
	// removed record. Returns ErrNotFound if the game does not exist.
	DeleteGame(ctx context.Context, id uint) (*models.Game, error)

	// GetGame retrieves a game by ID. Returns ErrNotFound if missing.
	GetGame(ctx context.Context, id uint) (*models.Game, error)

	// RecentGames lists games newest first, at most limit of them.
	RecentGames(ctx context.Context, limit int) ([]models.Game, error)

	// GamesByDate lists games played on exactly that calendar day.
	GamesByDate(ctx context.Context, day time.Time) ([]models.Game, error)

	// GamesByCity lists games whose city contains substr, ignoring case.
	GamesByCity(ctx context.Context, substr string) ([]models.Game, error)

	// GamesByPlayer lists games the named player took part in, newest first.
	GamesByPlayer(ctx context.Context, name string) ([]models.Game, error)

	// GamesBetween lists games with from <= date <= to, newest first.
	GamesBetween(ctx context.Context, from, to time.Time) ([]models.Game, error)

	// AllGames lists every game, newest first.
	AllGames(ctx context.Context) ([]models.Game, error)

	// EnsurePlayer returns the player with that name, creating it if needed.
	EnsurePlayer(ctx context.Context, name string) (*models.Player, error)

	// Close releases any resources held by the store.
	Close() error
}
