package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pokerlog/internal/db/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ensure GormStore implements Store
var _ Store = (*GormStore)(nil)

// GormStore implements Store on top of gorm. It works with both the postgres
// and the sqlite driver.
type GormStore struct {
	db *gorm.DB
}

// New wraps an already migrated connection.
func New(conn *gorm.DB) *GormStore {
	return &GormStore{db: conn}
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) CreateGame(ctx context.Context, game *models.Game, participants []string) error {
	game.CityKey = cityKey(game.City)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		players := make([]models.Player, 0, len(participants))
		for _, name := range participants {
			p, err := ensurePlayer(tx, name)
			if err != nil {
				return err
			}
			players = append(players, *p)
		}
		game.Participants = players

		// Players already exist; only the game row and the join rows are written.
		if err := tx.Omit("Participants.*").Create(game).Error; err != nil {
			return fmt.Errorf("failed to insert game: %w", err)
		}
		return nil
	})
}

func (s *GormStore) DeleteGame(ctx context.Context, id uint) (*models.Game, error) {
	var game models.Game
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Participants").First(&game, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load game %d: %w", id, err)
		}
		if err := tx.Exec("DELETE FROM game_players WHERE game_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to unlink participants of game %d: %w", id, err)
		}
		res := tx.Delete(&models.Game{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete game %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *GormStore) GetGame(ctx context.Context, id uint) (*models.Game, error) {
	var game models.Game
	if err := s.db.WithContext(ctx).Preload("Participants").First(&game, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}
	return &game, nil
}

func (s *GormStore) RecentGames(ctx context.Context, limit int) ([]models.Game, error) {
	var games []models.Game
	if err := s.games(ctx).Limit(limit).Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent games: %w", err)
	}
	return games, nil
}

func (s *GormStore) GamesByDate(ctx context.Context, day time.Time) ([]models.Game, error) {
	var games []models.Game
	if err := s.games(ctx).Where("games.date = ?", datatypes.Date(utcDay(day))).Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to find games by date: %w", err)
	}
	return games, nil
}

func (s *GormStore) GamesByCity(ctx context.Context, substr string) ([]models.Game, error) {
	pattern := "%" + escapeLike(cityKey(substr)) + "%"
	var games []models.Game
	if err := s.games(ctx).Where(`games.city_key LIKE ? ESCAPE '\'`, pattern).Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to find games by city: %w", err)
	}
	return games, nil
}

func (s *GormStore) GamesByPlayer(ctx context.Context, name string) ([]models.Game, error) {
	var games []models.Game
	err := s.games(ctx).
		Joins("JOIN game_players ON game_players.game_id = games.id").
		Joins("JOIN players ON players.id = game_players.player_id").
		Where("players.name = ?", name).
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find games of player %q: %w", name, err)
	}
	return games, nil
}

func (s *GormStore) GamesBetween(ctx context.Context, from, to time.Time) ([]models.Game, error) {
	var games []models.Game
	err := s.games(ctx).
		Where("games.date >= ? AND games.date <= ?", datatypes.Date(utcDay(from)), datatypes.Date(utcDay(to))).
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find games between dates: %w", err)
	}
	return games, nil
}

func (s *GormStore) AllGames(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	if err := s.games(ctx).Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

func (s *GormStore) EnsurePlayer(ctx context.Context, name string) (*models.Player, error) {
	return ensurePlayer(s.db.WithContext(ctx), name)
}

// games is the base query: participants preloaded, newest first.
func (s *GormStore) games(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.Game{}).
		Preload("Participants").
		Order("games.date DESC").
		Order("games.id DESC")
}

// ensurePlayer inserts name unless present and returns the stored row.
// A concurrent insert of the same name is absorbed by the unique index.
func ensurePlayer(tx *gorm.DB, name string) (*models.Player, error) {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&models.Player{Name: name}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to ensure player %q: %w", name, err)
	}

	var player models.Player
	if err := tx.Where("name = ?", name).First(&player).Error; err != nil {
		return nil, fmt.Errorf("failed to load player %q: %w", name, err)
	}
	return &player, nil
}

func cityKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func utcDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
