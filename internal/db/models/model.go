package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Player struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:100;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type Game struct {
	ID           uint            `gorm:"primaryKey;autoIncrement"`
	Date         datatypes.Date  `gorm:"not null;index"`
	City         string          `gorm:"size:100;not null"`
	CityKey      string          `gorm:"size:100;not null;index"` // lower-cased City, used for substring search
	PlayersCount int             `gorm:"not null"`
	Winner       string          `gorm:"size:100;not null;index"`
	SecondPlace  string          `gorm:"size:100;not null;index"`
	Rebuys       int             `gorm:"not null;default:0"`
	Buyin        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	BigBlind     int             `gorm:"not null"`
	Bank         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Description  *string         `gorm:"size:1000"`
	Participants []Player        `gorm:"many2many:game_players;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
}

// Day returns the game date as UTC midnight.
func (g *Game) Day() time.Time {
	y, m, d := time.Time(g.Date).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParticipantNames lists the attached players by name.
func (g *Game) ParticipantNames() []string {
	names := make([]string, 0, len(g.Participants))
	for _, p := range g.Participants {
		names = append(names, p.Name)
	}
	return names
}
