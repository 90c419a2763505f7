package format

import (
	"testing"
	"time"

	"pokerlog/internal/db/models"
	"pokerlog/internal/stats"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func game(d int, winner, second string, bank int64) models.Game {
	return models.Game{
		Date:         datatypes.Date(time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)),
		City:         "Выборг",
		PlayersCount: 2,
		Winner:       winner,
		SecondPlace:  second,
		Buyin:        decimal.NewFromInt(bank / 2),
		Bank:         decimal.NewFromInt(bank),
	}
}

func TestGameDetails(t *testing.T) {
	g := game(15, "A", "B", 400)
	g.Participants = []models.Player{{Name: "A"}, {Name: "B"}}

	text := GameDetails(&g)
	assert.Contains(t, text, "Дата: 15.06.2025")
	assert.Contains(t, text, "Участники: A, B")
	assert.Contains(t, text, "Банк: 400.00")
	assert.Contains(t, text, "Описание: —")

	desc := "финал"
	g.Description = &desc
	assert.Contains(t, GameDetails(&g), "Описание: финал")
}

func TestDeleteCandidatesNumbersFromOne(t *testing.T) {
	text := DeleteCandidates([]models.Game{game(1, "A", "B", 100), game(1, "C", "D", 250)})
	assert.Equal(t, "Найдено несколько игр:\n\n1. A, Выборг (Банк: 100.00)\n2. C, Выборг (Банк: 250.00)", text)
}

func TestPlayerReportShowsLastThree(t *testing.T) {
	wins := []models.Game{game(5, "A", "B", 500), game(4, "A", "B", 400), game(3, "A", "B", 300), game(2, "A", "B", 200)}
	s := stats.PlayerSummary{Name: "A", Wins: 4, Played: 4, BankWon: decimal.NewFromInt(1400)}

	text := PlayerReport(s, wins, nil)
	assert.Contains(t, text, "05.06.2025")
	assert.Contains(t, text, "03.06.2025")
	assert.NotContains(t, text, "02.06.2025")
	assert.NotContains(t, text, "Последние 2 места")
	assert.Contains(t, text, "1400.00")
}

func TestPlayerReportWithoutGames(t *testing.T) {
	text := PlayerReport(stats.PlayerSummary{Name: "Z", BankWon: decimal.Zero}, nil, nil)
	assert.Contains(t, text, "Игр с участием этого игрока не найдено.")
}

func TestSeasonRankingEmpty(t *testing.T) {
	s := stats.Season{
		Name:  "Сезон 2025",
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	assert.Contains(t, SeasonRanking(s, nil), "В этом сезоне игр не было.")
	assert.Contains(t, SeasonRanking(s, []stats.SeasonScore{{Name: "A", Games: 2, Wins: 1, WinRate: 50, Score: 50}}), "1. A — 50.00 очк.")
}
