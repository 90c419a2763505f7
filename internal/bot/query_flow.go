package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"pokerlog/internal/chart"
	"pokerlog/internal/db/models"
	"pokerlog/internal/format"
	"pokerlog/internal/session"
	"pokerlog/internal/stats"
)

func (m *Machine) searchGame(ctx context.Context, _ *session.Conversation, input string) (outcome, error) {
	if input == "" {
		return outcome{}, invalid(m.prompt(SearchGame, nil))
	}

	var (
		games []models.Game
		err   error
	)
	if day, ok := parseDate(input); ok {
		games, err = m.store.GamesByDate(ctx, day)
	} else {
		games, err = m.store.GamesByCity(ctx, input)
	}
	if err != nil {
		return outcome{}, fmt.Errorf("search games: %w", err)
	}
	if len(games) == 0 {
		return to(MainMenu, "Игр не найдено."), nil
	}

	texts := make([]string, 0, len(games)+1)
	texts = append(texts, format.SearchHeader(len(games)))
	for i := range games {
		texts = append(texts, format.GameDetails(&games[i]))
	}
	return to(MainMenu, texts...), nil
}

func (m *Machine) playerStats(ctx context.Context, _ *session.Conversation, input string) (outcome, error) {
	if strings.EqualFold(input, AllLabel) {
		return m.allPlayersReport(ctx)
	}
	if !contains(m.settings.Roster, input) {
		return outcome{}, invalid("Пожалуйста, выберите игрока из списка или '" + AllLabel + "':")
	}

	games, err := m.store.GamesByPlayer(ctx, input)
	if err != nil {
		return outcome{}, fmt.Errorf("games by player: %w", err)
	}
	var wins, seconds []models.Game
	for _, g := range games {
		switch input {
		case g.Winner:
			wins = append(wins, g)
		case g.SecondPlace:
			seconds = append(seconds, g)
		}
	}
	summary := stats.Summarize(input, toStats(games))
	return to(MainMenu, format.PlayerReport(summary, wins, seconds)), nil
}

// allPlayersReport sends the ranking text and, when it can be drawn, the bank
// pie chart. A chart failure never suppresses the text.
func (m *Machine) allPlayersReport(ctx context.Context) (outcome, error) {
	games, err := m.store.AllGames(ctx)
	if err != nil {
		return outcome{}, fmt.Errorf("all games: %w", err)
	}
	if len(games) == 0 {
		return to(MainMenu, "В базе нет данных об играх."), nil
	}

	all := toStats(games)
	out := to(MainMenu, format.Ranking(stats.Ranking(all, m.settings.Roster)))
	if m.charts == nil {
		return out, nil
	}
	img, err := m.charts.BankShares(stats.BankShares(all))
	switch {
	case errors.Is(err, chart.ErrNoData):
	case err != nil:
		slog.Warn("Failed to render bank chart", "error", err)
	default:
		out.msgs = append(out.msgs, Message{Image: img})
	}
	return out, nil
}

// seasonPoints serves both the season menu and the ranking view: picking a
// season shows its table and stays in the sub-menu.
func (m *Machine) seasonPoints(ctx context.Context, _ *session.Conversation, input string) (outcome, error) {
	if input == HomeLabel {
		return to(MainMenu), nil
	}
	for _, season := range m.settings.Seasons {
		if season.Name != input {
			continue
		}
		games, err := m.store.GamesBetween(ctx, season.Start, season.End)
		if err != nil {
			return outcome{}, fmt.Errorf("season games: %w", err)
		}
		rows := stats.SeasonRanking(toStats(games), season, m.settings.Roster)
		return to(SeasonPoints, format.SeasonRanking(season, rows)), nil
	}
	return outcome{}, invalid("Выберите сезон из списка:")
}
