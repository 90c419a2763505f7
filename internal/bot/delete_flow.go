package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"pokerlog/internal/db/models"
	"pokerlog/internal/format"
	"pokerlog/internal/metrics"
	"pokerlog/internal/session"
)

func (m *Machine) deletePrompt(ctx context.Context, conv *session.Conversation, input string) (outcome, error) {
	if input == ListLabel {
		games, err := m.store.RecentGames(ctx, m.settings.RecentLimit)
		if err != nil {
			return outcome{}, fmt.Errorf("recent games: %w", err)
		}
		if len(games) == 0 {
			return to(MainMenu, "Нет последних игр для удаления"), nil
		}
		conv.Draft.DeleteOptions = deleteOptions(games)
		return to(DeleteDisambiguate, format.DeleteList(games)), nil
	}

	day, ok := parseDate(input)
	if !ok {
		return outcome{}, invalid("Неверный формат даты. Попробуйте еще раз " + datePrompt + " или нажмите '" + ListLabel + "':")
	}
	games, err := m.store.GamesByDate(ctx, day)
	if err != nil {
		return outcome{}, fmt.Errorf("games by date: %w", err)
	}
	switch len(games) {
	case 0:
		return outcome{}, invalid("Игр на эту дату не найдено. Введите другую дату или нажмите '" + ListLabel + "':")
	case 1:
		return m.deleteGame(ctx, conv, games[0].ID)
	default:
		conv.Draft.DeleteOptions = deleteOptions(games)
		return to(DeleteDisambiguate, format.DeleteCandidates(games)), nil
	}
}

func (m *Machine) deleteDisambiguate(ctx context.Context, conv *session.Conversation, input string) (outcome, error) {
	options := conv.Draft.DeleteOptions
	if len(options) == 0 {
		return outcome{}, ErrSessionExpired
	}
	id, ok := options[input]
	if !ok {
		return outcome{}, invalid("Выберите номер из списка")
	}
	return m.deleteGame(ctx, conv, id)
}

func (m *Machine) deleteGame(ctx context.Context, conv *session.Conversation, id uint) (outcome, error) {
	game, err := m.store.DeleteGame(ctx, id)
	if err != nil {
		return outcome{}, fmt.Errorf("delete game %d: %w", id, err)
	}
	metrics.GamesDeleted.Inc()
	slog.Info("Game deleted", "conversation", conv.ID, "game", game.ID, "date", format.Date(game.Day()))
	return to(MainMenu, format.GameDeleted(game)), nil
}

// deleteOptions numbers games from 1 in the order they are listed.
func deleteOptions(games []models.Game) map[string]uint {
	options := make(map[string]uint, len(games))
	for i := range games {
		options[strconv.Itoa(i+1)] = games[i].ID
	}
	return options
}
