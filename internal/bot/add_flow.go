package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"pokerlog/internal/db/models"
	"pokerlog/internal/format"
	"pokerlog/internal/metrics"
	"pokerlog/internal/session"
	"pokerlog/internal/stats"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	pickPlayerText = "Пожалуйста, выберите игрока из списка:"
	numberText     = "Введите число:"
)

// Upper bounds on form numbers. They keep the bank inside numeric(12,2).
const (
	maxPlayers = 1000
	maxRebuys  = 10000
	maxBuyin   = 100000
)

// tracksParticipants reports whether the full participant list is collected
// for the game being drafted.
func (m *Machine) tracksParticipants(d *session.Draft) bool {
	return !d.GameDate.Before(m.settings.ParticipantsCutoff)
}

// eligible lists roster names that can still be picked as participants.
func (m *Machine) eligible(d *session.Draft) []string {
	skip := append([]string{d.Winner, d.SecondPlace}, d.SelectedPlayers...)
	return without(m.settings.Roster, skip...)
}

// checkEnoughPlayers aborts the flow when the roster cannot fill the
// declared player count.
func (m *Machine) checkEnoughPlayers(d *session.Draft) error {
	need := d.PlayersCount - len(d.SelectedPlayers) - 2
	if left := len(m.eligible(d)); left < need {
		return inconsistent(fmt.Sprintf(
			"Недостаточно игроков: нужно выбрать еще %d, в списке осталось %d. Игра не сохранена, начните заново.",
			need, left))
	}
	return nil
}

func (m *Machine) addDate(_ context.Context, conv *session.Conversation, input string) (outcome, error) {
	day, ok := parseDate(input)
	if !ok {
		return outcome{}, invalid("Неверный формат даты. Попробуйте еще раз " + datePrompt + ":")
	}
	conv.Draft.GameDate = day
	return to(AddCity), nil
}

func (m *Machine) addCity(_ context.Context, conv *session.Conversation, input string) (outcome, error) {
	if !contains(m.settings.Cities, input) {
		return outcome{}, invalid("Пожалуйста, выберите город из списка:")
	}
	conv.Draft.City = input
	return to(AddPlayersCount), nil
}

func (m *Machine) addPlayersCount(_ context.Context, conv *session.Conversation, input string) (outcome, error) {
	n, err := strconv.Atoi(input)
	if err != nil {
		return outcome{}, invalid(numberText)
	}
	if n < 2 {
		return outcome{}, invalid("Должно быть минимум 2 игрока. " + numberText)
	}
	if n > maxPlayers {
		return outcome{}, invalid(fmt.Sprintf("Слишком много игроков, максимум %d. %s", maxPlayers, numberText))
	}
	conv.Draft.PlayersCount = n
	return to(AddWinner), nil
}

func (m *Machine) addWinner(_ context.Context, conv *session.Conversation, input string) (outcome, error) {
	if !contains(m.settings.Roster, input) {
		return outcome{}, invalid(pickPlayerText)
	}
	conv.Draft.Winner = input
	return to(AddSecondPlace), nil
}

func (m *Machine) addSecondPlace(_ context.Context, conv *session.Conversation, input string) (outcome, error) {
	d := &conv.Draft
	if !contains(m.settings.Roster, input) {
		return outcome{}, invalid(pickPlayerText)
	}
	if input == d.Winner {
		return outcome{}, invalid("Победитель не может занять 2 место. Выберите другого игрока:")
	}
	d.SecondPlace = input

	if !m.tracksParticipants(d) || d.PlayersCount <= 2 {
		return to(AddRebuys), nil
	}
	if err := m.checkEnoughPlayers(d); err != nil {
		return outcome{}, err
	}
	return to(CollectParticipant), nil
}

func (m *Machine) collectParticipant(_ context.Context, conv *session.Conversation, input string) (outcome, error) {
	d := &conv.Draft
	if d.IsSelected(input) {
		return to(CollectParticipant, fmt.Sprintf("%s уже выбран. %s", input, m.prompt(CollectParticipant, conv))), nil
	}
	if !contains(m.eligible(d), input) {
		return outcome{}, invalid(pickPlayerText)
	}
	d.Select(input)

	if len(d.SelectedPlayers)+2 >= d.PlayersCount {
		return to(AddRebuys), nil
	}
	if err := m.checkEnoughPlayers(d); err != nil {
		return outcome{}, err
	}
	return to(CollectParticipant), nil
}

func (m *Machine) addRebuys(_ context.Context, conv *session.Conversation, input string) (outcome, error) {
	n, err := strconv.Atoi(input)
	if err != nil {
		return outcome{}, invalid(numberText)
	}
	if n < 0 {
		return outcome{}, invalid("Количество ребаев не может быть отрицательным. " + numberText)
	}
	if n > maxRebuys {
		return outcome{}, invalid(fmt.Sprintf("Слишком много ребаев, максимум %d. %s", maxRebuys, numberText))
	}
	conv.Draft.Rebuys = n
	return to(AddBuyin), nil
}

func (m *Machine) addBuyin(_ context.Context, conv *session.Conversation, input string) (outcome, error) {
	buyin, err := decimal.NewFromString(strings.ReplaceAll(input, ",", "."))
	if err != nil {
		return outcome{}, invalid(numberText)
	}
	if buyin.IsNegative() {
		return outcome{}, invalid("Бай-ин не может быть отрицательным. " + numberText)
	}
	if buyin.GreaterThan(decimal.NewFromInt(maxBuyin)) {
		return outcome{}, invalid(fmt.Sprintf("Бай-ин не может быть больше %d. %s", maxBuyin, numberText))
	}
	conv.Draft.Buyin = buyin
	return to(AddBigBlind), nil
}

func (m *Machine) addBigBlind(_ context.Context, conv *session.Conversation, input string) (outcome, error) {
	d := &conv.Draft
	bb, err := strconv.Atoi(input)
	if err != nil {
		return outcome{}, invalid(numberText)
	}
	if bb < 0 {
		return outcome{}, invalid("Большой блайнд не может быть отрицательным. " + numberText)
	}
	d.BigBlind = bb
	d.Bank = stats.Bank(d.PlayersCount, d.Rebuys, d.Buyin)
	return to(AddDescription, fmt.Sprintf("Банк автоматически рассчитан: %s\n%s",
		format.Money(d.Bank), m.prompt(AddDescription, conv))), nil
}

// addDescription commits the drafted game.
func (m *Machine) addDescription(ctx context.Context, conv *session.Conversation, input string) (outcome, error) {
	d := &conv.Draft
	if d.Winner == d.SecondPlace {
		return outcome{}, inconsistent("Победитель и 2 место совпадают. Игра не сохранена, начните заново.")
	}

	participants := []string{d.Winner, d.SecondPlace}
	if m.tracksParticipants(d) {
		participants = append(participants, d.SelectedPlayers...)
		if len(participants) != d.PlayersCount {
			return outcome{}, inconsistent(fmt.Sprintf(
				"Количество участников (%d) не совпадает с количеством игроков (%d). Игра не сохранена, начните заново.",
				len(participants), d.PlayersCount))
		}
	}

	game := &models.Game{
		Date:         datatypes.Date(d.GameDate),
		City:         d.City,
		PlayersCount: d.PlayersCount,
		Winner:       d.Winner,
		SecondPlace:  d.SecondPlace,
		Rebuys:       d.Rebuys,
		Buyin:        d.Buyin,
		BigBlind:     d.BigBlind,
		Bank:         d.Bank,
	}
	if input != "" && input != SkipLabel {
		desc := input
		game.Description = &desc
	}

	if err := m.store.CreateGame(ctx, game, participants); err != nil {
		return outcome{}, fmt.Errorf("create game: %w", err)
	}
	metrics.GamesRecorded.Inc()
	slog.Info("Game recorded", "conversation", conv.ID, "game", game.ID, "date", format.Date(game.Day()), "winner", game.Winner, "bank", format.Money(game.Bank))
	return to(MainMenu, format.GameAdded(game)), nil
}
