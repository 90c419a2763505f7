package bot

import (
	"fmt"
	"sort"
	"strconv"

	"pokerlog/internal/session"
)

// Button labels and commands. They are matched as exact strings before any
// other parsing.
const (
	StartCommand  = "/start"
	CancelCommand = "/cancel"
	CancelLabel   = "Отмена"
	ListLabel     = "Список"
	AllLabel      = "все"
	SkipLabel     = "-"
	HomeLabel     = "Главное меню"

	MenuAddGame     = "Добавить игру"
	MenuRecent      = "Последние игры"
	MenuPlayerStats = "Статистика игроков"
	MenuSearch      = "Найти игру"
	MenuDelete      = "Удалить игру"
	MenuSeasons     = "Сезоны"
)

const datePrompt = "(ДД.ММ.ГГГГ)"

var mainMenuKeyboard = [][]string{
	{MenuAddGame, MenuRecent},
	{MenuPlayerStats, MenuSearch},
	{MenuDelete, MenuSeasons},
}

var cancelOnly = [][]string{{CancelLabel}}

// columns lays labels out n per row.
func columns(labels []string, n int) [][]string {
	var rows [][]string
	for i := 0; i < len(labels); i += n {
		end := min(i+n, len(labels))
		rows = append(rows, append([]string(nil), labels[i:end]...))
	}
	return rows
}

func withCancel(rows [][]string) [][]string {
	return append(rows, []string{CancelLabel})
}

// keyboard returns the choice set offered while conv sits in state.
func (m *Machine) keyboard(state State, conv *session.Conversation) [][]string {
	d := &conv.Draft
	switch state {
	case MainMenu:
		return mainMenuKeyboard
	case AddCity:
		return withCancel(columns(m.settings.Cities, 1))
	case AddWinner:
		return withCancel(columns(m.settings.Roster, 2))
	case AddSecondPlace:
		return withCancel(columns(without(m.settings.Roster, d.Winner), 2))
	case CollectParticipant:
		return withCancel(columns(m.eligible(d), 2))
	case AddDescription:
		return [][]string{{SkipLabel}, {CancelLabel}}
	case PlayerStatsPrompt:
		return withCancel(append([][]string{{AllLabel}}, columns(m.settings.Roster, 2)...))
	case SeasonsMenu, SeasonPoints:
		names := make([]string, 0, len(m.settings.Seasons))
		for _, s := range m.settings.Seasons {
			names = append(names, s.Name)
		}
		return append(columns(names, 2), []string{HomeLabel})
	case DeletePrompt:
		return [][]string{{ListLabel}, {CancelLabel}}
	case DeleteDisambiguate:
		return withCancel(columns(optionKeys(d.DeleteOptions), 5))
	default:
		return cancelOnly
	}
}

// prompt is the question asked when a state is entered without anything
// more specific to say.
func (m *Machine) prompt(state State, conv *session.Conversation) string {
	switch state {
	case AddDate:
		return "Введите дату игры " + datePrompt + ":"
	case AddCity:
		return "Выберите город:"
	case AddPlayersCount:
		return "Введите количество игроков:"
	case AddWinner:
		return "Выберите победителя:"
	case AddSecondPlace:
		return "Выберите игрока, занявшего 2 место:"
	case CollectParticipant:
		d := &conv.Draft
		return fmt.Sprintf("Выберите остальных участников (выбрано %d из %d):", len(d.SelectedPlayers)+2, d.PlayersCount)
	case AddRebuys:
		return "Введите количество ребаев:"
	case AddBuyin:
		return "Введите бай-ин:"
	case AddBigBlind:
		return "Введите большой блайнд:"
	case AddDescription:
		return "Введите описание (необязательно, или отправьте '-' чтобы пропустить):"
	case SearchGame:
		return "Введите дату " + datePrompt + " или название города:"
	case PlayerStatsPrompt:
		return "Выберите игрока или '" + AllLabel + "' для общей статистики:"
	case SeasonsMenu:
		return "Выберите сезон:"
	case SeasonPoints:
		return "Выберите другой сезон или вернитесь в главное меню:"
	case DeletePrompt:
		return "Введите дату игры для удаления " + datePrompt + " или нажмите '" + ListLabel + "':"
	case DeleteDisambiguate:
		return "Выберите номер из списка:"
	default:
		return "Выберите действие:"
	}
}

// optionKeys returns the delete option labels in numeric order.
func optionKeys(options map[string]uint) []string {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})
	return keys
}

func without(names []string, skip ...string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !contains(skip, n) {
			out = append(out, n)
		}
	}
	return out
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
