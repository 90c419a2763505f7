// Package bot implements the conversation state machine of the poker
// logbook: menus, the add/delete/search flows and the statistics reports.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pokerlog/internal/db/models"
	"pokerlog/internal/format"
	"pokerlog/internal/metrics"
	"pokerlog/internal/session"
	"pokerlog/internal/stats"
	"pokerlog/internal/store"
)

const (
	greetingText = "Привет! Я веду учет наших покерных игр. Выберите действие:"
	cancelText   = "Действие отменено. Выберите новое действие:"
	failureText  = "Произошла ошибка. Попробуйте позже."
)

// Message is one outbound chat message. Keyboard holds the selectable
// replies, row by row; Image is a PNG payload.
type Message struct {
	Text     string     `json:"text,omitempty"`
	Keyboard [][]string `json:"keyboard,omitempty"`
	Image    []byte     `json:"image,omitempty"`
}

// Response is the result of one inbound message.
type Response struct {
	State    State     `json:"-"`
	Messages []Message `json:"messages"`
}

// ChartRenderer turns bank totals into an image.
type ChartRenderer interface {
	BankShares(shares []stats.BankShare) ([]byte, error)
}

// Settings is the configuration data the flows depend on.
type Settings struct {
	Cities             []string
	Roster             []string
	ParticipantsCutoff time.Time
	Seasons            []stats.Season
	RecentLimit        int
	GreetingImage      []byte
}

// outcome is what a handler decided: the next state and what to say on the
// way there. With no messages the next state's prompt is used.
type outcome struct {
	next   State
	msgs   []Message
	silent bool
}

func to(next State, texts ...string) outcome {
	out := outcome{next: next}
	for _, t := range texts {
		out.msgs = append(out.msgs, Message{Text: t})
	}
	return out
}

type handler func(ctx context.Context, conv *session.Conversation, input string) (outcome, error)

// Machine runs transitions for a single conversation at a time. It is safe
// for concurrent use as long as each conversation is handled by one caller
// at a time, which Dispatcher guarantees.
type Machine struct {
	store    store.Store
	charts   ChartRenderer
	settings Settings
	handlers map[State]handler
}

func New(st store.Store, charts ChartRenderer, settings Settings) *Machine {
	if settings.RecentLimit <= 0 {
		settings.RecentLimit = 5
	}
	m := &Machine{store: st, charts: charts, settings: settings}
	m.handlers = map[State]handler{
		MainMenu:           m.mainMenu,
		AddDate:            m.addDate,
		AddCity:            m.addCity,
		AddPlayersCount:    m.addPlayersCount,
		AddWinner:          m.addWinner,
		AddSecondPlace:     m.addSecondPlace,
		CollectParticipant: m.collectParticipant,
		AddRebuys:          m.addRebuys,
		AddBuyin:           m.addBuyin,
		AddBigBlind:        m.addBigBlind,
		AddDescription:     m.addDescription,
		SearchGame:         m.searchGame,
		PlayerStatsPrompt:  m.playerStats,
		SeasonsMenu:        m.seasonPoints,
		SeasonPoints:       m.seasonPoints,
		DeletePrompt:       m.deletePrompt,
		DeleteDisambiguate: m.deleteDisambiguate,
	}
	return m
}

// Handle feeds one inbound text to the conversation and returns what to send
// back. conv is updated in place. Handle never fails: every error is turned
// into a message and a transition.
func (m *Machine) Handle(ctx context.Context, conv *session.Conversation, text string) (resp Response) {
	input := strings.TrimSpace(text)
	from := ParseState(conv.State)

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Handler panicked", "conversation", conv.ID, "state", from, "panic", r)
			metrics.HandlerErrors.WithLabelValues("panic").Inc()
			resp = m.respond(conv, from, to(MainMenu, failureText))
		}
	}()

	switch input {
	case StartCommand:
		return m.respond(conv, from, m.greeting())
	case CancelLabel, CancelCommand:
		return m.respond(conv, from, to(MainMenu, cancelText))
	}

	out, err := m.handlers[from](ctx, conv, input)
	if err != nil {
		return m.fail(conv, from, err)
	}
	return m.respond(conv, from, out)
}

func (m *Machine) greeting() outcome {
	msg := Message{Text: greetingText}
	if len(m.settings.GreetingImage) > 0 {
		msg.Image = m.settings.GreetingImage
	}
	return outcome{next: MainMenu, msgs: []Message{msg}}
}

// respond applies the transition to conv and renders the reply. Entering
// MainMenu always drops the draft.
func (m *Machine) respond(conv *session.Conversation, from State, out outcome) Response {
	if out.next == MainMenu {
		conv.Reset()
	}
	conv.State = out.next.String()
	resp := Response{State: out.next}
	if out.silent {
		return resp
	}

	metrics.Transitions.WithLabelValues(from.String(), out.next.String()).Inc()
	slog.Debug("Transition", "conversation", conv.ID, "from", from, "to", out.next)

	msgs := out.msgs
	if len(msgs) == 0 {
		msgs = []Message{{Text: m.prompt(out.next, conv)}}
	}
	msgs[len(msgs)-1].Keyboard = m.keyboard(out.next, conv)
	resp.Messages = msgs
	return resp
}

// fail maps a handler error to its user-facing outcome.
func (m *Machine) fail(conv *session.Conversation, from State, err error) Response {
	var verr *ValidationError
	var cerr *ConsistencyError
	switch {
	case errors.As(err, &verr):
		metrics.HandlerErrors.WithLabelValues("validation").Inc()
		conv.State = from.String()
		return Response{State: from, Messages: []Message{{Text: verr.Msg, Keyboard: m.keyboard(from, conv)}}}
	case errors.As(err, &cerr):
		metrics.HandlerErrors.WithLabelValues("consistency").Inc()
		slog.Warn("Flow aborted", "conversation", conv.ID, "state", from, "reason", cerr.Msg)
		return m.respond(conv, from, to(MainMenu, cerr.Msg))
	case errors.Is(err, ErrSessionExpired):
		metrics.HandlerErrors.WithLabelValues("not_found").Inc()
		return m.respond(conv, from, to(MainMenu, "Сессия устарела, начните заново"))
	case errors.Is(err, store.ErrNotFound):
		metrics.HandlerErrors.WithLabelValues("not_found").Inc()
		return m.respond(conv, from, to(MainMenu, "Игра не найдена"))
	default:
		metrics.HandlerErrors.WithLabelValues("store").Inc()
		slog.Error("Handler failed", "conversation", conv.ID, "state", from, "error", err)
		return m.respond(conv, from, to(MainMenu, failureText))
	}
}

func (m *Machine) mainMenu(ctx context.Context, conv *session.Conversation, input string) (outcome, error) {
	switch input {
	case MenuAddGame:
		return to(AddDate), nil
	case MenuRecent:
		games, err := m.store.RecentGames(ctx, m.settings.RecentLimit)
		if err != nil {
			return outcome{}, fmt.Errorf("recent games: %w", err)
		}
		return to(MainMenu, format.RecentGames(games)), nil
	case MenuPlayerStats:
		return to(PlayerStatsPrompt), nil
	case MenuSearch:
		return to(SearchGame), nil
	case MenuDelete:
		return to(DeletePrompt), nil
	case MenuSeasons:
		if len(m.settings.Seasons) == 0 {
			return to(MainMenu, "Сезоны не настроены."), nil
		}
		return to(SeasonsMenu), nil
	default:
		return outcome{next: MainMenu, silent: true}, nil
	}
}

// parseDate reads a user-typed DD.MM.YYYY date as UTC midnight.
func parseDate(input string) (time.Time, bool) {
	day, err := time.ParseInLocation("2.1.2006", input, time.UTC)
	return day, err == nil
}

// toStats converts stored games for the aggregator.
func toStats(games []models.Game) []stats.Game {
	out := make([]stats.Game, 0, len(games))
	for i := range games {
		g := &games[i]
		out = append(out, stats.Game{
			Date:         g.Day(),
			Winner:       g.Winner,
			SecondPlace:  g.SecondPlace,
			Bank:         g.Bank,
			Participants: g.ParticipantNames(),
		})
	}
	return out
}
