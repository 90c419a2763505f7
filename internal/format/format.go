// Package format renders games and statistics as chat text.
package format

import (
	"fmt"
	"strings"
	"time"

	"pokerlog/internal/db/models"
	"pokerlog/internal/stats"

	"github.com/shopspring/decimal"
)

// DateLayout is how dates are shown to and typed by users.
const DateLayout = "02.01.2006"

func Date(t time.Time) string {
	return t.Format(DateLayout)
}

func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// GameAdded confirms a committed game.
func GameAdded(g *models.Game) string {
	var b strings.Builder
	b.WriteString("Игра успешно добавлена!\n")
	fmt.Fprintf(&b, "Дата: %s\n", Date(g.Day()))
	fmt.Fprintf(&b, "Город: %s\n", g.City)
	fmt.Fprintf(&b, "Игроков: %d\n", g.PlayersCount)
	fmt.Fprintf(&b, "Победитель: %s\n", g.Winner)
	fmt.Fprintf(&b, "2 место: %s\n", g.SecondPlace)
	if len(g.Participants) > 2 {
		fmt.Fprintf(&b, "Участники: %s\n", strings.Join(g.ParticipantNames(), ", "))
	}
	fmt.Fprintf(&b, "Банк: %s", Money(g.Bank))
	return b.String()
}

// GameDetails is the full card of one game, used by search.
func GameDetails(g *models.Game) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Дата: %s\n", Date(g.Day()))
	fmt.Fprintf(&b, "Город: %s\n", g.City)
	fmt.Fprintf(&b, "Игроков: %d\n", g.PlayersCount)
	fmt.Fprintf(&b, "Победитель: %s\n", g.Winner)
	fmt.Fprintf(&b, "2 место: %s\n", g.SecondPlace)
	if names := g.ParticipantNames(); len(names) > 0 {
		fmt.Fprintf(&b, "Участники: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, "Бай-ин: %s\n", Money(g.Buyin))
	fmt.Fprintf(&b, "Бобики: %d\n", g.BigBlind)
	fmt.Fprintf(&b, "Банк: %s\n", Money(g.Bank))
	fmt.Fprintf(&b, "Количество ребаев: %d\n", g.Rebuys)
	desc := "—"
	if g.Description != nil {
		desc = *g.Description
	}
	fmt.Fprintf(&b, "Описание: %s", desc)
	return b.String()
}

func SearchHeader(n int) string {
	return fmt.Sprintf("Найдено игр: %d", n)
}

// RecentGames lists the latest games for the main menu.
func RecentGames(games []models.Game) string {
	if len(games) == 0 {
		return "В базе пока нет игр."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Последние %d игр:\n\n", len(games))
	for i := range games {
		g := &games[i]
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, Date(g.Day()), g.City)
		fmt.Fprintf(&b, "   Игроков: %d\n", g.PlayersCount)
		fmt.Fprintf(&b, "   Победитель: %s\n", g.Winner)
		fmt.Fprintf(&b, "   2 место: %s\n\n", g.SecondPlace)
	}
	return strings.TrimRight(b.String(), "\n")
}

// DeleteList numbers recent games for deletion.
func DeleteList(games []models.Game) string {
	var b strings.Builder
	b.WriteString("Выберите игру для удаления:\n\n")
	for i := range games {
		g := &games[i]
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, Date(g.Day()), g.Winner)
	}
	return strings.TrimRight(b.String(), "\n")
}

// DeleteCandidates numbers games that share the date the user typed.
func DeleteCandidates(games []models.Game) string {
	var b strings.Builder
	b.WriteString("Найдено несколько игр:\n\n")
	for i := range games {
		g := &games[i]
		fmt.Fprintf(&b, "%d. %s, %s (Банк: %s)\n", i+1, g.Winner, g.City, Money(g.Bank))
	}
	return strings.TrimRight(b.String(), "\n")
}

func GameDeleted(g *models.Game) string {
	return fmt.Sprintf("✅ Игра успешно удалена:\nДата: %s\nПобедитель: %s", Date(g.Day()), g.Winner)
}

// PlayerReport renders the all-time card of one player. wins and seconds are
// expected newest first; only the first three of each are shown.
func PlayerReport(s stats.PlayerSummary, wins, seconds []models.Game) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Статистика игрока %s:\n", s.Name)
	fmt.Fprintf(&b, "🎲 Игр сыграно: %d\n", s.Played)
	fmt.Fprintf(&b, "🏆 Побед: %d\n", s.Wins)
	fmt.Fprintf(&b, "🥈 Вторых мест: %d\n", s.Seconds)
	fmt.Fprintf(&b, "💰 Выиграно банков: %s\n", Money(s.BankWon))

	if len(wins) > 0 {
		b.WriteString("\nПоследние победы:\n")
		for i := range firstN(wins, 3) {
			g := &wins[i]
			fmt.Fprintf(&b, "%d. %s - %s\n   Банк: %s\n", i+1, Date(g.Day()), g.City, Money(g.Bank))
		}
	}
	if len(seconds) > 0 {
		b.WriteString("\nПоследние 2 места:\n")
		for i := range firstN(seconds, 3) {
			g := &seconds[i]
			fmt.Fprintf(&b, "%d. %s - %s\n   Победитель: %s\n", i+1, Date(g.Day()), g.City, g.Winner)
		}
	}
	if s.Wins == 0 && s.Seconds == 0 && s.Played == 0 {
		b.WriteString("\nИгр с участием этого игрока не найдено.")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Ranking renders the all-players table.
func Ranking(rows []stats.PlayerSummary) string {
	var b strings.Builder
	b.WriteString("📊 Общая статистика всех игроков:\n\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "👤 %s\n🏆 Побед: %d | 🥈 Вторых мест: %d | 💰 %s\n\n", r.Name, r.Wins, r.Seconds, Money(r.BankWon))
	}
	return strings.TrimRight(b.String(), "\n")
}

// SeasonRanking renders the points table of one season.
func SeasonRanking(season stats.Season, rows []stats.SeasonScore) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏁 %s (%s – %s)\n\n", season.Name, Date(season.Start), Date(season.End))
	if len(rows) == 0 {
		b.WriteString("В этом сезоне игр не было.")
		return b.String()
	}
	for i, r := range rows {
		fmt.Fprintf(&b, "%d. %s — %.2f очк.\n   Игр: %d, побед: %d (%s), 2 мест: %d (%s)\n",
			i+1, r.Name, r.Score, r.Games, r.Wins, Percent(r.WinRate), r.Seconds, Percent(r.SecondRate))
	}
	return strings.TrimRight(b.String(), "\n")
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
