// Package stats turns game records into per-player counts, rates and season
// scores. Nothing here touches storage.
package stats

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SecondPlaceWeight is how much a runner-up rate counts towards a season score.
const SecondPlaceWeight = 0.33

// Game is the minimal view of a stored game needed for aggregation.
type Game struct {
	Date         time.Time
	Winner       string
	SecondPlace  string
	Bank         decimal.Decimal
	Participants []string
}

// Season is an inclusive [Start, End] date window.
type Season struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Contains reports whether day falls inside the window, ends included.
func (s Season) Contains(day time.Time) bool {
	return !day.Before(s.Start) && !day.After(s.End)
}

// PlayerSummary holds all-time counts for one player.
type PlayerSummary struct {
	Name    string
	Wins    int
	Seconds int
	Played  int
	BankWon decimal.Decimal
}

// SeasonScore is one row of a season ranking.
type SeasonScore struct {
	Name       string
	Games      int
	Wins       int
	Seconds    int
	WinRate    float64
	SecondRate float64
	Score      float64
}

// BankShare is the total bank a player took home across all wins.
type BankShare struct {
	Name  string
	Total decimal.Decimal
}

// players returns the names that took part in a game. Games without an
// explicit participant list count the winner and runner-up.
func (g Game) players() []string {
	if len(g.Participants) > 0 {
		return g.Participants
	}
	return []string{g.Winner, g.SecondPlace}
}

// Summarize computes all-time counts for a single player.
func Summarize(name string, games []Game) PlayerSummary {
	summary := PlayerSummary{Name: name, BankWon: decimal.Zero}
	for _, g := range games {
		if g.Winner == name {
			summary.Wins++
			summary.BankWon = summary.BankWon.Add(g.Bank)
		}
		if g.SecondPlace == name {
			summary.Seconds++
		}
		for _, p := range g.players() {
			if p == name {
				summary.Played++
				break
			}
		}
	}
	return summary
}

// Ranking groups games by winner and runner-up and orders players by
// (wins, seconds) descending. Ties keep the order of roster first, then first
// appearance in games. Players with neither a win nor a second place are
// left out.
func Ranking(games []Game, roster []string) []PlayerSummary {
	byName := make(map[string]*PlayerSummary)
	var order []string
	track := func(name string) *PlayerSummary {
		if s, ok := byName[name]; ok {
			return s
		}
		s := &PlayerSummary{Name: name, BankWon: decimal.Zero}
		byName[name] = s
		order = append(order, name)
		return s
	}
	for _, name := range roster {
		track(name)
	}

	for _, g := range games {
		w := track(g.Winner)
		w.Wins++
		w.BankWon = w.BankWon.Add(g.Bank)
		track(g.SecondPlace).Seconds++
		for _, p := range g.players() {
			track(p).Played++
		}
	}

	out := make([]PlayerSummary, 0, len(order))
	for _, name := range order {
		s := byName[name]
		if s.Wins == 0 && s.Seconds == 0 {
			continue
		}
		out = append(out, *s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].Seconds > out[j].Seconds
	})
	return out
}

// SeasonRanking scores every player who played at least one game inside the
// season window:
//
//	winRate    = wins / games * 100
//	secondRate = seconds / games * 100
//	score      = winRate + 0.33 * secondRate
//
// Rows are ordered by score descending; equal scores keep roster order, then
// first appearance.
func SeasonRanking(games []Game, season Season, roster []string) []SeasonScore {
	byName := make(map[string]*SeasonScore)
	var order []string
	track := func(name string) *SeasonScore {
		if s, ok := byName[name]; ok {
			return s
		}
		s := &SeasonScore{Name: name}
		byName[name] = s
		order = append(order, name)
		return s
	}
	for _, name := range roster {
		track(name)
	}

	for _, g := range games {
		if !season.Contains(g.Date) {
			continue
		}
		for _, p := range g.players() {
			track(p).Games++
		}
		track(g.Winner).Wins++
		track(g.SecondPlace).Seconds++
	}

	out := make([]SeasonScore, 0, len(order))
	for _, name := range order {
		s := byName[name]
		if s.Games == 0 {
			continue
		}
		s.WinRate = float64(s.Wins) / float64(s.Games) * 100
		s.SecondRate = float64(s.Seconds) / float64(s.Games) * 100
		s.Score = s.WinRate + SecondPlaceWeight*s.SecondRate
		out = append(out, *s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// BankShares totals the bank won per player, largest first.
func BankShares(games []Game) []BankShare {
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, g := range games {
		if _, ok := totals[g.Winner]; !ok {
			order = append(order, g.Winner)
			totals[g.Winner] = decimal.Zero
		}
		totals[g.Winner] = totals[g.Winner].Add(g.Bank)
	}

	out := make([]BankShare, 0, len(order))
	for _, name := range order {
		out = append(out, BankShare{Name: name, Total: totals[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}

// Bank derives the prize pool: (players + rebuys) * buyin, rounded to cents.
func Bank(playersCount, rebuys int, buyin decimal.Decimal) decimal.Decimal {
	entries := decimal.NewFromInt(int64(playersCount)).Add(decimal.NewFromInt(int64(rebuys)))
	return entries.Mul(buyin).Round(2)
}
