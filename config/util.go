package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"pokerlog/internal/stats"
)

// DayLayout is the layout of every date in the config file.
const DayLayout = "2006-01-02"

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// ParseDay parses a YYYY-MM-DD date as UTC midnight.
func ParseDay(value string) (time.Time, error) {
	day, err := time.ParseInLocation(DayLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return day, nil
}

// Cutoff returns the date from which games carry a full participant list.
func (b *BotConfig) Cutoff() time.Time {
	day, _ := ParseDay(b.ParticipantsCutoff)
	return day
}

// ParsedSeasons converts the configured season windows.
func (b *BotConfig) ParsedSeasons() ([]stats.Season, error) {
	seasons := make([]stats.Season, 0, len(b.Seasons))
	for i, s := range b.Seasons {
		if s.Name == "" {
			return nil, fmt.Errorf("bot.seasons[%d]: name is required", i)
		}
		start, err := ParseDay(s.Start)
		if err != nil {
			return nil, fmt.Errorf("bot.seasons[%d].start: %w", i, err)
		}
		end, err := ParseDay(s.End)
		if err != nil {
			return nil, fmt.Errorf("bot.seasons[%d].end: %w", i, err)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("bot.seasons[%d]: end %s is before start %s", i, s.End, s.Start)
		}
		seasons = append(seasons, stats.Season{Name: s.Name, Start: start, End: end})
	}
	return seasons, nil
}

// ParsedTTL returns the redis session expiry; zero means no expiry.
func (r *RedisConfig) ParsedTTL() (time.Duration, error) {
	if r.TTL == "" {
		return 0, nil
	}
	return time.ParseDuration(r.TTL)
}
