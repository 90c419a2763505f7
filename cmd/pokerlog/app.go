package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"pokerlog/config"
	"pokerlog/internal/bot"
	"pokerlog/internal/chart"
	"pokerlog/internal/db"
	"pokerlog/internal/session"
	"pokerlog/internal/store"
)

// app holds the wired core shared by every transport.
type app struct {
	store      *store.GormStore
	dispatcher *bot.Dispatcher
	closers    []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("Failed to release resource", "error", err)
		}
	}
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	conn, err := db.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(conn); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	a := &app{store: store.New(conn)}
	a.closers = append(a.closers, a.store.Close)

	sessions, err := newSessionStore(ctx, cfg, a)
	if err != nil {
		a.Close()
		return nil, err
	}

	settings, err := botSettings(&cfg.Bot)
	if err != nil {
		a.Close()
		return nil, err
	}

	machine := bot.New(a.store, chart.NewPieRenderer(), settings)
	a.dispatcher = bot.NewDispatcher(machine, sessions)
	return a, nil
}

func newSessionStore(ctx context.Context, cfg *config.Config, a *app) (session.Store, error) {
	if cfg.Session.Backend != "redis" {
		return session.NewMemoryStore(), nil
	}
	rc := &cfg.Session.Redis
	ttl, err := rc.ParsedTTL()
	if err != nil {
		return nil, err
	}
	client, err := session.DialRedis(ctx, rc.Addr, rc.Password, rc.DB)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	slog.Info("Using redis session store", "addr", rc.Addr, "ttl", ttl)
	return session.NewRedisStore(client, ttl), nil
}

func botSettings(cfg *config.BotConfig) (bot.Settings, error) {
	seasons, err := cfg.ParsedSeasons()
	if err != nil {
		return bot.Settings{}, err
	}
	settings := bot.Settings{
		Cities:             cfg.Cities,
		Roster:             cfg.Players,
		ParticipantsCutoff: cfg.Cutoff(),
		Seasons:            seasons,
		RecentLimit:        cfg.RecentLimit,
	}
	if cfg.GreetingImage != "" {
		img, err := os.ReadFile(cfg.GreetingImage)
		if err != nil {
			slog.Warn("Greeting image is not readable, sending text only", "path", cfg.GreetingImage, "error", err)
		} else {
			settings.GreetingImage = img
		}
	}
	return settings, nil
}
