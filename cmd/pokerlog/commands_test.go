package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"pokerlog/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Defaults()
	require.NoError(t, err)
	cfg.Database.DSN = ":memory:"
	return cfg
}

func TestConsoleSession(t *testing.T) {
	ctx := context.Background()
	a, err := newApp(ctx, testConfig(t))
	require.NoError(t, err)
	defer a.Close()

	in := strings.NewReader("/start\nДобавить игру\n31.02.2025\n\nignored\n")
	var out bytes.Buffer
	require.NoError(t, runConsole(ctx, a.dispatcher, "console", in, &out))

	text := out.String()
	assert.Contains(t, text, "Выберите действие:")
	assert.Contains(t, text, "[Добавить игру] [Последние игры]")
	assert.Contains(t, text, "Введите дату игры (ДД.ММ.ГГГГ):")
	assert.Contains(t, text, "Неверный формат даты")
	assert.NotContains(t, text, "ignored")
}

func TestBotSettingsFromConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Bot.GreetingImage = "/does/not/exist.jpg"

	settings, err := botSettings(&cfg.Bot)
	require.NoError(t, err)
	assert.Equal(t, cfg.Bot.Players, settings.Roster)
	assert.Equal(t, "2025-01-01", settings.ParticipantsCutoff.Format(config.DayLayout))
	require.Len(t, settings.Seasons, 1)
	assert.Empty(t, settings.GreetingImage)
	assert.Equal(t, 5, settings.RecentLimit)
}

func TestConfigCommandMasksSecrets(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Password = "hunter2"

	cmd := newConfigCmd(func() *config.Config { return cfg })
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.RunE(cmd, nil))

	assert.NotContains(t, out.String(), "hunter2")
	assert.Equal(t, "hunter2", cfg.Database.Password)
}
