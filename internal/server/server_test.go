package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pokerlog/internal/bot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDispatcher struct {
	conversation string
	text         string
	err          error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, conversation, text string) (bot.Response, error) {
	f.conversation, f.text = conversation, text
	if f.err != nil {
		return bot.Response{}, f.err
	}
	return bot.Response{
		State:    bot.AddDate,
		Messages: []bot.Message{{Text: "Введите дату игры (ДД.ММ.ГГГГ):", Keyboard: [][]string{{bot.CancelLabel}}}},
	}, nil
}

func TestPostMessage(t *testing.T) {
	d := &fakeDispatcher{}
	router := NewRouter(d)

	req := httptest.NewRequest(http.MethodPost, "/v1/conversations/chat-9/messages", strings.NewReader(`{"text":"Добавить игру"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "chat-9", d.conversation)
	assert.Equal(t, "Добавить игру", d.text)

	var reply bot.Reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "add_date", reply.State)
	assert.Equal(t, "chat-9", reply.Conversation)
	assert.NotEmpty(t, reply.RequestID)
	require.Len(t, reply.Messages, 1)
	assert.Equal(t, [][]string{{bot.CancelLabel}}, reply.Messages[0].Keyboard)
}

func TestPostMessageErrors(t *testing.T) {
	t.Run("bad body", func(t *testing.T) {
		router := NewRouter(&fakeDispatcher{})
		req := httptest.NewRequest(http.MethodPost, "/v1/conversations/1/messages", strings.NewReader(`{`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("dispatch failure", func(t *testing.T) {
		router := NewRouter(&fakeDispatcher{err: errors.New("redis down")})
		req := httptest.NewRequest(http.MethodPost, "/v1/conversations/1/messages", strings.NewReader(`{"text":"x"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var reply bot.Reply
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
		assert.Equal(t, "main_menu", reply.State)
	})

	t.Run("wrong method", func(t *testing.T) {
		router := NewRouter(&fakeDispatcher{})
		req := httptest.NewRequest(http.MethodGet, "/v1/conversations/1/messages", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	router := NewRouter(&fakeDispatcher{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
