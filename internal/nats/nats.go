package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"pokerlog/config"
	"pokerlog/internal/bot"

	"github.com/nats-io/nats.go"
)

func Connect(cfg *config.NATSConfig) (*nats.Conn, nats.JetStreamContext, error) {
	address := fmt.Sprintf("nats://%s:%d", cfg.Host, cfg.Port)
	nc, err := nats.Connect(address, nats.Name("pokerlog"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return nc, js, nil
}

// ConfigureStream creates the stream, or updates its subjects when it
// already exists.
func ConfigureStream(js nats.JetStreamContext, streamCfg *config.StreamConfig) error {
	sc := &nats.StreamConfig{
		Name:     streamCfg.Name,
		Subjects: streamCfg.Subjects,
	}
	_, err := js.AddStream(sc)
	if errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		_, err = js.UpdateStream(sc)
	}
	if err != nil {
		return fmt.Errorf("failed to configure stream %s: %w", streamCfg.Name, err)
	}
	return nil
}

// Dispatcher processes one inbound chat message.
type Dispatcher interface {
	Dispatch(ctx context.Context, conversation, text string) (bot.Response, error)
}

// Inbound is the payload published by chat clients on
// <inbound_prefix>.<conversation>.
type Inbound struct {
	Text string `json:"text"`
}

// Transport feeds messages from JetStream into the bot and publishes every
// reply on <outbound_prefix>.<conversation>.
type Transport struct {
	js         nats.JetStreamContext
	dispatcher Dispatcher
	inbound    string
	outbound   string
	durable    string
	sub        *nats.Subscription
}

func NewTransport(js nats.JetStreamContext, dispatcher Dispatcher, cfg *config.NATSConfig) *Transport {
	return &Transport{
		js:         js,
		dispatcher: dispatcher,
		inbound:    cfg.InboundPrefix,
		outbound:   cfg.OutboundPrefix,
		durable:    cfg.Durable,
	}
}

// Start subscribes to all conversations. Messages of one subscription are
// delivered to the callback one at a time, so arrival order is kept.
func (t *Transport) Start(ctx context.Context) error {
	sub, err := t.js.Subscribe(t.inbound+".*", func(msg *nats.Msg) {
		t.handle(ctx, msg)
	}, nats.Durable(t.durable), nats.ManualAck(), nats.DeliverNew())
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s.*: %w", t.inbound, err)
	}
	t.sub = sub
	slog.Info("Listening for chat messages", "subject", t.inbound+".*")
	return nil
}

func (t *Transport) Stop() error {
	if t.sub == nil {
		return nil
	}
	return t.sub.Drain()
}

func (t *Transport) handle(ctx context.Context, msg *nats.Msg) {
	id, ok := conversationID(t.inbound, msg.Subject)
	if !ok {
		slog.Warn("Dropping message on unexpected subject", "subject", msg.Subject)
		msg.Term()
		return
	}

	var in Inbound
	if err := json.Unmarshal(msg.Data, &in); err != nil {
		slog.Warn("Dropping malformed message", "conversation", id, "error", err)
		msg.Term()
		return
	}

	reply := t.process(ctx, id, in.Text)
	data, err := json.Marshal(reply)
	if err != nil {
		slog.Error("Failed to encode reply", "conversation", id, "error", err)
		msg.Term()
		return
	}
	if _, err := t.js.Publish(replySubject(t.outbound, id), data); err != nil {
		slog.Error("Failed to publish reply", "conversation", id, "error", err)
		msg.Nak()
		return
	}
	msg.Ack()
}

func (t *Transport) process(ctx context.Context, id, text string) bot.Reply {
	resp, err := t.dispatcher.Dispatch(ctx, id, text)
	if err != nil {
		slog.Error("Failed to dispatch message", "conversation", id, "error", err)
		return bot.FailureReply(id)
	}
	return bot.NewReply(id, resp)
}

// conversationID extracts the last subject token after prefix.
func conversationID(prefix, subject string) (string, bool) {
	id, ok := strings.CutPrefix(subject, prefix+".")
	if !ok || id == "" || strings.Contains(id, ".") {
		return "", false
	}
	return id, true
}

func replySubject(prefix, conversation string) string {
	return prefix + "." + conversation
}
