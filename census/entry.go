package census

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Lysander66/census-stream/pkg/capture"
	"github.com/Lysander66/census-stream/pkg/message"
)

// Dial connects with cfg. The returned close function also flushes the
// capture file, if one is configured.
func Dial(ctx context.Context, cfg Config, handler Handler) (*Client, func() error, error) {
	addr, err := cfg.URL()
	if err != nil {
		return nil, nil, err
	}

	opts := []Option{WithHandshakeTimeout(cfg.HandshakeTimeout)}
	var recorder *capture.Recorder
	if cfg.Capture != "" {
		recorder, err = capture.Create(cfg.Capture)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, WithRecorder(recorder))
	}

	client := NewClient(addr, handler, opts...)
	if err := client.Connect(ctx); err != nil {
		if recorder != nil {
			_ = recorder.Close()
		}
		return nil, nil, err
	}

	closeFn := func() error {
		err := client.Close()
		if errors.Is(err, ErrNotConnected) {
			err = nil
		}
		if recorder != nil {
			err = errors.Join(err, recorder.Close())
		}
		return err
	}
	return client, closeFn, nil
}

// LogHandler writes every message to slog.
type LogHandler struct{}

func (LogHandler) OnMessage(msg message.Message) {
	switch m := msg.(type) {
	case *message.ConnectionStateChanged:
		slog.Info("connection state", "connected", m.Connected)
	case *message.Heartbeat:
		online := 0
		worlds := m.Worlds()
		for _, up := range worlds {
			if up {
				online++
			}
		}
		slog.Debug("heartbeat", "worlds", len(worlds), "online", online)
	case *message.ServiceStateChanged:
		slog.Info("service state", "online", m.Online, "detail", m.Detail)
	case *message.Subscription:
		slog.Info("subscription",
			"characters", m.State.CharacterCount,
			"events", m.State.EventNames,
			"worlds", m.State.Worlds,
			"logicalAnd", m.State.LogicalAndCharactersWithWorlds)
	case *message.ServiceMessage:
		logEvent(m.Payload)
	default:
		slog.Info("message", "kind", msg.Kind())
	}
}

func (LogHandler) OnError(err error, frame []byte) {
	slog.Error("bad frame", "err", err, "len", len(frame))
}

func logEvent(e message.Event) {
	switch e := e.(type) {
	case *message.PlayerLoginEvent:
		slog.Info("login", "character", e.CharacterID, "world", worldName(e.WorldID), "at", e.Timestamp)
	case *message.PlayerLogoutEvent:
		slog.Info("logout", "character", e.CharacterID, "world", worldName(e.WorldID), "at", e.Timestamp)
	default:
		slog.Info("event", "name", e.EventName())
	}
}

func worldName(id message.WorldID) string {
	for name, known := range message.Worlds {
		if known == id {
			return name
		}
	}
	return id.String()
}
