// Package censustest provides an in-process push service that speaks the
// streaming protocol, for tests and local development.
package censustest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/lxzan/gws"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/Lysander66/census-stream/pkg/capture"
	"github.com/Lysander66/census-stream/pkg/message"
)

// Server accepts websocket connections and keeps one subscription state per
// connection.
type Server struct {
	upgrader *gws.Upgrader

	mu       sync.RWMutex
	sessions map[*gws.Conn]*session
}

func NewServer() *Server {
	s := &Server{sessions: make(map[*gws.Conn]*session)}
	s.upgrader = gws.NewUpgrader(s, &gws.ServerOption{
		Recovery:          gws.Recovery,
		PermessageDeflate: gws.PermessageDeflate{Enabled: true},
		Authorize: func(r *http.Request, _ gws.SessionStorage) bool {
			_, err := message.ParseServiceID(r.URL.Query().Get("service-id"))
			return err == nil
		},
	})
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	socket, err := s.upgrader.Upgrade(w, r)
	if err != nil {
		slog.Error("upgrade", "err", err)
		return
	}
	go socket.ReadLoop()
}

// Connections reports the number of open sessions.
func (s *Server) Connections() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Publish delivers frame to every session. Service messages only reach
// sessions whose subscription covers them.
func (s *Server) Publish(frame []byte) {
	event := gjson.GetBytes(frame, "payload")
	s.mu.RLock()
	defer s.mu.RUnlock()
	for socket, sess := range s.sessions {
		if event.IsObject() && !sess.wants(event) {
			continue
		}
		if err := socket.WriteMessage(gws.OpcodeText, frame); err != nil {
			slog.Warn("publish", "err", err)
		}
	}
}

// Heartbeat publishes a heartbeat listing the known worlds every interval
// until ctx is done.
func (s *Server) Heartbeat(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Publish(HeartbeatFrame())
		}
	}
}

// Replay publishes the inbound frames of a capture. With pace set, the
// original gaps between frames are kept.
func (s *Server) Replay(ctx context.Context, r *capture.Reader, pace bool) error {
	var last int64
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if rec.Direction != capture.Inbound {
			continue
		}
		if pace && last != 0 && rec.At > last {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(rec.At - last)):
			}
		}
		last = rec.At
		s.Publish(rec.Bytes())
	}
}

// HeartbeatFrame reports every known world as online.
func HeartbeatFrame() []byte {
	names := make([]string, 0, len(message.Worlds))
	for name := range message.Worlds {
		names = append(names, name)
	}
	sort.Strings(names)

	frame := []byte(`{"online":{}}`)
	for _, name := range names {
		key := "EventServerEndpoint_" + name + "_" + message.Worlds[name].String()
		frame, _ = sjson.SetBytes(frame, "online."+key, "true")
	}
	frame, _ = sjson.SetBytes(frame, "service", "event")
	frame, _ = sjson.SetBytes(frame, "type", message.KindHeartbeat)
	return frame
}

// LoginFrame builds a PlayerLogin service message.
func LoginFrame(character message.CharacterID, world message.WorldID, at message.Timestamp) []byte {
	return sessionFrame(message.PlayerLogin, character, world, at)
}

func LogoutFrame(character message.CharacterID, world message.WorldID, at message.Timestamp) []byte {
	return sessionFrame(message.PlayerLogout, character, world, at)
}

func sessionFrame(name message.EventName, character message.CharacterID, world message.WorldID, at message.Timestamp) []byte {
	frame := []byte(`{"payload":{}}`)
	frame, _ = sjson.SetBytes(frame, "payload.character_id", character.String())
	frame, _ = sjson.SetBytes(frame, "payload.event_name", name.String())
	frame, _ = sjson.SetBytes(frame, "payload.timestamp", at.String())
	frame, _ = sjson.SetBytes(frame, "payload.world_id", world.String())
	frame, _ = sjson.SetBytes(frame, "service", "event")
	frame, _ = sjson.SetBytes(frame, "type", message.KindServiceMessage)
	return frame
}

func (s *Server) OnOpen(socket *gws.Conn) {
	s.mu.Lock()
	s.sessions[socket] = newSession()
	s.mu.Unlock()

	_ = socket.WriteMessage(gws.OpcodeText, []byte(`{"connected":"true","service":"push","type":"connectionStateChanged"}`))
	_ = socket.WriteMessage(gws.OpcodeText, HeartbeatFrame())
}

func (s *Server) OnClose(socket *gws.Conn, err error) {
	s.mu.Lock()
	delete(s.sessions, socket)
	s.mu.Unlock()
}

func (s *Server) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.WritePong(payload)
}

func (s *Server) OnPong(socket *gws.Conn, payload []byte) {}

func (s *Server) OnMessage(socket *gws.Conn, msg *gws.Message) {
	defer msg.Close()

	req := gjson.ParseBytes(msg.Bytes())
	s.mu.Lock()
	sess := s.sessions[socket]
	s.mu.Unlock()
	if sess == nil {
		return
	}

	switch action := req.Get("action").String(); action {
	case message.ActionEcho:
		_ = socket.WriteMessage(gws.OpcodeText, []byte(req.Get("payload").Raw))
	case message.ActionSubscribe:
		s.mu.Lock()
		sess.subscribe(req)
		reply := sess.reply()
		s.mu.Unlock()
		_ = socket.WriteMessage(gws.OpcodeText, reply)
	case message.ActionClearSubscribe:
		s.mu.Lock()
		sess.clear(req)
		reply := sess.reply()
		s.mu.Unlock()
		_ = socket.WriteMessage(gws.OpcodeText, reply)
	default:
		slog.Debug("unsupported action", "action", action)
	}
}
