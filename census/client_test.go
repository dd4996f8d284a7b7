package census

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lysander66/census-stream/census/censustest"
	"github.com/Lysander66/census-stream/pkg/capture"
	"github.com/Lysander66/census-stream/pkg/message"
)

type recorder struct {
	messages chan message.Message
	errors   chan error
}

func newRecorder() *recorder {
	return &recorder{
		messages: make(chan message.Message, 64),
		errors:   make(chan error, 64),
	}
}

func (r *recorder) OnMessage(msg message.Message) { r.messages <- msg }

func (r *recorder) OnError(err error, frame []byte) { r.errors <- err }

// next skips heartbeats.
func (r *recorder) next(t *testing.T) message.Message {
	t.Helper()
	for {
		select {
		case msg := <-r.messages:
			if msg.Kind() == message.KindHeartbeat {
				continue
			}
			return msg
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for a message")
			return nil
		}
	}
}

func startServer(t *testing.T) (*censustest.Server, string) {
	t.Helper()
	srv := censustest.NewServer()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	addr, err := Endpoint("ws"+strings.TrimPrefix(ts.URL, "http")+"/streaming", PC, "s:test")
	require.NoError(t, err)
	return srv, addr
}

func TestClientSubscribeAndReceive(t *testing.T) {
	srv, addr := startServer(t)
	handler := newRecorder()

	path := filepath.Join(t.TempDir(), "session.br")
	rec, err := capture.Create(path)
	require.NoError(t, err)

	client := NewClient(addr, handler, WithRecorder(rec))
	require.NoError(t, client.Connect(context.Background()))

	assert.Equal(t, &message.ConnectionStateChanged{Connected: true}, handler.next(t))
	assert.True(t, client.Connected())

	require.NoError(t, client.Send(&message.Subscribe{
		Service:    message.ServiceEvent,
		EventNames: message.Events(message.PlayerLogin),
		Worlds:     message.WorldsOf(message.Connery),
	}))
	assert.Equal(t, &message.Subscription{State: message.SubscriptionState{
		EventNames: []string{"PlayerLogin"},
		Worlds:     []string{"1"},
	}}, handler.next(t))

	srv.Publish(censustest.LoginFrame(1, message.Miller, 1513785700))
	srv.Publish(censustest.LoginFrame(5428602376718262177, message.Connery, 1513785744))
	assert.Equal(t, &message.ServiceMessage{Payload: &message.PlayerLoginEvent{
		CharacterID: 5428602376718262177,
		Timestamp:   1513785744,
		WorldID:     message.Connery,
	}}, handler.next(t))

	require.NoError(t, client.Send(&message.Echo{
		Service: message.ServiceEvent,
		Payload: json.RawMessage(`{"nothing":"known"}`),
	}))
	select {
	case err := <-handler.errors:
		assert.ErrorIs(t, err, message.ErrUnrecognizedMessage)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the echo")
	}

	require.NoError(t, client.Close())
	select {
	case <-client.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("connection did not close")
	}
	require.NoError(t, rec.Close())

	r, err := capture.Open(path)
	require.NoError(t, err)
	defer r.Close()
	records, err := r.All()
	require.NoError(t, err)

	var in, out int
	for _, rec := range records {
		switch rec.Direction {
		case capture.Inbound:
			in++
		case capture.Outbound:
			out++
		}
	}
	assert.Equal(t, 2, out)
	assert.GreaterOrEqual(t, in, 4)
}

func TestClientSendBeforeConnect(t *testing.T) {
	client := NewClient("ws://127.0.0.1:1/streaming", newRecorder())
	err := client.Send(&message.RecentCharacterIDs{Service: message.ServiceEvent})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestClientEncodeError(t *testing.T) {
	client := NewClient("ws://127.0.0.1:1/streaming", newRecorder())
	err := client.Send(&message.Echo{Service: message.ServiceEvent, Payload: json.RawMessage(`{`)})
	assert.ErrorIs(t, err, message.ErrInvalidPayload)
}

func TestClientRejectedServiceID(t *testing.T) {
	srv := censustest.NewServer()
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := NewClient("ws"+strings.TrimPrefix(ts.URL, "http")+"/streaming?service-id=bad", newRecorder(),
		WithHandshakeTimeout(2*time.Second))
	assert.Error(t, client.Connect(context.Background()))
}
