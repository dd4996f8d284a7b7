package census

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lxzan/gws"

	"github.com/Lysander66/census-stream/pkg/capture"
	"github.com/Lysander66/census-stream/pkg/message"
)

var ErrNotConnected = errors.New("census: not connected")

// Handler receives every inbound frame. Frames that fail to decode are
// passed to OnError together with the raw text.
type Handler interface {
	OnMessage(msg message.Message)
	OnError(err error, frame []byte)
}

type Option func(*Client)

// WithRecorder captures every frame sent and received.
func WithRecorder(r *capture.Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *Client) { c.handshakeTimeout = d }
}

// Client owns one connection to the push service. It does not reconnect;
// Done is closed when the connection goes away.
type Client struct {
	addr             string
	handler          Handler
	recorder         *capture.Recorder
	handshakeTimeout time.Duration

	mu        sync.Mutex
	conn      *gws.Conn
	done      chan struct{}
	closeOnce sync.Once
	err       error

	connected atomic.Bool
	frames    atomic.Uint64
}

func NewClient(addr string, handler Handler, opts ...Option) *Client {
	c := &Client{
		addr:             addr,
		handler:          handler,
		handshakeTimeout: 10 * time.Second,
		done:             make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect dials the service and starts reading. Cancelling ctx closes the
// connection.
func (c *Client) Connect(ctx context.Context) error {
	option := &gws.ClientOption{
		Addr:             c.addr,
		RequestHeader:    http.Header{},
		HandshakeTimeout: c.handshakeTimeout,
		PermessageDeflate: gws.PermessageDeflate{
			Enabled:               true,
			ServerContextTakeover: true,
			ClientContextTakeover: true,
		},
	}
	socket, _, err := gws.NewClient(c, option)
	if err != nil {
		return fmt.Errorf("connect %s: %w", c.addr, err)
	}

	c.mu.Lock()
	c.conn = socket
	c.mu.Unlock()

	go socket.ReadLoop()
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-c.done:
		}
	}()
	return nil
}

// Send encodes a and writes it as a single text frame.
func (c *Client) Send(a message.Action) error {
	data, err := message.Encode(a)
	if err != nil {
		return fmt.Errorf("encode %s: %w", a.Name(), err)
	}

	c.mu.Lock()
	socket := c.conn
	c.mu.Unlock()
	if socket == nil {
		return ErrNotConnected
	}

	c.record(capture.Outbound, data)
	if err := socket.WriteMessage(gws.OpcodeText, data); err != nil {
		return fmt.Errorf("write %s: %w", a.Name(), err)
	}
	slog.Debug("sent", "action", a.Name(), "len", len(data))
	return nil
}

// Connected reports the push service's last connectionStateChanged.
func (c *Client) Connected() bool { return c.connected.Load() }

// Frames counts inbound frames.
func (c *Client) Frames() uint64 { return c.frames.Load() }

func (c *Client) Done() <-chan struct{} { return c.done }

// Err is the reason the connection closed, valid after Done.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Client) Close() error {
	c.mu.Lock()
	socket := c.conn
	c.mu.Unlock()
	if socket == nil {
		return ErrNotConnected
	}
	socket.WriteClose(1000, []byte("normal closure"))
	return nil
}

func (c *Client) record(dir capture.Direction, frame []byte) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(dir, frame); err != nil {
		slog.Error("capture", "err", err)
	}
}

func (c *Client) OnOpen(socket *gws.Conn) {
	slog.Info("stream open", "addr", c.addr)
}

func (c *Client) OnClose(socket *gws.Conn, err error) {
	c.connected.Store(false)
	c.mu.Lock()
	c.conn = nil
	c.err = err
	c.mu.Unlock()
	c.closeOnce.Do(func() { close(c.done) })

	if err != nil {
		slog.Info("stream closed", "err", err)
	}
}

func (c *Client) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.WritePong(payload)
}

func (c *Client) OnPong(socket *gws.Conn, payload []byte) {
}

func (c *Client) OnMessage(socket *gws.Conn, msg *gws.Message) {
	defer msg.Close()

	frame := bytes.Clone(msg.Bytes())
	c.frames.Add(1)
	c.record(capture.Inbound, frame)

	decoded, err := message.Decode(frame)
	if err != nil {
		slog.Warn("decode", "err", err)
		c.handler.OnError(err, frame)
		return
	}
	if m, ok := decoded.(*message.ConnectionStateChanged); ok {
		c.connected.Store(m.Connected)
	}
	c.handler.OnMessage(decoded)
}
