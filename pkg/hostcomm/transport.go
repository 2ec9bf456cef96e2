package hostcomm

import (
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/net/websocket"
)

// InboundMessage is one host-to-guest delivery: the sender's origin plus the
// raw JSON envelope. The origin travels out of band of the payload, exactly
// as a browser's message event separates event.origin from event.data.
type InboundMessage struct {
	Origin  string
	Payload []byte
}

// Transport moves envelopes between the guest and its host.
type Transport interface {
	// Send delivers an outbound payload to the host, fire-and-forget.
	Send(payload []byte) error

	// Receive returns the channel of inbound messages. The channel closes
	// when the transport closes.
	Receive() <-chan InboundMessage

	// Close shuts the transport down.
	Close() error
}

// ChannelTransport is an in-memory Transport used by tests and by hosts
// running in the same process.
type ChannelTransport struct {
	mu     sync.Mutex
	sent   [][]byte
	inbox  chan InboundMessage
	closed bool
}

// NewChannelTransport creates an in-memory transport.
func NewChannelTransport() *ChannelTransport {
	return &ChannelTransport{inbox: make(chan InboundMessage, 64)}
}

// Send records the outbound payload.
func (t *ChannelTransport) Send(payload []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return fmt.Errorf("transport is closed")
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	t.sent = append(t.sent, buf)
	return nil
}

// Sent returns copies of all payloads sent so far.
func (t *ChannelTransport) Sent() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]byte, len(t.sent))
	copy(out, t.sent)
	return out
}

// Deliver injects an inbound message as if the host had posted it.
// Deliveries after Close are dropped.
func (t *ChannelTransport) Deliver(origin string, payload []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.inbox <- InboundMessage{Origin: origin, Payload: payload}
}

// Receive returns the inbound channel.
func (t *ChannelTransport) Receive() <-chan InboundMessage {
	return t.inbox
}

// Close closes the transport and its inbound channel.
func (t *ChannelTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.closed = true
		close(t.inbox)
	}
	return nil
}

// wsFrame is the on-the-wire frame a websocket host relay uses: the message
// envelope plus the origin of the page that produced it.
type wsFrame struct {
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

// WebsocketTransport carries host frames over a websocket connection.
type WebsocketTransport struct {
	conn  *websocket.Conn
	inbox chan InboundMessage

	closeOnce sync.Once
	closeErr  error
}

// NewWebsocketTransport wraps an established websocket connection and starts
// the receive pump. The pump stops and closes the inbound channel when the
// connection errors or closes.
func NewWebsocketTransport(conn *websocket.Conn) *WebsocketTransport {
	t := &WebsocketTransport{
		conn:  conn,
		inbox: make(chan InboundMessage, 64),
	}
	go t.pump()
	return t
}

func (t *WebsocketTransport) pump() {
	defer close(t.inbox)
	for {
		var raw []byte
		if err := websocket.Message.Receive(t.conn, &raw); err != nil {
			return
		}
		var frame wsFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			// Unframeable data never reaches the dispatcher.
			continue
		}
		t.inbox <- InboundMessage{Origin: frame.Origin, Payload: frame.Message}
	}
}

// Send writes an outbound payload as a frame with no origin restriction.
func (t *WebsocketTransport) Send(payload []byte) error {
	frame, err := json.Marshal(wsFrame{Message: payload})
	if err != nil {
		return fmt.Errorf("failed to frame outbound message: %w", err)
	}
	if err := websocket.Message.Send(t.conn, string(frame)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Receive returns the inbound channel.
func (t *WebsocketTransport) Receive() <-chan InboundMessage {
	return t.inbox
}

// Close closes the underlying connection. Safe to call multiple times.
func (t *WebsocketTransport) Close() error {
	t.closeOnce.Do(func() {
		t.closeErr = t.conn.Close()
	})
	return t.closeErr
}
