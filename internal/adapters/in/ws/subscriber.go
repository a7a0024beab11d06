package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/silver-ring/printke-web/internal/core/domain/events"
	"github.com/silver-ring/printke-web/internal/realtime"
)

// subscriber adapts a websocket connection to realtime.Subscriber. Writes
// are serialized because gorilla connections allow one concurrent writer.
// Frames are bounded by writeWait, not by the publisher's context.
type subscriber struct {
	conn      *websocket.Conn
	writeWait time.Duration

	mu sync.Mutex
}

func newSubscriber(conn *websocket.Conn, writeWait time.Duration) *subscriber {
	return &subscriber{conn: conn, writeWait: writeWait}
}

func (s *subscriber) Send(_ context.Context, evt events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeWait)); err != nil {
		return err
	}
	return s.conn.WriteJSON(realtime.NewMessage(evt))
}
