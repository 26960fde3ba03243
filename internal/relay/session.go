package relay

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// Session is one live websocket connection. It carries no identity:
// whatever names a dm frame contains are relayed as given.
type Session struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	addr        string
	connectedAt time.Time
	logger      *slog.Logger
}

// NewSession creates a session for conn. conn may be nil when the caller
// drains Send directly.
func NewSession(hub *Hub, conn *websocket.Conn, addr string) *Session {
	if conn != nil {
		conn.SetReadLimit(hub.cfg.MaxMessageSize)
	}
	return &Session{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, hub.cfg.SendBufferSize),
		addr:        addr,
		connectedAt: time.Now(),
		logger:      hub.logger.With(slog.String("remote_addr", addr)),
	}
}

// Send returns the session's outbound queue. It is closed when the session
// leaves the hub.
func (s *Session) Send() <-chan []byte {
	return s.send
}

func (s *Session) readPump() {
	defer func() {
		s.hub.Unregister(s)
		if err := s.conn.Close(); err != nil && !isExpectedCloseError(err) {
			s.logger.Warn("error closing connection in readPump", slog.String("error", err.Error()))
		}
	}()

	cfg := s.hub.cfg
	_ = s.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.logReadError(err)
			return
		}
		if !s.hub.Submit(s, data) {
			return
		}
	}
}

func (s *Session) logReadError(err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		s.logger.Warn("frame exceeded maximum size", slog.Int64("max_bytes", s.hub.cfg.MaxMessageSize))
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
		s.logger.Debug("session disconnected")
	case errors.Is(err, io.EOF), isExpectedCloseError(err):
		s.logger.Debug("session connection closed", slog.String("error", err.Error()))
	default:
		s.logger.Warn("websocket read error", slog.String("error", err.Error()))
	}
}

func (s *Session) writePump() {
	cfg := s.hub.cfg
	ticker := time.NewTicker(cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		if err := s.conn.Close(); err != nil && !isExpectedCloseError(err) {
			s.logger.Warn("error closing connection in writePump", slog.String("error", err.Error()))
		}
	}()

	for {
		select {
		case message, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if !ok {
				// Hub closed the queue
				_ = s.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.Warn("error writing frame", slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// isExpectedCloseError reports errors that only mean the peer is already gone
func isExpectedCloseError(err error) bool {
	return errors.Is(err, net.ErrClosed) ||
		errors.Is(err, websocket.ErrCloseSent) ||
		errors.Is(err, syscall.EPIPE)
}
