package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/taptext/internal/dependencies/clock"
	"github.com/mcoot/taptext/internal/model"
)

// ErrHubClosed is returned when a session tries to join a hub that has shut down
var ErrHubClosed = errors.New("relay hub closed")

// MessageLog persists relayed messages
type MessageLog interface {
	Append(ctx context.Context, from, to, message string, timestamp time.Time) (*model.Message, error)
}

type inboundFrame struct {
	session *Session
	data    []byte
}

// Hub is the registry of live sessions. A single goroutine (Run) owns the
// session set and handles one event at a time, so a dm is timestamped,
// persisted and fanned out before the next frame is looked at.
type Hub struct {
	messages MessageLog
	clock    clock.Clock
	logger   *slog.Logger
	cfg      Config

	sessions map[*Session]struct{}
	mu       sync.RWMutex

	// lastTS is the newest dm timestamp handed out; only Run touches it
	lastTS time.Time

	// Channels for managing sessions
	register   chan *Session
	unregister chan *Session
	inbound    chan inboundFrame
	done       chan struct{}
	closeOnce  sync.Once

	// ctx is handed to the message log and cancelled on Close
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a new Hub. Call Run in its own goroutine.
func NewHub(messages MessageLog, clock clock.Clock, cfg Config, logger *slog.Logger) *Hub {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		messages:   messages,
		clock:      clock,
		logger:     logger.With(slog.String("component", "relay")),
		cfg:        cfg,
		sessions:   make(map[*Session]struct{}),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		inbound:    make(chan inboundFrame, cfg.InboundBufferSize),
		done:       make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run starts the hub's event loop and returns after Close
func (h *Hub) Run() {
	h.logger.Info("relay hub started")
	for {
		select {
		case session := <-h.register:
			h.mu.Lock()
			h.sessions[session] = struct{}{}
			sessionCount := len(h.sessions)
			h.mu.Unlock()
			h.logger.Info("session registered",
				slog.String("remote_addr", session.addr),
				slog.Int("total_sessions", sessionCount))

		case session := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.sessions[session]; ok {
				delete(h.sessions, session)
				close(session.send)
				sessionCount := len(h.sessions)
				h.mu.Unlock()
				h.logger.Info("session unregistered",
					slog.String("remote_addr", session.addr),
					slog.Duration("connection_duration", time.Since(session.connectedAt)),
					slog.Int("total_sessions", sessionCount))
			} else {
				h.mu.Unlock()
			}

		case frame := <-h.inbound:
			h.dispatch(frame)

		case <-h.done:
			h.mu.Lock()
			sessionCount := len(h.sessions)
			for session := range h.sessions {
				close(session.send)
				delete(h.sessions, session)
			}
			h.mu.Unlock()
			h.logger.Info("relay hub stopped", slog.Int("disconnected_sessions", sessionCount))
			return
		}
	}
}

// dispatch handles one inbound frame on the hub goroutine
func (h *Hub) dispatch(frame inboundFrame) {
	h.mu.RLock()
	_, registered := h.sessions[frame.session]
	h.mu.RUnlock()
	if !registered {
		return
	}

	var env model.Envelope
	if err := json.Unmarshal(frame.data, &env); err != nil {
		h.reject(frame.session, "invalid frame")
		return
	}

	switch env.Event {
	case model.EventDM:
		var req model.DMRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			h.reject(frame.session, "invalid dm payload")
			return
		}
		if err := req.Validate(); err != nil {
			h.reject(frame.session, err.Error())
			return
		}
		h.relayDM(*req.From, *req.To, *req.Message)
	default:
		h.reject(frame.session, "unknown event: "+string(env.Event))
	}
}

// relayDM persists the message and broadcasts it to every session, the sender
// included. Both copies carry the same timestamp. A failed write is logged and
// the broadcast still goes out.
func (h *Hub) relayDM(from, to, message string) {
	ts := h.nextTimestamp()

	if _, err := h.messages.Append(h.ctx, from, to, message, ts); err != nil {
		h.logger.Error("failed to persist message",
			slog.String("from", from),
			slog.String("to", to),
			slog.String("error", err.Error()))
	}

	payload, err := model.EncodeEnvelope(model.EventDM, model.DMEvent{
		From:      from,
		To:        to,
		Message:   message,
		Timestamp: ts,
	})
	if err != nil {
		h.logger.Error("failed to encode dm", slog.String("error", err.Error()))
		return
	}

	sent, dropped := h.broadcast(payload)
	h.logger.Debug("dm relayed",
		slog.String("from", from),
		slog.String("to", to),
		slog.Int("sent", sent),
		slog.Int("dropped", dropped))
}

// nextTimestamp reads the clock but never returns a time before the previous dm's
func (h *Hub) nextTimestamp() time.Time {
	ts := h.clock.Now()
	if ts.Before(h.lastTS) {
		ts = h.lastTS
	}
	h.lastTS = ts
	return ts
}

func (h *Hub) broadcast(payload []byte) (sent, dropped int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for session := range h.sessions {
		select {
		case session.send <- payload:
			sent++
		default:
			dropped++
			h.logger.Warn("message dropped - session buffer full",
				slog.String("remote_addr", session.addr))
		}
	}
	if dropped > 0 {
		h.logger.Warn("broadcast partial failure",
			slog.Int("sent", sent),
			slog.Int("dropped", dropped))
	}
	return sent, dropped
}

// reject sends an error event to one session only
func (h *Hub) reject(session *Session, reason string) {
	payload, err := model.EncodeEnvelope(model.EventError, model.ErrorEvent{Message: reason})
	if err != nil {
		return
	}
	h.logger.Debug("frame rejected",
		slog.String("remote_addr", session.addr),
		slog.String("reason", reason))

	select {
	case session.send <- payload:
	default:
		h.logger.Warn("error reply dropped - session buffer full",
			slog.String("remote_addr", session.addr))
	}
}

// Register adds a session to the hub
func (h *Hub) Register(session *Session) error {
	if h.closed() {
		return ErrHubClosed
	}
	select {
	case h.register <- session:
		return nil
	case <-h.done:
		return ErrHubClosed
	}
}

// Unregister removes a session from the hub and closes its send queue
func (h *Hub) Unregister(session *Session) {
	select {
	case h.unregister <- session:
	case <-h.done:
	}
}

// Submit queues a raw inbound frame from session. It blocks while the hub
// queue is full and returns false once the hub has shut down.
func (h *Hub) Submit(session *Session, data []byte) bool {
	if h.closed() {
		return false
	}
	select {
	case h.inbound <- inboundFrame{session: session, data: data}:
		return true
	case <-h.done:
		return false
	}
}

// Close disconnects every session and stops the hub
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.cancel()
	})
}

func (h *Hub) closed() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// SessionCount returns the number of live sessions
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
