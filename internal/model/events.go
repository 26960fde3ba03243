package model

import (
	"encoding/json"
	"errors"
	"time"
)

// EventType identifies a realtime event
type EventType string

const (
	EventDM    EventType = "dm"
	EventError EventType = "error"
)

// Envelope is the frame exchanged over a live connection
type Envelope struct {
	Event EventType       `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// DMRequest is the inbound dm payload
type DMRequest struct {
	From    *string `json:"from"`
	To      *string `json:"to"`
	Message *string `json:"message"`
}

// Errors returned by DMRequest validation
var (
	ErrMissingFrom    = errors.New("from is required")
	ErrMissingTo      = errors.New("to is required")
	ErrMissingMessage = errors.New("message is required")
)

// Validate checks required fields
func (r DMRequest) Validate() error {
	switch {
	case r.From == nil || *r.From == "":
		return ErrMissingFrom
	case r.To == nil || *r.To == "":
		return ErrMissingTo
	case r.Message == nil || *r.Message == "":
		return ErrMissingMessage
	}
	return nil
}

// DMEvent is the outbound dm payload, broadcast to every live session
type DMEvent struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorEvent is sent back to a session whose frame was rejected
type ErrorEvent struct {
	Message string `json:"message"`
}

// EncodeEnvelope wraps data in an Envelope and marshals it
func EncodeEnvelope(event EventType, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
