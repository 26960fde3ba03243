package model

import "time"

// Message is a persisted direct message.
// From and To are payload content and are not checked against known users.
type Message struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
