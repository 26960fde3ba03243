package relay

import "time"

// Config holds live relay settings
type Config struct {
	// MaxMessageSize caps an inbound frame in bytes
	MaxMessageSize int64

	// SendBufferSize is the number of outbound frames queued per session
	// before further frames to it are dropped
	SendBufferSize int

	// WriteWait is the time allowed to write one frame
	WriteWait time.Duration

	// PongWait is how long a session may stay silent before it is dropped
	PongWait time.Duration

	// PingPeriod must be shorter than PongWait
	PingPeriod time.Duration

	// AllowedOrigins limits browser connections. Empty or "*" allows any origin.
	AllowedOrigins []string

	// InboundBufferSize is the hub's queue of frames waiting to be relayed
	InboundBufferSize int
}

// DefaultConfig returns sensible defaults for the relay
func DefaultConfig() Config {
	return Config{
		MaxMessageSize:    64 * 1024,
		SendBufferSize:    256,
		WriteWait:         10 * time.Second,
		PongWait:          60 * time.Second,
		PingPeriod:        54 * time.Second,
		InboundBufferSize: 256,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.SendBufferSize <= 0 {
		c.SendBufferSize = d.SendBufferSize
	}
	if c.WriteWait <= 0 {
		c.WriteWait = d.WriteWait
	}
	if c.PongWait <= 0 {
		c.PongWait = d.PongWait
	}
	if c.PingPeriod <= 0 || c.PingPeriod >= c.PongWait {
		c.PingPeriod = c.PongWait * 9 / 10
	}
	if c.InboundBufferSize <= 0 {
		c.InboundBufferSize = d.InboundBufferSize
	}
	return c
}
