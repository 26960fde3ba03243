package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case []Warning:
		o.printWarnings(v)
	case DMEvent:
		o.printDM(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	Role        string   `json:"role"`
	Followers   []string `json:"followers"`
	Following   []string `json:"following"`
}

// Warning response type
type Warning struct {
	ID        string    `json:"id"`
	Target    string    `json:"target"`
	Reason    string    `json:"reason"`
	By        string    `json:"by"`
	CreatedAt time.Time `json:"createdAt"`
}

// DMEvent is the payload of a relayed dm
type DMEvent struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResult response type
type HealthResult struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

func (o *Output) printUser(u User) {
	_, _ = fmt.Fprintf(o.w, "User: %s (%s)\n", u.DisplayName, u.Username)
	_, _ = fmt.Fprintf(o.w, "Role: %s\n", u.Role)
	_, _ = fmt.Fprintf(o.w, "Followers (%d): %s\n", len(u.Followers), strings.Join(u.Followers, ", "))
	_, _ = fmt.Fprintf(o.w, "Following (%d): %s\n", len(u.Following), strings.Join(u.Following, ", "))
}

func (o *Output) printWarnings(ws []Warning) {
	if len(ws) == 0 {
		_, _ = fmt.Fprintln(o.w, "No warnings")
		return
	}
	for _, w := range ws {
		_, _ = fmt.Fprintf(o.w, "[%s] %s by %s: %s\n", w.CreatedAt.Format(time.DateTime), w.Target, w.By, w.Reason)
	}
}

func (o *Output) printDM(dm DMEvent) {
	_, _ = fmt.Fprintf(o.w, "[%s] %s -> %s: %s\n", dm.Timestamp.Format(time.DateTime), dm.From, dm.To, dm.Message)
}

func (o *Output) printHealthResult(h HealthResult) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	_, _ = fmt.Fprintf(o.w, "Live sessions: %d\n", h.Sessions)
}
