package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

// envelope is the relay's wire frame
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type errorEvent struct {
	Message string `json:"message"`
}

type dmRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Message string `json:"message"`
}

func newDMCmd() *cobra.Command {
	var from, to string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "dm <message>",
		Short: "Send a direct message over the live relay",
		Long: `Connect to the relay, send one direct message and wait for the
server to relay it back. The printed timestamp is the one the server stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			dm, err := sendDM(ctx, dmRequest{From: from, To: to, Message: args[0]})
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(*dm)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Sender username (required)")
	cmd.Flags().StringVar(&to, "to", "", "Recipient username (required)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "How long to wait for the relay")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newListenCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Print direct messages as they are relayed",
		Long: `Connect to the relay and print every direct message it broadcasts.

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			return listen(ctx, count, func(dm DMEvent) { out.Print(dm) })
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "Exit after this many messages (0 = until interrupted)")

	return cmd
}

// dialRelay opens a websocket to the server and closes it when ctx ends
func dialRelay(ctx context.Context) (*websocket.Conn, func(), error) {
	wsURL, err := cfg.WebsocketURL()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid server URL: %w", err)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, nil, fmt.Errorf("connection failed: HTTP %d", resp.StatusCode)
		}
		return nil, nil, fmt.Errorf("connection failed: %w", err)
	}
	if cfg.Verbose {
		_, _ = fmt.Fprintf(os.Stderr, "Connected to %s\n", wsURL)
	}

	// Unblock pending reads on cancellation
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	closeFn := func() {
		close(done)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}
	return conn, closeFn, nil
}

// readDM returns the next dm event. Server error events become errors.
func readDM(conn *websocket.Conn) (*DMEvent, error) {
	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			return nil, err
		}

		switch env.Event {
		case "dm":
			var dm DMEvent
			if err := json.Unmarshal(env.Data, &dm); err != nil {
				return nil, fmt.Errorf("invalid dm payload: %w", err)
			}
			return &dm, nil
		case "error":
			var e errorEvent
			_ = json.Unmarshal(env.Data, &e)
			return nil, fmt.Errorf("relay rejected frame: %s", e.Message)
		}
	}
}

func sendDM(ctx context.Context, req dmRequest) (*DMEvent, error) {
	conn, closeFn, err := dialRelay(ctx)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	if err := conn.WriteJSON(envelope{Event: "dm", Data: mustMarshal(req)}); err != nil {
		return nil, fmt.Errorf("send failed: %w", err)
	}

	// Every session receives every dm, so skip traffic from other senders.
	// Frames carry no sender id: an identical dm sent by another client at the
	// same moment can be taken for our echo, and its timestamp printed instead.
	for {
		dm, err := readDM(conn)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("no reply from relay: %w", ctx.Err())
			}
			return nil, err
		}
		if dm.From == req.From && dm.To == req.To && dm.Message == req.Message {
			return dm, nil
		}
	}
}

func listen(ctx context.Context, count int, handle func(DMEvent)) error {
	conn, closeFn, err := dialRelay(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	for received := 0; count == 0 || received < count; received++ {
		dm, err := readDM(conn)
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return fmt.Errorf("relay closed the connection: %s", closeErr.Text)
			}
			return err
		}
		handle(*dm)
	}
	return nil
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
