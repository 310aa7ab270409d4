// Package monitor is a terminal dashboard and remote for a running slidehand.
package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/slidehand/internal/app"
	"github.com/ayusman/slidehand/internal/control"
)

// Remote is the part of the HTTP API the dashboard drives.
type Remote interface {
	Trigger(ctx context.Context, cmd control.Command) error
	SetEnabled(ctx context.Context, enabled bool) error
}

// Client talks to the slidehand HTTP API and status feed.
type Client struct {
	addr   string
	http   *http.Client
	dialer *websocket.Dialer
}

// NewClient creates a Client for a server listening on addr (host:port).
func NewClient(addr string) *Client {
	return &Client{
		addr:   addr,
		http:   &http.Client{Timeout: 5 * time.Second},
		dialer: &websocket.Dialer{HandshakeTimeout: 5 * time.Second},
	}
}

// URL returns the web remote address.
func (c *Client) URL() string {
	return "http://" + c.addr + "/"
}

// Trigger queues a slide command.
func (c *Client) Trigger(ctx context.Context, cmd control.Command) error {
	return c.send(ctx, http.MethodPost, "/api/commands", cmd, http.StatusAccepted)
}

// SetEnabled turns gesture control on or off.
func (c *Client) SetEnabled(ctx context.Context, enabled bool) error {
	return c.send(ctx, http.MethodPut, "/api/status", map[string]bool{"enabled": enabled}, http.StatusOK)
}

func (c *Client) send(ctx context.Context, method, path string, body any, want int) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, "http://"+c.addr+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var e struct {
			Error string `json:"error"`
		}
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(msg, &e) == nil && e.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, e.Error)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	return nil
}

// Subscribe reads the status feed and calls fn for every update until the
// connection fails or ctx is done.
func (c *Client) Subscribe(ctx context.Context, fn func(app.Status)) error {
	conn, _, err := c.dialer.DialContext(ctx, "ws://"+c.addr+"/api/ws", nil)
	if err != nil {
		return fmt.Errorf("connect status feed: %w", err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var st app.Status
		if err := conn.ReadJSON(&st); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read status feed: %w", err)
		}
		fn(st)
	}
}
