package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// Subscription methods sent at session start, in order.
const (
	MethodNewToken   = "subscribeNewToken"
	MethodTokenTrade = "subscribeTokenTrade"
)

// Client is a persistent push subscription over a websocket. It is single
// use: once the connection drops or is closed, a new Client is needed.
type Client struct {
	conn *websocket.Conn

	closeOnce sync.Once
	closeErr  error
}

// Dial establishes the websocket connection.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// Subscribe sends the new-token and token-trade subscription frames, in that
// order.
func (c *Client) Subscribe(_ context.Context) error {
	for _, method := range []string{MethodNewToken, MethodTokenTrade} {
		frame, err := json.Marshal(map[string]string{"method": method})
		if err != nil {
			return fmt.Errorf("marshal subscribe frame: %w", err)
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return fmt.Errorf("send %s: %w", method, err)
		}
	}
	return nil
}

// Next blocks until the next inbound frame arrives. A closed connection
// (including one closed by Close to unblock a pending read) surfaces as an
// error.
func (c *Client) Next(_ context.Context) ([]byte, error) {
	_, payload, err := c.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return payload, nil
}

// Close releases the transport. It is safe to call from a goroutine other
// than the reader; a pending Next unblocks with an error.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}
