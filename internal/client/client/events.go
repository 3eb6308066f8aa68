package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/shipagency/internal/models"
	"github.com/dmitrijs2005/shipagency/internal/netx"
	"github.com/gorilla/websocket"
)

// WatchEvents streams vessel change events to fn until ctx is cancelled or
// the server closes the connection. A normal close returns nil.
func (c *HTTPClient) WatchEvents(ctx context.Context, fn func(models.Event)) error {
	token := c.Token()
	if token == "" {
		return ErrNotLoggedIn
	}

	wsURL, err := netx.WebSocketURL(c.baseURL, "/api/vessels/events", url.Values{"token": {token}})
	if err != nil {
		return err
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.http.Timeout}
	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusSwitchingProtocols {
				return &Error{Status: resp.StatusCode}
			}
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	for {
		var e models.Event
		if err := conn.ReadJSON(&e); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var ce *websocket.CloseError
			if errors.As(err, &ce) && (ce.Code == websocket.CloseNormalClosure || ce.Code == websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}
		fn(e)
	}
}
