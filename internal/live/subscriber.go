// Package live follows the websocket feed of a single post and reports
// changes to its score and comment count.
package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	trustedDomain    = "redditmedia.com"
	reconnectBackoff = 5 * time.Second
)

// ErrUntrustedHost is returned for websocket URLs outside the upstream's
// media domain.
var ErrUntrustedHost = errors.New("untrusted websocket host")

// Subscriber connects to post websocket feeds.
type Subscriber struct {
	dialer  *websocket.Dialer
	logger  *slog.Logger
	backoff time.Duration
	domain  string
}

// NewSubscriber creates a new live subscriber.
func NewSubscriber(logger *slog.Logger) *Subscriber {
	return &Subscriber{
		dialer:  websocket.DefaultDialer,
		logger:  logger,
		backoff: reconnectBackoff,
		domain:  trustedDomain,
	}
}

// Follow streams updates from wsURL until ctx is cancelled or the upstream
// closes the feed normally. It reconnects on transient errors.
func (s *Subscriber) Follow(ctx context.Context, wsURL string, fn func(Update) error) error {
	for {
		err := s.Stream(ctx, wsURL, fn)
		switch {
		case err == nil:
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, ErrUntrustedHost), errors.Is(err, errCallback):
			return err
		}

		s.logger.Error("live connection error, reconnecting", "url", wsURL, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.backoff):
			// backoff before reconnecting
		}
	}
}

// errCallback wraps errors returned by the update callback.
var errCallback = errors.New("update callback")

// Stream dials wsURL once and calls fn for every counter update until ctx is
// cancelled or the connection closes. A normal close returns nil.
func (s *Subscriber) Stream(ctx context.Context, wsURL string, fn func(Update) error) error {
	if err := s.checkHost(wsURL); err != nil {
		return err
	}

	conn, _, err := s.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial live feed: %w", err)
	}
	defer conn.Close()

	// unblock ReadMessage when the caller goes away
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	s.logger.Debug("connected to live feed", "url", wsURL)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}

		update, ok, err := parseEvent(message)
		if err != nil {
			s.logger.Error("failed to parse live event", "error", err)
			continue
		}
		if !ok {
			continue
		}

		if err := fn(update); err != nil {
			return fmt.Errorf("%w: %w", errCallback, err)
		}
	}
}

// checkHost accepts ws and wss URLs on the trusted domain or its subdomains.
func (s *Subscriber) checkHost(wsURL string) error {
	u, err := url.Parse(wsURL)
	if err != nil {
		return fmt.Errorf("parse websocket url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("%w: scheme %q", ErrUntrustedHost, u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host != s.domain && !strings.HasSuffix(host, "."+s.domain) {
		return fmt.Errorf("%w: %s", ErrUntrustedHost, host)
	}
	return nil
}
