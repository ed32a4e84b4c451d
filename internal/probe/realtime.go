package probe

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"probectl/internal/config"
	"probectl/internal/logging"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Realtime probes the backend's websocket channel
type Realtime struct {
	cfg     *config.Config
	timeout time.Duration
	log     zerolog.Logger
}

// NewRealtime creates a Realtime prober
func NewRealtime(cfg *config.Config, logger zerolog.Logger) *Realtime {
	timeout := cfg.ProbeTimeout
	if timeout <= 0 {
		timeout = config.DefaultProbeTimeout
	}
	return &Realtime{cfg: cfg, timeout: timeout, log: logger}
}

func (r *Realtime) dial(ctx context.Context) (*websocket.Conn, string, int, error) {
	target, err := r.cfg.GetRealtimeURL()
	if err != nil {
		return nil, "", 0, err
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, "", 0, fmt.Errorf("parse realtime url: %w", err)
	}
	header := http.Header{}
	if key := r.cfg.Backend.APIKey; key != "" {
		q := u.Query()
		q.Set("apikey", key)
		u.RawQuery = q.Encode()
		header.Set("apikey", key)
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: r.timeout,
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, target, resp.StatusCode, fmt.Errorf("websocket handshake with %s failed (status %d): %w", target, resp.StatusCode, err)
		}
		return nil, target, 0, fmt.Errorf("websocket handshake with %s: %w", target, err)
	}
	return conn, target, resp.StatusCode, nil
}

// Connect performs the websocket handshake and closes cleanly
func (r *Realtime) Connect(ctx context.Context) (any, error) {
	start := time.Now()
	conn, target, status, err := r.dial(ctx)
	if err != nil {
		return nil, err
	}
	latency := time.Since(start)

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "probe done")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	logging.DeferClose(r.log, conn, "close websocket")

	return map[string]any{
		"url":        target,
		"status":     status,
		"latency_ms": latency.Milliseconds(),
	}, nil
}

// Ping sends a ping control frame and waits for the matching pong
func (r *Realtime) Ping(ctx context.Context) (any, error) {
	conn, target, _, err := r.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer logging.DeferClose(r.log, conn, "close websocket")

	payload := fmt.Sprintf("probectl-%d", time.Now().UnixNano())
	pong := make(chan struct{}, 1)
	conn.SetPongHandler(func(appData string) error {
		if appData == payload {
			select {
			case pong <- struct{}{}:
			default:
			}
		}
		return nil
	})

	// control frames are only dispatched while reading
	readErr := make(chan error, 1)
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				readErr <- err
				return
			}
		}
	}()

	start := time.Now()
	deadline := start.Add(r.timeout)
	if err := conn.WriteControl(websocket.PingMessage, []byte(payload), deadline); err != nil {
		return nil, fmt.Errorf("send ping: %w", err)
	}

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case <-pong:
		return map[string]any{
			"url":           target,
			"round_trip_ms": time.Since(start).Milliseconds(),
		}, nil
	case err := <-readErr:
		return nil, fmt.Errorf("connection closed before pong: %w", err)
	case <-timer.C:
		return nil, fmt.Errorf("no pong from %s within %s", target, r.timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
