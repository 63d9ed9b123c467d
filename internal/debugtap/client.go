// ABOUTME: Client side of the debug tap
// ABOUTME: Watches a remote note stream and fetches state snapshots
package debugtap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
)

// Watch dials the hub at addr (host:port) and calls fn for every event
// until ctx is done or the connection drops.
func Watch(ctx context.Context, addr string, fn func(Event)) error {
	u := url.URL{Scheme: "ws", Host: addr, Path: AudioPath}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read failed: %w", err)
		}
		fn(ev)
	}
}

// FetchSnapshot reads /debug/state from the hub at addr
func FetchSnapshot(ctx context.Context, addr string) (Snapshot, error) {
	u := url.URL{Scheme: "http", Host: addr, Path: StatePath}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Snapshot{}, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("state request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Snapshot{}, fmt.Errorf("state request failed: HTTP %d", resp.StatusCode)
	}
	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("bad state document: %w", err)
	}
	return snap, nil
}
