package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
)

// URL is the agent endpoint for a relay listening on port.
func URL(port uint16) string {
	return fmt.Sprintf("ws://127.0.0.1:%d/", port)
}

// SendCounts connects to the relay at url as an agent, sends one
// set_tab_count message per count and closes normally.
func SendCounts(ctx context.Context, url string, counts ...uint32) error {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.CloseNow()

	for _, count := range counts {
		data, err := json.Marshal(wireMessage{Type: typeSetTabCountSnake, Count: count})
		if err != nil {
			return err
		}
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	return conn.Close(websocket.StatusNormalClosure, "")
}

// StatusURL is the status endpoint for a relay listening on port.
func StatusURL(port uint16) string {
	return fmt.Sprintf("http://127.0.0.1:%d/status", port)
}

// FetchStatus reads a running relay's status endpoint.
func FetchStatus(ctx context.Context, url string) (Snapshot, error) {
	var snap Snapshot
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return snap, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return snap, fmt.Errorf("get status: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return snap, fmt.Errorf("get status: unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return snap, fmt.Errorf("decode status: %w", err)
	}
	return snap, nil
}
