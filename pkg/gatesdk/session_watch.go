package gatesdk

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// WatchPhase follows the session's assurance phase over server-sent events
// and calls fn with every phase the gate reports, the current one first. It
// returns nil once the gate ends the stream, which it does after a
// needs-auth event, and ctx's error when ctx is cancelled. The client's
// Timeout does not apply to the stream.
func (s *Session) WatchPhase(ctx context.Context, path string, fn func(PhaseResponse)) error {
	target := s.client.url("/v1/session/phase/stream")
	if path != "" {
		target += "?path=" + url.QueryEscape(path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+s.token)

	streaming := *s.client.HTTPClient
	streaming.Timeout = 0

	resp, err := streaming.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}
		return parseErrorResponse(resp, body)
	}

	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		data, ok := strings.CutPrefix(sc.Text(), "data: ")
		if !ok {
			continue // event names, comments and separators
		}
		var phase PhaseResponse
		if err := json.Unmarshal([]byte(data), &phase); err != nil {
			return fmt.Errorf("failed to decode phase event: %w", err)
		}
		fn(phase)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return sc.Err()
}
