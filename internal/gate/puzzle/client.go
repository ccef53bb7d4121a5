// Package puzzle fetches questions from the banana puzzle API.
package puzzle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/domain"
)

// DefaultURL is the public banana API in JSON mode.
const DefaultURL = "https://marcconrad.com/uob/banana/api.php?out=json"

const maxResponseBytes = 64 << 10

var ErrUnavailable = errors.New("puzzle source unavailable")

type response struct {
	Question string       `json:"question"`
	Solution *json.Number `json:"solution"`
}

// Client implements service.PuzzleSource over HTTP.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	now     func() time.Time
}

// New returns a client for rawURL. A nil httpClient uses http.DefaultClient;
// per-request deadlines come from the caller's context.
func New(rawURL string, httpClient *http.Client) (*Client, error) {
	if rawURL == "" {
		rawURL = DefaultURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("puzzle: invalid url %q", rawURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: u, http: httpClient, now: time.Now}, nil
}

// requestURL appends a cache-busting timestamp so every call gets a fresh
// question.
func (c *Client) requestURL() string {
	u := *c.baseURL
	q := u.Query()
	q.Set("_", strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) Fetch(ctx context.Context) (domain.Puzzle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(), nil)
	if err != nil {
		return domain.Puzzle{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Puzzle{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return domain.Puzzle{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return domain.Puzzle{}, fmt.Errorf("%w: decode: %w", ErrUnavailable, err)
	}
	if body.Question == "" || body.Solution == nil {
		return domain.Puzzle{}, fmt.Errorf("%w: response lacks question or solution", ErrUnavailable)
	}

	solution, err := body.Solution.Int64()
	if err != nil {
		return domain.Puzzle{}, fmt.Errorf("%w: solution %q is not an integer", ErrUnavailable, body.Solution.String())
	}

	return domain.Puzzle{Image: body.Question, Solution: solution}, nil
}
