package lifelogsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Lifelog HTTP API client.
type Client struct {
	BaseURL     string
	APIKey      string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// MenuItem is one structured menu record.
type MenuItem struct {
	TypeID    int64  `json:"type_id"`
	Name      string `json:"name"`
	Timestamp int64  `json:"timestamp"`
	Elapsed   string `json:"time_elapsed"`
	Status    string `json:"status"`
	Emoji     string `json:"emoji"`
}

// ActivityType mirrors the API activity type model.
type ActivityType struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Toggle     bool   `json:"toggle"`
	StartLabel string `json:"start_label"`
	EndLabel   string `json:"end_label"`
	CategoryID int64  `json:"category_id"`
	Category   string `json:"category"`
	Emoji      string `json:"emoji"`
}

// Event represents a journal entry.
type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id"`
	Payload    string `json:"payload_json"`
}

// Created wraps creation responses.
type Created struct {
	NewID int64 `json:"new_id"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Menu returns the plain menu view keyed by bucket name.
func (c *Client) Menu(ctx context.Context) (map[string]json.RawMessage, error) {
	var resp map[string]json.RawMessage
	err := c.do(ctx, http.MethodGet, "menu-items", nil, &resp)
	return resp, err
}

// MenuStructured returns the structured (v2) menu view keyed by bucket name.
func (c *Client) MenuStructured(ctx context.Context) (map[string][]MenuItem, error) {
	var resp map[string][]MenuItem
	err := c.do(ctx, http.MethodGet, "menu-items/v2", nil, &resp)
	return resp, err
}

// LogActivity logs one activity. Timestamp is RFC3339; empty means now.
func (c *Client) LogActivity(ctx context.Context, typeID int64, status, description, timestamp string) (Created, error) {
	body := map[string]any{
		"type_id": typeID,
	}
	if status != "" {
		body["status"] = status
	}
	if description != "" {
		body["description"] = description
	}
	if timestamp != "" {
		body["timestamp"] = timestamp
	}
	var resp Created
	err := c.do(ctx, http.MethodPost, "activities", body, &resp)
	return resp, err
}

// CreateActivityType creates an activity type.
func (c *Client) CreateActivityType(ctx context.Context, t ActivityType) (Created, error) {
	body := map[string]any{
		"name":        t.Name,
		"toggle":      t.Toggle,
		"start_label": t.StartLabel,
		"end_label":   t.EndLabel,
		"category_id": t.CategoryID,
		"emoji":       t.Emoji,
	}
	var resp Created
	err := c.do(ctx, http.MethodPost, "activity-types", body, &resp)
	return resp, err
}

// ActivityTypes lists all activity types.
func (c *Client) ActivityTypes(ctx context.Context) ([]ActivityType, error) {
	var resp []ActivityType
	err := c.do(ctx, http.MethodGet, "activity-types", nil, &resp)
	return resp, err
}

// AddGame adds a game to the catalog.
func (c *Client) AddGame(ctx context.Context, name string) (Created, error) {
	var resp Created
	err := c.do(ctx, http.MethodPost, "games", map[string]any{"name": name}, &resp)
	return resp, err
}

// AddMovie adds a movie to the catalog.
func (c *Client) AddMovie(ctx context.Context, title string) (Created, error) {
	var resp Created
	err := c.do(ctx, http.MethodPost, "movies", map[string]any{"title": title}, &resp)
	return resp, err
}

// AddTVShow adds a TV show to the catalog.
func (c *Client) AddTVShow(ctx context.Context, title string) (Created, error) {
	var resp Created
	err := c.do(ctx, http.MethodPost, "tv-shows", map[string]any{"title": title}, &resp)
	return resp, err
}

// Events returns recent journal events.
func (c *Client) Events(ctx context.Context, limit int, evtType string) ([]Event, error) {
	endpoint := "events"
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}
	if evtType != "" {
		params.Set("type", evtType)
	}
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}
	var resp []Event
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	switch {
	case c.BearerToken != "":
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	case c.APIKey != "":
		req.Header.Set("X-Api-Key", c.APIKey)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
