package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cadencehq/cadence/pkg/api"
	"github.com/cadencehq/cadence/pkg/assist"
	"github.com/cadencehq/cadence/pkg/types"
)

// Client talks to a running cadence daemon over its local HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the daemon at addr (host:port).
func NewClient(addr string) *Client {
	return &Client{
		baseURL: "http://" + addr,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Widget fetches the current widget snapshot.
func (c *Client) Widget() (*types.WidgetSnapshot, error) {
	var snapshot types.WidgetSnapshot
	if err := c.get("/widget", &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Plan fetches a day's plan. An empty date means today.
func (c *Client) Plan(date string) (*api.PlanResponse, error) {
	path := "/plan"
	if date != "" {
		path += "?date=" + date
	}
	var resp api.PlanResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Acknowledge submits an acknowledge action for an item.
func (c *Client) Acknowledge(itemID string) error {
	return c.postAction("/actions/ack", itemID)
}

// Snooze submits a snooze action for an item.
func (c *Client) Snooze(itemID string) error {
	return c.postAction("/actions/snooze", itemID)
}

// Skip submits a skip action for an item.
func (c *Client) Skip(itemID string) error {
	return c.postAction("/actions/skip", itemID)
}

// AddTasks injects manual tasks for a date. start is an optional
// RFC3339 placement hint; empty means the daemon picks the next
// free slot.
func (c *Client) AddTasks(date, start string, tasks []assist.Suggestion) ([]string, error) {
	req := api.TaskRequest{Date: date, Start: start, Tasks: tasks}
	var resp api.TaskResponse
	if err := c.post("/tasks", req, &resp); err != nil {
		return nil, err
	}
	return resp.Created, nil
}

func (c *Client) postAction(path, itemID string) error {
	return c.post(path, api.ActionRequest{ItemID: itemID}, nil)
}

func (c *Client) get(path string, out interface{}) error {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("failed to reach daemon: %w", err)
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func (c *Client) post(path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to reach daemon: %w", err)
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func decode(resp *http.Response, out interface{}) error {
	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("daemon returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
