// Package api is the viewer-side client for the task backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/RooCodeInc/RooVersation/task"
)

const DefaultBaseURL = "http://localhost:7180"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) ListTasks(ctx context.Context, source string) ([]task.Task, error) {
	u := fmt.Sprintf("%s/api/tasks/%s", c.baseURL, url.PathEscape(source))

	var tasks []task.Task
	if err := c.get(ctx, u, &tasks); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, source, id string) (*task.Conversation, error) {
	u := fmt.Sprintf("%s/api/task/%s/%s", c.baseURL, url.PathEscape(source), url.PathEscape(id))

	var conv task.Conversation
	if err := c.get(ctx, u, &conv); err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return &conv, nil
}

func (c *Client) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return task.ErrTaskNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error: %s", string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
