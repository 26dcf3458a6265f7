// Package todoist is a minimal client for the Todoist REST API v1.
package todoist

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kiosk404/echotask/pkg/logger"
	"github.com/kiosk404/echotask/pkg/utils/json"
)

const (
	ModuleName = "todoist"

	DefaultBaseURL  = "https://api.todoist.com"
	DefaultPageSize = 50
	MaxPageSize     = 200

	tasksPath = "/api/v1/tasks"
)

// Client talks to the Todoist task endpoints. It is safe to share, but echotask
// only ever drives it from one goroutine.
type Client struct {
	BaseURL    string
	Token      string
	PageSize   int
	HTTPClient *http.Client
}

// NewClient creates a client. A nil httpClient gets a 30s timeout client.
func NewClient(baseURL, token string, pageSize int, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		PageSize:   pageSize,
		HTTPClient: httpClient,
	}
}

// ListTasks returns the active tasks one page at a time, following next_cursor
// until the service reports no further page. The sequence fetches lazily, so
// stopping early skips the remaining requests. A failed fetch yields the error
// once and ends the sequence.
func (c *Client) ListTasks(ctx context.Context) iter.Seq2[[]Task, error] {
	return func(yield func([]Task, error) bool) {
		cursor := ""
		for page := 1; ; page++ {
			q := url.Values{}
			q.Set("limit", strconv.Itoa(c.PageSize))
			if cursor != "" {
				q.Set("cursor", cursor)
			}

			var resp taskPage
			if err := c.do(ctx, http.MethodGet, tasksPath+"?"+q.Encode(), nil, &resp); err != nil {
				yield(nil, fmt.Errorf("list tasks page %d: %w", page, err))
				return
			}
			logger.DebugX(ModuleName, "fetched page %d with %d tasks", page, len(resp.Results))

			if resp.Results == nil {
				resp.Results = []Task{}
			}
			if !yield(resp.Results, nil) {
				return
			}
			if resp.NextCursor == nil || *resp.NextCursor == "" {
				return
			}
			cursor = *resp.NextCursor
		}
	}
}

// AddTask creates a task. description may be empty.
func (c *Client) AddTask(ctx context.Context, content, description string) (*Task, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("add task: content is required")
	}
	var task Task
	err := c.do(ctx, http.MethodPost, tasksPath, &CreateTaskRequest{
		Content:     content,
		Description: description,
	}, &task)
	if err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}
	logger.DebugX(ModuleName, "created task %s", task.ID)
	return &task, nil
}

// DeleteTask removes a task by id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete task: id is required")
	}
	if err := c.do(ctx, http.MethodDelete, tasksPath+"/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	logger.DebugX(ModuleName, "deleted task %s", id)
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Method:     method,
			Path:       strings.SplitN(path, "?", 2)[0],
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
