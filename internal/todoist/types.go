package todoist

import (
	"fmt"
	"time"
)

// Task is a transient copy of a Todoist task.
type Task struct {
	ID          string     `json:"id"`
	Content     string     `json:"content"`
	Description string     `json:"description,omitempty"`
	ProjectID   string     `json:"project_id,omitempty"`
	Priority    int        `json:"priority,omitempty"`
	Checked     bool       `json:"checked,omitempty"`
	AddedAt     *time.Time `json:"added_at,omitempty"`
}

// CreateTaskRequest is the body of POST /api/v1/tasks.
type CreateTaskRequest struct {
	Content     string `json:"content"`
	Description string `json:"description,omitempty"`
}

// taskPage is one page of GET /api/v1/tasks.
type taskPage struct {
	Results    []Task  `json:"results"`
	NextCursor *string `json:"next_cursor"`
}

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("todoist %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}
