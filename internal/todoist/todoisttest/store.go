// Package todoisttest provides an in-memory Todoist for tests: a Store that
// satisfies the task service interface directly, and an httptest server that
// speaks the REST API on top of the same Store.
package todoisttest

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
	"sync"

	"github.com/kiosk404/echotask/internal/todoist"
)

const (
	OpList   = "list"
	OpAdd    = "add"
	OpDelete = "delete"
)

// ErrNotFound is returned by DeleteTask for an unknown id.
var ErrNotFound = errors.New("task not found")

// Store is an ordered in-memory task list.
type Store struct {
	mu       sync.Mutex
	tasks    []todoist.Task
	nextID   int
	pageSize int
	failures map[string]error
	calls    map[string]int
}

// NewStore returns an empty store that serves pageSize tasks per page.
func NewStore(pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = todoist.DefaultPageSize
	}
	return &Store{
		nextID:   1000,
		pageSize: pageSize,
		failures: map[string]error{},
		calls:    map[string]int{},
	}
}

// Seed appends tasks with the given contents and returns them.
func (s *Store) Seed(contents ...string) []todoist.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]todoist.Task, 0, len(contents))
	for _, c := range contents {
		out = append(out, s.appendLocked(c, ""))
	}
	return out
}

// Fail makes every later call of op return err. A nil err clears it.
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Calls reports how many times op was invoked. For OpList it counts pages.
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Tasks returns a copy of the current tasks in order.
func (s *Store) Tasks() []todoist.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]todoist.Task(nil), s.tasks...)
}

// Contents returns the content of each task in order.
func (s *Store) Contents() []string {
	tasks := s.Tasks()
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Content)
	}
	return out
}

// ListTasks pages through a snapshot taken when the sequence starts.
func (s *Store) ListTasks(_ context.Context) iter.Seq2[[]todoist.Task, error] {
	return func(yield func([]todoist.Task, error) bool) {
		s.mu.Lock()
		snapshot := append([]todoist.Task(nil), s.tasks...)
		s.mu.Unlock()

		for offset := 0; ; offset += s.pageSize {
			page, err := s.page(snapshot, offset, s.pageSize)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(page, nil) {
				return
			}
			if offset+s.pageSize >= len(snapshot) {
				return
			}
		}
	}
}

func (s *Store) AddTask(_ context.Context, content, description string) (*todoist.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[OpAdd]++
	if err := s.failures[OpAdd]; err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("content is required")
	}
	task := s.appendLocked(content, description)
	return &task, nil
}

func (s *Store) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[OpDelete]++
	if err := s.failures[OpDelete]; err != nil {
		return err
	}
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) page(tasks []todoist.Task, offset, limit int) ([]todoist.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[OpList]++
	if err := s.failures[OpList]; err != nil {
		return nil, err
	}
	if offset >= len(tasks) {
		return []todoist.Task{}, nil
	}
	end := offset + limit
	if end > len(tasks) {
		end = len(tasks)
	}
	return append([]todoist.Task(nil), tasks[offset:end]...), nil
}

func (s *Store) appendLocked(content, description string) todoist.Task {
	s.nextID++
	task := todoist.Task{
		ID:          strconv.Itoa(s.nextID),
		Content:     content,
		Description: description,
		ProjectID:   "inbox",
		Priority:    1,
	}
	s.tasks = append(s.tasks, task)
	return task
}
