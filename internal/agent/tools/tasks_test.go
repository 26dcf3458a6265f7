package tools_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kiosk404/echotask/internal/agent/pkg/errno"
	"github.com/kiosk404/echotask/internal/agent/tools"
	"github.com/kiosk404/echotask/internal/todoist/todoisttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTools(pageSize int) (*tools.TaskTools, *todoisttest.Store) {
	store := todoisttest.NewStore(pageSize)
	return tools.NewTaskTools(store), store
}

func TestAddedTaskAppearsInShowTasks(t *testing.T) {
	ctx := context.Background()
	tt, _ := newTools(2)

	for _, c := range []string{"buy milk", "call mom", "Buy Milk", "pay rent", "🎉 party"} {
		msg, err := tt.AddTask(ctx, tools.AddTaskArgs{Task: c})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("Task '%s' added successfully.", c), msg)

		shown, err := tt.ShowTasks(ctx, struct{}{})
		require.NoError(t, err)
		assert.Contains(t, shown, c)
	}
}

func TestAddTaskKeepsDescription(t *testing.T) {
	tt, store := newTools(0)
	_, err := tt.AddTask(context.Background(), tools.AddTaskArgs{Task: "buy milk", Description: "oat"})
	require.NoError(t, err)
	assert.Equal(t, "oat", store.Tasks()[0].Description)
}

func TestAddTaskRemoteFailure(t *testing.T) {
	tt, store := newTools(0)
	store.Fail(todoisttest.OpAdd, errors.New("rate limited"))

	_, err := tt.AddTask(context.Background(), tools.AddTaskArgs{Task: "x"})
	require.Error(t, err)
	assert.True(t, errno.IsRemote(err))
}

func TestShowTasksFlattensPagesInOrder(t *testing.T) {
	tt, store := newTools(3)
	var want []string
	for i := 0; i < 10; i++ {
		want = append(want, fmt.Sprintf("task-%02d", i))
	}
	store.Seed(want...)

	got, err := tt.ShowTasks(context.Background(), struct{}{})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 4, store.Calls(todoisttest.OpList))
}

func TestShowTasksEmptyIsNotNil(t *testing.T) {
	tt, _ := newTools(0)
	got, err := tt.ShowTasks(context.Background(), struct{}{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestShowTasksRemoteFailure(t *testing.T) {
	tt, store := newTools(0)
	store.Fail(todoisttest.OpList, errors.New("502"))
	_, err := tt.ShowTasks(context.Background(), struct{}{})
	assert.True(t, errno.IsRemote(err))
}

func TestDeleteTaskCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	tt, store := newTools(0)
	_, err := tt.AddTask(ctx, tools.AddTaskArgs{Task: "Buy milk"})
	require.NoError(t, err)

	res, err := tt.DeleteTask(ctx, tools.DeleteTaskArgs{TaskContent: "BUY MILK"})
	require.NoError(t, err)
	assert.Equal(t, &tools.DeleteTaskResult{Status: tools.DeleteStatusSuccess, Task: "BUY MILK"}, res)
	assert.Empty(t, store.Contents())
}

func TestDeleteTaskNotFoundIsIdempotent(t *testing.T) {
	tt, store := newTools(0)
	store.Seed("call mom")

	for i := 0; i < 2; i++ {
		res, err := tt.DeleteTask(context.Background(), tools.DeleteTaskArgs{TaskContent: "buy milk"})
		require.NoError(t, err)
		assert.Equal(t, tools.DeleteStatusNotFound, res.Status)
		assert.Equal(t, "buy milk", res.Task)
	}
	assert.Equal(t, 0, store.Calls(todoisttest.OpDelete))
	assert.Equal(t, []string{"call mom"}, store.Contents())
}

func TestDeleteTaskRemovesFirstDuplicateInRetrievalOrder(t *testing.T) {
	tt, store := newTools(2)
	seeded := store.Seed("a", "water plants", "b", "Water Plants", "water plants")

	res, err := tt.DeleteTask(context.Background(), tools.DeleteTaskArgs{TaskContent: "water plants"})
	require.NoError(t, err)
	assert.Equal(t, tools.DeleteStatusSuccess, res.Status)

	remaining := store.Tasks()
	require.Len(t, remaining, 4)
	for _, task := range remaining {
		assert.NotEqual(t, seeded[1].ID, task.ID)
	}
	assert.Equal(t, seeded[3].ID, remaining[2].ID)
}

func TestDeleteTaskStopsPagingAfterMatch(t *testing.T) {
	tt, store := newTools(2)
	store.Seed("a", "target", "c", "d", "e", "f")

	_, err := tt.DeleteTask(context.Background(), tools.DeleteTaskArgs{TaskContent: "target"})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Calls(todoisttest.OpList))
}

func TestDeleteTaskMatchOnLaterPage(t *testing.T) {
	tt, store := newTools(2)
	store.Seed("a", "b", "c", "d", "target")

	res, err := tt.DeleteTask(context.Background(), tools.DeleteTaskArgs{TaskContent: "TARGET"})
	require.NoError(t, err)
	assert.Equal(t, tools.DeleteStatusSuccess, res.Status)
	assert.Equal(t, []string{"a", "b", "c", "d"}, store.Contents())
}

func TestDeleteTaskRemoteFailure(t *testing.T) {
	tt, store := newTools(0)
	store.Seed("x")
	store.Fail(todoisttest.OpDelete, errors.New("boom"))

	_, err := tt.DeleteTask(context.Background(), tools.DeleteTaskArgs{TaskContent: "x"})
	assert.True(t, errno.IsRemote(err))
}
