package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// GetTasks returns all active tasks, optionally narrowed by project/label/ids.
// Handles pagination automatically, fetching all pages.
func (c *Client) GetTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	tasks, err := getAll[Task](ctx, c, "/tasks", buildFilterQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	return tasks, nil
}

// FilterTasks evaluates a Todoist filter query on the server.
// The query is forwarded verbatim; syntax errors come back as an *APIError.
// Examples: "today | overdue", "@waiting & #Work", "no date".
func (c *Client) FilterTasks(ctx context.Context, filterQuery string) (*FilterResult, error) {
	if strings.TrimSpace(filterQuery) == "" {
		return nil, fmt.Errorf("filter query cannot be empty")
	}

	query := url.Values{}
	query.Set("query", filterQuery)

	items, err := getAll[FilterItem](ctx, c, "/tasks/filter", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get filtered tasks: %w", err)
	}

	result := &FilterResult{}
	for _, item := range items {
		if item.Task != nil {
			result.Tasks = append(result.Tasks, *item.Task)
		}
		if item.ID != "" {
			result.IDs = append(result.IDs, item.ID)
		}
	}

	return result, nil
}

// UpdateTask updates an existing task.
func (c *Client) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*Task, error) {
	var task Task
	if err := c.Post(ctx, "/tasks/"+id, req, &task); err != nil {
		return nil, fmt.Errorf("failed to update task %s: %w", id, err)
	}
	return &task, nil
}

// SetTaskLabels replaces a task's labels. An empty list clears them.
func (c *Client) SetTaskLabels(ctx context.Context, id string, labels []string) (*Task, error) {
	if labels == nil {
		labels = []string{}
	}
	body := struct {
		Labels []string `json:"labels"`
	}{Labels: labels}

	var task Task
	if err := c.Post(ctx, "/tasks/"+id, body, &task); err != nil {
		return nil, fmt.Errorf("failed to set labels on task %s: %w", id, err)
	}
	return &task, nil
}

// CloseTask marks a task as completed.
func (c *Client) CloseTask(ctx context.Context, id string) error {
	if err := c.Post(ctx, "/tasks/"+id+"/close", nil, nil); err != nil {
		return fmt.Errorf("failed to close task %s: %w", id, err)
	}
	return nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := c.Delete(ctx, "/tasks/"+id); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	return nil
}

// QuickAddTask creates a task using Todoist's natural language parsing.
// Supports: dates ("tomorrow", "every monday"), priorities (p1-p4),
// labels (@label), projects (#project).
// Example: "Buy milk tomorrow at 3pm @errands #Shopping p1"
func (c *Client) QuickAddTask(ctx context.Context, text string) (*Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("task text cannot be empty")
	}

	body := struct {
		Text string `json:"text"`
	}{Text: text}

	var task Task
	if err := c.Post(ctx, "/tasks/quick", body, &task); err != nil {
		return nil, fmt.Errorf("failed to quick add task: %w", err)
	}
	return &task, nil
}

// MoveTask moves a task to a different project using the Sync API.
func (c *Client) MoveTask(ctx context.Context, id, projectID string) error {
	type moveArgs struct {
		ID        string `json:"id"`
		ProjectID string `json:"project_id"`
	}

	cmd := syncCommand{
		Type: "item_move",
		UUID: uuid.New().String(),
		Args: moveArgs{ID: id, ProjectID: projectID},
	}

	if err := c.runCommands(ctx, cmd); err != nil {
		return fmt.Errorf("failed to move task %s: %w", id, err)
	}
	return nil
}
