package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Filter represents a saved filter in Todoist.
type Filter struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Query      string `json:"query"`
	Color      string `json:"color"`
	ItemOrder  int    `json:"item_order"`
	IsDeleted  bool   `json:"is_deleted"`
	IsFavorite bool   `json:"is_favorite"`
}

type syncCommand struct {
	Type string      `json:"type"`
	UUID string      `json:"uuid"`
	Args interface{} `json:"args"`
}

// syncResponse covers the parts of a Sync API reply this client reads.
type syncResponse struct {
	Filters    []Filter                   `json:"filters"`
	SyncStatus map[string]json.RawMessage `json:"sync_status"`
}

// GetFilters fetches all saved filters via the Sync API.
// Filters have no REST equivalent.
func (c *Client) GetFilters(ctx context.Context) ([]Filter, error) {
	form := url.Values{}
	form.Set("sync_token", "*")
	form.Set("resource_types", `["filters"]`)

	var result syncResponse
	if err := c.doForm(ctx, "/sync", form, &result); err != nil {
		return nil, fmt.Errorf("failed to get filters: %w", err)
	}

	filters := make([]Filter, 0, len(result.Filters))
	for _, f := range result.Filters {
		if !f.IsDeleted {
			filters = append(filters, f)
		}
	}

	return filters, nil
}

// runCommands posts Sync API commands and checks each command's status.
func (c *Client) runCommands(ctx context.Context, cmds ...syncCommand) error {
	payload, err := json.Marshal(cmds)
	if err != nil {
		return fmt.Errorf("failed to marshal sync commands: %w", err)
	}

	form := url.Values{}
	form.Set("commands", string(payload))

	var result syncResponse
	if err := c.doForm(ctx, "/sync", form, &result); err != nil {
		return err
	}

	for _, cmd := range cmds {
		status, ok := result.SyncStatus[cmd.UUID]
		if !ok {
			continue
		}
		var plain string
		if err := json.Unmarshal(status, &plain); err == nil && plain == "ok" {
			continue
		}
		return fmt.Errorf("sync command %s failed: %s", cmd.Type, string(status))
	}

	return nil
}
