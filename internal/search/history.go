package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	// historyKey is the durable storage key; the value is a JSON array of
	// query strings, most recent first.
	historyKey = "recentSearches"

	// maxRecent bounds the history length.
	maxRecent = 5
)

// History is the bounded recent-search list, persisted in Redis so it
// survives restarts.
type History struct {
	client *redis.Client
}

func NewHistory(client *redis.Client) *History {
	return &History{client: client}
}

// List returns the saved queries, most recent first. No history yet is an
// empty list, not an error.
func (h *History) List(ctx context.Context) ([]string, error) {
	data, err := h.client.Get(ctx, historyKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var queries []string
	if err := json.Unmarshal(data, &queries); err != nil {
		return nil, fmt.Errorf("unmarshal recent searches failed: %w", err)
	}
	return queries, nil
}

// Add puts the query at the front of the history. A duplicate moves to the
// front instead of appearing twice; the list is truncated to maxRecent.
// Blank queries are ignored.
func (h *History) Add(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	existing, err := h.List(ctx)
	if err != nil {
		return err
	}

	updated := make([]string, 0, maxRecent)
	updated = append(updated, query)
	for _, q := range existing {
		if q == query {
			continue
		}
		updated = append(updated, q)
		if len(updated) == maxRecent {
			break
		}
	}

	data, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("marshal recent searches failed: %w", err)
	}

	if err := h.client.Set(ctx, historyKey, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Clear drops the whole history.
func (h *History) Clear(ctx context.Context) error {
	if err := h.client.Del(ctx, historyKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
