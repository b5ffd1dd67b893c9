package generation

import (
	"encoding/json"
	"errors"
	"strings"
)

var errNoItems = errors.New("no phrase items in response")

// extractItems leniently parses a model response into items. Markdown fences
// and surrounding prose are tolerated by locating the first well-formed JSON
// array substring before giving up.
func extractItems(raw string, req Request) ([]Item, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var items []Item
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		start := strings.Index(cleaned, "[")
		end := strings.LastIndex(cleaned, "]")
		if start < 0 || end <= start {
			return nil, errNoItems
		}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &items); err != nil {
			return nil, errNoItems
		}
	}

	return sanitizeItems(items, req), nil
}

// sanitizeItems matches items back to the request: empty texts are dropped,
// ids that do not echo a requested id are reassigned to unused ones, and the
// result is capped at the batch size.
func sanitizeItems(items []Item, req Request) []Item {
	requested := make(map[string]bool, len(req.ItemIDs))
	for _, id := range req.ItemIDs {
		requested[id] = false
	}

	out := make([]Item, 0, len(items))
	for _, item := range items {
		item.Text = strings.TrimSpace(item.Text)
		if item.Text == "" {
			continue
		}
		if used, ok := requested[item.ID]; !ok || used {
			item.ID = ""
		}
		if item.Topic == "" {
			item.Topic = req.Topic
		}
		if !validDifficulty(item.Difficulty) {
			item.Difficulty = ""
		}
		if item.ID != "" {
			requested[item.ID] = true
		}
		out = append(out, item)
		if len(out) == req.BatchSize {
			break
		}
	}

	// Backfill unused request ids for items the model returned without one.
	unused := make([]string, 0)
	for _, id := range req.ItemIDs {
		if !requested[id] {
			unused = append(unused, id)
		}
	}
	for i := range out {
		if out[i].ID == "" && len(unused) > 0 {
			out[i].ID = unused[0]
			unused = unused[1:]
		}
	}

	final := out[:0]
	for _, item := range out {
		if item.ID != "" {
			final = append(final, item)
		}
	}
	return final
}
