package menu

import (
	"fmt"
	"strings"
)

// Presentation adapters. Each reshapes an aggregated Menu for one client;
// none of them re-derives status or elapsed time.

// IDEntry identifies one menu item in the plain view's ids list.
type IDEntry struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// StructuredEntry is the per-item record of the structured (v2) view.
type StructuredEntry struct {
	TypeID    int64  `json:"type_id"`
	Name      string `json:"name"`
	Timestamp int64  `json:"timestamp"`
	Elapsed   string `json:"time_elapsed"`
	Status    string `json:"status"`
	Emoji     string `json:"emoji"`
}

// ShortcutMenu is the label-block view consumed by shortcut-style clients.
type ShortcutMenu struct {
	Labels string         `json:"labels"`
	Data   map[string]any `json:"data"`
}

// PlainView renders "label (elapsed)" strings bucketed under "started", one
// key per named category, and "uncategorized", plus the ids lookup list.
func PlainView(m Menu) map[string]any {
	out := map[string]any{
		"started":       formatItems(m.Started),
		"uncategorized": formatItems(m.Uncategorized),
	}
	for _, bucket := range m.Categories {
		out[bucket.Name] = formatItems(bucket.Entries)
	}
	ids := make([]IDEntry, 0, len(m.All))
	for _, e := range m.All {
		ids = append(ids, IDEntry{ID: e.TypeID, Name: e.Label, Status: e.Status})
	}
	out["ids"] = ids
	return out
}

// StructuredView renders the same buckets as PlainView with structured
// records instead of formatted strings.
func StructuredView(m Menu) map[string]any {
	out := map[string]any{
		"started":       structuredItems(m.Started),
		"uncategorized": structuredItems(m.Uncategorized),
	}
	for _, bucket := range m.Categories {
		out[bucket.Name] = structuredItems(bucket.Entries)
	}
	return out
}

// ShortcutsView renders every entry through the fixed three-line template and
// builds the per-name data map: categories carry isCategory true with nested
// labels and items, leaves carry isCategory false.
func ShortcutsView(m Menu) ShortcutMenu {
	var blocks []string
	data := map[string]any{}

	for _, e := range m.Started {
		blocks = append(blocks, formatLabel(e.Label, e.Elapsed, e.Emoji))
		data[e.Label] = leafData(e)
	}
	for _, bucket := range m.Categories {
		blocks = append(blocks, formatLabel(bucket.Name, fmt.Sprintf("%d activities", len(bucket.Entries)), "📂"))
		subLabels := make([]string, 0, len(bucket.Entries))
		subData := map[string]any{}
		for _, e := range bucket.Entries {
			subLabels = append(subLabels, formatLabel(e.Label, e.Elapsed, e.Emoji))
			subData[e.Label] = leafData(e)
		}
		data[bucket.Name] = map[string]any{
			"isCategory": true,
			"labels":     strings.Join(subLabels, "\n"),
			"data":       subData,
		}
	}
	for _, e := range m.Uncategorized {
		blocks = append(blocks, formatLabel(e.Label, e.Elapsed, e.Emoji))
		data[e.Label] = leafData(e)
	}

	return ShortcutMenu{Labels: strings.Join(blocks, "\n"), Data: data}
}

func formatItems(entries []Entry) []string {
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		items = append(items, fmt.Sprintf("%s (%s)", e.Label, e.Elapsed))
	}
	return items
}

func structuredItems(entries []Entry) []StructuredEntry {
	items := make([]StructuredEntry, 0, len(entries))
	for _, e := range entries {
		items = append(items, StructuredEntry{
			TypeID:    e.TypeID,
			Name:      e.Label,
			Timestamp: e.Timestamp,
			Elapsed:   e.Elapsed,
			Status:    e.Status,
			Emoji:     e.Emoji,
		})
	}
	return items
}

func formatLabel(title, sub, icon string) string {
	return fmt.Sprintf("title: %s\nsub: %s\nicon: %s\n", title, sub, icon)
}

func leafData(e Entry) map[string]any {
	return map[string]any{
		"type_id":      e.TypeID,
		"name":         e.Label,
		"timestamp":    e.Timestamp,
		"time_elapsed": e.Elapsed,
		"status":       e.Status,
		"emoji":        e.Emoji,
		"isCategory":   false,
	}
}
