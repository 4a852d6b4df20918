package server

import (
	"time"

	"lifelog/internal/domain"
)

// Request payloads

type CreateActivityRequest struct {
	TypeID      int64  `json:"type_id"`
	Status      string `json:"status,omitempty" enum:"none,started,not-started"`
	Description string `json:"description,omitempty"`
	Timestamp   string `json:"timestamp,omitempty" format:"date-time"`
}

type UpdateActivityRequest struct {
	TypeID      *int64  `json:"type_id,omitempty"`
	Status      *string `json:"status,omitempty" enum:"none,started,not-started"`
	Description *string `json:"description,omitempty"`
	Timestamp   *string `json:"timestamp,omitempty" format:"date-time"`
}

type CreateActivityTypeRequest struct {
	Name       string `json:"name"`
	Toggle     bool   `json:"toggle,omitempty"`
	StartLabel string `json:"start_label,omitempty"`
	EndLabel   string `json:"end_label,omitempty"`
	CategoryID int64  `json:"category_id,omitempty"`
	Emoji      string `json:"emoji,omitempty"`
}

type UpdateActivityTypeRequest struct {
	Name       *string `json:"name,omitempty"`
	Toggle     *bool   `json:"toggle,omitempty"`
	StartLabel *string `json:"start_label,omitempty"`
	EndLabel   *string `json:"end_label,omitempty"`
	CategoryID *int64  `json:"category_id,omitempty"`
	Emoji      *string `json:"emoji,omitempty"`
}

type NameRequest struct {
	Name string `json:"name"`
}

type TitleRequest struct {
	Title string `json:"title"`
}

// Response payloads

type CreatedResponse struct {
	NewID int64 `json:"new_id"`
}

type ChangesResponse struct {
	Changes int64 `json:"changes"`
}

// ActivityHistoryEntry is one row of the paginated activity log, with the
// display label already derived from the logged status.
type ActivityHistoryEntry struct {
	ID          int64  `json:"id"`
	Emoji       string `json:"emoji"`
	Label       string `json:"label"`
	Activity    string `json:"activity"`
	TypeID      int64  `json:"type_id"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
	Timestamp   string `json:"timestamp" format:"date-time"`
	Category    string `json:"category"`
	CategoryID  int64  `json:"category_id"`
}

func historyEntry(row domain.ActivityRow) ActivityHistoryEntry {
	return ActivityHistoryEntry{
		ID:          row.ID,
		Emoji:       row.Emoji,
		Label:       displayLabel(row),
		Activity:    row.ActivityType,
		TypeID:      row.TypeID,
		Status:      row.Status,
		Description: row.Description,
		Timestamp:   time.Unix(row.Timestamp, 0).UTC().Format(time.RFC3339),
		Category:    row.Category,
		CategoryID:  row.CategoryID,
	}
}

func historyEntries(rows []domain.ActivityRow) []ActivityHistoryEntry {
	res := make([]ActivityHistoryEntry, 0, len(rows))
	for _, row := range rows {
		res = append(res, historyEntry(row))
	}
	return res
}

// displayLabel names the action that was logged: "started" rows show the
// start label, "not-started" rows the end label, one-shot rows the type name.
func displayLabel(row domain.ActivityRow) string {
	switch row.Status {
	case domain.StatusStarted:
		return row.StartLabel
	case domain.StatusNotStarted:
		return row.EndLabel
	default:
		return row.ActivityType
	}
}
