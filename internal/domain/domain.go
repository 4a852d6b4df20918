package domain

// Status values carried by a logged activity. A toggle type whose latest
// activity is StatusStarted is considered live; anything else is not.
const (
	StatusNone       = "none"
	StatusStarted    = "started"
	StatusNotStarted = "not-started"
)

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ActivityType struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Toggle     bool   `json:"toggle"`
	StartLabel string `json:"start_label"`
	EndLabel   string `json:"end_label"`
	CategoryID int64  `json:"category_id"`
	Category   string `json:"category"`
	Emoji      string `json:"emoji"`
}

type Activity struct {
	ID          int64  `json:"id"`
	TypeID      int64  `json:"type_id"`
	Status      string `json:"status" enum:"none,started,not-started"`
	Description string `json:"description,omitempty"`
	Timestamp   int64  `json:"timestamp"`
}

// ActivityRow is an activity joined with its type and category, as served by
// the paginated history endpoints.
type ActivityRow struct {
	ID           int64  `json:"id"`
	TypeID       int64  `json:"type_id"`
	ActivityType string `json:"activity_type"`
	StartLabel   string `json:"start_label"`
	EndLabel     string `json:"end_label"`
	Emoji        string `json:"emoji"`
	Status       string `json:"status"`
	Description  string `json:"description,omitempty"`
	Timestamp    int64  `json:"timestamp"`
	Category     string `json:"category"`
	CategoryID   int64  `json:"category_id"`
}

type Game struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Movie struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type TVShow struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	Payload    string `json:"payload_json"`
}
