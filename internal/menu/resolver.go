package menu

import (
	"strings"
	"time"

	"lifelog/internal/domain"
)

// Entry is one resolved menu entry. It is derived fresh on every request and
// never persisted or cached.
type Entry struct {
	TypeID    int64
	Label     string
	Status    string
	Elapsed   string
	Timestamp int64
	Category  string
	Emoji     string
}

// Resolver computes the current entry for one activity type from its most
// recent logged activity. It holds no mutable state; resolving the same
// inputs twice yields identical entries.
type Resolver struct {
	// Annotations maps a lowercased type name to the description marker whose
	// remainder replaces the type name inside the end label.
	Annotations map[string]string
	Now         func() time.Time
}

func (r Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Resolve applies the label/status rules in precedence order: non-toggle
// types are always "none"; toggle types are "not-started" until their latest
// activity is "started".
func (r Resolver) Resolve(t domain.ActivityType, last *domain.Activity) Entry {
	e := Entry{
		TypeID:   t.ID,
		Label:    t.Name,
		Status:   domain.StatusNone,
		Elapsed:  NotLogged,
		Category: t.Category,
		Emoji:    t.Emoji,
	}
	if last == nil {
		if t.Toggle {
			e.Label = t.StartLabel
			e.Status = domain.StatusNotStarted
		}
		return e
	}
	e.Timestamp = last.Timestamp
	e.Elapsed = FormatElapsed(r.now(), last.Timestamp)
	if !t.Toggle {
		return e
	}
	if last.Status == domain.StatusStarted {
		e.Label = r.endLabel(t, last)
		e.Status = domain.StatusStarted
		return e
	}
	e.Label = t.StartLabel
	e.Status = domain.StatusNotStarted
	return e
}

// endLabel substitutes the annotated sub-entity (game, show, movie) into the
// end label. A missing marker is not an error: the generic label stands.
func (r Resolver) endLabel(t domain.ActivityType, last *domain.Activity) string {
	marker, ok := r.Annotations[strings.ToLower(t.Name)]
	if !ok {
		return t.EndLabel
	}
	_, value, found := strings.Cut(last.Description, marker)
	if !found || value == "" {
		return t.EndLabel
	}
	return replaceFold(t.EndLabel, t.Name, value)
}

// replaceFold replaces the first case-insensitive occurrence of old in s.
func replaceFold(s, old, new string) string {
	idx := strings.Index(strings.ToLower(s), strings.ToLower(old))
	if idx < 0 {
		return s
	}
	return s[:idx] + new + s[idx+len(old):]
}
