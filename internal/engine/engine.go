package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"lifelog/internal/config"
	"lifelog/internal/domain"
	"lifelog/internal/events"
	"lifelog/internal/menu"
	"lifelog/internal/repo"
)

type Engine struct {
	DB     *sql.DB
	Repo   repo.Repo
	Events events.Writer
	Config *config.Config
	Now    func() time.Time
}

func New(db *sql.DB, cfg *config.Config) Engine {
	return Engine{
		DB:     db,
		Repo:   repo.Repo{DB: db},
		Events: events.Writer{DB: db},
		Config: cfg,
		Now:    time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Menu aggregates the current menu under the configured deadline. The result
// is derived fresh from storage on every call.
func (e Engine) Menu(ctx context.Context) (menu.Menu, error) {
	ctx, cancel := context.WithTimeout(ctx, e.Config.MenuTimeout())
	defer cancel()
	agg := menu.Aggregator{
		Source:        e.Repo,
		Resolver:      e.Resolver(),
		Uncategorized: e.Config.Menu.Uncategorized,
	}
	return agg.Aggregate(ctx)
}

// Resolver builds the per-type resolver from the configured annotation rules.
func (e Engine) Resolver() menu.Resolver {
	annotations := make(map[string]string, len(e.Config.Menu.Annotations))
	for _, rule := range e.Config.Menu.Annotations {
		annotations[strings.ToLower(rule.Type)] = rule.Marker
	}
	return menu.Resolver{Annotations: annotations, Now: e.now}
}

// LogActivityOptions are parameters for logging one activity.
type LogActivityOptions struct {
	TypeID      int64
	Status      string
	Description string
	Timestamp   string // RFC3339; empty logs "now"
}

var validStatuses = map[string]bool{
	domain.StatusNone:       true,
	domain.StatusStarted:    true,
	domain.StatusNotStarted: true,
}

// LogActivity records one event for a type. The API accepts ISO-8601
// timestamps; storage keeps Unix seconds.
func (e Engine) LogActivity(ctx context.Context, opts LogActivityOptions) (domain.Activity, error) {
	if opts.TypeID == 0 {
		return domain.Activity{}, errors.New("Missing type_id")
	}
	if opts.Status == "" {
		opts.Status = domain.StatusNone
	}
	if !validStatuses[opts.Status] {
		return domain.Activity{}, fmt.Errorf("invalid status %q", opts.Status)
	}
	if _, err := e.Repo.GetActivityType(ctx, opts.TypeID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Activity{}, fmt.Errorf("activity type %d %w", opts.TypeID, repo.ErrNotFound)
		}
		return domain.Activity{}, err
	}
	ts := e.now().Unix()
	if opts.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, opts.Timestamp)
		if err != nil {
			return domain.Activity{}, fmt.Errorf("invalid timestamp: %w", err)
		}
		ts = parsed.Unix()
	}

	a := domain.Activity{
		TypeID:      opts.TypeID,
		Status:      opts.Status,
		Description: opts.Description,
		Timestamp:   ts,
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Activity{}, err
	}
	defer tx.Rollback()
	res, err := tx.ExecContext(ctx, `INSERT INTO activities(type_id,status,description,timestamp) VALUES (?,?,?,?)`,
		a.TypeID, a.Status, nullableString(a.Description), a.Timestamp)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("insert activity: %w", err)
	}
	a.ID, err = res.LastInsertId()
	if err != nil {
		return domain.Activity{}, err
	}
	if err := e.Events.Append(ctx, tx, "activity.logged", "activity", fmt.Sprint(a.ID), events.EventPayload{
		"type_id": a.TypeID,
		"status":  a.Status,
	}); err != nil {
		return domain.Activity{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Activity{}, err
	}
	return a, nil
}

// CreateActivityTypeOptions are parameters for creating a trackable type.
type CreateActivityTypeOptions struct {
	Name       string
	Toggle     bool
	StartLabel string
	EndLabel   string
	CategoryID int64 // 0 falls back to the uncategorized sentinel
	Emoji      string
}

// CreateActivityType applies the storage defaults (uncategorized category,
// placeholder emoji) and journals the creation.
func (e Engine) CreateActivityType(ctx context.Context, opts CreateActivityTypeOptions) (domain.ActivityType, error) {
	if opts.Name == "" {
		return domain.ActivityType{}, errors.New("Missing name")
	}
	if opts.CategoryID == 0 {
		uncat, err := e.Repo.GetCategoryByName(ctx, e.Config.Menu.Uncategorized)
		if err != nil {
			return domain.ActivityType{}, fmt.Errorf("resolve uncategorized sentinel: %w", err)
		}
		opts.CategoryID = uncat.ID
	} else if _, err := e.Repo.GetCategory(ctx, opts.CategoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.ActivityType{}, fmt.Errorf("category %d %w", opts.CategoryID, repo.ErrNotFound)
		}
		return domain.ActivityType{}, err
	}
	if opts.Emoji == "" {
		opts.Emoji = e.Config.Menu.DefaultEmoji
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.ActivityType{}, err
	}
	defer tx.Rollback()
	toggle := 0
	if opts.Toggle {
		toggle = 1
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO activity_types(name,toggle,start_label,end_label,category_id,emoji) VALUES (?,?,?,?,?,?)`,
		opts.Name, toggle, opts.StartLabel, opts.EndLabel, opts.CategoryID, opts.Emoji)
	if err != nil {
		return domain.ActivityType{}, fmt.Errorf("insert activity type: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.ActivityType{}, err
	}
	if err := e.Events.Append(ctx, tx, "activity_type.created", "activity_type", fmt.Sprint(id), events.EventPayload{
		"name":   opts.Name,
		"toggle": opts.Toggle,
	}); err != nil {
		return domain.ActivityType{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.ActivityType{}, err
	}
	return e.Repo.GetActivityType(ctx, id)
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
