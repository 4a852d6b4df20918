package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"lifelog/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// wrapConflict maps SQLite uniqueness violations onto ErrConflict so callers
// never have to parse driver error text.
func wrapConflict(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrConflict
	}
	return err
}

// --- categories ---

func (r Repo) InsertCategory(ctx context.Context, name string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `INSERT INTO categories(name) VALUES (?)`, name)
	if err != nil {
		return 0, wrapConflict(err)
	}
	return res.LastInsertId()
}

func (r Repo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,name FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r Repo) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	var c domain.Category
	err := r.DB.QueryRowContext(ctx, `SELECT id,name FROM categories WHERE id=?`, id).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

func (r Repo) GetCategoryByName(ctx context.Context, name string) (domain.Category, error) {
	var c domain.Category
	err := r.DB.QueryRowContext(ctx, `SELECT id,name FROM categories WHERE name=?`, name).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

func (r Repo) UpdateCategory(ctx context.Context, id int64, name string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE categories SET name=? WHERE id=?`, name, id)
	if err != nil {
		return 0, wrapConflict(err)
	}
	return res.RowsAffected()
}

func (r Repo) DeleteCategory(ctx context.Context, id int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM categories WHERE id=?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// --- activity types ---

const activityTypeColumns = `activity_types.id,
activity_types.name,
activity_types.toggle,
activity_types.start_label,
activity_types.end_label,
activity_types.category_id,
categories.name AS category,
activity_types.emoji`

// scanActivityType coerces the 0/1 toggle column to bool at the storage
// boundary; nothing downstream sees the raw integer.
func scanActivityType(scan func(...any) error) (domain.ActivityType, error) {
	var t domain.ActivityType
	var toggle int64
	err := scan(&t.ID, &t.Name, &toggle, &t.StartLabel, &t.EndLabel, &t.CategoryID, &t.Category, &t.Emoji)
	t.Toggle = toggle != 0
	return t, err
}

func (r Repo) InsertActivityType(ctx context.Context, t domain.ActivityType) (int64, error) {
	toggle := 0
	if t.Toggle {
		toggle = 1
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO activity_types(name,toggle,start_label,end_label,category_id,emoji) VALUES (?,?,?,?,?,?)`,
		t.Name, toggle, t.StartLabel, t.EndLabel, t.CategoryID, t.Emoji)
	if err != nil {
		return 0, wrapConflict(err)
	}
	return res.LastInsertId()
}

func (r Repo) ListActivityTypes(ctx context.Context) ([]domain.ActivityType, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+activityTypeColumns+`
FROM activity_types
JOIN categories ON activity_types.category_id = categories.id
ORDER BY activity_types.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.ActivityType
	for rows.Next() {
		t, err := scanActivityType(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r Repo) ListActivityTypesByCategory(ctx context.Context, categoryID int64) ([]domain.ActivityType, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+activityTypeColumns+`
FROM activity_types
JOIN categories ON activity_types.category_id = categories.id
WHERE category_id = ?
ORDER BY activity_types.id`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.ActivityType
	for rows.Next() {
		t, err := scanActivityType(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r Repo) GetActivityType(ctx context.Context, id int64) (domain.ActivityType, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+activityTypeColumns+`
FROM activity_types
JOIN categories ON activity_types.category_id = categories.id
WHERE activity_types.id = ?`, id)
	t, err := scanActivityType(row.Scan)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	return t, err
}

func (r Repo) UpdateActivityType(ctx context.Context, t domain.ActivityType) (int64, error) {
	toggle := 0
	if t.Toggle {
		toggle = 1
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE activity_types SET name=?, toggle=?, start_label=?, end_label=?, category_id=?, emoji=? WHERE id=?`,
		t.Name, toggle, t.StartLabel, t.EndLabel, t.CategoryID, t.Emoji, t.ID)
	if err != nil {
		return 0, wrapConflict(err)
	}
	return res.RowsAffected()
}

func (r Repo) DeleteActivityType(ctx context.Context, id int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM activity_types WHERE id=?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// --- activities ---

func (r Repo) InsertActivity(ctx context.Context, a domain.Activity) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO activities(type_id,status,description,timestamp) VALUES (?,?,?,?)`,
		a.TypeID, a.Status, nullable(a.Description), a.Timestamp)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r Repo) GetActivity(ctx context.Context, id int64) (domain.Activity, error) {
	var a domain.Activity
	var desc sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`SELECT id,type_id,status,description,timestamp FROM activities WHERE id=?`, id).
		Scan(&a.ID, &a.TypeID, &a.Status, &desc, &a.Timestamp)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	if desc.Valid {
		a.Description = desc.String
	}
	return a, err
}

// LastActivityForType returns the most recent logged activity for a type, or
// nil when the type has never been logged.
func (r Repo) LastActivityForType(ctx context.Context, typeID int64) (*domain.Activity, error) {
	var a domain.Activity
	var desc sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`SELECT id,type_id,status,description,timestamp FROM activities WHERE type_id=? ORDER BY timestamp DESC LIMIT 1`, typeID).
		Scan(&a.ID, &a.TypeID, &a.Status, &desc, &a.Timestamp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		a.Description = desc.String
	}
	return &a, nil
}

const activityRowQuery = `SELECT
activities.id,
activities.type_id,
activity_types.name AS activity_type,
activity_types.start_label,
activity_types.end_label,
activity_types.emoji,
activities.status,
activities.description,
activities.timestamp,
categories.name AS category,
categories.id AS category_id
FROM activities
JOIN activity_types ON activities.type_id = activity_types.id
JOIN categories ON activity_types.category_id = categories.id`

func (r Repo) scanActivityRows(rows *sql.Rows) ([]domain.ActivityRow, error) {
	defer rows.Close()
	var res []domain.ActivityRow
	for rows.Next() {
		var row domain.ActivityRow
		var desc sql.NullString
		if err := rows.Scan(&row.ID, &row.TypeID, &row.ActivityType, &row.StartLabel, &row.EndLabel,
			&row.Emoji, &row.Status, &desc, &row.Timestamp, &row.Category, &row.CategoryID); err != nil {
			return nil, err
		}
		if desc.Valid {
			row.Description = desc.String
		}
		res = append(res, row)
	}
	return res, rows.Err()
}

func (r Repo) ListActivities(ctx context.Context, limit, offset int) ([]domain.ActivityRow, error) {
	rows, err := r.DB.QueryContext(ctx, activityRowQuery+`
ORDER BY activities.timestamp DESC
LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	return r.scanActivityRows(rows)
}

func (r Repo) ListActivitiesByType(ctx context.Context, typeID int64, limit, offset int) ([]domain.ActivityRow, error) {
	rows, err := r.DB.QueryContext(ctx, activityRowQuery+`
WHERE activities.type_id = ?
ORDER BY activities.timestamp DESC
LIMIT ? OFFSET ?`, typeID, limit, offset)
	if err != nil {
		return nil, err
	}
	return r.scanActivityRows(rows)
}

func (r Repo) UpdateActivity(ctx context.Context, a domain.Activity) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE activities SET type_id=?, status=?, description=?, timestamp=? WHERE id=?`,
		a.TypeID, a.Status, nullable(a.Description), a.Timestamp, a.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r Repo) DeleteActivity(ctx context.Context, id int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM activities WHERE id=?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// --- events ---

func (r Repo) LatestEvents(ctx context.Context, n int, evtType string) ([]domain.Event, error) {
	clauses := []string{}
	args := []any{}
	if evtType != "" {
		clauses = append(clauses, "type=?")
		args = append(args, evtType)
	}
	query := `SELECT id,ts,type,entity_kind,entity_id,payload_json FROM events`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, n)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

func (r Repo) LatestEventID(ctx context.Context) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `SELECT COALESCE(MAX(id),0) FROM events`).Scan(&id)
	return id, err
}

// EventsAfter returns events with id greater than cursor, oldest first.
func (r Repo) EventsAfter(ctx context.Context, limit int, cursor int64) ([]domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id,ts,type,entity_kind,entity_id,payload_json FROM events WHERE id > ? ORDER BY id ASC LIMIT ?`,
		cursor, limit)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]domain.Event, error) {
	defer rows.Close()
	var res []domain.Event
	for rows.Next() {
		var e domain.Event
		var entityID sql.NullString
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &e.EntityKind, &entityID, &e.Payload); err != nil {
			return nil, err
		}
		if entityID.Valid {
			e.EntityID = entityID.String
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
