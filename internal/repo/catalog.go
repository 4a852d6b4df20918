package repo

import (
	"context"
	"database/sql"

	"lifelog/internal/domain"
)

// Flat reference lists used to annotate activity descriptions.

func (r Repo) InsertGame(ctx context.Context, name string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `INSERT INTO games(name) VALUES (?)`, name)
	if err != nil {
		return 0, wrapConflict(err)
	}
	return res.LastInsertId()
}

func (r Repo) ListGames(ctx context.Context) ([]domain.Game, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,name FROM games ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Game
	for rows.Next() {
		var g domain.Game
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

func (r Repo) GetGame(ctx context.Context, id int64) (domain.Game, error) {
	var g domain.Game
	err := r.DB.QueryRowContext(ctx, `SELECT id,name FROM games WHERE id=?`, id).Scan(&g.ID, &g.Name)
	if err == sql.ErrNoRows {
		return g, ErrNotFound
	}
	return g, err
}

func (r Repo) GetGameByName(ctx context.Context, name string) (domain.Game, error) {
	var g domain.Game
	err := r.DB.QueryRowContext(ctx, `SELECT id,name FROM games WHERE name=?`, name).Scan(&g.ID, &g.Name)
	if err == sql.ErrNoRows {
		return g, ErrNotFound
	}
	return g, err
}

func (r Repo) UpdateGame(ctx context.Context, id int64, name string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE games SET name=? WHERE id=?`, name, id)
	if err != nil {
		return 0, wrapConflict(err)
	}
	return res.RowsAffected()
}

func (r Repo) DeleteGame(ctx context.Context, id int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM games WHERE id=?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r Repo) InsertMovie(ctx context.Context, title string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `INSERT INTO movies(title) VALUES (?)`, title)
	if err != nil {
		return 0, wrapConflict(err)
	}
	return res.LastInsertId()
}

func (r Repo) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,title FROM movies ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Movie
	for rows.Next() {
		var m domain.Movie
		if err := rows.Scan(&m.ID, &m.Title); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r Repo) GetMovie(ctx context.Context, id int64) (domain.Movie, error) {
	var m domain.Movie
	err := r.DB.QueryRowContext(ctx, `SELECT id,title FROM movies WHERE id=?`, id).Scan(&m.ID, &m.Title)
	if err == sql.ErrNoRows {
		return m, ErrNotFound
	}
	return m, err
}

func (r Repo) GetMovieByTitle(ctx context.Context, title string) (domain.Movie, error) {
	var m domain.Movie
	err := r.DB.QueryRowContext(ctx, `SELECT id,title FROM movies WHERE title=?`, title).Scan(&m.ID, &m.Title)
	if err == sql.ErrNoRows {
		return m, ErrNotFound
	}
	return m, err
}

func (r Repo) UpdateMovie(ctx context.Context, id int64, title string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE movies SET title=? WHERE id=?`, title, id)
	if err != nil {
		return 0, wrapConflict(err)
	}
	return res.RowsAffected()
}

func (r Repo) DeleteMovie(ctx context.Context, id int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM movies WHERE id=?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r Repo) InsertTVShow(ctx context.Context, title string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `INSERT INTO tv_shows(title) VALUES (?)`, title)
	if err != nil {
		return 0, wrapConflict(err)
	}
	return res.LastInsertId()
}

func (r Repo) ListTVShows(ctx context.Context) ([]domain.TVShow, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,title FROM tv_shows ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.TVShow
	for rows.Next() {
		var s domain.TVShow
		if err := rows.Scan(&s.ID, &s.Title); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r Repo) GetTVShow(ctx context.Context, id int64) (domain.TVShow, error) {
	var s domain.TVShow
	err := r.DB.QueryRowContext(ctx, `SELECT id,title FROM tv_shows WHERE id=?`, id).Scan(&s.ID, &s.Title)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	return s, err
}

func (r Repo) GetTVShowByTitle(ctx context.Context, title string) (domain.TVShow, error) {
	var s domain.TVShow
	err := r.DB.QueryRowContext(ctx, `SELECT id,title FROM tv_shows WHERE title=?`, title).Scan(&s.ID, &s.Title)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	return s, err
}

func (r Repo) UpdateTVShow(ctx context.Context, id int64, title string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE tv_shows SET title=? WHERE id=?`, title, id)
	if err != nil {
		return 0, wrapConflict(err)
	}
	return res.RowsAffected()
}

func (r Repo) DeleteTVShow(ctx context.Context, id int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tv_shows WHERE id=?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
