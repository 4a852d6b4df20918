package app

import (
	"context"
	"errors"
	"fmt"

	"lifelog/internal/config"
	"lifelog/internal/db"
	"lifelog/internal/engine"
	"lifelog/internal/migrate"
	"lifelog/internal/repo"
)

// Open prepares a workspace for use: opens the database, applies migrations,
// loads the optional lifelog.yml, and makes sure the uncategorized sentinel
// category exists. The returned closer releases the database handle.
func Open(ctx context.Context, workspace string) (engine.Engine, func() error, error) {
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return engine.Engine{}, nil, err
	}
	if err := migrate.Migrate(conn); err != nil {
		conn.Close()
		return engine.Engine{}, nil, fmt.Errorf("migrate: %w", err)
	}
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		conn.Close()
		return engine.Engine{}, nil, err
	}
	e := engine.New(conn, cfg)
	if err := EnsureSentinel(ctx, e.Repo, cfg.Menu.Uncategorized); err != nil {
		conn.Close()
		return engine.Engine{}, nil, fmt.Errorf("ensure sentinel category: %w", err)
	}
	return e, conn.Close, nil
}

// EnsureSentinel creates the well-known category that holds activity types
// without an explicit category. Migrations seed the default name; this covers
// workspaces configured with a different one.
func EnsureSentinel(ctx context.Context, r repo.Repo, name string) error {
	_, err := r.GetCategoryByName(ctx, name)
	if errors.Is(err, repo.ErrNotFound) {
		_, err = r.InsertCategory(ctx, name)
	}
	return err
}
