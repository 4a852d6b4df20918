package menu

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"lifelog/internal/domain"
)

// Source is the storage collaborator consulted during one aggregation.
type Source interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListActivityTypes(ctx context.Context) ([]domain.ActivityType, error)
	LastActivityForType(ctx context.Context, typeID int64) (*domain.Activity, error)
}

// Menu is the bucketed aggregation result handed to a presentation adapter.
type Menu struct {
	// Started holds live toggle entries, longest-running first.
	Started []Entry
	// Categories holds the named buckets in listing order; the uncategorized
	// sentinel never appears here. Buckets keep resolution (input) order.
	Categories []CategoryBucket
	// Uncategorized holds sentinel-category entries: never-logged first in
	// input order, then logged entries oldest first.
	Uncategorized []Entry
	// All lists every entry in input order, unique by type id.
	All []Entry
}

type CategoryBucket struct {
	ID      int64
	Name    string
	Entries []Entry
}

// Aggregator resolves every activity type and partitions the results. One
// aggregation is one consistent-enough snapshot; nothing is cached across
// requests.
type Aggregator struct {
	Source        Source
	Resolver      Resolver
	Uncategorized string
}

// Aggregate fires all per-type lookups concurrently, then partitions the
// tagged results in a single synchronous fold. Any storage error fails the
// whole menu; there is no partial result.
func (a Aggregator) Aggregate(ctx context.Context) (Menu, error) {
	categories, err := a.Source.ListCategories(ctx)
	if err != nil {
		return Menu{}, err
	}
	types, err := a.Source.ListActivityTypes(ctx)
	if err != nil {
		return Menu{}, err
	}

	entries := make([]Entry, len(types))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range types {
		g.Go(func() error {
			last, err := a.Source.LastActivityForType(gctx, t.ID)
			if err != nil {
				return err
			}
			entries[i] = a.Resolver.Resolve(t, last)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Menu{}, err
	}
	return a.fold(categories, entries), nil
}

func (a Aggregator) fold(categories []domain.Category, entries []Entry) Menu {
	var m Menu
	byCategory := map[string][]Entry{}
	seen := map[int64]bool{}
	for _, e := range entries {
		// Uniqueness is guaranteed by type id, never by formatted string.
		if seen[e.TypeID] {
			continue
		}
		seen[e.TypeID] = true
		m.All = append(m.All, e)
		switch {
		case e.Status == domain.StatusStarted:
			m.Started = append(m.Started, e)
		case e.Category == a.Uncategorized:
			m.Uncategorized = append(m.Uncategorized, e)
		default:
			byCategory[e.Category] = append(byCategory[e.Category], e)
		}
	}
	for _, c := range categories {
		if c.Name == a.Uncategorized {
			continue
		}
		bucket := byCategory[c.Name]
		if bucket == nil {
			bucket = []Entry{}
		}
		m.Categories = append(m.Categories, CategoryBucket{ID: c.ID, Name: c.Name, Entries: bucket})
	}
	sortByRecency(m.Started)
	sortByRecency(m.Uncategorized)
	return m
}

// sortByRecency orders entries oldest first, with never-logged entries
// (timestamp 0) ahead of everything in their original order. The stable sort
// keeps input order among equal timestamps.
func sortByRecency(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Timestamp == 0 {
			return b.Timestamp != 0
		}
		if b.Timestamp == 0 {
			return false
		}
		return a.Timestamp < b.Timestamp
	})
}
