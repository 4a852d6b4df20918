package menu

import (
	"context"
	"errors"
	"testing"
	"time"

	"lifelog/internal/domain"
)

type fakeSource struct {
	categories []domain.Category
	types      []domain.ActivityType
	last       map[int64]*domain.Activity
	lastErr    error
}

func (f *fakeSource) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return f.categories, nil
}

func (f *fakeSource) ListActivityTypes(ctx context.Context) ([]domain.ActivityType, error) {
	return f.types, nil
}

func (f *fakeSource) LastActivityForType(ctx context.Context, typeID int64) (*domain.Activity, error) {
	if f.lastErr != nil {
		return nil, f.lastErr
	}
	return f.last[typeID], nil
}

var aggNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newAggregator(src Source) Aggregator {
	return Aggregator{
		Source:        src,
		Resolver:      Resolver{Now: func() time.Time { return aggNow }},
		Uncategorized: "Uncategorized",
	}
}

func TestAggregatePartitions(t *testing.T) {
	src := &fakeSource{
		categories: []domain.Category{
			{ID: 1, Name: "Uncategorized"},
			{ID: 2, Name: "Health"},
			{ID: 3, Name: "Leisure"},
		},
		types: []domain.ActivityType{
			{ID: 1, Name: "Work", Toggle: true, StartLabel: "Start work", EndLabel: "End work", Category: "Uncategorized"},
			{ID: 2, Name: "Run", Category: "Health"},
			{ID: 3, Name: "Read", Category: "Leisure"},
			{ID: 4, Name: "Meditate", Category: "Uncategorized"},
		},
		last: map[int64]*domain.Activity{
			1: {Status: domain.StatusStarted, Timestamp: aggNow.Add(-time.Hour).Unix()},
			2: {Status: domain.StatusNone, Timestamp: aggNow.Add(-time.Minute).Unix()},
		},
	}

	m, err := newAggregator(src).Aggregate(context.Background())
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	if len(m.Started) != 1 || m.Started[0].Label != "End work" {
		t.Fatalf("started = %+v", m.Started)
	}
	if len(m.Categories) != 2 {
		t.Fatalf("expected 2 named buckets, got %+v", m.Categories)
	}
	if m.Categories[0].Name != "Health" || m.Categories[1].Name != "Leisure" {
		t.Fatalf("bucket order = %q, %q", m.Categories[0].Name, m.Categories[1].Name)
	}
	if len(m.Categories[0].Entries) != 1 || m.Categories[0].Entries[0].Label != "Run" {
		t.Fatalf("health bucket = %+v", m.Categories[0].Entries)
	}
	if len(m.Uncategorized) != 1 || m.Uncategorized[0].Label != "Meditate" {
		t.Fatalf("uncategorized = %+v", m.Uncategorized)
	}
	if len(m.All) != 4 {
		t.Fatalf("all = %+v", m.All)
	}
}

func TestAggregateEmptyNamedBucketKept(t *testing.T) {
	src := &fakeSource{
		categories: []domain.Category{
			{ID: 1, Name: "Uncategorized"},
			{ID: 2, Name: "Health"},
		},
		types: []domain.ActivityType{
			{ID: 1, Name: "Read", Category: "Uncategorized"},
		},
	}

	m, err := newAggregator(src).Aggregate(context.Background())
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(m.Categories) != 1 || m.Categories[0].Name != "Health" {
		t.Fatalf("categories = %+v", m.Categories)
	}
	if m.Categories[0].Entries == nil || len(m.Categories[0].Entries) != 0 {
		t.Fatalf("expected empty non-nil bucket, got %#v", m.Categories[0].Entries)
	}
}

func TestAggregateStartedOrdering(t *testing.T) {
	src := &fakeSource{
		categories: []domain.Category{{ID: 1, Name: "Uncategorized"}},
		types: []domain.ActivityType{
			{ID: 1, Name: "A", Toggle: true, StartLabel: "Start A", EndLabel: "End A", Category: "Uncategorized"},
			{ID: 2, Name: "B", Toggle: true, StartLabel: "Start B", EndLabel: "End B", Category: "Uncategorized"},
			{ID: 3, Name: "C", Toggle: true, StartLabel: "Start C", EndLabel: "End C", Category: "Uncategorized"},
		},
		last: map[int64]*domain.Activity{
			1: {Status: domain.StatusStarted, Timestamp: aggNow.Add(-time.Minute).Unix()},
			2: {Status: domain.StatusStarted, Timestamp: aggNow.Add(-time.Hour).Unix()},
			3: {Status: domain.StatusStarted, Timestamp: aggNow.Add(-24 * time.Hour).Unix()},
		},
	}

	m, err := newAggregator(src).Aggregate(context.Background())
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	want := []string{"End C", "End B", "End A"}
	if len(m.Started) != len(want) {
		t.Fatalf("started = %+v", m.Started)
	}
	for i, label := range want {
		if m.Started[i].Label != label {
			t.Fatalf("started[%d] = %q, want %q (full: %+v)", i, m.Started[i].Label, label, m.Started)
		}
	}
}

func TestAggregateUncategorizedOrdering(t *testing.T) {
	src := &fakeSource{
		categories: []domain.Category{{ID: 1, Name: "Uncategorized"}},
		types: []domain.ActivityType{
			{ID: 1, Name: "Recent", Category: "Uncategorized"},
			{ID: 2, Name: "NeverA", Category: "Uncategorized"},
			{ID: 3, Name: "Old", Category: "Uncategorized"},
			{ID: 4, Name: "NeverB", Category: "Uncategorized"},
		},
		last: map[int64]*domain.Activity{
			1: {Status: domain.StatusNone, Timestamp: aggNow.Add(-time.Minute).Unix()},
			3: {Status: domain.StatusNone, Timestamp: aggNow.Add(-48 * time.Hour).Unix()},
		},
	}

	m, err := newAggregator(src).Aggregate(context.Background())
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	want := []string{"NeverA", "NeverB", "Old", "Recent"}
	if len(m.Uncategorized) != len(want) {
		t.Fatalf("uncategorized = %+v", m.Uncategorized)
	}
	for i, label := range want {
		if m.Uncategorized[i].Label != label {
			t.Fatalf("uncategorized[%d] = %q, want %q", i, m.Uncategorized[i].Label, label)
		}
	}
}

func TestAggregateDedupByTypeID(t *testing.T) {
	src := &fakeSource{
		categories: []domain.Category{{ID: 1, Name: "Uncategorized"}},
		types: []domain.ActivityType{
			{ID: 1, Name: "Read", Category: "Uncategorized"},
			{ID: 1, Name: "Read", Category: "Uncategorized"},
			{ID: 2, Name: "Read", Category: "Uncategorized"},
		},
	}

	m, err := newAggregator(src).Aggregate(context.Background())
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	// Same type id collapses; same label on a different id does not.
	if len(m.All) != 2 {
		t.Fatalf("all = %+v", m.All)
	}
	if len(m.Uncategorized) != 2 {
		t.Fatalf("uncategorized = %+v", m.Uncategorized)
	}
}

func TestAggregateFailsWhole(t *testing.T) {
	wantErr := errors.New("sqlite: disk I/O error")
	src := &fakeSource{
		categories: []domain.Category{{ID: 1, Name: "Uncategorized"}},
		types: []domain.ActivityType{
			{ID: 1, Name: "Read", Category: "Uncategorized"},
			{ID: 2, Name: "Run", Category: "Uncategorized"},
		},
		lastErr: wantErr,
	}

	m, err := newAggregator(src).Aggregate(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
	if m.All != nil || m.Started != nil {
		t.Fatalf("expected zero menu on error, got %+v", m)
	}
}
