package menu

import (
	"strings"
	"testing"
	"time"

	"lifelog/internal/domain"
)

func testResolver() Resolver {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return Resolver{
		Annotations: map[string]string{
			"gaming":         "Game: ",
			"watching tv":    "Show: ",
			"watching movie": "Movie: ",
		},
		Now: func() time.Time { return now },
	}
}

func TestResolveNonToggle(t *testing.T) {
	r := testResolver()
	typ := domain.ActivityType{ID: 1, Name: "Read", Category: "Leisure"}

	e := r.Resolve(typ, nil)
	if e.Label != "Read" || e.Status != domain.StatusNone || e.Elapsed != NotLogged {
		t.Fatalf("never logged: %+v", e)
	}

	last := &domain.Activity{TypeID: 1, Status: domain.StatusNone, Timestamp: r.now().Add(-2 * time.Hour).Unix()}
	e = r.Resolve(typ, last)
	if e.Label != "Read" || e.Status != domain.StatusNone {
		t.Fatalf("non-toggle must stay none: %+v", e)
	}
	if e.Elapsed != "2 hours ago" {
		t.Fatalf("elapsed = %q", e.Elapsed)
	}
}

func TestResolveToggleNeverLogged(t *testing.T) {
	r := testResolver()
	typ := domain.ActivityType{ID: 2, Name: "Work", Toggle: true, StartLabel: "Start work", EndLabel: "End work"}

	e := r.Resolve(typ, nil)
	if e.Label != "Start work" || e.Status != domain.StatusNotStarted || e.Elapsed != NotLogged {
		t.Fatalf("never-logged toggle: %+v", e)
	}
}

func TestResolveToggleStates(t *testing.T) {
	r := testResolver()
	typ := domain.ActivityType{ID: 2, Name: "Work", Toggle: true, StartLabel: "Start work", EndLabel: "End work"}
	ts := r.now().Add(-10 * time.Minute).Unix()

	e := r.Resolve(typ, &domain.Activity{Status: domain.StatusStarted, Timestamp: ts})
	if e.Label != "End work" || e.Status != domain.StatusStarted || e.Elapsed != "10 minutes ago" {
		t.Fatalf("running toggle: %+v", e)
	}

	for _, status := range []string{domain.StatusNotStarted, domain.StatusNone} {
		e = r.Resolve(typ, &domain.Activity{Status: status, Timestamp: ts})
		if e.Label != "Start work" || e.Status != domain.StatusNotStarted {
			t.Fatalf("stopped toggle with last %q: %+v", status, e)
		}
	}
}

func TestResolveAnnotationSubstitution(t *testing.T) {
	r := testResolver()
	typ := domain.ActivityType{ID: 3, Name: "gaming", Toggle: true, StartLabel: "Start gaming", EndLabel: "End gaming"}
	ts := r.now().Add(-90 * time.Second).Unix()

	e := r.Resolve(typ, &domain.Activity{Status: domain.StatusStarted, Description: "Game: Hades", Timestamp: ts})
	if e.Label != "End Hades" {
		t.Fatalf("label = %q, want End Hades", e.Label)
	}
	if strings.Contains(e.Label, "gaming") {
		t.Fatalf("type name leaked into substituted label %q", e.Label)
	}
	if e.Elapsed != "1 minute ago" {
		t.Fatalf("elapsed = %q", e.Elapsed)
	}
}

func TestResolveAnnotationFallbacks(t *testing.T) {
	r := testResolver()
	typ := domain.ActivityType{ID: 3, Name: "gaming", Toggle: true, StartLabel: "Start gaming", EndLabel: "End gaming"}
	ts := r.now().Add(-time.Minute).Unix()

	cases := []struct {
		name        string
		description string
	}{
		{"no marker", "having fun"},
		{"empty remainder", "Game: "},
		{"empty description", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := r.Resolve(typ, &domain.Activity{Status: domain.StatusStarted, Description: tc.description, Timestamp: ts})
			if e.Label != "End gaming" {
				t.Fatalf("label = %q, want generic End gaming", e.Label)
			}
		})
	}
}

func TestResolveCaseInsensitiveSubstitution(t *testing.T) {
	r := testResolver()
	typ := domain.ActivityType{ID: 4, Name: "Gaming", Toggle: true, StartLabel: "Start Gaming", EndLabel: "Stop GAMING now"}
	r.Annotations["gaming"] = "Game: "
	ts := r.now().Add(-time.Minute).Unix()

	e := r.Resolve(typ, &domain.Activity{Status: domain.StatusStarted, Description: "Game: Celeste", Timestamp: ts})
	if e.Label != "Stop Celeste now" {
		t.Fatalf("label = %q, want Stop Celeste now", e.Label)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	r := testResolver()
	typ := domain.ActivityType{ID: 5, Name: "gaming", Toggle: true, StartLabel: "Start gaming", EndLabel: "End gaming"}
	last := &domain.Activity{Status: domain.StatusStarted, Description: "Game: Hades", Timestamp: r.now().Add(-time.Hour).Unix()}

	first := r.Resolve(typ, last)
	second := r.Resolve(typ, last)
	if first != second {
		t.Fatalf("resolve not idempotent: %+v vs %+v", first, second)
	}
}
