package menu

import (
	"strings"
	"testing"

	"lifelog/internal/domain"
)

func sampleMenu() Menu {
	started := Entry{TypeID: 1, Label: "End work", Status: domain.StatusStarted, Elapsed: "10 minutes ago", Timestamp: 1000, Emoji: "💼"}
	health := Entry{TypeID: 2, Label: "Run", Status: domain.StatusNone, Elapsed: "2 days ago", Timestamp: 500, Category: "Health", Emoji: "🏃"}
	read := Entry{TypeID: 3, Label: "Read", Status: domain.StatusNone, Elapsed: NotLogged, Category: "Uncategorized", Emoji: "📖"}
	return Menu{
		Started:       []Entry{started},
		Categories:    []CategoryBucket{{ID: 2, Name: "Health", Entries: []Entry{health}}},
		Uncategorized: []Entry{read},
		All:           []Entry{started, health, read},
	}
}

func TestPlainView(t *testing.T) {
	out := PlainView(sampleMenu())

	started, ok := out["started"].([]string)
	if !ok || len(started) != 1 || started[0] != "End work (10 minutes ago)" {
		t.Fatalf("started = %v", out["started"])
	}
	health, ok := out["Health"].([]string)
	if !ok || len(health) != 1 || health[0] != "Run (2 days ago)" {
		t.Fatalf("Health = %v", out["Health"])
	}
	uncat, ok := out["uncategorized"].([]string)
	if !ok || len(uncat) != 1 || uncat[0] != "Read (N/A)" {
		t.Fatalf("uncategorized = %v", out["uncategorized"])
	}
	ids, ok := out["ids"].([]IDEntry)
	if !ok || len(ids) != 3 {
		t.Fatalf("ids = %v", out["ids"])
	}
	if ids[0] != (IDEntry{ID: 1, Name: "End work", Status: domain.StatusStarted}) {
		t.Fatalf("ids[0] = %+v", ids[0])
	}
}

func TestStructuredView(t *testing.T) {
	out := StructuredView(sampleMenu())

	started, ok := out["started"].([]StructuredEntry)
	if !ok || len(started) != 1 {
		t.Fatalf("started = %v", out["started"])
	}
	want := StructuredEntry{TypeID: 1, Name: "End work", Timestamp: 1000, Elapsed: "10 minutes ago", Status: domain.StatusStarted, Emoji: "💼"}
	if started[0] != want {
		t.Fatalf("started[0] = %+v, want %+v", started[0], want)
	}
	if _, ok := out["Health"]; !ok {
		t.Fatalf("missing Health bucket in %v", out)
	}
}

func TestShortcutsView(t *testing.T) {
	out := ShortcutsView(sampleMenu())

	blocks := []string{
		"title: End work\nsub: 10 minutes ago\nicon: 💼\n",
		"title: Health\nsub: 1 activities\nicon: 📂\n",
		"title: Read\nsub: N/A\nicon: 📖\n",
	}
	if out.Labels != strings.Join(blocks, "\n") {
		t.Fatalf("labels = %q", out.Labels)
	}

	leaf, ok := out.Data["End work"].(map[string]any)
	if !ok {
		t.Fatalf("missing End work leaf in %v", out.Data)
	}
	if leaf["isCategory"] != false || leaf["time_elapsed"] != "10 minutes ago" {
		t.Fatalf("leaf = %v", leaf)
	}

	cat, ok := out.Data["Health"].(map[string]any)
	if !ok {
		t.Fatalf("missing Health block in %v", out.Data)
	}
	if cat["isCategory"] != true {
		t.Fatalf("category isCategory = %v", cat["isCategory"])
	}
	subData, ok := cat["data"].(map[string]any)
	if !ok || subData["Run"] == nil {
		t.Fatalf("category data = %v", cat["data"])
	}
	if cat["labels"] != "title: Run\nsub: 2 days ago\nicon: 🏃\n" {
		t.Fatalf("category labels = %q", cat["labels"])
	}
}
