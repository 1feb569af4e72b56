package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/hippotype/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "passages.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return st
}

func TestRandomPassageEmpty(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.RandomPassage(context.Background(), model.DomainStory); !errors.Is(err, ErrNoPassage) {
		t.Fatalf("expected ErrNoPassage, got %v", err)
	}
}

func TestSaveAndRandomPassage(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	id, err := st.SavePassage(ctx, model.Passage{
		Domain:    model.DomainCoding,
		Text:      "Refactoring keeps code readable.",
		Topic:     "code refactoring",
		Model:     "openai/gpt-oss-20b",
		CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := st.SavePassage(ctx, model.Passage{Domain: model.DomainStory, Text: "Other domain."}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := st.RandomPassage(ctx, model.DomainCoding)
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	if got.ID != id || got.Text != "Refactoring keeps code readable." || got.Topic != "code refactoring" {
		t.Fatalf("unexpected passage %+v", got)
	}
	if got.Domain != model.DomainCoding || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected domain or time %+v", got)
	}
}

func TestCountAndPrune(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := st.SavePassage(ctx, model.Passage{
			Domain:    model.DomainGeneral,
			Text:      "passage",
			Topic:     "t",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if _, err := st.SavePassage(ctx, model.Passage{Domain: model.DomainStory, Text: "story"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	removed, err := st.Prune(ctx, model.DomainGeneral, 2)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}
	n, err := st.CountPassages(ctx, model.DomainGeneral)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 general passages, got %d", n)
	}
	all, err := st.CountPassages(ctx, "")
	if err != nil {
		t.Fatalf("count all: %v", err)
	}
	if all != 3 {
		t.Fatalf("expected 3 passages total, got %d", all)
	}

	for i := 0; i < 10; i++ {
		p, err := st.RandomPassage(ctx, model.DomainGeneral)
		if err != nil {
			t.Fatalf("random: %v", err)
		}
		if p.CreatedAt.Before(base.Add(3 * time.Minute)) {
			t.Fatalf("expected oldest passages pruned, got %v", p.CreatedAt)
		}
	}
}

func TestPruneKeepsNewestWithinSecond(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	// Saved newest first; RFC3339Nano would render these as ".12Z" and ".1Z".
	for _, p := range []struct {
		text string
		at   time.Duration
	}{
		{text: "newer", at: 120 * time.Millisecond},
		{text: "older", at: 100 * time.Millisecond},
	} {
		if _, err := st.SavePassage(ctx, model.Passage{
			Domain:    model.DomainGeneral,
			Text:      p.text,
			CreatedAt: base.Add(p.at),
		}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	removed, err := st.Prune(ctx, model.DomainGeneral, 1)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	got, err := st.RandomPassage(ctx, model.DomainGeneral)
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	if got.Text != "newer" {
		t.Fatalf("expected newer passage kept, got %q", got.Text)
	}
	if !got.CreatedAt.Equal(base.Add(120 * time.Millisecond)) {
		t.Fatalf("unexpected created_at %v", got.CreatedAt)
	}
}
