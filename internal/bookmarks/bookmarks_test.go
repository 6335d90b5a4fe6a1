package bookmarks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/acgh213/marklinks/internal/testutil"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"http://example.com", false},
		{"  https://example.com/a?b=c  ", false},
		{"magnet:?xt=urn:btih:abc", false},
		{"mailto:someone@example.com", false},
		{"example.com", true},
		{"", true},
		{"http://", true},
	}
	for _, tt := range tests {
		err := ValidateURL(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidURL) {
			t.Errorf("ValidateURL(%q) error %v does not wrap ErrInvalidURL", tt.url, err)
		}
	}
}

func TestNormalizeTags(t *testing.T) {
	if got := NormalizeTags("  go web\tgo  nomarkdown "); got != "go web nomarkdown" {
		t.Errorf("NormalizeTags = %q", got)
	}
	if got := NormalizeTags(""); got != "" {
		t.Errorf("NormalizeTags(empty) = %q", got)
	}
}

// ---------------------------------------------------------------------------
// Repository (requires TEST_DATABASE_URL)
// ---------------------------------------------------------------------------

func TestRepository_CreateAndGet(t *testing.T) {
	pool := testutil.SetupDB(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	b, err := repo.Create(ctx, CreateInput{
		URL:         testutil.UniqueURL("create"),
		Description: "line1\r\nline2",
		Tags:        "go go nomarkdown",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Title != b.URL {
		t.Errorf("expected title to default to URL, got %q", b.Title)
	}
	if b.Tags != "go nomarkdown" {
		t.Errorf("tags not normalized: %q", b.Tags)
	}

	got, err := repo.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != "line1\nline2" {
		t.Errorf("unexpected description %q", got.Description)
	}

	if _, err := repo.Get(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.Create(ctx, CreateInput{URL: "not a url"}); !errors.Is(err, ErrInvalidURL) {
		t.Errorf("expected ErrInvalidURL, got %v", err)
	}
}

func TestRepository_ListTaggedAndBetween(t *testing.T) {
	pool := testutil.SetupDB(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	tag := "t" + uuid.New().String()[:8]
	day := time.Date(1999, 1, 2, 0, 0, 0, 0, time.UTC).Add(time.Duration(uuid.New().ID()%1000) * 24 * time.Hour)

	first := testutil.CreateBookmark(t, pool, "first", "", tag, day.Add(time.Hour))
	second := testutil.CreateBookmark(t, pool, "second", "", "other "+tag, day.Add(2*time.Hour))
	testutil.CreateBookmark(t, pool, "untagged", "", "other", day.Add(3*time.Hour))

	tagged, err := repo.ListTagged(ctx, tag)
	if err != nil {
		t.Fatalf("list tagged: %v", err)
	}
	if len(tagged) != 2 || tagged[0].ID != second || tagged[1].ID != first {
		t.Errorf("unexpected tagged list %+v", tagged)
	}

	daily, err := repo.ListBetween(ctx, day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("list between: %v", err)
	}
	var order []uuid.UUID
	for _, b := range daily {
		if b.ID == first || b.ID == second {
			order = append(order, b.ID)
		}
	}
	if len(order) != 2 || order[0] != first {
		t.Errorf("expected oldest first within the day, got %v", order)
	}

	counts, err := repo.TagCounts(ctx)
	if err != nil {
		t.Fatalf("tag counts: %v", err)
	}
	if counts[tag] != 2 {
		t.Errorf("expected count 2 for %s, got %d", tag, counts[tag])
	}
}
