package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("bookmark not found")
	ErrInvalidURL = errors.New("invalid bookmark URL")
)

type Bookmark struct {
	ID          uuid.UUID
	URL         string
	Title       string
	Description string
	Tags        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TagList splits the space separated tags.
func (b Bookmark) TagList() []string {
	return strings.Fields(b.Tags)
}

type CreateInput struct {
	URL         string
	Title       string
	Description string
	Tags        string
	CreatedAt   time.Time // zero means now
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const selectColumns = `id, url, title, description, tags, created_at, updated_at`

func scanBookmarks(rows pgx.Rows) ([]Bookmark, error) {
	defer rows.Close()

	var out []Bookmark
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.ID, &b.URL, &b.Title, &b.Description, &b.Tags, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmarks: %w", err)
	}
	return out, nil
}

// List returns bookmarks newest first.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Bookmark, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+selectColumns+`
		FROM bookmarks
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query bookmarks: %w", err)
	}
	return scanBookmarks(rows)
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookmarks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bookmarks: %w", err)
	}
	return n, nil
}

// ListTagged returns every bookmark carrying tag, newest first.
func (r *Repository) ListTagged(ctx context.Context, tag string) ([]Bookmark, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+selectColumns+`
		FROM bookmarks
		WHERE $1 = ANY(string_to_array(tags, ' '))
		ORDER BY created_at DESC, id
	`, tag)
	if err != nil {
		return nil, fmt.Errorf("query bookmarks by tag: %w", err)
	}
	return scanBookmarks(rows)
}

// ListBetween returns bookmarks created in [from, to), oldest first.
func (r *Repository) ListBetween(ctx context.Context, from, to time.Time) ([]Bookmark, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+selectColumns+`
		FROM bookmarks
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at, id
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("query bookmarks by day: %w", err)
	}
	return scanBookmarks(rows)
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Bookmark, error) {
	var b Bookmark
	err := r.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM bookmarks WHERE id = $1`, id).
		Scan(&b.ID, &b.URL, &b.Title, &b.Description, &b.Tags, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get bookmark: %w", err)
	}
	return &b, nil
}

func (r *Repository) Create(ctx context.Context, in CreateInput) (*Bookmark, error) {
	if err := ValidateURL(in.URL); err != nil {
		return nil, err
	}
	created := in.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	b := &Bookmark{
		ID:          uuid.New(),
		URL:         strings.TrimSpace(in.URL),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.ReplaceAll(in.Description, "\r\n", "\n"),
		Tags:        NormalizeTags(in.Tags),
	}
	if b.Title == "" {
		b.Title = b.URL
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO bookmarks (id, url, title, description, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING created_at, updated_at
	`, b.ID, b.URL, b.Title, b.Description, b.Tags, created).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert bookmark: %w", err)
	}
	return b, nil
}

// TagCounts returns how many bookmarks use each tag.
func (r *Repository) TagCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT tags FROM bookmarks WHERE tags <> ''`)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, fmt.Errorf("scan tags: %w", err)
		}
		for _, tag := range strings.Fields(tags) {
			counts[tag]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return counts, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// ValidateURL accepts absolute URLs: a scheme plus a host, an opaque part
// or a query (magnet links).
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "" && u.RawQuery == "") {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return nil
}

// NormalizeTags collapses whitespace and drops duplicate tags, keeping
// first-seen order.
func NormalizeTags(tags string) string {
	seen := make(map[string]bool)
	var out []string
	for _, tag := range strings.Fields(tags) {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return strings.Join(out, " ")
}
