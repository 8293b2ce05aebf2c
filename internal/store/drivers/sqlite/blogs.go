package sqlite

import (
	"context"
	"time"

	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/domain"
)

type blogsRepo struct {
	db dbtx
}

const blogColumns = `id, author_id, title, slug, content, published, created_at, updated_at`

func (r *blogsRepo) GetBlogByID(ctx context.Context, id string) (domain.Blog, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+blogColumns+` FROM blogs WHERE id = ?`, id)
	return scanBlog(row)
}

func (r *blogsRepo) GetBlogBySlug(ctx context.Context, slug string) (domain.Blog, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+blogColumns+` FROM blogs WHERE slug = ?`, slug)
	return scanBlog(row)
}

func (r *blogsRepo) ListBlogs(ctx context.Context, includeDrafts bool) ([]domain.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE published = 1 ORDER BY id DESC`
	if includeDrafts {
		query = `SELECT ` + blogColumns + ` FROM blogs ORDER BY id DESC`
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *blogsRepo) CreateBlog(ctx context.Context, b domain.Blog) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO blogs (id, author_id, title, slug, content, published, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.AuthorID, b.Title, b.Slug, b.Content, b.Published, now, now)
	return mapConflict(err)
}

func (r *blogsRepo) UpdateBlog(ctx context.Context, b domain.Blog) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`UPDATE blogs SET title = ?, slug = ?, content = ?, published = ?, updated_at = ?
		 WHERE id = ?`,
		b.Title, b.Slug, b.Content, b.Published, time.Now().UTC(), b.ID))
}

func (r *blogsRepo) DeleteBlog(ctx context.Context, id string) error {
	return affectedOrNotFound(r.db.ExecContext(ctx,
		`DELETE FROM blogs WHERE id = ?`, id))
}

func scanBlog(row rowScanner) (domain.Blog, error) {
	var b domain.Blog
	err := row.Scan(
		&b.ID, &b.AuthorID, &b.Title, &b.Slug,
		&b.Content, &b.Published, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return domain.Blog{}, mapNotFound(err)
	}
	return b, nil
}
