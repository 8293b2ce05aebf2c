package service

import (
	"context"
	"errors"
	"strings"

	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/domain"
	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/store"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/idx"
)

// BlogService manages blog posts. Published posts are public; drafts are
// visible only through the admin listing.
type BlogService struct {
	Store store.Store
}

func (s *BlogService) ListBlogs(ctx context.Context, includeDrafts bool) ([]domain.Blog, error) {
	return s.Store.Blogs().ListBlogs(ctx, includeDrafts)
}

func (s *BlogService) GetBlogByID(ctx context.Context, id string) (domain.Blog, error) {
	b, err := s.Store.Blogs().GetBlogByID(ctx, id)
	if err != nil {
		return domain.Blog{}, mapStoreErr(err)
	}
	return b, nil
}

// GetBlogBySlug resolves a post for the public blog page. Drafts behave as if
// they do not exist.
func (s *BlogService) GetBlogBySlug(ctx context.Context, slug string, includeDrafts bool) (domain.Blog, error) {
	b, err := s.Store.Blogs().GetBlogBySlug(ctx, slug)
	if err != nil {
		return domain.Blog{}, mapStoreErr(err)
	}
	if !b.Published && !includeDrafts {
		return domain.Blog{}, ErrNotFound
	}
	return b, nil
}

func (s *BlogService) CreateBlog(ctx context.Context, authorID, title, content string, published bool) (domain.Blog, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Blog{}, ErrInvalidInput
	}

	b := domain.Blog{
		ID:        idx.New().String(),
		AuthorID:  authorID,
		Title:     title,
		Slug:      Slugify(title),
		Content:   content,
		Published: published,
	}

	if err := s.Store.Blogs().CreateBlog(ctx, b); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Blog{}, ErrSlugTaken
		}
		return domain.Blog{}, err
	}
	return b, nil
}

func (s *BlogService) UpdateBlog(ctx context.Context, id, title, content string, published bool) (domain.Blog, error) {
	b, err := s.Store.Blogs().GetBlogByID(ctx, id)
	if err != nil {
		return domain.Blog{}, mapStoreErr(err)
	}

	b.Title = strings.TrimSpace(title)
	if b.Title == "" {
		return domain.Blog{}, ErrInvalidInput
	}
	b.Slug = Slugify(b.Title)
	b.Content = content
	b.Published = published

	if err := s.Store.Blogs().UpdateBlog(ctx, b); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Blog{}, ErrSlugTaken
		}
		return domain.Blog{}, mapStoreErr(err)
	}
	return b, nil
}

func (s *BlogService) DeleteBlog(ctx context.Context, id string) error {
	return mapStoreErr(s.Store.Blogs().DeleteBlog(ctx, id))
}
