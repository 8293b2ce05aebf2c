package service

import (
	"context"
	"strings"

	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/domain"
	"github.com/nguyenthanhcong03/f8-clone-sub000/internal/store"
	"github.com/nguyenthanhcong03/f8-clone-sub000/pkg/httpx"
)

type UserService struct {
	Store store.Store
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return u, nil
}

// UpdateProfile sets the user's display name and avatar and returns the
// updated record.
func (s *UserService) UpdateProfile(ctx context.Context, userID, fullName, avatar string) (domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return domain.User{}, ErrInvalidInput
	}

	if err := s.Store.Users().UpdateProfile(ctx, userID, fullName, avatar); err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return s.GetUserByID(ctx, userID)
}

// LoadIdentity implements httpx.IdentityLoader. Protected routes re-load the
// user record on every request so role changes and deletions take effect
// before the access token expires.
func (s *UserService) LoadIdentity(ctx context.Context, userID string) (httpx.Identity, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return httpx.Identity{}, err
	}
	return httpx.Identity{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
		Avatar:   u.Avatar,
	}, nil
}
