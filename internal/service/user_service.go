package service

import (
	"context"
	"errors"

	"cirqls/internal/models"
	"cirqls/internal/repository"

	"gorm.io/gorm"
)

type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

type UpdateProfileInput struct {
	UserID        uint
	ProfilePicSrc string
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository) *UserService {
	return &UserService{userRepo: userRepo, postRepo: postRepo}
}

func (s *UserService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("user", 0)
		}
		return nil, models.NewUpstreamError("users", err)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, models.NewUpstreamError("users", err)
	}

	user.ProfilePicSrc = in.ProfilePicSrc
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, models.NewUpstreamError("users", err)
	}
	return user, nil
}

func (s *UserService) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return models.NewValidationError("Cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("user", followedID)
		}
		return models.NewUpstreamError("users", err)
	}
	if err := s.userRepo.Follow(ctx, followerID, followedID); err != nil {
		return models.NewUpstreamError("users", err)
	}
	return nil
}

func (s *UserService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	if err := s.userRepo.Unfollow(ctx, followerID, followedID); err != nil {
		return models.NewUpstreamError("users", err)
	}
	return nil
}

// RemoveFollower drops someone from the user's follower list; the reverse
// direction of Unfollow.
func (s *UserService) RemoveFollower(ctx context.Context, userID, followerID uint) error {
	if err := s.userRepo.Unfollow(ctx, followerID, userID); err != nil {
		return models.NewUpstreamError("users", err)
	}
	return nil
}

func (s *UserService) GetFollowers(ctx context.Context, userID uint) ([]*models.User, error) {
	followers, err := s.userRepo.GetFollowers(ctx, userID)
	if err != nil {
		return nil, models.NewUpstreamError("users", err)
	}
	return followers, nil
}

func (s *UserService) GetUserPosts(ctx context.Context, username string, limit, offset int) ([]*models.Post, error) {
	user, err := s.GetProfile(ctx, username)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.GetByUserID(ctx, user.ID, limit, offset)
	if err != nil {
		return nil, models.NewUpstreamError("users", err)
	}
	return posts, nil
}
