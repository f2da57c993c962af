package service

import (
	"context"
	"strings"

	"cirqls/internal/models"
	"cirqls/internal/repository"
)

const searchResultLimit = 20

type SearchService struct {
	userRepo      repository.UserRepository
	communityRepo repository.CommunityRepository
	postRepo      repository.PostRepository
}

// SearchResults groups matches across the three searchable entity kinds.
type SearchResults struct {
	Users       []*models.User      `json:"users"`
	Communities []*models.Community `json:"communities"`
	Posts       []*models.Post      `json:"posts"`
}

func NewSearchService(
	userRepo repository.UserRepository,
	communityRepo repository.CommunityRepository,
	postRepo repository.PostRepository,
) *SearchService {
	return &SearchService{
		userRepo:      userRepo,
		communityRepo: communityRepo,
		postRepo:      postRepo,
	}
}

func (s *SearchService) Search(ctx context.Context, query string) (*SearchResults, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, models.NewValidationError("Search query must be at least 2 characters")
	}

	users, err := s.userRepo.Search(ctx, query, searchResultLimit)
	if err != nil {
		return nil, models.NewUpstreamError("search", err)
	}

	communities, err := s.communityRepo.Search(ctx, query, searchResultLimit)
	if err != nil {
		return nil, models.NewUpstreamError("search", err)
	}

	posts, err := s.postRepo.Search(ctx, query, searchResultLimit)
	if err != nil {
		return nil, models.NewUpstreamError("search", err)
	}

	return &SearchResults{Users: users, Communities: communities, Posts: posts}, nil
}
