package service

import (
	"context"
	"errors"

	"cirqls/internal/models"
	"cirqls/internal/repository"
	"cirqls/internal/validation"

	"gorm.io/gorm"
)

type CommunityService struct {
	communityRepo repository.CommunityRepository
}

type CreateCommunityInput struct {
	UserID      uint
	Name        string
	Title       string
	Description string
	Type        string
}

func NewCommunityService(communityRepo repository.CommunityRepository) *CommunityService {
	return &CommunityService{communityRepo: communityRepo}
}

func (s *CommunityService) CreateCommunity(ctx context.Context, in CreateCommunityInput) (*models.Community, error) {
	if err := validation.CommunityName(in.Name); err != nil {
		return nil, models.NewValidationError("Invalid community name: " + err.Error())
	}
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.Type != models.CommunityPublic && in.Type != models.CommunityRestricted {
		return nil, models.NewValidationError("Community type must be public or restricted")
	}

	if _, err := s.communityRepo.GetByName(ctx, in.Name); err == nil {
		return nil, models.NewValidationError("Community name is already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewUpstreamError("communities", err)
	}

	community := &models.Community{
		Name:        in.Name,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
	}
	if err := s.communityRepo.Create(ctx, community); err != nil {
		return nil, models.NewUpstreamError("communities", err)
	}

	// The creator joins and moderates their own community.
	if err := s.communityRepo.Join(ctx, community.ID, in.UserID); err != nil {
		return nil, models.NewUpstreamError("communities", err)
	}
	if err := s.communityRepo.AddModerator(ctx, community.ID, in.UserID); err != nil {
		return nil, models.NewUpstreamError("communities", err)
	}

	return community, nil
}

func (s *CommunityService) GetCommunity(ctx context.Context, name string) (*models.Community, error) {
	community, err := s.communityRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("community", 0)
		}
		return nil, models.NewUpstreamError("communities", err)
	}
	return community, nil
}

func (s *CommunityService) ListCommunities(ctx context.Context, limit, offset int) ([]*models.Community, error) {
	communities, err := s.communityRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, models.NewUpstreamError("communities", err)
	}
	return communities, nil
}

type UpdateCommunityInput struct {
	UserID      uint
	CommunityID uint
	Title       string
	Description string
	LogoSrc     string
}

// UpdateCommunity edits a community's presentation fields. Moderators only;
// the name is permanent because it is a URL path segment.
func (s *CommunityService) UpdateCommunity(ctx context.Context, in UpdateCommunityInput) (*models.Community, error) {
	community, err := s.communityRepo.GetByID(ctx, in.CommunityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("community", in.CommunityID)
		}
		return nil, models.NewUpstreamError("communities", err)
	}

	mod, err := s.communityRepo.IsModerator(ctx, in.CommunityID, in.UserID)
	if err != nil {
		return nil, models.NewUpstreamError("communities", err)
	}
	if !mod {
		return nil, models.NewForbiddenError("Only moderators can edit a community")
	}

	if in.Title != "" {
		community.Title = in.Title
	}
	if in.Description != "" {
		community.Description = in.Description
	}
	if in.LogoSrc != "" {
		community.LogoSrc = in.LogoSrc
	}
	if err := s.communityRepo.Update(ctx, community); err != nil {
		return nil, models.NewUpstreamError("communities", err)
	}
	return community, nil
}

func (s *CommunityService) Join(ctx context.Context, communityID, userID uint) error {
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("community", communityID)
		}
		return models.NewUpstreamError("communities", err)
	}

	if community.Type == models.CommunityRestricted {
		mod, err := s.communityRepo.IsModerator(ctx, communityID, userID)
		if err != nil {
			return models.NewUpstreamError("communities", err)
		}
		if !mod {
			return models.NewForbiddenError("This community is restricted")
		}
	}

	if err := s.communityRepo.Join(ctx, communityID, userID); err != nil {
		return models.NewUpstreamError("communities", err)
	}
	return nil
}

func (s *CommunityService) Leave(ctx context.Context, communityID, userID uint) error {
	if err := s.communityRepo.Leave(ctx, communityID, userID); err != nil {
		return models.NewUpstreamError("communities", err)
	}
	return nil
}
