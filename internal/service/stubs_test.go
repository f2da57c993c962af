package service

import (
	"context"
	"testing"

	"cirqls/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	var appErr *models.AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, models.CodeValidation, appErr.Code)
	}
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, code, appErr.Code)
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn             func(context.Context, *models.Comment) error
	getByIDFn            func(context.Context, uint) (*models.Comment, error)
	getByPostIDFn        func(context.Context, uint) ([]*models.Comment, error)
	getIDsForPostsFn     func(context.Context, []uint) (map[uint][]uint, error)
	deleteFn             func(context.Context, uint) error
	getUnreadForAuthorFn func(context.Context, uint) ([]*models.Comment, error)
	markReadForAuthorFn  func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) GetByPostID(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.getByPostIDFn(ctx, postID)
}
func (s *commentRepoStub) GetIDsForPosts(ctx context.Context, postIDs []uint) (map[uint][]uint, error) {
	return s.getIDsForPostsFn(ctx, postIDs)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) GetUnreadForAuthor(ctx context.Context, authorID uint) ([]*models.Comment, error) {
	return s.getUnreadForAuthorFn(ctx, authorID)
}
func (s *commentRepoStub) MarkReadForAuthor(ctx context.Context, authorID uint) error {
	return s.markReadForAuthorFn(ctx, authorID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:     func(_ context.Context, _ uint) (*models.Comment, error) { return &models.Comment{}, nil },
		getByPostIDFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		getIDsForPostsFn: func(_ context.Context, _ []uint) (map[uint][]uint, error) {
			return map[uint][]uint{}, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		getUnreadForAuthorFn: func(_ context.Context, _ uint) ([]*models.Comment, error) {
			return nil, nil
		},
		markReadForAuthorFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn            func(context.Context, *models.Post) error
	getByIDFn           func(context.Context, uint) (*models.Post, error)
	listByCommunitiesFn func(context.Context, []uint, int) ([]*models.Post, error)
	listAllFn           func(context.Context, int) ([]*models.Post, error)
	getByCommunityIDFn  func(context.Context, uint, int, int) ([]*models.Post, error)
	getByUserIDFn       func(context.Context, uint, int, int) ([]*models.Post, error)
	searchFn            func(context.Context, string, int) ([]*models.Post, error)
	deleteFn            func(context.Context, uint) error
	saveFn              func(context.Context, uint, uint) error
	unsaveFn            func(context.Context, uint, uint) error
	getSavedFn          func(context.Context, uint, int, int) ([]*models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, p *models.Post) error { return s.createFn(ctx, p) }
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListByCommunities(ctx context.Context, ids []uint, limit int) ([]*models.Post, error) {
	return s.listByCommunitiesFn(ctx, ids, limit)
}
func (s *postRepoStub) ListAll(ctx context.Context, limit int) ([]*models.Post, error) {
	return s.listAllFn(ctx, limit)
}
func (s *postRepoStub) GetByCommunityID(ctx context.Context, id uint, limit, offset int) ([]*models.Post, error) {
	return s.getByCommunityIDFn(ctx, id, limit, offset)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, id uint, limit, offset int) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, id, limit, offset)
}
func (s *postRepoStub) Search(ctx context.Context, q string, limit int) ([]*models.Post, error) {
	return s.searchFn(ctx, q, limit)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }
func (s *postRepoStub) Save(ctx context.Context, userID, postID uint) error {
	return s.saveFn(ctx, userID, postID)
}
func (s *postRepoStub) Unsave(ctx context.Context, userID, postID uint) error {
	return s.unsaveFn(ctx, userID, postID)
}
func (s *postRepoStub) GetSaved(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.getSavedFn(ctx, userID, limit, offset)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		listByCommunitiesFn: func(_ context.Context, _ []uint, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		listAllFn: func(_ context.Context, _ int) ([]*models.Post, error) { return nil, nil },
		getByCommunityIDFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		getByUserIDFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		searchFn: func(_ context.Context, _ string, _ int) ([]*models.Post, error) { return nil, nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		saveFn:   func(_ context.Context, _, _ uint) error { return nil },
		unsaveFn: func(_ context.Context, _, _ uint) error { return nil },
		getSavedFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
	}
}

// reactionRepoStub is a stub for repository.ReactionRepository.
type reactionRepoStub struct {
	setForPostFn     func(context.Context, uint, uint, string) (*models.Reaction, error)
	setForCommentFn  func(context.Context, uint, uint, string) (*models.Reaction, error)
	getForPostFn     func(context.Context, uint) ([]models.Reaction, error)
	getForPostsFn    func(context.Context, []uint) (map[uint][]models.Reaction, error)
	getForCommentsFn func(context.Context, []uint) (map[uint][]models.Reaction, error)
}

func (s *reactionRepoStub) SetForPost(ctx context.Context, userID, postID uint, t string) (*models.Reaction, error) {
	return s.setForPostFn(ctx, userID, postID, t)
}
func (s *reactionRepoStub) SetForComment(ctx context.Context, userID, commentID uint, t string) (*models.Reaction, error) {
	return s.setForCommentFn(ctx, userID, commentID, t)
}
func (s *reactionRepoStub) GetForPost(ctx context.Context, postID uint) ([]models.Reaction, error) {
	return s.getForPostFn(ctx, postID)
}
func (s *reactionRepoStub) GetForPosts(ctx context.Context, postIDs []uint) (map[uint][]models.Reaction, error) {
	return s.getForPostsFn(ctx, postIDs)
}
func (s *reactionRepoStub) GetForComments(ctx context.Context, commentIDs []uint) (map[uint][]models.Reaction, error) {
	return s.getForCommentsFn(ctx, commentIDs)
}

func noopReactionRepo() *reactionRepoStub {
	return &reactionRepoStub{
		setForPostFn: func(_ context.Context, _, _ uint, _ string) (*models.Reaction, error) {
			return &models.Reaction{}, nil
		},
		setForCommentFn: func(_ context.Context, _, _ uint, _ string) (*models.Reaction, error) {
			return &models.Reaction{}, nil
		},
		getForPostFn: func(_ context.Context, _ uint) ([]models.Reaction, error) { return nil, nil },
		getForPostsFn: func(_ context.Context, _ []uint) (map[uint][]models.Reaction, error) {
			return map[uint][]models.Reaction{}, nil
		},
		getForCommentsFn: func(_ context.Context, _ []uint) (map[uint][]models.Reaction, error) {
			return map[uint][]models.Reaction{}, nil
		},
	}
}

// communityRepoStub is a stub for repository.CommunityRepository.
type communityRepoStub struct {
	createFn                func(context.Context, *models.Community) error
	getByIDFn               func(context.Context, uint) (*models.Community, error)
	getByNameFn             func(context.Context, string) (*models.Community, error)
	listFn                  func(context.Context, int, int) ([]*models.Community, error)
	searchFn                func(context.Context, string, int) ([]*models.Community, error)
	updateFn                func(context.Context, *models.Community) error
	joinFn                  func(context.Context, uint, uint) error
	leaveFn                 func(context.Context, uint, uint) error
	isMemberFn              func(context.Context, uint, uint) (bool, error)
	getMemberCommunityIDsFn func(context.Context, uint) ([]uint, error)
	addModeratorFn          func(context.Context, uint, uint) error
	isModeratorFn           func(context.Context, uint, uint) (bool, error)
}

func (s *communityRepoStub) Create(ctx context.Context, c *models.Community) error {
	return s.createFn(ctx, c)
}
func (s *communityRepoStub) GetByID(ctx context.Context, id uint) (*models.Community, error) {
	return s.getByIDFn(ctx, id)
}
func (s *communityRepoStub) GetByName(ctx context.Context, name string) (*models.Community, error) {
	return s.getByNameFn(ctx, name)
}
func (s *communityRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Community, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *communityRepoStub) Search(ctx context.Context, q string, limit int) ([]*models.Community, error) {
	return s.searchFn(ctx, q, limit)
}
func (s *communityRepoStub) Update(ctx context.Context, c *models.Community) error {
	return s.updateFn(ctx, c)
}
func (s *communityRepoStub) Join(ctx context.Context, communityID, userID uint) error {
	return s.joinFn(ctx, communityID, userID)
}
func (s *communityRepoStub) Leave(ctx context.Context, communityID, userID uint) error {
	return s.leaveFn(ctx, communityID, userID)
}
func (s *communityRepoStub) IsMember(ctx context.Context, communityID, userID uint) (bool, error) {
	return s.isMemberFn(ctx, communityID, userID)
}
func (s *communityRepoStub) GetMemberCommunityIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.getMemberCommunityIDsFn(ctx, userID)
}
func (s *communityRepoStub) AddModerator(ctx context.Context, communityID, userID uint) error {
	return s.addModeratorFn(ctx, communityID, userID)
}
func (s *communityRepoStub) IsModerator(ctx context.Context, communityID, userID uint) (bool, error) {
	return s.isModeratorFn(ctx, communityID, userID)
}

func noopCommunityRepo() *communityRepoStub {
	return &communityRepoStub{
		createFn: func(_ context.Context, _ *models.Community) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Community, error) {
			return &models.Community{Type: models.CommunityPublic}, nil
		},
		getByNameFn: func(_ context.Context, _ string) (*models.Community, error) {
			return nil, gorm.ErrRecordNotFound
		},
		listFn:                  func(_ context.Context, _, _ int) ([]*models.Community, error) { return nil, nil },
		searchFn:                func(_ context.Context, _ string, _ int) ([]*models.Community, error) { return nil, nil },
		updateFn:                func(_ context.Context, _ *models.Community) error { return nil },
		joinFn:                  func(_ context.Context, _, _ uint) error { return nil },
		leaveFn:                 func(_ context.Context, _, _ uint) error { return nil },
		isMemberFn:              func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		getMemberCommunityIDsFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		addModeratorFn:          func(_ context.Context, _, _ uint) error { return nil },
		isModeratorFn:           func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn         func(context.Context, *models.User) error
	getByIDFn        func(context.Context, uint) (*models.User, error)
	getByUsernameFn  func(context.Context, string) (*models.User, error)
	getByEmailFn     func(context.Context, string) (*models.User, error)
	updateFn         func(context.Context, *models.User) error
	searchFn         func(context.Context, string, int) ([]*models.User, error)
	followFn         func(context.Context, uint, uint) error
	unfollowFn       func(context.Context, uint, uint) error
	isFollowingFn    func(context.Context, uint, uint) (bool, error)
	getFollowedIDsFn func(context.Context, uint) ([]uint, error)
	getFollowersFn   func(context.Context, uint) ([]*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error { return s.createFn(ctx, u) }
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Update(ctx context.Context, u *models.User) error { return s.updateFn(ctx, u) }
func (s *userRepoStub) Search(ctx context.Context, q string, limit int) ([]*models.User, error) {
	return s.searchFn(ctx, q, limit)
}
func (s *userRepoStub) Follow(ctx context.Context, followerID, followedID uint) error {
	return s.followFn(ctx, followerID, followedID)
}
func (s *userRepoStub) Unfollow(ctx context.Context, followerID, followedID uint) error {
	return s.unfollowFn(ctx, followerID, followedID)
}
func (s *userRepoStub) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followedID)
}
func (s *userRepoStub) GetFollowedIDs(ctx context.Context, followerID uint) ([]uint, error) {
	return s.getFollowedIDsFn(ctx, followerID)
}
func (s *userRepoStub) GetFollowers(ctx context.Context, userID uint) ([]*models.User, error) {
	return s.getFollowersFn(ctx, userID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:  func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
		updateFn:         func(_ context.Context, _ *models.User) error { return nil },
		searchFn:         func(_ context.Context, _ string, _ int) ([]*models.User, error) { return nil, nil },
		followFn:         func(_ context.Context, _, _ uint) error { return nil },
		unfollowFn:       func(_ context.Context, _, _ uint) error { return nil },
		isFollowingFn:    func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		getFollowedIDsFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		getFollowersFn:   func(_ context.Context, _ uint) ([]*models.User, error) { return nil, nil },
	}
}

// messageRepoStub is a stub for repository.MessageRepository.
type messageRepoStub struct {
	createFn                func(context.Context, *models.Message) error
	getConversationFn       func(context.Context, uint, uint, int, int) ([]*models.Message, error)
	getConversationPeersFn  func(context.Context, uint) ([]uint, error)
	getUnreadForRecipientFn func(context.Context, uint) ([]*models.Message, error)
	markConversationReadFn  func(context.Context, uint, uint) error
}

func (s *messageRepoStub) Create(ctx context.Context, m *models.Message) error {
	return s.createFn(ctx, m)
}
func (s *messageRepoStub) GetConversation(ctx context.Context, userID, peerID uint, limit, offset int) ([]*models.Message, error) {
	return s.getConversationFn(ctx, userID, peerID, limit, offset)
}
func (s *messageRepoStub) GetConversationPeers(ctx context.Context, userID uint) ([]uint, error) {
	return s.getConversationPeersFn(ctx, userID)
}
func (s *messageRepoStub) GetUnreadForRecipient(ctx context.Context, recipientID uint) ([]*models.Message, error) {
	return s.getUnreadForRecipientFn(ctx, recipientID)
}
func (s *messageRepoStub) MarkConversationRead(ctx context.Context, userID, peerID uint) error {
	return s.markConversationReadFn(ctx, userID, peerID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn: func(_ context.Context, _ *models.Message) error { return nil },
		getConversationFn: func(_ context.Context, _, _ uint, _, _ int) ([]*models.Message, error) {
			return nil, nil
		},
		getConversationPeersFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		getUnreadForRecipientFn: func(_ context.Context, _ uint) ([]*models.Message, error) {
			return nil, nil
		},
		markConversationReadFn: func(_ context.Context, _, _ uint) error { return nil },
	}
}
