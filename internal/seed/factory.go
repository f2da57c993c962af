// Package seed creates development and demo data: users, communities,
// posts, comment threads, reactions and conversations. Not for production.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"cirqls/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds and persists domain entities with plausible fake content.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

func NewFactory(db *gorm.DB) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{db: db, rand: rand.New(rand.NewSource(seed))}
}

// spreadCreatedAt returns a timestamp scattered over the past maxDays so
// seeded feeds exercise the recency decay instead of stacking at now.
func (f *Factory) spreadCreatedAt(maxDays int) time.Time {
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rand.Intn(maxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}

func (f *Factory) CreateUser() (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:      gofakeit.Username(),
		Email:         gofakeit.Email(),
		Password:      string(hashed),
		ProfilePicSrc: fmt.Sprintf("https://picsum.photos/seed/%s/200/200", gofakeit.UUID()),
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (f *Factory) CreateCommunity(name string, creator *models.User) (*models.Community, error) {
	community := &models.Community{
		Name:        name,
		Title:       gofakeit.Sentence(3),
		Description: gofakeit.Paragraph(1, 2, 8, " "),
		Type:        models.CommunityPublic,
	}
	if err := f.db.Create(community).Error; err != nil {
		return nil, err
	}
	if err := f.db.Create(&models.Member{CommunityID: community.ID, UserID: creator.ID}).Error; err != nil {
		return nil, err
	}
	if err := f.db.Create(&models.Moderator{CommunityID: community.ID, UserID: creator.ID}).Error; err != nil {
		return nil, err
	}
	return community, nil
}

func (f *Factory) CreatePost(user *models.User, community *models.Community, maxDays int) (*models.Post, error) {
	post := &models.Post{
		Type:        models.PostTypeText,
		Title:       gofakeit.Sentence(6),
		Description: gofakeit.Paragraph(1, 3, 10, "\n"),
		UserID:      user.ID,
		CommunityID: community.ID,
		CreatedAt:   f.spreadCreatedAt(maxDays),
	}
	// Roughly a third of posts carry media.
	if f.rand.Intn(3) == 0 {
		post.Type = models.PostTypeMedia
		post.MediaSrc = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
		post.Description = ""
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment attaches a comment to the post, optionally under a parent.
func (f *Factory) CreateComment(user *models.User, post *models.Post, parent *models.Comment) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:  post.ID,
		UserID:  user.ID,
		Message: gofakeit.Sentence(f.rand.Intn(15) + 3),
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (f *Factory) CreatePostReaction(user *models.User, post *models.Post) error {
	reaction := &models.Reaction{
		UserID: user.ID,
		PostID: &post.ID,
		Type:   models.ReactionLike,
	}
	// Dislikes are rarer than likes.
	if f.rand.Intn(5) == 0 {
		reaction.Type = models.ReactionDislike
	}
	return f.db.Create(reaction).Error
}

func (f *Factory) CreateMessage(sender, recipient *models.User) error {
	return f.db.Create(&models.Message{
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Body:        gofakeit.Question(),
	}).Error
}
