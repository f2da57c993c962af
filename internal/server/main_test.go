package server

import (
	"testing"

	"cirqls/internal/config"
	"cirqls/internal/models"
	"cirqls/internal/notifications"
	"cirqls/internal/repository"
	"cirqls/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Community{},
		&models.Member{},
		&models.Moderator{},
		&models.Post{},
		&models.SavedPost{},
		&models.Comment{},
		&models.Reaction{},
		&models.Message{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

// newTestServer builds a Server around an in-memory database. No Prometheus
// middleware is attached, so tests can build as many instances as they like.
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

	db := setupHandlerTestDB(t)
	cfg := &config.Config{Port: "0", JWTSecret: "handler-test-secret", Env: "test"}

	s := &Server{
		config:        cfg,
		db:            db,
		userRepo:      repository.NewUserRepository(db),
		communityRepo: repository.NewCommunityRepository(db),
		postRepo:      repository.NewPostRepository(db),
		commentRepo:   repository.NewCommentRepository(db),
		reactionRepo:  repository.NewReactionRepository(db),
		messageRepo:   repository.NewMessageRepository(db),
	}
	s.authService = service.NewAuthService(s.userRepo, cfg)
	s.feedService = service.NewFeedService(s.postRepo, s.commentRepo, s.reactionRepo, s.communityRepo)
	s.postService = service.NewPostService(s.postRepo, s.commentRepo, s.reactionRepo, s.communityRepo)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo, s.reactionRepo)
	s.reactionService = service.NewReactionService(s.reactionRepo, s.postRepo, s.commentRepo)
	s.messageService = service.NewMessageService(s.messageRepo, s.userRepo)
	s.notificationService = service.NewNotificationService(s.messageRepo, s.commentRepo)
	s.communityService = service.NewCommunityService(s.communityRepo)
	s.userService = service.NewUserService(s.userRepo, s.postRepo)
	s.searchService = service.NewSearchService(s.userRepo, s.communityRepo, s.postRepo)
	s.hub = notifications.NewHub(&wsCredentialVerifier{auth: s.authService})

	return s, db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "hashed"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedCommunity(t *testing.T, db *gorm.DB, name string, memberIDs ...uint) *models.Community {
	t.Helper()
	community := &models.Community{Name: name, Title: name, Type: models.CommunityPublic}
	if err := db.Create(community).Error; err != nil {
		t.Fatalf("seed community: %v", err)
	}
	for _, id := range memberIDs {
		if err := db.Create(&models.Member{CommunityID: community.ID, UserID: id}).Error; err != nil {
			t.Fatalf("seed member: %v", err)
		}
	}
	return community
}

func seedPost(t *testing.T, db *gorm.DB, userID, communityID uint, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		Type:        models.PostTypeText,
		Title:       title,
		Description: "about " + title,
		UserID:      userID,
		CommunityID: communityID,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return post
}

// newTestApp mounts the handlers with a stub auth middleware that injects
// the given userID, mirroring what AuthRequired does after verification.
func newTestApp(s *Server, userID uint) *fiber.App {
	app := fiber.New()
	if userID != 0 {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("userID", userID)
			return c.Next()
		})
	}
	return app
}
