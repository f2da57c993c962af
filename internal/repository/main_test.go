package repository

import (
	"testing"

	"cirqls/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
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
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

func createTestCommunity(t *testing.T, db *gorm.DB, name string) *models.Community {
	t.Helper()
	community := &models.Community{Name: name, Title: name, Type: models.CommunityPublic}
	if err := db.Create(community).Error; err != nil {
		t.Fatalf("Failed to create community %s: %v", name, err)
	}
	return community
}

func createTestPost(t *testing.T, db *gorm.DB, userID, communityID uint, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		Type:        models.PostTypeText,
		Title:       title,
		Description: "body of " + title,
		UserID:      userID,
		CommunityID: communityID,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("Failed to create post %s: %v", title, err)
	}
	return post
}
