package seed

import (
	"fmt"
	"log"
	"math/rand"

	"cirqls/internal/models"

	"gorm.io/gorm"
)

// pick returns up to n distinct random elements of items.
func pick[T any](r *rand.Rand, items []T, n int) []T {
	if n > len(items) {
		n = len(items)
	}
	out := make([]T, len(items))
	copy(out, items)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out[:n]
}

// Options controls how much data Run generates.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	MaxDays     int
}

var builtinCommunities = []string{
	"general", "programming", "gaming", "music", "movies", "science",
	"fitness", "food", "travel", "books", "diy", "photography",
}

// Communities ensures the built-in communities exist. Safe to run on every
// startup; existing rows are left alone.
func Communities(db *gorm.DB) error {
	for _, name := range builtinCommunities {
		community := models.Community{Name: name, Title: name, Type: models.CommunityPublic}
		if err := db.Where(models.Community{Name: name}).FirstOrCreate(&community).Error; err != nil {
			return fmt.Errorf("seed community %q: %w", name, err)
		}
	}
	return nil
}

// Run populates the database with fake users, communities, posts, comment
// threads, reactions and conversations.
func Run(db *gorm.DB, opts Options) error {
	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return err
		}
	}

	if err := Communities(db); err != nil {
		return err
	}

	factory := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}
	if len(users) == 0 {
		return fmt.Errorf("cannot seed posts without users")
	}
	log.Printf("seeded %d users", len(users))

	var communities []*models.Community
	if err := db.Find(&communities).Error; err != nil {
		return err
	}

	// Every user joins a few communities.
	for _, user := range users {
		for _, community := range pick(factory.rand, communities, 3) {
			member := models.Member{CommunityID: community.ID, UserID: user.ID}
			if err := db.Where(member).FirstOrCreate(&member).Error; err != nil {
				return err
			}
		}
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		user := users[factory.rand.Intn(len(users))]
		community := communities[factory.rand.Intn(len(communities))]
		post, err := factory.CreatePost(user, community, opts.MaxDays)
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("seeded %d posts", len(posts))

	// Threads: a handful of root comments per post, some with replies,
	// plus reactions from a subset of users.
	for _, post := range posts {
		for i := 0; i < factory.rand.Intn(4); i++ {
			commenter := users[factory.rand.Intn(len(users))]
			root, err := factory.CreateComment(commenter, post, nil)
			if err != nil {
				return err
			}
			if factory.rand.Intn(2) == 0 {
				replier := users[factory.rand.Intn(len(users))]
				if _, err := factory.CreateComment(replier, post, root); err != nil {
					return err
				}
			}
		}
		for _, user := range pick(factory.rand, users, 5) {
			if err := factory.CreatePostReaction(user, post); err != nil {
				return err
			}
		}
	}

	// A few conversations between random pairs.
	for i := 0; i < len(users); i++ {
		a := users[factory.rand.Intn(len(users))]
		b := users[factory.rand.Intn(len(users))]
		if a.ID == b.ID {
			continue
		}
		if err := factory.CreateMessage(a, b); err != nil {
			return err
		}
		if err := factory.CreateMessage(b, a); err != nil {
			return err
		}
	}

	log.Println("seeding complete")
	return nil
}

func clean(db *gorm.DB) error {
	// Children before parents, so foreign keys stay satisfied.
	for _, model := range []any{
		&models.Message{},
		&models.Reaction{},
		&models.Comment{},
		&models.SavedPost{},
		&models.Post{},
		&models.Moderator{},
		&models.Member{},
		&models.Community{},
		&models.Follow{},
		&models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return fmt.Errorf("clean table: %w", err)
		}
	}
	return nil
}
