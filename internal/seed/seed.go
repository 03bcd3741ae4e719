package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	MaxDaysBack int
}

// Seed populates the database with demo users, a follow mesh, posts,
// comments and reactions.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Printf("warning: could not clear existing data: %v", err)
		}
	}

	f := NewFactory(db)

	profiles, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(profiles))

	if err := createFollowMesh(f, profiles); err != nil {
		return fmt.Errorf("failed to create follow graph: %w", err)
	}

	posts, err := createPosts(f, profiles, opts.NumPosts, opts.MaxDaysBack)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := createEngagement(f, profiles, posts); err != nil {
		return fmt.Errorf("failed to create comments and reactions: %w", err)
	}

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE reactions, comments, post_tags, tags, posts, profile_follows, profiles, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(f *Factory, count int) ([]*models.Profile, error) {
	profiles := make([]*models.Profile, 0, count)

	// A couple of fixed accounts so the demo login is predictable.
	for _, email := range []string{"alice@ripple.dev", "bob@ripple.dev"} {
		email := email
		user, err := f.CreateUser(func(u *models.User) { u.Email = email })
		if err != nil {
			log.Printf("failed to create base user %s: %v", email, err)
			continue
		}
		profiles = append(profiles, user.Profile)
	}

	for i := len(profiles); i < count; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("failed to create user: %v", err)
			continue
		}
		profiles = append(profiles, user.Profile)

		if i > 0 && i%100 == 0 {
			log.Printf("created %d users...", i)
		}
	}
	return profiles, nil
}

// createFollowMesh gives every profile a handful of followees so feeds
// are populated from the first login.
func createFollowMesh(f *Factory, profiles []*models.Profile) error {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, follower := range profiles {
		followees := r.Intn(6) + 2
		for j := 0; j < followees; j++ {
			followee := profiles[r.Intn(len(profiles))]
			if followee.ID == follower.ID {
				continue
			}
			if err := f.CreateFollow(follower, followee); err != nil {
				return err
			}
		}
	}
	return nil
}

func createPosts(f *Factory, profiles []*models.Profile, count, maxDaysBack int) ([]*models.Post, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	posts := make([]*models.Post, 0, count)

	for i := 0; i < count; i++ {
		author := profiles[r.Intn(len(profiles))]
		post, err := f.CreatePost(author, maxDaysBack)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)

		if i > 0 && i%100 == 0 {
			log.Printf("created %d posts...", i)
		}
	}
	return posts, nil
}

func createEngagement(f *Factory, profiles []*models.Profile, posts []*models.Post) error {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, post := range posts {
		for i, n := 0, r.Intn(4); i < n; i++ {
			author := profiles[r.Intn(len(profiles))]
			if _, err := f.CreateComment(author, post); err != nil {
				return err
			}
		}

		for i, n := 0, r.Intn(6); i < n; i++ {
			reactor := profiles[r.Intn(len(profiles))]
			rt := models.ReactionLike
			if r.Float32() < 0.2 {
				rt = models.ReactionDislike
			}
			if err := f.CreateReaction(reactor, post, rt); err != nil {
				return err
			}
		}
	}
	return nil
}
