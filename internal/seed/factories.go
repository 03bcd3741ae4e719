// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"ripple/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// tagPool is the vocabulary seeded posts draw their tags from. Drawing
// from a fixed pool makes tag reuse across posts likely, which is what
// the tag filter needs to be worth demonstrating.
var tagPool = []string{
	"golang", "fiber", "postgres", "redis", "docker", "kubernetes",
	"music", "travel", "food", "photography", "fitness", "books",
	"gaming", "movies", "art", "science", "history", "nature",
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample user together with its
// profile. Optional override functions may modify the generated user
// before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	user := &models.User{
		Email:    gofakeit.Email(),
		Password: string(hashedPassword),
		Profile: &models.Profile{
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
			Bio:       gofakeit.Sentence(10),
			ImageURL:  fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		},
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample post for the given profile.
// The publication date is spread over the last maxDaysBack days so feeds
// have a realistic timeline.
func (f *Factory) CreatePost(author *models.Profile, maxDaysBack int, overrides ...func(*models.Post)) (*models.Post, error) {
	if maxDaysBack <= 0 {
		maxDaysBack = 90
	}

	post := &models.Post{
		Title:       strings.TrimSuffix(gofakeit.Sentence(5), "."),
		Description: gofakeit.Paragraph(1, 3, 8, "\n"),
		AuthorID:    author.ID,
		Tags:        f.pickTags(),
		CreatedAt: time.Now().
			Add(-time.Duration(f.r.Intn(maxDaysBack*24)) * time.Hour).
			Add(-time.Duration(f.r.Intn(60)) * time.Minute),
	}
	if f.r.Float32() < 0.4 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// pickTags draws zero to three distinct tags from the pool and resolves
// them against the shared tag table so names stay unique.
func (f *Factory) pickTags() []models.Tag {
	count := f.r.Intn(4)
	picked := make([]models.Tag, 0, count)
	seen := map[string]bool{}
	for len(picked) < count {
		name := tagPool[f.r.Intn(len(tagPool))]
		if seen[name] {
			continue
		}
		seen[name] = true

		var tag models.Tag
		if err := f.db.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			continue
		}
		picked = append(picked, tag)
	}
	return picked
}

// CreateComment constructs and persists a sample comment on the provided
// post authored by the provided profile.
func (f *Factory) CreateComment(author *models.Profile, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		AuthorID:    author.ID,
		PostID:      post.ID,
		Description: gofakeit.Sentence(8),
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateReaction persists a reaction from the profile on the post,
// overwriting any earlier reaction from the same profile.
func (f *Factory) CreateReaction(author *models.Profile, post *models.Post, rt models.ReactionType) error {
	reaction := &models.Reaction{
		ProfileID: author.ID,
		PostID:    post.ID,
		Type:      rt,
	}
	return f.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}, {Name: "post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reaction_type", "updated_at"}),
	}).Create(reaction).Error
}

// CreateFollow persists a directed follow edge between two profiles.
// Re-seeding the same edge is a no-op.
func (f *Factory) CreateFollow(follower, followee *models.Profile) error {
	follow := &models.Follow{
		FollowerID: follower.ID,
		FolloweeID: followee.ID,
	}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(follow).Error
}
