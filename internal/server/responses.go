package server

import (
	"time"

	"ripple/internal/models"
)

// ProfileResponse is the wire representation of a profile.
type ProfileResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Bio       string    `json:"bio"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// NewProfileResponse projects a profile model onto its wire form.
func NewProfileResponse(p *models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Bio:       p.Bio,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
	}
}

// NewProfileListResponse projects a list of profiles.
func NewProfileListResponse(profiles []*models.Profile) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, NewProfileResponse(p))
	}
	return out
}

// ProfileSummaryResponse is the short projection used inside follow lists
// and profile details.
type ProfileSummaryResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NewProfileSummaryResponse projects a profile onto its summary form.
func NewProfileSummaryResponse(p *models.Profile) ProfileSummaryResponse {
	return ProfileSummaryResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
	}
}

// NewProfileSummaryListResponse projects a list of profiles onto summaries.
func NewProfileSummaryListResponse(profiles []*models.Profile) []ProfileSummaryResponse {
	out := make([]ProfileSummaryResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, NewProfileSummaryResponse(p))
	}
	return out
}

// ProfileDetailResponse is the single-profile view with the follow graph
// expanded to summaries in both directions.
type ProfileDetailResponse struct {
	ProfileResponse
	Following []ProfileSummaryResponse `json:"following"`
	Followers []ProfileSummaryResponse `json:"followers"`
}

// NewProfileDetailResponse projects a profile plus its follow lists.
func NewProfileDetailResponse(p *models.Profile, following, followers []*models.Profile) ProfileDetailResponse {
	return ProfileDetailResponse{
		ProfileResponse: NewProfileResponse(p),
		Following:       NewProfileSummaryListResponse(following),
		Followers:       NewProfileSummaryListResponse(followers),
	}
}

// PostResponse is the wire representation of a post. Tags flatten to their
// names; pub_date is the immutable creation timestamp.
type PostResponse struct {
	ID            uint            `json:"id"`
	Title         string          `json:"title"`
	Author        ProfileResponse `json:"author"`
	Description   string          `json:"description"`
	ImageURL      string          `json:"image_url"`
	Tags          []string        `json:"tags"`
	CommentsCount int             `json:"comments_count"`
	PubDate       time.Time       `json:"pub_date"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewPostResponse projects a post model onto its wire form.
func NewPostResponse(p *models.Post) PostResponse {
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, t.Name)
	}
	return PostResponse{
		ID:            p.ID,
		Title:         p.Title,
		Author:        NewProfileResponse(&p.Author),
		Description:   p.Description,
		ImageURL:      p.ImageURL,
		Tags:          tags,
		CommentsCount: p.CommentsCount,
		PubDate:       p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// NewPostListResponse projects a list of posts.
func NewPostListResponse(posts []*models.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostResponse(p))
	}
	return out
}

// PostDetailResponse is the single-post view with comments expanded.
type PostDetailResponse struct {
	PostResponse
	Comments []CommentResponse `json:"comments"`
}

// NewPostDetailResponse projects a post plus its comments.
func NewPostDetailResponse(p *models.Post) PostDetailResponse {
	comments := make([]CommentResponse, 0, len(p.Comments))
	for i := range p.Comments {
		comments = append(comments, NewCommentResponse(&p.Comments[i]))
	}
	return PostDetailResponse{
		PostResponse: NewPostResponse(p),
		Comments:     comments,
	}
}

// CommentResponse is the wire representation of a comment.
type CommentResponse struct {
	ID          uint            `json:"id"`
	Author      ProfileResponse `json:"author"`
	PostID      uint            `json:"post_id"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewCommentResponse projects a comment model onto its wire form.
func NewCommentResponse(cm *models.Comment) CommentResponse {
	return CommentResponse{
		ID:          cm.ID,
		Author:      NewProfileResponse(&cm.Author),
		PostID:      cm.PostID,
		Description: cm.Description,
		CreatedAt:   cm.CreatedAt,
		UpdatedAt:   cm.UpdatedAt,
	}
}

// NewCommentListResponse projects a list of comments.
func NewCommentListResponse(comments []*models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, cm := range comments {
		out = append(out, NewCommentResponse(cm))
	}
	return out
}

// ReactionResponse is the wire representation of a reaction.
type ReactionResponse struct {
	ID        uint                `json:"id"`
	ProfileID uint                `json:"profile_id"`
	PostID    uint                `json:"post_id"`
	Type      models.ReactionType `json:"reaction_type"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// NewReactionResponse projects a reaction model onto its wire form.
func NewReactionResponse(r *models.Reaction) ReactionResponse {
	return ReactionResponse{
		ID:        r.ID,
		ProfileID: r.ProfileID,
		PostID:    r.PostID,
		Type:      r.Type,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// NewReactionListResponse projects a list of reactions.
func NewReactionListResponse(reactions []*models.Reaction) []ReactionResponse {
	out := make([]ReactionResponse, 0, len(reactions))
	for _, r := range reactions {
		out = append(out, NewReactionResponse(r))
	}
	return out
}
