package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ProfileKeyPrefix   = "profile:%d"
	PostKeyPrefix      = "post:%d"
	FeedKeyPrefix      = "feed:profile:%d"
	FollowersKeyPrefix = "profile:%d:followers"
	FollowingKeyPrefix = "profile:%d:following"
)

const (
	ProfileTTL = 5 * time.Minute
	PostTTL    = 30 * time.Minute
	FeedTTL    = 1 * time.Minute
	FollowTTL  = 5 * time.Minute
)

func ProfileKey(profileID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, profileID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func FeedKey(profileID uint) string {
	return fmt.Sprintf(FeedKeyPrefix, profileID)
}

func FollowersKey(profileID uint) string {
	return fmt.Sprintf(FollowersKeyPrefix, profileID)
}

func FollowingKey(profileID uint) string {
	return fmt.Sprintf(FollowingKeyPrefix, profileID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateProfile(ctx context.Context, profileID uint) {
	Invalidate(ctx, ProfileKey(profileID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidateFollowGraph clears the cached follower and following lists
// for both sides of a follow edge, plus the follower's feed.
func InvalidateFollowGraph(ctx context.Context, followerID, followeeID uint) {
	Invalidate(ctx, FollowingKey(followerID))
	Invalidate(ctx, FollowersKey(followeeID))
	Invalidate(ctx, FeedKey(followerID))
}
