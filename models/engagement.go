package models

import "gorm.io/gorm"

// Engagement figures are derived from the relation tables on every read.
// Nothing here is stored on the entity rows, so there is no counter to keep
// consistent with the likes/comments/follows tables.

// PostEngagement carries per-post derived counts. IsLiked is nil when there
// is no viewer: "unknown" is distinct from "no".
type PostEngagement struct {
	LikesCount    int64 `json:"likes_count"`
	CommentsCount int64 `json:"comments_count"`
	IsLiked       *bool `json:"is_liked,omitempty"`
}

// UserEngagement carries per-profile derived counts. IsFollowing is nil
// when there is no viewer or the viewer is the profile owner.
type UserEngagement struct {
	PostsCount     int64 `json:"posts_count"`
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	IsFollowing    *bool `json:"is_following,omitempty"`
}

// GetPostEngagement computes a post's like/comment counts, and the viewer's
// like membership when a viewer is given.
func GetPostEngagement(db *gorm.DB, postID uint, viewerID *uint) (*PostEngagement, error) {
	engagement := PostEngagement{}

	if err := db.Model(&Like{}).Where("post_id = ?", postID).
		Count(&engagement.LikesCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&Comment{}).Where("post_id = ?", postID).
		Count(&engagement.CommentsCount).Error; err != nil {
		return nil, err
	}

	if viewerID != nil {
		liked, err := IsPostLikedBy(db, postID, *viewerID)
		if err != nil {
			return nil, err
		}
		engagement.IsLiked = &liked
	}
	return &engagement, nil
}

// GetUserEngagement computes a profile's post/follower/following counts, and
// the viewer's follow membership when a viewer other than the owner is given.
func GetUserEngagement(db *gorm.DB, userID uint, viewerID *uint) (*UserEngagement, error) {
	engagement := UserEngagement{}

	if err := db.Model(&Post{}).Where("author_id = ?", userID).
		Count(&engagement.PostsCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&Follow{}).Where("followed_id = ?", userID).
		Count(&engagement.FollowersCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&Follow{}).Where("follower_id = ?", userID).
		Count(&engagement.FollowingCount).Error; err != nil {
		return nil, err
	}

	if viewerID != nil && *viewerID != userID {
		following, err := IsFollowing(db, *viewerID, userID)
		if err != nil {
			return nil, err
		}
		engagement.IsFollowing = &following
	}
	return &engagement, nil
}

// IsPostLikedBy reports whether the viewer has a like row for the post.
func IsPostLikedBy(db *gorm.DB, postID, viewerID uint) (bool, error) {
	var count int64
	if err := db.Model(&Like{}).
		Where("post_id = ? AND user_id = ?", postID, viewerID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsFollowing reports whether a follow edge exists from follower to followed.
func IsFollowing(db *gorm.DB, followerID, followedID uint) (bool, error) {
	var count int64
	if err := db.Model(&Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountReplies returns how many replies a top-level comment has.
func CountReplies(db *gorm.DB, commentID uint) (int64, error) {
	var count int64
	if err := db.Model(&Comment{}).Where("parent_id = ?", commentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
