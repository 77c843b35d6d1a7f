package controllers

import (
	"encoding/json"
	"time"
)

type UserDTO struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Bio        string    `json:"bio"`
	AvatarPath string    `json:"avatar_path"`
	IsAdmin    bool      `json:"is_admin"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type UserSummaryDTO struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	AvatarPath string `json:"avatar_path"`
}

// UserProfileDTO is a UserDTO annotated with compute-on-read counts.
// IsFollowing is omitted entirely when there is no viewer.
type UserProfileDTO struct {
	UserDTO
	PostsCount     int64 `json:"posts_count"`
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	IsFollowing    *bool `json:"is_following,omitempty"`
}

type FollowUserDTO struct {
	UserSummaryDTO
	ViewerFollowing  bool `json:"viewer_following"`
	ViewerFollowedBy bool `json:"viewer_followed_by"`
	Mutual           bool `json:"mutual"`
}

// PostDTO carries a post with its derived engagement numbers. IsLiked is
// omitted when there is no viewer, to distinguish "unknown" from "no".
type PostDTO struct {
	ID            string         `json:"id"`
	Author        UserSummaryDTO `json:"author"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	Type          string         `json:"type"`
	ImageURL      string         `json:"image_url"`
	Location      string         `json:"location"`
	IsPublic      bool           `json:"is_public"`
	LikesCount    int64          `json:"likes_count"`
	CommentsCount int64          `json:"comments_count"`
	IsLiked       *bool          `json:"is_liked,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type CommentDTO struct {
	ID           string         `json:"id"`
	Author       UserSummaryDTO `json:"author"`
	ParentID     *string        `json:"parent_id"`
	Body         string         `json:"body"`
	RepliesCount int64          `json:"replies_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type LikeDTO struct {
	User      UserSummaryDTO `json:"user"`
	CreatedAt time.Time      `json:"created_at"`
}

type NotificationDTO struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Priority  string          `json:"priority"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
	Channel   string          `json:"channel"`
	ReadAt    *time.Time      `json:"read_at"`
	CreatedAt time.Time       `json:"created_at"`
}

type RelationshipDTO struct {
	Following  bool `json:"following"`
	FollowedBy bool `json:"followed_by"`
	Mutual     bool `json:"mutual"`
}
