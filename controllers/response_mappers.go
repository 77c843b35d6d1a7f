package controllers

import (
	"encoding/json"

	"Daybook/models"

	"gorm.io/gorm"
)

func userToDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:         user.PublicID,
		Username:   user.Username,
		Email:      user.Email,
		FullName:   user.FullName,
		Bio:        user.Bio,
		AvatarPath: user.AvatarPath,
		IsAdmin:    user.IsAdmin,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

func userToSummaryDTO(user *models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:         user.PublicID,
		Username:   user.Username,
		AvatarPath: user.AvatarPath,
	}
}

func userToProfileDTO(user *models.User, engagement *models.UserEngagement) UserProfileDTO {
	profile := UserProfileDTO{UserDTO: userToDTO(user)}
	if engagement != nil {
		profile.PostsCount = engagement.PostsCount
		profile.FollowersCount = engagement.FollowersCount
		profile.FollowingCount = engagement.FollowingCount
		profile.IsFollowing = engagement.IsFollowing
	}
	return profile
}

func postToDTO(post *models.Post, engagement *models.PostEngagement) PostDTO {
	dto := PostDTO{
		ID:        post.PublicID,
		Author:    userToSummaryDTO(&post.Author),
		Title:     post.Title,
		Content:   post.Content,
		Type:      post.Type,
		ImageURL:  post.ImageURL,
		Location:  post.Location,
		IsPublic:  post.IsPublic,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	if engagement != nil {
		dto.LikesCount = engagement.LikesCount
		dto.CommentsCount = engagement.CommentsCount
		dto.IsLiked = engagement.IsLiked
	}
	return dto
}

// postsToDTOs annotates each post through the aggregation queries; one
// round-trip per figure per post, matching the compute-on-read contract.
func postsToDTOs(db *gorm.DB, posts []models.Post, viewerID *uint) ([]PostDTO, error) {
	dtos := make([]PostDTO, len(posts))
	for i := range posts {
		engagement, err := models.GetPostEngagement(db, posts[i].ID, viewerID)
		if err != nil {
			return nil, err
		}
		dtos[i] = postToDTO(&posts[i], engagement)
	}
	return dtos, nil
}

func commentToDTO(db *gorm.DB, comment *models.Comment, repliesCount int64) CommentDTO {
	dto := CommentDTO{
		ID:           comment.PublicID,
		Author:       userToSummaryDTO(&comment.Author),
		Body:         comment.Body,
		RepliesCount: repliesCount,
		CreatedAt:    comment.CreatedAt,
		UpdatedAt:    comment.UpdatedAt,
	}
	if comment.ParentID != nil {
		if parentPublicID := resolveCommentPublicID(db, *comment.ParentID); parentPublicID != "" {
			dto.ParentID = &parentPublicID
		}
	}
	return dto
}

func resolveCommentPublicID(db *gorm.DB, commentID uint) string {
	var record struct {
		PublicID string
	}
	if err := db.Model(&models.Comment{}).Select("public_id").Where("id = ?", commentID).Take(&record).Error; err != nil {
		return ""
	}
	return record.PublicID
}

func likeToDTO(like *models.Like) LikeDTO {
	return LikeDTO{
		User:      userToSummaryDTO(&like.User),
		CreatedAt: like.CreatedAt,
	}
}

func notificationToDTO(notification *models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        notification.PublicID,
		Type:      notification.Type,
		Priority:  notification.Priority,
		Title:     notification.Title,
		Message:   notification.Message,
		Data:      json.RawMessage(notification.Data),
		Channel:   notification.Channel,
		ReadAt:    notification.ReadAt,
		CreatedAt: notification.CreatedAt,
	}
}
