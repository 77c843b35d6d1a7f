package models

import (
	"errors"
	"html"
	"strings"
	"time"

	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

// ErrReplyDepth marks an attempt to reply to a reply. Threads are two-tier:
// top-level comments and one level of replies.
var ErrReplyDepth = errors.New("replies cannot be nested")

const maxCommentLength = 500

type Comment struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID  string    `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Author    User      `gorm:"foreignKey:UserID" json:"author"`
	Body      string    `gorm:"text;not null;" json:"body"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(c.PublicID) == "" {
		c.PublicID = uuid.NewV4().String()
	}
	return nil
}

func (c *Comment) Prepare() {
	c.ID = 0
	c.Body = html.EscapeString(strings.TrimSpace(c.Body))
	c.Author = User{}
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
}

func (c *Comment) Validate(action string) map[string]string {
	var errorMessages = make(map[string]string)

	if c.Body == "" {
		errorMessages["Required_body"] = "Body is required"
	}
	if len(c.Body) > maxCommentLength {
		errorMessages["Invalid_body"] = "Body is too long"
	}
	if strings.ToLower(action) != "update" {
		if c.UserID == 0 {
			errorMessages["Required_user"] = "User is required"
		}
		if c.PostID == 0 {
			errorMessages["Required_post"] = "Post is required"
		}
	}
	return errorMessages
}

// SaveComment persists a comment. Replies must reference a top-level parent
// on the same post.
func (c *Comment) SaveComment(db *gorm.DB) (*Comment, error) {
	if c.ParentID != nil {
		var parent Comment
		if err := db.First(&parent, *c.ParentID).Error; err != nil {
			return nil, err
		}
		if parent.ParentID != nil {
			return nil, ErrReplyDepth
		}
		if parent.PostID != c.PostID {
			return nil, gorm.ErrRecordNotFound
		}
	}
	if err := db.Create(&c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetPostComments returns a post's top-level comments, newest first.
func (c *Comment) GetPostComments(db *gorm.DB, pid uint, limit, offset int) (*[]Comment, error) {
	comments := []Comment{}
	err := db.Preload("Author").
		Where("post_id = ? AND parent_id IS NULL", pid).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return &comments, nil
}

// GetReplies returns replies to a comment in chronological reading order.
func (c *Comment) GetReplies(db *gorm.DB, parentID uint, limit, offset int) (*[]Comment, error) {
	comments := []Comment{}
	err := db.Preload("Author").
		Where("parent_id = ?", parentID).
		Order("created_at asc").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return &comments, nil
}

func (c *Comment) UpdateAComment(db *gorm.DB) (*Comment, error) {
	err := db.Model(&Comment{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"body":       c.Body,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteAComment removes a comment and, for a top-level comment, its replies.
func (c *Comment) DeleteAComment(db *gorm.DB) (int64, error) {
	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", c.ID).Delete(&Comment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", c.ID).Delete(&Comment{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// When a user is deleted, we also delete the comments that the user had.
func (c *Comment) DeleteUserComments(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("user_id = ?", uid).Delete(&Comment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// When a post is deleted, we also delete the comments that the post had.
func (c *Comment) DeletePostComments(db *gorm.DB, pid uint) (int64, error) {
	result := db.Where("post_id = ?", pid).Delete(&Comment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
