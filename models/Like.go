package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Guard outcomes for like operations. A duplicate like is an expected
// outcome, not a server fault.
var (
	ErrAlreadyLiked = errors.New("post already liked")
	ErrNotLiked     = errors.New("post not liked")
)

type Like struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_unique" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_unique;index" json:"post_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// SaveLike inserts at most one like per (user, post) pair. The unique index
// is the authoritative backstop under concurrent duplicate requests: the
// conflicting insert affects zero rows and is reported as ErrAlreadyLiked.
func (l *Like) SaveLike(db *gorm.DB) (*Like, error) {
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&l)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadyLiked
	}
	return l, nil
}

// DeleteLike removes the like for a (user, post) pair if present.
func (l *Like) DeleteLike(db *gorm.DB, uid, pid uint) error {
	result := db.Where("user_id = ? AND post_id = ?", uid, pid).Delete(&Like{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotLiked
	}
	return nil
}

func (l *Like) GetPostLikes(db *gorm.DB, pid uint, limit, offset int) (*[]Like, error) {
	likes := []Like{}
	err := db.Preload("User").
		Where("post_id = ?", pid).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	return &likes, nil
}

// When a user is deleted, we also delete the likes that the user had.
func (l *Like) DeleteUserLikes(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("user_id = ?", uid).Delete(&Like{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// When a post is deleted, we also delete the likes that the post had.
func (l *Like) DeletePostLikes(db *gorm.DB, pid uint) (int64, error) {
	result := db.Where("post_id = ?", pid).Delete(&Like{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
