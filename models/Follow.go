package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Guard outcomes for follow operations. The guard itself is agnostic to
// identity equality; self-follow is rejected at the controller boundary.
var (
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")
)

type Follow struct {
	ID         uint      `gorm:"primary_key;autoIncrement" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follows_unique;index:idx_follows_follower_created,priority:1" json:"follower_id"`
	FollowedID uint      `gorm:"not null;index;uniqueIndex:idx_follows_unique;index:idx_follows_followed_created,priority:1" json:"followed_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_follows_followed_created,priority:2;index:idx_follows_follower_created,priority:2" json:"created_at"`
}

// SaveFollow inserts at most one edge per (follower, followed) pair, with
// the unique index as the backstop under concurrent duplicates.
func (f *Follow) SaveFollow(db *gorm.DB) (*Follow, error) {
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&f)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadyFollowing
	}
	return f, nil
}

func (f *Follow) DeleteFollow(db *gorm.DB, followerID, followedID uint) error {
	result := db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

// FindFollowers lists the users following uid, most recent edge first.
func (f *Follow) FindFollowers(db *gorm.DB, uid uint, limit, offset int) (*[]User, error) {
	var users []User
	err := db.Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", uid).
		Order("follows.created_at desc").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return &users, nil
}

// FindFollowing lists the users uid follows, most recent edge first.
func (f *Follow) FindFollowing(db *gorm.DB, uid uint, limit, offset int) (*[]User, error) {
	var users []User
	err := db.Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", uid).
		Order("follows.created_at desc").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return &users, nil
}

// DeleteUserFollows removes every edge touching a deleted user, in either
// direction.
func (f *Follow) DeleteUserFollows(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("follower_id = ? OR followed_id = ?", uid, uid).Delete(&Follow{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
