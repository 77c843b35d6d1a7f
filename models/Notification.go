package models

import (
	"strings"
	"time"

	"github.com/twinj/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotificationTypeLike    = "like"
	NotificationTypeFollow  = "follow"
	NotificationTypeComment = "comment"

	NotificationPriorityNormal = "normal"
	NotificationPriorityHigh   = "high"

	NotificationChannelInApp = "in_app"
)

type Notification struct {
	ID        uint           `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID  string         `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Type      string         `gorm:"size:50;not null" json:"type"`
	Priority  string         `gorm:"size:20;not null;default:'normal'" json:"priority"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Message   string         `gorm:"text;not null" json:"message"`
	Data      datatypes.JSON `json:"data"`
	Channel   string         `gorm:"size:20;not null;default:'in_app'" json:"channel"`
	ReadAt    *time.Time     `json:"read_at"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(n.PublicID) == "" {
		n.PublicID = uuid.NewV4().String()
	}
	return nil
}

func (n *Notification) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if n.Type == "" {
		errorMessages["Required_type"] = "Type is required"
	}
	if n.Title == "" {
		errorMessages["Required_title"] = "Title is required"
	}
	if n.Message == "" {
		errorMessages["Required_message"] = "Message is required"
	}
	if n.UserID == 0 {
		errorMessages["Required_user"] = "User is required"
	}
	return errorMessages
}

func (n *Notification) SaveNotification(db *gorm.DB) (*Notification, error) {
	if n.Priority == "" {
		n.Priority = NotificationPriorityNormal
	}
	if n.Channel == "" {
		n.Channel = NotificationChannelInApp
	}
	if err := db.Create(&n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// FindUserNotifications returns a user's notifications newest-first,
// optionally restricted to unread ones.
func (n *Notification) FindUserNotifications(db *gorm.DB, uid uint, unreadOnly bool, limit, offset int) (*[]Notification, error) {
	notifications := []Notification{}
	chain := db.Where("user_id = ?", uid)
	if unreadOnly {
		chain = chain.Where("read_at IS NULL")
	}
	err := chain.Order("created_at desc").Limit(limit).Offset(offset).Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return &notifications, nil
}

// MarkRead stamps a notification as read for its owner. Returns the number
// of rows touched so callers can distinguish "not yours" from "done".
func (n *Notification) MarkRead(db *gorm.DB, id, uid uint) (int64, error) {
	now := time.Now()
	result := db.Model(&Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", id, uid).
		Update("read_at", &now)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// When a user is deleted, we also delete their notifications.
func (n *Notification) DeleteUserNotifications(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("user_id = ?", uid).Delete(&Notification{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
