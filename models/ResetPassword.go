package models

import (
	"strings"
	"time"

	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

type ResetPassword struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Email     string    `gorm:"size:100;not null;index" json:"email"`
	Token     string    `gorm:"size:255;not null;uniqueIndex" json:"token"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (rp *ResetPassword) Prepare() {
	rp.Email = strings.ToLower(strings.TrimSpace(rp.Email))
	rp.Token = uuid.NewV4().String()
	rp.CreatedAt = time.Now()
}

func (rp *ResetPassword) SaveDetails(db *gorm.DB) (*ResetPassword, error) {
	err := db.Create(&rp).Error
	if err != nil {
		return nil, err
	}
	return rp, nil
}

func (rp *ResetPassword) FindDetails(db *gorm.DB, token string) (*ResetPassword, error) {
	var details ResetPassword
	err := db.Where("token = ?", token).Take(&details).Error
	if err != nil {
		return nil, err
	}
	return &details, nil
}

func (rp *ResetPassword) DeleteDetails(db *gorm.DB) (int64, error) {
	result := db.Where("id = ?", rp.ID).Delete(&ResetPassword{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
