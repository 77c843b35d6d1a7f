package models

import (
	"errors"
	"html"
	"os"
	"strings"
	"time"

	"Daybook/security"

	"github.com/badoux/checkmail"
	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID         uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID   string    `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	Username   string    `gorm:"size:255;not null;unique" json:"username"`
	Email      string    `gorm:"size:100;not null;unique" json:"email"`
	Password   string    `gorm:"size:255;not null" json:"password"`
	FullName   string    `gorm:"size:255" json:"full_name"`
	Bio        string    `gorm:"size:500" json:"bio"`
	AvatarPath string    `gorm:"size:255;null;" json:"avatar_path"`
	IsAdmin    bool      `gorm:"default:false" json:"is_admin"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	IsVerified bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (u *User) HashPassword() error {
	hashedPassword, err := security.Hash(u.Password)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) BeforeSave(tx *gorm.DB) (err error) {
	return u.HashPassword()
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(u.PublicID) == "" {
		u.PublicID = uuid.NewV4().String()
	}
	return nil
}

func (u *User) Prepare() {
	u.Username = html.EscapeString(strings.ToLower(strings.TrimSpace(u.Username)))
	u.Email = html.EscapeString(strings.ToLower(strings.TrimSpace(u.Email)))
	u.FullName = html.EscapeString(strings.TrimSpace(u.FullName))
	u.Bio = html.EscapeString(strings.TrimSpace(u.Bio))

	// Newly created users never self-assign the admin flag.
	if u.ID == 0 {
		u.IsAdmin = false
		u.IsActive = true
	}

	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
}

// AfterFind rewrites a stored avatar key into a full S3 URL.
func (u *User) AfterFind(tx *gorm.DB) (err error) {
	if u.AvatarPath == "" || strings.HasPrefix(u.AvatarPath, "http") {
		return nil
	}
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		return nil
	}
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	key := u.AvatarPath
	if !strings.HasPrefix(key, "UserAvatars/") {
		key = "UserAvatars/" + key
	}
	u.AvatarPath = "https://" + bucket + ".s3." + region + ".amazonaws.com/" + key
	return nil
}

func (u *User) Validate(action string) map[string]string {
	var errorMessages = make(map[string]string)

	switch strings.ToLower(action) {
	case "update":
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		}
		if u.Email != "" {
			if err := checkmail.ValidateFormat(u.Email); err != nil {
				errorMessages["Invalid_email"] = "Invalid Email"
			}
		}

	case "login":
		if u.Password == "" {
			errorMessages["Required_password"] = "Required Password"
		}
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		}
		if u.Email != "" {
			if err := checkmail.ValidateFormat(u.Email); err != nil {
				errorMessages["Invalid_email"] = "Invalid Email"
			}
		}
	case "forgotpassword":
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		}
		if u.Email != "" {
			if err := checkmail.ValidateFormat(u.Email); err != nil {
				errorMessages["Invalid_email"] = "Invalid Email"
			}
		}
	default:
		if u.Username == "" {
			errorMessages["Required_username"] = "Required Username"
		}
		if u.Password == "" {
			errorMessages["Required_password"] = "Required Password"
		}
		if len(u.Password) < 6 && u.Password != "" {
			errorMessages["Invalid_password"] = "Password should be at least 6 characters"
		}
		if u.Email == "" {
			errorMessages["Required_email"] = "Required Email"
		}
		if u.Email != "" {
			if err := checkmail.ValidateFormat(u.Email); err != nil {
				errorMessages["Invalid_email"] = "Invalid Email"
			}
		}
	}
	return errorMessages
}

func (u *User) SaveUser(db *gorm.DB) (*User, error) {
	err := db.Create(&u).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) FindAllUsers(db *gorm.DB) (*[]User, error) {
	var users []User
	err := db.Limit(100).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return &users, nil
}

func (u *User) FindUserByID(db *gorm.DB, uid uint) (*User, error) {
	var user User
	err := db.Where("id = ?", uid).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *User) FindUserByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	err := db.Where("lower(email) = ?", strings.ToLower(email)).Take(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchUsers matches username or full name, public listing order.
func (u *User) SearchUsers(db *gorm.DB, query string, limit, offset int) (*[]User, error) {
	var users []User
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	err := db.Where("lower(username) LIKE ? OR lower(full_name) LIKE ?", pattern, pattern).
		Order("username asc").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return &users, nil
}

func (u *User) UpdateAUser(db *gorm.DB, uid uint) (*User, error) {
	if u.Password != "" {
		if err := u.HashPassword(); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{
		"email":      u.Email,
		"full_name":  u.FullName,
		"bio":        u.Bio,
		"updated_at": time.Now(),
	}
	if u.Password != "" {
		updates["password"] = u.Password
	}

	err := db.Model(&User{}).Where("id = ?", uid).Updates(updates).Error
	if err != nil {
		return nil, err
	}

	err = db.Where("id = ?", uid).Take(&u).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) UpdateAUserAvatar(db *gorm.DB, uid uint) (*User, error) {
	err := db.Model(&User{}).Where("id = ?", uid).Updates(map[string]interface{}{
		"avatar_path": u.AvatarPath,
		"updated_at":  time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}

	err = db.Where("id = ?", uid).Take(&u).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) UpdatePassword(db *gorm.DB) error {
	if err := u.HashPassword(); err != nil {
		return err
	}

	return db.Model(&User{}).Where("lower(email) = ?", strings.ToLower(u.Email)).Updates(map[string]interface{}{
		"password":   u.Password,
		"updated_at": time.Now(),
	}).Error
}

func (u *User) DeleteAUser(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("id = ?", uid).Delete(&User{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
