package models

import (
	"html"
	"strings"
	"time"

	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

// Post types mirror how entries are created: the daily prompt, a photo
// upload, or an unprompted post.
const (
	PostTypeDaily       = "daily"
	PostTypePhoto       = "photo"
	PostTypeSpontaneous = "spontaneous"
)

const maxPostContentLength = 1000

type Post struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID  string    `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	Title     string    `gorm:"size:255" json:"title"`
	Content   string    `gorm:"text;not null;" json:"content"`
	Type      string    `gorm:"size:20;not null;default:'daily'" json:"type"`
	ImageURL  string    `gorm:"size:500" json:"image_url"`
	Location  string    `gorm:"size:255" json:"location"`
	IsPublic  bool      `gorm:"not null" json:"is_public"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(p.PublicID) == "" {
		p.PublicID = uuid.NewV4().String()
	}
	return nil
}

func (p *Post) Prepare() {
	p.Title = html.EscapeString(strings.TrimSpace(p.Title))
	p.Content = html.EscapeString(strings.TrimSpace(p.Content))
	p.Location = html.EscapeString(strings.TrimSpace(p.Location))
	if p.Type == "" {
		p.Type = PostTypeDaily
	}
	p.Author = User{}
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
}

func ValidPostType(value string) bool {
	switch value {
	case PostTypeDaily, PostTypePhoto, PostTypeSpontaneous:
		return true
	}
	return false
}

func (p *Post) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if p.Content == "" {
		errorMessages["Required_content"] = "Content is required"
	}
	if len(p.Content) > maxPostContentLength {
		errorMessages["Invalid_content"] = "Content is too long"
	}
	if p.AuthorID == 0 {
		errorMessages["Required_author"] = "Author is required"
	}
	if !ValidPostType(p.Type) {
		errorMessages["Invalid_type"] = "Invalid post type"
	}
	return errorMessages
}

func (p *Post) SavePost(db *gorm.DB) (*Post, error) {
	if err := db.Create(&p).Error; err != nil {
		return nil, err
	}
	if err := db.Model(p).Association("Author").Find(&p.Author); err != nil {
		return nil, err
	}
	return p, nil
}

// FindPublicPosts lists public posts newest-first, optionally filtered by a
// content search term or a post type.
func (p *Post) FindPublicPosts(db *gorm.DB, query, postType string, limit, offset int) (*[]Post, error) {
	posts := []Post{}
	chain := db.Preload("Author").Where("is_public = ?", true)

	if query != "" {
		chain = chain.Where("lower(content) LIKE ?", "%"+strings.ToLower(query)+"%")
	}
	if postType != "" {
		chain = chain.Where("type = ?", postType)
	}

	err := chain.Order("created_at desc").Limit(limit).Offset(offset).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return &posts, nil
}

func (p *Post) FindPostByID(db *gorm.DB, pid uint) (*Post, error) {
	var post Post
	err := db.Preload("Author").First(&post, pid).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (p *Post) FindUserPosts(db *gorm.DB, uid uint, limit, offset int) (*[]Post, error) {
	var posts []Post
	err := db.Preload("Author").
		Where("author_id = ? AND is_public = ?", uid, true).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return &posts, nil
}

// FindFeed composes the viewer's feed: their own posts plus public posts
// from every author they follow, newest first. A viewer following nobody
// still sees their own posts.
func (p *Post) FindFeed(db *gorm.DB, viewerID uint, limit, offset int) (*[]Post, error) {
	var posts []Post
	followedAuthors := db.Model(&Follow{}).Select("followed_id").Where("follower_id = ?", viewerID)

	err := db.Preload("Author").
		Where("author_id = ? OR author_id IN (?)", viewerID, followedAuthors).
		Where("is_public = ?", true).
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return &posts, nil
}

func (p *Post) UpdateAPost(db *gorm.DB) (*Post, error) {
	err := db.Model(&Post{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"title":      p.Title,
		"content":    p.Content,
		"type":       p.Type,
		"image_url":  p.ImageURL,
		"location":   p.Location,
		"is_public":  p.IsPublic,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}

	var updated Post
	if err := db.Preload("Author").First(&updated, p.ID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAPost removes a post together with its likes and comments in one
// transaction (the cascade the schema promises).
func (p *Post) DeleteAPost(db *gorm.DB, pid uint) (int64, error) {
	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", pid).Delete(&Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", pid).Delete(&Comment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", pid).Delete(&Post{})
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

// DeleteUserPosts cascades a user deletion through their posts and each
// post's likes and comments.
func DeleteUserPosts(tx *gorm.DB, uid uint) error {
	postIDs := tx.Model(&Post{}).Select("id").Where("author_id = ?", uid)
	if err := tx.Where("post_id IN (?)", postIDs).Delete(&Like{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id IN (?)", postIDs).Delete(&Comment{}).Error; err != nil {
		return err
	}
	return tx.Where("author_id = ?", uid).Delete(&Post{}).Error
}
