package controllers

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"Daybook/auth"
	"Daybook/models"
	"Daybook/utils/httpctx"

	"github.com/gin-gonic/gin"
	googleuuid "github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit <= 0 {
		return defaultPageLimit
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}

func parseOffset(c *gin.Context) int {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

func isUUIDLike(value string) bool {
	_, err := googleuuid.Parse(value)
	return err == nil
}

// optionalViewerID resolves the viewer on routes that work with or without
// authentication. The middleware key wins; otherwise a bearer token, if any,
// is decoded directly. No token means no viewer, never an error.
func optionalViewerID(c *gin.Context) *uint {
	if uid, ok := httpctx.CurrentUserID(c); ok {
		return &uid
	}
	uid, err := auth.ExtractTokenID(c.Request)
	if err != nil {
		return nil
	}
	return &uid
}

// resolveUserByIdentifier accepts either a public UUID or a username.
func (s *Server) resolveUserByIdentifier(identifier string) (*models.User, error) {
	var user models.User
	if isUUIDLike(identifier) {
		if err := s.DB.Where("public_id = ?", identifier).Take(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	err := s.DB.Where("lower(username) = ?", strings.ToLower(identifier)).Take(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// resolvePostByIdentifier accepts a public UUID, falling back to a numeric ID.
func (s *Server) resolvePostByIdentifier(identifier string) (*models.Post, error) {
	var post models.Post
	if isUUIDLike(identifier) {
		if err := s.DB.Preload("Author").Where("public_id = ?", identifier).Take(&post).Error; err != nil {
			return nil, err
		}
		return &post, nil
	}
	pid, err := strconv.ParseUint(identifier, 10, 32)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	if err := s.DB.Preload("Author").First(&post, uint(pid)).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Server) resolveCommentByIdentifier(identifier string) (*models.Comment, error) {
	var comment models.Comment
	if isUUIDLike(identifier) {
		if err := s.DB.Preload("Author").Where("public_id = ?", identifier).Take(&comment).Error; err != nil {
			return nil, err
		}
		return &comment, nil
	}
	cid, err := strconv.ParseUint(identifier, 10, 32)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	if err := s.DB.Preload("Author").First(&comment, uint(cid)).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// notify records an in-app notification, best effort. A failed insert never
// fails the triggering interaction.
func (s *Server) notify(userID uint, notificationType, title, message string, data map[string]interface{}) {
	notification := models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err == nil {
			notification.Data = datatypes.JSON(raw)
		}
	}
	if _, err := notification.SaveNotification(s.DB); err != nil {
		log.Printf("could not record %s notification for user %d: %v", notificationType, userID, err)
	}
}
