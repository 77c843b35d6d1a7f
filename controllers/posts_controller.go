package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"Daybook/cache"
	"Daybook/models"
	"Daybook/utils/formaterror"
	"Daybook/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const postListCacheTTL = 60 * time.Second

func invalidatePostListings(c *gin.Context) {
	if err := cache.DeleteByPrefix(c.Request.Context(), "posts:"); err != nil {
		log.Printf("could not invalidate post listing cache: %v", err)
	}
}

// CreatePost godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post body models.Post true "Post content"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /posts [post]
func (server *Server) CreatePost(c *gin.Context) {
	errList := map[string]string{}

	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		errList["Unauthorized"] = "Unauthorized"
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"error":  errList,
		})
		return
	}

	requestBody := struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		Type     string `json:"type"`
		ImageURL string `json:"image_url"`
		Location string `json:"location"`
		IsPublic *bool  `json:"is_public"`
	}{}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	post := models.Post{
		AuthorID: uid,
		Title:    requestBody.Title,
		Content:  requestBody.Content,
		Type:     requestBody.Type,
		ImageURL: requestBody.ImageURL,
		Location: requestBody.Location,
		IsPublic: true,
	}
	if requestBody.IsPublic != nil {
		post.IsPublic = *requestBody.IsPublic
	}

	post.Prepare()
	errorMessages := post.Validate()
	if len(errorMessages) > 0 {
		errList = errorMessages
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	postCreated, err := post.SavePost(server.DB)
	if err != nil {
		errList = formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  errList,
		})
		return
	}

	invalidatePostListings(c)

	engagement, _ := models.GetPostEngagement(server.DB, postCreated.ID, &uid)
	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": postToDTO(postCreated, engagement),
	})
}

// GetPosts godoc
// @Summary List public posts
// @Description Newest first, optionally filtered by a search term or post type
// @Tags posts
// @Produce json
// @Param q query string false "Search term"
// @Param type query string false "Post type" Enums(daily, photo, spontaneous)
// @Success 200 {object} map[string]interface{}
// @Router /posts [get]
func (server *Server) GetPosts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	postType := strings.TrimSpace(c.Query("type"))
	limit := parseLimit(c)
	offset := parseOffset(c)

	if postType != "" && !models.ValidPostType(postType) {
		errList := map[string]string{"Invalid_type": "Invalid post type"}
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  errList,
		})
		return
	}

	viewerID := optionalViewerID(c)

	// The anonymous listing is identical for everyone and safe to cache.
	// Authenticated viewers carry per-viewer like flags, so they always hit
	// the database.
	cacheKey := fmt.Sprintf("posts:q=%s:type=%s:limit=%d:offset=%d", query, postType, limit, offset)
	if viewerID == nil {
		if cached, err := cache.Get(c.Request.Context(), cacheKey); err == nil && cached != "" {
			var dtos []PostDTO
			if err := json.Unmarshal([]byte(cached), &dtos); err == nil {
				c.JSON(http.StatusOK, gin.H{
					"status":   http.StatusOK,
					"response": dtos,
				})
				return
			}
		}
	}

	post := models.Post{}
	posts, err := post.FindPublicPosts(server.DB, query, postType, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	dtos, err := postsToDTOs(server.DB, *posts, viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	if viewerID == nil {
		if payload, err := json.Marshal(dtos); err == nil {
			if err := cache.Set(c.Request.Context(), cacheKey, payload, postListCacheTTL); err != nil {
				log.Printf("could not cache post listing: %v", err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": dtos,
	})
}

// GetFeed godoc
// @Summary The viewer's home feed
// @Description The viewer's own posts plus public posts from followed authors, newest first
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /posts/feed [get]
func (server *Server) GetFeed(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"error":  map[string]string{"Unauthorized": "Unauthorized"},
		})
		return
	}

	post := models.Post{}
	posts, err := post.FindFeed(server.DB, uid, parseLimit(c), parseOffset(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	dtos, err := postsToDTOs(server.DB, *posts, &uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": dtos,
	})
}

// GetPost godoc
// @Summary A single post with its engagement figures
// @Tags posts
// @Produce json
// @Param id path string true "Public ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /posts/{id} [get]
func (server *Server) GetPost(c *gin.Context) {
	post, err := server.resolvePostByIdentifier(c.Param("id"))
	if err != nil {
		errList := map[string]string{"No_post": "No Post Found"}
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	viewerID := optionalViewerID(c)

	if !post.IsPublic {
		isOwner := viewerID != nil && *viewerID == post.AuthorID
		if !isOwner && !httpctx.IsAdminRequest(c) {
			errList := map[string]string{"Private_post": "This post is private"}
			c.JSON(http.StatusForbidden, gin.H{
				"status": http.StatusForbidden,
				"error":  errList,
			})
			return
		}
	}

	engagement, err := models.GetPostEngagement(server.DB, post.ID, viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": postToDTO(post, engagement),
	})
}

// UpdatePost godoc
// @Summary Update a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Public ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /posts/{id} [put]
func (server *Server) UpdatePost(c *gin.Context) {
	errList := map[string]string{}

	existing, err := server.resolvePostByIdentifier(c.Param("id"))
	if err != nil {
		errList["No_post"] = "No Post Found"
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	uid, ok := httpctx.CurrentUserID(c)
	if !ok || uid != existing.AuthorID {
		errList["Unauthorized"] = "You are not allowed to update this post"
		c.JSON(http.StatusForbidden, gin.H{
			"status": http.StatusForbidden,
			"error":  errList,
		})
		return
	}

	requestBody := struct {
		Title    *string `json:"title"`
		Content  *string `json:"content"`
		Type     *string `json:"type"`
		ImageURL *string `json:"image_url"`
		Location *string `json:"location"`
		IsPublic *bool   `json:"is_public"`
	}{}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	post := models.Post{
		ID:       existing.ID,
		AuthorID: existing.AuthorID,
		Title:    existing.Title,
		Content:  existing.Content,
		Type:     existing.Type,
		ImageURL: existing.ImageURL,
		Location: existing.Location,
		IsPublic: existing.IsPublic,
	}
	if requestBody.Title != nil {
		post.Title = *requestBody.Title
	}
	if requestBody.Content != nil {
		post.Content = *requestBody.Content
	}
	if requestBody.Type != nil {
		post.Type = *requestBody.Type
	}
	if requestBody.ImageURL != nil {
		post.ImageURL = *requestBody.ImageURL
	}
	if requestBody.Location != nil {
		post.Location = *requestBody.Location
	}
	if requestBody.IsPublic != nil {
		post.IsPublic = *requestBody.IsPublic
	}

	post.Prepare()
	post.ID = existing.ID
	post.AuthorID = existing.AuthorID
	errorMessages := post.Validate()
	if len(errorMessages) > 0 {
		errList = errorMessages
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	updated, err := post.UpdateAPost(server.DB)
	if err != nil {
		errList = formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  errList,
		})
		return
	}

	invalidatePostListings(c)

	engagement, _ := models.GetPostEngagement(server.DB, updated.ID, &uid)
	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": postToDTO(updated, engagement),
	})
}

// DeletePost godoc
// @Summary Delete a post and its likes and comments
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Public ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /posts/{id} [delete]
func (server *Server) DeletePost(c *gin.Context) {
	errList := map[string]string{}

	post, err := server.resolvePostByIdentifier(c.Param("id"))
	if err != nil {
		errList["No_post"] = "No Post Found"
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	uid, ok := httpctx.CurrentUserID(c)
	if !ok || (uid != post.AuthorID && !httpctx.IsAdminRequest(c)) {
		errList["Unauthorized"] = "You are not allowed to delete this post"
		c.JSON(http.StatusForbidden, gin.H{
			"status": http.StatusForbidden,
			"error":  errList,
		})
		return
	}

	if _, err := post.DeleteAPost(server.DB, post.ID); err != nil {
		errList = formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  errList,
		})
		return
	}

	invalidatePostListings(c)

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Post deleted",
	})
}

// AdminDeletePost godoc
// @Summary Remove any post (moderation)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Public ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /admin/posts/{id} [delete]
func (server *Server) AdminDeletePost(c *gin.Context) {
	post, err := server.resolvePostByIdentifier(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status": http.StatusNotFound,
				"error":  map[string]string{"No_post": "No Post Found"},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	if _, err := post.DeleteAPost(server.DB, post.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	invalidatePostListings(c)

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Post deleted",
	})
}
