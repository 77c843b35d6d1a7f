package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"Daybook/models"
	"Daybook/utils/formaterror"
	"Daybook/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateComment godoc
// @Summary Comment on a post
// @Description Optionally replies to a top-level comment; replies cannot be nested
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post public ID"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /posts/{id}/comments [post]
func (server *Server) CreateComment(c *gin.Context) {
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

	post, err := server.resolvePostByIdentifier(c.Param("id"))
	if err != nil {
		errList["No_post"] = "No Post Found"
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	requestBody := struct {
		Body     string `json:"body"`
		ParentID string `json:"parent_id"`
	}{}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	comment := models.Comment{
		UserID: uid,
		PostID: post.ID,
		Body:   requestBody.Body,
	}

	if requestBody.ParentID != "" {
		parent, err := server.resolveCommentByIdentifier(requestBody.ParentID)
		if err != nil {
			errList["No_parent"] = "Parent comment not found"
			c.JSON(http.StatusNotFound, gin.H{
				"status": http.StatusNotFound,
				"error":  errList,
			})
			return
		}
		comment.ParentID = &parent.ID
	}

	comment.Prepare()
	comment.UserID = uid
	comment.PostID = post.ID
	errorMessages := comment.Validate("")
	if len(errorMessages) > 0 {
		errList = errorMessages
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	commentCreated, err := comment.SaveComment(server.DB)
	if err != nil {
		if errors.Is(err, models.ErrReplyDepth) {
			errList["Invalid_parent"] = "Replies cannot be nested"
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": http.StatusUnprocessableEntity,
				"error":  errList,
			})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errList["No_parent"] = "Parent comment not found"
			c.JSON(http.StatusNotFound, gin.H{
				"status": http.StatusNotFound,
				"error":  errList,
			})
			return
		}
		errList = formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  errList,
		})
		return
	}

	author := models.User{}
	if commenter, err := author.FindUserByID(server.DB, uid); err == nil {
		commentCreated.Author = *commenter
		if post.AuthorID != uid {
			server.notify(post.AuthorID, models.NotificationTypeComment,
				"New comment",
				fmt.Sprintf("%s commented on your post", commenter.Username),
				map[string]interface{}{
					"post_id":    post.PublicID,
					"comment_id": commentCreated.PublicID,
					"user_id":    commenter.PublicID,
				})
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": commentToDTO(server.DB, commentCreated, 0),
	})
}

// GetComments godoc
// @Summary A post's top-level comments, newest first
// @Tags comments
// @Produce json
// @Param id path string true "Post public ID"
// @Success 200 {object} map[string]interface{}
// @Router /posts/{id}/comments [get]
func (server *Server) GetComments(c *gin.Context) {
	post, err := server.resolvePostByIdentifier(c.Param("id"))
	if err != nil {
		errList := map[string]string{"No_post": "No Post Found"}
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	comment := models.Comment{}
	comments, err := comment.GetPostComments(server.DB, post.ID, parseLimit(c), parseOffset(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	dtos := make([]CommentDTO, len(*comments))
	for i := range *comments {
		repliesCount, err := models.CountReplies(server.DB, (*comments)[i].ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status": http.StatusInternalServerError,
				"error":  formaterror.FormatError(err.Error()),
			})
			return
		}
		dtos[i] = commentToDTO(server.DB, &(*comments)[i], repliesCount)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": dtos,
	})
}

// GetReplies godoc
// @Summary Replies to a comment, oldest first
// @Tags comments
// @Produce json
// @Param id path string true "Comment public ID"
// @Success 200 {object} map[string]interface{}
// @Router /comments/{id}/replies [get]
func (server *Server) GetReplies(c *gin.Context) {
	parent, err := server.resolveCommentByIdentifier(c.Param("id"))
	if err != nil {
		errList := map[string]string{"No_comment": "No Comment Found"}
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	comment := models.Comment{}
	replies, err := comment.GetReplies(server.DB, parent.ID, parseLimit(c), parseOffset(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	dtos := make([]CommentDTO, len(*replies))
	for i := range *replies {
		dtos[i] = commentToDTO(server.DB, &(*replies)[i], 0)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": dtos,
	})
}

// UpdateComment godoc
// @Summary Edit a comment's body
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment public ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /comments/{id} [put]
func (server *Server) UpdateComment(c *gin.Context) {
	errList := map[string]string{}

	existing, err := server.resolveCommentByIdentifier(c.Param("id"))
	if err != nil {
		errList["No_comment"] = "No Comment Found"
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	uid, ok := httpctx.CurrentUserID(c)
	if !ok || uid != existing.UserID {
		errList["Unauthorized"] = "You are not allowed to update this comment"
		c.JSON(http.StatusForbidden, gin.H{
			"status": http.StatusForbidden,
			"error":  errList,
		})
		return
	}

	requestBody := struct {
		Body string `json:"body"`
	}{}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	comment := models.Comment{Body: requestBody.Body}
	comment.Prepare()
	comment.ID = existing.ID
	errorMessages := comment.Validate("update")
	if len(errorMessages) > 0 {
		errList = errorMessages
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	if _, err := comment.UpdateAComment(server.DB); err != nil {
		errList = formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  errList,
		})
		return
	}

	updated, err := server.resolveCommentByIdentifier(existing.PublicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	repliesCount, _ := models.CountReplies(server.DB, updated.ID)
	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": commentToDTO(server.DB, updated, repliesCount),
	})
}

// DeleteComment godoc
// @Summary Delete a comment and, if top-level, its replies
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment public ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /comments/{id} [delete]
func (server *Server) DeleteComment(c *gin.Context) {
	errList := map[string]string{}

	existing, err := server.resolveCommentByIdentifier(c.Param("id"))
	if err != nil {
		errList["No_comment"] = "No Comment Found"
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	uid, ok := httpctx.CurrentUserID(c)
	if !ok || (uid != existing.UserID && !httpctx.IsAdminRequest(c)) {
		errList["Unauthorized"] = "You are not allowed to delete this comment"
		c.JSON(http.StatusForbidden, gin.H{
			"status": http.StatusForbidden,
			"error":  errList,
		})
		return
	}

	if _, err := existing.DeleteAComment(server.DB); err != nil {
		errList = formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  errList,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Comment deleted",
	})
}
