package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"Daybook/models"
	"Daybook/utils/formaterror"
	"Daybook/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// LikePost godoc
// @Summary Like a post
// @Description Records at most one like per user and post; a repeat is a conflict
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post public ID"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /posts/{id}/like [post]
func (server *Server) LikePost(c *gin.Context) {
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

	like := models.Like{UserID: uid, PostID: post.ID}
	likeCreated, err := like.SaveLike(server.DB)
	if err != nil {
		if errors.Is(err, models.ErrAlreadyLiked) {
			errList["Double_like"] = "Post already liked"
			c.JSON(http.StatusConflict, gin.H{
				"status": http.StatusConflict,
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

	if post.AuthorID != uid {
		liker := models.User{}
		if userGotten, err := liker.FindUserByID(server.DB, uid); err == nil {
			server.notify(post.AuthorID, models.NotificationTypeLike,
				"New like",
				fmt.Sprintf("%s liked your post", userGotten.Username),
				map[string]interface{}{
					"post_id": post.PublicID,
					"user_id": userGotten.PublicID,
				})
		}
	}

	engagement, err := models.GetPostEngagement(server.DB, post.ID, &uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": http.StatusCreated,
		"response": gin.H{
			"liked_at":   likeCreated.CreatedAt,
			"engagement": engagement,
		},
	})
}

// UnlikePost godoc
// @Summary Remove a like from a post
// @Description Removing a like that does not exist is a conflict
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post public ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /posts/{id}/like [delete]
func (server *Server) UnlikePost(c *gin.Context) {
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

	like := models.Like{}
	if err := like.DeleteLike(server.DB, uid, post.ID); err != nil {
		if errors.Is(err, models.ErrNotLiked) {
			errList["Not_liked"] = "You have not liked this post"
			c.JSON(http.StatusConflict, gin.H{
				"status": http.StatusConflict,
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

	engagement, err := models.GetPostEngagement(server.DB, post.ID, &uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			"engagement": engagement,
		},
	})
}

// GetPostLikes godoc
// @Summary Users who liked a post
// @Tags likes
// @Produce json
// @Param id path string true "Post public ID"
// @Success 200 {object} map[string]interface{}
// @Router /posts/{id}/likes [get]
func (server *Server) GetPostLikes(c *gin.Context) {
	post, err := server.resolvePostByIdentifier(c.Param("id"))
	if err != nil {
		errList := map[string]string{"No_post": "No Post Found"}
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	like := models.Like{}
	likes, err := like.GetPostLikes(server.DB, post.ID, parseLimit(c), parseOffset(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	dtos := make([]LikeDTO, len(*likes))
	for i := range *likes {
		dtos[i] = likeToDTO(&(*likes)[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": dtos,
	})
}
