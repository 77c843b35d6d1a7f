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

// FollowUser godoc
// @Summary Follow a user
// @Description Records at most one follow edge per pair; a repeat is a conflict
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path string true "Public ID or username"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /users/{id}/follow [post]
func (server *Server) FollowUser(c *gin.Context) {
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

	targetUser, err := server.resolveUserByIdentifier(c.Param("id"))
	if err != nil {
		errList["No_user"] = "No User Found"
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	if targetUser.ID == uid {
		errList["Invalid_follow"] = "You cannot follow yourself"
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  errList,
		})
		return
	}

	follow := models.Follow{FollowerID: uid, FollowedID: targetUser.ID}
	if _, err := follow.SaveFollow(server.DB); err != nil {
		if errors.Is(err, models.ErrAlreadyFollowing) {
			errList["Double_follow"] = "Already following this user"
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

	follower := models.User{}
	if userGotten, err := follower.FindUserByID(server.DB, uid); err == nil {
		server.notify(targetUser.ID, models.NotificationTypeFollow,
			"New follower",
			fmt.Sprintf("%s started following you", userGotten.Username),
			map[string]interface{}{
				"user_id": userGotten.PublicID,
			})
	}

	engagement, err := models.GetUserEngagement(server.DB, targetUser.ID, &uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": userToProfileDTO(targetUser, engagement),
	})
}

// UnfollowUser godoc
// @Summary Unfollow a user
// @Description Removing an edge that does not exist is a conflict
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path string true "Public ID or username"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /users/{id}/follow [delete]
func (server *Server) UnfollowUser(c *gin.Context) {
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

	targetUser, err := server.resolveUserByIdentifier(c.Param("id"))
	if err != nil {
		errList["No_user"] = "No User Found"
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	follow := models.Follow{}
	if err := follow.DeleteFollow(server.DB, uid, targetUser.ID); err != nil {
		if errors.Is(err, models.ErrNotFollowing) {
			errList["Not_following"] = "You are not following this user"
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

	engagement, err := models.GetUserEngagement(server.DB, targetUser.ID, &uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": userToProfileDTO(targetUser, engagement),
	})
}

// GetFollowers godoc
// @Summary Users following a profile, most recent first
// @Tags follows
// @Produce json
// @Param id path string true "Public ID or username"
// @Success 200 {object} map[string]interface{}
// @Router /users/{id}/followers [get]
func (server *Server) GetFollowers(c *gin.Context) {
	targetUser, err := server.resolveUserByIdentifier(c.Param("id"))
	if err != nil {
		errList := map[string]string{"No_user": "No User Found"}
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	follow := models.Follow{}
	users, err := follow.FindFollowers(server.DB, targetUser.ID, parseLimit(c), parseOffset(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	dtos, err := server.followListToDTOs(c, *users)
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

// GetFollowing godoc
// @Summary Users a profile follows, most recent first
// @Tags follows
// @Produce json
// @Param id path string true "Public ID or username"
// @Success 200 {object} map[string]interface{}
// @Router /users/{id}/following [get]
func (server *Server) GetFollowing(c *gin.Context) {
	targetUser, err := server.resolveUserByIdentifier(c.Param("id"))
	if err != nil {
		errList := map[string]string{"No_user": "No User Found"}
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	follow := models.Follow{}
	users, err := follow.FindFollowing(server.DB, targetUser.ID, parseLimit(c), parseOffset(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	dtos, err := server.followListToDTOs(c, *users)
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

// followListToDTOs annotates each listed user with the viewer's relationship
// to them, when there is a viewer.
func (server *Server) followListToDTOs(c *gin.Context, users []models.User) ([]FollowUserDTO, error) {
	viewerID := optionalViewerID(c)
	dtos := make([]FollowUserDTO, len(users))
	for i := range users {
		dtos[i] = FollowUserDTO{UserSummaryDTO: userToSummaryDTO(&users[i])}
		if viewerID == nil || *viewerID == users[i].ID {
			continue
		}
		following, err := models.IsFollowing(server.DB, *viewerID, users[i].ID)
		if err != nil {
			return nil, err
		}
		followedBy, err := models.IsFollowing(server.DB, users[i].ID, *viewerID)
		if err != nil {
			return nil, err
		}
		dtos[i].ViewerFollowing = following
		dtos[i].ViewerFollowedBy = followedBy
		dtos[i].Mutual = following && followedBy
	}
	return dtos, nil
}

// GetRelationship godoc
// @Summary The viewer's relationship with another user
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path string true "Public ID or username"
// @Success 200 {object} map[string]interface{}
// @Router /users/{id}/relationship [get]
func (server *Server) GetRelationship(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"error":  map[string]string{"Unauthorized": "Unauthorized"},
		})
		return
	}

	targetUser, err := server.resolveUserByIdentifier(c.Param("id"))
	if err != nil {
		errList := map[string]string{"No_user": "No User Found"}
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	following, err := models.IsFollowing(server.DB, uid, targetUser.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}
	followedBy, err := models.IsFollowing(server.DB, targetUser.ID, uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": RelationshipDTO{
			Following:  following,
			FollowedBy: followedBy,
			Mutual:     following && followedBy,
		},
	})
}
