package controllers

import (
	"net/http"
	"strings"

	"Daybook/auth"
	"Daybook/models"
	"Daybook/security"
	"Daybook/utils/formaterror"
	"Daybook/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateUser godoc
// @Summary Register a new user
// @Description Creates an account and returns it together with a bearer token
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.User true "Username, email and password"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /users [post]
func (server *Server) CreateUser(c *gin.Context) {
	errList := map[string]string{}

	user := models.User{}
	if err := c.ShouldBindJSON(&user); err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	user.Prepare()
	errorMessages := user.Validate("")
	if len(errorMessages) > 0 {
		errList = errorMessages
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	userCreated, err := user.SaveUser(server.DB)
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		errList = formattedError
		c.JSON(http.StatusConflict, gin.H{
			"status": http.StatusConflict,
			"error":  errList,
		})
		return
	}

	token, err := auth.CreateToken(userCreated.ID)
	if err != nil {
		errList["Token_error"] = "Could not create token"
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  errList,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": http.StatusCreated,
		"response": gin.H{
			"token": token,
			"user":  userToDTO(userCreated),
		},
	})
}

// GetUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /users [get]
func (server *Server) GetUsers(c *gin.Context) {
	user := models.User{}
	users, err := user.FindAllUsers(server.DB)
	if err != nil {
		errList := map[string]string{"No_user": "No User Found"}
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	dtos := make([]UserSummaryDTO, len(*users))
	for i := range *users {
		dtos[i] = userToSummaryDTO(&(*users)[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": dtos,
	})
}

// GetMe godoc
// @Summary Current user's own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /users/me [get]
func (server *Server) GetMe(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"error":  map[string]string{"Unauthorized": "Unauthorized"},
		})
		return
	}

	user := models.User{}
	userGotten, err := user.FindUserByID(server.DB, uid)
	if err != nil {
		errList := map[string]string{"No_user": "No User Found"}
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	engagement, err := models.GetUserEngagement(server.DB, userGotten.ID, &uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": userToProfileDTO(userGotten, engagement),
	})
}

// SearchUsers godoc
// @Summary Search users by username or full name
// @Tags users
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {object} map[string]interface{}
// @Router /users/search [get]
func (server *Server) SearchUsers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		errList := map[string]string{"Required_query": "Search term is required"}
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  errList,
		})
		return
	}

	user := models.User{}
	users, err := user.SearchUsers(server.DB, query, parseLimit(c), parseOffset(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	dtos := make([]UserSummaryDTO, len(*users))
	for i := range *users {
		dtos[i] = userToSummaryDTO(&(*users)[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": dtos,
	})
}

// GetUser godoc
// @Summary A user's public profile with derived counts
// @Tags users
// @Produce json
// @Param id path string true "Public ID or username"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /users/{id} [get]
func (server *Server) GetUser(c *gin.Context) {
	userGotten, err := server.resolveUserByIdentifier(c.Param("id"))
	if err != nil {
		errList := map[string]string{"No_user": "No User Found"}
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	engagement, err := models.GetUserEngagement(server.DB, userGotten.ID, optionalViewerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": userToProfileDTO(userGotten, engagement),
	})
}

// UpdateUser godoc
// @Summary Update a user's own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Public ID or username"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /users/{id} [put]
func (server *Server) UpdateUser(c *gin.Context) {
	errList := map[string]string{}

	targetUser, err := server.resolveUserByIdentifier(c.Param("id"))
	if err != nil {
		errList["No_user"] = "No User Found"
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	uid, ok := httpctx.CurrentUserID(c)
	if !ok || uid != targetUser.ID {
		errList["Unauthorized"] = "You are not allowed to update this profile"
		c.JSON(http.StatusForbidden, gin.H{
			"status": http.StatusForbidden,
			"error":  errList,
		})
		return
	}

	requestBody := struct {
		Email           string `json:"email"`
		FullName        string `json:"full_name"`
		Bio             string `json:"bio"`
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}{}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	user := models.User{
		Email:    requestBody.Email,
		FullName: requestBody.FullName,
		Bio:      requestBody.Bio,
	}
	if user.Email == "" {
		user.Email = targetUser.Email
	}

	// Changing the password requires proving the current one.
	if requestBody.NewPassword != "" {
		if len(requestBody.NewPassword) < 6 {
			errList["Invalid_password"] = "Password should be at least 6 characters"
		}
		if requestBody.CurrentPassword == "" {
			errList["Required_password"] = "Please provide your current password"
		}
		if len(errList) > 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": http.StatusUnprocessableEntity,
				"error":  errList,
			})
			return
		}
		if err := security.VerifyPassword(targetUser.Password, requestBody.CurrentPassword); err != nil {
			errList["Incorrect_password"] = "Incorrect current password"
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": http.StatusUnprocessableEntity,
				"error":  errList,
			})
			return
		}
		user.Password = requestBody.NewPassword
	}

	user.Prepare()
	errorMessages := user.Validate("update")
	if len(errorMessages) > 0 {
		errList = errorMessages
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	updatedUser, err := user.UpdateAUser(server.DB, uid)
	if err != nil {
		errList = formaterror.FormatError(err.Error())
		c.JSON(http.StatusConflict, gin.H{
			"status": http.StatusConflict,
			"error":  errList,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": userToDTO(updatedUser),
	})
}

// DeleteUser godoc
// @Summary Delete an account and everything attached to it
// @Description Removes the user plus their posts, likes, comments, follow edges and notifications
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "Public ID or username"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /users/{id} [delete]
func (server *Server) DeleteUser(c *gin.Context) {
	errList := map[string]string{}

	targetUser, err := server.resolveUserByIdentifier(c.Param("id"))
	if err != nil {
		errList["No_user"] = "No User Found"
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	uid, ok := httpctx.CurrentUserID(c)
	if !ok || (uid != targetUser.ID && !httpctx.IsAdminRequest(c)) {
		errList["Unauthorized"] = "You are not allowed to delete this account"
		c.JSON(http.StatusForbidden, gin.H{
			"status": http.StatusForbidden,
			"error":  errList,
		})
		return
	}

	err = server.DB.Transaction(func(tx *gorm.DB) error {
		if err := models.DeleteUserPosts(tx, targetUser.ID); err != nil {
			return err
		}
		like := models.Like{}
		if _, err := like.DeleteUserLikes(tx, targetUser.ID); err != nil {
			return err
		}
		comment := models.Comment{}
		if _, err := comment.DeleteUserComments(tx, targetUser.ID); err != nil {
			return err
		}
		follow := models.Follow{}
		if _, err := follow.DeleteUserFollows(tx, targetUser.ID); err != nil {
			return err
		}
		notification := models.Notification{}
		if _, err := notification.DeleteUserNotifications(tx, targetUser.ID); err != nil {
			return err
		}
		if err := tx.Where("email = ?", targetUser.Email).Delete(&models.ResetPassword{}).Error; err != nil {
			return err
		}
		user := models.User{}
		_, err := user.DeleteAUser(tx, targetUser.ID)
		return err
	})
	if err != nil {
		errList = formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  errList,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "User deleted",
	})
}

// GetUserPosts godoc
// @Summary A user's public posts
// @Tags users
// @Produce json
// @Param id path string true "Public ID or username"
// @Success 200 {object} map[string]interface{}
// @Router /users/{id}/posts [get]
func (server *Server) GetUserPosts(c *gin.Context) {
	targetUser, err := server.resolveUserByIdentifier(c.Param("id"))
	if err != nil {
		errList := map[string]string{"No_user": "No User Found"}
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	post := models.Post{}
	posts, err := post.FindUserPosts(server.DB, targetUser.ID, parseLimit(c), parseOffset(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	dtos, err := postsToDTOs(server.DB, *posts, optionalViewerID(c))
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
