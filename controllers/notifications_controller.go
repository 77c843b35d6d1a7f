package controllers

import (
	"encoding/json"
	"net/http"

	"Daybook/models"
	"Daybook/utils/formaterror"
	"Daybook/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// CreateNotification godoc
// @Summary Record an in-app notification for yourself
// @Description Users may only create notifications addressed to themselves
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /notifications [post]
func (server *Server) CreateNotification(c *gin.Context) {
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
		UserID   string                 `json:"user_id"`
		Type     string                 `json:"type"`
		Priority string                 `json:"priority"`
		Title    string                 `json:"title"`
		Message  string                 `json:"message"`
		Data     map[string]interface{} `json:"data"`
	}{}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	targetID := uid
	if requestBody.UserID != "" {
		targetUser, err := server.resolveUserByIdentifier(requestBody.UserID)
		if err != nil {
			errList["No_user"] = "No User Found"
			c.JSON(http.StatusNotFound, gin.H{
				"status": http.StatusNotFound,
				"error":  errList,
			})
			return
		}
		if targetUser.ID != uid && !httpctx.IsAdminRequest(c) {
			errList["Unauthorized"] = "You can only create notifications for yourself"
			c.JSON(http.StatusForbidden, gin.H{
				"status": http.StatusForbidden,
				"error":  errList,
			})
			return
		}
		targetID = targetUser.ID
	}

	notification := models.Notification{
		UserID:   targetID,
		Type:     requestBody.Type,
		Priority: requestBody.Priority,
		Title:    requestBody.Title,
		Message:  requestBody.Message,
	}
	if requestBody.Data != nil {
		raw, err := jsonMarshalData(requestBody.Data)
		if err != nil {
			errList["Invalid_data"] = "Notification data must be a JSON object"
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": http.StatusUnprocessableEntity,
				"error":  errList,
			})
			return
		}
		notification.Data = raw
	}

	errorMessages := notification.Validate()
	if len(errorMessages) > 0 {
		errList = errorMessages
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	notificationCreated, err := notification.SaveNotification(server.DB)
	if err != nil {
		errList = formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  errList,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": notificationToDTO(notificationCreated),
	})
}

// GetNotifications godoc
// @Summary The viewer's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread notifications"
// @Success 200 {object} map[string]interface{}
// @Router /notifications [get]
func (server *Server) GetNotifications(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"error":  map[string]string{"Unauthorized": "Unauthorized"},
		})
		return
	}

	unreadOnly := c.Query("unread") == "true"

	notification := models.Notification{}
	notifications, err := notification.FindUserNotifications(server.DB, uid, unreadOnly, parseLimit(c), parseOffset(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	dtos := make([]NotificationDTO, len(*notifications))
	for i := range *notifications {
		dtos[i] = notificationToDTO(&(*notifications)[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": dtos,
	})
}

// MarkNotificationRead godoc
// @Summary Mark one of the viewer's notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification public ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /notifications/{id}/read [patch]
func (server *Server) MarkNotificationRead(c *gin.Context) {
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

	var notification models.Notification
	err := server.DB.Where("public_id = ? AND user_id = ?", c.Param("id"), uid).
		Take(&notification).Error
	if err != nil {
		errList["No_notification"] = "No Notification Found"
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	if _, err := notification.MarkRead(server.DB, notification.ID, uid); err != nil {
		errList = formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  errList,
		})
		return
	}

	err = server.DB.Where("id = ?", notification.ID).Take(&notification).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": notificationToDTO(&notification),
	})
}

func jsonMarshalData(data map[string]interface{}) (datatypes.JSON, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
