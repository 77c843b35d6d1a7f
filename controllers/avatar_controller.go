package controllers

import (
	"context"
	"net/http"
	"os"
	"time"

	"Daybook/models"
	"Daybook/utils/fileformat"
	"Daybook/utils/formaterror"
	"Daybook/utils/httpctx"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
)

const maxAvatarSize = 6 << 20 // 6 MB

// UpdateAvatar godoc
// @Summary Upload a profile avatar
// @Description Stores the image on S3 and records the key on the profile
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Public ID or username"
// @Param file formData file true "Avatar image"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /users/{id}/avatar [put]
func (server *Server) UpdateAvatar(c *gin.Context) {
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

	file, err := c.FormFile("file")
	if err != nil {
		errList["Invalid_file"] = "Please provide a valid file"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}
	if file.Size > maxAvatarSize {
		errList["Too_large"] = "Sorry, please upload an image less than 6MB"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	f, err := file.Open()
	if err != nil {
		errList["Invalid_file"] = "Please provide a valid file"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}
	defer f.Close()

	buffer := make([]byte, 512)
	n, _ := f.Read(buffer)
	contentType := http.DetectContentType(buffer[:n])
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/gif" {
		errList["Not_image"] = "Please upload a valid image"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}
	if _, err := f.Seek(0, 0); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  map[string]string{"Read_error": "Could not read the uploaded file"},
		})
		return
	}

	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		errList["Not_configured"] = "Avatar uploads are not configured"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": http.StatusServiceUnavailable,
			"error":  errList,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  map[string]string{"Upload_error": "Could not upload the image"},
		})
		return
	}

	key := "UserAvatars/" + fileformat.UniqueFormat(file.Filename)
	client := s3.NewFromConfig(cfg)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(file.Size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  map[string]string{"Upload_error": "Could not upload the image"},
		})
		return
	}

	user := models.User{AvatarPath: key}
	updatedUser, err := user.UpdateAUserAvatar(server.DB, uid)
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
		"response": userToDTO(updatedUser),
	})
}
