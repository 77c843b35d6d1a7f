package controllers

import (
	"errors"
	"log"
	"net/http"

	"Daybook/auth"
	"Daybook/mailer"
	"Daybook/models"
	"Daybook/security"
	"Daybook/utils/formaterror"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Login godoc
// @Summary Authenticate a user
// @Description Exchanges email and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.User true "Email and password"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /login [post]
func (server *Server) Login(c *gin.Context) {
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
	errorMessages := user.Validate("login")
	if len(errorMessages) > 0 {
		errList = errorMessages
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	userData, err := server.signIn(user.Email, user.Password)
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		errList = formattedError
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": userData,
	})
}

func (server *Server) signIn(email, password string) (map[string]interface{}, error) {
	userData := make(map[string]interface{})

	user := models.User{}
	err := server.DB.Where("lower(email) = ?", email).Take(&user).Error
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, errors.New("record not found")
	}

	err = security.VerifyPassword(user.Password, password)
	if err != nil && errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, errors.New("hashedPassword mismatch")
	}
	if err != nil {
		return nil, err
	}

	token, err := auth.CreateToken(user.ID)
	if err != nil {
		return nil, err
	}

	userData["token"] = token
	userData["user"] = userToDTO(&user)
	return userData, nil
}

// ForgotPassword godoc
// @Summary Request a password reset
// @Description Emails a single-use reset token to the account address
// @Tags auth
// @Accept json
// @Produce json
// @Param email body models.User true "Account email"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /password/forgot [post]
func (server *Server) ForgotPassword(c *gin.Context) {
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
	errorMessages := user.Validate("forgotpassword")
	if len(errorMessages) > 0 {
		errList = errorMessages
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	err := server.DB.Where("lower(email) = ?", user.Email).Take(&user).Error
	if err != nil {
		errList["No_email"] = "Sorry, we do not recognize this email"
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  errList,
		})
		return
	}

	resetPassword := models.ResetPassword{Email: user.Email}
	resetPassword.Prepare()

	details, err := resetPassword.SaveDetails(server.DB)
	if err != nil {
		errList = formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  errList,
		})
		return
	}

	err = mailer.SendResetPassword(details.Email, details.Token)
	if err != nil && !errors.Is(err, mailer.ErrNotConfigured) {
		errList["Mail_error"] = "Could not send the reset email, please try again later"
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  errList,
		})
		return
	}
	if errors.Is(err, mailer.ErrNotConfigured) {
		log.Println("reset mail skipped: mailer not configured")
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Success, please check your email to reset your password",
	})
}

// ResetPassword godoc
// @Summary Complete a password reset
// @Description Verifies a reset token and stores the new password
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /password/reset [post]
func (server *Server) ResetPassword(c *gin.Context) {
	errList := map[string]string{}

	requestBody := struct {
		Token          string `json:"token"`
		NewPassword    string `json:"new_password"`
		RetypePassword string `json:"retype_password"`
	}{}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		errList["Unmarshal_error"] = "Cannot unmarshal body"
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	if requestBody.Token == "" {
		errList["Required_token"] = "Reset token is required"
	}
	if requestBody.NewPassword == "" || requestBody.RetypePassword == "" {
		errList["Required_password"] = "Required Password"
	}
	if len(requestBody.NewPassword) < 6 && requestBody.NewPassword != "" {
		errList["Invalid_password"] = "Password should be at least 6 characters"
	}
	if requestBody.NewPassword != requestBody.RetypePassword {
		errList["Password_unequal"] = "Passwords provided do not match"
	}
	if len(errList) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	resetPassword := models.ResetPassword{}
	details, err := resetPassword.FindDetails(server.DB, requestBody.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errList["Invalid_token"] = "Invalid or expired reset token"
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": http.StatusUnprocessableEntity,
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

	user := models.User{Email: details.Email, Password: requestBody.NewPassword}
	if err := user.UpdatePassword(server.DB); err != nil {
		errList = formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  errList,
		})
		return
	}

	// Token is single use.
	if _, err := details.DeleteDetails(server.DB); err != nil {
		log.Printf("could not delete used reset token: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Success, your password was updated",
	})
}
