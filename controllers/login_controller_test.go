package controllers

import (
	"net/http"
	"testing"

	"Daybook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForgotPasswordUnknownEmail(t *testing.T) {
	server := newTestServer(t)

	recorder, _ := performRequest(t, server, http.MethodPost, "/api/v1/password/forgot", "", map[string]interface{}{
		"email": "nobody@example.com",
	})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	server := newTestServer(t)
	registerAccount(t, server, "forgetful")

	// With no mail provider configured the send is skipped, but the token is
	// still recorded.
	recorder, _ := performRequest(t, server, http.MethodPost, "/api/v1/password/forgot", "", map[string]interface{}{
		"email": "forgetful@example.com",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var details models.ResetPassword
	require.NoError(t, server.DB.Where("email = ?", "forgetful@example.com").Take(&details).Error)
	require.NotEmpty(t, details.Token)

	recorder, _ = performRequest(t, server, http.MethodPost, "/api/v1/password/reset", "", map[string]interface{}{
		"token":           details.Token,
		"new_password":    "freshpassword",
		"retype_password": "mismatch",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	recorder, _ = performRequest(t, server, http.MethodPost, "/api/v1/password/reset", "", map[string]interface{}{
		"token":           details.Token,
		"new_password":    "freshpassword",
		"retype_password": "freshpassword",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	// Old password no longer works, the new one does.
	recorder, _ = performRequest(t, server, http.MethodPost, "/api/v1/login", "", map[string]interface{}{
		"email":    "forgetful@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	recorder, _ = performRequest(t, server, http.MethodPost, "/api/v1/login", "", map[string]interface{}{
		"email":    "forgetful@example.com",
		"password": "freshpassword",
	})
	assert.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	// The token was single use.
	recorder, _ = performRequest(t, server, http.MethodPost, "/api/v1/password/reset", "", map[string]interface{}{
		"token":           details.Token,
		"new_password":    "anotherpassword",
		"retype_password": "anotherpassword",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}
