package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNotificationForSelf(t *testing.T) {
	server := newTestServer(t)
	account := registerAccount(t, server, "subscriber")

	recorder, envelope := performRequest(t, server, http.MethodPost, "/api/v1/notifications", account.Token, map[string]interface{}{
		"type":    "like",
		"title":   "Reminder",
		"message": "Write your daily entry",
		"data":    map[string]interface{}{"source": "self"},
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var notification NotificationDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &notification))
	assert.Equal(t, "Reminder", notification.Title)
	assert.Equal(t, "normal", notification.Priority)
	assert.Equal(t, "in_app", notification.Channel)
	assert.Nil(t, notification.ReadAt)
}

func TestCreateNotificationForOtherForbidden(t *testing.T) {
	server := newTestServer(t)
	account := registerAccount(t, server, "sender")
	target := registerAccount(t, server, "target")

	recorder, _ := performRequest(t, server, http.MethodPost, "/api/v1/notifications", account.Token, map[string]interface{}{
		"user_id": target.User.ID,
		"type":    "like",
		"title":   "Spam",
		"message": "unsolicited",
	})
	assert.Equal(t, http.StatusForbidden, recorder.Code, recorder.Body.String())
}

func TestCreateNotificationValidation(t *testing.T) {
	server := newTestServer(t)
	account := registerAccount(t, server, "subscriber")

	recorder, _ := performRequest(t, server, http.MethodPost, "/api/v1/notifications", account.Token, map[string]interface{}{
		"type": "like",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestMarkNotificationRead(t *testing.T) {
	server := newTestServer(t)
	account := registerAccount(t, server, "subscriber")
	other := registerAccount(t, server, "other")

	recorder, envelope := performRequest(t, server, http.MethodPost, "/api/v1/notifications", account.Token, map[string]interface{}{
		"type":    "like",
		"title":   "Reminder",
		"message": "Write your daily entry",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var notification NotificationDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &notification))

	// Someone else cannot touch it.
	recorder, _ = performRequest(t, server, http.MethodPatch, "/api/v1/notifications/"+notification.ID+"/read", other.Token, nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder, envelope = performRequest(t, server, http.MethodPatch, "/api/v1/notifications/"+notification.ID+"/read", account.Token, nil)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var read NotificationDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &read))
	assert.NotNil(t, read.ReadAt)

	// The unread listing no longer includes it.
	recorder, envelope = performRequest(t, server, http.MethodGet, "/api/v1/notifications?unread=true", account.Token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var unread []NotificationDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &unread))
	assert.Empty(t, unread)

	// The full listing still does.
	recorder, envelope = performRequest(t, server, http.MethodGet, "/api/v1/notifications", account.Token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var all []NotificationDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &all))
	assert.Len(t, all, 1)
}

func TestNotificationsAreScopedToViewer(t *testing.T) {
	server := newTestServer(t)
	alice := registerAccount(t, server, "alice")
	bob := registerAccount(t, server, "bob")

	recorder, _ := performRequest(t, server, http.MethodPost, "/api/v1/notifications", alice.Token, map[string]interface{}{
		"type":    "like",
		"title":   "Private",
		"message": "for alice only",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder, envelope := performRequest(t, server, http.MethodGet, "/api/v1/notifications", bob.Token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var notifications []NotificationDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &notifications))
	assert.Empty(t, notifications)
}
