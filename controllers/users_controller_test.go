package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"Daybook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUser(t *testing.T) {
	server := newTestServer(t)
	account := registerAccount(t, server, "newcomer")

	assert.Equal(t, "newcomer", account.User.Username)
	assert.Equal(t, "newcomer@example.com", account.User.Email)
	assert.False(t, account.User.IsAdmin)
}

func TestRegisterValidation(t *testing.T) {
	server := newTestServer(t)

	recorder, _ := performRequest(t, server, http.MethodPost, "/api/v1/users", "", map[string]interface{}{
		"username": "shorty",
		"email":    "shorty@example.com",
		"password": "123",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	recorder, _ = performRequest(t, server, http.MethodPost, "/api/v1/users", "", map[string]interface{}{
		"username": "noemail",
		"email":    "not-an-email",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	server := newTestServer(t)
	registerAccount(t, server, "original")

	recorder, _ := performRequest(t, server, http.MethodPost, "/api/v1/users", "", map[string]interface{}{
		"username": "impostor",
		"email":    "original@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, recorder.Code, recorder.Body.String())
}

func TestLogin(t *testing.T) {
	server := newTestServer(t)
	registerAccount(t, server, "casey")

	recorder, envelope := performRequest(t, server, http.MethodPost, "/api/v1/login", "", map[string]interface{}{
		"email":    "casey@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var response struct {
		Token string  `json:"token"`
		User  UserDTO `json:"user"`
	}
	require.NoError(t, json.Unmarshal(envelope.Response, &response))
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, "casey", response.User.Username)

	recorder, _ = performRequest(t, server, http.MethodPost, "/api/v1/login", "", map[string]interface{}{
		"email":    "casey@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestGetMe(t *testing.T) {
	server := newTestServer(t)
	account := registerAccount(t, server, "me")

	recorder, envelope := performRequest(t, server, http.MethodGet, "/api/v1/users/me", account.Token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var profile UserProfileDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &profile))
	assert.Equal(t, account.User.ID, profile.ID)
	assert.Nil(t, profile.IsFollowing, "no follow flag against yourself")

	recorder, _ = performRequest(t, server, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestGetUserProfileCounts(t *testing.T) {
	server := newTestServer(t)
	alice := registerAccount(t, server, "alice")
	bob := registerAccount(t, server, "bob")

	createPost(t, server, bob, map[string]interface{}{"content": "entry one"})
	createPost(t, server, bob, map[string]interface{}{"content": "entry two"})

	recorder, _ := performRequest(t, server, http.MethodPost, "/api/v1/users/"+bob.User.ID+"/follow", alice.Token, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	// Profile by username works the same as by public ID.
	recorder, envelope := performRequest(t, server, http.MethodGet, "/api/v1/users/bob", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var profile UserProfileDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &profile))
	assert.EqualValues(t, 2, profile.PostsCount)
	assert.EqualValues(t, 1, profile.FollowersCount)
	assert.EqualValues(t, 0, profile.FollowingCount)
	assert.Nil(t, profile.IsFollowing, "anonymous viewers get no follow flag")

	recorder, envelope = performRequest(t, server, http.MethodGet, "/api/v1/users/"+bob.User.ID, alice.Token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(envelope.Response, &profile))
	require.NotNil(t, profile.IsFollowing)
	assert.True(t, *profile.IsFollowing)
}

func TestSearchUsers(t *testing.T) {
	server := newTestServer(t)
	registerAccount(t, server, "annika")
	registerAccount(t, server, "anna")
	registerAccount(t, server, "bert")

	recorder, envelope := performRequest(t, server, http.MethodGet, "/api/v1/users/search?q=ann", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var results []UserSummaryDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &results))
	require.Len(t, results, 2)

	recorder, _ = performRequest(t, server, http.MethodGet, "/api/v1/users/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUpdateUserOwnerOnly(t *testing.T) {
	server := newTestServer(t)
	owner := registerAccount(t, server, "owner")
	other := registerAccount(t, server, "other")

	recorder, _ := performRequest(t, server, http.MethodPut, "/api/v1/users/"+owner.User.ID, other.Token, map[string]interface{}{
		"bio": "not yours",
	})
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder, envelope := performRequest(t, server, http.MethodPut, "/api/v1/users/"+owner.User.ID, owner.Token, map[string]interface{}{
		"full_name": "The Owner",
		"bio":       "keeping a daybook",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var updated UserDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &updated))
	assert.Equal(t, "The Owner", updated.FullName)
	assert.Equal(t, "keeping a daybook", updated.Bio)
}

func TestUpdatePasswordRequiresCurrent(t *testing.T) {
	server := newTestServer(t)
	owner := registerAccount(t, server, "owner")

	recorder, _ := performRequest(t, server, http.MethodPut, "/api/v1/users/"+owner.User.ID, owner.Token, map[string]interface{}{
		"new_password": "differentpass",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	recorder, _ = performRequest(t, server, http.MethodPut, "/api/v1/users/"+owner.User.ID, owner.Token, map[string]interface{}{
		"current_password": "wrongpass",
		"new_password":     "differentpass",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	recorder, _ = performRequest(t, server, http.MethodPut, "/api/v1/users/"+owner.User.ID, owner.Token, map[string]interface{}{
		"current_password": "password123",
		"new_password":     "differentpass",
	})
	assert.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
}

func TestDeleteUserCascades(t *testing.T) {
	server := newTestServer(t)
	leaver := registerAccount(t, server, "leaver")
	friend := registerAccount(t, server, "friend")

	post := createPost(t, server, leaver, map[string]interface{}{"content": "goodbye"})

	recorder, _ := performRequest(t, server, http.MethodPost, "/api/v1/posts/"+post.ID+"/like", friend.Token, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)
	recorder, _ = performRequest(t, server, http.MethodPost, "/api/v1/posts/"+post.ID+"/comments", friend.Token, map[string]interface{}{
		"body": "see you",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	recorder, _ = performRequest(t, server, http.MethodPost, "/api/v1/users/"+leaver.User.ID+"/follow", friend.Token, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder, _ = performRequest(t, server, http.MethodDelete, "/api/v1/users/"+leaver.User.ID, friend.Token, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code, "only the owner can delete the account")

	recorder, _ = performRequest(t, server, http.MethodDelete, "/api/v1/users/"+leaver.User.ID, leaver.Token, nil)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var posts, likes, comments, follows, notifications int64
	require.NoError(t, server.DB.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, server.DB.Model(&models.Like{}).Count(&likes).Error)
	require.NoError(t, server.DB.Model(&models.Comment{}).Count(&comments).Error)
	require.NoError(t, server.DB.Model(&models.Follow{}).Count(&follows).Error)
	require.NoError(t, server.DB.Model(&models.Notification{}).Count(&notifications).Error)
	assert.Zero(t, posts)
	assert.Zero(t, likes)
	assert.Zero(t, comments)
	assert.Zero(t, follows)
	assert.Zero(t, notifications)

	// The deleted user's token no longer authenticates.
	recorder, _ = performRequest(t, server, http.MethodGet, "/api/v1/users/me", leaver.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
