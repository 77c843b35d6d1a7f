package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"Daybook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowUser(t *testing.T) {
	server := newTestServer(t)
	alice := registerAccount(t, server, "alice")
	bob := registerAccount(t, server, "bob")

	recorder, envelope := performRequest(t, server, http.MethodPost, "/api/v1/users/"+bob.User.ID+"/follow", alice.Token, nil)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var profile UserProfileDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &profile))
	assert.EqualValues(t, 1, profile.FollowersCount)
	require.NotNil(t, profile.IsFollowing)
	assert.True(t, *profile.IsFollowing)
}

func TestFollowUserTwiceConflicts(t *testing.T) {
	server := newTestServer(t)
	alice := registerAccount(t, server, "alice")
	bob := registerAccount(t, server, "bob")

	recorder, _ := performRequest(t, server, http.MethodPost, "/api/v1/users/"+bob.User.ID+"/follow", alice.Token, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder, _ = performRequest(t, server, http.MethodPost, "/api/v1/users/"+bob.User.ID+"/follow", alice.Token, nil)
	assert.Equal(t, http.StatusConflict, recorder.Code, recorder.Body.String())

	var count int64
	require.NoError(t, server.DB.Model(&models.Follow{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFollowYourself(t *testing.T) {
	server := newTestServer(t)
	alice := registerAccount(t, server, "alice")

	recorder, _ := performRequest(t, server, http.MethodPost, "/api/v1/users/"+alice.User.ID+"/follow", alice.Token, nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code, recorder.Body.String())

	var count int64
	require.NoError(t, server.DB.Model(&models.Follow{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestUnfollowUser(t *testing.T) {
	server := newTestServer(t)
	alice := registerAccount(t, server, "alice")
	bob := registerAccount(t, server, "bob")

	recorder, _ := performRequest(t, server, http.MethodPost, "/api/v1/users/"+bob.User.ID+"/follow", alice.Token, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder, envelope := performRequest(t, server, http.MethodDelete, "/api/v1/users/"+bob.User.ID+"/follow", alice.Token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var profile UserProfileDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &profile))
	assert.EqualValues(t, 0, profile.FollowersCount)

	// Unfollowing again has no edge to remove.
	recorder, _ = performRequest(t, server, http.MethodDelete, "/api/v1/users/"+bob.User.ID+"/follow", alice.Token, nil)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestFollowCreatesNotification(t *testing.T) {
	server := newTestServer(t)
	alice := registerAccount(t, server, "alice")
	bob := registerAccount(t, server, "bob")

	recorder, _ := performRequest(t, server, http.MethodPost, "/api/v1/users/"+bob.User.ID+"/follow", alice.Token, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder, envelope := performRequest(t, server, http.MethodGet, "/api/v1/notifications?unread=true", bob.Token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var notifications []NotificationDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &notifications))
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeFollow, notifications[0].Type)
	assert.Contains(t, notifications[0].Message, "alice")
}

func TestFollowerAndFollowingListings(t *testing.T) {
	server := newTestServer(t)
	alice := registerAccount(t, server, "alice")
	bob := registerAccount(t, server, "bob")
	carol := registerAccount(t, server, "carol")

	for _, follower := range []testAccount{alice, carol} {
		recorder, _ := performRequest(t, server, http.MethodPost, "/api/v1/users/"+bob.User.ID+"/follow", follower.Token, nil)
		require.Equal(t, http.StatusCreated, recorder.Code)
	}

	recorder, envelope := performRequest(t, server, http.MethodGet, "/api/v1/users/"+bob.User.ID+"/followers", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var followers []FollowUserDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &followers))
	require.Len(t, followers, 2)
	// Most recent edge first.
	assert.Equal(t, "carol", followers[0].Username)
	assert.Equal(t, "alice", followers[1].Username)

	recorder, envelope = performRequest(t, server, http.MethodGet, "/api/v1/users/"+alice.User.ID+"/following", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var following []FollowUserDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &following))
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].Username)
}

func TestGetRelationship(t *testing.T) {
	server := newTestServer(t)
	alice := registerAccount(t, server, "alice")
	bob := registerAccount(t, server, "bob")

	recorder, _ := performRequest(t, server, http.MethodPost, "/api/v1/users/"+bob.User.ID+"/follow", alice.Token, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder, envelope := performRequest(t, server, http.MethodGet, "/api/v1/users/"+bob.User.ID+"/relationship", alice.Token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var relationship RelationshipDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &relationship))
	assert.True(t, relationship.Following)
	assert.False(t, relationship.FollowedBy)
	assert.False(t, relationship.Mutual)

	recorder, _ = performRequest(t, server, http.MethodPost, "/api/v1/users/"+alice.User.ID+"/follow", bob.Token, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder, envelope = performRequest(t, server, http.MethodGet, "/api/v1/users/"+bob.User.ID+"/relationship", alice.Token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(envelope.Response, &relationship))
	assert.True(t, relationship.Mutual)
}
