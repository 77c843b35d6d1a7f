package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createComment(t *testing.T, server *Server, account testAccount, postID string, body map[string]interface{}) CommentDTO {
	t.Helper()

	recorder, envelope := performRequest(t, server, http.MethodPost, "/api/v1/posts/"+postID+"/comments", account.Token, body)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var comment CommentDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &comment))
	require.NotEmpty(t, comment.ID)
	return comment
}

func TestCreateComment(t *testing.T) {
	server := newTestServer(t)
	author := registerAccount(t, server, "author")
	reader := registerAccount(t, server, "reader")
	post := createPost(t, server, author, map[string]interface{}{"content": "discuss"})

	comment := createComment(t, server, reader, post.ID, map[string]interface{}{"body": "well said"})
	assert.Equal(t, "well said", comment.Body)
	assert.Equal(t, "reader", comment.Author.Username)
	assert.Nil(t, comment.ParentID)
}

func TestCommentValidation(t *testing.T) {
	server := newTestServer(t)
	author := registerAccount(t, server, "author")
	post := createPost(t, server, author, map[string]interface{}{"content": "discuss"})

	recorder, _ := performRequest(t, server, http.MethodPost, "/api/v1/posts/"+post.ID+"/comments", author.Token, map[string]interface{}{
		"body": "",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestReplyToComment(t *testing.T) {
	server := newTestServer(t)
	author := registerAccount(t, server, "author")
	reader := registerAccount(t, server, "reader")
	post := createPost(t, server, author, map[string]interface{}{"content": "discuss"})

	parent := createComment(t, server, reader, post.ID, map[string]interface{}{"body": "top level"})
	reply := createComment(t, server, author, post.ID, map[string]interface{}{
		"body":      "a reply",
		"parent_id": parent.ID,
	})

	require.NotNil(t, reply.ParentID)
	assert.Equal(t, parent.ID, *reply.ParentID)
}

func TestReplyToReplyRejected(t *testing.T) {
	server := newTestServer(t)
	author := registerAccount(t, server, "author")
	post := createPost(t, server, author, map[string]interface{}{"content": "discuss"})

	parent := createComment(t, server, author, post.ID, map[string]interface{}{"body": "top level"})
	reply := createComment(t, server, author, post.ID, map[string]interface{}{
		"body":      "first reply",
		"parent_id": parent.ID,
	})

	recorder, _ := performRequest(t, server, http.MethodPost, "/api/v1/posts/"+post.ID+"/comments", author.Token, map[string]interface{}{
		"body":      "too deep",
		"parent_id": reply.ID,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code, recorder.Body.String())
}

func TestCrossPostReplyRejected(t *testing.T) {
	server := newTestServer(t)
	author := registerAccount(t, server, "author")
	first := createPost(t, server, author, map[string]interface{}{"content": "one"})
	second := createPost(t, server, author, map[string]interface{}{"content": "two"})

	parent := createComment(t, server, author, first.ID, map[string]interface{}{"body": "on the first"})

	recorder, _ := performRequest(t, server, http.MethodPost, "/api/v1/posts/"+second.ID+"/comments", author.Token, map[string]interface{}{
		"body":      "wrong thread",
		"parent_id": parent.ID,
	})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCommentListingAndReplies(t *testing.T) {
	server := newTestServer(t)
	author := registerAccount(t, server, "author")
	reader := registerAccount(t, server, "reader")
	post := createPost(t, server, author, map[string]interface{}{"content": "discuss"})

	first := createComment(t, server, reader, post.ID, map[string]interface{}{"body": "first thread"})
	second := createComment(t, server, reader, post.ID, map[string]interface{}{"body": "second thread"})
	createComment(t, server, author, post.ID, map[string]interface{}{"body": "reply a", "parent_id": first.ID})
	createComment(t, server, reader, post.ID, map[string]interface{}{"body": "reply b", "parent_id": first.ID})

	recorder, envelope := performRequest(t, server, http.MethodGet, "/api/v1/posts/"+post.ID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var comments []CommentDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &comments))
	require.Len(t, comments, 2, "replies do not appear at the top level")
	// Top level is newest first.
	assert.Equal(t, second.ID, comments[0].ID)
	assert.Equal(t, first.ID, comments[1].ID)
	assert.EqualValues(t, 2, comments[1].RepliesCount)
	assert.EqualValues(t, 0, comments[0].RepliesCount)

	recorder, envelope = performRequest(t, server, http.MethodGet, "/api/v1/comments/"+first.ID+"/replies", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var replies []CommentDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &replies))
	require.Len(t, replies, 2)
	// Replies read oldest first.
	assert.Equal(t, "reply a", replies[0].Body)
	assert.Equal(t, "reply b", replies[1].Body)
}

func TestUpdateCommentOwnerOnly(t *testing.T) {
	server := newTestServer(t)
	author := registerAccount(t, server, "author")
	other := registerAccount(t, server, "other")
	post := createPost(t, server, author, map[string]interface{}{"content": "discuss"})
	comment := createComment(t, server, author, post.ID, map[string]interface{}{"body": "original"})

	recorder, _ := performRequest(t, server, http.MethodPut, "/api/v1/comments/"+comment.ID, other.Token, map[string]interface{}{
		"body": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder, envelope := performRequest(t, server, http.MethodPut, "/api/v1/comments/"+comment.ID, author.Token, map[string]interface{}{
		"body": "edited",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var updated CommentDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &updated))
	assert.Equal(t, "edited", updated.Body)
}

func TestDeleteCommentRemovesReplies(t *testing.T) {
	server := newTestServer(t)
	author := registerAccount(t, server, "author")
	reader := registerAccount(t, server, "reader")
	post := createPost(t, server, author, map[string]interface{}{"content": "discuss"})

	parent := createComment(t, server, reader, post.ID, map[string]interface{}{"body": "thread"})
	createComment(t, server, author, post.ID, map[string]interface{}{"body": "reply", "parent_id": parent.ID})

	recorder, _ := performRequest(t, server, http.MethodDelete, "/api/v1/comments/"+parent.ID, reader.Token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder, envelope := performRequest(t, server, http.MethodGet, "/api/v1/posts/"+post.ID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var comments []CommentDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &comments))
	assert.Empty(t, comments)
}
