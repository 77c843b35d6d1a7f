package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"Daybook/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("API_SECRET", "integration-test-secret")
	os.Exit(m.Run())
}

// newTestServer builds a server on a fresh in-memory database with the full
// route table mounted.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.Notification{},
		&models.ResetPassword{},
	)
	require.NoError(t, err)

	server := &Server{DB: db, Router: gin.New()}
	server.initializeRoutes()
	return server
}

type apiEnvelope struct {
	Status   int             `json:"status"`
	Response json.RawMessage `json:"response"`
	Error    json.RawMessage `json:"error"`
}

func performRequest(t *testing.T, server *Server, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	server.Router.ServeHTTP(recorder, req)

	var envelope apiEnvelope
	if recorder.Body.Len() > 0 {
		_ = json.Unmarshal(recorder.Body.Bytes(), &envelope)
	}
	return recorder, envelope
}

type testAccount struct {
	Token string
	User  UserDTO
}

// registerAccount creates an account through the public endpoint and returns
// the issued token together with the public profile.
func registerAccount(t *testing.T, server *Server, username string) testAccount {
	t.Helper()

	recorder, envelope := performRequest(t, server, http.MethodPost, "/api/v1/users", "", map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, "register %s: %s", username, recorder.Body.String())

	var created struct {
		Token string  `json:"token"`
		User  UserDTO `json:"user"`
	}
	require.NoError(t, json.Unmarshal(envelope.Response, &created))
	require.NotEmpty(t, created.Token)
	require.NotEmpty(t, created.User.ID)

	return testAccount{Token: created.Token, User: created.User}
}

// createPost publishes a post for the given account and returns its DTO.
func createPost(t *testing.T, server *Server, account testAccount, body map[string]interface{}) PostDTO {
	t.Helper()

	recorder, envelope := performRequest(t, server, http.MethodPost, "/api/v1/posts", account.Token, body)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var post PostDTO
	require.NoError(t, json.Unmarshal(envelope.Response, &post))
	require.NotEmpty(t, post.ID)
	return post
}
