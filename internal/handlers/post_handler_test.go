package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialty-api/internal/database"
	"socialty-api/internal/models"
	"socialty-api/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func postRouter() *gin.Engine {
	return protected(func(g gin.IRoutes) {
		g.POST("/api/posts", CreatePost)
		g.GET("/api/posts", GetPosts)
		g.GET("/api/posts/user/:id", GetUserPosts)
		g.POST("/api/posts/:id/like", LikePost)
		g.POST("/api/posts/:id/comment", CommentPost)
		g.DELETE("/api/posts/:id", DeletePost)
	})
}

func seedPost(t *testing.T, id, userID string) {
	t.Helper()
	post := models.Post{ID: id, UserID: userID, Media: "/uploads/m.png", Likes: models.StringList{}}
	require.NoError(t, database.DB.Create(&post).Error)
}

func TestCreatePost_Multipart(t *testing.T) {
	setupTestDB(t)
	uploader, err := storage.NewDiskUploader(t.TempDir())
	require.NoError(t, err)
	Uploads = uploader
	defer func() { Uploads = nil }()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("media", "pic.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake png bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("caption", "hello world"))
	require.NoError(t, mw.Close())

	r := postRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/posts", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "u-1", "alice"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "u-1", created.UserID)
	require.Equal(t, "hello world", created.Caption)
	require.Contains(t, created.Media, "/uploads/")
}

func TestCreatePost_MissingMedia(t *testing.T) {
	setupTestDB(t)
	r := postRouter()

	w := doJSON(t, r, http.MethodPost, "/api/posts", tokenFor(t, "u-1", "alice"), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLikePost_Toggle(t *testing.T) {
	setupTestDB(t)
	seedPost(t, "p-1", "u-1")
	r := postRouter()
	bob := tokenFor(t, "u-2", "bob")

	w := doJSON(t, r, http.MethodPost, "/api/posts/p-1/like", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var liked models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &liked))
	require.Equal(t, models.StringList{"u-2"}, liked.Likes)

	w = doJSON(t, r, http.MethodPost, "/api/posts/p-1/like", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &liked))
	require.Empty(t, liked.Likes)
}

func TestCommentPost(t *testing.T) {
	setupTestDB(t)
	seedPost(t, "p-1", "u-1")
	r := postRouter()

	body, _ := json.Marshal(map[string]string{"comment": "nice shot"})
	w := doJSON(t, r, http.MethodPost, "/api/posts/p-1/comment", tokenFor(t, "u-2", "bob"), bytes.NewReader(body))
	require.Equal(t, http.StatusOK, w.Code)

	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	require.Len(t, post.Comments, 1)
	require.Equal(t, "nice shot", post.Comments[0].Body)
	require.Equal(t, "u-2", post.Comments[0].UserID)
}

func TestDeletePost_OwnerOnly(t *testing.T) {
	setupTestDB(t)
	seedPost(t, "p-1", "u-1")
	r := postRouter()

	w := doJSON(t, r, http.MethodDelete, "/api/posts/p-1", tokenFor(t, "u-2", "bob"), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/posts/p-1", tokenFor(t, "u-1", "alice"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/posts/p-1", tokenFor(t, "u-1", "alice"), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPosts_FeedScopedToFollowGraph(t *testing.T) {
	setupTestDB(t)
	seedPost(t, "p-own", "u-1")
	seedPost(t, "p-other", "u-2")
	r := postRouter()

	// not following anyone: feed holds only own post
	w := doJSON(t, r, http.MethodGet, "/api/posts", tokenFor(t, "u-1", "alice"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var feed []models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed, 1)
	require.Equal(t, "p-own", feed[0].ID)

	require.NoError(t, database.DB.Create(&models.Follow{FollowerID: "u-1", FolloweeID: "u-2"}).Error)
	w = doJSON(t, r, http.MethodGet, "/api/posts", tokenFor(t, "u-1", "alice"), nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed, 2)
}
