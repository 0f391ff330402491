package handlers

import (
	"net/http"

	"socialty-api/internal/database"
	"socialty-api/internal/post"
	"socialty-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

// CreatePost handles POST /api/posts. Multipart form with a media file and an
// optional caption.
func CreatePost(c *gin.Context) {
	file, err := c.FormFile("media")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A post needs a media attachment"})
		return
	}
	if Uploads == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	mediaURL, err := Uploads.Upload(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store media"})
		return
	}

	svc := post.NewService(database.GetDB())
	created, err := svc.Create(currentUserID(c), mediaURL, c.PostForm("caption"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetPosts handles GET /api/posts. The caller's feed.
func GetPosts(c *gin.Context) {
	svc := post.NewService(database.GetDB())
	posts, err := svc.Feed(currentUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetUserPosts handles GET /api/posts/user/:id
func GetUserPosts(c *gin.Context) {
	svc := post.NewService(database.GetDB())
	posts, err := svc.ByUser(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// LikePost handles POST /api/posts/:id/like
func LikePost(c *gin.Context) {
	svc := post.NewService(database.GetDB())
	liked, events, err := svc.Like(c.Param("id"), currentUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	realtime.GetHub().Router().Deliver(events...)
	c.JSON(http.StatusOK, liked)
}

// CommentPostRequest is the comment payload.
type CommentPostRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// CommentPost handles POST /api/posts/:id/comment
func CommentPost(c *gin.Context) {
	var req CommentPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment cannot be empty"})
		return
	}

	svc := post.NewService(database.GetDB())
	commented, events, err := svc.Comment(c.Param("id"), currentUserID(c), req.Comment)
	if err != nil {
		respondErr(c, err)
		return
	}
	realtime.GetHub().Router().Deliver(events...)
	c.JSON(http.StatusOK, commented)
}

// DeletePost handles DELETE /api/posts/:id
func DeletePost(c *gin.Context) {
	svc := post.NewService(database.GetDB())
	events, err := svc.Delete(c.Param("id"), currentUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	realtime.GetHub().Router().Deliver(events...)
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
