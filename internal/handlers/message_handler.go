package handlers

import (
	"net/http"

	"socialty-api/internal/chat"
	"socialty-api/internal/database"
	"socialty-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

// SendMessageRequest is the message payload. File is an optional attachment
// URL produced by a prior upload.
type SendMessageRequest struct {
	Message string `json:"message"`
	File    string `json:"file"`
}

// SendMessage handles POST /api/messages/send/:id where :id is the receiver.
func SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Message == "" && req.File == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		return
	}

	svc := chat.NewService(database.GetDB())
	msg, events, err := svc.SendMessage(currentUserID(c), c.Param("id"), req.Message, req.File)
	if err != nil {
		respondErr(c, err)
		return
	}
	realtime.GetHub().Router().Deliver(events...)
	c.JSON(http.StatusCreated, msg)
}

// GetMessages handles GET /api/messages/:id. Full history with :id, oldest
// first. Reading the history clears the conversation's unread counter.
func GetMessages(c *gin.Context) {
	userID := currentUserID(c)
	otherID := c.Param("id")

	svc := chat.NewService(database.GetDB())
	messages, err := svc.GetMessages(userID, otherID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if err := svc.MarkConversationRead(userID, otherID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// GetLastMessage handles GET /api/messages/:id/last. Used by the sidebar
// preview; answers null when the pair never talked.
func GetLastMessage(c *gin.Context) {
	svc := chat.NewService(database.GetDB())
	msg, err := svc.GetLastMessage(currentUserID(c), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// LikeMessage handles POST /api/messages/:id/like
func LikeMessage(c *gin.Context) {
	svc := chat.NewService(database.GetDB())
	events, err := svc.LikeMessage(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	realtime.GetHub().Router().Deliver(events...)
	c.JSON(http.StatusOK, gin.H{"message": "Message liked"})
}

// DeleteMessage handles DELETE /api/messages/:id. The body is tombstoned
// rather than removed so both sides keep a consistent history.
func DeleteMessage(c *gin.Context) {
	svc := chat.NewService(database.GetDB())
	events, err := svc.DeleteMessage(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	realtime.GetHub().Router().Deliver(events...)
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}
