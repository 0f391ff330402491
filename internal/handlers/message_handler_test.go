package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"socialty-api/internal/database"
	"socialty-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func messageRouter() *gin.Engine {
	return protected(func(g gin.IRoutes) {
		g.POST("/api/messages/send/:id", SendMessage)
		g.GET("/api/messages/:id", GetMessages)
		g.GET("/api/messages/:id/last", GetLastMessage)
		g.POST("/api/messages/:id/like", LikeMessage)
		g.DELETE("/api/messages/:id", DeleteMessage)
	})
}

func sendTestMessage(t *testing.T, r *gin.Engine, token, to, text string) models.Message {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"message": text})
	w := doJSON(t, r, http.MethodPost, "/api/messages/send/"+to, token, bytes.NewReader(body))
	require.Equal(t, http.StatusCreated, w.Code)
	var msg models.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	return msg
}

func TestSendMessage_And_History(t *testing.T) {
	setupTestDB(t)
	r := messageRouter()
	alice := tokenFor(t, "u-1", "alice")
	bob := tokenFor(t, "u-2", "bob")

	sent := sendTestMessage(t, r, alice, "u-2", "hi bob")
	require.Equal(t, "u-1", sent.SenderID)
	require.Equal(t, "u-2", sent.ReceiverID)
	require.Equal(t, "hi bob", sent.Body)

	// bob reads the history; unread counter clears
	w := doJSON(t, r, http.MethodGet, "/api/messages/u-1", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []models.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 1)

	var conv models.Conversation
	require.NoError(t, database.DB.Where("id = ?", sent.ConversationID).First(&conv).Error)
	require.Equal(t, 0, conv.UnreadCount)
}

func TestSendMessage_EmptyBody(t *testing.T) {
	setupTestDB(t)
	r := messageRouter()

	body, _ := json.Marshal(map[string]string{"message": ""})
	w := doJSON(t, r, http.MethodPost, "/api/messages/send/u-2", tokenFor(t, "u-1", "alice"), bytes.NewReader(body))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLastMessage(t *testing.T) {
	setupTestDB(t)
	r := messageRouter()
	alice := tokenFor(t, "u-1", "alice")

	// no conversation yet: null body
	w := doJSON(t, r, http.MethodGet, "/api/messages/u-2/last", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "null", w.Body.String())

	sendTestMessage(t, r, alice, "u-2", "first")
	sent := sendTestMessage(t, r, alice, "u-2", "second")

	w = doJSON(t, r, http.MethodGet, "/api/messages/u-2/last", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var last models.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &last))
	require.Equal(t, sent.ID, last.ID)
}

func TestLikeAndDeleteMessage(t *testing.T) {
	setupTestDB(t)
	r := messageRouter()
	alice := tokenFor(t, "u-1", "alice")
	bob := tokenFor(t, "u-2", "bob")

	sent := sendTestMessage(t, r, alice, "u-2", "like me")

	w := doJSON(t, r, http.MethodPost, "/api/messages/"+sent.ID+"/like", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var msg models.Message
	require.NoError(t, database.DB.Where("id = ?", sent.ID).First(&msg).Error)
	require.True(t, msg.Liked)

	w = doJSON(t, r, http.MethodDelete, "/api/messages/"+sent.ID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, database.DB.Where("id = ?", sent.ID).First(&msg).Error)
	require.True(t, msg.Deleted)
	require.Equal(t, models.DeletedMessageBody, msg.Body)

	// liking a deleted message is rejected
	w = doJSON(t, r, http.MethodPost, "/api/messages/"+sent.ID+"/like", bob, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteMessage_Unknown(t *testing.T) {
	setupTestDB(t)
	r := messageRouter()

	w := doJSON(t, r, http.MethodDelete, "/api/messages/missing", tokenFor(t, "u-1", "alice"), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
