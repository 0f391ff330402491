package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"socialty-api/internal/chat"
	"socialty-api/internal/database"
	"socialty-api/internal/logger"
	"socialty-api/internal/post"
	"socialty-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// wsSession implements realtime.Session by wrapping a websocket connection.
// The mutex serializes writes: the router and the ping loop both send.
type wsSession struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *wsSession) Send(message []byte) bool {
	if s == nil || s.conn == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return s.conn.WriteMessage(websocket.TextMessage, message) == nil
}

func (s *wsSession) Close() {
	if s != nil && s.conn != nil {
		_ = s.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is already handled at Gin level; allow upgrade from any origin here
		return true
	},
}

// inboundFrame is a client-initiated event. Data stays raw until the event
// name picks a payload shape.
type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// WebSocketHandler upgrades the connection and binds the session to the hub.
// It requires JWT middleware to have set "user_id" in context (socket clients
// pass the token as a query param).
func WebSocketHandler(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Get().Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	session := &wsSession{conn: conn}
	hub := realtime.GetHub()
	hub.Connect(userID, session)

	// Heartbeat: send periodic pings; close on error
	pingTicker := time.NewTicker(30 * time.Second)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-pingTicker.C:
				// WriteControl is safe alongside WriteMessage per gorilla docs.
				if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
					// ping failed; reader loop will exit on next error
					return
				}
			}
		}
	}()
	defer func() {
		close(done)
		pingTicker.Stop()
		hub.Disconnect(userID, session)
		session.Close()
	}()

	conn.SetReadLimit(64 * 1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	log := logger.WithUserID(userID)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			// Normal close or error; exit loop
			return
		}
		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			log.Warn().Err(err).Msg("unparseable socket frame dropped")
			continue
		}
		if err := dispatchInbound(userID, frame); err != nil {
			log.Warn().Err(err).Str("event", frame.Event).Msg("socket event rejected")
		}
	}
}

// dispatchInbound runs a client-initiated event through the same coordinators
// the REST handlers use, then delivers whatever events they produce.
func dispatchInbound(userID string, frame inboundFrame) error {
	router := realtime.GetHub().Router()
	db := database.GetDB()

	switch frame.Event {
	case "newMessage":
		var data struct {
			ReceiverID string `json:"receiverId"`
			Message    string `json:"message"`
			File       string `json:"file"`
		}
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			return err
		}
		_, events, err := chat.NewService(db).SendMessage(userID, data.ReceiverID, data.Message, data.File)
		if err != nil {
			return err
		}
		router.Deliver(events...)

	case "likeMessage":
		var data struct {
			MessageID string `json:"messageId"`
		}
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			return err
		}
		events, err := chat.NewService(db).LikeMessage(data.MessageID)
		if err != nil {
			return err
		}
		router.Deliver(events...)

	case "deleteMessage":
		var data struct {
			MessageID string `json:"messageId"`
		}
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			return err
		}
		events, err := chat.NewService(db).DeleteMessage(data.MessageID)
		if err != nil {
			return err
		}
		router.Deliver(events...)

	case "likePost":
		var data struct {
			PostID string `json:"postId"`
		}
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			return err
		}
		_, events, err := post.NewService(db).Like(data.PostID, userID)
		if err != nil {
			return err
		}
		router.Deliver(events...)

	case "commentPost":
		var data struct {
			PostID  string `json:"postId"`
			Comment string `json:"comment"`
		}
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			return err
		}
		_, events, err := post.NewService(db).Comment(data.PostID, userID, data.Comment)
		if err != nil {
			return err
		}
		router.Deliver(events...)

	case "deletePost":
		var data struct {
			PostID string `json:"postId"`
		}
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			return err
		}
		events, err := post.NewService(db).Delete(data.PostID, userID)
		if err != nil {
			return err
		}
		router.Deliver(events...)
	}
	// Unknown events are ignored so older clients stay compatible.
	return nil
}
