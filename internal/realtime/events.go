package realtime

import (
	"time"

	"socialty-api/internal/models"
)

// Event names in the server-to-client catalogue. Payload shapes are fixed per
// name; see the structs below.
const (
	EventOnlineUsers         = "getOnlineUsers"
	EventNewMessage          = "newMessage"
	EventUpdateConversation  = "updateConversation"
	EventMessageLiked        = "messageLiked"
	EventMessageDeleted      = "messageDeleted"
	EventNewGameRequest      = "newGameRequest"
	EventGameRequestAccepted = "gameRequestAccepted"
	EventGameRequestRejected = "gameRequestRejected"
	EventCellMarked          = "cellMarked"
	EventGameStopped         = "gameStopped"
	EventPostLiked           = "postLiked"
	EventPostCommented       = "postCommented"
	EventPostDeleted         = "postDeleted"
)

// ConversationUpdate is the lightweight conversation summary broadcast after
// every sent message.
type ConversationUpdate struct {
	ConversationID       string    `json:"conversationId"`
	LastMessageTimestamp time.Time `json:"lastMessageTimestamp"`
	UnreadCount          int       `json:"unreadCount"`
}

// MessageRef identifies a message whose flags changed.
type MessageRef struct {
	MessageID string `json:"messageId"`
}

// GameRequest announces a new pending game to the receiver.
type GameRequest struct {
	ID          string             `json:"_id"`
	Sender      models.UserSummary `json:"sender"`
	Receiver    models.UserSummary `json:"receiver"`
	Status      models.GameStatus  `json:"status"`
	Player1Grid models.IntList     `json:"player1Grid"`
	Player2Grid models.IntList     `json:"player2Grid"`
}

// GameAccepted announces the transition to accepted to both participants.
type GameAccepted struct {
	ID            string            `json:"_id"`
	Sender        string            `json:"sender"`
	Receiver      string            `json:"receiver"`
	Status        models.GameStatus `json:"status"`
	Player1Grid   models.IntList    `json:"player1Grid"`
	Player2Grid   models.IntList    `json:"player2Grid"`
	CurrentPlayer models.PlayerRole `json:"currentPlayer"`
}

// GameRejected tells the sender their request was declined.
type GameRejected struct {
	ID       string            `json:"_id"`
	Sender   string            `json:"sender"`
	Receiver string            `json:"receiver"`
	Status   models.GameStatus `json:"status"`
}

// CellMarked carries the result of a mark to both participants.
type CellMarked struct {
	Number        int               `json:"number"`
	CurrentPlayer models.PlayerRole `json:"currentPlayer"`
	Winner        models.Winner     `json:"winner"`
	MarkedCells   models.IntList    `json:"markedCells"`
}

// GameEnded announces that a game was stopped.
type GameEnded struct {
	GameID string            `json:"gameId"`
	Status models.GameStatus `json:"status"`
}

// PostLiked carries the updated like set of a post.
type PostLiked struct {
	PostID string            `json:"postId"`
	Likes  models.StringList `json:"likes"`
}

// PostCommented carries the updated comment list of a post.
type PostCommented struct {
	PostID   string           `json:"postId"`
	Comments []models.Comment `json:"comments"`
}

// PostDeleted identifies a removed post.
type PostDeleted struct {
	PostID string `json:"postId"`
}
