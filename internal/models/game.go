package models

import (
	"gorm.io/gorm"
)

// GameStatus represents the lifecycle state of a game session
type GameStatus string

const (
	GamePending   GameStatus = "pending"
	GameAccepted  GameStatus = "accepted"
	GameRejected  GameStatus = "rejected"
	GameCompleted GameStatus = "completed"
	GameStopped   GameStatus = "stopped"
)

// PlayerRole identifies a participant slot in a game session
type PlayerRole string

const (
	RolePlayer1 PlayerRole = "player1" // initiator / sender
	RolePlayer2 PlayerRole = "player2" // recipient / receiver
)

// Winner is the outcome of a completed game
type Winner string

const (
	WinnerNone    Winner = ""
	WinnerPlayer1 Winner = "player1"
	WinnerPlayer2 Winner = "player2"
	WinnerDraw    Winner = "draw"
)

// GameSession is one instance of the two-player bingo game, from request
// through termination. Grids are 25-cell permutations of 1..25 and are never
// identical to each other within a session. MarkedCells holds shared numbers,
// not per-grid positions.
type GameSession struct {
	ID            string     `json:"_id" gorm:"primaryKey"`
	SenderID      string     `json:"sender" gorm:"column:sender_id;index;not null"`
	ReceiverID    string     `json:"receiver" gorm:"column:receiver_id;index;not null"`
	Status        GameStatus `json:"status" gorm:"not null;default:'pending'"`
	Player1Grid   IntList    `json:"player1Grid" gorm:"column:player1_grid;type:text"`
	Player2Grid   IntList    `json:"player2Grid" gorm:"column:player2_grid;type:text"`
	MarkedCells   IntList    `json:"markedCells" gorm:"column:marked_cells;type:text"`
	CurrentPlayer PlayerRole `json:"currentPlayer" gorm:"column:current_player;default:'player1'"`
	Winner        Winner     `json:"winner" gorm:"column:winner;default:''"`
	gorm.Model
}

// TableName specifies the table name for GameSession Model
func (GameSession) TableName() string {
	return "game_sessions"
}

// RoleOf maps a user id onto its role in the session, or "" when the user is
// not a participant.
func (g GameSession) RoleOf(userID string) PlayerRole {
	switch userID {
	case g.SenderID:
		return RolePlayer1
	case g.ReceiverID:
		return RolePlayer2
	}
	return ""
}
