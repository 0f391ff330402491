package game

import (
	"errors"
	"time"

	"socialty-api/internal/cache"
	"socialty-api/internal/errs"
	"socialty-api/internal/models"
	"socialty-api/internal/realtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const summaryTTL = time.Minute

// sharedSummaries is package-level because handlers construct a Service per
// request; cached user summaries must outlive a single call for the TTL to
// mean anything.
var sharedSummaries = cache.NewTTLCache[string, models.UserSummary]()

// Service owns the lifecycle of two-player bingo sessions: request,
// accept/reject, alternating marks, win detection, stop. State is persisted
// after every transition; methods return the events both participants should
// receive and the caller delivers them.
type Service struct {
	db        *gorm.DB
	summaries cache.Cache[string, models.UserSummary]
}

// NewService creates a game coordinator over db.
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:        db,
		summaries: sharedSummaries,
	}
}

// RequestStatus reports pending requests between two users, split by direction.
type RequestStatus struct {
	HasSentRequest     bool `json:"hasSentRequest"`
	HasReceivedRequest bool `json:"hasReceivedRequest"`
}

// Request creates a pending session from sender to receiver with two distinct
// freshly generated grids, and notifies the receiver.
func (s *Service) Request(senderID, receiverID string) (*models.GameSession, []realtime.Outbound, error) {
	if senderID == receiverID {
		return nil, nil, errs.Invalid("Cannot send game request to yourself")
	}

	sender, err := s.userSummary(senderID)
	if err != nil {
		return nil, nil, err
	}
	receiver, err := s.userSummary(receiverID)
	if err != nil {
		return nil, nil, err
	}

	var existing models.GameSession
	err = s.db.Where("sender_id = ? AND receiver_id = ? AND status = ?", senderID, receiverID, models.GamePending).
		First(&existing).Error
	if err == nil {
		return nil, nil, errs.Conflict("Game request already sent")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, errs.Internal(err)
	}

	player1Grid, player2Grid := NewGridPair()
	session := models.GameSession{
		ID:            uuid.NewString(),
		SenderID:      senderID,
		ReceiverID:    receiverID,
		Status:        models.GamePending,
		Player1Grid:   player1Grid,
		Player2Grid:   player2Grid,
		MarkedCells:   models.IntList{},
		CurrentPlayer: models.RolePlayer1,
		Winner:        models.WinnerNone,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, nil, errs.Internal(err)
	}

	events := []realtime.Outbound{
		realtime.ToUser(receiverID, realtime.EventNewGameRequest, realtime.GameRequest{
			ID:          session.ID,
			Sender:      sender,
			Receiver:    receiver,
			Status:      session.Status,
			Player1Grid: session.Player1Grid,
			Player2Grid: session.Player2Grid,
		}),
	}
	return &session, events, nil
}

// Accept moves a pending request to accepted; player1 starts. Both
// participants are notified.
func (s *Service) Accept(requestID string) (*models.GameSession, []realtime.Outbound, error) {
	session, err := s.findSession(requestID)
	if err != nil {
		return nil, nil, err
	}
	if session.Status != models.GamePending {
		return nil, nil, errs.Invalid("Game request is not pending")
	}

	session.Status = models.GameAccepted
	if err := s.db.Save(session).Error; err != nil {
		return nil, nil, errs.Internal(err)
	}

	payload := realtime.GameAccepted{
		ID:            session.ID,
		Sender:        session.SenderID,
		Receiver:      session.ReceiverID,
		Status:        session.Status,
		Player1Grid:   session.Player1Grid,
		Player2Grid:   session.Player2Grid,
		CurrentPlayer: session.CurrentPlayer,
	}
	events := []realtime.Outbound{
		realtime.ToPair(session.SenderID, session.ReceiverID, realtime.EventGameRequestAccepted, payload),
	}
	return session, events, nil
}

// Reject moves a pending request to rejected. Only the sender is notified.
func (s *Service) Reject(requestID string) (*models.GameSession, []realtime.Outbound, error) {
	session, err := s.findSession(requestID)
	if err != nil {
		return nil, nil, err
	}
	if session.Status != models.GamePending {
		return nil, nil, errs.Invalid("Game request is not pending")
	}

	session.Status = models.GameRejected
	if err := s.db.Save(session).Error; err != nil {
		return nil, nil, errs.Internal(err)
	}

	events := []realtime.Outbound{
		realtime.ToUser(session.SenderID, realtime.EventGameRequestRejected, realtime.GameRejected{
			ID:       session.ID,
			Sender:   session.SenderID,
			Receiver: session.ReceiverID,
			Status:   session.Status,
		}),
	}
	return session, events, nil
}

// MarkCell records number for the acting user. The mark is rejected before
// any mutation when it is out of turn or the number was already marked. A
// winning mark completes the game and freezes the turn; otherwise the turn
// flips. Both participants are notified.
func (s *Service) MarkCell(gameID string, number int, actingUserID string) (*models.GameSession, []realtime.Outbound, error) {
	session, err := s.findSession(gameID)
	if err != nil {
		return nil, nil, err
	}
	if session.Status != models.GameAccepted {
		return nil, nil, errs.Invalid("Game is not in progress")
	}
	if session.RoleOf(actingUserID) != session.CurrentPlayer {
		return nil, nil, errs.Invalid("Not your turn")
	}
	for _, marked := range session.MarkedCells {
		if marked == number {
			return nil, nil, errs.Conflict("Number already marked")
		}
	}

	session.MarkedCells = append(session.MarkedCells, number)

	player1Wins := HasWon(session.Player1Grid, session.MarkedCells)
	player2Wins := HasWon(session.Player2Grid, session.MarkedCells)
	switch {
	case player1Wins && player2Wins:
		session.Winner = models.WinnerDraw
	case player1Wins:
		session.Winner = models.WinnerPlayer1
	case player2Wins:
		session.Winner = models.WinnerPlayer2
	}

	if session.Winner != models.WinnerNone {
		session.Status = models.GameCompleted
	} else if session.CurrentPlayer == models.RolePlayer1 {
		session.CurrentPlayer = models.RolePlayer2
	} else {
		session.CurrentPlayer = models.RolePlayer1
	}

	if err := s.db.Save(session).Error; err != nil {
		return nil, nil, errs.Internal(err)
	}

	payload := realtime.CellMarked{
		Number:        number,
		CurrentPlayer: session.CurrentPlayer,
		Winner:        session.Winner,
		MarkedCells:   session.MarkedCells,
	}
	events := []realtime.Outbound{
		realtime.ToPair(session.SenderID, session.ReceiverID, realtime.EventCellMarked, payload),
	}
	return session, events, nil
}

// Stop aborts a session from any state. Both participants are notified.
func (s *Service) Stop(gameID string) (*models.GameSession, []realtime.Outbound, error) {
	session, err := s.findSession(gameID)
	if err != nil {
		return nil, nil, err
	}

	session.Status = models.GameStopped
	if err := s.db.Save(session).Error; err != nil {
		return nil, nil, errs.Internal(err)
	}

	events := []realtime.Outbound{
		realtime.ToPair(session.SenderID, session.ReceiverID, realtime.EventGameStopped, realtime.GameEnded{
			GameID: session.ID,
			Status: session.Status,
		}),
	}
	return session, events, nil
}

// Status reports whether a pending request exists between userID and
// otherUserID in either direction.
func (s *Service) Status(userID, otherUserID string) (RequestStatus, error) {
	var sessions []models.GameSession
	err := s.db.Where("status = ? AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))",
		models.GamePending, userID, otherUserID, otherUserID, userID).
		Find(&sessions).Error
	if err != nil {
		return RequestStatus{}, errs.Internal(err)
	}

	var status RequestStatus
	for _, g := range sessions {
		if g.SenderID == userID {
			status.HasSentRequest = true
		}
		if g.ReceiverID == userID {
			status.HasReceivedRequest = true
		}
	}
	return status, nil
}

// PendingRequest is a pending session enriched with participant summaries.
type PendingRequest struct {
	models.GameSession
	Sender   models.UserSummary `json:"sender"`
	Receiver models.UserSummary `json:"receiver"`
}

// PendingRequests lists the pending sessions userID is part of, on either
// side, enriched with participant summaries.
func (s *Service) PendingRequests(userID string) ([]PendingRequest, error) {
	var sessions []models.GameSession
	err := s.db.Where("status = ? AND (sender_id = ? OR receiver_id = ?)", models.GamePending, userID, userID).
		Order("created_at desc").
		Find(&sessions).Error
	if err != nil {
		return nil, errs.Internal(err)
	}

	out := make([]PendingRequest, 0, len(sessions))
	for _, session := range sessions {
		sender, err := s.userSummary(session.SenderID)
		if err != nil {
			return nil, err
		}
		receiver, err := s.userSummary(session.ReceiverID)
		if err != nil {
			return nil, err
		}
		out = append(out, PendingRequest{GameSession: session, Sender: sender, Receiver: receiver})
	}
	return out, nil
}

func (s *Service) findSession(id string) (*models.GameSession, error) {
	var session models.GameSession
	err := s.db.Where("id = ?", id).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("Game not found")
	}
	if err != nil {
		return nil, errs.Internal(err)
	}
	return &session, nil
}

func (s *Service) userSummary(userID string) (models.UserSummary, error) {
	if summary, ok := s.summaries.Get(userID); ok {
		return summary, nil
	}

	var user models.User
	err := s.db.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserSummary{}, errs.NotFound("User not found")
	}
	if err != nil {
		return models.UserSummary{}, errs.Internal(err)
	}

	summary := user.Summary()
	s.summaries.Set(userID, summary, summaryTTL)
	return summary, nil
}
