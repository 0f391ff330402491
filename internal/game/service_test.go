package game

import (
	"testing"

	"socialty-api/internal/errs"
	"socialty-api/internal/models"
	"socialty-api/internal/realtime"
	"socialty-api/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	_, err = testutil.SeedUser(db, "u-a", "alice")
	require.NoError(t, err)
	_, err = testutil.SeedUser(db, "u-b", "bob")
	require.NoError(t, err)
	return NewService(db), db
}

// seedAcceptedSession inserts an in-progress session with fixed grids so win
// detection can be driven deterministically.
func seedAcceptedSession(t *testing.T, db *gorm.DB, grid1, grid2 models.IntList) models.GameSession {
	t.Helper()
	session := models.GameSession{
		ID:            "g-1",
		SenderID:      "u-a",
		ReceiverID:    "u-b",
		Status:        models.GameAccepted,
		Player1Grid:   grid1,
		Player2Grid:   grid2,
		MarkedCells:   models.IntList{},
		CurrentPlayer: models.RolePlayer1,
	}
	require.NoError(t, db.Create(&session).Error)
	return session
}

// markInTurn performs one mark acting as whichever participant's turn it is.
func markInTurn(t *testing.T, s *Service, db *gorm.DB, gameID string, number int) (*models.GameSession, []realtime.Outbound) {
	t.Helper()
	var current models.GameSession
	require.NoError(t, db.Where("id = ?", gameID).First(&current).Error)

	actor := current.SenderID
	if current.CurrentPlayer == models.RolePlayer2 {
		actor = current.ReceiverID
	}
	session, events, err := s.MarkCell(gameID, number, actor)
	require.NoError(t, err)
	return session, events
}

func TestRequest_SelfTargetRejected(t *testing.T) {
	s, _ := newTestService(t)

	_, _, err := s.Request("u-a", "u-a")
	require.Error(t, err)
	require.Equal(t, errs.KindInvalid, errs.KindOf(err))
}

func TestRequest_UnknownReceiver(t *testing.T) {
	s, _ := newTestService(t)

	_, _, err := s.Request("u-a", "nobody")
	require.Error(t, err)
	require.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestRequest_CreatesPendingSessionWithDistinctGrids(t *testing.T) {
	s, _ := newTestService(t)

	session, events, err := s.Request("u-a", "u-b")
	require.NoError(t, err)
	require.Equal(t, models.GamePending, session.Status)
	require.Equal(t, models.RolePlayer1, session.CurrentPlayer)
	require.NotEqual(t, session.Player1Grid, session.Player2Grid)

	require.Len(t, events, 1)
	require.Equal(t, realtime.EventNewGameRequest, events[0].Name)
	require.Equal(t, []string{"u-b"}, events[0].To)
	payload := events[0].Data.(realtime.GameRequest)
	require.Equal(t, "alice", payload.Sender.Username)
	require.Equal(t, "bob", payload.Receiver.Username)
}

func TestRequest_DuplicatePendingConflicts(t *testing.T) {
	s, db := newTestService(t)

	_, _, err := s.Request("u-a", "u-b")
	require.NoError(t, err)

	_, _, err = s.Request("u-a", "u-b")
	require.Error(t, err)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))

	var count int64
	require.NoError(t, db.Model(&models.GameSession{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAcceptAndReject(t *testing.T) {
	s, _ := newTestService(t)

	pending, _, err := s.Request("u-a", "u-b")
	require.NoError(t, err)

	accepted, events, err := s.Accept(pending.ID)
	require.NoError(t, err)
	require.Equal(t, models.GameAccepted, accepted.Status)
	require.Len(t, events, 1)
	require.Equal(t, realtime.EventGameRequestAccepted, events[0].Name)
	require.ElementsMatch(t, []string{"u-a", "u-b"}, events[0].To)
	require.Equal(t, models.RolePlayer1, events[0].Data.(realtime.GameAccepted).CurrentPlayer)

	// Accepting twice is invalid; so is rejecting after acceptance.
	_, _, err = s.Accept(pending.ID)
	require.Equal(t, errs.KindInvalid, errs.KindOf(err))
	_, _, err = s.Reject(pending.ID)
	require.Equal(t, errs.KindInvalid, errs.KindOf(err))

	other, _, err := s.Request("u-b", "u-a")
	require.NoError(t, err)
	rejected, events, err := s.Reject(other.ID)
	require.NoError(t, err)
	require.Equal(t, models.GameRejected, rejected.Status)
	require.Len(t, events, 1)
	require.Equal(t, realtime.EventGameRequestRejected, events[0].Name)
	require.Equal(t, []string{"u-b"}, events[0].To)
}

func TestMarkCell_TurnEnforcement(t *testing.T) {
	s, db := newTestService(t)
	seedAcceptedSession(t, db, identityGrid(), shiftedGrid())

	// player2 (receiver) may not open the game.
	_, _, err := s.MarkCell("g-1", 7, "u-b")
	require.Error(t, err)
	require.Equal(t, errs.KindInvalid, errs.KindOf(err))

	session, _, err := s.MarkCell("g-1", 7, "u-a")
	require.NoError(t, err)
	require.Equal(t, models.RolePlayer2, session.CurrentPlayer)

	// player1 again: out of turn.
	_, _, err = s.MarkCell("g-1", 8, "u-a")
	require.Equal(t, errs.KindInvalid, errs.KindOf(err))
}

func TestMarkCell_DuplicateNumberConflicts(t *testing.T) {
	s, db := newTestService(t)
	seedAcceptedSession(t, db, identityGrid(), shiftedGrid())

	_, _, err := s.MarkCell("g-1", 7, "u-a")
	require.NoError(t, err)

	_, _, err = s.MarkCell("g-1", 7, "u-b")
	require.Error(t, err)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))

	// State unchanged: still player2's turn, one marked number.
	var session models.GameSession
	require.NoError(t, db.Where("id = ?", "g-1").First(&session).Error)
	require.Equal(t, models.RolePlayer2, session.CurrentPlayer)
	require.Len(t, session.MarkedCells, 1)
}

func TestMarkCell_TurnAlternationParity(t *testing.T) {
	s, db := newTestService(t)
	seedAcceptedSession(t, db, identityGrid(), shiftedGrid())

	// Numbers chosen to stay short of any win.
	numbers := []int{1, 2, 3, 7, 9, 11}
	for i, n := range numbers {
		session, _ := markInTurn(t, s, db, "g-1", n)
		marks := i + 1
		if marks%2 == 0 {
			require.Equal(t, models.RolePlayer1, session.CurrentPlayer)
		} else {
			require.Equal(t, models.RolePlayer2, session.CurrentPlayer)
		}
	}
}

func TestMarkCell_Player1WinsAndGameFreezes(t *testing.T) {
	s, db := newTestService(t)
	seedAcceptedSession(t, db, identityGrid(), shiftedGrid())

	// 1..20 completes four rows on player1's grid; no winner yet.
	for n := 1; n <= 20; n++ {
		session, _ := markInTurn(t, s, db, "g-1", n)
		require.Equal(t, models.WinnerNone, session.Winner)
	}

	// 21 completes the first column and anti-diagonal of player1's grid,
	// while the shifted grid stays short of five lines.
	session, events := markInTurn(t, s, db, "g-1", 21)
	require.Equal(t, models.WinnerPlayer1, session.Winner)
	require.Equal(t, models.GameCompleted, session.Status)
	// Turn does not advance once the game is decided.
	require.Equal(t, models.RolePlayer1, session.CurrentPlayer)

	require.Len(t, events, 1)
	require.Equal(t, realtime.EventCellMarked, events[0].Name)
	require.ElementsMatch(t, []string{"u-a", "u-b"}, events[0].To)
	payload := events[0].Data.(realtime.CellMarked)
	require.Equal(t, models.WinnerPlayer1, payload.Winner)
	require.Len(t, payload.MarkedCells, 21)

	// No further marks accepted.
	_, _, err := s.MarkCell("g-1", 22, "u-a")
	require.Error(t, err)
	require.Equal(t, errs.KindInvalid, errs.KindOf(err))
}

func TestMarkCell_SimultaneousWinIsDraw(t *testing.T) {
	s, db := newTestService(t)
	seedAcceptedSession(t, db, identityGrid(), swappedCornerGrid())

	for n := 1; n <= 20; n++ {
		session, _ := markInTurn(t, s, db, "g-1", n)
		require.Equal(t, models.WinnerNone, session.Winner)
	}

	// 25 pushes both grids to five-plus lines on the same mark.
	session, _ := markInTurn(t, s, db, "g-1", 25)
	require.Equal(t, models.WinnerDraw, session.Winner)
	require.Equal(t, models.GameCompleted, session.Status)
}

func TestStop_AnyStateTerminal(t *testing.T) {
	s, _ := newTestService(t)

	pending, _, err := s.Request("u-a", "u-b")
	require.NoError(t, err)

	stopped, events, err := s.Stop(pending.ID)
	require.NoError(t, err)
	require.Equal(t, models.GameStopped, stopped.Status)
	require.Len(t, events, 1)
	require.Equal(t, realtime.EventGameStopped, events[0].Name)
	require.ElementsMatch(t, []string{"u-a", "u-b"}, events[0].To)
}

func TestStatusAndPendingRequests(t *testing.T) {
	s, _ := newTestService(t)

	status, err := s.Status("u-a", "u-b")
	require.NoError(t, err)
	require.False(t, status.HasSentRequest)
	require.False(t, status.HasReceivedRequest)

	_, _, err = s.Request("u-a", "u-b")
	require.NoError(t, err)

	status, err = s.Status("u-a", "u-b")
	require.NoError(t, err)
	require.True(t, status.HasSentRequest)
	require.False(t, status.HasReceivedRequest)

	status, err = s.Status("u-b", "u-a")
	require.NoError(t, err)
	require.False(t, status.HasSentRequest)
	require.True(t, status.HasReceivedRequest)

	pending, err := s.PendingRequests("u-b")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "alice", pending[0].Sender.Username)
	require.Equal(t, "bob", pending[0].Receiver.Username)
}

func TestMarkCell_UnknownGame(t *testing.T) {
	s, _ := newTestService(t)

	_, _, err := s.MarkCell("missing", 1, "u-a")
	require.Error(t, err)
	require.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

// shiftedGrid places 22,23,24,25 at positions 0, 4, 6 and 12 so that marking
// 1..21 completes fewer than five lines.
func shiftedGrid() models.IntList {
	grid := models.IntList{
		22, 1, 2, 3, 23,
		4, 24, 5, 6, 7,
		8, 9, 25, 10, 11,
		12, 13, 14, 15, 16,
		17, 18, 19, 20, 21,
	}
	return grid
}

// swappedCornerGrid is the identity grid with 1 and 25 exchanged; marking
// 1..20 then 25 completes five lines on it and six on the identity grid.
func swappedCornerGrid() models.IntList {
	grid := identityGrid()
	grid[0], grid[24] = grid[24], grid[0]
	return grid
}

func TestUserSummary_CacheSurvivesServiceReconstruction(t *testing.T) {
	s1, db := newTestService(t)

	warm, err := s1.userSummary("u-a")
	require.NoError(t, err)
	require.Equal(t, "alice", warm.Username)

	// The row changes underneath, but a freshly constructed service still
	// answers from the shared cache until the TTL lapses.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", "u-a").Update("username", "renamed").Error)

	s2 := NewService(db)
	cached, err := s2.userSummary("u-a")
	require.NoError(t, err)
	require.Equal(t, "alice", cached.Username)
}
