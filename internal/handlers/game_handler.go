package handlers

import (
	"net/http"

	"socialty-api/internal/database"
	"socialty-api/internal/game"
	"socialty-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

// SendGameRequest handles POST /api/games/request/:id where :id is the
// invited player.
func SendGameRequest(c *gin.Context) {
	svc := game.NewService(database.GetDB())
	session, events, err := svc.Request(currentUserID(c), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	realtime.GetHub().Router().Deliver(events...)
	c.JSON(http.StatusCreated, session)
}

// AcceptGameRequest handles POST /api/games/:id/accept
func AcceptGameRequest(c *gin.Context) {
	svc := game.NewService(database.GetDB())
	session, events, err := svc.Accept(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	realtime.GetHub().Router().Deliver(events...)
	c.JSON(http.StatusOK, session)
}

// RejectGameRequest handles POST /api/games/:id/reject
func RejectGameRequest(c *gin.Context) {
	svc := game.NewService(database.GetDB())
	session, events, err := svc.Reject(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	realtime.GetHub().Router().Deliver(events...)
	c.JSON(http.StatusOK, session)
}

// MarkCellRequest carries the number the acting player marks.
type MarkCellRequest struct {
	Number int `json:"number" binding:"required"`
}

// MarkCell handles POST /api/games/:id/mark
func MarkCell(c *gin.Context) {
	var req MarkCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A number between 1 and 25 is required"})
		return
	}

	svc := game.NewService(database.GetDB())
	session, events, err := svc.MarkCell(c.Param("id"), req.Number, currentUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	realtime.GetHub().Router().Deliver(events...)
	c.JSON(http.StatusOK, session)
}

// StopGame handles POST /api/games/:id/stop
func StopGame(c *gin.Context) {
	svc := game.NewService(database.GetDB())
	session, events, err := svc.Stop(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	realtime.GetHub().Router().Deliver(events...)
	c.JSON(http.StatusOK, session)
}

// CheckGameRequestStatus handles GET /api/games/status/:id. Reports whether
// a pending request exists between the caller and :id in either direction.
func CheckGameRequestStatus(c *gin.Context) {
	svc := game.NewService(database.GetDB())
	status, err := svc.Status(currentUserID(c), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetPendingGameRequests handles GET /api/games/pending
func GetPendingGameRequests(c *gin.Context) {
	svc := game.NewService(database.GetDB())
	pending, err := svc.PendingRequests(currentUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}
