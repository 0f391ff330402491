package handlers

import (
	"errors"
	"net/http"

	"socialty-api/internal/database"
	"socialty-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetAllUsers handles GET /api/users. Everyone except the caller, for people
// discovery.
func GetAllUsers(c *gin.Context) {
	var users []models.User
	err := database.GetDB().Where("id <> ?", currentUserID(c)).Find(&users).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.Summary())
	}
	c.JSON(http.StatusOK, summaries)
}

// GetUsersForSidebar handles GET /api/users/sidebar. The chat sidebar shows
// everyone connected to the caller through the follow graph, either direction.
func GetUsersForSidebar(c *gin.Context) {
	userID := currentUserID(c)
	db := database.GetDB()

	var follows []models.Follow
	err := db.Where("follower_id = ? OR followee_id = ?", userID, userID).Find(&follows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ids := make([]string, 0, len(follows))
	seen := map[string]bool{userID: true}
	for _, f := range follows {
		for _, id := range []string{f.FollowerID, f.FolloweeID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	summaries := make([]models.UserSummary, 0, len(ids))
	if len(ids) > 0 {
		var users []models.User
		if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		for _, u := range users {
			summaries = append(summaries, u.Summary())
		}
	}
	c.JSON(http.StatusOK, summaries)
}

// SendFollowRequest handles POST /api/users/:id/follow-request
func SendFollowRequest(c *gin.Context) {
	requesterID := currentUserID(c)
	targetID := c.Param("id")
	db := database.GetDB()

	if requesterID == targetID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot follow yourself"})
		return
	}
	if !userExists(db, targetID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if blockedEitherWay(db, requesterID, targetID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot follow this user"})
		return
	}

	var count int64
	db.Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", requesterID, targetID).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Already following this user"})
		return
	}

	db.Model(&models.FollowRequest{}).
		Where("requester_id = ? AND target_id = ?", requesterID, targetID).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Follow request already sent"})
		return
	}

	req := models.FollowRequest{RequesterID: requesterID, TargetID: targetID}
	if err := db.Create(&req).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Follow request sent"})
}

// GetFollowRequests handles GET /api/users/follow-requests. Pending requests
// addressed to the caller, with requester details for rendering.
func GetFollowRequests(c *gin.Context) {
	userID := currentUserID(c)
	db := database.GetDB()

	var requests []models.FollowRequest
	if err := db.Where("target_id = ?", userID).Order("created_at asc").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	type requestView struct {
		Requester models.UserSummary `json:"requester"`
	}
	views := make([]requestView, 0, len(requests))
	for _, req := range requests {
		var u models.User
		if err := db.Where("id = ?", req.RequesterID).First(&u).Error; err != nil {
			continue // requester deleted since; skip the stale request
		}
		views = append(views, requestView{Requester: u.Summary()})
	}
	c.JSON(http.StatusOK, views)
}

// AcceptFollowRequest handles POST /api/users/:id/follow-request/accept.
// The :id is the requester whose pending request the caller accepts.
func AcceptFollowRequest(c *gin.Context) {
	targetID := currentUserID(c)
	requesterID := c.Param("id")
	db := database.GetDB()

	var req models.FollowRequest
	err := db.Where("requester_id = ? AND target_id = ?", requesterID, targetID).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Follow request not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&req).Error; err != nil {
			return err
		}
		return tx.Create(&models.Follow{FollowerID: requesterID, FolloweeID: targetID}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Follow request accepted"})
}

// RejectFollowRequest handles POST /api/users/:id/follow-request/reject
func RejectFollowRequest(c *gin.Context) {
	targetID := currentUserID(c)
	requesterID := c.Param("id")

	res := database.GetDB().
		Where("requester_id = ? AND target_id = ?", requesterID, targetID).
		Delete(&models.FollowRequest{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Follow request not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Follow request rejected"})
}

// UnfollowUser handles POST /api/users/:id/unfollow
func UnfollowUser(c *gin.Context) {
	followerID := currentUserID(c)
	followeeID := c.Param("id")

	res := database.GetDB().
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "You are not following this user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed successfully"})
}

// CheckFollowStatus handles GET /api/users/:id/follow-status. Reports the
// relationship between the caller and :id from the caller's side.
func CheckFollowStatus(c *gin.Context) {
	userID := currentUserID(c)
	otherID := c.Param("id")
	db := database.GetDB()

	var count int64
	db.Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", userID, otherID).
		Count(&count)
	isFollowing := count > 0

	db.Model(&models.FollowRequest{}).
		Where("requester_id = ? AND target_id = ?", userID, otherID).
		Count(&count)
	hasRequested := count > 0

	db.Model(&models.FollowRequest{}).
		Where("requester_id = ? AND target_id = ?", otherID, userID).
		Count(&count)
	hasIncomingRequest := count > 0

	c.JSON(http.StatusOK, gin.H{
		"isFollowing":        isFollowing,
		"hasRequested":       hasRequested,
		"hasIncomingRequest": hasIncomingRequest,
	})
}

// BlockUser handles POST /api/users/:id/block. Toggles the block and tears
// down any follow edges and pending requests between the two users.
func BlockUser(c *gin.Context) {
	blockerID := currentUserID(c)
	blockedID := c.Param("id")
	db := database.GetDB()

	if blockerID == blockedID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot block yourself"})
		return
	}
	if !userExists(db, blockedID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var block models.Block
	err := db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).First(&block).Error
	if err == nil {
		if err := db.Delete(&block).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User unblocked", "blocked": false})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.Block{BlockerID: blockerID, BlockedID: blockedID}).Error; err != nil {
			return err
		}
		if err := tx.Where(
			"(follower_id = ? AND followee_id = ?) OR (follower_id = ? AND followee_id = ?)",
			blockerID, blockedID, blockedID, blockerID,
		).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		return tx.Where(
			"(requester_id = ? AND target_id = ?) OR (requester_id = ? AND target_id = ?)",
			blockerID, blockedID, blockedID, blockerID,
		).Delete(&models.FollowRequest{}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User blocked", "blocked": true})
}

// IsUserBlocked handles GET /api/users/:id/blocked
func IsUserBlocked(c *gin.Context) {
	userID := currentUserID(c)
	otherID := c.Param("id")
	db := database.GetDB()

	var count int64
	db.Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", userID, otherID).
		Count(&count)
	blockedByMe := count > 0

	db.Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", otherID, userID).
		Count(&count)
	blockedMe := count > 0

	c.JSON(http.StatusOK, gin.H{
		"isBlockedByMe": blockedByMe,
		"hasBlockedMe":  blockedMe,
	})
}

func userExists(db *gorm.DB, id string) bool {
	var count int64
	db.Model(&models.User{}).Where("id = ?", id).Count(&count)
	return count > 0
}

func blockedEitherWay(db *gorm.DB, a, b string) bool {
	var count int64
	db.Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count)
	return count > 0
}
