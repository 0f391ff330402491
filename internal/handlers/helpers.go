package handlers

import (
	"socialty-api/internal/errs"
	"socialty-api/internal/storage"

	"github.com/gin-gonic/gin"
)

// Uploads is the blob-store collaborator used by signup, profile edit and
// post creation. Wired at startup.
var Uploads storage.Uploader

// respondErr writes the coarse status and caller-facing reason for err.
func respondErr(c *gin.Context, err error) {
	c.JSON(errs.Status(err), gin.H{"error": errs.Reason(err)})
}

// currentUserID pulls the authenticated user id set by the JWT middleware.
func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}
