package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"socialty-api/internal/auth"
	"socialty-api/internal/database"
	"socialty-api/internal/logger"
	"socialty-api/internal/middleware"
	"socialty-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const cookieMaxAge = 30 * 24 * 60 * 60 // seconds; matches token TTL

// Signup handles POST /api/auth/signup. Accepts a multipart form so an
// optional profile picture can ride along.
func Signup(c *gin.Context) {
	fullName := c.PostForm("fullName")
	username := c.PostForm("username")
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirmPassword")
	gender := c.PostForm("gender")
	dob := c.PostForm("dob")

	if fullName == "" || username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fullName, username and password are required"})
		return
	}
	if password != confirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords don't match"})
		return
	}

	var existing models.User
	err := database.GetDB().Where("username = ?", username).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	profilePic := ""
	if file, err := c.FormFile("profilePic"); err == nil && Uploads != nil {
		if url, err := Uploads.Upload(file); err == nil {
			profilePic = url
		} else {
			logger.Get().Warn().Err(err).Msg("profile picture upload failed, using default avatar")
		}
	}
	if profilePic == "" {
		profilePic = defaultAvatar(gender, username)
	}

	user := models.User{
		ID:         uuid.NewString(),
		FullName:   fullName,
		Username:   username,
		Password:   string(hashed),
		Gender:     gender,
		DOB:        dob,
		ProfilePic: profilePic,
	}
	if err := database.GetDB().Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := issueSession(c, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, user.Summary())
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. Username and password are required."})
		return
	}

	var user models.User
	err := database.GetDB().Where("username = ?", req.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := issueSession(c, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Summary()})
}

// Logout handles POST /api/auth/logout
func Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// ForgotPasswordRequest resets a password after matching username and DOB.
type ForgotPasswordRequest struct {
	Username    string `json:"username" binding:"required"`
	DOB         string `json:"dob" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ForgotPassword handles POST /api/auth/forgot-password
func ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := database.GetDB().Where("username = ?", req.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if user.DOB == "" || user.DOB != req.DOB {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect Date of Birth"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if err := database.GetDB().Model(&user).Update("password", string(hashed)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// GetUserProfile handles GET /api/users/:id
func GetUserProfile(c *gin.Context) {
	var user models.User
	err := database.GetDB().Where("id = ?", c.Param("id")).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// EditProfile handles PUT /api/users/:id. Only the owner may edit.
func EditProfile(c *gin.Context) {
	userID := c.Param("id")
	if userID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own profile"})
		return
	}

	var user models.User
	err := database.GetDB().Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	username := c.PostForm("username")
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirmPassword")

	if password != confirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords don't match"})
		return
	}

	if username != "" && username != user.Username {
		var existing models.User
		err := database.GetDB().Where("username = ? AND id <> ?", username, userID).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		user.Username = username
	}

	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		user.Password = string(hashed)
	}

	if file, err := c.FormFile("profilePic"); err == nil && Uploads != nil {
		if url, err := Uploads.Upload(file); err == nil {
			user.ProfilePic = url
		} else {
			logger.Get().Warn().Err(err).Msg("profile picture upload failed, keeping current one")
		}
	}

	if err := database.GetDB().Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

// DeleteAccount handles DELETE /api/users/me. Dependent content is removed
// best-effort: a failed side cleanup is logged and never blocks the account
// deletion itself.
func DeleteAccount(c *gin.Context) {
	userID := currentUserID(c)

	var user models.User
	err := database.GetDB().Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	db := database.GetDB()
	log := logger.WithUserID(userID)
	cleanups := []struct {
		name string
		run  func() error
	}{
		{"posts", func() error { return db.Where("user_id = ?", userID).Delete(&models.Post{}).Error }},
		{"comments", func() error { return db.Where("user_id = ?", userID).Delete(&models.Comment{}).Error }},
		{"messages", func() error {
			return db.Where("sender_id = ? OR receiver_id = ?", userID, userID).Delete(&models.Message{}).Error
		}},
		{"follows", func() error {
			return db.Where("follower_id = ? OR followee_id = ?", userID, userID).Delete(&models.Follow{}).Error
		}},
		{"follow requests", func() error {
			return db.Where("requester_id = ? OR target_id = ?", userID, userID).Delete(&models.FollowRequest{}).Error
		}},
		{"blocks", func() error {
			return db.Where("blocker_id = ? OR blocked_id = ?", userID, userID).Delete(&models.Block{}).Error
		}},
	}
	for _, cleanup := range cleanups {
		if err := cleanup.run(); err != nil {
			log.Warn().Err(err).Str("scope", cleanup.name).Msg("best-effort cleanup failed")
		}
	}

	if err := db.Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

func issueSession(c *gin.Context, user models.User) error {
	token, err := auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		return err
	}
	c.SetCookie(middleware.SessionCookie, token, cookieMaxAge, "/", "", false, true)
	return nil
}

func defaultAvatar(gender, username string) string {
	kind := "girl"
	if gender == "male" {
		kind = "boy"
	}
	return fmt.Sprintf("https://avatar.iran.liara.run/public/%s?username=%s", kind, username)
}
