package models

import (
	"gorm.io/gorm"
)

// User represents an account in the system.
type User struct {
	ID         string `json:"_id" gorm:"primaryKey"`
	FullName   string `json:"fullName" gorm:"not null"`
	Username   string `json:"username" gorm:"unique;not null"`
	Password   string `json:"-" gorm:"not null"`
	Gender     string `json:"gender"`
	DOB        string `json:"dob" gorm:"column:dob"`
	ProfilePic string `json:"profilePic" gorm:"column:profile_pic"`
	gorm.Model
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}

// Summary strips a user down to the fields embedded in event payloads.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		FullName:   u.FullName,
		Username:   u.Username,
		ProfilePic: u.ProfilePic,
	}
}

// UserSummary is the public projection of a user used in lists and events.
type UserSummary struct {
	ID         string `json:"_id"`
	FullName   string `json:"fullName"`
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic"`
}

// Follow is one edge of the follow graph: follower follows followee.
type Follow struct {
	FollowerID string `json:"followerId" gorm:"column:follower_id;uniqueIndex:idx_follow_pair;not null"`
	FolloweeID string `json:"followeeId" gorm:"column:followee_id;uniqueIndex:idx_follow_pair;not null"`
	gorm.Model
}

func (Follow) TableName() string {
	return "follows"
}

// FollowRequest is a pending follow from requester to target.
type FollowRequest struct {
	RequesterID string `json:"requesterId" gorm:"column:requester_id;uniqueIndex:idx_follow_request_pair;not null"`
	TargetID    string `json:"targetId" gorm:"column:target_id;uniqueIndex:idx_follow_request_pair;not null"`
	gorm.Model
}

func (FollowRequest) TableName() string {
	return "follow_requests"
}

// Block records that blocker has blocked blocked.
type Block struct {
	BlockerID string `json:"blockerId" gorm:"column:blocker_id;uniqueIndex:idx_block_pair;not null"`
	BlockedID string `json:"blockedId" gorm:"column:blocked_id;uniqueIndex:idx_block_pair;not null"`
	gorm.Model
}

func (Block) TableName() string {
	return "blocks"
}
