package models

import (
	"gorm.io/gorm"
)

// Post is a feed entry: one media attachment plus a caption. Likes holds the
// ids of users who currently like the post.
type Post struct {
	ID       string     `json:"_id" gorm:"primaryKey"`
	UserID   string     `json:"userId" gorm:"column:user_id;index;not null"`
	Media    string     `json:"media" gorm:"not null"`
	Caption  string     `json:"caption"`
	Likes    StringList `json:"likes" gorm:"type:text"`
	Comments []Comment  `json:"comments" gorm:"foreignKey:PostID"`
	gorm.Model
}

// TableName specifies the table name for Post Model
func (Post) TableName() string {
	return "posts"
}

// Comment is a single comment on a post.
type Comment struct {
	ID     string `json:"_id" gorm:"primaryKey"`
	PostID string `json:"postId" gorm:"column:post_id;index;not null"`
	UserID string `json:"userId" gorm:"column:user_id;not null"`
	Body   string `json:"comment" gorm:"column:comment"`
	gorm.Model
}

// TableName specifies the table name for Comment Model
func (Comment) TableName() string {
	return "comments"
}
