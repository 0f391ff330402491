package post

import (
	"errors"

	"socialty-api/internal/errs"
	"socialty-api/internal/models"
	"socialty-api/internal/realtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service owns post mutations. Like the chat and game coordinators it
// persists first and returns the realtime events describing what changed;
// the caller decides how to deliver them.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Create stores a new post for userID. Media is a URL produced by the
// storage collaborator.
func (s *Service) Create(userID, media, caption string) (*models.Post, error) {
	if media == "" {
		return nil, errs.Invalid("A post needs a media attachment")
	}
	post := models.Post{
		ID:      uuid.NewString(),
		UserID:  userID,
		Media:   media,
		Caption: caption,
		Likes:   models.StringList{},
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, errs.Internal(err)
	}
	return &post, nil
}

// Feed returns the posts of userID and everyone they follow, newest first.
func (s *Service) Feed(userID string) ([]models.Post, error) {
	var follows []models.Follow
	if err := s.db.Where("follower_id = ?", userID).Find(&follows).Error; err != nil {
		return nil, errs.Internal(err)
	}
	authorIDs := []string{userID}
	for _, f := range follows {
		authorIDs = append(authorIDs, f.FolloweeID)
	}

	posts := []models.Post{}
	err := s.db.Preload("Comments").
		Where("user_id IN ?", authorIDs).
		Order("created_at desc").
		Find(&posts).Error
	if err != nil {
		return nil, errs.Internal(err)
	}
	return posts, nil
}

// ByUser returns one user's posts, newest first.
func (s *Service) ByUser(userID string) ([]models.Post, error) {
	posts := []models.Post{}
	err := s.db.Preload("Comments").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&posts).Error
	if err != nil {
		return nil, errs.Internal(err)
	}
	return posts, nil
}

// Like toggles userID's like on the post and reports the updated like set to
// everyone online.
func (s *Service) Like(postID, userID string) (*models.Post, []realtime.Outbound, error) {
	post, err := s.find(postID)
	if err != nil {
		return nil, nil, err
	}

	if post.Likes.Contains(userID) {
		post.Likes = post.Likes.Without(userID)
	} else {
		post.Likes = append(post.Likes, userID)
	}
	if err := s.db.Model(post).Update("likes", post.Likes).Error; err != nil {
		return nil, nil, errs.Internal(err)
	}

	events := []realtime.Outbound{
		realtime.ToAll(realtime.EventPostLiked, realtime.PostLiked{
			PostID: post.ID,
			Likes:  post.Likes,
		}),
	}
	return post, events, nil
}

// Comment appends a comment and notifies the post owner.
func (s *Service) Comment(postID, userID, body string) (*models.Post, []realtime.Outbound, error) {
	if body == "" {
		return nil, nil, errs.Invalid("Comment cannot be empty")
	}
	post, err := s.find(postID)
	if err != nil {
		return nil, nil, err
	}

	comment := models.Comment{
		ID:     uuid.NewString(),
		PostID: post.ID,
		UserID: userID,
		Body:   body,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, nil, errs.Internal(err)
	}
	post.Comments = append(post.Comments, comment)

	events := []realtime.Outbound{
		realtime.ToUser(post.UserID, realtime.EventPostCommented, realtime.PostCommented{
			PostID:   post.ID,
			Comments: post.Comments,
		}),
	}
	return post, events, nil
}

// Delete removes the post and its comments. Only the owner may delete.
func (s *Service) Delete(postID, userID string) ([]realtime.Outbound, error) {
	post, err := s.find(postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, errs.Invalid("You can only delete your own posts")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
	if err != nil {
		return nil, errs.Internal(err)
	}

	events := []realtime.Outbound{
		realtime.ToAll(realtime.EventPostDeleted, realtime.PostDeleted{PostID: post.ID}),
	}
	return events, nil
}

func (s *Service) find(postID string) (*models.Post, error) {
	var post models.Post
	err := s.db.Preload("Comments").Where("id = ?", postID).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("Post not found")
	}
	if err != nil {
		return nil, errs.Internal(err)
	}
	return &post, nil
}
