package chat

import (
	"errors"
	"time"

	"socialty-api/internal/errs"
	"socialty-api/internal/models"
	"socialty-api/internal/realtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service coordinates direct messaging: conversation bookkeeping, message
// persistence, and the events peers should receive. Methods mutate and
// persist, then return the outbound events; the caller delivers them.
type Service struct {
	db *gorm.DB
}

// NewService creates a messaging coordinator over db.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SendMessage appends a message to the pair's conversation, creating the
// conversation on first contact. The receiver gets a newMessage event and
// everyone gets the updated conversation summary.
func (s *Service) SendMessage(senderID, receiverID, body, file string) (*models.Message, []realtime.Outbound, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("id IN ?", []string{senderID, receiverID}).Count(&count).Error; err != nil {
		return nil, nil, errs.Internal(err)
	}
	want := int64(2)
	if senderID == receiverID {
		want = 1
	}
	if count < want {
		return nil, nil, errs.NotFound("User not found")
	}

	conv, err := s.findOrCreateConversation(senderID, receiverID)
	if err != nil {
		return nil, nil, err
	}

	msg := models.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Body:           body,
		File:           file,
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, nil, errs.Internal(err)
	}

	conv.LastMessageTimestamp = time.Now()
	if senderID != receiverID {
		conv.UnreadCount++
	}
	if err := s.db.Save(conv).Error; err != nil {
		return nil, nil, errs.Internal(err)
	}

	events := []realtime.Outbound{
		realtime.ToUser(receiverID, realtime.EventNewMessage, msg),
		realtime.ToAll(realtime.EventUpdateConversation, realtime.ConversationUpdate{
			ConversationID:       conv.ID,
			LastMessageTimestamp: conv.LastMessageTimestamp,
			UnreadCount:          conv.UnreadCount,
		}),
	}
	return &msg, events, nil
}

// LikeMessage sets the liked flag. Liking is one-way (no unlike) and
// idempotent: re-liking changes nothing and emits nothing.
func (s *Service) LikeMessage(messageID string) ([]realtime.Outbound, error) {
	msg, err := s.findMessage(messageID)
	if err != nil {
		return nil, err
	}
	if msg.Deleted {
		return nil, errs.Invalid("Cannot like a deleted message")
	}
	if msg.Liked {
		return nil, nil
	}

	msg.Liked = true
	if err := s.db.Save(msg).Error; err != nil {
		return nil, errs.Internal(err)
	}

	// Both sides are notified independently; either may be offline.
	return []realtime.Outbound{
		realtime.ToPair(msg.SenderID, msg.ReceiverID, realtime.EventMessageLiked, realtime.MessageRef{MessageID: messageID}),
	}, nil
}

// DeleteMessage replaces the body with the tombstone text and marks the
// message deleted. Terminal: deleting twice is a no-op. Only the receiver is
// notified.
func (s *Service) DeleteMessage(messageID string) ([]realtime.Outbound, error) {
	msg, err := s.findMessage(messageID)
	if err != nil {
		return nil, err
	}
	if msg.Deleted {
		return nil, nil
	}

	msg.Body = models.DeletedMessageBody
	msg.Deleted = true
	if err := s.db.Save(msg).Error; err != nil {
		return nil, errs.Internal(err)
	}

	return []realtime.Outbound{
		realtime.ToUser(msg.ReceiverID, realtime.EventMessageDeleted, realtime.MessageRef{MessageID: messageID}),
	}, nil
}

// GetMessages returns the pair's messages in chronological order. No
// conversation yet means an empty slice, never an error.
func (s *Service) GetMessages(userA, userB string) ([]models.Message, error) {
	conv, err := s.findConversation(userA, userB)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return []models.Message{}, nil
	}

	var messages []models.Message
	if err := s.db.Where("conversation_id = ?", conv.ID).Order("created_at asc").Find(&messages).Error; err != nil {
		return nil, errs.Internal(err)
	}
	return messages, nil
}

// GetLastMessage returns the most recent message between the pair, or nil if
// there is none.
func (s *Service) GetLastMessage(userA, userB string) (*models.Message, error) {
	conv, err := s.findConversation(userA, userB)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, nil
	}

	var msg models.Message
	err = s.db.Where("conversation_id = ?", conv.ID).Order("created_at desc").First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Internal(err)
	}
	return &msg, nil
}

// MarkConversationRead resets the unread counter of the pair's conversation.
func (s *Service) MarkConversationRead(userA, userB string) error {
	conv, err := s.findConversation(userA, userB)
	if err != nil {
		return err
	}
	if conv == nil {
		return nil
	}
	if err := s.db.Model(conv).Update("unread_count", 0).Error; err != nil {
		return errs.Internal(err)
	}
	return nil
}

func (s *Service) findMessage(messageID string) (*models.Message, error) {
	var msg models.Message
	err := s.db.Where("id = ?", messageID).First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("Message not found")
	}
	if err != nil {
		return nil, errs.Internal(err)
	}
	return &msg, nil
}

func (s *Service) findConversation(userA, userB string) (*models.Conversation, error) {
	a, b := models.ParticipantPair(userA, userB)
	var conv models.Conversation
	err := s.db.Where("participant_a = ? AND participant_b = ?", a, b).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Internal(err)
	}
	return &conv, nil
}

func (s *Service) findOrCreateConversation(userA, userB string) (*models.Conversation, error) {
	conv, err := s.findConversation(userA, userB)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}

	a, b := models.ParticipantPair(userA, userB)
	created := models.Conversation{
		ID:           uuid.NewString(),
		ParticipantA: a,
		ParticipantB: b,
	}
	if err := s.db.Create(&created).Error; err != nil {
		return nil, errs.Internal(err)
	}
	return &created, nil
}
