package models

import (
	"time"

	"gorm.io/gorm"
)

// DeletedMessageBody replaces the body of a deleted message. The flag and the
// tombstone text always change together.
const DeletedMessageBody = "This message is deleted."

// Conversation is the unique per-pair container of messages between two users.
// Participants are stored in canonical order so the pair maps to exactly one row.
type Conversation struct {
	ID                   string    `json:"_id" gorm:"primaryKey"`
	ParticipantA         string    `json:"-" gorm:"column:participant_a;uniqueIndex:idx_conversation_pair;not null"`
	ParticipantB         string    `json:"-" gorm:"column:participant_b;uniqueIndex:idx_conversation_pair;not null"`
	LastMessageTimestamp time.Time `json:"lastMessageTimestamp" gorm:"column:last_message_timestamp"`
	UnreadCount          int       `json:"unreadCount" gorm:"column:unread_count;default:0"`
	gorm.Model
}

// TableName specifies the table name for Conversation Model
func (Conversation) TableName() string {
	return "conversations"
}

// ParticipantPair returns the two user ids in canonical (sorted) order.
func ParticipantPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// Message is a direct message inside a conversation. Sender, receiver and
// creation time are immutable once written; only the liked/deleted/read flags
// mutate afterwards.
type Message struct {
	ID             string `json:"_id" gorm:"primaryKey"`
	ConversationID string `json:"conversationId" gorm:"column:conversation_id;index;not null"`
	SenderID       string `json:"senderId" gorm:"column:sender_id;not null"`
	ReceiverID     string `json:"receiverId" gorm:"column:receiver_id;not null"`
	Body           string `json:"message" gorm:"column:message"`
	File           string `json:"file"`
	Liked          bool   `json:"isLiked" gorm:"column:is_liked;default:false"`
	Deleted        bool   `json:"deleted" gorm:"default:false"`
	Read           bool   `json:"read" gorm:"default:false"`
	gorm.Model
}

// TableName specifies the table name for Message Model
func (Message) TableName() string {
	return "messages"
}
