package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// DefaultConversationTitle is the placeholder replaced by the first
// question once a reply succeeds.
const DefaultConversationTitle = "Nova Conversa"

// Conversation belongs to exactly one user.
type Conversation struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(64);not null;index:idx_user_created,priority:1"`
	Title     string    `json:"title" gorm:"size:255;not null;default:'Nova Conversa'"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index:idx_user_created,priority:2"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM.
func (*Conversation) TableName() string {
	return "conversations"
}

// BeforeCreate assigns a UUID v4 and the placeholder title.
func (c *Conversation) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Title == "" {
		c.Title = DefaultConversationTitle
	}
	return nil
}

// Sender identifies the author of a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is append-only. Ordering is (created_at, id); the ULID id keeps
// messages created in the same instant in insertion order.
type Message struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	ConversationID string    `json:"conversation_id" gorm:"type:varchar(36);not null;index:idx_conv_created,priority:1"`
	Sender         Sender    `json:"sender" gorm:"type:varchar(16);not null"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime;index:idx_conv_created,priority:2"`
}

// TableName returns the table name for GORM.
func (*Message) TableName() string {
	return "messages"
}

// BeforeCreate assigns a ULID.
func (m *Message) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = ulid.Make().String()
	}
	return nil
}

// All returns every model for AutoMigrate.
func All() []any {
	return []any{&User{}, &Document{}, &Conversation{}, &Message{}}
}
