package domain

import "time"

// Chat is a conversation between one client and one professional.
type Chat struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	ClientID       int64     `json:"client_id" gorm:"not null;uniqueIndex:idx_chats_pair"`
	ProfessionalID int64     `json:"professional_id" gorm:"not null;uniqueIndex:idx_chats_pair"`
	LastMessageAt  time.Time `json:"last_message_at"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Chat) TableName() string { return "chats" }

func (c *Chat) HasParticipant(accountID int64) bool {
	return c.ClientID == accountID || c.ProfessionalID == accountID
}

type Message struct {
	ID        int64      `json:"id" gorm:"primaryKey"`
	ChatID    int64      `json:"chat_id" gorm:"not null;index"`
	SenderID  int64      `json:"sender_id" gorm:"not null;index"`
	Content   string     `json:"content" gorm:"type:text;not null"`
	IsRead    bool       `json:"is_read" gorm:"not null;default:false;index"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Message) TableName() string { return "messages" }
