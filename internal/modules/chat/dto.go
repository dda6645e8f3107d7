package chat

import (
	"time"

	"txunajob/internal/domain"
)

type OpenChatRequest struct {
	ProfessionalID int64  `json:"professional_id" binding:"required,gt=0"`
	InitialMessage string `json:"initial_message"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type ChatResponse struct {
	ID             int64     `json:"id"`
	ClientID       int64     `json:"client_id"`
	ProfessionalID int64     `json:"professional_id"`
	LastMessageAt  time.Time `json:"last_message_at"`
	CreatedAt      time.Time `json:"created_at"`
}

type MessageResponse struct {
	ID        int64      `json:"id"`
	ChatID    int64      `json:"chat_id"`
	SenderID  int64      `json:"sender_id"`
	Content   string     `json:"content"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func ToChatResponse(c *domain.Chat) *ChatResponse {
	if c == nil {
		return nil
	}
	return &ChatResponse{
		ID:             c.ID,
		ClientID:       c.ClientID,
		ProfessionalID: c.ProfessionalID,
		LastMessageAt:  c.LastMessageAt,
		CreatedAt:      c.CreatedAt,
	}
}

func ToMessageResponse(m *domain.Message) *MessageResponse {
	if m == nil {
		return nil
	}
	return &MessageResponse{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		IsRead:    m.IsRead,
		ReadAt:    m.ReadAt,
		CreatedAt: m.CreatedAt,
	}
}

func ToMessageResponses(msgs []domain.Message) []*MessageResponse {
	out := make([]*MessageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, ToMessageResponse(&msgs[i]))
	}
	return out
}
