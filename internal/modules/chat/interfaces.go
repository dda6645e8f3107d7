package chat

import (
	"context"

	"txunajob/internal/domain"
)

type ChatRepository interface {
	GetOrCreate(ctx context.Context, clientID, professionalID int64) (*domain.Chat, error)
	GetByID(ctx context.Context, id int64) (*domain.Chat, error)
	CreateMessage(ctx context.Context, msg *domain.Message) error
	GetMessages(ctx context.Context, chatID int64, limit int) ([]domain.Message, error)
	MarkRead(ctx context.Context, chatID, readerID int64) (int64, error)
}

type AccountRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
}
