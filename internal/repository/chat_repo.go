package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"txunajob/internal/database"
	"txunajob/internal/domain"
)

type ChatRepository struct {
	store *database.Store
}

func NewChatRepository(store *database.Store) *ChatRepository {
	return &ChatRepository{store: store}
}

// GetOrCreate returns the chat for the pair, creating it on first contact.
func (r *ChatRepository) GetOrCreate(ctx context.Context, clientID, professionalID int64) (*domain.Chat, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return nil, err
	}
	chat := domain.Chat{ClientID: clientID, ProfessionalID: professionalID}
	err = db.Where("client_id = ? AND professional_id = ?", clientID, professionalID).
		Attrs(domain.Chat{LastMessageAt: time.Now().UTC()}).
		FirstOrCreate(&chat).Error
	if err != nil {
		if _, dup := UniqueViolation(err); dup {
			// lost a creation race; the other request's row is the chat
			err = db.Where("client_id = ? AND professional_id = ?", clientID, professionalID).First(&chat).Error
		}
		if err != nil {
			return nil, err
		}
	}
	return &chat, nil
}

func (r *ChatRepository) GetByID(ctx context.Context, id int64) (*domain.Chat, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return nil, err
	}
	var chat domain.Chat
	if err := db.First(&chat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// CreateMessage stores msg and bumps the chat's last activity.
func (r *ChatRepository) CreateMessage(ctx context.Context, msg *domain.Message) error {
	db, err := r.store.Session(ctx)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Chat{}).
			Where("id = ?", msg.ChatID).
			Update("last_message_at", msg.CreatedAt).Error
	})
}

// GetMessages returns up to limit messages in chronological order.
func (r *ChatRepository) GetMessages(ctx context.Context, chatID int64, limit int) ([]domain.Message, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return nil, err
	}
	var messages []domain.Message
	err = db.Where("chat_id = ?", chatID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// MarkRead flags every message the reader did not send as read.
func (r *ChatRepository) MarkRead(ctx context.Context, chatID, readerID int64) (int64, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return 0, err
	}
	res := db.Model(&domain.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chatID, readerID, false).
		Updates(map[string]any{"is_read": true, "read_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

// CountUnread counts unread messages addressed to the account across all
// of its chats.
func (r *ChatRepository) CountUnread(ctx context.Context, accountID int64) (int64, error) {
	db, err := r.store.Session(ctx)
	if err != nil {
		return 0, err
	}
	chats := db.Model(&domain.Chat{}).
		Select("id").
		Where("client_id = ? OR professional_id = ?", accountID, accountID)

	var count int64
	err = db.Model(&domain.Message{}).
		Where("chat_id IN (?)", chats).
		Where("sender_id <> ? AND is_read = ?", accountID, false).
		Count(&count).Error
	return count, err
}
