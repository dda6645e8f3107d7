package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"txunajob/internal/domain"
	"txunajob/internal/pkg/access"
	"txunajob/internal/repository"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 100
	maxContentLength    = 4000
)

// Service stores chats between a client and a professional. Delivery is
// pull-based; readers poll the message list.
type Service struct {
	chats    ChatRepository
	accounts AccountRepository
	log      *logrus.Logger
	now      func() time.Time
}

func NewService(chats ChatRepository, accounts AccountRepository, log *logrus.Logger) *Service {
	return &Service{
		chats:    chats,
		accounts: accounts,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Open returns the client's chat with a professional, creating it on first
// contact. A non-empty initial message is posted into the chat.
func (s *Service) Open(ctx context.Context, actor *access.Actor, req OpenChatRequest) (*domain.Chat, *domain.Message, error) {
	if err := access.Authorize(actor, domain.RoleClient, nil).Err(); err != nil {
		return nil, nil, err
	}

	pro, err := s.accounts.GetByID(ctx, req.ProfessionalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrRecipientNotFound
		}
		return nil, nil, err
	}
	if pro.Role != domain.RoleProfessional {
		return nil, nil, ErrRecipientNotFound
	}

	chat, err := s.chats.GetOrCreate(ctx, actor.ID, pro.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("open chat: %w", err)
	}

	var msg *domain.Message
	if strings.TrimSpace(req.InitialMessage) != "" {
		msg, err = s.post(ctx, actor.ID, chat, req.InitialMessage)
		if err != nil {
			return nil, nil, err
		}
	}
	return chat, msg, nil
}

func (s *Service) Send(ctx context.Context, actor *access.Actor, chatID int64, content string) (*domain.Message, error) {
	chat, err := s.participantChat(ctx, actor, chatID)
	if err != nil {
		return nil, err
	}
	return s.post(ctx, actor.ID, chat, content)
}

func (s *Service) Messages(ctx context.Context, actor *access.Actor, chatID int64, limit int) ([]domain.Message, error) {
	if _, err := s.participantChat(ctx, actor, chatID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}
	return s.chats.GetMessages(ctx, chatID, limit)
}

// MarkRead flags the other participant's messages as read and returns how
// many changed.
func (s *Service) MarkRead(ctx context.Context, actor *access.Actor, chatID int64) (int64, error) {
	if _, err := s.participantChat(ctx, actor, chatID); err != nil {
		return 0, err
	}
	return s.chats.MarkRead(ctx, chatID, actor.ID)
}

func (s *Service) post(ctx context.Context, senderID int64, chat *domain.Chat, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return nil, ErrContentTooLong
	}

	msg := &domain.Message{
		ChatID:    chat.ID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.chats.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	s.log.WithFields(logrus.Fields{"chat_id": chat.ID, "sender_id": senderID}).Debug("message stored")
	return msg, nil
}

// participantChat loads the chat and checks the actor is one of its two
// participants. Admins are not participants.
func (s *Service) participantChat(ctx context.Context, actor *access.Actor, chatID int64) (*domain.Chat, error) {
	if actor == nil || actor.ID <= 0 {
		return nil, access.ErrUnauthenticated
	}
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	if !chat.HasParticipant(actor.ID) {
		return nil, access.ErrNotOwner
	}
	return chat, nil
}
