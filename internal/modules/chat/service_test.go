package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txunajob/internal/database"
	"txunajob/internal/domain"
	"txunajob/internal/pkg/access"
	"txunajob/internal/pkg/testutil"
	"txunajob/internal/repository"
)

type fixture struct {
	store  *database.Store
	chats  *repository.ChatRepository
	svc    *Service
	pro    *access.Actor
	client *access.Actor
	other  *access.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore(t)
	chats := repository.NewChatRepository(store)
	actor := func(username string, role domain.Role) *access.Actor {
		a := testutil.SeedAccount(t, store, username, role)
		return &access.Actor{ID: a.ID, Role: role}
	}
	return &fixture{
		store:  store,
		chats:  chats,
		svc:    NewService(chats, repository.NewAccountRepository(store), testutil.Logger()),
		pro:    actor("pro", domain.RoleProfessional),
		client: actor("cli", domain.RoleClient),
		other:  actor("other", domain.RoleClient),
	}
}

func TestOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	chat, msg, err := f.svc.Open(ctx, f.client, OpenChatRequest{ProfessionalID: f.pro.ID})
	require.NoError(t, err)
	assert.Nil(t, msg)
	assert.Equal(t, f.client.ID, chat.ClientID)
	assert.Equal(t, f.pro.ID, chat.ProfessionalID)

	again, msg, err := f.svc.Open(ctx, f.client, OpenChatRequest{ProfessionalID: f.pro.ID, InitialMessage: " Hello "})
	require.NoError(t, err)
	assert.Equal(t, chat.ID, again.ID, "one chat per pair")
	require.NotNil(t, msg)
	assert.Equal(t, "Hello", msg.Content)
}

func TestOpen_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Open(ctx, f.pro, OpenChatRequest{ProfessionalID: f.pro.ID})
	assert.ErrorIs(t, err, access.ErrRoleMismatch)

	_, _, err = f.svc.Open(ctx, nil, OpenChatRequest{ProfessionalID: f.pro.ID})
	assert.ErrorIs(t, err, access.ErrUnauthenticated)

	_, _, err = f.svc.Open(ctx, f.client, OpenChatRequest{ProfessionalID: f.other.ID})
	assert.ErrorIs(t, err, ErrRecipientNotFound)

	_, _, err = f.svc.Open(ctx, f.client, OpenChatRequest{ProfessionalID: 999999})
	assert.ErrorIs(t, err, ErrRecipientNotFound)
}

func TestSendAndRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	chat, _, err := f.svc.Open(ctx, f.client, OpenChatRequest{ProfessionalID: f.pro.ID})
	require.NoError(t, err)

	_, err = f.svc.Send(ctx, f.client, chat.ID, "Can you come Monday?")
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, f.client, chat.ID, "Around 9")
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, f.pro, chat.ID, "Yes")
	require.NoError(t, err)

	unread, err := f.chats.CountUnread(ctx, f.pro.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	msgs, err := f.svc.Messages(ctx, f.pro, chat.ID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "Can you come Monday?", msgs[0].Content)
	assert.Equal(t, "Yes", msgs[2].Content)

	marked, err := f.svc.MarkRead(ctx, f.pro, chat.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, marked)

	unread, err = f.chats.CountUnread(ctx, f.pro.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	unread, err = f.chats.CountUnread(ctx, f.client.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)
}

func TestParticipantsOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := &access.Actor{ID: testutil.SeedAccount(t, f.store, "root", domain.RoleAdmin).ID, Role: domain.RoleAdmin}

	chat, _, err := f.svc.Open(ctx, f.client, OpenChatRequest{ProfessionalID: f.pro.ID})
	require.NoError(t, err)

	_, err = f.svc.Send(ctx, f.other, chat.ID, "hi")
	assert.ErrorIs(t, err, access.ErrNotOwner)

	_, err = f.svc.Messages(ctx, admin, chat.ID, 10)
	assert.ErrorIs(t, err, access.ErrNotOwner)

	_, err = f.svc.MarkRead(ctx, f.other, chat.ID)
	assert.ErrorIs(t, err, access.ErrNotOwner)

	_, err = f.svc.Send(ctx, f.client, 424242, "hi")
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestSend_Content(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chat, _, err := f.svc.Open(ctx, f.client, OpenChatRequest{ProfessionalID: f.pro.ID})
	require.NoError(t, err)

	_, err = f.svc.Send(ctx, f.client, chat.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = f.svc.Send(ctx, f.client, chat.ID, strings.Repeat("a", maxContentLength+1))
	assert.ErrorIs(t, err, ErrContentTooLong)
}

func TestStoreUnavailable(t *testing.T) {
	store := database.Unavailable(errors.New("dial tcp: connection refused"))
	svc := NewService(repository.NewChatRepository(store), repository.NewAccountRepository(store), testutil.Logger())

	_, err := svc.Send(context.Background(), &access.Actor{ID: 1, Role: domain.RoleClient}, 1, "hi")
	assert.True(t, database.IsUnavailable(err))
}
