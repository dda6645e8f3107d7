package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txunajob/internal/domain"
	"txunajob/internal/middleware"
	"txunajob/internal/pkg/access"
	"txunajob/internal/pkg/jwt"
	"txunajob/internal/pkg/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T) (*gin.Engine, *fixture, func(method, path string, actor *access.Actor, body any) *httptest.ResponseRecorder) {
	t.Helper()
	f := newFixture(t)
	tokens := jwt.New("chat-secret", time.Hour)
	h := NewHandler(f.svc, testutil.Logger())

	router := gin.New()
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuth(tokens))
	h.RegisterRoutes(protected)

	client := protected.Group("/client")
	client.Use(middleware.RequireRole(domain.RoleClient))
	h.RegisterClientRoutes(client)

	do := func(method, path string, actor *access.Actor, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		token, err := tokens.GenerateToken(actor.ID, string(actor.Role))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}
	return router, f, do
}

func TestHandler_ChatFlow(t *testing.T) {
	_, f, do := setupRouter(t)

	w := do(http.MethodPost, "/api/client/chats", f.client, gin.H{"professional_id": f.pro.ID, "initial_message": "Hi"})
	require.Equal(t, http.StatusCreated, w.Code)
	var opened struct {
		Data struct {
			Chat           ChatResponse    `json:"chat"`
			InitialMessage MessageResponse `json:"initial_message"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opened))
	chatID := opened.Data.Chat.ID
	assert.Equal(t, "Hi", opened.Data.InitialMessage.Content)

	w = do(http.MethodPost, fmt.Sprintf("/api/chats/%d/messages", chatID), f.pro, gin.H{"content": "Hello!"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(http.MethodGet, fmt.Sprintf("/api/client/chats/%d/messages", chatID), f.client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Data struct {
			Messages []MessageResponse `json:"messages"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Data.Messages, 2)
	assert.Equal(t, "Hello!", listed.Data.Messages[1].Content)

	w = do(http.MethodPost, fmt.Sprintf("/api/chats/%d/read", chatID), f.client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"marked_count":1`)
}

func TestHandler_Errors(t *testing.T) {
	_, f, do := setupRouter(t)

	w := do(http.MethodPost, "/api/client/chats", f.pro, gin.H{"professional_id": f.pro.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(http.MethodPost, "/api/client/chats", f.client, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(http.MethodPost, "/api/client/chats", f.client, gin.H{"professional_id": f.other.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)

	chat, _, err := f.svc.Open(t.Context(), f.client, OpenChatRequest{ProfessionalID: f.pro.ID})
	require.NoError(t, err)

	w = do(http.MethodPost, fmt.Sprintf("/api/chats/%d/messages", chat.ID), f.other, gin.H{"content": "hey"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_OWNER")

	w = do(http.MethodPost, fmt.Sprintf("/api/chats/%d/messages", chat.ID), f.client, gin.H{"content": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(http.MethodPost, "/api/chats/abc/read", f.client, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(http.MethodGet, "/api/chats/777/messages", f.client, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
