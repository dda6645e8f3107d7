package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"txunajob/internal/database"
	"txunajob/internal/domain"
	"txunajob/internal/pkg/response"
	"txunajob/internal/repository"
)

type AccountLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
}

// ActiveAccount re-checks the account behind an authenticated token, so a
// suspension takes effect before the token expires. Anonymous requests pass.
// When the store is down the request continues: writes fail at the store and
// reads are served degraded.
func ActiveAccount(accounts AccountLookup, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := CurrentActor(c)
		if actor == nil {
			c.Next()
			return
		}

		account, err := accounts.GetByID(c.Request.Context(), actor.ID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.Error(c, http.StatusUnauthorized, "ACCOUNT_NOT_FOUND", "Account no longer exists")
			c.Abort()
		case database.IsUnavailable(err):
			c.Next()
		case err != nil:
			log.WithError(err).WithField("account_id", actor.ID).Error("account status lookup failed")
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			c.Abort()
		case account.IsSuspended():
			response.Error(c, http.StatusForbidden, "ACCOUNT_SUSPENDED", "Account is suspended")
			c.Abort()
		default:
			c.Next()
		}
	}
}
