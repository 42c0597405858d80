package middleware

import (
	"strings"

	"bitflow/identity-api/internal/account"
	"bitflow/identity-api/pkg/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccountKey is where the auth middleware stores the authenticated
// account in the gin context.
const AccountKey = "account"

// NewAuthMiddleware authenticates requests by the bearer token in the
// Authorization header. All token and account-state decisions live in
// the account service; this only moves bytes and translates failures.
func NewAuthMiddleware(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(apperr.KindUnauthorized.HTTPStatus(), gin.H{
				"error":     "invalid_token",
				"requestID": requestID,
			})
			return
		}

		acct, err := svc.AuthenticateByAccessToken(token)
		if err != nil {
			e := apperr.From(err)
			if e.Kind == apperr.KindInternal {
				zap.L().Error("Authentication failed", zap.Error(err), zap.String("requestID", requestID))
			}

			c.AbortWithStatusJSON(e.Kind.HTTPStatus(), gin.H{
				"error":     e.Code,
				"requestID": requestID,
			})
			return
		}

		c.Set(AccountKey, acct)
		c.Set("accountID", acct.ID)
		c.Next()
	}
}
