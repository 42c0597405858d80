package api

import (
	"bitflow/identity-api/internal/model"
	"bitflow/identity-api/middleware"
	"bitflow/identity-api/pkg/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// abortError translates a service failure into the transport response:
// kind picks the status, the code string is returned verbatim.
func abortError(c *gin.Context, err error) {
	requestID := c.MustGet("requestID").(string)

	e := apperr.From(err)
	if e.Kind == apperr.KindInternal {
		zap.L().Error("Request failed", zap.Error(err), zap.String("requestID", requestID))
	}

	c.AbortWithStatusJSON(e.Kind.HTTPStatus(), gin.H{
		"error":     e.Code,
		"requestID": requestID,
	})
}

// currentAccount returns the principal the auth middleware stored on
// the context.
func currentAccount(c *gin.Context) *model.Account {
	return c.MustGet(middleware.AccountKey).(*model.Account)
}
