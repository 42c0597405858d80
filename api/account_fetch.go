package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AccountFetch returns the public fields of the authenticated account.
func (a *API) AccountFetch(c *gin.Context) {
	acct := currentAccount(c)

	c.JSON(http.StatusOK, gin.H{
		"id":           acct.ID,
		"username":     acct.Username,
		"email":        acct.Email,
		"phone_number": acct.PhoneNumber,
		"is_verified":  acct.IsVerified,
		"created_at":   acct.CreatedAt,
	})
}

// AccountDelete soft-deletes the authenticated account. Tokens issued
// before the delete stop authenticating on the next request.
func (a *API) AccountDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	if err := a.Service.DeleteAccount(currentAccount(c)); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requestID": requestID})
}
