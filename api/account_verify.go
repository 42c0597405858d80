package api

import (
	"net/http"

	"bitflow/identity-api/pkg/apperr"

	"github.com/gin-gonic/gin"
)

type resendBody struct {
	AccountID string `json:"account_id"`
}

// AccountResendCode refreshes the signup code of an unverified account
// and sends it out again. Refreshing rotates the short numeric code.
func (a *API) AccountResendCode(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data resendBody
	if err := c.ShouldBind(&data); err != nil || data.AccountID == "" {
		abortError(c, apperr.BadRequest("invalid_request_body"))
		return
	}

	if err := a.Service.ResendSignupCode(data.AccountID); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requestID": requestID})
}

type verifyBody struct {
	AccountID string `json:"account_id"`
	Code      string `json:"code"`
}

// AccountVerify completes a signup with the long or short form of the
// signup code.
func (a *API) AccountVerify(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data verifyBody
	if err := c.ShouldBind(&data); err != nil || data.AccountID == "" || data.Code == "" {
		abortError(c, apperr.BadRequest("invalid_request_body"))
		return
	}

	if err := a.Service.VerifySignup(data.AccountID, data.Code); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requestID": requestID})
}
