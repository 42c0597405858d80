package api

import (
	"net/http"

	"bitflow/identity-api/pkg/apperr"

	"github.com/gin-gonic/gin"
)

type changeEmailBody struct {
	Email string `json:"email"`
}

// AccountChangeEmail starts an email change; the new address gets a
// code and nothing moves until it's verified.
func (a *API) AccountChangeEmail(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data changeEmailBody
	if err := c.ShouldBind(&data); err != nil || data.Email == "" {
		abortError(c, apperr.BadRequest("invalid_request_body"))
		return
	}

	if err := a.Service.ChangeEmail(currentAccount(c), data.Email); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requestID": requestID})
}

type changeCodeBody struct {
	Code string `json:"code"`
}

// AccountVerifyChangeEmail completes a pending email change.
func (a *API) AccountVerifyChangeEmail(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data changeCodeBody
	if err := c.ShouldBind(&data); err != nil || data.Code == "" {
		abortError(c, apperr.BadRequest("invalid_request_body"))
		return
	}

	if err := a.Service.VerifyChangeEmail(currentAccount(c), data.Code); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requestID": requestID})
}

type changePhoneBody struct {
	PhoneNumber string `json:"phone_number"`
}

// AccountChangePhoneNumber starts a phone number change.
func (a *API) AccountChangePhoneNumber(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data changePhoneBody
	if err := c.ShouldBind(&data); err != nil || data.PhoneNumber == "" {
		abortError(c, apperr.BadRequest("invalid_request_body"))
		return
	}

	if err := a.Service.ChangePhoneNumber(currentAccount(c), data.PhoneNumber); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requestID": requestID})
}

// AccountVerifyChangePhoneNumber completes a pending phone number
// change.
func (a *API) AccountVerifyChangePhoneNumber(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data changeCodeBody
	if err := c.ShouldBind(&data); err != nil || data.Code == "" {
		abortError(c, apperr.BadRequest("invalid_request_body"))
		return
	}

	if err := a.Service.VerifyChangePhoneNumber(currentAccount(c), data.Code); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requestID": requestID})
}

type changeUsernameBody struct {
	Username string `json:"username"`
}

// AccountChangeUsername writes a new username directly; usernames have
// no verification step.
func (a *API) AccountChangeUsername(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data changeUsernameBody
	if err := c.ShouldBind(&data); err != nil || data.Username == "" {
		abortError(c, apperr.BadRequest("invalid_request_body"))
		return
	}

	if err := a.Service.ChangeUsername(currentAccount(c), data.Username); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requestID": requestID})
}
