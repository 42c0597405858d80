package api

import (
	"net/http"

	"bitflow/identity-api/pkg/apperr"
	"bitflow/identity-api/validators"

	"github.com/gin-gonic/gin"
)

type resetPasswordBody struct {
	Identifier string `json:"identifier"`
}

// AccountResetPassword starts the forgotten-password flow and sends a
// reset code to the account's channel.
func (a *API) AccountResetPassword(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data resetPasswordBody
	if err := c.ShouldBind(&data); err != nil || data.Identifier == "" {
		abortError(c, apperr.BadRequest("invalid_request_body"))
		return
	}

	if err := a.Service.ResetPassword(data.Identifier); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requestID": requestID})
}

type verifyResetPasswordBody struct {
	Identifier string `json:"identifier"`
	Code       string `json:"code"`
	Password   string `json:"password"`
}

// AccountVerifyResetPassword trades a valid reset code for a new
// password.
func (a *API) AccountVerifyResetPassword(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data verifyResetPasswordBody
	if err := c.ShouldBind(&data); err != nil || data.Identifier == "" || data.Code == "" {
		abortError(c, apperr.BadRequest("invalid_request_body"))
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		abortError(c, apperr.BadRequest("invalid_password"))
		return
	}

	if err := a.Service.VerifyResetPassword(data.Identifier, data.Code, data.Password); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requestID": requestID})
}

type changePasswordBody struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// AccountChangePassword rotates the password of the authenticated
// account.
func (a *API) AccountChangePassword(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data changePasswordBody
	if err := c.ShouldBind(&data); err != nil || data.OldPassword == "" {
		abortError(c, apperr.BadRequest("invalid_request_body"))
		return
	}

	if err := validators.PasswordValidator(data.NewPassword); err != nil {
		abortError(c, apperr.BadRequest("invalid_password"))
		return
	}

	if err := a.Service.ChangePassword(currentAccount(c), data.OldPassword, data.NewPassword); err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requestID": requestID})
}
