package api

import (
	"net/http"

	"bitflow/identity-api/pkg/apperr"
	"bitflow/identity-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type signupBody struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// AccountSignup registers a new account reachable by email or phone
// number. Verification is not granted yet; a signup code goes out on
// the matching channel.
func (a *API) AccountSignup(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data signupBody
	if err := c.ShouldBind(&data); err != nil {
		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		abortError(c, apperr.BadRequest("invalid_request_body"))
		return
	}

	var identifier string

	switch {
	case data.Email != "" && data.PhoneNumber != "":
		abortError(c, apperr.BadRequest("invalid_identifier"))
		return
	case data.Email != "":
		if err := validators.EmailValidator(data.Email); err != nil {
			abortError(c, apperr.BadRequest("invalid_email"))
			return
		}
		identifier = data.Email
	case data.PhoneNumber != "":
		normalized, err := validators.NormalizePhoneNumber(data.PhoneNumber)
		if err != nil {
			abortError(c, apperr.BadRequest("invalid_phone_number"))
			return
		}
		identifier = normalized
	default:
		abortError(c, apperr.BadRequest("invalid_identifier"))
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		zap.L().Debug("Invalid password", zap.Error(err), zap.String("requestID", requestID))
		abortError(c, apperr.BadRequest("invalid_password"))
		return
	}

	acct, err := a.Service.Signup(identifier, data.Password)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"accountID": acct.ID,
		"requestID": requestID,
	})
}
