package api

import (
	"net/http"

	"bitflow/identity-api/pkg/apperr"

	"github.com/gin-gonic/gin"
)

type signinBody struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// AccountSignin authenticates by email, phone number or username and
// returns an access/refresh token pair.
func (a *API) AccountSignin(c *gin.Context) {
	var data signinBody
	if err := c.ShouldBind(&data); err != nil || data.Identifier == "" || data.Password == "" {
		abortError(c, apperr.BadRequest("invalid_request_body"))
		return
	}

	pair, err := a.Service.Signin(data.Identifier, data.Password)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

type refreshBody struct {
	RefreshToken string `json:"refresh_token"`
}

// AccountRefresh exchanges a refresh token for a new token pair.
func (a *API) AccountRefresh(c *gin.Context) {
	var data refreshBody
	if err := c.ShouldBind(&data); err != nil || data.RefreshToken == "" {
		abortError(c, apperr.BadRequest("invalid_request_body"))
		return
	}

	pair, err := a.Service.RefreshAccessToken(data.RefreshToken)
	if err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}
