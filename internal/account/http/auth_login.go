package http

import (
	"net/http"

	"github.com/aussiebroadwan/bizdesk/internal/account/service"
	"github.com/aussiebroadwan/bizdesk/pkg/accountsdk"
	"github.com/aussiebroadwan/bizdesk/pkg/httpx"
)

// LoginHandler serves POST /v1/auth/login.
type LoginHandler struct {
	AuthService *service.AuthService
	Observer    *service.Observer
}

// ServeHTTP godoc
//
//	@Summary		Log in
//	@Description	Signs in with email and password and loads the profile. On success the user becomes the current user.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	accountsdk.AuthResult	"success, message, user"
//	@Failure		400		{object}	httpx.ErrorResponse		"malformed body"
//	@Failure		401		{object}	accountsdk.AuthResult	"success=false with the provider or store message"
//	@Failure		429		{object}	httpx.ErrorResponse		"rate limit exceeded"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		accountsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return
	}

	res := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if !res.Success {
		httpx.WriteJSON(w, http.StatusUnauthorized, toResult(res))
		return
	}

	h.Observer.Commit(res.User)
	httpx.WriteJSON(w, http.StatusOK, toResult(res))
}
