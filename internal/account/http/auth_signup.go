package http

import (
	"net/http"

	"github.com/aussiebroadwan/bizdesk/internal/account/service"
	"github.com/aussiebroadwan/bizdesk/pkg/accountsdk"
	"github.com/aussiebroadwan/bizdesk/pkg/httpx"
)

// SignupHandler serves POST /v1/auth/signup.
type SignupHandler struct {
	AuthService *service.AuthService
	Observer    *service.Observer
}

// ServeHTTP godoc
//
//	@Summary		Sign up
//	@Description	Registers the account with the identity provider and creates its profile on the free plan.
//	@Description	The current user is set only if the provider signed the new account in (no email confirmation pending).
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.SignupRequest	true	"Signup details"
//	@Success		200		{object}	accountsdk.AuthResult		"success, message, user"
//	@Failure		400		{object}	accountsdk.AuthResult		"success=false with the provider or store message"
//	@Failure		429		{object}	httpx.ErrorResponse			"rate limit exceeded"
//	@Router			/v1/auth/signup [post].
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req accountsdk.SignupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		accountsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return
	}

	res := h.AuthService.Signup(ctx, service.SignupInput{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		BusinessName: req.BusinessName,
	})
	if !res.Success {
		httpx.WriteJSON(w, http.StatusBadRequest, toResult(res))
		return
	}

	h.Observer.Commit(h.AuthService.GetCurrentUser(ctx))
	httpx.WriteJSON(w, http.StatusOK, toResult(res))
}
