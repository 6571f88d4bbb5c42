package http

import (
	"net/http"

	"github.com/aussiebroadwan/bizdesk/internal/account/service"
	"github.com/aussiebroadwan/bizdesk/pkg/httpx"
)

// LogoutHandler serves POST /v1/auth/logout. The current user is cleared
// only when the provider sign-out succeeds.
type LogoutHandler struct {
	AuthService *service.AuthService
	Observer    *service.Observer
}

// ServeHTTP godoc
//
//	@Summary		Log out
//	@Description	Ends the provider session and clears the current user. Logging out while signed out succeeds.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	accountsdk.AuthResult	"success, message"
//	@Failure		502	{object}	accountsdk.AuthResult	"success=false with the provider message"
//	@Router			/v1/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := h.AuthService.Logout(r.Context())
	if !res.Success {
		httpx.WriteJSON(w, http.StatusBadGateway, toResult(res))
		return
	}

	h.Observer.Commit(nil)
	httpx.WriteJSON(w, http.StatusOK, toResult(res))
}
