package http

import (
	"net/http"

	"github.com/aussiebroadwan/bizdesk/internal/account/domain"
	"github.com/aussiebroadwan/bizdesk/internal/account/service"
	"github.com/aussiebroadwan/bizdesk/pkg/accountsdk"
	"github.com/aussiebroadwan/bizdesk/pkg/httpx"
)

// AccountHandler serves the current user's profile.
type AccountHandler struct {
	AuthService *service.AuthService
	Observer    *service.Observer
}

// HandleGet godoc
//
//	@Summary		Current user
//	@Description	Returns the current user held by the session observer.
//	@Tags			Account
//	@Produce		json
//	@Success		200	{object}	accountsdk.User
//	@Failure		401	{object}	httpx.ErrorResponse	"nobody is signed in"
//	@Router			/v1/account [get].
func (h *AccountHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u := h.Observer.Current()
	if u == nil {
		accountsdk.ErrUnauthenticated.WriteError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(u))
}

// HandlePatch godoc
//
//	@Summary		Update profile
//	@Description	Updates the name and/or business name of the current user. Email and plan cannot be changed here.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.UpdateAccountRequest	true	"Fields to change"
//	@Success		200		{object}	accountsdk.AuthResult			"success, message, user"
//	@Failure		400		{object}	accountsdk.AuthResult			"success=false with the store message"
//	@Failure		401		{object}	httpx.ErrorResponse				"nobody is signed in"
//	@Router			/v1/account [patch].
func (h *AccountHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	current := h.Observer.Current()
	if current == nil {
		accountsdk.ErrUnauthenticated.WriteError(w)
		return
	}

	var req accountsdk.UpdateAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		accountsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return
	}

	res := h.AuthService.UpdateUser(r.Context(), domain.ProfileUpdate{
		ID:           current.ID,
		Name:         req.Name,
		BusinessName: req.BusinessName,
	})
	if !res.Success {
		httpx.WriteJSON(w, http.StatusBadRequest, toResult(res))
		return
	}

	h.Observer.Commit(res.User)
	httpx.WriteJSON(w, http.StatusOK, toResult(res))
}
