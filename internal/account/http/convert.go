package http

import (
	"github.com/aussiebroadwan/bizdesk/internal/account/domain"
	"github.com/aussiebroadwan/bizdesk/pkg/accountsdk"
)

func toUser(u *domain.User) *accountsdk.User {
	if u == nil {
		return nil
	}
	return &accountsdk.User{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		BusinessName:     u.BusinessName,
		SubscriptionPlan: string(u.SubscriptionPlan),
	}
}

func toResult(res domain.AuthResult) accountsdk.AuthResult {
	return accountsdk.AuthResult{
		Success: res.Success,
		Message: res.Message,
		User:    toUser(res.User),
	}
}
