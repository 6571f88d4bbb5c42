package domain

import (
	"fmt"
	"time"
)

// Plan is the subscription tier stored on a profile.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanBasic   Plan = "basic"
	PlanPremium Plan = "premium"
)

// ParsePlan validates a persisted plan value.
func ParsePlan(s string) (Plan, error) {
	switch p := Plan(s); p {
	case PlanFree, PlanBasic, PlanPremium:
		return p, nil
	default:
		return "", fmt.Errorf("unknown subscription plan %q", s)
	}
}

// User is the reconciled view of a signed-in account: the provider identity
// joined with its profile row. A nil *User means logged out.
type User struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	BusinessName     string `json:"businessName"`
	SubscriptionPlan Plan   `json:"subscriptionPlan"`
}

// Clone returns a copy so holders of the current user cannot mutate shared state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Profile is the application-owned row keyed by the provider user id.
type Profile struct {
	ID               string
	Email            string
	Name             string
	BusinessName     string
	SubscriptionPlan Plan
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// User maps the persisted row onto the User shape.
func (p Profile) User() *User {
	return &User{
		ID:               p.ID,
		Email:            p.Email,
		Name:             p.Name,
		BusinessName:     p.BusinessName,
		SubscriptionPlan: p.SubscriptionPlan,
	}
}

// ProfileUpdate is a partial write against a profile row. Only Name and
// BusinessName are mutable; nil fields are left untouched.
type ProfileUpdate struct {
	ID           string
	Name         *string
	BusinessName *string
}

// Empty reports whether the update would write nothing.
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.BusinessName == nil
}
