package accountsdk

// ============================================================================
// Account Types
// ============================================================================

// User is the signed-in account as returned by the API.
type User struct {
	ID               string `json:"id" example:"01JB8Q2V4S7Y0M3K9ZB6W1N5TD"`
	Email            string `json:"email" example:"a@x.com"`
	Name             string `json:"name" example:"Alice"`
	BusinessName     string `json:"businessName" example:"Alice Co"`
	SubscriptionPlan string `json:"subscriptionPlan" example:"free" enums:"free,basic,premium"`
}

// AuthResult is returned by every account operation.
type AuthResult struct {
	Success bool   `json:"success"`
	Message string `json:"message" example:"Login successful"`
	User    *User  `json:"user,omitempty"`
}

// SignupRequest is the body of POST /v1/auth/signup.
type SignupRequest struct {
	Email        string `json:"email" example:"a@x.com"`
	Password     string `json:"password" example:"pw123456"`
	Name         string `json:"name" example:"Alice"`
	BusinessName string `json:"businessName" example:"Alice Co"`
}

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" example:"a@x.com"`
	Password string `json:"password" example:"pw123456"`
}

// UpdateAccountRequest is the body of PATCH /v1/account. Omitted fields are
// left unchanged.
type UpdateAccountRequest struct {
	Name         *string `json:"name,omitempty" example:"Alice"`
	BusinessName *string `json:"businessName,omitempty" example:"Alice LLC"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports each dependency checked by /readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
