package domain

// AuthResult is what every account operation hands back to the UI shell.
// User is set only when Success is true and the operation yields a user.
type AuthResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}

// Failed builds an unsuccessful result carrying msg verbatim.
func Failed(msg string) AuthResult {
	return AuthResult{Success: false, Message: msg}
}

// Succeeded builds a successful result.
func Succeeded(msg string, u *User) AuthResult {
	return AuthResult{Success: true, Message: msg, User: u}
}
