package accountsdk

import (
	"context"
	"net/http"
)

// Signup registers an account. A rejected signup is a result with Success
// false.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/signup", req)
	if err != nil {
		return nil, err
	}

	var res AuthResult
	if err := decodeJSON(resp, &res, http.StatusOK, http.StatusBadRequest); err != nil {
		return nil, err
	}
	return &res, nil
}

// Login signs in with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/login", LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var res AuthResult
	if err := decodeJSON(resp, &res, http.StatusOK, http.StatusUnauthorized); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout ends the current session.
func (c *Client) Logout(ctx context.Context) (*AuthResult, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/logout", nil)
	if err != nil {
		return nil, err
	}

	var res AuthResult
	if err := decodeJSON(resp, &res, http.StatusOK, http.StatusBadGateway); err != nil {
		return nil, err
	}
	return &res, nil
}
