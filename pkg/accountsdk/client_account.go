package accountsdk

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// GetAccount returns the current user. When nobody is signed in the error
// satisfies IsUnauthenticated.
func (c *Client) GetAccount(ctx context.Context) (*User, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/account", nil)
	if err != nil {
		return nil, err
	}

	var u User
	if err := decodeJSON(resp, &u, http.StatusOK); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateAccount changes the set fields of the current user's profile.
func (c *Client) UpdateAccount(ctx context.Context, req UpdateAccountRequest) (*AuthResult, error) {
	resp, err := c.doRequest(ctx, http.MethodPatch, "/v1/account", req)
	if err != nil {
		return nil, err
	}

	var res AuthResult
	if err := decodeJSON(resp, &res, http.StatusOK, http.StatusBadRequest); err != nil {
		return nil, err
	}
	return &res, nil
}

// Events streams the current user until ctx is cancelled or the server ends
// the stream. A cancelled ctx returns nil.
func (c *Client) Events(ctx context.Context, fn func(*User)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/v1/account/events"), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.StreamClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, body)
	}

	err = readEvents(resp.Body, func(event, data string) error {
		if event != "user" {
			return nil
		}
		var u *User
		if err := json.Unmarshal([]byte(data), &u); err != nil {
			return fmt.Errorf("failed to decode event: %w", err)
		}
		fn(u)
		return nil
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// readEvents parses a text/event-stream body. Comment lines are skipped and
// multi-line data fields are joined with newlines.
func readEvents(r io.Reader, fn func(event, data string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)

	var (
		event string
		data  []string
	)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if len(data) > 0 {
				if event == "" {
					event = "message"
				}
				if err := fn(event, strings.Join(data, "\n")); err != nil {
					return err
				}
			}
			event, data = "", nil
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := sc.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
