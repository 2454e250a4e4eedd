package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fastprodman/redpacket/internal/api"
)

var ErrRequestFailed = errors.New("request failed")

// client talks to the packet API and returns raw JSON bodies.
type client struct {
	base   string
	http   *http.Client
	auth   *api.Authenticator
	caller string
}

func newClient(base, secret, caller string) *client {
	return &client{
		base:   strings.TrimRight(base, "/"),
		http:   &http.Client{Timeout: 10 * time.Second},
		auth:   api.NewAuthenticator(secret),
		caller: caller,
	}
}

// do sends body as JSON. Authenticated calls sign a short-lived token for
// the caller.
func (c *client) do(ctx context.Context, method, path string, body any, authenticated bool) ([]byte, error) {
	var rd io.Reader = http.NoBody

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}

		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if authenticated {
		if c.caller == "" {
			return nil, errors.New("--as is required for this command")
		}

		token, err := c.auth.Issue(c.caller, time.Minute)
		if err != nil {
			return nil, fmt.Errorf("issue token: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var e struct {
			Error string `json:"error"`
		}

		_ = json.Unmarshal(out, &e)

		return nil, fmt.Errorf("%w: %s %s: %d %s", ErrRequestFailed, method, path, resp.StatusCode, e.Error)
	}

	return out, nil
}
