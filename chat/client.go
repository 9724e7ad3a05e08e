// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/caseline-care/caseline/lib/netutil"
	"github.com/caseline-care/caseline/lib/token"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// APIURL is the base URL of the platform's REST API
	// (e.g., "https://api.chat.example.com"). Required.
	APIURL string
	// Issuer mints the server token attached to every request. Required.
	Issuer *token.Issuer
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client issues signed REST calls to the chat platform.
type Client struct {
	baseURL    string
	issuer     *token.Issuer
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a platform client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.APIURL == "" {
		return nil, fmt.Errorf("chat: APIURL is required")
	}
	if config.Issuer == nil {
		return nil, fmt.Errorf("chat: Issuer is required")
	}

	// Validate the URL structure. The string form (trailing slash
	// stripped) is stored and request URLs are built by direct
	// concatenation, avoiding url.URL re-encoding of path segments.
	if parsed, err := url.Parse(config.APIURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("chat: invalid APIURL %q", config.APIURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.APIURL, "/"),
		issuer:     config.Issuer,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// CreateUser creates a platform account. A conflict response (the login
// is taken) is returned as an *APIError — the caller decides whether
// that is success; see casework.
func (c *Client) CreateUser(ctx context.Context, request CreateUserRequest) (*User, error) {
	if request.Login == "" {
		return nil, fmt.Errorf("chat: login is required for user creation")
	}
	if request.Password == "" {
		return nil, fmt.Errorf("chat: password is required for user creation")
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/users", request)
	if err != nil {
		return nil, fmt.Errorf("chat: create user %q failed: %w", request.Login, err)
	}

	var response createUserResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("chat: failed to parse create user response: %w", err)
	}

	c.logger.Info("created platform user",
		"login", request.Login,
		"external_id", response.User.ID,
	)
	return &response.User, nil
}

// DeleteUser removes a platform account by its platform-assigned ID.
// Deleting an already-deleted user yields a soft DeleteResult, not an
// error.
func (c *Client) DeleteUser(ctx context.Context, externalID string) (*DeleteResult, error) {
	if externalID == "" {
		return nil, fmt.Errorf("chat: external ID is required for user deletion")
	}

	path := "/users/" + url.PathEscape(externalID)
	body, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		if IsNotFound(err) {
			return &DeleteResult{Deleted: false, Reason: "user not found"}, nil
		}
		return nil, fmt.Errorf("chat: delete user %q failed: %w", externalID, err)
	}

	c.logger.Info("deleted platform user", "external_id", externalID)
	return &DeleteResult{Deleted: true, Response: rawOrNil(body)}, nil
}

// CreateRoom creates a chat room keyed by the caller's external key. A
// conflict response (a room with this key exists) is returned as an
// *APIError for the caller to classify.
func (c *Client) CreateRoom(ctx context.Context, request CreateRoomRequest) (*Room, error) {
	if request.Key == "" {
		return nil, fmt.Errorf("chat: key is required for room creation")
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/rooms", request)
	if err != nil {
		return nil, fmt.Errorf("chat: create room %q failed: %w", request.Key, err)
	}

	var response createRoomResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("chat: failed to parse create room response: %w", err)
	}

	c.logger.Info("created platform room",
		"key", request.Key,
		"jid", response.Room.JID,
	)
	return &response.Room, nil
}

// DeleteRoom removes the room with the given external key. Deleting an
// already-deleted room yields a soft DeleteResult, not an error.
func (c *Client) DeleteRoom(ctx context.Context, key string) (*DeleteResult, error) {
	if key == "" {
		return nil, fmt.Errorf("chat: key is required for room deletion")
	}

	path := "/rooms/" + url.PathEscape(key)
	body, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		if IsNotFound(err) {
			return &DeleteResult{Deleted: false, Reason: "room not found"}, nil
		}
		return nil, fmt.Errorf("chat: delete room %q failed: %w", key, err)
	}

	c.logger.Info("deleted platform room", "key", key)
	return &DeleteResult{Deleted: true, Response: rawOrNil(body)}, nil
}

// GrantAccess gives a platform user access to the room with the given
// external key.
func (c *Client) GrantAccess(ctx context.Context, key, externalID string) error {
	if key == "" {
		return fmt.Errorf("chat: key is required for access grant")
	}
	if externalID == "" {
		return fmt.Errorf("chat: external ID is required for access grant")
	}

	path := fmt.Sprintf("/rooms/%s/grants", url.PathEscape(key))
	if _, err := c.doRequest(ctx, http.MethodPost, path, grantRequest{UserID: externalID}); err != nil {
		return fmt.Errorf("chat: grant %q access to room %q failed: %w", externalID, key, err)
	}

	c.logger.Info("granted room access",
		"key", key,
		"external_id", externalID,
	)
	return nil
}

// doRequest performs a signed HTTP request against the platform and
// returns the response body. On 2xx, returns the body. On any other
// status, returns an *APIError carrying the status and body.
func (c *Client) doRequest(ctx context.Context, method, path string, requestBody any) ([]byte, error) {
	requestURL := c.baseURL + path

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	// Every call is signed with a fresh short-lived server token.
	serverToken, err := c.issuer.ServerToken()
	if err != nil {
		return nil, fmt.Errorf("minting server token: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+serverToken)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	return nil, &APIError{
		StatusCode: response.StatusCode,
		Body:       string(responseBody),
	}
}

// rawOrNil returns body as a RawMessage, or nil for an empty body so
// the field is omitted from JSON output.
func rawOrNil(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	return json.RawMessage(body)
}
