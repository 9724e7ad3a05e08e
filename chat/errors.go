// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError represents a non-2xx response from the chat platform.
// Callers can use errors.As to extract the structured information:
//
//	var apiErr *chat.APIError
//	if errors.As(err, &apiErr) {
//	    if apiErr.StatusCode == http.StatusNotFound { ... }
//	}
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// Body is the raw response body. The platform reports validation
	// failures as JSON, but the exact shape varies per endpoint, so
	// the body is kept verbatim rather than parsed into a struct.
	Body string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat: platform returned %d: %s", e.StatusCode, e.Body)
}

// conflictMarkers are the body substrings the platform uses to signal
// that the resource being created already exists. The phrasing differs
// between the user and room endpoints.
var conflictMarkers = []string{
	"already exist",      // rooms: "Room with such key already exists"
	"already been taken", // users: "login has already been taken"
}

// IsConflict reports whether err is a platform "already exists"
// response: HTTP 422 with a conflict marker in the body. For idempotent
// creates this outcome is success.
func IsConflict(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		return false
	}
	body := strings.ToLower(apiErr.Body)
	for _, marker := range conflictMarkers {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err is a platform 404. Deletes of
// already-deleted resources surface this; callers treat it as a soft
// failure rather than an error.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
