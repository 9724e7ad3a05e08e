// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import "encoding/json"

// CreateUserRequest is the profile sent to the platform's user-creation
// endpoint. Login is the only field the platform requires; everything
// else is profile metadata.
type CreateUserRequest struct {
	// Login is the user's unique name on the platform.
	Login string `json:"login"`
	// Password is the user's XMPP/REST password.
	Password string `json:"password"`
	// Email is optional profile metadata.
	Email string `json:"email,omitempty"`
	// FirstName and LastName are optional profile metadata. The
	// platform rejects last names shorter than 2 characters.
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	// FullName is the display name shown in chat clients.
	FullName string `json:"full_name,omitempty"`
}

// User is the platform's record of an account.
type User struct {
	// ID is the platform-assigned identifier, used for access grants.
	ID string `json:"id"`
	// Login echoes the requested login.
	Login string `json:"login"`
	// FullName echoes the display name.
	FullName string `json:"full_name"`
}

// createUserResponse wraps the user object the way the platform nests it.
type createUserResponse struct {
	User User `json:"user"`
}

// CreateRoomRequest is the body sent to the platform's room-creation
// endpoint.
type CreateRoomRequest struct {
	// Key is the caller-chosen external key for the room. The room's
	// JID localpart is "<appID>_<key>".
	Key string `json:"key"`
	// Title is the human-readable room name.
	Title string `json:"title"`
}

// Room is the platform's record of a chat room.
type Room struct {
	// JID is the room's full XMPP address.
	JID string `json:"jid"`
	// Title echoes the requested title.
	Title string `json:"title"`
}

// createRoomResponse wraps the room object the way the platform nests it.
type createRoomResponse struct {
	Room Room `json:"room"`
}

// grantRequest is the body sent to the access-grant endpoint.
type grantRequest struct {
	UserID string `json:"user_id"`
}

// DeleteResult is the platform's response to a delete call. The payload
// shape varies per resource, so it is passed through raw.
type DeleteResult struct {
	// Deleted reports whether the platform removed the resource now
	// (false when it was already gone).
	Deleted bool `json:"deleted"`
	// Response is the platform's raw response payload, forwarded to
	// demo API callers for diagnostics.
	Response json.RawMessage `json:"response,omitempty"`
	// Reason is set when Deleted is false.
	Reason string `json:"reason,omitempty"`
}
