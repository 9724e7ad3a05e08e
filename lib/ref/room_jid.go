// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strings"
)

// roomService is the subdomain of the chat domain that hosts group
// rooms. The platform addresses multi-user rooms under a dedicated
// "muclight" service, one level below the account domain.
const roomService = "muclight."

// RoomJID is a chat room address (e.g.,
// "7431_case-2024-0117@muclight.chat.example.com").
//
// Room JIDs are fully deterministic: the localpart is the application
// ID and the case ID joined with '_', and the domain is the muclight
// service of the configured chat domain. Nothing about a room address
// needs to be stored or looked up — given the configuration and a case
// ID, the JID can always be rebuilt.
//
// RoomJID is an immutable value type. The zero value is not valid;
// use IsZero to check.
type RoomJID struct {
	jid string
}

// NewRoomJID derives the room JID for a case from the application ID
// and the chat domain.
func NewRoomJID(appID string, caseID CaseID, chatDomain string) RoomJID {
	return RoomJID{jid: appID + "_" + caseID.String() + "@" + roomService + chatDomain}
}

// ParseRoomJID validates and wraps a raw room JID string. Returns an
// error if the string is empty, missing the '@' separator, or not
// addressed to a muclight service.
func ParseRoomJID(raw string) (RoomJID, error) {
	if raw == "" {
		return RoomJID{}, fmt.Errorf("ref: room JID is empty")
	}
	local, domain, found := strings.Cut(raw, "@")
	if !found || local == "" || domain == "" {
		return RoomJID{}, fmt.Errorf("ref: room JID %q is missing localpart or domain", raw)
	}
	if !strings.HasPrefix(domain, roomService) {
		return RoomJID{}, fmt.Errorf("ref: room JID %q is not addressed to a %sdomain", raw, roomService)
	}
	return RoomJID{jid: raw}, nil
}

// MustParseRoomJID is like ParseRoomJID but panics on error. Use in
// tests where the input is known-valid.
func MustParseRoomJID(raw string) RoomJID {
	j, err := ParseRoomJID(raw)
	if err != nil {
		panic(fmt.Sprintf("ref.MustParseRoomJID(%q): %v", raw, err))
	}
	return j
}

// String returns the full room JID (localpart@muclight.domain).
func (j RoomJID) String() string { return j.jid }

// Local returns the room name without the domain suffix (the form the
// platform's REST API expects as a room identifier).
func (j RoomJID) Local() string {
	local, _, _ := strings.Cut(j.jid, "@")
	return local
}

// IsZero reports whether the RoomJID is the zero value (uninitialized).
func (j RoomJID) IsZero() bool { return j.jid == "" }

// MarshalText implements encoding.TextMarshaler for JSON and other
// text-based serialization formats.
func (j RoomJID) MarshalText() ([]byte, error) {
	if j.jid == "" {
		return []byte{}, nil
	}
	return []byte(j.jid), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Validates the room
// JID format. An empty input produces the zero value (unset room JID).
func (j *RoomJID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*j = RoomJID{}
		return nil
	}
	parsed, err := ParseRoomJID(string(data))
	if err != nil {
		return err
	}
	*j = parsed
	return nil
}
