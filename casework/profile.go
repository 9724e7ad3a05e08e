// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

package casework

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/caseline-care/caseline/chat"
	"github.com/caseline-care/caseline/lib/ref"
)

// defaultLastName replaces last names the platform would reject (it
// requires at least 2 characters).
const defaultLastName = "Member"

// Fallback name pools for the retry path. When the platform rejects a
// participant's real profile data, the retry uses a synthetic profile
// drawn from these pools — deterministic per participant, so a repeated
// retry sends the same data and hits the conflict path instead of
// creating a second account.
var (
	fallbackFirstNames = map[ref.Role][]string{
		ref.RoleAdmin:        {"Alex", "Sam", "Robin", "Kim"},
		ref.RolePractitioner: {"Jordan", "Casey", "Morgan", "Taylor"},
		ref.RolePatient:      {"Jamie", "Riley", "Quinn", "Avery"},
	}
	fallbackLastNames = []string{"Anders", "Berger", "Conrad", "Dillon", "Ekman", "Falk"}
)

// buildProfile maps a participant to the platform's user-creation
// request, substituting generated defaults for missing or invalid
// fields: a short last name becomes defaultLastName, a missing password
// is generated, and a missing display name falls back to the user ID.
func buildProfile(appID string, p Participant) chat.CreateUserRequest {
	lastName := p.LastName
	if len(lastName) < 2 {
		lastName = defaultLastName
	}

	password := p.Password
	if password == "" {
		password = uuid.NewString()
	}

	fullName := p.DisplayName
	if fullName == "" {
		fullName = p.UserID
	}

	return chat.CreateUserRequest{
		Login:     ref.ChatLogin(appID, p.UserID),
		Password:  password,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  lastName,
		FullName:  fullName,
	}
}

// fallbackProfile builds the synthetic profile for the one retry after
// a non-conflict creation failure. Names come from the per-role pools,
// picked by hashing the participant's identity; the email is dropped
// (it is the field most likely to have caused the rejection).
func fallbackProfile(appID string, p Participant) chat.CreateUserRequest {
	firstPool, ok := fallbackFirstNames[p.Role]
	if !ok {
		firstPool = fallbackFirstNames[ref.RolePatient]
	}
	seed := profileDigest(appID, p.UserID)

	first := firstPool[int(seed%uint64(len(firstPool)))]
	last := fallbackLastNames[int((seed>>32)%uint64(len(fallbackLastNames)))]

	return chat.CreateUserRequest{
		Login:     ref.ChatLogin(appID, p.UserID),
		Password:  uuid.NewString(),
		FirstName: first,
		LastName:  last,
		FullName:  first + " " + last,
	}
}

// deriveLocalID builds the locally-derived external identifier used
// when the platform reports the account exists but no resolved ID is
// cached. Stable across processes, so two backends derive the same ID
// for the same participant.
func deriveLocalID(appID, userID string) string {
	sum := blake3.Sum256([]byte(appID + "\x00" + userID))
	return "local-" + hex.EncodeToString(sum[:6])
}

// profileDigest hashes a participant's identity into a seed for
// fallback pool selection.
func profileDigest(appID, userID string) uint64 {
	sum := blake3.Sum256([]byte(appID + "\x00" + userID))
	return binary.BigEndian.Uint64(sum[:8])
}
