// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import "fmt"

// Role is a participant's role within a case. The set is closed: the
// chat platform itself has no notion of roles, but the orchestrator
// uses them for fallback profile data and front-ends use them for
// display.
type Role string

const (
	// RoleAdmin is the case supervisor (back-office staff).
	RoleAdmin Role = "admin"
	// RolePractitioner is the professional handling the case.
	RolePractitioner Role = "practitioner"
	// RolePatient is the subject of the case.
	RolePatient Role = "patient"
)

// ParseRole validates a raw role string against the closed role set.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin, RolePractitioner, RolePatient:
		return Role(raw), nil
	}
	return "", fmt.Errorf("ref: unknown role %q (want admin, practitioner, or patient)", raw)
}

// String returns the role's wire form.
func (r Role) String() string { return string(r) }

// IsValid reports whether the role is one of the closed set. The zero
// value is not valid.
func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}
