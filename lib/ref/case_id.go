// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strings"
)

// maxCaseIDLength bounds case IDs so the derived room JID localpart
// stays well under the platform's 255-byte node limit.
const maxCaseIDLength = 128

// CaseID is a validated case identifier (e.g., "case-2024-0117").
//
// Case IDs are chosen by the caller, not the chat platform. They are
// embedded verbatim in room JIDs, so the accepted alphabet is the
// conservative subset that is valid in a JID node: ASCII letters,
// digits, '.', '_' and '-'.
//
// CaseID is an immutable value type. The zero value is not valid;
// use IsZero to check.
type CaseID struct {
	id string
}

// ParseCaseID validates and wraps a raw case identifier string.
func ParseCaseID(raw string) (CaseID, error) {
	if raw == "" {
		return CaseID{}, fmt.Errorf("ref: case ID is empty")
	}
	if len(raw) > maxCaseIDLength {
		return CaseID{}, fmt.Errorf("ref: case ID exceeds %d bytes: %q", maxCaseIDLength, raw)
	}
	if index := strings.IndexFunc(raw, func(r rune) bool { return !isCaseIDRune(r) }); index >= 0 {
		return CaseID{}, fmt.Errorf("ref: case ID %q contains invalid character %q", raw, raw[index])
	}
	return CaseID{id: raw}, nil
}

// MustParseCaseID is like ParseCaseID but panics on error. Use in tests
// and static initialization where the input is known-valid.
func MustParseCaseID(raw string) CaseID {
	id, err := ParseCaseID(raw)
	if err != nil {
		panic(fmt.Sprintf("ref.MustParseCaseID(%q): %v", raw, err))
	}
	return id
}

// String returns the raw case identifier.
func (c CaseID) String() string { return c.id }

// IsZero reports whether the CaseID is the zero value (uninitialized).
func (c CaseID) IsZero() bool { return c.id == "" }

// MarshalText implements encoding.TextMarshaler for JSON and other
// text-based serialization formats.
func (c CaseID) MarshalText() ([]byte, error) {
	if c.id == "" {
		return []byte{}, nil
	}
	return []byte(c.id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Validates the case
// ID format. An empty input produces the zero value (unset case ID).
func (c *CaseID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*c = CaseID{}
		return nil
	}
	parsed, err := ParseCaseID(string(data))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func isCaseIDRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '.' || r == '_' || r == '-':
		return true
	}
	return false
}
