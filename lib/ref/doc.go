// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides validated value types for the identifiers that
// flow between caseline and the chat platform.
//
// [CaseID] is the business key of a case. [Role] is a participant's
// role within a case. [RoomJID] is the platform's room address, derived
// deterministically from the application ID and the case ID — rooms are
// never looked up by an opaque server-assigned key.
//
// All types follow the same conventions: immutable value semantics, a
// Parse function that validates at the boundary, a Must variant for
// known-valid inputs in tests, and text marshaling for JSON. The zero
// value is never valid; use IsZero to check.
package ref
