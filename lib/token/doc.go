// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

// Package token issues and verifies the JWTs the chat platform accepts.
//
// Two token shapes exist. Server tokens authenticate backend-to-platform
// REST calls: they carry the application ID and nothing else, and are
// minted fresh for every outbound request (they are cheap — an HMAC over
// a small payload). Client tokens are handed to front-ends for XMPP and
// REST access on behalf of a single user: they additionally carry the
// user's identifier as the subject.
//
// Both shapes are HMAC-SHA256 signed with the shared application secret
// from configuration. There is no key rotation and no asymmetric
// variant — the platform only supports the shared-secret scheme.
//
// [Verify] and [VerifyAt] exist for the demo backend's own test
// assertions; production verification happens on the platform side.
package token
