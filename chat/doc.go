// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

// Package chat wraps the hosted chat platform's REST API.
//
// [Client] is a thin, signed HTTP client: every request carries a fresh
// server token minted by lib/token, and every operation maps to exactly
// one platform endpoint — user creation and deletion, room creation and
// deletion, and room access grants. There is no retry logic, no
// caching, and no local state here; workflow concerns (idempotency,
// retries with fallback data, pending-operation locking) live in
// package casework.
//
// API failures are returned as [*APIError] carrying the HTTP status
// code and raw response body. The platform signals "resource already
// exists" with a 422 response whose body names the conflict; use
// [IsConflict] to detect it. Deletes of missing resources return 404;
// use [IsNotFound]. Request URLs are built by string concatenation with
// url.PathEscape rather than url.URL, avoiding double-encoding of path
// segments.
package chat
