// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides server lifecycle plumbing shared by the
// caseline binaries: an HTTP server with readiness signalling and
// graceful, context-driven shutdown.
//
// Binaries compose these utilities in their own main() function rather
// than subclassing a framework. The package provides building blocks,
// not a runtime.
package service
