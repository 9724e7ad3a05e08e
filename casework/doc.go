// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

// Package casework orchestrates case provisioning against the chat
// platform.
//
// A case maps 1:1 to a platform chat room. Provisioning a case is a
// three-step workflow — create the participants' platform accounts,
// create the room, grant each participant access — and every step must
// tolerate re-execution: callers retry, front-ends double-submit, and
// two requests for the same case can arrive concurrently.
//
// [Orchestrator.CreateCase] is the entry point. Idempotency comes from
// three mechanisms layered in [Store]: a committed-case map that
// short-circuits repeat calls, a participant cache that reuses resolved
// platform identifiers, and a per-case pending marker that serializes
// concurrent creations (the second caller waits for the first and then
// re-checks). Conflict responses from the platform ("already exists")
// are treated as success throughout.
//
// All state is process-local and lost on restart. That is acceptable
// for this workload: a re-run of the workflow against the platform is
// cheap, because every external call short-circuits on its conflict
// path.
package casework
