// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// ChatLogin derives the platform login for a local user ID. Logins are
// prefixed with the application ID, mirroring the room JID scheme, so
// two applications sharing a platform account never collide on user
// names. The derivation is the single policy for the whole codebase —
// nothing else may construct a login string.
func ChatLogin(appID, userID string) string {
	return appID + "_" + userID
}
