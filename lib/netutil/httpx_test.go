// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"strings"
	"testing"
)

func TestReadResponse(t *testing.T) {
	data, err := ReadResponse(strings.NewReader(`{"ok":true}`))
	if err != nil {
		t.Fatalf("ReadResponse failed: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("unexpected body: %s", data)
	}
}

func TestDecodeResponse(t *testing.T) {
	var v struct {
		UserID string `json:"user_id"`
	}
	if err := DecodeResponse(strings.NewReader(`{"user_id":"u-1"}`), &v); err != nil {
		t.Fatalf("DecodeResponse failed: %v", err)
	}
	if v.UserID != "u-1" {
		t.Errorf("unexpected user_id: %q", v.UserID)
	}

	if err := DecodeResponse(strings.NewReader("not json"), &v); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestErrorBody(t *testing.T) {
	if got := ErrorBody(strings.NewReader("boom")); got != "boom" {
		t.Errorf("unexpected error body: %q", got)
	}
}
