// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

package casework

import (
	"strings"
	"testing"

	"github.com/caseline-care/caseline/lib/ref"
)

func TestBuildProfile(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		request := buildProfile("7431", Participant{UserID: "u1", Role: ref.RolePatient})
		if request.Login != "7431_u1" {
			t.Errorf("Login = %q, want %q", request.Login, "7431_u1")
		}
		if request.Password == "" {
			t.Error("expected a generated password")
		}
		if request.LastName != defaultLastName {
			t.Errorf("LastName = %q, want %q", request.LastName, defaultLastName)
		}
		if request.FullName != "u1" {
			t.Errorf("FullName = %q, want user ID fallback", request.FullName)
		}
	})

	t.Run("provided fields pass through", func(t *testing.T) {
		request := buildProfile("7431", Participant{
			UserID:      "u1",
			Role:        ref.RolePractitioner,
			DisplayName: "Dr. Lee",
			Email:       "lee@example.com",
			FirstName:   "Sun",
			LastName:    "Lee",
			Password:    "hunter22",
		})
		if request.FirstName != "Sun" || request.LastName != "Lee" {
			t.Errorf("names not passed through: %q %q", request.FirstName, request.LastName)
		}
		if request.FullName != "Dr. Lee" || request.Email != "lee@example.com" || request.Password != "hunter22" {
			t.Errorf("fields not passed through: %+v", request)
		}
	})

	t.Run("one-letter last name replaced", func(t *testing.T) {
		request := buildProfile("7431", Participant{UserID: "u1", Role: ref.RolePatient, LastName: "X"})
		if request.LastName != defaultLastName {
			t.Errorf("LastName = %q, want %q", request.LastName, defaultLastName)
		}
	})
}

func TestFallbackProfile(t *testing.T) {
	p := Participant{UserID: "u1", Role: ref.RolePatient, Email: "u1@example.com", FirstName: "Ann"}

	first := fallbackProfile("7431", p)
	second := fallbackProfile("7431", p)

	if first.FirstName != second.FirstName || first.LastName != second.LastName {
		t.Errorf("pool pick not deterministic: %q %q vs %q %q",
			first.FirstName, first.LastName, second.FirstName, second.LastName)
	}
	if first.Email != "" {
		t.Errorf("fallback should drop the email, got %q", first.Email)
	}
	if first.FirstName == "Ann" {
		t.Error("fallback should not reuse the rejected profile data")
	}
	if first.FullName != first.FirstName+" "+first.LastName {
		t.Errorf("FullName = %q, want synthesized from pool names", first.FullName)
	}
	if first.Password == second.Password {
		t.Error("passwords should be freshly generated per attempt")
	}

	t.Run("unknown role falls back to patient pool", func(t *testing.T) {
		request := fallbackProfile("7431", Participant{UserID: "u1", Role: "observer"})
		if request.FirstName == "" {
			t.Error("expected a pool name for unknown role")
		}
	})
}

func TestDeriveLocalID(t *testing.T) {
	id := deriveLocalID("7431", "u1")
	if !strings.HasPrefix(id, "local-") {
		t.Errorf("unexpected prefix: %q", id)
	}
	if id != deriveLocalID("7431", "u1") {
		t.Error("derivation should be stable")
	}
	if id == deriveLocalID("7431", "u2") || id == deriveLocalID("9999", "u1") {
		t.Error("derivation should depend on both app ID and user ID")
	}
	// Confusable inputs must not collide: the separator keeps
	// ("a", "b_c") and ("a_b", "c") apart.
	if deriveLocalID("a", "b_c") == deriveLocalID("a_b", "c") {
		t.Error("ambiguous concatenation in derivation")
	}
}
