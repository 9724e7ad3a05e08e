// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/caseline-care/caseline/lib/token"
)

var testSecret = []byte("test-secret")

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	issuer, err := token.NewIssuer(token.IssuerConfig{AppID: "7431", Secret: testSecret})
	if err != nil {
		t.Fatalf("NewIssuer failed: %v", err)
	}
	client, err := NewClient(ClientConfig{APIURL: serverURL, Issuer: issuer})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	issuer, err := token.NewIssuer(token.IssuerConfig{AppID: "7431", Secret: testSecret})
	if err != nil {
		t.Fatalf("NewIssuer failed: %v", err)
	}

	t.Run("valid", func(t *testing.T) {
		client, err := NewClient(ClientConfig{APIURL: "https://api.chat.example.com/", Issuer: issuer})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if client.baseURL != "https://api.chat.example.com" {
			t.Errorf("trailing slash not stripped: %q", client.baseURL)
		}
	})

	t.Run("missing URL", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{Issuer: issuer}); err == nil {
			t.Fatal("expected error for missing APIURL")
		}
	})

	t.Run("relative URL", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{APIURL: "api.chat.example.com", Issuer: issuer}); err == nil {
			t.Fatal("expected error for URL without scheme")
		}
	})

	t.Run("missing issuer", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{APIURL: "https://api.chat.example.com"}); err == nil {
			t.Fatal("expected error for missing issuer")
		}
	})
}

func TestCreateUser(t *testing.T) {
	t.Run("success with signed request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.Method != http.MethodPost || request.URL.Path != "/users" {
				t.Errorf("unexpected request: %s %s", request.Method, request.URL.Path)
				writer.WriteHeader(http.StatusNotFound)
				return
			}

			// Every request must carry a valid server token.
			bearer := strings.TrimPrefix(request.Header.Get("Authorization"), "Bearer ")
			claims, err := token.VerifyForApp(testSecret, bearer, "7431")
			if err != nil {
				t.Errorf("request token invalid: %v", err)
			} else if claims.Kind != token.KindServer {
				t.Errorf("expected server token, got kind %q", claims.Kind)
			}

			var body CreateUserRequest
			if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
				t.Fatalf("decoding request body: %v", err)
			}
			if body.Login != "u-1" {
				t.Errorf("unexpected login: %q", body.Login)
			}

			writer.Header().Set("Content-Type", "application/json")
			json.NewEncoder(writer).Encode(createUserResponse{
				User: User{ID: "ext-101", Login: body.Login, FullName: body.FullName},
			})
		}))
		defer server.Close()

		user, err := testClient(t, server.URL).CreateUser(context.Background(), CreateUserRequest{
			Login:    "u-1",
			Password: "pw",
			FullName: "Alice Example",
		})
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.ID != "ext-101" {
			t.Errorf("unexpected external ID: %q", user.ID)
		}
	})

	t.Run("conflict is detectable through wrapping", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusUnprocessableEntity)
			writer.Write([]byte(`{"errors":{"login":["has already been taken"]}}`))
		}))
		defer server.Close()

		_, err := testClient(t, server.URL).CreateUser(context.Background(), CreateUserRequest{Login: "u-1", Password: "pw"})
		if err == nil {
			t.Fatal("expected error for conflict response")
		}
		if !IsConflict(err) {
			t.Errorf("IsConflict should detect the wrapped 422: %v", err)
		}
	})

	t.Run("validation", func(t *testing.T) {
		client := testClient(t, "http://localhost:1")
		if _, err := client.CreateUser(context.Background(), CreateUserRequest{Password: "pw"}); err == nil {
			t.Error("expected error for missing login")
		}
		if _, err := client.CreateUser(context.Background(), CreateUserRequest{Login: "u-1"}); err == nil {
			t.Error("expected error for missing password")
		}
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.Method != http.MethodDelete || request.URL.Path != "/users/ext-101" {
				t.Errorf("unexpected request: %s %s", request.Method, request.URL.Path)
			}
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		result, err := testClient(t, server.URL).DeleteUser(context.Background(), "ext-101")
		if err != nil {
			t.Fatalf("DeleteUser failed: %v", err)
		}
		if !result.Deleted {
			t.Error("expected Deleted=true")
		}
	})

	t.Run("already gone is soft", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		result, err := testClient(t, server.URL).DeleteUser(context.Background(), "ext-404")
		if err != nil {
			t.Fatalf("DeleteUser should not fail on 404: %v", err)
		}
		if result.Deleted {
			t.Error("expected Deleted=false for missing user")
		}
		if result.Reason == "" {
			t.Error("expected a reason for the soft failure")
		}
	})
}

func TestCreateRoom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/rooms" {
			t.Errorf("unexpected path: %s", request.URL.Path)
		}
		var body CreateRoomRequest
		if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		if body.Key != "case-1" {
			t.Errorf("unexpected key: %q", body.Key)
		}
		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(createRoomResponse{
			Room: Room{JID: "7431_case-1@muclight.chat.example.com", Title: body.Title},
		})
	}))
	defer server.Close()

	room, err := testClient(t, server.URL).CreateRoom(context.Background(), CreateRoomRequest{
		Key:   "case-1",
		Title: "Case case-1",
	})
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if room.JID != "7431_case-1@muclight.chat.example.com" {
		t.Errorf("unexpected JID: %q", room.JID)
	}
}

func TestDeleteRoom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/rooms/case-1" {
			writer.WriteHeader(http.StatusNotFound)
			return
		}
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"removed":1}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	result, err := client.DeleteRoom(context.Background(), "case-1")
	if err != nil {
		t.Fatalf("DeleteRoom failed: %v", err)
	}
	if !result.Deleted {
		t.Error("expected Deleted=true")
	}
	if string(result.Response) != `{"removed":1}` {
		t.Errorf("platform payload not forwarded: %s", result.Response)
	}

	result, err = client.DeleteRoom(context.Background(), "case-unknown")
	if err != nil {
		t.Fatalf("DeleteRoom should not fail on 404: %v", err)
	}
	if result.Deleted {
		t.Error("expected Deleted=false for missing room")
	}
}

func TestGrantAccess(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/rooms/case-1/grants" {
				t.Errorf("unexpected path: %s", request.URL.Path)
			}
			var body grantRequest
			if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
				t.Fatalf("decoding request body: %v", err)
			}
			if body.UserID != "ext-101" {
				t.Errorf("unexpected user_id: %q", body.UserID)
			}
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		if err := testClient(t, server.URL).GrantAccess(context.Background(), "case-1", "ext-101"); err != nil {
			t.Fatalf("GrantAccess failed: %v", err)
		}
	})

	t.Run("failure carries status and body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusForbidden)
			writer.Write([]byte(`{"errors":"not an occupant"}`))
		}))
		defer server.Close()

		err := testClient(t, server.URL).GrantAccess(context.Background(), "case-1", "ext-101")
		if err == nil {
			t.Fatal("expected error")
		}
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
			t.Errorf("expected 403 APIError, got: %v", err)
		}
	})
}

func TestAPIErrorClassification(t *testing.T) {
	conflict := &APIError{StatusCode: 422, Body: `{"errors":["Room with such key already exists"]}`}
	if !IsConflict(conflict) {
		t.Error("422 with conflict marker should be a conflict")
	}

	validation := &APIError{StatusCode: 422, Body: `{"errors":{"last_name":["is too short"]}}`}
	if IsConflict(validation) {
		t.Error("422 without conflict marker should not be a conflict")
	}

	missing := &APIError{StatusCode: 404, Body: "not found"}
	if IsConflict(missing) {
		t.Error("404 should not be a conflict")
	}
	if !IsNotFound(missing) {
		t.Error("404 should be not-found")
	}
	if IsNotFound(conflict) {
		t.Error("422 should not be not-found")
	}
	if IsConflict(context.Canceled) || IsNotFound(context.Canceled) {
		t.Error("non-API errors should not classify")
	}
}
