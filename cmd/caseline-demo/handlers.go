// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/caseline-care/caseline/casework"
	"github.com/caseline-care/caseline/chat"
	"github.com/caseline-care/caseline/lib/ref"
	"github.com/caseline-care/caseline/lib/token"
)

// demoServer routes the REST surface onto the orchestrator and the
// token issuer.
type demoServer struct {
	orchestrator *casework.Orchestrator
	issuer       *token.Issuer
	logger       *slog.Logger
}

func (s *demoServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /cases", s.handleCreateCase)
	mux.HandleFunc("POST /cases/{caseId}/users", s.handleAddParticipant)
	mux.HandleFunc("GET /cases/{caseId}/chat/jid", s.handleCaseRoom)
	mux.HandleFunc("DELETE /cases/{caseId}/chat", s.handleRemoveCaseRoom)
	mux.HandleFunc("GET /chat/token/{userId}", s.handleClientToken)
	mux.HandleFunc("DELETE /users", s.handleDeleteUsers)
	return mux
}

type createCaseRequest struct {
	CaseID       ref.CaseID             `json:"caseId"`
	Participants []casework.Participant `json:"participants"`
	Metadata     map[string]any         `json:"metadata"`
}

func (s *demoServer) handleCreateCase(writer http.ResponseWriter, request *http.Request) {
	var body createCaseRequest
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		s.writeError(writer, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	result, err := s.orchestrator.CreateCase(request.Context(), body.CaseID, body.Participants, body.Metadata)
	if err != nil {
		s.writeDomainError(writer, err)
		return
	}
	s.writeJSON(writer, http.StatusCreated, result)
}

type addParticipantResponse struct {
	CaseID ref.CaseID `json:"caseId"`
	UserID string     `json:"userId"`
}

func (s *demoServer) handleAddParticipant(writer http.ResponseWriter, request *http.Request) {
	caseID, err := ref.ParseCaseID(request.PathValue("caseId"))
	if err != nil {
		s.writeError(writer, http.StatusBadRequest, err)
		return
	}
	var participant casework.Participant
	if err := json.NewDecoder(request.Body).Decode(&participant); err != nil {
		s.writeError(writer, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	added, err := s.orchestrator.AddParticipant(request.Context(), caseID, participant)
	if err != nil {
		s.writeDomainError(writer, err)
		return
	}
	s.writeJSON(writer, http.StatusCreated, addParticipantResponse{
		CaseID: caseID,
		UserID: added.UserID,
	})
}

type caseRoomResponse struct {
	CaseID  ref.CaseID  `json:"caseId"`
	RoomJID ref.RoomJID `json:"roomJid"`
}

func (s *demoServer) handleCaseRoom(writer http.ResponseWriter, request *http.Request) {
	caseID, err := ref.ParseCaseID(request.PathValue("caseId"))
	if err != nil {
		s.writeError(writer, http.StatusBadRequest, err)
		return
	}

	jid, err := s.orchestrator.CaseRoom(caseID)
	if err != nil {
		s.writeDomainError(writer, err)
		return
	}
	s.writeJSON(writer, http.StatusOK, caseRoomResponse{CaseID: caseID, RoomJID: jid})
}

type removeRoomResponse struct {
	CaseID   ref.CaseID         `json:"caseId"`
	Response *chat.DeleteResult `json:"response"`
}

func (s *demoServer) handleRemoveCaseRoom(writer http.ResponseWriter, request *http.Request) {
	caseID, err := ref.ParseCaseID(request.PathValue("caseId"))
	if err != nil {
		s.writeError(writer, http.StatusBadRequest, err)
		return
	}

	result, err := s.orchestrator.RemoveCaseRoom(request.Context(), caseID)
	if err != nil {
		s.writeDomainError(writer, err)
		return
	}
	s.writeJSON(writer, http.StatusOK, removeRoomResponse{CaseID: caseID, Response: result})
}

type clientTokenResponse struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

func (s *demoServer) handleClientToken(writer http.ResponseWriter, request *http.Request) {
	userID := request.PathValue("userId")

	signed, err := s.issuer.ClientToken(userID)
	if err != nil {
		s.writeError(writer, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(writer, http.StatusOK, clientTokenResponse{UserID: userID, Token: signed})
}

type deleteUsersRequest struct {
	UserIDs []string `json:"userIds"`
}

type deleteUsersResponse struct {
	Deleted []string `json:"deleted"`
}

func (s *demoServer) handleDeleteUsers(writer http.ResponseWriter, request *http.Request) {
	var body deleteUsersRequest
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		s.writeError(writer, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	deleted := s.orchestrator.DeleteUsers(request.Context(), body.UserIDs)
	s.writeJSON(writer, http.StatusOK, deleteUsersResponse{Deleted: deleted})
}

// writeDomainError maps orchestrator errors to HTTP responses: unknown
// cases are 404, platform failures are forwarded with their original
// status code and body, everything else is a 500.
func (s *demoServer) writeDomainError(writer http.ResponseWriter, err error) {
	if errors.Is(err, casework.ErrCaseNotFound) {
		s.writeError(writer, http.StatusNotFound, err)
		return
	}
	if errors.Is(err, casework.ErrInvalidArgument) {
		s.writeError(writer, http.StatusBadRequest, err)
		return
	}
	var apiErr *chat.APIError
	if errors.As(err, &apiErr) {
		s.writeError(writer, apiErr.StatusCode, err)
		return
	}
	s.writeError(writer, http.StatusInternalServerError, err)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *demoServer) writeError(writer http.ResponseWriter, status int, err error) {
	s.logger.Warn("request failed", "status", status, "error", err)
	s.writeJSON(writer, status, errorResponse{Error: err.Error()})
}

func (s *demoServer) writeJSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}
