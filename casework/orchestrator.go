// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

package casework

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/caseline-care/caseline/chat"
	"github.com/caseline-care/caseline/lib/ref"
)

// ErrCaseNotFound is returned when an operation references a case that
// has not been provisioned.
var ErrCaseNotFound = errors.New("casework: case not found")

// ErrInvalidArgument is returned when a request fails validation before
// any external call is made.
var ErrInvalidArgument = errors.New("casework: invalid argument")

// Orchestrator sequences the case-provisioning workflow: ensure
// participants, ensure room, grant access, commit. See the package
// documentation for the idempotency and concurrency contract.
type Orchestrator struct {
	store  *Store
	client *chat.Client
	logger *slog.Logger

	appID      string
	chatDomain string
	botUserID  string
}

// OrchestratorConfig configures an Orchestrator.
type OrchestratorConfig struct {
	// Client is the platform gateway. Required.
	Client *chat.Client
	// Store holds case state. A fresh empty store is created if nil.
	Store *Store
	// AppID is the platform application ID. Required.
	AppID string
	// ChatDomain is the XMPP domain for room JID derivation. Required.
	ChatDomain string
	// BotUserID is the platform ID of an optional chatbot granted
	// access to every case room. Empty disables the grant.
	BotUserID string
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// NewOrchestrator creates an Orchestrator from configuration.
func NewOrchestrator(config OrchestratorConfig) (*Orchestrator, error) {
	if config.Client == nil {
		return nil, fmt.Errorf("casework: Client is required")
	}
	if config.AppID == "" {
		return nil, fmt.Errorf("casework: AppID is required")
	}
	if config.ChatDomain == "" {
		return nil, fmt.Errorf("casework: ChatDomain is required")
	}

	store := config.Store
	if store == nil {
		store = NewStore()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		store:      store,
		client:     config.Client,
		logger:     logger,
		appID:      config.AppID,
		chatDomain: config.ChatDomain,
		botUserID:  config.BotUserID,
	}, nil
}

// CaseResult is the outcome of CreateCase, also reconstructed from
// local state for repeat calls.
type CaseResult struct {
	CaseID       ref.CaseID    `json:"caseId"`
	RoomJID      ref.RoomJID   `json:"roomJid"`
	Participants []Participant `json:"participants"`
}

// CreateCase ensures the case exists end to end: every participant has
// a platform account, the case room exists, and every participant has
// access to it.
//
// Repeat calls for a committed case return the stored result without
// contacting the platform. A call that races an in-flight creation for
// the same case waits for it and then re-checks. A failed workflow
// commits nothing; the next call re-runs it from the start, with each
// already-completed step short-circuiting on the platform's conflict
// response.
func (o *Orchestrator) CreateCase(ctx context.Context, caseID ref.CaseID, participants []Participant, metadata map[string]any) (*CaseResult, error) {
	if caseID.IsZero() {
		return nil, fmt.Errorf("%w: case ID is required", ErrInvalidArgument)
	}
	for _, p := range participants {
		if p.UserID == "" {
			return nil, fmt.Errorf("%w: participant is missing a user ID", ErrInvalidArgument)
		}
		if !p.Role.IsValid() {
			return nil, fmt.Errorf("%w: participant %q has invalid role %q", ErrInvalidArgument, p.UserID, p.Role)
		}
	}

	for {
		existing, wait, release := o.store.Claim(caseID)
		switch {
		case existing != nil:
			o.logger.Info("case already provisioned, returning local record", "case", caseID)
			return o.resultFromCase(existing), nil

		case wait != nil:
			o.logger.Info("case creation in flight, waiting", "case", caseID)
			select {
			case <-wait:
				// Re-claim: the winner either committed (we return
				// its record) or failed (we take over and re-run).
			case <-ctx.Done():
				return nil, ctx.Err()
			}

		default:
			result, err := o.provision(ctx, caseID, participants, metadata)
			release()
			return result, err
		}
	}
}

// provision runs the three-step workflow. Only one goroutine per case
// ID can be in here, enforced by Store.Claim.
func (o *Orchestrator) provision(ctx context.Context, caseID ref.CaseID, participants []Participant, metadata map[string]any) (*CaseResult, error) {
	// Participants are created strictly in request order. Sequential
	// creation keeps the log readable and isolates a failure to one
	// participant.
	resolved := make([]Participant, 0, len(participants))
	for _, p := range participants {
		rp, err := o.ensureParticipant(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("casework: ensuring participant %q: %w", p.UserID, err)
		}
		resolved = append(resolved, rp)
	}

	if err := o.ensureRoom(ctx, caseID); err != nil {
		return nil, err
	}

	// Grant failures never abort the workflow: the participant's
	// account and the room both exist, and access can be granted again
	// by an add-participant call. Each failure is logged and skipped.
	key := caseID.String()
	for _, rp := range resolved {
		if err := o.client.GrantAccess(ctx, key, rp.ExternalID); err != nil {
			o.logger.Warn("access grant failed, skipping participant",
				"case", caseID,
				"user", rp.UserID,
				"error", err,
			)
		}
	}
	if o.botUserID != "" {
		if err := o.client.GrantAccess(ctx, key, o.botUserID); err != nil {
			o.logger.Warn("chatbot access grant failed, skipping",
				"case", caseID,
				"bot", o.botUserID,
				"error", err,
			)
		}
	}

	memberIDs := make([]string, len(resolved))
	for index, rp := range resolved {
		memberIDs[index] = rp.UserID
	}
	o.store.CommitCase(Case{ID: caseID, ParticipantIDs: memberIDs, Metadata: metadata})

	jid := o.roomJID(caseID)
	o.logger.Info("case provisioned",
		"case", caseID,
		"room", jid,
		"participants", len(resolved),
	)
	return &CaseResult{CaseID: caseID, RoomJID: jid, Participants: resolved}, nil
}

// ensureParticipant resolves a participant to a platform account,
// creating it if needed. Resolution order: cached external ID, fresh
// creation, conflict reuse, one retry with a fallback profile.
func (o *Orchestrator) ensureParticipant(ctx context.Context, p Participant) (Participant, error) {
	if cached, ok := o.store.LookupParticipant(p.UserID); ok && cached.ExternalID != "" {
		return cached, nil
	}

	request := buildProfile(o.appID, p)
	user, err := o.client.CreateUser(ctx, request)
	if err == nil {
		return o.commitParticipant(p, request, user.ID), nil
	}
	if chat.IsConflict(err) {
		return o.reuseExisting(p, request), nil
	}

	// One retry with synthetic profile data. The platform rejects
	// some real-world profile fields (malformed emails, diacritics it
	// cannot store); the synthetic profile is always acceptable, so a
	// second failure means the platform itself is unhealthy.
	o.logger.Warn("user creation failed, retrying with fallback profile",
		"user", p.UserID,
		"error", err,
	)
	fallback := fallbackProfile(o.appID, p)
	user, retryErr := o.client.CreateUser(ctx, fallback)
	if retryErr == nil {
		p.Email = ""
		return o.commitParticipant(p, fallback, user.ID), nil
	}
	if chat.IsConflict(retryErr) {
		return o.reuseExisting(p, fallback), nil
	}
	return Participant{}, fmt.Errorf("creating platform user: %w", retryErr)
}

// commitParticipant records the profile as actually sent to the
// platform, together with the platform-assigned ID.
func (o *Orchestrator) commitParticipant(p Participant, sent chat.CreateUserRequest, externalID string) Participant {
	p.FirstName = sent.FirstName
	p.LastName = sent.LastName
	p.Password = sent.Password
	p.DisplayName = sent.FullName
	p.ExternalID = externalID
	o.store.SaveParticipant(p)
	return p
}

// reuseExisting handles the conflict path of user creation: the account
// exists on the platform. Any cached external ID wins; otherwise the
// identifier is derived locally so grants can still address the user.
func (o *Orchestrator) reuseExisting(p Participant, sent chat.CreateUserRequest) Participant {
	if cached, ok := o.store.LookupParticipant(p.UserID); ok && cached.ExternalID != "" {
		return cached
	}
	resolved := o.commitParticipant(p, sent, deriveLocalID(o.appID, p.UserID))
	o.logger.Info("platform account already exists, reusing",
		"user", p.UserID,
		"external_id", resolved.ExternalID,
	)
	return resolved
}

// ensureRoom creates the case room. The platform's conflict response
// means the room already exists, which is success here — the JID is
// deterministic, so nothing from the response is needed.
func (o *Orchestrator) ensureRoom(ctx context.Context, caseID ref.CaseID) error {
	_, err := o.client.CreateRoom(ctx, chat.CreateRoomRequest{
		Key:   caseID.String(),
		Title: roomTitle(caseID),
	})
	if err == nil {
		return nil
	}
	if chat.IsConflict(err) {
		o.logger.Info("room already exists, reusing", "case", caseID)
		return nil
	}
	return fmt.Errorf("casework: ensuring room for %q: %w", caseID, err)
}

// AddParticipant adds one participant to a committed case: same
// ensure+grant logic as CreateCase, append-only.
func (o *Orchestrator) AddParticipant(ctx context.Context, caseID ref.CaseID, p Participant) (Participant, error) {
	if p.UserID == "" {
		return Participant{}, fmt.Errorf("%w: participant is missing a user ID", ErrInvalidArgument)
	}
	if !p.Role.IsValid() {
		return Participant{}, fmt.Errorf("%w: participant %q has invalid role %q", ErrInvalidArgument, p.UserID, p.Role)
	}
	if _, ok := o.store.LookupCase(caseID); !ok {
		return Participant{}, fmt.Errorf("%w: %s", ErrCaseNotFound, caseID)
	}

	rp, err := o.ensureParticipant(ctx, p)
	if err != nil {
		return Participant{}, fmt.Errorf("casework: ensuring participant %q: %w", p.UserID, err)
	}

	if err := o.client.GrantAccess(ctx, caseID.String(), rp.ExternalID); err != nil {
		o.logger.Warn("access grant failed, skipping participant",
			"case", caseID,
			"user", rp.UserID,
			"error", err,
		)
	}

	o.store.AppendParticipant(caseID, rp.UserID)
	return rp, nil
}

// CaseRoom returns the room JID for a committed case.
func (o *Orchestrator) CaseRoom(caseID ref.CaseID) (ref.RoomJID, error) {
	if _, ok := o.store.LookupCase(caseID); !ok {
		return ref.RoomJID{}, fmt.Errorf("%w: %s", ErrCaseNotFound, caseID)
	}
	return o.roomJID(caseID), nil
}

// RemoveCaseRoom deletes the case's platform room. The local case
// record is kept — room deletion ends the conversation, not the case.
// The room key is deterministic, so no committed case is required;
// deleting the room of an unknown or already-deleted case is a soft
// result.
func (o *Orchestrator) RemoveCaseRoom(ctx context.Context, caseID ref.CaseID) (*chat.DeleteResult, error) {
	return o.client.DeleteRoom(ctx, caseID.String())
}

// DeleteUsers removes the platform accounts of the given user IDs and
// drops them from the participant cache. Returns the IDs whose accounts
// the platform actually removed; unknown users and platform failures
// are logged and skipped.
func (o *Orchestrator) DeleteUsers(ctx context.Context, userIDs []string) []string {
	deleted := make([]string, 0, len(userIDs))
	for _, userID := range userIDs {
		p, ok := o.store.LookupParticipant(userID)
		if !ok || p.ExternalID == "" {
			o.logger.Info("no platform account recorded for user, skipping", "user", userID)
			continue
		}

		result, err := o.client.DeleteUser(ctx, p.ExternalID)
		if err != nil {
			o.logger.Warn("user deletion failed, skipping", "user", userID, "error", err)
			continue
		}

		o.store.DeleteParticipant(userID)
		if result.Deleted {
			deleted = append(deleted, userID)
		} else {
			o.logger.Info("platform account already gone", "user", userID, "reason", result.Reason)
		}
	}
	return deleted
}

// resultFromCase reconstructs a CaseResult from local state, resolving
// each member through the participant cache.
func (o *Orchestrator) resultFromCase(c *Case) *CaseResult {
	participants := make([]Participant, 0, len(c.ParticipantIDs))
	for _, userID := range c.ParticipantIDs {
		if p, ok := o.store.LookupParticipant(userID); ok {
			participants = append(participants, p)
		}
	}
	return &CaseResult{
		CaseID:       c.ID,
		RoomJID:      o.roomJID(c.ID),
		Participants: participants,
	}
}

func (o *Orchestrator) roomJID(caseID ref.CaseID) ref.RoomJID {
	return ref.NewRoomJID(o.appID, caseID, o.chatDomain)
}

func roomTitle(caseID ref.CaseID) string {
	return "Case " + caseID.String()
}
