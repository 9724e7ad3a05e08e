// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

package casework

import (
	"slices"
	"sync"

	"github.com/caseline-care/caseline/lib/ref"
)

// Participant is a member of a case and the local record of their
// platform account.
type Participant struct {
	// UserID is the caller's identifier for the participant, unique
	// within the deployment.
	UserID string `json:"userId"`
	// Role is the participant's role within the case.
	Role ref.Role `json:"role"`
	// DisplayName, Email, FirstName and LastName are optional profile
	// fields forwarded to the platform, with defaults substituted for
	// missing or invalid values.
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	// Password is the platform password. Generated when empty. Never
	// serialized into responses.
	Password string `json:"-"`
	// ExternalID is the platform's identifier for the account, filled
	// in once the account is resolved.
	ExternalID string `json:"externalId,omitempty"`
}

// Case is the local record of a provisioned case.
type Case struct {
	// ID is the case's unique business key.
	ID ref.CaseID
	// ParticipantIDs lists member user IDs in the order they were
	// added.
	ParticipantIDs []string
	// Metadata is opaque caller data attached at creation.
	Metadata map[string]any
}

// Store holds all process-local case state: committed cases, the
// participant cache, and the pending-creation markers. One mutex guards
// everything — operations are map lookups and small copies, and a
// single lock closes the cross-case races a per-map scheme would leave
// between the participant cache and the case map.
//
// The Store is owned by the Orchestrator and injected at construction;
// there is no package-level instance.
type Store struct {
	mu           sync.Mutex
	cases        map[ref.CaseID]*Case
	participants map[string]*Participant
	pending      map[ref.CaseID]chan struct{}
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		cases:        make(map[ref.CaseID]*Case),
		participants: make(map[string]*Participant),
		pending:      make(map[ref.CaseID]chan struct{}),
	}
}

// Claim is the atomic entry step of case creation. Exactly one of the
// three results is non-zero:
//
//   - existing: the case is already committed; the caller returns it.
//   - wait: another creation is in flight; the caller waits for the
//     channel to close and then re-claims.
//   - release: the caller owns the creation; it must call release
//     (success or failure) to close the marker and wake waiters.
func (s *Store) Claim(caseID ref.CaseID) (existing *Case, wait <-chan struct{}, release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.cases[caseID]; ok {
		return c.snapshot(), nil, nil
	}
	if ch, ok := s.pending[caseID]; ok {
		return nil, ch, nil
	}

	ch := make(chan struct{})
	s.pending[caseID] = ch
	return nil, nil, func() {
		s.mu.Lock()
		delete(s.pending, caseID)
		s.mu.Unlock()
		close(ch)
	}
}

// LookupCase returns a snapshot of a committed case.
func (s *Store) LookupCase(caseID ref.CaseID) (*Case, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[caseID]
	if !ok {
		return nil, false
	}
	return c.snapshot(), true
}

// CommitCase writes the case record. Called exactly once per case, at
// the end of a successful creation workflow.
func (s *Store) CommitCase(c Case) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := c
	stored.ParticipantIDs = slices.Clone(c.ParticipantIDs)
	s.cases[c.ID] = &stored
}

// AppendParticipant adds a user ID to a committed case's ordered member
// list. Append-only and idempotent: an already-listed ID is left in
// place. Reports whether the case exists.
func (s *Store) AppendParticipant(caseID ref.CaseID, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[caseID]
	if !ok {
		return false
	}
	if !slices.Contains(c.ParticipantIDs, userID) {
		c.ParticipantIDs = append(c.ParticipantIDs, userID)
	}
	return true
}

// LookupParticipant returns a copy of a cached participant record.
func (s *Store) LookupParticipant(userID string) (Participant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[userID]
	if !ok {
		return Participant{}, false
	}
	return *p, true
}

// SaveParticipant writes a participant record to the cache, replacing
// any previous record for the same user ID.
func (s *Store) SaveParticipant(p Participant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participants[p.UserID] = &p
}

// DeleteParticipant removes a participant from the cache. Case member
// lists are left untouched — bulk user deletion removes accounts, not
// case history.
func (s *Store) DeleteParticipant(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.participants, userID)
}

// snapshot returns a copy safe to hand outside the lock.
func (c *Case) snapshot() *Case {
	copied := *c
	copied.ParticipantIDs = slices.Clone(c.ParticipantIDs)
	return &copied
}
