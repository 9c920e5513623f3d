package store

import (
	"context"
	"fmt"

	"cotiza/internal/types"
)

// AddClient creates a client from the payload, assigns identifier and
// timestamps, and persists. No uniqueness checks on name or email.
func (s *Store) AddClient(ctx context.Context, in types.ClientInput) (types.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addClientLocked(ctx, in), nil
}

func (s *Store) addClientLocked(ctx context.Context, in types.ClientInput) types.Client {
	now := s.now()
	c := types.Client{
		ID:            s.newID(),
		Name:          in.Name,
		Code:          in.Code,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		TaxID:         in.TaxID,
		ContactPerson: in.ContactPerson,
		Industry:      in.Industry,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.clients = append(s.clients, c)
	s.persistLocked(ctx)
	return c
}

// UpdateClient merges the patch into the stored record. Unknown identifiers
// are an error rather than a silent no-op, so callers can tell "nothing to
// update" from "updated".
func (s *Store) UpdateClient(ctx context.Context, id string, patch types.ClientPatch) (types.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.clientIndexLocked(id)
	if idx < 0 {
		return types.Client{}, fmt.Errorf("client %s: %w", id, types.ErrNotFound)
	}
	patch.Apply(&s.clients[idx])
	s.clients[idx].UpdatedAt = s.now()
	s.persistLocked(ctx)
	return s.clients[idx], nil
}

// DeleteClient removes the client. Unknown identifiers are a no-op, so the
// call is idempotent. Deletion is refused while quotations still reference
// the client; no cascade is performed.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.clientIndexLocked(id)
	if idx < 0 {
		return nil
	}
	for _, q := range s.quotations {
		if q.ClientID == id {
			return fmt.Errorf("client %s: %w", id, types.ErrClientHasQuotations)
		}
	}
	s.clients = append(s.clients[:idx], s.clients[idx+1:]...)
	s.persistLocked(ctx)
	return nil
}

// Client returns the client by identifier.
func (s *Store) Client(id string) (types.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.clientIndexLocked(id)
	if idx < 0 {
		return types.Client{}, fmt.Errorf("client %s: %w", id, types.ErrNotFound)
	}
	return s.clients[idx], nil
}

// Clients returns a copy of the client collection.
func (s *Store) Clients() []types.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.Client(nil), s.clients...)
}

func (s *Store) clientIndexLocked(id string) int {
	for i := range s.clients {
		if s.clients[i].ID == id {
			return i
		}
	}
	return -1
}
