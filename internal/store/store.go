// Package store keeps the two per-client state slots: the in-progress
// service-request draft and the last marketplace receipt. Each slot holds one
// JSON value and is overwritten on every write.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Simplici0/diamond-courier/internal/cart"
)

// Slot names a per-client state slot.
type Slot string

// Slots kept per client.
const (
	SlotDraft     Slot = "draft"
	SlotLastOrder Slot = "last_order"
)

// ErrEmpty means the slot has never been written or was cleared.
// ErrInvalidClient rejects a blank client id.
var (
	ErrEmpty         = errors.New("state slot is empty")
	ErrInvalidClient = errors.New("client id is required")
)

// Draft is the raw field values of an unfinished service-request form.
type Draft map[string]any

// Store reads and writes client state slots in SQLite.
type Store struct {
	db *sql.DB
}

// New creates a Store. The client_state table must already exist.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Put overwrites a slot with the JSON encoding of v.
func (s *Store) Put(ctx context.Context, clientID string, slot Slot, v any) error {
	if clientID == "" {
		return ErrInvalidClient
	}

	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", slot, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO client_state (client_id, slot, payload, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(client_id, slot) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, clientID, string(slot), string(payload))
	if err != nil {
		return fmt.Errorf("write %s: %w", slot, err)
	}
	return nil
}

// Get decodes a slot into v. It returns ErrEmpty when nothing was stored.
func (s *Store) Get(ctx context.Context, clientID string, slot Slot, v any) error {
	if clientID == "" {
		return ErrInvalidClient
	}

	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM client_state WHERE client_id = ? AND slot = ?
	`, clientID, string(slot)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEmpty
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", slot, err)
	}

	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("decode %s: %w", slot, err)
	}
	return nil
}

// Clear empties a slot. Clearing an empty slot is not an error.
func (s *Store) Clear(ctx context.Context, clientID string, slot Slot) error {
	if clientID == "" {
		return ErrInvalidClient
	}

	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM client_state WHERE client_id = ? AND slot = ?
	`, clientID, string(slot)); err != nil {
		return fmt.Errorf("clear %s: %w", slot, err)
	}
	return nil
}

// SaveDraft overwrites the client's draft.
func (s *Store) SaveDraft(ctx context.Context, clientID string, d Draft) error {
	return s.Put(ctx, clientID, SlotDraft, d)
}

// Draft returns the client's draft.
func (s *Store) Draft(ctx context.Context, clientID string) (Draft, error) {
	var d Draft
	if err := s.Get(ctx, clientID, SlotDraft, &d); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrEmpty
	}
	return d, nil
}

// ClearDraft removes the client's draft.
func (s *Store) ClearDraft(ctx context.Context, clientID string) error {
	return s.Clear(ctx, clientID, SlotDraft)
}

// SaveLastOrder overwrites the client's receipt. Receipts are never cleared.
func (s *Store) SaveLastOrder(ctx context.Context, clientID string, o cart.Order) error {
	return s.Put(ctx, clientID, SlotLastOrder, o)
}

// LastOrder returns the client's most recent receipt.
func (s *Store) LastOrder(ctx context.Context, clientID string) (*cart.Order, error) {
	var o cart.Order
	if err := s.Get(ctx, clientID, SlotLastOrder, &o); err != nil {
		return nil, err
	}
	return &o, nil
}
