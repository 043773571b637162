// Package persist writes coalesced conversation snapshots to durable storage.
package persist

import (
	"context"

	"github.com/Waseeq-Zafar/Agri-Help-sub000/domain"
)

// Store is the durable storage collaborator. Implementations persist whole
// conversation snapshots; partial updates are not part of the contract.
type Store interface {
	Save(ctx context.Context, userID string, payload domain.PersistencePayload) error
	LoadAll(ctx context.Context, userID string) ([]domain.PersistencePayload, error)
	Delete(ctx context.Context, userID, conversationID string) error
	Close() error
}
