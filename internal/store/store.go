package store

import (
	"context"
	"errors"

	"gameshop/backend/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrOutOfStock        = errors.New("out of stock")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrPersistence       = errors.New("persistence failure")
	ErrMalformedPayload  = errors.New("malformed payload")
)

// Store persists the whole snapshot document. There are no partial
// updates: Load reads everything, Save overwrites everything, and
// concurrent writers clobber each other (last writer wins). The system
// assumes exactly one active writer per store.
type Store interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snap *domain.Snapshot) error
}
