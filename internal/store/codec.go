package store

import (
	"encoding/json"
	"fmt"

	"gameshop/backend/internal/domain"
)

// document mirrors domain.Snapshot with optional keys, so documents
// written by older variants load without failing. Cash is a pointer to
// tell a missing key apart from a legitimate zero balance.
type document struct {
	Catalog     []domain.Item       `json:"catalog"`
	Sales       []domain.Sale       `json:"sales"`
	Returns     []domain.Return     `json:"returns"`
	Withdrawals []domain.Withdrawal `json:"withdrawals"`
	Cash        *domain.CashState   `json:"cash"`
}

// DecodeDocument parses a persisted snapshot document, default-filling
// any missing keys. A body that is not a JSON object fails with
// ErrMalformedPayload.
func DecodeDocument(data []byte) (*domain.Snapshot, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	snap := domain.NewSnapshot()
	if doc.Catalog != nil {
		snap.Catalog = doc.Catalog
	}
	if doc.Sales != nil {
		snap.Sales = doc.Sales
	}
	if doc.Returns != nil {
		snap.Returns = doc.Returns
	}
	if doc.Withdrawals != nil {
		snap.Withdrawals = doc.Withdrawals
	}
	if doc.Cash != nil {
		snap.Cash = *doc.Cash
	}
	return snap, nil
}

// EncodeDocument serializes a snapshot for persistence.
func EncodeDocument(snap *domain.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode snapshot: %v", ErrPersistence, err)
	}
	return data, nil
}
