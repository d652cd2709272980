package legacyimport

import (
	"context"
	"fmt"

	"github.com/frotaops-platform/api/internal/docstore"
)

// CrossRefEntry links a legacy numeric id to the store's generated id.
type CrossRefEntry struct {
	CurrentID   string
	DisplayName string
	Plate       string
	CPF         string
}

// CrossRef indexes one entity kind by its legacy id for a single run. It is
// built from a full collection scan and extended in-memory as new records
// are persisted, so a later feed can reference a car imported minutes
// earlier in the same run.
type CrossRef map[int64]CrossRefEntry

func (c CrossRef) Add(legacyID int64, entry CrossRefEntry) {
	c[legacyID] = entry
}

// BuildCarIndex scans the cars collection and indexes every car carrying a
// legacyId field.
func BuildCarIndex(ctx context.Context, store docstore.Store, basePath string) (CrossRef, error) {
	docs, err := store.ListAll(ctx, docstore.Join(basePath, "cars"))
	if err != nil {
		return nil, fmt.Errorf("scan cars: %w", err)
	}
	index := CrossRef{}
	for _, doc := range docs {
		legacyID, ok := fieldInt64(doc.Fields, "legacyId")
		if !ok {
			continue
		}
		index.Add(legacyID, CrossRefEntry{
			CurrentID:   doc.ID,
			DisplayName: fieldString(doc.Fields, "name"),
			Plate:       NormalizePlate(fieldString(doc.Fields, "plate")),
		})
	}
	return index, nil
}

// BuildDriverIndex scans the drivers collection and indexes every driver
// carrying a legacyDriverId field.
func BuildDriverIndex(ctx context.Context, store docstore.Store, basePath string) (CrossRef, error) {
	docs, err := store.ListAll(ctx, docstore.Join(basePath, "drivers"))
	if err != nil {
		return nil, fmt.Errorf("scan drivers: %w", err)
	}
	index := CrossRef{}
	for _, doc := range docs {
		legacyID, ok := fieldInt64(doc.Fields, "legacyDriverId")
		if !ok {
			continue
		}
		index.Add(legacyID, CrossRefEntry{
			CurrentID:   doc.ID,
			DisplayName: fieldString(doc.Fields, "name"),
			CPF:         DigitsOnly(fieldString(doc.Fields, "cpf")),
		})
	}
	return index, nil
}
