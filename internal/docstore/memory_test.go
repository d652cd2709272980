package docstore

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryCreateListPreservesOrder(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	first, err := store.Create(ctx, "tenants/a/cars", map[string]any{"plate": "ABC1234"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := store.Create(ctx, "tenants/a/cars", map[string]any{"plate": "DEF5678"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	docs, err := store.ListAll(ctx, "tenants/a/cars")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != first || docs[1].ID != second {
		t.Fatalf("unexpected order: %+v", docs)
	}
}

func TestMemoryUpdateMergesFields(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	id, err := store.Create(ctx, "tenants/a/cars", map[string]any{"plate": "ABC1234", "active": true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.Update(ctx, Join("tenants/a/cars", id), map[string]any{"assignedDriverId": "d-1"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	fields, ok := store.Get("tenants/a/cars", id)
	if !ok {
		t.Fatal("document vanished")
	}
	if fields["plate"] != "ABC1234" || fields["assignedDriverId"] != "d-1" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
}

func TestMemoryUpdateMissingDocument(t *testing.T) {
	store := NewMemory()
	err := store.Update(context.Background(), "tenants/a/cars/missing", map[string]any{"x": 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryQueryNumericEquality(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if _, err := store.Create(ctx, "tenants/a/cars", map[string]any{"legacyId": float64(10)}); err != nil {
		t.Fatalf("create: %v", err)
	}

	docs, err := store.Query(ctx, "tenants/a/cars", "legacyId", "==", int64(10))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected numeric match across representations, got %d", len(docs))
	}

	if _, err := store.Query(ctx, "tenants/a/cars", "legacyId", ">", 5); !errors.Is(err, ErrUnsupportedOperator) {
		t.Fatalf("expected ErrUnsupportedOperator, got %v", err)
	}
}

func TestMemoryFailCreates(t *testing.T) {
	store := NewMemory()
	boom := errors.New("boom")
	store.FailCreates = map[string]error{"tenants/a/cars": boom}

	if _, err := store.Create(context.Background(), "tenants/a/cars", map[string]any{}); !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	if _, err := store.Create(context.Background(), "tenants/a/drivers", map[string]any{}); err != nil {
		t.Fatalf("other collections must work: %v", err)
	}
}

func TestJoinAndSplitPath(t *testing.T) {
	path := Join("tenants/a", "cars", "id-1")
	if path != "tenants/a/cars/id-1" {
		t.Fatalf("unexpected path %q", path)
	}
	collection, id := SplitPath(path)
	if collection != "tenants/a/cars" || id != "id-1" {
		t.Fatalf("unexpected split %q %q", collection, id)
	}
}
