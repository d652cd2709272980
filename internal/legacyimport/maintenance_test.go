package legacyimport

import (
	"errors"
	"testing"

	"github.com/frotaops-platform/api/internal/docstore"
)

func carsIndex() CrossRef {
	return CrossRef{
		1: {CurrentID: "car-1", DisplayName: "Onix", Plate: "ABC1234"},
		2: {CurrentID: "car-2", DisplayName: "Gol", Plate: "DEF5678"},
	}
}

func TestMapMaintenanceJoinsServiceItems(t *testing.T) {
	maintenance := ParseTable("id,car_id,date,local\n100,1,2023-05-01,Oficina do Zé\n")
	services := ParseTable("id,maintenance_id,name,cost,quantity\n1,100,Troca de óleo,100,1\n2,100,Filtro,50,\n")

	records, counts, err := MapMaintenance(maintenance, services, MaintenanceContext{Cars: carsIndex(), Guard: NewGuard()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts.SkippedUnlinked != 0 || counts.SkippedDuplicate != 0 {
		t.Fatalf("unexpected skips: %+v", counts)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.CarID != "car-1" {
		t.Fatalf("expected car-1, got %q", rec.CarID)
	}
	// No total column: cost falls back to the line-item sum, with the blank
	// quantity treated as 1.
	if rec.Cost != 150 {
		t.Fatalf("expected cost 150, got %v", rec.Cost)
	}
	if rec.Category != "Manutenção" {
		t.Fatalf("expected category Manutenção, got %q", rec.Category)
	}
	if rec.Description != "1x Troca de óleo, 1x Filtro" {
		t.Fatalf("unexpected description %q", rec.Description)
	}
	if len(rec.Items) != 2 || rec.Items[0].Type != "Serviço" {
		t.Fatalf("unexpected items %+v", rec.Items)
	}
}

func TestMapMaintenanceTotalColumnWins(t *testing.T) {
	maintenance := ParseTable("id,car_id,date,total_cost\n100,1,2023-05-01,200\n")
	services := ParseTable("id,maintenance_id,name,cost\n1,100,Troca de óleo,100\n")

	records, _, err := MapMaintenance(maintenance, services, MaintenanceContext{Cars: carsIndex(), Guard: NewGuard()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].Cost != 200 {
		t.Fatalf("expected explicit total 200, got %v", records[0].Cost)
	}
}

func TestMapMaintenanceUnlinkedRows(t *testing.T) {
	maintenance := ParseTable("id,car_id,date\n100,99,2023-05-01\n101,,2023-05-02\n")
	records, counts, err := MapMaintenance(maintenance, Table{}, MaintenanceContext{Cars: carsIndex(), Guard: NewGuard()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected 0 records, got %d", len(records))
	}
	if counts.SkippedUnlinked != 2 {
		t.Fatalf("expected 2 unlinked, got %d", counts.SkippedUnlinked)
	}
}

func TestMapMaintenanceEmptyCarIndexFails(t *testing.T) {
	maintenance := ParseTable("id,car_id,date\n100,1,2023-05-01\n")
	_, _, err := MapMaintenance(maintenance, Table{}, MaintenanceContext{Cars: CrossRef{}, Guard: NewGuard()})
	if !errors.Is(err, ErrCarIndexEmpty) {
		t.Fatalf("expected ErrCarIndexEmpty, got %v", err)
	}
}

func TestMapMaintenanceCompositeDedup(t *testing.T) {
	guard := NewGuard()
	maintenance := ParseTable("id,car_id,date\n100,1,2023-05-01\n100,1,2023-05-01\n,1,2023-05-02\n,1,2023-05-03\n")

	records, counts, err := MapMaintenance(maintenance, Table{}, MaintenanceContext{Cars: carsIndex(), Guard: guard})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Rows without a maintenance id have no composite key and are never
	// deduplicated against each other.
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if counts.SkippedDuplicate != 1 {
		t.Fatalf("expected 1 duplicate, got %d", counts.SkippedDuplicate)
	}
}

func TestMapMaintenanceDescriptionFallbacks(t *testing.T) {
	if got := maintenanceDescription(nil, "Oficina do Zé"); got != "Manutenção em Oficina do Zé" {
		t.Fatalf("unexpected description %q", got)
	}
	if got := maintenanceDescription(nil, ""); got != "Manutenção" {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestSynthesizeCatalog(t *testing.T) {
	existing := []docstore.Document{
		{ID: "a", Fields: map[string]any{"name": "Troca de óleo", "type": "Serviço"}},
		{ID: "b", Fields: map[string]any{"name": "Filtro", "type": "Peça"}},
	}
	expenses := []ExpenseRecord{
		{Items: []ServiceItem{
			{Name: "troca de óleo", Price: 90},
			{Name: "Filtro", Price: 50},
			{Name: "Alinhamento", Price: 80},
			{Name: "alinhamento", Price: 120},
		}},
	}

	items := SynthesizeCatalog(expenses, existing, "company-1")
	if len(items) != 2 {
		t.Fatalf("expected 2 synthesized items, got %d", len(items))
	}
	// "Troca de óleo" exists as a service, so it is skipped case-insensitively.
	// "Filtro" exists but typed as a part, so it is synthesized anyway.
	if items[0].Name != "Filtro" {
		t.Fatalf("expected Filtro first, got %q", items[0].Name)
	}
	if items[1].Name != "Alinhamento" || items[1].Price != 80 {
		t.Fatalf("first occurrence should fix the price, got %+v", items[1])
	}
	if items[0].Type != "Serviço" || items[0].CompanyID != "company-1" {
		t.Fatalf("unexpected item shape %+v", items[0])
	}
}

func TestSeedMaintenanceGuardSkipsPartialKeys(t *testing.T) {
	guard := NewGuard()
	SeedMaintenanceGuard(guard, []docstore.Document{
		{ID: "a", Fields: map[string]any{"legacyCarId": float64(1), "legacyMaintenanceId": float64(100)}},
		{ID: "b", Fields: map[string]any{"legacyCarId": float64(1)}},
	})

	car, maint := int64(1), int64(100)
	if !guard.IsDuplicate(maintenanceKey(&car, &maint)) {
		t.Fatal("expected complete key to be seeded")
	}
}
