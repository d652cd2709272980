package legacyimport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/frotaops-platform/api/internal/docstore"
)

// ErrCarIndexEmpty aborts the whole maintenance step when no persisted car
// carries a legacy id: without the index every expense would come out
// orphaned, so failing the file is the cheaper outcome.
var ErrCarIndexEmpty = errors.New("no cars with a legacy id found; import the car sheet before maintenance")

// MaintenanceContext bundles what the maintenance mapper consults.
type MaintenanceContext struct {
	Cars  CrossRef
	Guard *Guard
}

// MapMaintenance joins maintenance rows with their service line items
// (exported as a separate sheet, linked by the maintenance legacy id) and
// produces expense records. Rows whose car_id resolves to no known car count
// as unlinked; the composite (car, maintenance) key guards against clones —
// but only when both legs are present.
func MapMaintenance(maintenance, services Table, ctx MaintenanceContext) ([]ExpenseRecord, Counts, error) {
	if len(ctx.Cars) == 0 {
		return nil, Counts{}, ErrCarIndexEmpty
	}

	itemsByMaintenance := groupServiceItems(services)

	var accepted []ExpenseRecord
	var counts Counts
	for _, row := range maintenance.Rows {
		carLegacyID, carOK := ParseLegacyID(row.Get("car_id", "carro_id"))
		if !carOK {
			counts.SkippedUnlinked++
			continue
		}
		car, found := ctx.Cars[carLegacyID]
		if !found {
			counts.SkippedUnlinked++
			continue
		}

		var maintenanceID *int64
		if id, ok := ParseLegacyID(row.Get("id")); ok {
			maintenanceID = &id
		}
		carID := carLegacyID
		key := maintenanceKey(&carID, maintenanceID)
		if ctx.Guard.IsDuplicate(key) {
			counts.SkippedDuplicate++
			continue
		}

		var items []ServiceItem
		if maintenanceID != nil {
			items = itemsByMaintenance[*maintenanceID]
		}

		cost := DecimalOrZero(row.Get("total_cost", "cost", "total"))
		if cost == 0 {
			for _, item := range items {
				cost += item.Price * item.Quantity
			}
		}

		workshop := row.Get("local", "workshop", "oficina")
		record := ExpenseRecord{
			CarID:               car.CurrentID,
			Date:                row.Get("date", "data"),
			Description:         maintenanceDescription(items, workshop),
			Cost:                cost,
			Category:            "Manutenção",
			Items:               items,
			WorkshopName:        workshop,
			LegacyMaintenanceID: maintenanceID,
			LegacyCarID:         &carID,
			Odometer:            DecimalOrNil(row.Get("odometer", "km")),
		}

		ctx.Guard.Register(key)
		accepted = append(accepted, record)
	}
	return accepted, counts, nil
}

func groupServiceItems(services Table) map[int64][]ServiceItem {
	grouped := map[int64][]ServiceItem{}
	for _, row := range services.Rows {
		maintenanceID, ok := ParseLegacyID(row.Get("maintenance_id", "manutencao_id"))
		if !ok {
			continue
		}
		name := row.Get("name", "description", "descricao")
		if name == "" {
			continue
		}
		quantity := DecimalOrZero(row.Get("quantity", "qty", "quantidade"))
		if quantity == 0 {
			quantity = 1
		}
		grouped[maintenanceID] = append(grouped[maintenanceID], ServiceItem{
			Name:     name,
			Price:    DecimalOrZero(row.Get("cost", "price", "valor")),
			Quantity: quantity,
			Type:     "Serviço",
		})
	}
	return grouped
}

// maintenanceDescription synthesizes the expense description: the joined
// line items when any exist, otherwise the workshop, otherwise a bare label.
func maintenanceDescription(items []ServiceItem, workshop string) string {
	if len(items) > 0 {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, fmt.Sprintf("%sx %s", formatQuantity(item.Quantity), item.Name))
		}
		return strings.Join(parts, ", ")
	}
	if workshop != "" {
		return "Manutenção em " + workshop
	}
	return "Manutenção"
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// SeedMaintenanceGuard loads composite keys from a car's already-persisted
// expenses. Expenses missing either legacy leg contribute nothing, which is
// exactly why such records can be re-imported freely.
func SeedMaintenanceGuard(guard *Guard, docs []docstore.Document) {
	for _, doc := range docs {
		carID, carOK := fieldInt64(doc.Fields, "legacyCarId")
		maintenanceID, maintOK := fieldInt64(doc.Fields, "legacyMaintenanceId")
		if !carOK || !maintOK {
			continue
		}
		guard.Register(maintenanceKey(&carID, &maintenanceID))
	}
}

// SynthesizeCatalog derives new catalog entries from the service names seen
// in a run's expenses. Existing entries count only when their type
// classifies as a service; matching is case-insensitive and the first
// occurrence of a name fixes the synthesized price.
func SynthesizeCatalog(expenses []ExpenseRecord, existing []docstore.Document, companyID string) []CatalogItem {
	known := map[string]struct{}{}
	for _, doc := range existing {
		if !IsServiceType(fieldString(doc.Fields, "type")) {
			continue
		}
		name := strings.ToLower(fieldString(doc.Fields, "name"))
		if name != "" {
			known[name] = struct{}{}
		}
	}

	var synthesized []CatalogItem
	for _, expense := range expenses {
		for _, item := range expense.Items {
			lowered := strings.ToLower(item.Name)
			if _, ok := known[lowered]; ok {
				continue
			}
			known[lowered] = struct{}{}
			synthesized = append(synthesized, CatalogItem{
				Name:      item.Name,
				Type:      "Serviço",
				Price:     item.Price,
				Stock:     0,
				CompanyID: companyID,
			})
		}
	}
	return synthesized
}
