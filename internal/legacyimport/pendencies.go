package legacyimport

import (
	"strconv"

	"github.com/frotaops-platform/api/internal/docstore"
)

// DriverAssignment records that a resolved driver-car link should set the
// car's assignedDriverId. Applied by the orchestrator via a store update.
type DriverAssignment struct {
	CarID    string
	DriverID string
}

type resolvedLink struct {
	carID      string
	driverID   string
	driverName string
}

// LinkIndex maps a legacy driver_car link id to its resolved car and driver.
type LinkIndex map[int64]resolvedLink

// ResolveDriverCarLinks resolves the driver_car link sheet against both
// cross-reference maps, once per run. Links referencing an unknown car or
// driver are dropped; the first resolved link per car also yields a driver
// assignment.
func ResolveDriverCarLinks(links Table, cars, drivers CrossRef) (LinkIndex, []DriverAssignment) {
	resolved := LinkIndex{}
	var assignments []DriverAssignment
	assigned := map[string]struct{}{}
	for _, row := range links.Rows {
		linkID, ok := ParseLegacyID(row.Get("id"))
		if !ok {
			continue
		}
		carLegacyID, carOK := ParseLegacyID(row.Get("car_id", "carro_id"))
		driverLegacyID, driverOK := ParseLegacyID(row.Get("driver_id", "motorista_id"))
		if !carOK || !driverOK {
			continue
		}
		car, carFound := cars[carLegacyID]
		driver, driverFound := drivers[driverLegacyID]
		if !carFound || !driverFound {
			continue
		}
		resolved[linkID] = resolvedLink{
			carID:      car.CurrentID,
			driverID:   driver.CurrentID,
			driverName: driver.DisplayName,
		}
		if _, done := assigned[car.CurrentID]; !done {
			assigned[car.CurrentID] = struct{}{}
			assignments = append(assignments, DriverAssignment{CarID: car.CurrentID, DriverID: driver.CurrentID})
		}
	}
	return resolved, assignments
}

// MapPendencies maps pendency rows through the resolved link index. A
// pendency whose link is missing or unresolvable is counted as unlinked —
// every pendency must land on a known car+driver pair. Duplicates are decided
// by the bare legacy pendency id.
func MapPendencies(links LinkIndex, pendencies Table, guard *Guard) ([]PendencyRecord, Counts) {
	var accepted []PendencyRecord
	var counts Counts
	for _, row := range pendencies.Rows {
		linkID, ok := ParseLegacyID(row.Get("driver_car_id"))
		if !ok {
			counts.SkippedUnlinked++
			continue
		}
		link, found := links[linkID]
		if !found {
			counts.SkippedUnlinked++
			continue
		}

		var pendencyID *int64
		if id, parsed := ParseLegacyID(row.Get("id")); parsed {
			pendencyID = &id
		}
		if guard.IsDuplicate(pendencyIDKey(pendencyID)) {
			counts.SkippedDuplicate++
			continue
		}

		status := row.Get("status")
		if status == "" {
			status = "open"
		}
		record := PendencyRecord{
			CarID:             link.carID,
			Description:       row.Get("description", "descricao"),
			Amount:            DecimalOrZero(row.Get("amount", "value", "valor")),
			Status:            status,
			Date:              row.Get("date", "data"),
			DriverID:          link.driverID,
			DriverName:        link.driverName,
			LegacyPendencyID:  pendencyID,
			LegacyDriverCarID: &linkID,
		}

		guard.Register(pendencyIDKey(pendencyID))
		accepted = append(accepted, record)
	}
	return accepted, counts
}

func pendencyIDKey(id *int64) string {
	if id == nil {
		return ""
	}
	return "pendency:" + strconv.FormatInt(*id, 10)
}

// SeedPendencyGuard loads legacy pendency ids from a car's persisted
// pendencies.
func SeedPendencyGuard(guard *Guard, docs []docstore.Document) {
	for _, doc := range docs {
		if id, ok := fieldInt64(doc.Fields, "legacyPendencyId"); ok {
			guard.Register(pendencyIDKey(&id))
		}
	}
}
