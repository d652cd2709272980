package legacyimport

import "github.com/frotaops-platform/api/internal/docstore"

// Counts is the per-entity-kind outcome summary of a run.
type Counts struct {
	Imported         int `json:"imported"`
	SkippedDuplicate int `json:"skippedDuplicate"`
	SkippedUnlinked  int `json:"skippedUnlinked"`
}

// ownerHeaderProbe is the fixed priority order of owner-name spellings seen
// across legacy exports, including the mojibake variant produced by sheets
// saved with the wrong charset. The precedence is deliberate: earlier
// spellings win even when later ones are also filled.
var ownerHeaderProbe = []string{"ownerName", "owner", "proprietario", "proprietÃ¡rio"}

// MapCars validates car rows against the guard and produces the records to
// persist. Rows without both name and plate are dropped silently; rows whose
// legacy id (or, failing that, normalized plate) was already seen count as
// duplicates. Imported stays zero here — the orchestrator fills it in as
// writes succeed.
func MapCars(table Table, guard *Guard) ([]CarRecord, Counts) {
	var accepted []CarRecord
	var counts Counts

	hasActiveColumn := table.Has("active", "ativo")
	for _, row := range table.Rows {
		name := row.Get("name", "nome")
		plate := row.Get("plate", "placa")
		if name == "" || plate == "" {
			continue
		}

		var legacyID *int64
		if id, ok := ParseLegacyID(row.Get("id")); ok {
			legacyID = &id
		}
		normPlate := NormalizePlate(plate)

		if guard.IsDuplicate(legacyKey(legacyID), plateKey(normPlate)) {
			counts.SkippedDuplicate++
			continue
		}

		active := true
		if hasActiveColumn {
			active = ParseActive(row.Get("active", "ativo"))
		}

		record := CarRecord{
			Name:              name,
			Plate:             normPlate,
			CurrentMileage:    DecimalOrZero(row.Get("odometer", "current_mileage", "km")),
			Year:              row.Get("year", "ano"),
			Color:             row.Get("color", "cor"),
			Group:             row.Get("group", "grupo"),
			Active:            active,
			ExternalUserID:    row.Get("external_user_id", "user_id"),
			InitialValue:      DecimalOrNil(row.Get("initial_value", "valor_inicial")),
			AdministrationFee: DecimalOrNil(row.Get("administration_fee", "taxa_administracao")),
			LegacyID:          legacyID,
			OwnerName:         row.Get(ownerHeaderProbe...),
		}

		guard.Register(legacyKey(legacyID), plateKey(normPlate))
		accepted = append(accepted, record)
	}
	return accepted, counts
}

// SeedCarGuard loads the anti-clone keys of already-persisted cars: the
// legacy id when present, and the normalized plate either way.
func SeedCarGuard(guard *Guard, docs []docstore.Document) {
	for _, doc := range docs {
		var legacyID *int64
		if id, ok := fieldInt64(doc.Fields, "legacyId"); ok {
			legacyID = &id
		}
		guard.Register(legacyKey(legacyID), plateKey(NormalizePlate(fieldString(doc.Fields, "plate"))))
	}
}
