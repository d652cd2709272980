package legacyimport

import "github.com/frotaops-platform/api/internal/docstore"

const defaultDriverRating = 3

// MapDrivers joins driver rows with the separately-exported address sheet
// (linked by the driver row's address_id) and produces driver records. A row
// must carry at least one of id, CPF or name. Duplicates are decided by the
// legacy driver id and the normalized CPF together: a repeated CPF rejects
// the row even under a fresh legacy id, since one CPF belongs to at most one
// driver.
func MapDrivers(drivers, addresses Table, guard *Guard) ([]DriverRecord, Counts) {
	addressByID := groupAddresses(addresses)

	var accepted []DriverRecord
	var counts Counts
	for _, row := range drivers.Rows {
		name := row.Get("name", "nome")
		cpf := DigitsOnly(row.Get("cpf"))
		var legacyID *int64
		if id, ok := ParseLegacyID(row.Get("id")); ok {
			legacyID = &id
		}
		if legacyID == nil && cpf == "" && name == "" {
			continue
		}

		if guard.IsDuplicateAny(legacyKey(legacyID), cpfKey(cpf)) {
			counts.SkippedDuplicate++
			continue
		}

		record := DriverRecord{
			Name:                   name,
			CPF:                    cpf,
			Email:                  row.Get("email"),
			Phone:                  row.Get("phone", "telefone"),
			EmergencyContact:       row.Get("emergency_contact", "contato_emergencia"),
			EmergencyContactSecond: row.Get("emergency_contact_second", "contato_emergencia_2"),
			Rating:                 parseRating(row.Get("rating")),
			LegacyDriverID:         legacyID,
		}
		if addressLegacyID, ok := ParseLegacyID(row.Get("address_id", "endereco_id")); ok {
			if address, found := addressByID[addressLegacyID]; found {
				record.Address = &address
				record.AddressLegacyID = &addressLegacyID
			}
		}

		guard.Register(legacyKey(legacyID), cpfKey(cpf))
		accepted = append(accepted, record)
	}
	return accepted, counts
}

func groupAddresses(addresses Table) map[int64]Address {
	grouped := map[int64]Address{}
	for _, row := range addresses.Rows {
		id, ok := ParseLegacyID(row.Get("id"))
		if !ok {
			continue
		}
		grouped[id] = Address{
			Country:  row.Get("country", "pais"),
			Zip:      row.Get("zip", "cep"),
			State:    row.Get("state", "estado", "uf"),
			City:     row.Get("city", "cidade"),
			District: row.Get("district", "bairro"),
			Street:   row.Get("street", "rua", "logradouro"),
		}
	}
	return grouped
}

func parseRating(raw string) int {
	rating, ok := ParseLegacyID(raw)
	if !ok {
		return defaultDriverRating
	}
	if rating < 1 || rating > 5 {
		return defaultDriverRating
	}
	return int(rating)
}

// SeedDriverGuard loads the anti-clone keys of already-persisted drivers.
func SeedDriverGuard(guard *Guard, docs []docstore.Document) {
	for _, doc := range docs {
		var legacyID *int64
		if id, ok := fieldInt64(doc.Fields, "legacyDriverId"); ok {
			legacyID = &id
		}
		guard.Register(legacyKey(legacyID), cpfKey(DigitsOnly(fieldString(doc.Fields, "cpf"))))
	}
}
