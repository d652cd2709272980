package legacyimport

import (
	"fmt"
	"strconv"
)

// Guard is the anti-clone check: it holds every dedup key seen so far, both
// pre-loaded from the store and registered during the current run, so a
// duplicate inside one uploaded file is caught just like a duplicate against
// persisted state.
//
// Candidate keys are ordered. The first non-empty key decides the outcome;
// later keys are consulted only when every earlier key is empty. A car with
// a legacy id is therefore never rejected on its plate alone, and a
// maintenance row missing either leg of its composite key is never
// deduplicated at all.
type Guard struct {
	seen map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{seen: map[string]struct{}{}}
}

// IsDuplicate evaluates the ordered candidate keys against the seen set.
func (g *Guard) IsDuplicate(keys ...string) bool {
	for _, key := range keys {
		if key == "" {
			continue
		}
		_, dup := g.seen[key]
		return dup
	}
	return false
}

// IsDuplicateAny reports whether any non-empty candidate key was already
// seen. Drivers use this instead of the ordered check: a CPF belongs to at
// most one driver, so a repeated CPF is rejected even when the row carries a
// fresh legacy id.
func (g *Guard) IsDuplicateAny(keys ...string) bool {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if _, dup := g.seen[key]; dup {
			return true
		}
	}
	return false
}

// Register records every non-empty candidate key. Called immediately on
// acceptance, before the next row is evaluated.
func (g *Guard) Register(keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		g.seen[key] = struct{}{}
	}
}

func legacyKey(id *int64) string {
	if id == nil {
		return ""
	}
	return "legacy:" + strconv.FormatInt(*id, 10)
}

func plateKey(plate string) string {
	if plate == "" {
		return ""
	}
	return "plate:" + plate
}

func cpfKey(cpf string) string {
	if cpf == "" {
		return ""
	}
	return "cpf:" + cpf
}

func maintenanceKey(carID, maintenanceID *int64) string {
	if carID == nil || maintenanceID == nil {
		return ""
	}
	return fmt.Sprintf("maintenance:%d-%d", *carID, *maintenanceID)
}
