package legacyimport

import "testing"

func TestGuardFirstNonEmptyKeyDecides(t *testing.T) {
	guard := NewGuard()
	guard.Register("plate:ABC1234")

	id := int64(7)
	// A car with an unseen legacy id is accepted even though its plate was
	// already registered: the plate key is never consulted.
	if guard.IsDuplicate(legacyKey(&id), plateKey("ABC1234")) {
		t.Fatal("legacy id should shadow the plate key")
	}

	guard.Register(legacyKey(&id), plateKey("ABC1234"))
	if !guard.IsDuplicate(legacyKey(&id), plateKey("XYZ0000")) {
		t.Fatal("registered legacy id should be a duplicate")
	}
}

func TestGuardFallsBackWhenEarlierKeysEmpty(t *testing.T) {
	guard := NewGuard()
	guard.Register(plateKey("ABC1234"))

	if !guard.IsDuplicate(legacyKey(nil), plateKey("ABC1234")) {
		t.Fatal("plate key should decide when legacy id is absent")
	}
	if guard.IsDuplicate(legacyKey(nil), plateKey("XYZ0000")) {
		t.Fatal("unseen plate should not be a duplicate")
	}
}

func TestGuardAnyKeySeen(t *testing.T) {
	guard := NewGuard()
	guard.Register(cpfKey("11122233344"))

	id := int64(2)
	if !guard.IsDuplicateAny(legacyKey(&id), cpfKey("11122233344")) {
		t.Fatal("seen CPF must reject even under a fresh legacy id")
	}
	if guard.IsDuplicateAny(legacyKey(&id), cpfKey("55566677788")) {
		t.Fatal("all keys unseen should not be a duplicate")
	}
	if guard.IsDuplicateAny(legacyKey(nil), cpfKey("")) {
		t.Fatal("empty keys alone should never be a duplicate")
	}
}

func TestMaintenanceKeyRequiresBothLegs(t *testing.T) {
	car := int64(1)
	maint := int64(2)

	if got := maintenanceKey(&car, &maint); got != "maintenance:1-2" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := maintenanceKey(&car, nil); got != "" {
		t.Fatalf("expected empty key with nil maintenance leg, got %q", got)
	}
	if got := maintenanceKey(nil, &maint); got != "" {
		t.Fatalf("expected empty key with nil car leg, got %q", got)
	}

	guard := NewGuard()
	guard.Register(maintenanceKey(&car, &maint))
	if guard.IsDuplicate(maintenanceKey(&car, nil)) {
		t.Fatal("a row missing one leg must never deduplicate")
	}
}
