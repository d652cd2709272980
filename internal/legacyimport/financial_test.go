package legacyimport

import "testing"

func TestMapIncomeBrazilianAmounts(t *testing.T) {
	table := ParseTable("id,date,name,cost,car_id\n7,2023-01-02,Frete,\"1.500,00\",1\n")
	records, counts := MapIncome(table, FinancialContext{Cars: carsIndex()})

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Value != 1500 {
		t.Fatalf("expected value 1500, got %v", rec.Value)
	}
	if rec.CarID != "car-1" || rec.Description != "Frete" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.ImportSource != "legacy-csv" {
		t.Fatalf("expected importSource legacy-csv, got %q", rec.ImportSource)
	}
	if rec.LegacyIncomeID == nil || *rec.LegacyIncomeID != 7 {
		t.Fatalf("expected legacy income id 7, got %v", rec.LegacyIncomeID)
	}
	if counts.SkippedUnlinked != 0 {
		t.Fatalf("unexpected skips: %+v", counts)
	}
}

func TestMapIncomeUnparseableAmountBecomesZero(t *testing.T) {
	table := ParseTable("date,name,cost,car_id\n2023-01-02,Frete,abc,1\n")
	records, _ := MapIncome(table, FinancialContext{Cars: carsIndex()})

	if len(records) != 1 || records[0].Value != 0 {
		t.Fatalf("expected value 0, got %+v", records)
	}
}

func TestMapIncomeSkipsUnknownCars(t *testing.T) {
	table := ParseTable("date,name,cost,car_id\n2023-01-02,Frete,100,99\n2023-01-03,Frete,100,xx\n")
	records, counts := MapIncome(table, FinancialContext{Cars: carsIndex()})

	if len(records) != 0 {
		t.Fatalf("expected 0 records, got %d", len(records))
	}
	if counts.SkippedUnlinked != 2 {
		t.Fatalf("expected 2 unlinked, got %d", counts.SkippedUnlinked)
	}
}

func TestMapIncomeDropsIncompleteRowsSilently(t *testing.T) {
	table := ParseTable("date,name,cost,car_id\n,Frete,100,1\n2023-01-02,,100,1\n2023-01-03,Frete,100,\n")
	records, counts := MapIncome(table, FinancialContext{Cars: carsIndex()})

	if len(records) != 0 {
		t.Fatalf("expected 0 records, got %d", len(records))
	}
	if counts.SkippedUnlinked != 0 {
		t.Fatalf("incomplete rows must not count as unlinked: %+v", counts)
	}
}

func TestMapCarExpensesCategoryDefault(t *testing.T) {
	table := ParseTable("date,name,cost,car_id,category\n2023-01-02,Pedágio,\"25,50\",2,\n2023-01-03,IPVA,300,2,Imposto\n")
	records, _ := MapCarExpenses(table, FinancialContext{Cars: carsIndex()})

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Category != "Outros" {
		t.Fatalf("expected default category Outros, got %q", records[0].Category)
	}
	if records[0].Cost != 25.5 {
		t.Fatalf("expected cost 25.5, got %v", records[0].Cost)
	}
	if records[1].Category != "Imposto" {
		t.Fatalf("expected category Imposto, got %q", records[1].Category)
	}
	if records[0].LegacyCarID == nil || *records[0].LegacyCarID != 2 {
		t.Fatalf("expected legacy car id 2, got %v", records[0].LegacyCarID)
	}
	if len(records[0].Items) != 0 {
		t.Fatalf("car expenses must carry no items, got %+v", records[0].Items)
	}
}
