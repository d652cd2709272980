package legacyimport

// FinancialRequiredHeaders is the strict header set of the two financial
// feeds. Unlike the lenient legacy feeds, a financial file missing any of
// these fails loudly before a single row is processed.
var FinancialRequiredHeaders = []string{"date", "name", "cost", "car_id"}

// FinancialContext bundles what the financial mappers consult.
type FinancialContext struct {
	Cars CrossRef
}

// MapIncome turns income rows into revenue records. Rows missing date, name
// or car_id are dropped silently; rows whose car_id resolves to no known car
// count as unlinked. Unparseable amounts become 0, never an error.
func MapIncome(table Table, ctx FinancialContext) ([]RevenueRecord, Counts) {
	var accepted []RevenueRecord
	var counts Counts
	for _, row := range table.Rows {
		date := row.Get("date")
		name := row.Get("name")
		carRaw := row.Get("car_id")
		if date == "" || name == "" || carRaw == "" {
			continue
		}

		car, ok := resolveCar(ctx.Cars, carRaw)
		if !ok {
			counts.SkippedUnlinked++
			continue
		}

		var incomeID *int64
		if id, parsed := ParseLegacyID(row.Get("id")); parsed {
			incomeID = &id
		}
		accepted = append(accepted, RevenueRecord{
			CarID:          car.CurrentID,
			Date:           date,
			Description:    name,
			Value:          DecimalOrZero(row.Get("cost")),
			LegacyIncomeID: incomeID,
			ImportSource:   "legacy-csv",
		})
	}
	return accepted, counts
}

// MapCarExpenses turns the car-expense feed into expense records. Same row
// policies as MapIncome; these records carry no maintenance line items.
func MapCarExpenses(table Table, ctx FinancialContext) ([]ExpenseRecord, Counts) {
	var accepted []ExpenseRecord
	var counts Counts
	for _, row := range table.Rows {
		date := row.Get("date")
		name := row.Get("name")
		carRaw := row.Get("car_id")
		if date == "" || name == "" || carRaw == "" {
			continue
		}

		car, ok := resolveCar(ctx.Cars, carRaw)
		if !ok {
			counts.SkippedUnlinked++
			continue
		}

		carLegacyID, _ := ParseLegacyID(carRaw)
		category := row.Get("category", "categoria")
		if category == "" {
			category = "Outros"
		}
		accepted = append(accepted, ExpenseRecord{
			CarID:       car.CurrentID,
			Date:        date,
			Description: name,
			Cost:        DecimalOrZero(row.Get("cost")),
			Category:    category,
			Items:       nil,
			LegacyCarID: &carLegacyID,
		})
	}
	return accepted, counts
}

func resolveCar(cars CrossRef, raw string) (CrossRefEntry, bool) {
	legacyID, ok := ParseLegacyID(raw)
	if !ok {
		return CrossRefEntry{}, false
	}
	entry, found := cars[legacyID]
	return entry, found
}
