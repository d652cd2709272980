package legacyimport

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frotaops-platform/api/internal/docstore"
)

// Kind names one legacy feed shape.
type Kind string

const (
	KindCars        Kind = "cars"
	KindMaintenance Kind = "maintenance"
	KindServices    Kind = "services"
	KindIncome      Kind = "income"
	KindCarExpenses Kind = "car_expenses"
	KindDrivers     Kind = "drivers"
	KindAddresses   Kind = "addresses"
	KindDriverCars  Kind = "driver_cars"
	KindPendencies  Kind = "pendencies"
)

// File is one uploaded legacy export, already in memory.
type File struct {
	Kind Kind
	Name string
	Data []byte
}

// Report is the consolidated outcome of one run. Per-file hard failures
// (bad strict headers, row limits) land in Errors; soft warnings (empty
// files) land in Messages. Partial success is the expected common case.
type Report struct {
	Cars           Counts   `json:"cars"`
	Maintenance    Counts   `json:"maintenance"`
	Revenues       Counts   `json:"revenues"`
	Expenses       Counts   `json:"expenses"`
	Drivers        Counts   `json:"drivers"`
	Pendencies     Counts   `json:"pendencies"`
	CatalogCreated int      `json:"catalogCreated"`
	Messages       []string `json:"messages,omitempty"`
	Errors         []string `json:"errors,omitempty"`
}

// Summary renders the report as one consolidated human-readable message.
func (r Report) Summary() string {
	line := func(kind string, c Counts) string {
		return fmt.Sprintf("%s: %d imported, %d duplicate, %d unlinked", kind, c.Imported, c.SkippedDuplicate, c.SkippedUnlinked)
	}
	out := line("cars", r.Cars) +
		"; " + line("maintenance", r.Maintenance) +
		"; " + line("revenues", r.Revenues) +
		"; " + line("expenses", r.Expenses) +
		"; " + line("drivers", r.Drivers) +
		"; " + line("pendencies", r.Pendencies)
	if r.CatalogCreated > 0 {
		out += fmt.Sprintf("; catalog: %d new services", r.CatalogCreated)
	}
	for _, e := range r.Errors {
		out += "; error: " + e
	}
	return out
}

// Importer sequences the per-kind import steps against one store handle and
// one tenant-scoped base path. It is the sole writer: mappers stay pure over
// rows and in-memory context.
type Importer struct {
	Store     docstore.Store
	BasePath  string
	CompanyID string
	// MaxRows caps data rows per file when positive.
	MaxRows int
	Logger  *slog.Logger
	Now     func() time.Time
}

func New(store docstore.Store, basePath, companyID string, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		Store:     store,
		BasePath:  basePath,
		CompanyID: companyID,
		Logger:    logger,
		Now:       time.Now,
	}
}

// Run processes the selected files in the fixed entity order: cars, then
// maintenance+services, then the financial feeds, then drivers+addresses,
// then driver-car links+pendencies. Later kinds depend on cross-reference
// maps extended by earlier kinds within the same run, which is why kinds run
// sequentially and writes happen one record at a time. A hard failure in one
// kind is reported but never blocks the kinds after it.
func (imp *Importer) Run(ctx context.Context, files []File) Report {
	report := Report{}
	byKind := map[Kind][]File{}
	for _, f := range files {
		byKind[f.Kind] = append(byKind[f.Kind], f)
	}

	carIndex, err := BuildCarIndex(ctx, imp.Store, imp.BasePath)
	if err != nil {
		report.Errors = append(report.Errors, "cars: "+err.Error())
		carIndex = CrossRef{}
	}

	imp.runCars(ctx, byKind[KindCars], carIndex, &report)
	imp.runMaintenance(ctx, byKind[KindMaintenance], byKind[KindServices], carIndex, &report)
	imp.runFinancial(ctx, byKind[KindIncome], byKind[KindCarExpenses], carIndex, &report)
	driverIndex := imp.runDrivers(ctx, byKind[KindDrivers], byKind[KindAddresses], &report)
	imp.runPendencies(ctx, byKind[KindDriverCars], byKind[KindPendencies], carIndex, driverIndex, &report)
	return report
}

func (imp *Importer) runCars(ctx context.Context, files []File, carIndex CrossRef, report *Report) {
	if len(files) == 0 {
		return
	}

	guard := NewGuard()
	existing, err := imp.Store.ListAll(ctx, imp.path("cars"))
	if err != nil {
		report.Errors = append(report.Errors, "cars: "+err.Error())
		return
	}
	SeedCarGuard(guard, existing)

	for _, f := range files {
		table, ok := imp.parseLenient(f, report)
		if !ok {
			continue
		}
		records, counts := MapCars(table, guard)
		report.Cars.SkippedDuplicate += counts.SkippedDuplicate
		report.Cars.SkippedUnlinked += counts.SkippedUnlinked
		for _, rec := range records {
			id, createErr := imp.Store.Create(ctx, imp.path("cars"), rec.Fields(imp.Now()))
			if createErr != nil {
				imp.Logger.Error("persist car failed", "plate", rec.Plate, "error", createErr)
				continue
			}
			report.Cars.Imported++
			if rec.LegacyID != nil {
				carIndex.Add(*rec.LegacyID, CrossRefEntry{CurrentID: id, DisplayName: rec.Name, Plate: rec.Plate})
			}
		}
	}
}

func (imp *Importer) runMaintenance(ctx context.Context, maintenanceFiles, serviceFiles []File, carIndex CrossRef, report *Report) {
	if len(maintenanceFiles) == 0 {
		return
	}
	if len(carIndex) == 0 {
		report.Errors = append(report.Errors, "maintenance: "+ErrCarIndexEmpty.Error())
		return
	}

	guard := NewGuard()
	for _, entry := range carIndex {
		docs, err := imp.Store.ListAll(ctx, imp.path("cars", entry.CurrentID, "expenses"))
		if err != nil {
			imp.Logger.Error("scan expenses failed", "car", entry.CurrentID, "error", err)
			continue
		}
		SeedMaintenanceGuard(guard, docs)
	}

	services := Table{}
	for _, f := range serviceFiles {
		table, ok := imp.parseLenient(f, report)
		if !ok {
			continue
		}
		services.Rows = append(services.Rows, table.Rows...)
	}

	var runExpenses []ExpenseRecord
	mctx := MaintenanceContext{Cars: carIndex, Guard: guard}
	for _, f := range maintenanceFiles {
		table, ok := imp.parseLenient(f, report)
		if !ok {
			continue
		}
		records, counts, err := MapMaintenance(table, services, mctx)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", f.Name, err))
			continue
		}
		report.Maintenance.SkippedDuplicate += counts.SkippedDuplicate
		report.Maintenance.SkippedUnlinked += counts.SkippedUnlinked
		for _, rec := range records {
			if _, createErr := imp.Store.Create(ctx, imp.path("cars", rec.CarID, "expenses"), rec.Fields()); createErr != nil {
				imp.Logger.Error("persist maintenance expense failed", "car", rec.CarID, "error", createErr)
				continue
			}
			report.Maintenance.Imported++
			runExpenses = append(runExpenses, rec)
		}
	}

	if len(runExpenses) == 0 {
		return
	}
	existing, err := imp.Store.ListAll(ctx, imp.path("catalog"))
	if err != nil {
		report.Errors = append(report.Errors, "catalog: "+err.Error())
		return
	}
	for _, item := range SynthesizeCatalog(runExpenses, existing, imp.CompanyID) {
		if _, createErr := imp.Store.Create(ctx, imp.path("catalog"), item.Fields(imp.Now())); createErr != nil {
			imp.Logger.Error("persist catalog item failed", "name", item.Name, "error", createErr)
			continue
		}
		report.CatalogCreated++
	}
}

func (imp *Importer) runFinancial(ctx context.Context, incomeFiles, expenseFiles []File, carIndex CrossRef, report *Report) {
	fctx := FinancialContext{Cars: carIndex}

	for _, f := range incomeFiles {
		table, ok := imp.parseStrict(f, report)
		if !ok {
			continue
		}
		records, counts := MapIncome(table, fctx)
		report.Revenues.SkippedUnlinked += counts.SkippedUnlinked
		for _, rec := range records {
			if _, err := imp.Store.Create(ctx, imp.path("cars", rec.CarID, "revenues"), rec.Fields()); err != nil {
				imp.Logger.Error("persist revenue failed", "car", rec.CarID, "error", err)
				continue
			}
			report.Revenues.Imported++
		}
	}

	for _, f := range expenseFiles {
		table, ok := imp.parseStrict(f, report)
		if !ok {
			continue
		}
		records, counts := MapCarExpenses(table, fctx)
		report.Expenses.SkippedUnlinked += counts.SkippedUnlinked
		for _, rec := range records {
			if _, err := imp.Store.Create(ctx, imp.path("cars", rec.CarID, "expenses"), rec.Fields()); err != nil {
				imp.Logger.Error("persist expense failed", "car", rec.CarID, "error", err)
				continue
			}
			report.Expenses.Imported++
		}
	}
}

func (imp *Importer) runDrivers(ctx context.Context, driverFiles, addressFiles []File, report *Report) CrossRef {
	if len(driverFiles) == 0 {
		return nil
	}

	driverIndex, err := BuildDriverIndex(ctx, imp.Store, imp.BasePath)
	if err != nil {
		report.Errors = append(report.Errors, "drivers: "+err.Error())
		return nil
	}

	guard := NewGuard()
	existing, err := imp.Store.ListAll(ctx, imp.path("drivers"))
	if err != nil {
		report.Errors = append(report.Errors, "drivers: "+err.Error())
		return driverIndex
	}
	SeedDriverGuard(guard, existing)

	addresses := Table{}
	for _, f := range addressFiles {
		table, ok := imp.parseLenient(f, report)
		if !ok {
			continue
		}
		addresses.Rows = append(addresses.Rows, table.Rows...)
	}

	for _, f := range driverFiles {
		table, ok := imp.parseLenient(f, report)
		if !ok {
			continue
		}
		records, counts := MapDrivers(table, addresses, guard)
		report.Drivers.SkippedDuplicate += counts.SkippedDuplicate
		report.Drivers.SkippedUnlinked += counts.SkippedUnlinked
		for _, rec := range records {
			id, createErr := imp.Store.Create(ctx, imp.path("drivers"), rec.Fields())
			if createErr != nil {
				imp.Logger.Error("persist driver failed", "name", rec.Name, "error", createErr)
				continue
			}
			report.Drivers.Imported++
			if rec.LegacyDriverID != nil {
				driverIndex.Add(*rec.LegacyDriverID, CrossRefEntry{CurrentID: id, DisplayName: rec.Name, CPF: rec.CPF})
			}
		}
	}
	return driverIndex
}

func (imp *Importer) runPendencies(ctx context.Context, linkFiles, pendencyFiles []File, carIndex, driverIndex CrossRef, report *Report) {
	if len(linkFiles) == 0 && len(pendencyFiles) == 0 {
		return
	}

	if driverIndex == nil {
		built, err := BuildDriverIndex(ctx, imp.Store, imp.BasePath)
		if err != nil {
			report.Errors = append(report.Errors, "pendencies: "+err.Error())
			return
		}
		driverIndex = built
	}

	guard := NewGuard()
	for _, entry := range carIndex {
		docs, err := imp.Store.ListAll(ctx, imp.path("cars", entry.CurrentID, "pendencies"))
		if err != nil {
			imp.Logger.Error("scan pendencies failed", "car", entry.CurrentID, "error", err)
			continue
		}
		SeedPendencyGuard(guard, docs)
	}

	links := Table{}
	for _, f := range linkFiles {
		table, ok := imp.parseLenient(f, report)
		if !ok {
			continue
		}
		links.Rows = append(links.Rows, table.Rows...)
	}
	linkIndex, assignments := ResolveDriverCarLinks(links, carIndex, driverIndex)

	for _, f := range pendencyFiles {
		table, ok := imp.parseLenient(f, report)
		if !ok {
			continue
		}
		records, counts := MapPendencies(linkIndex, table, guard)
		report.Pendencies.SkippedDuplicate += counts.SkippedDuplicate
		report.Pendencies.SkippedUnlinked += counts.SkippedUnlinked
		for _, rec := range records {
			if _, err := imp.Store.Create(ctx, imp.path("cars", rec.CarID, "pendencies"), rec.Fields()); err != nil {
				imp.Logger.Error("persist pendency failed", "car", rec.CarID, "error", err)
				continue
			}
			report.Pendencies.Imported++
		}
	}

	for _, a := range assignments {
		if err := imp.Store.Update(ctx, imp.path("cars", a.CarID), map[string]any{"assignedDriverId": a.DriverID}); err != nil {
			imp.Logger.Error("assign driver failed", "car", a.CarID, "driver", a.DriverID, "error", err)
		}
	}
}

func (imp *Importer) path(segments ...string) string {
	return docstore.Join(append([]string{imp.BasePath}, segments...)...)
}

func (imp *Importer) parseLenient(f File, report *Report) (Table, bool) {
	table := ParseTable(DecodeUpload(f.Data))
	return imp.checkTable(f, table, report)
}

func (imp *Importer) parseStrict(f File, report *Report) (Table, bool) {
	table, err := ParseTableStrict(DecodeUpload(f.Data), f.Name, FinancialRequiredHeaders)
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
		return Table{}, false
	}
	return imp.checkTable(f, table, report)
}

func (imp *Importer) checkTable(f File, table Table, report *Report) (Table, bool) {
	if len(table.Rows) == 0 {
		report.Messages = append(report.Messages, fmt.Sprintf("%s: no usable rows", f.Name))
		return Table{}, false
	}
	if imp.MaxRows > 0 && len(table.Rows) > imp.MaxRows {
		report.Errors = append(report.Errors, fmt.Sprintf("%s: row limit of %d exceeded", f.Name, imp.MaxRows))
		return Table{}, false
	}
	imp.Logger.Info("feed parsed", "file", f.Name, "kind", string(f.Kind), "rows", len(table.Rows))
	return table, true
}
