package legacyimport

import "time"

// The structs below are the persisted shapes. Each knows how to render
// itself as a document field map; optional fields are omitted when absent so
// the store documents look the way manually-entered ones do.

// ServiceItem is one maintenance line item.
type ServiceItem struct {
	Name     string
	Price    float64
	Quantity float64
	Type     string
}

func (i ServiceItem) fields() map[string]any {
	return map[string]any{
		"name":     i.Name,
		"price":    i.Price,
		"quantity": i.Quantity,
		"type":     i.Type,
	}
}

// CarRecord is a fleet vehicle.
type CarRecord struct {
	Name              string
	Plate             string // normalized: uppercase, no whitespace
	CurrentMileage    float64
	Year              string
	Color             string
	Group             string
	Active            bool
	ExternalUserID    string
	InitialValue      *float64
	AdministrationFee *float64
	LegacyID          *int64
	OwnerName         string
}

func (c CarRecord) Fields(now time.Time) map[string]any {
	fields := map[string]any{
		"name":              c.Name,
		"plate":             c.Plate,
		"currentMileage":    c.CurrentMileage,
		"active":            c.Active,
		"ownerName":         c.OwnerName,
		"lastOilChange":     float64(0),
		"oilChangeInterval": float64(0),
		"avgConsumption":    float64(0),
		"assignedDriverId":  "",
		"createdAt":         now.UTC().Format(time.RFC3339),
	}
	putString(fields, "year", c.Year)
	putString(fields, "color", c.Color)
	putString(fields, "group", c.Group)
	putString(fields, "externalUserId", c.ExternalUserID)
	putFloat(fields, "initialValue", c.InitialValue)
	putFloat(fields, "administrationFee", c.AdministrationFee)
	putInt(fields, "legacyId", c.LegacyID)
	return fields
}

// ExpenseRecord lives in a car's expenses subcollection. CarID targets the
// subcollection and is not itself persisted.
type ExpenseRecord struct {
	CarID               string
	Date                string
	Description         string
	Cost                float64
	Category            string
	Items               []ServiceItem
	WorkshopName        string
	LegacyMaintenanceID *int64
	LegacyCarID         *int64
	Odometer            *float64
}

func (e ExpenseRecord) Fields() map[string]any {
	items := make([]any, 0, len(e.Items))
	itemIDs := make([]any, 0, len(e.Items))
	for _, item := range e.Items {
		items = append(items, item.fields())
	}
	fields := map[string]any{
		"date":        e.Date,
		"description": e.Description,
		"cost":        e.Cost,
		"category":    e.Category,
		"items":       items,
		"itemIds":     itemIDs,
	}
	putString(fields, "workshopName", e.WorkshopName)
	putInt(fields, "legacyMaintenanceId", e.LegacyMaintenanceID)
	putInt(fields, "legacyCarId", e.LegacyCarID)
	putFloat(fields, "odometer", e.Odometer)
	return fields
}

// RevenueRecord lives in a car's revenues subcollection.
type RevenueRecord struct {
	CarID          string
	Date           string
	Description    string
	Value          float64
	LegacyIncomeID *int64
	ImportSource   string
}

func (r RevenueRecord) Fields() map[string]any {
	fields := map[string]any{
		"date":         r.Date,
		"description":  r.Description,
		"value":        r.Value,
		"importSource": r.ImportSource,
	}
	putInt(fields, "legacyIncomeId", r.LegacyIncomeID)
	return fields
}

// Address is a driver's optional address block.
type Address struct {
	Country  string
	Zip      string
	State    string
	City     string
	District string
	Street   string
}

func (a Address) fields() map[string]any {
	return map[string]any{
		"country":  a.Country,
		"zip":      a.Zip,
		"state":    a.State,
		"city":     a.City,
		"district": a.District,
		"street":   a.Street,
	}
}

// DriverRecord is a fleet driver.
type DriverRecord struct {
	Name                   string
	CPF                    string // digits only
	Email                  string
	Phone                  string
	EmergencyContact       string
	EmergencyContactSecond string
	Rating                 int
	LegacyDriverID         *int64
	Address                *Address
	AddressLegacyID        *int64
}

func (d DriverRecord) Fields() map[string]any {
	fields := map[string]any{
		"name":                   d.Name,
		"cpf":                    d.CPF,
		"email":                  d.Email,
		"phone":                  d.Phone,
		"emergencyContact":       d.EmergencyContact,
		"emergencyContactSecond": d.EmergencyContactSecond,
		"rating":                 float64(d.Rating),
	}
	putInt(fields, "legacyDriverId", d.LegacyDriverID)
	if d.Address != nil {
		fields["address"] = d.Address.fields()
	}
	putInt(fields, "addressLegacyId", d.AddressLegacyID)
	return fields
}

// PendencyRecord lives in a car's pendencies subcollection.
type PendencyRecord struct {
	CarID             string
	Description       string
	Amount            float64
	Status            string
	Date              string
	DriverID          string
	DriverName        string
	LegacyPendencyID  *int64
	LegacyDriverCarID *int64
}

func (p PendencyRecord) Fields() map[string]any {
	fields := map[string]any{
		"description": p.Description,
		"amount":      p.Amount,
		"status":      p.Status,
		"date":        p.Date,
		"driverId":    p.DriverID,
		"driverName":  p.DriverName,
		"carId":       p.CarID,
	}
	putInt(fields, "legacyPendencyId", p.LegacyPendencyID)
	putInt(fields, "legacyDriverCarId", p.LegacyDriverCarID)
	return fields
}

// CatalogItem is a synthesized maintenance-catalog entry.
type CatalogItem struct {
	Name      string
	Type      string
	Price     float64
	Stock     int
	CompanyID string
}

func (c CatalogItem) Fields(now time.Time) map[string]any {
	return map[string]any{
		"name":      c.Name,
		"type":      c.Type,
		"price":     c.Price,
		"stock":     float64(c.Stock),
		"companyId": c.CompanyID,
		"createdAt": now.UTC().Format(time.RFC3339),
	}
}

func putString(fields map[string]any, key, value string) {
	if value != "" {
		fields[key] = value
	}
}

func putFloat(fields map[string]any, key string, value *float64) {
	if value != nil {
		fields[key] = *value
	}
}

func putInt(fields map[string]any, key string, value *int64) {
	if value != nil {
		fields[key] = float64(*value)
	}
}
