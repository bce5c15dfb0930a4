package invoice

// Details is the typed view of an invoice's field bag. Exactly one of
// EnergyFields, WaterFields or MinutesFields, chosen by the invoice type.
type Details interface {
	InvoiceType() Type
	// Consumption is the authoritative consumption for the type, if any.
	Consumption() (float64, bool)
	Common() CommonFields
}

// CommonFields are printed on every kind of bill.
type CommonFields struct {
	ClientName    string
	ClientNumber  string
	BillingPeriod string
	// TotalText is the total cost exactly as extracted, before parsing.
	TotalText string
}

type EnergyFields struct {
	CommonFields
	ConsumptionKWh *float64
}

func (EnergyFields) InvoiceType() Type { return TypeEnergy }
func (e EnergyFields) Common() CommonFields { return e.CommonFields }

func (e EnergyFields) Consumption() (float64, bool) {
	if e.ConsumptionKWh == nil {
		return 0, false
	}

	return *e.ConsumptionKWh, true
}

type WaterFields struct {
	CommonFields
	ConsumptionM3 *float64
}

func (WaterFields) InvoiceType() Type { return TypeWater }
func (w WaterFields) Common() CommonFields { return w.CommonFields }

func (w WaterFields) Consumption() (float64, bool) {
	if w.ConsumptionM3 == nil {
		return 0, false
	}

	return *w.ConsumptionM3, true
}

// MinutesFields has no consumption, only cost.
type MinutesFields struct {
	CommonFields
}

func (MinutesFields) InvoiceType() Type { return TypeMinutes }
func (m MinutesFields) Common() CommonFields { return m.CommonFields }
func (MinutesFields) Consumption() (float64, bool) { return 0, false }

// Adapt builds the typed view for an invoice of type t.
// Unknown types are treated as minutes.
func Adapt(t Type, f Fields) Details {
	common := CommonFields{
		ClientName:    firstString(f, "nombre_cliente"),
		ClientNumber:  firstString(f, "numero_cliente"),
		BillingPeriod: firstString(f, "periodo_facturado"),
	}

	switch t {
	case TypeEnergy:
		common.TotalText = firstString(f, "costo_total_energia")
		return EnergyFields{CommonFields: common, ConsumptionKWh: optionalNumber(f["consumo_kwh"])}
	case TypeWater:
		common.TotalText = firstString(f, "costo_total_agua")
		return WaterFields{CommonFields: common, ConsumptionM3: optionalNumber(f["consumo_m3"])}
	}

	common.TotalText = firstString(f, "costo_total")

	return MinutesFields{CommonFields: common}
}

// UnitFor is the display unit of consumption for t.
func UnitFor(t Type) string {
	switch t {
	case TypeEnergy:
		return "kWh"
	case TypeWater:
		return "m³"
	}

	return "unidades"
}

func optionalNumber(raw any) *float64 {
	v, ok := ParseNumber(raw)
	if !ok {
		return nil
	}

	return &v
}
