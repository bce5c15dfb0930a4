package invoice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	consumptionKeys   = []string{"consumo_kwh", "consumption_kwh", "consumo_m3", "consumption_m3", "total_consumption"}
	totalAmountKeys   = []string{"total_a_pagar", "valor_total", "total_pagar", "total_amount", "costo_total_energia", "costo_total_agua", "costo_total", "total"}
	invoiceNumberKeys = []string{"numero_factura", "invoice_number", "factura_no", "numero_documento"}
	clientNameKeys    = []string{"nombre_cliente", "company_name", "razon_social", "cliente"}
	clientNumberKeys  = []string{"numero_cliente", "client_number", "customer_number", "cuenta"}
	taxIDKeys         = []string{"nit", "tax_id", "rut"}
	invoiceDateKeys   = []string{"fecha_factura", "fecha_emision", "invoice_date", "fecha", "date"}
	monthKeys         = []string{"mes", "month"}
	yearKeys          = []string{"año", "anio", "year"}
	periodKeys        = []string{"periodo", "period"}
)

var invoiceDateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
}

var isoMonth = regexp.MustCompile(`(\d{4})-(\d{2})`)

// Consumption returns the first consumption field that parses to a non-zero
// value, trying kWh, then m³, then the generic total.
// A parsed zero falls through to the next field.
func Consumption(f Fields) (float64, bool) {
	return firstNonZero(f, consumptionKeys)
}

// ExtractConsumption is Consumption with absence collapsed to zero.
func ExtractConsumption(f Fields) float64 {
	v, _ := Consumption(f)
	return v
}

// ExtractTotalAmount returns the billed total, or 0 when none is present.
func ExtractTotalAmount(f Fields) float64 {
	v, _ := firstNonZero(f, totalAmountKeys)
	return v
}

func ExtractInvoiceNumber(f Fields) string {
	return firstString(f, invoiceNumberKeys...)
}

// CompanyInfo identifies the billed customer as printed on the invoice.
type CompanyInfo struct {
	Name         string
	ClientNumber string
	TaxID        string
}

// ExtractCompanyInfo returns nil when none of the customer fields are present.
func ExtractCompanyInfo(f Fields) *CompanyInfo {
	info := CompanyInfo{
		Name:         firstString(f, clientNameKeys...),
		ClientNumber: firstString(f, clientNumberKeys...),
		TaxID:        firstString(f, taxIDKeys...),
	}

	if info == (CompanyInfo{}) {
		return nil
	}

	return &info
}

// ExtractInvoiceDate returns the issue date, or nil if absent or unparseable.
func ExtractInvoiceDate(f Fields) *time.Time {
	s := firstString(f, invoiceDateKeys...)
	if s == "" {
		return nil
	}

	for _, layout := range invoiceDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}

	return nil
}

// Period is a calendar month.
type Period struct {
	Year  int
	Month int
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// ExtractPeriod reads discrete month/year fields, overridden by a
// "YYYY-MM" value in periodo/period when one is present.
func ExtractPeriod(f Fields) *Period {
	var p Period

	if v, ok := firstNumber(f, monthKeys); ok {
		p.Month = int(v)
	}

	if v, ok := firstNumber(f, yearKeys); ok {
		p.Year = int(v)
	}

	if m := isoMonth.FindStringSubmatch(firstString(f, periodKeys...)); m != nil {
		p.Year, _ = strconv.Atoi(m[1])
		p.Month, _ = strconv.Atoi(m[2])
	}

	if p.Year == 0 || p.Month < 1 || p.Month > 12 {
		return nil
	}

	return &p
}

func firstNonZero(f Fields, keys []string) (float64, bool) {
	for _, k := range keys {
		raw, ok := f[k]
		if !ok {
			continue
		}

		if v, ok := ParseNumber(raw); ok && v != 0 {
			return v, true
		}
	}

	return 0, false
}

func firstNumber(f Fields, keys []string) (float64, bool) {
	for _, k := range keys {
		if v, ok := ParseNumber(f[k]); ok {
			return v, true
		}
	}

	return 0, false
}

func firstString(f Fields, keys ...string) string {
	for _, k := range keys {
		raw, ok := f[k]
		if !ok || raw == nil {
			continue
		}

		if s := strings.TrimSpace(fmt.Sprint(raw)); s != "" {
			return s
		}
	}

	return ""
}
