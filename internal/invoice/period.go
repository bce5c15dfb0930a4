package invoice

import (
	"regexp"
	"strconv"
	"strings"
)

// Spanish abbreviations plus the English ones that differ from them.
var monthNumbers = map[string]string{
	"ENE": "01", "FEB": "02", "MAR": "03", "ABR": "04",
	"MAY": "05", "JUN": "06", "JUL": "07", "AGO": "08",
	"SEP": "09", "OCT": "10", "NOV": "11", "DIC": "12",
	"JAN": "01", "APR": "04", "AUG": "08", "DEC": "12",
}

var (
	monthYear = regexp.MustCompile(`(\w{3})/(\d{4})`)
	dayDate   = regexp.MustCompile(`(\w{3})/\d{2}/(\d{4})`)
	fourDigit = regexp.MustCompile(`\d{4}`)
)

// MonthFromPeriodo resolves a free-text billing period to "YYYY-MM".
//
// A "MON/YYYY" anchor anywhere in the string wins. Otherwise the last
// "MON/DD/YYYY" date is used, so a range is attributed to its closing
// month. Note the first rule can pick the opening month of a range
// written as "08 OCT/2025 A 06 NOV/2025".
func MonthFromPeriodo(periodo string) (string, bool) {
	if periodo == "" {
		return "", false
	}

	if m := monthYear.FindStringSubmatch(periodo); m != nil {
		return formatMonth(m[1], m[2]), true
	}

	dates := dayDate.FindAllStringSubmatch(periodo, -1)
	if len(dates) == 0 {
		return "", false
	}

	last := dates[len(dates)-1]

	return formatMonth(last[1], last[2]), true
}

// MonthFromInvoice prefers the billed period and falls back to the upload month.
func MonthFromInvoice(inv *Invoice) (string, bool) {
	if inv == nil {
		return "", false
	}

	if month, ok := MonthFromPeriodo(firstString(inv.Data, "periodo_facturado")); ok {
		return month, true
	}

	if inv.CreatedAt.IsZero() {
		return "", false
	}

	return inv.CreatedAt.UTC().Format("2006-01"), true
}

// YearFromPeriodo returns the last four-digit year in the string.
func YearFromPeriodo(periodo string) (int, bool) {
	years := fourDigit.FindAllString(periodo, -1)
	if len(years) == 0 {
		return 0, false
	}

	y, err := strconv.Atoi(years[len(years)-1])
	if err != nil {
		return 0, false
	}

	return y, true
}

func formatMonth(name, year string) string {
	num, ok := monthNumbers[strings.ToUpper(name)]
	if !ok {
		num = "01"
	}

	return year + "-" + num
}
