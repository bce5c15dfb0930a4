package kpi

import (
	"maps"
	"slices"

	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
)

// MonthlyAggregate accumulates the consumption of every invoice billed in a month.
// Aggregates only exist for months with at least one data point.
type MonthlyAggregate struct {
	Month string
	Total float64
	Count int
}

func (a MonthlyAggregate) Average() float64 {
	if a.Count == 0 {
		return 0
	}

	return a.Total / float64(a.Count)
}

// GroupByMonth buckets invoices by resolved billing month. Invoices without
// a resolvable month or without a non-zero consumption are skipped.
func GroupByMonth(invoices []*invoice.Invoice) map[string]MonthlyAggregate {
	out := make(map[string]MonthlyAggregate)

	for _, inv := range invoices {
		month, ok := invoice.MonthFromInvoice(inv)
		if !ok {
			continue
		}

		consumption, ok := invoice.Consumption(inv.Data)
		if !ok {
			continue
		}

		agg := out[month]
		agg.Month = month
		agg.Total += consumption
		agg.Count++
		out[month] = agg
	}

	return out
}

// SortedAggregates returns the aggregates in chronological order.
func SortedAggregates(monthly map[string]MonthlyAggregate) []MonthlyAggregate {
	months := slices.Sorted(maps.Keys(monthly))

	out := make([]MonthlyAggregate, 0, len(months))
	for _, m := range months {
		out = append(out, monthly[m])
	}

	return out
}

// AverageConsumption averages the non-zero consumptions of a batch.
// Returns 0 when no invoice has one.
func AverageConsumption(invoices []*invoice.Invoice) float64 {
	var total float64

	var count int

	for _, inv := range invoices {
		if inv == nil {
			continue
		}

		if v, ok := invoice.Consumption(inv.Data); ok {
			total += v
			count++
		}
	}

	if count == 0 {
		return 0
	}

	return total / float64(count)
}

func CountByType(invoices []*invoice.Invoice) map[invoice.Type]int {
	counts := make(map[invoice.Type]int)

	for _, inv := range invoices {
		counts[inv.Type]++
	}

	return counts
}

func GroupByType(invoices []*invoice.Invoice) map[invoice.Type][]*invoice.Invoice {
	groups := make(map[invoice.Type][]*invoice.Invoice)

	for _, inv := range invoices {
		groups[inv.Type] = append(groups[inv.Type], inv)
	}

	return groups
}
