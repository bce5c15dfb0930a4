package invoice

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Statistics summarises a batch of invoices for the history page.
type Statistics struct {
	Total          int
	ByType         map[Type]int
	ByMonth        map[string]int // upload month, YYYY-MM
	ByHeadquarters map[uuid.UUID]HeadquartersCount
}

type HeadquartersCount struct {
	Name  string
	Count int
}

// Summarize counts invoices by type, upload month and headquarters.
func Summarize(invoices []*Invoice) Statistics {
	stats := Statistics{
		Total:          len(invoices),
		ByType:         make(map[Type]int),
		ByMonth:        make(map[string]int),
		ByHeadquarters: make(map[uuid.UUID]HeadquartersCount),
	}

	for _, inv := range invoices {
		stats.ByType[inv.Type]++
		stats.ByMonth[inv.CreatedAt.UTC().Format("2006-01")]++

		hq := stats.ByHeadquarters[inv.HeadquartersID]
		hq.Count++

		if hq.Name == "" {
			hq.Name = "Sin sede"
			if inv.Headquarters != nil && inv.Headquarters.Name != "" {
				hq.Name = inv.Headquarters.Name
			}
		}

		stats.ByHeadquarters[inv.HeadquartersID] = hq
	}

	return stats
}

// FilterByDateRange keeps invoices uploaded within [start, end].
// A nil bound is open.
func FilterByDateRange(invoices []*Invoice, start, end *time.Time) []*Invoice {
	if start == nil && end == nil {
		return invoices
	}

	var out []*Invoice

	for _, inv := range invoices {
		if start != nil && inv.CreatedAt.Before(*start) {
			continue
		}

		if end != nil && inv.CreatedAt.After(*end) {
			continue
		}

		out = append(out, inv)
	}

	return out
}

// SortByDate returns a copy ordered by upload time, newest first unless ascending.
func SortByDate(invoices []*Invoice, ascending bool) []*Invoice {
	out := slices.Clone(invoices)

	slices.SortStableFunc(out, func(a, b *Invoice) int {
		if ascending {
			return a.CreatedAt.Compare(b.CreatedAt)
		}

		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return out
}

// UniqueTypes lists the distinct non-empty types in first-seen order.
func UniqueTypes(invoices []*Invoice) []Type {
	var types []Type

	for _, inv := range invoices {
		if inv.Type != "" && !slices.Contains(types, inv.Type) {
			types = append(types, inv.Type)
		}
	}

	return types
}

// UniqueYears lists the distinct filing years, newest first.
func UniqueYears(invoices []*Invoice) []int {
	var years []int

	for _, inv := range invoices {
		if inv.Year != 0 && !slices.Contains(years, inv.Year) {
			years = append(years, inv.Year)
		}
	}

	slices.SortFunc(years, func(a, b int) int { return b - a })

	return years
}
