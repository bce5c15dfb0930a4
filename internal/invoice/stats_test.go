package invoice_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
)

func TestSummarize(t *testing.T) {
	hqA := uuid.New()
	hqB := uuid.New()

	invs := []*invoice.Invoice{
		{Type: invoice.TypeEnergy, HeadquartersID: hqA, Headquarters: &invoice.Headquarters{ID: hqA, Name: "Bogotá"}, CreatedAt: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
		{Type: invoice.TypeEnergy, HeadquartersID: hqA, CreatedAt: time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)},
		{Type: invoice.TypeWater, HeadquartersID: hqB, CreatedAt: time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)},
	}

	stats := invoice.Summarize(invs)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, map[invoice.Type]int{invoice.TypeEnergy: 2, invoice.TypeWater: 1}, stats.ByType)
	assert.Equal(t, map[string]int{"2025-01": 2, "2025-02": 1}, stats.ByMonth)
	assert.Equal(t, invoice.HeadquartersCount{Name: "Bogotá", Count: 2}, stats.ByHeadquarters[hqA])
	assert.Equal(t, invoice.HeadquartersCount{Name: "Sin sede", Count: 1}, stats.ByHeadquarters[hqB])
}

func TestFilterAndSortByDate(t *testing.T) {
	jan := &invoice.Invoice{Year: 2025, CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	feb := &invoice.Invoice{Year: 2025, CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)}
	mar := &invoice.Invoice{Year: 2024, CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}
	all := []*invoice.Invoice{feb, mar, jan}

	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	got := invoice.FilterByDateRange(all, &start, nil)
	require.Len(t, got, 2)
	assert.ElementsMatch(t, []*invoice.Invoice{feb, mar}, got)

	assert.Equal(t, all, invoice.FilterByDateRange(all, nil, nil))

	assert.Equal(t, []*invoice.Invoice{mar, feb, jan}, invoice.SortByDate(all, false))
	assert.Equal(t, []*invoice.Invoice{jan, feb, mar}, invoice.SortByDate(all, true))
	assert.Equal(t, []*invoice.Invoice{feb, mar, jan}, all, "input must not be reordered")

	assert.Equal(t, []int{2025, 2024}, invoice.UniqueYears(all))
}

func TestUniqueTypes(t *testing.T) {
	invs := []*invoice.Invoice{
		{Type: invoice.TypeWater},
		{Type: ""},
		{Type: invoice.TypeEnergy},
		{Type: invoice.TypeWater},
	}

	assert.Equal(t, []invoice.Type{invoice.TypeWater, invoice.TypeEnergy}, invoice.UniqueTypes(invs))
}
