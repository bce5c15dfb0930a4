package invoice

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/ecokpi/internal/invoice"
)

type invoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	Type           invoice.Type          `json:"type"`
	Year           int                   `json:"year"`
	HeadquartersID uuid.UUID             `json:"headquarters_id"`
	Headquarters   *headquartersResponse `json:"headquarters,omitempty"`
	FileURL        string                `json:"file_url,omitempty"`
	FileName       string                `json:"file_name,omitempty"`
	Status         invoice.Status        `json:"status"`
	Month          string                `json:"month,omitempty"`
	Consumption    *float64              `json:"consumption,omitempty"`
	Unit           string                `json:"unit"`
	Data           invoice.Fields        `json:"data"`
	CreatedAt      time.Time             `json:"created_at"`
}

type headquartersResponse struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	Name      string    `json:"name"`
}

type headquartersCountResponse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type statisticsResponse struct {
	Total          int                                     `json:"total"`
	ByType         map[invoice.Type]int                    `json:"by_type"`
	ByMonth        map[string]int                          `json:"by_month"`
	ByHeadquarters map[uuid.UUID]headquartersCountResponse `json:"by_headquarters"`
	Types          []invoice.Type                          `json:"types"`
	Years          []int                                   `json:"years"`
}

// toResponse adds the resolved billing month and consumption so clients
// do not need to parse the field bag themselves.
func toResponse(inv *invoice.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:             inv.ID,
		Type:           inv.Type,
		Year:           inv.Year,
		HeadquartersID: inv.HeadquartersID,
		FileURL:        inv.FileURL,
		FileName:       inv.FileName,
		Status:         inv.Status,
		Unit:           invoice.UnitFor(inv.Type),
		Data:           inv.Data,
		CreatedAt:      inv.CreatedAt,
	}

	if inv.Headquarters != nil {
		resp.Headquarters = &headquartersResponse{
			ID:        inv.Headquarters.ID,
			CompanyID: inv.Headquarters.CompanyID,
			Name:      inv.Headquarters.Name,
		}
	}

	if month, ok := invoice.MonthFromInvoice(inv); ok {
		resp.Month = month
	}

	if c, ok := invoice.Adapt(inv.Type, inv.Data).Consumption(); ok {
		resp.Consumption = &c
	}

	if resp.Data == nil {
		resp.Data = invoice.Fields{}
	}

	return resp
}

func toResponseList(invs []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(invs))
	for i, inv := range invs {
		resp[i] = toResponse(inv)
	}

	return resp
}

func toStatisticsResponse(invs []*invoice.Invoice) statisticsResponse {
	stats := invoice.Summarize(invs)

	resp := statisticsResponse{
		Total:          stats.Total,
		ByType:         stats.ByType,
		ByMonth:        stats.ByMonth,
		ByHeadquarters: make(map[uuid.UUID]headquartersCountResponse, len(stats.ByHeadquarters)),
		Types:          invoice.UniqueTypes(invs),
		Years:          invoice.UniqueYears(invs),
	}

	for id, hq := range stats.ByHeadquarters {
		resp.ByHeadquarters[id] = headquartersCountResponse(hq)
	}

	return resp
}
