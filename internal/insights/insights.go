// Package insights computes the merchant and admin dashboard figures.
package insights

import (
	"github.com/greentill2020-cloud/greentillcmsProd/internal/fleet"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/inventory"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
)

// OffsetKgPerUnit converts offset contributions into kilograms of CO2 for the impact tile
const OffsetKgPerUnit = 5

// MerchantDashboard summarises a merchant's sales and offsets
type MerchantDashboard struct {
	TransactionCount int     `json:"transactionCount"`
	TotalSales       float64 `json:"totalSales"`
	CarbonSaved      float64 `json:"carbonSaved"`
	CustomerOffset   float64 `json:"customerOffset"`
	MerchantMatch    float64 `json:"merchantMatch"`
	// CarbonImpactKg is carbon saved plus offsets expressed in kilograms
	CarbonImpactKg float64 `json:"carbonImpactKg"`
	LowStockCount  int     `json:"lowStockCount"`
}

// ForMerchant aggregates transactions. Matched offsets count only sales flagged isMatched.
func ForMerchant(transactions []model.Transaction, products []model.Product) MerchantDashboard {
	d := MerchantDashboard{TransactionCount: len(transactions)}
	for _, t := range transactions {
		d.TotalSales += t.Total
		d.CarbonSaved += t.EcoImpactSaved
		d.CustomerOffset += t.CarbonOffsetContribution
		if t.IsMatched {
			d.MerchantMatch += t.CarbonOffsetContribution
		}
	}
	d.CarbonImpactKg = d.CarbonSaved + d.CustomerOffset*OffsetKgPerUnit
	for _, p := range products {
		if inventory.CatalogLow(p) {
			d.LowStockCount++
		}
	}
	return d
}

// CategoryCount is the number of merchants in a category
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// AdminDashboard summarises the whole network
type AdminDashboard struct {
	MerchantCount int                `json:"merchantCount"`
	Categories    []CategoryCount    `json:"categories"`
	Devices       fleet.Stats        `json:"devices"`
	OpenTickets   int                `json:"openTickets"`
	DownDevices   []fleet.DeviceView `json:"downDevices"`
}

// ForAdmin aggregates merchants and tickets. Categories appear in order of first occurrence.
func ForAdmin(merchants []model.Merchant, tickets []model.Ticket) AdminDashboard {
	devices := fleet.Devices(merchants, tickets)
	d := AdminDashboard{
		MerchantCount: len(merchants),
		Categories:    []CategoryCount{},
		Devices:       fleet.CountByStatus(devices),
		DownDevices:   []fleet.DeviceView{},
	}

	index := map[string]int{}
	for _, m := range merchants {
		i, ok := index[m.Category]
		if !ok {
			i = len(d.Categories)
			index[m.Category] = i
			d.Categories = append(d.Categories, CategoryCount{Category: m.Category})
		}
		d.Categories[i].Count++
	}

	for _, t := range tickets {
		if t.Status == model.TicketOpen {
			d.OpenTickets++
		}
	}
	for _, dev := range devices {
		if fleet.IsDown(dev.Status) {
			d.DownDevices = append(d.DownDevices, dev)
		}
	}
	return d
}

// MerchantTransactions keeps the sales recorded for merchantID
func MerchantTransactions(transactions []model.Transaction, merchantID string) []model.Transaction {
	out := []model.Transaction{}
	for _, t := range transactions {
		if t.MerchantID == merchantID {
			out = append(out, t)
		}
	}
	return out
}
