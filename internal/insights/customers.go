package insights

import (
	"sort"

	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
)

// Customer tiers
const (
	TierVIP     = "VIP"
	TierRegular = "Regular"
)

// VIPVisits is the visit count a customer must exceed to be a VIP
const VIPVisits = 15

// CustomerInsight is a loyalty member with their tier
type CustomerInsight struct {
	model.Customer
	Tier string `json:"tier"`
}

// Tier labels a customer VIP above VIPVisits visits, Regular otherwise
func Tier(c model.Customer) string {
	if c.VisitCount > VIPVisits {
		return TierVIP
	}
	return TierRegular
}

// RankCustomers orders customers by visit count, most frequent first. Ties keep their stored order.
func RankCustomers(customers []model.Customer) []CustomerInsight {
	out := make([]CustomerInsight, 0, len(customers))
	for _, c := range customers {
		out = append(out, CustomerInsight{Customer: c, Tier: Tier(c)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].VisitCount > out[j].VisitCount
	})
	return out
}
