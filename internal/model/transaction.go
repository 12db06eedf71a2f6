package model

import "time"

// LineItem is one product line of a completed sale
type LineItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Carbon    float64 `json:"carbon"`
}

// Transaction is a completed sale
type Transaction struct {
	ID                       string     `json:"id"`
	Items                    []LineItem `json:"items"`
	Total                    float64    `json:"total"`
	EcoImpactSaved           float64    `json:"ecoImpactSaved"`
	CarbonOffsetContribution float64    `json:"carbonOffsetContribution"`
	IsMatched                bool       `json:"isMatched"`
	Timestamp                time.Time  `json:"timestamp"`
	CustomerID               string     `json:"customerId,omitempty"`
	MerchantID               string     `json:"merchantId,omitempty"`
}

// Customer is a loyalty member
type Customer struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	VisitCount int       `json:"visitCount"`
	TotalSpend float64   `json:"totalSpend"`
	LastVisit  time.Time `json:"lastVisit"`
}
