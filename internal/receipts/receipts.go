// Package receipts renders sale receipts and decides which smart-promotion they carry.
package receipts

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
)

const (
	// HighCO2Kg is the cart carbon above which HIGH_CO2 promotions show
	HighCO2Kg = 5.0
	// GreenEcoScore is the cart eco score above which LOW_CO2 promotions show
	GreenEcoScore = 90.0
	// SpendThreshold is the total above which SPEND_THRESHOLD promotions show
	SpendThreshold = 50.0
	// KgPerTree is the CO2 one tree absorbs in a year, used for the impact summary
	KgPerTree = 24.0
)

var (
	ErrInvalidCondition = errors.New("invalid promotion condition")
	ErrMissingText      = errors.New("promotion text is required")
)

// DefaultPromotion is shown for merchants that never saved a rule
func DefaultPromotion() model.ReceiptPromotion {
	return model.ReceiptPromotion{
		Text:      "Join our community garden! Get 10% off seeds today.",
		Condition: model.PromoHighCO2,
	}
}

// PromotionFor returns the merchant's saved rule or the default
func PromotionFor(m model.Merchant) model.ReceiptPromotion {
	if m.ReceiptPromotion == nil {
		return DefaultPromotion()
	}
	return *m.ReceiptPromotion
}

// Validate trims the text and checks the condition is known
func Validate(p model.ReceiptPromotion) (model.ReceiptPromotion, error) {
	p.Text = strings.TrimSpace(p.Text)
	if p.Text == "" {
		return p, ErrMissingText
	}
	switch p.Condition {
	case model.PromoAlways, model.PromoHighCO2, model.PromoLowCO2, model.PromoSpendThreshold:
	default:
		return p, fmt.Errorf("%w: %q", ErrInvalidCondition, p.Condition)
	}
	return p, nil
}

// CartCO2 is the carbon of every line of tx, in kilograms
func CartCO2(tx model.Transaction) float64 {
	var kg float64
	for _, line := range tx.Items {
		kg += line.Carbon
	}
	return kg
}

// CartEcoScore is the quantity-weighted eco score of the catalog products in tx.
// A cart with no catalog products scores 0.
func CartEcoScore(tx model.Transaction, products []model.Product) float64 {
	var score float64
	var units int
	for _, line := range tx.Items {
		idx := model.FindProduct(products, line.ProductID)
		if idx < 0 {
			continue
		}
		score += float64(products[idx].EcoScore * line.Quantity)
		units += line.Quantity
	}
	if units == 0 {
		return 0
	}
	return score / float64(units)
}

// Applies reports whether p should be printed on the receipt of tx
func Applies(p model.ReceiptPromotion, tx model.Transaction, products []model.Product) bool {
	switch p.Condition {
	case model.PromoAlways:
		return true
	case model.PromoHighCO2:
		return CartCO2(tx) > HighCO2Kg
	case model.PromoLowCO2:
		return CartEcoScore(tx, products) > GreenEcoScore
	case model.PromoSpendThreshold:
		return tx.Total > SpendThreshold
	}
	return false
}

// Line is one printed product line
type Line struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Amount    float64 `json:"amount"`
	EcoScore  int     `json:"ecoScore"`
	Carbon    float64 `json:"carbon"`
}

// Receipt is the printed slip of a sale
type Receipt struct {
	Merchant                 string    `json:"merchant"`
	TransactionID            string    `json:"transactionId"`
	Timestamp                time.Time `json:"timestamp"`
	Lines                    []Line    `json:"lines"`
	Total                    float64   `json:"total"`
	CarbonOffsetContribution float64   `json:"carbonOffsetContribution"`
	CO2Kg                    float64   `json:"co2Kg"`
	EcoScore                 float64   `json:"ecoScore"`
	CO2Avoided               float64   `json:"co2Avoided"`
	TreesEquivalent          float64   `json:"treesEquivalent"`
	Promotion                string    `json:"promotion,omitempty"`
}

// Build lays out the receipt of tx for merchant, stitching in the promotion when its condition holds
func Build(merchant model.Merchant, tx model.Transaction, products []model.Product) Receipt {
	r := Receipt{
		Merchant:                 merchant.Name,
		TransactionID:            tx.ID,
		Timestamp:                tx.Timestamp,
		Lines:                    make([]Line, 0, len(tx.Items)),
		Total:                    tx.Total,
		CarbonOffsetContribution: tx.CarbonOffsetContribution,
		CO2Kg:                    CartCO2(tx),
		EcoScore:                 CartEcoScore(tx, products),
		CO2Avoided:               tx.EcoImpactSaved,
		TreesEquivalent:          tx.EcoImpactSaved / KgPerTree,
	}
	for _, item := range tx.Items {
		line := Line{
			ProductID: item.ProductID,
			Name:      item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Amount:    item.Price * float64(item.Quantity),
			Carbon:    item.Carbon,
		}
		if idx := model.FindProduct(products, item.ProductID); idx >= 0 {
			line.Name = products[idx].Name
			line.EcoScore = products[idx].EcoScore
		}
		r.Lines = append(r.Lines, line)
	}

	if promo := PromotionFor(merchant); Applies(promo, tx, products) {
		r.Promotion = promo.Text
	}
	return r
}
