// Package checkout computes cart totals and records completed sales.
package checkout

import (
	"fmt"
	"strings"

	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
)

const (
	// OffsetContribution is added to every sale and donated to the merchant's NGOs
	OffsetContribution = 1.00
	// EcoImpactFactor converts eco-score units into the eco-impact figure
	EcoImpactFactor = 0.01
	// DefaultLineCarbon is charged per line whose product is not in the catalog
	DefaultLineCarbon = 0.1
)

// Item is one product line handed to checkout
type Item struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Cart holds the lines being rung up, in the order products were first added
type Cart struct {
	lines []Item
}

// NewCart starts a cart from lines the till already holds
func NewCart(items ...Item) *Cart {
	c := &Cart{lines: make([]Item, 0, len(items))}
	c.lines = append(c.lines, items...)
	return c
}

func (c *Cart) find(productID string) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add puts one more unit of productID in the cart
func (c *Cart) Add(productID string) {
	if i := c.find(productID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, Item{ProductID: productID, Quantity: 1})
}

// Remove takes one unit out, dropping the line when it reaches zero
func (c *Cart) Remove(productID string) {
	i := c.find(productID)
	if i < 0 {
		return
	}
	if c.lines[i].Quantity > 1 {
		c.lines[i].Quantity--
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Items returns a copy of the cart lines
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.lines))
	copy(out, c.lines)
	return out
}

// PriceItems validates lines and fills a missing price from the catalog.
// Products absent from the catalog keep the price they came with.
func PriceItems(items []Item, products []model.Product) ([]Item, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	priced := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQuantity, it.ProductID)
		}
		if it.Price < 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidPrice, it.ProductID)
		}
		if it.Price == 0 {
			if idx := model.FindProduct(products, it.ProductID); idx >= 0 {
				it.Price = products[idx].Price
			}
		}
		priced = append(priced, it)
	}
	return priced, nil
}

// Total is the sum of price times quantity
func Total(items []Item) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// EcoImpact sums ecoScore x quantity x EcoImpactFactor; unknown products add nothing
func EcoImpact(items []Item, products []model.Product) float64 {
	var impact float64
	for _, it := range items {
		if idx := model.FindProduct(products, it.ProductID); idx >= 0 {
			impact += float64(products[idx].EcoScore) * float64(it.Quantity) * EcoImpactFactor
		}
	}
	return impact
}

// Search returns the products whose name contains term, ignoring case
func Search(products []model.Product, term string) []model.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) {
			out = append(out, p)
		}
	}
	return out
}
