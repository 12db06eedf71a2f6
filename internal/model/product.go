// Package model holds the records the console persists, in their JSON wire shape.
package model

// Packaging kinds a product can ship in
const (
	PackagingPlastic       = "Plastic"
	PackagingPaper         = "Paper"
	PackagingReusable      = "Reusable"
	PackagingBiodegradable = "Biodegradable"
)

// Product is a catalog entry sold at the till
type Product struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	Category        string  `json:"category"`
	Stock           int     `json:"stock"`
	EcoScore        int     `json:"ecoScore"` // 0-100
	Packaging       string  `json:"packaging"`
	CarbonFootprint float64 `json:"carbonFootprint"`
	Image           string  `json:"image,omitempty"`
}

// NGO is an offset partner a merchant can donate through
type NGO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"` // Ocean, Forest or Climate
	Location    string `json:"location"`
}

// FindProduct returns the index of the product with id, or -1
func FindProduct(products []Product, id string) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}
