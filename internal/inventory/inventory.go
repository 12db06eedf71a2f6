// Package inventory answers stock questions over the catalog and branch inventories.
package inventory

import (
	"errors"
	"fmt"

	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
)

// CatalogLowStockThreshold flags catalog products running low regardless of branch
const CatalogLowStockThreshold = 20

var ErrInvalidStock = errors.New("quantity and threshold must not be negative")

// BranchQuantity is the quantity of productID held at branch
func BranchQuantity(branch model.Branch, productID string) int {
	var qty int
	for _, item := range branch.Inventory {
		if item.ProductID == productID {
			qty += item.Quantity
		}
	}
	return qty
}

// TotalQuantity is the quantity of productID summed across every branch of merchant
func TotalQuantity(merchant model.Merchant, productID string) int {
	var qty int
	for _, b := range merchant.Branches {
		qty += BranchQuantity(b, productID)
	}
	return qty
}

// IsLow reports whether a branch holds less than its minimum
func IsLow(item model.InventoryItem) bool {
	return item.Quantity < item.MinThreshold
}

// CatalogLow reports whether a catalog product is below CatalogLowStockThreshold
func CatalogLow(p model.Product) bool {
	return p.Stock < CatalogLowStockThreshold
}

// BranchStock is one branch's holding of a product
type BranchStock struct {
	BranchID     string `json:"branchId"`
	BranchName   string `json:"branchName"`
	Quantity     int    `json:"quantity"`
	MinThreshold int    `json:"minThreshold"`
	Low          bool   `json:"low"`
}

// ProductStock is a row of the inventory table
type ProductStock struct {
	Product       model.Product `json:"product"`
	CatalogLow    bool          `json:"catalogLow"`
	TotalQuantity int           `json:"totalQuantity"`
	Branches      []BranchStock `json:"branches"`
}

// Report builds the inventory table for merchant. Branches that do not stock a product are left out of its row.
func Report(products []model.Product, merchant model.Merchant) []ProductStock {
	rows := make([]ProductStock, 0, len(products))
	for _, p := range products {
		row := ProductStock{
			Product:       p,
			CatalogLow:    CatalogLow(p),
			TotalQuantity: TotalQuantity(merchant, p.ID),
			Branches:      []BranchStock{},
		}
		for _, b := range merchant.Branches {
			for _, item := range b.Inventory {
				if item.ProductID != p.ID {
					continue
				}
				row.Branches = append(row.Branches, BranchStock{
					BranchID:     b.ID,
					BranchName:   b.Name,
					Quantity:     item.Quantity,
					MinThreshold: item.MinThreshold,
					Low:          IsLow(item),
				})
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// Alert is a branch holding below its minimum
type Alert struct {
	BranchID     string `json:"branchId"`
	ProductID    string `json:"productId"`
	Quantity     int    `json:"quantity"`
	MinThreshold int    `json:"minThreshold"`
}

// LowStock lists every low holding across merchant's branches
func LowStock(merchant model.Merchant) []Alert {
	alerts := []Alert{}
	for _, b := range merchant.Branches {
		for _, item := range b.Inventory {
			if IsLow(item) {
				alerts = append(alerts, Alert{
					BranchID:     b.ID,
					ProductID:    item.ProductID,
					Quantity:     item.Quantity,
					MinThreshold: item.MinThreshold,
				})
			}
		}
	}
	return alerts
}

// SetStock records the quantity and minimum of productID at a branch, adding the line if the branch did not stock it
func SetStock(merchants []model.Merchant, merchantID, branchID string, item model.InventoryItem) ([]model.Merchant, error) {
	if item.Quantity < 0 || item.MinThreshold < 0 {
		return nil, ErrInvalidStock
	}
	mi := model.FindMerchant(merchants, merchantID)
	if mi < 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrMerchantNotFound, merchantID)
	}
	bi := merchants[mi].FindBranch(branchID)
	if bi < 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrBranchNotFound, branchID)
	}

	out := make([]model.Merchant, len(merchants))
	copy(out, merchants)
	branches := make([]model.Branch, len(out[mi].Branches))
	copy(branches, out[mi].Branches)
	out[mi].Branches = branches

	inv := append([]model.InventoryItem(nil), branches[bi].Inventory...)
	replaced := false
	for i := range inv {
		if inv[i].ProductID == item.ProductID {
			inv[i] = item
			replaced = true
		}
	}
	if !replaced {
		inv = append(inv, item)
	}
	branches[bi].Inventory = inv
	return out, nil
}
