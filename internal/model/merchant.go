package model

import (
	"errors"
	"time"
)

// Merchant categories
const (
	CategoryGrocery = "Grocery"
	CategoryFashion = "Fashion"
	CategoryTech    = "Tech"
	CategoryCafe    = "Cafe"
)

// Device statuses
const (
	DeviceOnline      = "ONLINE"
	DeviceOffline     = "OFFLINE"
	DeviceMaintenance = "MAINTENANCE"
	DevicePoweredOff  = "POWERED_OFF"
)

// Merchant is a retail tenant with its branches and engagement settings
type Merchant struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	Logo             string            `json:"logo,omitempty"`
	Category         string            `json:"category"`
	Branches         []Branch          `json:"branches"`
	SelectedNGOs     []string          `json:"selectedNGOs"`
	OffsetEnabled    bool              `json:"offsetEnabled"`
	OffsetMatching   bool              `json:"offsetMatching"`
	LoyaltyConfig    LoyaltyConfig     `json:"loyaltyConfig"`
	CESConfig        CESConfig         `json:"cesConfig"`
	ReceiptPromotion *ReceiptPromotion `json:"receiptPromotion,omitempty"`
}

// Branch is a physical location owning devices and inventory
type Branch struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Location  string          `json:"location"`
	Devices   []Device        `json:"devices"`
	Inventory []InventoryItem `json:"inventory,omitempty"`
}

// InventoryItem is the stock of one product held at a branch
type InventoryItem struct {
	ProductID    string `json:"productId"`
	Quantity     int    `json:"quantity"`
	MinThreshold int    `json:"minThreshold"`
}

// SIM describes the cellular link of a terminal
type SIM struct {
	ICCID          string `json:"iccid"`
	Carrier        string `json:"carrier"`
	SignalStrength int    `json:"signalStrength"` // 0-100
	DataUsed       string `json:"dataUsed"`
}

// Device is a POS terminal deployed at a branch
type Device struct {
	ID           string    `json:"id"`
	Serial       string    `json:"serial"`
	Model        string    `json:"model"`
	Version      string    `json:"version"`
	Status       string    `json:"status"`
	LastPing     time.Time `json:"lastPing"`
	SIM          *SIM      `json:"sim,omitempty"`
	BatteryLevel *int      `json:"batteryLevel,omitempty"`
}

var (
	ErrMerchantNotFound = errors.New("merchant not found")
	ErrBranchNotFound   = errors.New("branch not found")
)

// FindMerchant returns the index of the merchant with id, or -1
func FindMerchant(merchants []Merchant, id string) int {
	for i := range merchants {
		if merchants[i].ID == id {
			return i
		}
	}
	return -1
}

// FindBranch returns the index of the branch with id, or -1
func (m *Merchant) FindBranch(id string) int {
	for i := range m.Branches {
		if m.Branches[i].ID == id {
			return i
		}
	}
	return -1
}
