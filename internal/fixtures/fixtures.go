// Package fixtures holds the demo network written to an empty store.
package fixtures

import (
	"fmt"
	"time"

	"github.com/greentill2020-cloud/greentillcmsProd/internal/engagement"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
)

// Products is the starting catalog
func Products() []model.Product {
	return []model.Product{
		{ID: "1", Name: "Bamboo Toothbrush", Price: 4.50, Category: "Home", Stock: 50, EcoScore: 95, Packaging: model.PackagingPaper, CarbonFootprint: 0.05, Image: "https://picsum.photos/seed/bamboo/200/200"},
		{ID: "2", Name: "Organic Cotton Bag", Price: 12.00, Category: "Fashion", Stock: 25, EcoScore: 88, Packaging: model.PackagingReusable, CarbonFootprint: 0.15, Image: "https://picsum.photos/seed/bag/200/200"},
		{ID: "3", Name: "Recycled Paper Notebook", Price: 8.99, Category: "Office", Stock: 40, EcoScore: 92, Packaging: model.PackagingPaper, CarbonFootprint: 0.08, Image: "https://picsum.photos/seed/notebook/200/200"},
	}
}

// NGOs lists the offset partners merchants can select
func NGOs() []model.NGO {
	return []model.NGO{
		{ID: "ngo1", Name: "The Ocean Cleanup", Description: "Removing plastic from world oceans.", Category: "Ocean", Location: "Global"},
		{ID: "ngo2", Name: "Eden Reforestation", Description: "Planting trees in vulnerable ecosystems.", Category: "Forest", Location: "Madagascar"},
		{ID: "ngo3", Name: "Climate Vault", Description: "Purchasing carbon permits to reduce supply.", Category: "Climate", Location: "USA"},
	}
}

// Merchants is the demo merchant network. Device pings are relative to now.
func Merchants(now time.Time) []model.Merchant {
	return []model.Merchant{
		{
			ID:       "m1",
			Name:     "Avoca Handweavers",
			Email:    "hello@avoca.ie",
			Logo:     logo("AH", "065f46"),
			Category: model.CategoryGrocery,
			Branches: []model.Branch{
				{
					ID:       "b1",
					Name:     "Kilmacanogue HQ",
					Location: "Kilmacanogue, Co. Wicklow, A98 NY67",
					Devices: []model.Device{
						device("d1", "GT-AV-101", "T1 Pro", "2.4.1", model.DeviceOnline, now, sim("8935301...", "Three IE", 92, "450MB"), 98),
						device("d2", "GT-AV-102", "T1 Pro", "2.4.1", model.DeviceOnline, now, sim("8935302...", "Three IE", 88, "410MB"), 85),
					},
					Inventory: []model.InventoryItem{
						{ProductID: "1", Quantity: 30, MinThreshold: 10},
						{ProductID: "2", Quantity: 8, MinThreshold: 10},
						{ProductID: "3", Quantity: 22, MinThreshold: 5},
					},
				},
			},
			SelectedNGOs:   []string{"ngo1"},
			OffsetEnabled:  true,
			OffsetMatching: true,
			LoyaltyConfig:  model.LoyaltyConfig{Type: model.LoyaltySpend, Threshold: 100, Reward: "€10 Voucher"},
			CESConfig:      engagement.DefaultCESConfig(),
		},
		{
			ID:       "m2",
			Name:     "Butler's Chocolate Cafe",
			Email:    "cafe@butlers.ie",
			Logo:     logo("BC", "78350f"),
			Category: model.CategoryCafe,
			Branches: []model.Branch{
				{
					ID:       "b2",
					Name:     "Grafton Street",
					Location: "24 Grafton St, Dublin 2, D02 H654",
					Devices: []model.Device{
						device("d3", "GT-BU-201", "T1 Pro", "2.4.0", model.DeviceOnline, now, sim("8935303...", "Vodafone IE", 95, "1.2GB"), 100),
						device("d4", "GT-BU-202", "T1 Pro", "2.4.0", model.DeviceOnline, now, sim("8935304...", "Vodafone IE", 82, "1.1GB"), 45),
					},
				},
			},
			SelectedNGOs:   []string{"ngo2"},
			OffsetEnabled:  true,
			OffsetMatching: false,
			LoyaltyConfig:  model.LoyaltyConfig{Type: model.LoyaltyVisit, Threshold: 10, Reward: "Free Hot Chocolate"},
			CESConfig:      engagement.DefaultCESConfig(),
		},
		{
			ID:       "m3",
			Name:     "Fallon & Byrne",
			Email:    "info@fallonandbyrne.com",
			Logo:     logo("FB", "111827"),
			Category: model.CategoryGrocery,
			Branches: []model.Branch{
				{
					ID:       "b3",
					Name:     "Exchequer St",
					Location: "11-17 Exchequer St, Dublin 2, D02 CY67",
					Devices: []model.Device{
						device("d5", "GT-FB-301", "T1 Pro", "2.4.1", model.DeviceOnline, now, sim("8935305...", "Eir", 78, "2.5GB"), 92),
						device("d6", "GT-FB-302", "T1 Pro", "2.4.1", model.DeviceOffline, now.Add(-2 * time.Hour), sim("8935306...", "Eir", 0, "2.1GB"), 5),
					},
				},
			},
			SelectedNGOs:   []string{"ngo1", "ngo3"},
			OffsetEnabled:  true,
			OffsetMatching: true,
			LoyaltyConfig:  model.LoyaltyConfig{Type: model.LoyaltySpend, Threshold: 200, Reward: "Wine Tasting for 2"},
			CESConfig:      engagement.DefaultCESConfig(),
		},
		{
			ID:       "m4",
			Name:     "Murphy's Ice Cream",
			Email:    "info@murphys.ie",
			Logo:     logo("MC", "0ea5e9"),
			Category: model.CategoryCafe,
			Branches: []model.Branch{
				{
					ID:       "b4",
					Name:     "Wicklow St",
					Location: "27 Wicklow St, Dublin 2, D02 H293",
					Devices: []model.Device{
						device("d7", "GT-MU-401", "T1 Lite", "2.4.1", model.DeviceOnline, now, sim("8935307...", "Three IE", 85, "800MB"), 75),
						device("d8", "GT-MU-402", "T1 Lite", "2.4.1", model.DeviceOnline, now, sim("8935308...", "Three IE", 82, "750MB"), 68),
					},
				},
			},
			SelectedNGOs:   []string{"ngo1"},
			OffsetEnabled:  true,
			OffsetMatching: false,
			LoyaltyConfig:  model.LoyaltyConfig{Type: model.LoyaltyVisit, Threshold: 5, Reward: "Free Double Scoop"},
			CESConfig:      engagement.DefaultCESConfig(),
		},
		{
			ID:       "m5",
			Name:     "The Happy Pear",
			Email:    "shop@thehappypear.ie",
			Logo:     logo("HP", "f59e0b"),
			Category: model.CategoryGrocery,
			Branches: []model.Branch{
				{
					ID:       "b5",
					Name:     "Greystones Main St",
					Location: "Church Rd, Greystones, Co. Wicklow, A63 FK21",
					Devices: []model.Device{
						device("d9", "GT-HP-501", "T1 Pro", "2.4.1", model.DeviceOnline, now, sim("8935309...", "Vodafone IE", 90, "1.4GB"), 88),
						device("d10", "GT-HP-502", "T1 Pro", "2.4.1", model.DeviceOnline, now, sim("8935310...", "Vodafone IE", 89, "1.3GB"), 91),
					},
				},
			},
			SelectedNGOs:   []string{"ngo2"},
			OffsetEnabled:  true,
			OffsetMatching: true,
			LoyaltyConfig:  model.LoyaltyConfig{Type: model.LoyaltySpend, Threshold: 50, Reward: "Cookbook"},
			CESConfig:      engagement.DefaultCESConfig(),
		},
		{
			ID:       "m6",
			Name:     "Sheridans Cheesemongers",
			Email:    "info@sheridans.ie",
			Logo:     logo("SC", "166534"),
			Category: model.CategoryGrocery,
			Branches: []model.Branch{
				{
					ID:       "b6",
					Name:     "South Anne St",
					Location: "11 South Anne St, Dublin 2, D02 RF43",
					Devices: []model.Device{
						device("d11", "GT-SH-601", "T1 Pro", "2.4.1", model.DeviceOnline, now, sim("8935311...", "Eir", 75, "300MB"), 100),
						device("d12", "GT-SH-602", "T1 Pro", "2.4.1", model.DeviceMaintenance, now, sim("8935312...", "Eir", 65, "250MB"), 100),
					},
				},
			},
			SelectedNGOs:   []string{"ngo1"},
			OffsetEnabled:  true,
			OffsetMatching: false,
			LoyaltyConfig:  model.LoyaltyConfig{Type: model.LoyaltyVisit, Threshold: 12, Reward: "Cheese Board"},
			CESConfig:      engagement.DefaultCESConfig(),
		},
		{
			ID:       "m7",
			Name:     "McCambridge's of Galway",
			Email:    "orders@mccambridges.com",
			Logo:     logo("MG", "dc2626"),
			Category: model.CategoryGrocery,
			Branches: []model.Branch{
				{
					ID:       "b7",
					Name:     "Shop Street",
					Location: "38-39 Shop St, Galway, H91 P923",
					Devices: []model.Device{
						device("d13", "GT-MC-701", "T1 Pro", "2.4.1", model.DeviceOnline, now, sim("8935313...", "Three IE", 91, "1.1GB"), 94),
						device("d14", "GT-MC-702", "T1 Pro", "2.4.1", model.DeviceOnline, now, sim("8935314...", "Three IE", 88, "900MB"), 92),
					},
				},
			},
			SelectedNGOs:   []string{"ngo3"},
			OffsetEnabled:  true,
			OffsetMatching: true,
			LoyaltyConfig:  model.LoyaltyConfig{Type: model.LoyaltySpend, Threshold: 150, Reward: "Luxury Hamper"},
			CESConfig:      engagement.DefaultCESConfig(),
		},
		{
			ID:       "m8",
			Name:     "O'Conaill Chocolate",
			Email:    "shop@oconaillchocolate.ie",
			Logo:     logo("OC", "451a03"),
			Category: model.CategoryCafe,
			Branches: []model.Branch{
				{
					ID:       "b8",
					Name:     "French Church St",
					Location: "16 French Church St, Cork, T12 WR54",
					Devices: []model.Device{
						device("d15", "GT-OC-801", "T1 Pro", "2.4.1", model.DeviceOnline, now, sim("8935315...", "Vodafone IE", 94, "600MB"), 81),
						device("d16", "GT-OC-802", "T1 Pro", "2.4.1", model.DevicePoweredOff, now.Add(-24 * time.Hour), sim("8935316...", "Vodafone IE", 0, "550MB"), 0),
					},
				},
			},
			SelectedNGOs:   []string{"ngo2"},
			OffsetEnabled:  true,
			OffsetMatching: false,
			LoyaltyConfig:  model.LoyaltyConfig{Type: model.LoyaltyVisit, Threshold: 8, Reward: "Box of Pralines"},
			CESConfig:      engagement.DefaultCESConfig(),
		},
		{
			ID:       "m9",
			Name:     "Keogh's Farm",
			Email:    "crisps@keoghs.ie",
			Logo:     logo("KF", "3f6212"),
			Category: model.CategoryGrocery,
			Branches: []model.Branch{
				{
					ID:       "b9",
					Name:     "Farm Shop",
					Location: "Oldtown, Co. Dublin, A45 R543",
					Devices: []model.Device{
						device("d17", "GT-KE-901", "T1 Lite", "2.4.1", model.DeviceOnline, now, sim("8935317...", "Eir", 72, "200MB"), 99),
						device("d18", "GT-KE-902", "T1 Lite", "2.4.1", model.DeviceOnline, now, sim("8935318...", "Eir", 70, "180MB"), 95),
					},
				},
			},
			SelectedNGOs:   []string{"ngo1"},
			OffsetEnabled:  true,
			OffsetMatching: true,
			LoyaltyConfig:  model.LoyaltyConfig{Type: model.LoyaltySpend, Threshold: 30, Reward: "Multipack of Crisps"},
			CESConfig:      engagement.DefaultCESConfig(),
		},
		{
			ID:       "m10",
			Name:     "SuperValu Ireland",
			Email:    "ops@supervalu.ie",
			Logo:     logo("SV", "b91c1c"),
			Category: model.CategoryGrocery,
			Branches: []model.Branch{
				{
					ID:       "b10-1",
					Name:     "Blackrock Shopping Centre",
					Location: "Blackrock, Co. Dublin, A94 E7V1",
					Devices: []model.Device{
						device("d19", "GT-SV-1001", "T1 Max", "2.4.1", model.DeviceOnline, now, sim("8935319...", "Three IE", 96, "5.2GB"), 100),
					},
					Inventory: []model.InventoryItem{
						{ProductID: "1", Quantity: 120, MinThreshold: 40},
						{ProductID: "3", Quantity: 15, MinThreshold: 20},
					},
				},
				{
					ID:       "b10-2",
					Name:     "Kinsale Branch",
					Location: "Glen-na-vanna, Kinsale, Co. Cork, P17 K231",
					Devices: []model.Device{
						device("d20", "GT-SV-1002", "T1 Max", "2.4.1", model.DeviceOnline, now, sim("8935320...", "Three IE", 89, "4.8GB"), 98),
					},
					Inventory: []model.InventoryItem{
						{ProductID: "1", Quantity: 35, MinThreshold: 40},
						{ProductID: "2", Quantity: 60, MinThreshold: 25},
					},
				},
			},
			SelectedNGOs:   []string{"ngo2"},
			OffsetEnabled:  true,
			OffsetMatching: true,
			LoyaltyConfig:  model.LoyaltyConfig{Type: model.LoyaltyVisit, Threshold: 1, Reward: "10 Real Rewards Points"},
			CESConfig:      engagement.DefaultCESConfig(),
		},
	}
}

// Tickets is the starting support queue
func Tickets(now time.Time) []model.Ticket {
	return []model.Ticket{
		{ID: "TK-101", MerchantID: "m1", BranchID: "b1", DeviceID: "d1", Subject: "Printer jam on terminal", Status: model.TicketOpen, Priority: model.PriorityHigh, CreatedAt: now},
		{ID: "TK-102", MerchantID: "m3", BranchID: "b3", DeviceID: "d6", Subject: "Network connectivity dropped", Status: model.TicketInProgress, Priority: model.PriorityMedium, CreatedAt: now.Add(-24 * time.Hour)},
		{ID: "TK-103", MerchantID: "m8", BranchID: "b8", DeviceID: "d16", Subject: "Terminal won't power on", Status: model.TicketOpen, Priority: model.PriorityHigh, CreatedAt: now.Add(-time.Hour)},
	}
}

// Customers is the starting loyalty membership
func Customers(now time.Time) []model.Customer {
	const day = 24 * time.Hour
	return []model.Customer{
		{ID: "c1", Name: "Siobhan O'Neill", Email: "siobhan@example.ie", VisitCount: 18, TotalSpend: 450.50, LastVisit: now},
		{ID: "c2", Name: "Liam Murphy", Email: "liam@example.ie", VisitCount: 5, TotalSpend: 120.00, LastVisit: now.Add(-2 * day)},
		{ID: "c3", Name: "Cian Kelly", Email: "cian@example.ie", VisitCount: 12, TotalSpend: 280.75, LastVisit: now.Add(-5 * day)},
	}
}

func logo(initials, background string) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/initials/svg?seed=%s&backgroundColor=%s", initials, background)
}

func sim(iccid, carrier string, signal int, used string) *model.SIM {
	return &model.SIM{ICCID: iccid, Carrier: carrier, SignalStrength: signal, DataUsed: used}
}

func device(id, serial, modelName, version, status string, lastPing time.Time, s *model.SIM, battery int) model.Device {
	return model.Device{
		ID:           id,
		Serial:       serial,
		Model:        modelName,
		Version:      version,
		Status:       status,
		LastPing:     lastPing,
		SIM:          s,
		BatteryLevel: &battery,
	}
}
