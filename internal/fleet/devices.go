// Package fleet tracks POS terminals across the merchant network and the support tickets raised against them.
package fleet

import "github.com/greentill2020-cloud/greentillcmsProd/internal/model"

// DeviceView is a terminal together with where it is deployed
type DeviceView struct {
	model.Device
	MerchantID   string        `json:"merchantId"`
	MerchantName string        `json:"merchantName"`
	BranchID     string        `json:"branchId"`
	BranchName   string        `json:"branchName"`
	OpenTicket   *model.Ticket `json:"openTicket,omitempty"`
}

// Stats counts terminals by status
type Stats struct {
	Total       int `json:"total"`
	Online      int `json:"online"`
	Maintenance int `json:"maintenance"`
	Offline     int `json:"offline"`
	PoweredOff  int `json:"poweredOff"`
	Down        int `json:"down"`
}

// IsDown reports whether a terminal cannot take payments
func IsDown(status string) bool {
	return status == model.DeviceOffline || status == model.DevicePoweredOff
}

// Devices flattens the terminals of merchants, attaching each one's unresolved ticket
func Devices(merchants []model.Merchant, tickets []model.Ticket) []DeviceView {
	views := []DeviceView{}
	for _, m := range merchants {
		for _, b := range m.Branches {
			for _, d := range b.Devices {
				v := DeviceView{
					Device:       d,
					MerchantID:   m.ID,
					MerchantName: m.Name,
					BranchID:     b.ID,
					BranchName:   b.Name,
				}
				if t, ok := OpenTicketFor(tickets, d.ID); ok {
					v.OpenTicket = &t
				}
				views = append(views, v)
			}
		}
	}
	return views
}

// CountByStatus summarises devices
func CountByStatus(devices []DeviceView) Stats {
	s := Stats{Total: len(devices)}
	for _, d := range devices {
		switch d.Status {
		case model.DeviceOnline:
			s.Online++
		case model.DeviceMaintenance:
			s.Maintenance++
		case model.DeviceOffline:
			s.Offline++
		case model.DevicePoweredOff:
			s.PoweredOff++
		}
		if IsDown(d.Status) {
			s.Down++
		}
	}
	return s
}

// OpenTicketFor returns the first ticket on deviceID that is not closed
func OpenTicketFor(tickets []model.Ticket, deviceID string) (model.Ticket, bool) {
	for _, t := range tickets {
		if t.DeviceID == deviceID && t.Status != model.TicketClosed {
			return t, true
		}
	}
	return model.Ticket{}, false
}
