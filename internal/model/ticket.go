package model

import "time"

// Ticket statuses
const (
	TicketOpen       = "OPEN"
	TicketInProgress = "IN_PROGRESS"
	TicketClosed     = "CLOSED"
)

// Ticket priorities
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// Ticket is a support request raised against a device
type Ticket struct {
	ID         string    `json:"id"`
	MerchantID string    `json:"merchantId"`
	BranchID   string    `json:"branchId"`
	DeviceID   string    `json:"deviceId"`
	Subject    string    `json:"subject"`
	Status     string    `json:"status"`
	Priority   string    `json:"priority"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ValidTicketStatus reports whether s is a known ticket status
func ValidTicketStatus(s string) bool {
	return s == TicketOpen || s == TicketInProgress || s == TicketClosed
}

// ValidPriority reports whether p is a known priority
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}
