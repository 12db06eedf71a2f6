package fleet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
)

// StatusAll disables the status filter
const StatusAll = "ALL"

const (
	ticketPrefix    = "TK-"
	firstTicketNum  = 101
	unknownMerchant = "Unknown"
)

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrDeviceNotFound = errors.New("device not found")
	ErrInvalidStatus  = errors.New("invalid ticket status")
	ErrInvalidTicket  = errors.New("invalid ticket")
)

// TicketView is a ticket with its merchant's display name
type TicketView struct {
	model.Ticket
	MerchantName string `json:"merchantName"`
}

// FilterTickets keeps tickets in status; StatusAll or "" keeps everything
func FilterTickets(tickets []model.Ticket, status string) ([]model.Ticket, error) {
	if status == "" || status == StatusAll {
		return tickets, nil
	}
	if !model.ValidTicketStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	out := []model.Ticket{}
	for _, t := range tickets {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

// WithMerchantNames resolves merchant names, falling back to "Unknown"
func WithMerchantNames(tickets []model.Ticket, merchants []model.Merchant) []TicketView {
	names := make(map[string]string, len(merchants))
	for _, m := range merchants {
		names[m.ID] = m.Name
	}
	views := make([]TicketView, 0, len(tickets))
	for _, t := range tickets {
		name, ok := names[t.MerchantID]
		if !ok {
			name = unknownMerchant
		}
		views = append(views, TicketView{Ticket: t, MerchantName: name})
	}
	return views
}

// NewTicket is a support request as submitted by an operator
type NewTicket struct {
	MerchantID string `json:"merchantId"`
	BranchID   string `json:"branchId"`
	DeviceID   string `json:"deviceId"`
	Subject    string `json:"subject"`
	Priority   string `json:"priority"`
}

// CreateTicket validates in against the merchant network and appends an OPEN ticket.
// Priority defaults to MEDIUM.
func CreateTicket(tickets []model.Ticket, merchants []model.Merchant, in NewTicket, now time.Time) ([]model.Ticket, model.Ticket, error) {
	in.Subject = strings.TrimSpace(in.Subject)
	if in.Subject == "" {
		return nil, model.Ticket{}, fmt.Errorf("%w: subject is required", ErrInvalidTicket)
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if !model.ValidPriority(in.Priority) {
		return nil, model.Ticket{}, fmt.Errorf("%w: priority %q", ErrInvalidTicket, in.Priority)
	}
	if err := locateDevice(merchants, in.MerchantID, in.BranchID, in.DeviceID); err != nil {
		return nil, model.Ticket{}, err
	}

	t := model.Ticket{
		ID:         nextTicketID(tickets),
		MerchantID: in.MerchantID,
		BranchID:   in.BranchID,
		DeviceID:   in.DeviceID,
		Subject:    in.Subject,
		Status:     model.TicketOpen,
		Priority:   in.Priority,
		CreatedAt:  now,
	}
	out := append(append(make([]model.Ticket, 0, len(tickets)+1), tickets...), t)
	return out, t, nil
}

// SetTicketStatus moves ticket id to status. Any transition is allowed.
func SetTicketStatus(tickets []model.Ticket, id, status string) ([]model.Ticket, model.Ticket, error) {
	if !model.ValidTicketStatus(status) {
		return nil, model.Ticket{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	out := make([]model.Ticket, len(tickets))
	copy(out, tickets)
	for i := range out {
		if out[i].ID == id {
			out[i].Status = status
			return out, out[i], nil
		}
	}
	return nil, model.Ticket{}, fmt.Errorf("%w: %s", ErrTicketNotFound, id)
}

func locateDevice(merchants []model.Merchant, merchantID, branchID, deviceID string) error {
	mi := model.FindMerchant(merchants, merchantID)
	if mi < 0 {
		return fmt.Errorf("%w: %s", model.ErrMerchantNotFound, merchantID)
	}
	bi := merchants[mi].FindBranch(branchID)
	if bi < 0 {
		return fmt.Errorf("%w: %s", model.ErrBranchNotFound, branchID)
	}
	for _, d := range merchants[mi].Branches[bi].Devices {
		if d.ID == deviceID {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
}

// nextTicketID continues the TK-<n> sequence after the highest existing number
func nextTicketID(tickets []model.Ticket) string {
	next := firstTicketNum
	for _, t := range tickets {
		n, err := strconv.Atoi(strings.TrimPrefix(t.ID, ticketPrefix))
		if err == nil && n >= next {
			next = n + 1
		}
	}
	return ticketPrefix + strconv.Itoa(next)
}
