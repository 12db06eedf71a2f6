package handler

import (
	"net/http"

	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/logger"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/fleet"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
	"github.com/greentill2020-cloud/greentillcmsProd/services/console-service/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// StatusRequest moves a ticket
type StatusRequest struct {
	Status string `json:"status"`
}

// visibleMerchants narrows merchants to the operator's own for MERCHANT tokens
func visibleMerchants(c echo.Context, merchants []model.Merchant) []model.Merchant {
	id := scopedMerchant(c)
	if id == "" {
		return merchants
	}
	idx := model.FindMerchant(merchants, id)
	if idx < 0 {
		return []model.Merchant{}
	}
	return merchants[idx : idx+1]
}

func (h *Handler) devices(c echo.Context) ([]fleet.DeviceView, error) {
	ctx := c.Request().Context()
	merchants, err := h.store.Merchants(ctx)
	if err != nil {
		return nil, err
	}
	tickets, err := h.store.Tickets(ctx)
	if err != nil {
		return nil, err
	}
	return fleet.Devices(visibleMerchants(c, merchants), tickets), nil
}

// ListDevices returns every terminal the operator can see with its unresolved ticket
func (h *Handler) ListDevices(c echo.Context) error {
	devices, err := h.devices(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, devices)
}

func (h *Handler) DeviceStats(c echo.Context) error {
	devices, err := h.devices(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, fleet.CountByStatus(devices))
}

// ListTickets returns tickets filtered by ?status (ALL by default) with merchant names
func (h *Handler) ListTickets(c echo.Context) error {
	ctx := c.Request().Context()
	tickets, err := h.store.Tickets(ctx)
	if err != nil {
		return fail(c, err)
	}
	merchants, err := h.store.Merchants(ctx)
	if err != nil {
		return fail(c, err)
	}

	tickets, err = fleet.FilterTickets(tickets, c.QueryParam("status"))
	if err != nil {
		return fail(c, err)
	}
	if id := scopedMerchant(c); id != "" {
		own := []model.Ticket{}
		for _, t := range tickets {
			if t.MerchantID == id {
				own = append(own, t)
			}
		}
		tickets = own
	}
	return c.JSON(http.StatusOK, fleet.WithMerchantNames(tickets, merchants))
}

// CreateTicket raises a support ticket against a terminal
func (h *Handler) CreateTicket(c echo.Context) error {
	var in fleet.NewTicket
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if id := scopedMerchant(c); id != "" {
		in.MerchantID = id
	}
	ctx := c.Request().Context()

	merchants, err := h.store.Merchants(ctx)
	if err != nil {
		return fail(c, err)
	}
	var created model.Ticket
	err = h.store.UpdateTickets(ctx, func(tickets []model.Ticket) ([]model.Ticket, error) {
		out, t, err := fleet.CreateTicket(tickets, merchants, in, h.now())
		created = t
		return out, err
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordTicketOperation("create")
	logger.FromEcho(c).Info("Ticket created",
		zap.String("ticket_id", created.ID),
		zap.String("device_id", created.DeviceID),
		zap.String("priority", created.Priority))
	return c.JSON(http.StatusCreated, created)
}

// SetTicketStatus moves a ticket to any status
func (h *Handler) SetTicketStatus(c echo.Context) error {
	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	var updated model.Ticket
	err := h.store.UpdateTickets(c.Request().Context(), func(tickets []model.Ticket) ([]model.Ticket, error) {
		out, t, err := fleet.SetTicketStatus(tickets, c.Param("id"), req.Status)
		updated = t
		return out, err
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordTicketOperation("status_" + updated.Status)
	return c.JSON(http.StatusOK, updated)
}
