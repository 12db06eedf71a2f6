package handler

import (
	"errors"
	"net/http"

	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/errx"
	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/logger"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/checkout"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/insights"
	"github.com/greentill2020-cloud/greentillcmsProd/services/console-service/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// QuoteRequest is the cart the till holds plus the scans since the last quote
type QuoteRequest struct {
	Items  []checkout.Item `json:"items"`
	Add    []string        `json:"add,omitempty"`
	Remove []string        `json:"remove,omitempty"`
}

// Quote is what the till shows before payment
type Quote struct {
	Items                    []checkout.Item `json:"items"`
	Total                    float64         `json:"total"`
	EcoImpactSaved           float64         `json:"ecoImpactSaved"`
	CarbonOffsetContribution float64         `json:"carbonOffsetContribution"`
}

// Quote prices a cart the same way a sale would, without recording anything
func (h *Handler) Quote(c echo.Context) error {
	var req QuoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	products, err := h.store.Products(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}

	cart := checkout.NewCart(req.Items...)
	for _, id := range req.Add {
		cart.Add(id)
	}
	for _, id := range req.Remove {
		cart.Remove(id)
	}
	items, err := checkout.PriceItems(cart.Items(), products)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, Quote{
		Items:                    items,
		Total:                    checkout.Total(items),
		EcoImpactSaved:           checkout.EcoImpact(items, products),
		CarbonOffsetContribution: checkout.OffsetContribution,
	})
}

// CompleteSale records a sale. A MERCHANT operator always sells for their own merchant.
func (h *Handler) CompleteSale(c echo.Context) error {
	log := logger.FromEcho(c)

	var req checkout.SaleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if merchantID := scopedMerchant(c); merchantID != "" {
		req.MerchantID = merchantID
	}

	tx, err := h.checkout.CompleteSale(c.Request().Context(), req)
	if errors.Is(err, checkout.ErrNotSynced) {
		prometheus.RecordSale(false, tx.Total, tx.CarbonOffsetContribution)
		log.Error("Sale not synced", zap.String("transaction_id", tx.ID), zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error":       errx.Message(classify(err)),
			"transaction": tx,
		})
	}
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordSale(true, tx.Total, tx.CarbonOffsetContribution)
	return c.JSON(http.StatusCreated, tx)
}

// ListTransactions returns sales, restricted to the operator's merchant for MERCHANT tokens
// or to ?merchantId for admins
func (h *Handler) ListTransactions(c echo.Context) error {
	txs, err := h.store.Transactions(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	merchantID := scopedMerchant(c)
	if merchantID == "" {
		merchantID = c.QueryParam("merchantId")
	}
	if merchantID != "" {
		txs = insights.MerchantTransactions(txs, merchantID)
	}
	return c.JSON(http.StatusOK, txs)
}
