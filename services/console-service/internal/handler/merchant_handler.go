package handler

import (
	"net/http"

	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/errx"
	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/logger"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/engagement"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/fixtures"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/insights"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/onboarding"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) ListMerchants(c echo.Context) error {
	merchants, err := h.store.Merchants(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, merchants)
}

func (h *Handler) GetMerchant(c echo.Context) error {
	id := c.Param("id")
	if err := authorizeMerchant(c, id); err != nil {
		return fail(c, err)
	}
	merchant, err := h.loadMerchant(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, merchant)
}

// OnboardMerchant creates a merchant with its first branch
func (h *Handler) OnboardMerchant(c echo.Context) error {
	log := logger.FromEcho(c)

	var in onboarding.Input
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	var created model.Merchant
	err := h.store.UpdateMerchants(c.Request().Context(), func(merchants []model.Merchant) ([]model.Merchant, error) {
		out, m, err := onboarding.Onboard(merchants, in)
		created = m
		return out, err
	})
	if err != nil {
		return fail(c, err)
	}

	log.Info("Merchant onboarded",
		zap.String("merchant_id", created.ID),
		zap.String("name", created.Name),
		zap.String("category", created.Category))
	return c.JSON(http.StatusCreated, created)
}

// SettingsRequest changes a merchant's offset programme. Nil fields are left as they are.
type SettingsRequest struct {
	OffsetEnabled  *bool    `json:"offsetEnabled"`
	OffsetMatching *bool    `json:"offsetMatching"`
	SelectedNGOs   []string `json:"selectedNGOs"`
}

// UpdateSettings edits the offset and NGO selection of a merchant
func (h *Handler) UpdateSettings(c echo.Context) error {
	id := c.Param("id")
	if err := authorizeMerchant(c, id); err != nil {
		return fail(c, err)
	}
	var req SettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	known := map[string]bool{}
	for _, ngo := range fixtures.NGOs() {
		known[ngo.ID] = true
	}
	for _, ngoID := range req.SelectedNGOs {
		if !known[ngoID] {
			return fail(c, errx.BadRequest("unknown NGO "+ngoID))
		}
	}

	updated, err := h.updateMerchant(c.Request().Context(), id, func(m *model.Merchant) error {
		if req.OffsetEnabled != nil {
			m.OffsetEnabled = *req.OffsetEnabled
		}
		if req.OffsetMatching != nil {
			m.OffsetMatching = *req.OffsetMatching
		}
		if req.SelectedNGOs != nil {
			m.SelectedNGOs = append([]string{}, req.SelectedNGOs...)
		}
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// MerchantDashboard returns the sales and offset tiles of a merchant
func (h *Handler) MerchantDashboard(c echo.Context) error {
	id := c.Param("id")
	if err := authorizeMerchant(c, id); err != nil {
		return fail(c, err)
	}
	ctx := c.Request().Context()

	if _, err := h.loadMerchant(ctx, id); err != nil {
		return fail(c, err)
	}
	txs, err := h.store.Transactions(ctx)
	if err != nil {
		return fail(c, err)
	}
	products, err := h.store.Products(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, insights.ForMerchant(insights.MerchantTransactions(txs, id), products))
}

// AdminDashboard returns the network-wide tiles
func (h *Handler) AdminDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	merchants, err := h.store.Merchants(ctx)
	if err != nil {
		return fail(c, err)
	}
	tickets, err := h.store.Tickets(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, insights.ForAdmin(merchants, tickets))
}

// ListCustomers returns loyalty members ranked by visits with their tier
func (h *Handler) ListCustomers(c echo.Context) error {
	customers, err := h.store.Customers(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, insights.RankCustomers(customers))
}

// CustomerProgress reports how close a customer is to a merchant's loyalty reward.
// Admins pick the merchant with ?merchantId.
func (h *Handler) CustomerProgress(c echo.Context) error {
	merchantID := scopedMerchant(c)
	if merchantID == "" {
		merchantID = c.QueryParam("merchantId")
	}
	if merchantID == "" {
		return fail(c, errx.BadRequest("merchantId is required"))
	}
	ctx := c.Request().Context()

	merchant, err := h.loadMerchant(ctx, merchantID)
	if err != nil {
		return fail(c, err)
	}
	customers, err := h.store.Customers(ctx)
	if err != nil {
		return fail(c, err)
	}
	for _, customer := range customers {
		if customer.ID == c.Param("id") {
			return c.JSON(http.StatusOK, engagement.LoyaltyProgress(merchant.LoyaltyConfig, customer))
		}
	}
	return fail(c, errx.NotFound("customer not found"))
}
