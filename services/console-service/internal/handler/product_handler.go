package handler

import (
	"net/http"

	"github.com/greentill2020-cloud/greentillcmsProd/internal/checkout"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/fixtures"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/inventory"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
	"github.com/labstack/echo/v4"
)

// ListProducts returns the catalog, filtered by name when ?q is set
func (h *Handler) ListProducts(c echo.Context) error {
	products, err := h.store.Products(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	if q := c.QueryParam("q"); q != "" {
		products = checkout.Search(products, q)
	}
	return c.JSON(http.StatusOK, products)
}

// ListNGOs returns the offset partners merchants can select
func (h *Handler) ListNGOs(c echo.Context) error {
	return c.JSON(http.StatusOK, fixtures.NGOs())
}

// InventoryReport returns one row per catalog product with the merchant's branch holdings
func (h *Handler) InventoryReport(c echo.Context) error {
	id := c.Param("id")
	if err := authorizeMerchant(c, id); err != nil {
		return fail(c, err)
	}
	ctx := c.Request().Context()

	merchant, err := h.loadMerchant(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	products, err := h.store.Products(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, inventory.Report(products, merchant))
}

// LowStock lists branch holdings under their minimum
func (h *Handler) LowStock(c echo.Context) error {
	id := c.Param("id")
	if err := authorizeMerchant(c, id); err != nil {
		return fail(c, err)
	}
	merchant, err := h.loadMerchant(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, inventory.LowStock(merchant))
}

// StockRequest sets a branch holding
type StockRequest struct {
	Quantity     int `json:"quantity"`
	MinThreshold int `json:"minThreshold"`
}

// SetStock records the quantity and minimum of a product at a branch
func (h *Handler) SetStock(c echo.Context) error {
	id := c.Param("id")
	if err := authorizeMerchant(c, id); err != nil {
		return fail(c, err)
	}
	var req StockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	item := model.InventoryItem{
		ProductID:    c.Param("productId"),
		Quantity:     req.Quantity,
		MinThreshold: req.MinThreshold,
	}
	err := h.store.UpdateMerchants(c.Request().Context(), func(merchants []model.Merchant) ([]model.Merchant, error) {
		return inventory.SetStock(merchants, id, c.Param("branchId"), item)
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, item)
}
