package handler

import (
	"net/http"

	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/logger"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/checkout"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/receipts"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ReceiptPreviewRequest is a sample cart, optionally with an unsaved promotion rule
type ReceiptPreviewRequest struct {
	Items     []checkout.Item         `json:"items"`
	Promotion *model.ReceiptPromotion `json:"promotion,omitempty"`
}

func (h *Handler) GetPromotion(c echo.Context) error {
	id := c.Param("id")
	if err := authorizeMerchant(c, id); err != nil {
		return fail(c, err)
	}
	merchant, err := h.loadMerchant(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, receipts.PromotionFor(merchant))
}

// SetPromotion saves the merchant's receipt smart-promotion
func (h *Handler) SetPromotion(c echo.Context) error {
	id := c.Param("id")
	if err := authorizeMerchant(c, id); err != nil {
		return fail(c, err)
	}
	var req model.ReceiptPromotion
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	promo, err := receipts.Validate(req)
	if err != nil {
		return fail(c, err)
	}

	_, err = h.updateMerchant(c.Request().Context(), id, func(m *model.Merchant) error {
		m.ReceiptPromotion = &promo
		return nil
	})
	if err != nil {
		return fail(c, err)
	}

	logger.FromEcho(c).Info("Receipt promotion saved",
		zap.String("merchant_id", id),
		zap.String("condition", promo.Condition))
	return c.JSON(http.StatusOK, promo)
}

// PreviewReceipt prints a sample cart the way the till would, without recording the sale
func (h *Handler) PreviewReceipt(c echo.Context) error {
	id := c.Param("id")
	if err := authorizeMerchant(c, id); err != nil {
		return fail(c, err)
	}
	var req ReceiptPreviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctx := c.Request().Context()
	merchant, err := h.loadMerchant(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	if req.Promotion != nil {
		promo, err := receipts.Validate(*req.Promotion)
		if err != nil {
			return fail(c, err)
		}
		merchant.ReceiptPromotion = &promo
	}

	products, err := h.store.Products(ctx)
	if err != nil {
		return fail(c, err)
	}
	tx, err := checkout.BuildTransaction(req.Items, products, merchant.OffsetEnabled && merchant.OffsetMatching, h.now())
	if err != nil {
		return fail(c, err)
	}
	tx.MerchantID = id
	return c.JSON(http.StatusOK, receipts.Build(merchant, tx, products))
}
