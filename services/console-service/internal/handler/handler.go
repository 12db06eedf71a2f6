// Package handler serves the console API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/errx"
	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/jwtutil"
	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/logger"
	mid "github.com/greentill2020-cloud/greentillcmsProd/gomicro/middleware"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/checkout"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/engagement"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/fleet"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/inventory"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/onboarding"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/receipts"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/storage"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Handler holds the dependencies of the console endpoints
type Handler struct {
	store    *storage.Service
	checkout *checkout.Service
	jwt      *jwtutil.JWTUtil
	now      func() time.Time
}

func New(store *storage.Service, jwt *jwtutil.JWTUtil, log *zap.Logger) *Handler {
	return &Handler{
		store:    store,
		checkout: checkout.NewService(store, log),
		jwt:      jwt,
		now:      time.Now,
	}
}

// Register mounts every console route on e
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", h.HealthCheck)
	e.POST("/auth/login", h.Login)

	api := e.Group("/api", mid.JWTAuthMiddleware(h.jwt))
	admin := mid.RequireRole(jwtutil.RoleAdmin)
	merchant := mid.RequireRole(jwtutil.RoleMerchant)

	api.GET("/me", h.Me)
	api.GET("/products", h.ListProducts)
	api.GET("/ngos", h.ListNGOs)

	api.POST("/checkout/quote", h.Quote)
	api.POST("/checkout/sales", h.CompleteSale)
	api.GET("/transactions", h.ListTransactions)

	api.GET("/customers", h.ListCustomers)
	api.GET("/customers/:id/progress", h.CustomerProgress)

	api.GET("/merchants", h.ListMerchants, admin)
	api.POST("/merchants", h.OnboardMerchant, admin)
	api.GET("/merchants/:id", h.GetMerchant)
	api.PATCH("/merchants/:id/settings", h.UpdateSettings)
	api.GET("/merchants/:id/dashboard", h.MerchantDashboard)

	api.GET("/merchants/:id/inventory", h.InventoryReport)
	api.GET("/merchants/:id/inventory/low", h.LowStock)
	api.PUT("/merchants/:id/branches/:branchId/inventory/:productId", h.SetStock)

	api.GET("/merchants/:id/ces", h.GetCES)
	api.PUT("/merchants/:id/ces/period", h.SetMarketingPeriod)
	api.PUT("/merchants/:id/ces/features/:featureId/license", h.SetLicense, admin)
	api.PUT("/merchants/:id/ces/features/:featureId/active", h.SetActive, merchant)
	api.PATCH("/merchants/:id/ces/features/:featureId/template", h.PatchTemplate)
	api.POST("/merchants/:id/ces/features/:featureId/attachments", h.AddAttachment)
	api.DELETE("/merchants/:id/ces/features/:featureId/attachments/:attachmentId", h.RemoveAttachment)
	api.GET("/merchants/:id/ces/features/:featureId/preview", h.PreviewTemplate)

	api.GET("/merchants/:id/loyalty", h.GetLoyalty)
	api.PATCH("/merchants/:id/loyalty", h.PatchLoyalty)

	api.GET("/merchants/:id/receipt/promotion", h.GetPromotion)
	api.PUT("/merchants/:id/receipt/promotion", h.SetPromotion)
	api.POST("/merchants/:id/receipt/preview", h.PreviewReceipt)

	api.GET("/devices", h.ListDevices)
	api.GET("/devices/stats", h.DeviceStats)
	api.GET("/tickets", h.ListTickets)
	api.POST("/tickets", h.CreateTicket)
	api.PATCH("/tickets/:id/status", h.SetTicketStatus, admin)

	api.GET("/admin/dashboard", h.AdminDashboard, admin)
}

// authorizeMerchant lets admins reach any merchant and merchants only their own
func authorizeMerchant(c echo.Context, merchantID string) error {
	claims, ok := mid.OperatorFromEcho(c)
	if !ok {
		return errx.New(nil, http.StatusUnauthorized, "authentication required")
	}
	if claims.IsAdmin() || claims.MerchantID == merchantID {
		return nil
	}
	return errx.Forbidden("access denied to this merchant")
}

// scopedMerchant returns the merchant a MERCHANT operator is bound to, or "" for admins
func scopedMerchant(c echo.Context) string {
	claims, ok := mid.OperatorFromEcho(c)
	if !ok || claims.IsAdmin() {
		return ""
	}
	return claims.MerchantID
}

func (h *Handler) loadMerchant(ctx context.Context, id string) (model.Merchant, error) {
	merchants, err := h.store.Merchants(ctx)
	if err != nil {
		return model.Merchant{}, err
	}
	idx := model.FindMerchant(merchants, id)
	if idx < 0 {
		return model.Merchant{}, model.ErrMerchantNotFound
	}
	return merchants[idx], nil
}

// updateMerchant applies edit to merchant id and writes the collection back
func (h *Handler) updateMerchant(ctx context.Context, id string, edit func(*model.Merchant) error) (model.Merchant, error) {
	var updated model.Merchant
	err := h.store.UpdateMerchants(ctx, func(merchants []model.Merchant) ([]model.Merchant, error) {
		idx := model.FindMerchant(merchants, id)
		if idx < 0 {
			return nil, model.ErrMerchantNotFound
		}
		out := make([]model.Merchant, len(merchants))
		copy(out, merchants)
		if err := edit(&out[idx]); err != nil {
			return nil, err
		}
		updated = out[idx]
		return out, nil
	})
	return updated, err
}

// fail logs err and writes it with the status its kind maps to
func fail(c echo.Context, err error) error {
	mapped := classify(err)
	status := errx.Status(mapped)
	log := logger.FromEcho(c)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", zap.Int("status", status), zap.Error(err))
	} else {
		log.Warn("Request rejected", zap.Int("status", status), zap.Error(err))
	}
	return errx.Respond(c, mapped)
}

// classify maps domain errors to client statuses. Anything unrecognised came from storage.
func classify(err error) error {
	var appErr *errx.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInvalidQuantity),
		errors.Is(err, checkout.ErrInvalidPrice),
		errors.Is(err, onboarding.ErrMissingField),
		errors.Is(err, onboarding.ErrInvalidCategory),
		errors.Is(err, engagement.ErrInvalidPeriod),
		errors.Is(err, engagement.ErrInvalidLoyaltyType),
		errors.Is(err, engagement.ErrInvalidThreshold),
		errors.Is(err, fleet.ErrInvalidStatus),
		errors.Is(err, fleet.ErrInvalidTicket),
		errors.Is(err, inventory.ErrInvalidStock),
		errors.Is(err, receipts.ErrInvalidCondition),
		errors.Is(err, receipts.ErrMissingText):
		return errx.New(err, http.StatusBadRequest, err.Error())

	case errors.Is(err, model.ErrMerchantNotFound),
		errors.Is(err, model.ErrBranchNotFound),
		errors.Is(err, engagement.ErrFeatureNotFound),
		errors.Is(err, fleet.ErrTicketNotFound),
		errors.Is(err, fleet.ErrDeviceNotFound),
		errors.Is(err, storage.ErrNotFound):
		return errx.New(err, http.StatusNotFound, err.Error())

	case errors.Is(err, engagement.ErrFeatureNotLicensed):
		return errx.New(err, http.StatusForbidden, err.Error())

	case errors.Is(err, onboarding.ErrDuplicateEmail):
		return errx.Conflict(err, err.Error())
	case errors.Is(err, storage.ErrVersionConflict):
		return errx.Conflict(err, "data was changed by another session, reload and try again")

	case errors.Is(err, engagement.ErrFeatureCycle):
		return errx.New(err, http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, checkout.ErrNotSynced):
		return errx.New(err, http.StatusBadGateway, checkout.ErrNotSynced.Error())
	}
	return errx.WrapStorage(err)
}
