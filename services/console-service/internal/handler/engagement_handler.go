package handler

import (
	"net/http"

	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/errx"
	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/logger"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/engagement"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
	"github.com/greentill2020-cloud/greentillcmsProd/services/console-service/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ToggleRequest switches a feature flag
type ToggleRequest struct {
	Value *bool `json:"value"`
}

// PeriodRequest sets the marketing frequency
type PeriodRequest struct {
	Period string `json:"period"`
}

func (h *Handler) GetCES(c echo.Context) error {
	id := c.Param("id")
	if err := authorizeMerchant(c, id); err != nil {
		return fail(c, err)
	}
	merchant, err := h.loadMerchant(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, merchant.CESConfig)
}

// SetLicense grants or revokes a feature. Revoking also deactivates it and its descendants.
func (h *Handler) SetLicense(c echo.Context) error {
	return h.toggle(c, true)
}

// SetActive switches a licensed feature on or off. Switching off cascades to descendants.
func (h *Handler) SetActive(c echo.Context) error {
	return h.toggle(c, false)
}

func (h *Handler) toggle(c echo.Context, license bool) error {
	id := c.Param("id")
	featureID := c.Param("featureId")
	if err := authorizeMerchant(c, id); err != nil {
		return fail(c, err)
	}
	var req ToggleRequest
	if err := c.Bind(&req); err != nil || req.Value == nil {
		return fail(c, errx.BadRequest("value is required"))
	}

	updated, err := h.updateMerchant(c.Request().Context(), id, func(m *model.Merchant) error {
		features, err := engagement.ToggleFeature(m.CESConfig.Features, featureID, *req.Value, license)
		if err != nil {
			return err
		}
		m.CESConfig.Features = features
		return nil
	})
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordFeatureToggle(license, *req.Value)
	logger.FromEcho(c).Info("Engagement feature toggled",
		zap.String("merchant_id", id),
		zap.String("feature_id", featureID),
		zap.Bool("license", license),
		zap.Bool("value", *req.Value))
	return c.JSON(http.StatusOK, updated.CESConfig)
}

// SetMarketingPeriod changes how often marketing emails go out
func (h *Handler) SetMarketingPeriod(c echo.Context) error {
	id := c.Param("id")
	if err := authorizeMerchant(c, id); err != nil {
		return fail(c, err)
	}
	var req PeriodRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	updated, err := h.updateMerchant(c.Request().Context(), id, func(m *model.Merchant) error {
		cfg, err := engagement.SetMarketingPeriod(m.CESConfig, req.Period)
		if err != nil {
			return err
		}
		m.CESConfig = cfg
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, updated.CESConfig)
}

// PatchTemplate edits a feature's email template
func (h *Handler) PatchTemplate(c echo.Context) error {
	id := c.Param("id")
	featureID := c.Param("featureId")
	if err := authorizeMerchant(c, id); err != nil {
		return fail(c, err)
	}
	var patch engagement.TemplatePatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	updated, err := h.updateMerchant(c.Request().Context(), id, func(m *model.Merchant) error {
		features, err := engagement.PatchTemplate(m.CESConfig.Features, featureID, patch, h.now())
		if err != nil {
			return err
		}
		m.CESConfig.Features = features
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	feature, err := engagement.FindFeature(updated.CESConfig.Features, featureID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, feature)
}

// AddAttachment attaches a document to a feature's template
func (h *Handler) AddAttachment(c echo.Context) error {
	id := c.Param("id")
	featureID := c.Param("featureId")
	if err := authorizeMerchant(c, id); err != nil {
		return fail(c, err)
	}
	var att model.Attachment
	if err := c.Bind(&att); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if att.Name == "" {
		return fail(c, errx.BadRequest("name is required"))
	}

	var added model.Attachment
	_, err := h.updateMerchant(c.Request().Context(), id, func(m *model.Merchant) error {
		features, a, err := engagement.AddAttachment(m.CESConfig.Features, featureID, att, h.now())
		if err != nil {
			return err
		}
		m.CESConfig.Features = features
		added = a
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, added)
}

// RemoveAttachment detaches a document from a feature's template
func (h *Handler) RemoveAttachment(c echo.Context) error {
	id := c.Param("id")
	if err := authorizeMerchant(c, id); err != nil {
		return fail(c, err)
	}

	_, err := h.updateMerchant(c.Request().Context(), id, func(m *model.Merchant) error {
		features, err := engagement.RemoveAttachment(m.CESConfig.Features, c.Param("featureId"), c.Param("attachmentId"), h.now())
		if err != nil {
			return err
		}
		m.CESConfig.Features = features
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PreviewTemplate renders a template with sample or supplied placeholder values
func (h *Handler) PreviewTemplate(c echo.Context) error {
	id := c.Param("id")
	if err := authorizeMerchant(c, id); err != nil {
		return fail(c, err)
	}
	merchant, err := h.loadMerchant(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	feature, err := engagement.FindFeature(merchant.CESConfig.Features, c.Param("featureId"))
	if err != nil {
		return fail(c, err)
	}

	name := c.QueryParam("customerName")
	if name == "" {
		name = engagement.SampleCustomerName
	}
	txID := c.QueryParam("transactionId")
	if txID == "" {
		txID = engagement.SampleTransactionID
	}
	return c.JSON(http.StatusOK, engagement.RenderPreview(feature.Template, name, txID))
}

func (h *Handler) GetLoyalty(c echo.Context) error {
	id := c.Param("id")
	if err := authorizeMerchant(c, id); err != nil {
		return fail(c, err)
	}
	merchant, err := h.loadMerchant(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, merchant.LoyaltyConfig)
}

// PatchLoyalty partially updates the loyalty programme
func (h *Handler) PatchLoyalty(c echo.Context) error {
	id := c.Param("id")
	if err := authorizeMerchant(c, id); err != nil {
		return fail(c, err)
	}
	var patch engagement.LoyaltyPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	updated, err := h.updateMerchant(c.Request().Context(), id, func(m *model.Merchant) error {
		cfg, err := engagement.ApplyLoyaltyPatch(m.LoyaltyConfig, patch)
		if err != nil {
			return err
		}
		m.LoyaltyConfig = cfg
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, updated.LoyaltyConfig)
}
