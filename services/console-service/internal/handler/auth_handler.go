package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/logger"
	mid "github.com/greentill2020-cloud/greentillcmsProd/gomicro/middleware"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/model"
	"github.com/greentill2020-cloud/greentillcmsProd/services/console-service/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// LoginRequest is the console sign-in form
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks an operator's password and issues a token carrying role and merchant
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" {
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	defer prometheus.TrackStorageOperation("operators")(time.Now())
	operators, err := h.store.Operators(c.Request().Context())
	if err != nil {
		prometheus.RecordAuthError("storage")
		return fail(c, err)
	}

	var op *model.Operator
	for i := range operators {
		if strings.EqualFold(operators[i].Email, req.Email) {
			op = &operators[i]
			break
		}
	}
	if op == nil {
		log.Warn("Operator not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := h.jwt.GenerateToken(op.Email, op.ID, op.Role, op.MerchantID)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("Operator logged in",
		zap.String("email", op.Email),
		zap.String("role", op.Role),
		zap.String("merchant_id", op.MerchantID))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"operator": echo.Map{
			"id":         op.ID,
			"email":      op.Email,
			"role":       op.Role,
			"merchantId": op.MerchantID,
		},
	})
}

// Me returns the claims of the calling operator
func (h *Handler) Me(c echo.Context) error {
	claims, _ := mid.OperatorFromEcho(c)
	return c.JSON(http.StatusOK, echo.Map{
		"id":         claims.OperatorID,
		"email":      claims.Email,
		"role":       claims.Role,
		"merchantId": claims.MerchantID,
	})
}
