package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/greentill2020-cloud/greentillcmsProd/gomicro/logger"
	"github.com/greentill2020-cloud/greentillcmsProd/internal/storage"
	"github.com/greentill2020-cloud/greentillcmsProd/services/state-service/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// StateResponse is the body of a successful GET
type StateResponse struct {
	Data    json.RawMessage `json:"data"`
	Version int64           `json:"version"`
}

// PutRequest is the body of a PUT
type PutRequest struct {
	Data json.RawMessage `json:"data"`
}

// PutResponse is the body of a successful PUT
type PutResponse struct {
	Success bool  `json:"success"`
	Version int64 `json:"version"`
}

// StateHandler serves documents from a storage backend
type StateHandler struct {
	store storage.Backend
}

func NewStateHandler(store storage.Backend) *StateHandler {
	return &StateHandler{store: store}
}

// Register mounts /state on e. Methods other than GET, PUT and OPTIONS get 405.
func (h *StateHandler) Register(e *echo.Echo) {
	e.GET("/state", h.Get)
	e.PUT("/state", h.Put)
	e.OPTIONS("/state", h.Options)
	e.Match([]string{http.MethodPost, http.MethodDelete, http.MethodPatch}, "/state", h.MethodNotAllowed)
}

// Get returns the document stored under ?key
func (h *StateHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)
	key := c.QueryParam("key")
	if key == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Key is required"})
	}

	defer prometheus.TrackStoreOperation("get")(time.Now())
	rec, err := h.store.Get(c.Request().Context(), key)
	if errors.Is(err, storage.ErrNotFound) {
		prometheus.RecordOperation("get", key, "not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Not found"})
	}
	if err != nil {
		log.Error("Failed to read state", zap.String("key", key), zap.Error(err))
		prometheus.RecordOperation("get", key, "error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}

	prometheus.RecordOperation("get", key, "ok")
	c.Response().Header().Set("ETag", etag(rec.Version))
	return c.JSON(http.StatusOK, StateResponse{Data: rec.Data, Version: rec.Version})
}

// Put replaces the document under ?key. An If-Match header makes the write conditional.
func (h *StateHandler) Put(c echo.Context) error {
	log := logger.FromEcho(c)
	key := c.QueryParam("key")
	if key == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Key is required"})
	}

	var req PutRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid state payload", zap.String("key", key), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if len(req.Data) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Data is required"})
	}

	ctx := c.Request().Context()
	var (
		version int64
		err     error
	)
	if match := c.Request().Header.Get("If-Match"); match != "" {
		expected, perr := parseETag(match)
		if perr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid If-Match header"})
		}
		defer prometheus.TrackStoreOperation("put_if")(time.Now())
		version, err = h.store.PutIf(ctx, key, req.Data, expected)
	} else {
		defer prometheus.TrackStoreOperation("put")(time.Now())
		version, err = h.store.Put(ctx, key, req.Data)
	}

	if errors.Is(err, storage.ErrVersionConflict) {
		log.Info("Rejected stale write", zap.String("key", key))
		prometheus.RecordOperation("put", key, "conflict")
		return c.JSON(http.StatusConflict, echo.Map{"error": "Version conflict"})
	}
	if err != nil {
		log.Error("Failed to write state", zap.String("key", key), zap.Error(err))
		prometheus.RecordOperation("put", key, "error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
	}

	prometheus.RecordOperation("put", key, "ok")
	prometheus.RecordDocumentSize(key, len(req.Data))
	log.Debug("State written", zap.String("key", key), zap.Int64("version", version))
	c.Response().Header().Set("ETag", etag(version))
	return c.JSON(http.StatusOK, PutResponse{Success: true, Version: version})
}

// Options answers CORS preflight requests
func (h *StateHandler) Options(c echo.Context) error {
	header := c.Response().Header()
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
	header.Set("Access-Control-Allow-Headers", "Content-Type, If-Match")
	return c.NoContent(http.StatusNoContent)
}

func (h *StateHandler) MethodNotAllowed(c echo.Context) error {
	c.Response().Header().Set("Allow", "GET, PUT, OPTIONS")
	return c.JSON(http.StatusMethodNotAllowed, echo.Map{"error": "Method not allowed"})
}

func etag(version int64) string {
	return strconv.Quote(strconv.FormatInt(version, 10))
}

// parseETag accepts `3`, `"3"` and `W/"3"`
func parseETag(v string) (int64, error) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "W/")
	return strconv.ParseInt(strings.Trim(v, `"`), 10, 64)
}
