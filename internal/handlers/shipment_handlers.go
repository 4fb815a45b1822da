package handlers

import (
	"net/http"
	"strconv"

	"courierhub/internal/common"
	"courierhub/internal/services"

	"github.com/labstack/echo/v4"
)

// ShipmentHandlers handles HTTP requests for the shipment lifecycle.
type ShipmentHandlers struct {
	shipmentSvc services.ShipmentService
	labelSvc    services.LabelService
}

func NewShipmentHandlers(shipmentSvc services.ShipmentService, labelSvc services.LabelService) *ShipmentHandlers {
	return &ShipmentHandlers{
		shipmentSvc: shipmentSvc,
		labelSvc:    labelSvc,
	}
}

// CreateShipment handles POST /v1/shipments
func (h *ShipmentHandlers) CreateShipment(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return common.SendError(c, err)
	}

	var req services.CreateShipmentRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	shipment, err := h.shipmentSvc.Create(c.Request().Context(), tc, &req)
	if err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusCreated, shipment)
}

// GetShipment handles GET /v1/shipments/:trackingNumber
func (h *ShipmentHandlers) GetShipment(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return common.SendError(c, err)
	}

	shipment, err := h.shipmentSvc.GetByTracking(c.Request().Context(), tc, c.Param("trackingNumber"))
	if err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusOK, shipment)
}

// ListShipments handles GET /v1/shipments
func (h *ShipmentHandlers) ListShipments(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return common.SendError(c, err)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	shipments, err := h.shipmentSvc.List(c.Request().Context(), tc, limit, offset)
	if err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusOK, shipments)
}

// UpdateStatus handles PUT /v1/shipments/:trackingNumber/status
func (h *ShipmentHandlers) UpdateStatus(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return common.SendError(c, err)
	}

	var req services.RecordEventRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	shipment, err := h.shipmentSvc.RecordEvent(c.Request().Context(), tc, c.Param("trackingNumber"), &req)
	if err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusOK, shipment)
}

// ListEvents handles GET /v1/shipments/:trackingNumber/events
func (h *ShipmentHandlers) ListEvents(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return common.SendError(c, err)
	}

	events, err := h.shipmentSvc.ListEvents(c.Request().Context(), tc, c.Param("trackingNumber"))
	if err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusOK, events)
}

// GenerateLabel handles POST /v1/shipments/:trackingNumber/label
func (h *ShipmentHandlers) GenerateLabel(c echo.Context) error {
	tc, err := tenantContext(c)
	if err != nil {
		return common.SendError(c, err)
	}

	label, err := h.labelSvc.GenerateLabel(c.Request().Context(), tc, c.Param("trackingNumber"))
	if err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusCreated, label)
}

// PublicTracking handles GET /v1/track/:trackingNumber. It is whitelisted:
// no tenant resolution, no rate limiting, and the response never includes
// sender or receiver details.
func (h *ShipmentHandlers) PublicTracking(c echo.Context) error {
	projection, err := h.shipmentSvc.PublicTracking(c.Request().Context(), c.Param("trackingNumber"))
	if err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusOK, projection)
}
