package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ShipmentHandler struct {
	uc  *usecase.ShipmentUsecase
	log *logrus.Logger
}

func NewShipmentHandler(uc *usecase.ShipmentUsecase, log *logrus.Logger) *ShipmentHandler {
	return &ShipmentHandler{uc: uc, log: log}
}

func (h *ShipmentHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/webhooks/biteship", h.webhook)
}

// webhook always answers 200. Unknown shipments and internal failures are
// logged; erroring back at the carrier only triggers its retry storm.
func (h *ShipmentHandler) webhook(c echo.Context) error {
	var in usecase.CarrierEventInput
	if err := c.Bind(&in); err != nil {
		h.log.WithError(err).Warn("carrier webhook with malformed body")
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}

	if err := h.uc.HandleCarrierEvent(c.Request().Context(), in); err != nil {
		h.log.WithError(err).WithField("carrier_order_id", in.CarrierOrderID).Error("carrier webhook failed")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
