package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type PaymentHandler struct {
	uc  *usecase.PaymentUsecase
	log *logrus.Logger
}

func NewPaymentHandler(uc *usecase.PaymentUsecase, log *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{uc: uc, log: log}
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/payments")
	g.Use(middleware.AuthJWT(cfg))
	g.POST("", h.create)
	g.GET("/order/:orderId", h.listForOrder)

	// Webhook is called by the gateway, not by a logged-in user.
	e.POST("/payments/webhook", h.webhook)
}

func (h *PaymentHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.CreatePaymentInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreatePayment(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *PaymentHandler) listForOrder(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid order id"})
	}

	out, err := h.uc.ListForOrder(c.Request().Context(), userID, getRoleFromContext(c), orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// webhook answers 200 on applied or idempotently skipped notifications and
// 400 when the signature does not verify.
func (h *PaymentHandler) webhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	var in usecase.WebhookInput
	if err := json.Unmarshal(body, &in); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	in.RawPayload = body

	if err := h.uc.HandleWebhook(c.Request().Context(), in); err != nil {
		h.log.WithError(err).WithField("transaction_id", in.OrderID).Warn("payment webhook failed")
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
