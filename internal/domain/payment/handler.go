package payment

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the payment endpoints. Listing payments is admin only.
func (h *Handler) RegisterRoutes(e *echo.Echo, token, admin echo.MiddlewareFunc) {
	e.POST("/create-payment-intent", h.CreateIntent)
	e.POST("/payments", h.Record)
	e.GET("/payments", h.ForBooking, token, admin)
}

func (h *Handler) CreateIntent(c echo.Context) error {
	var req IntentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payment intent body")
	}
	resp, err := h.svc.CreateIntent(c.Request().Context(), req.Price)
	if errors.Is(err, ErrInvalidPrice) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return echo.NewHTTPError(http.StatusBadGateway, pe.Message)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Record(c echo.Context) error {
	var rec Record
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payment body")
	}
	if err := Validate(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.svc.Record(c.Request().Context(), &rec)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ForBooking(c echo.Context) error {
	bookingID := c.QueryParam("bookingId")
	if bookingID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "bookingId is required")
	}
	items, err := h.svc.ForBooking(c.Request().Context(), bookingID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
