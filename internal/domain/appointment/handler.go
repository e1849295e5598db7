package appointment

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/appointmentOptions", h.ListOptions)
	e.GET("/appointmentSpeciality", h.ListSpecialities)
	e.GET("/appointmentSpecialty", h.ListSpecialities)
}

func (h *Handler) ListOptions(c echo.Context) error {
	opts, err := h.svc.Availability(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, opts)
}

func (h *Handler) ListSpecialities(c echo.Context) error {
	items, err := h.svc.Specialities(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
