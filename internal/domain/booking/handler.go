package booking

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/doctorsportal/portal/internal/platform/auth"
	"github.com/doctorsportal/portal/internal/platform/db"
	"github.com/doctorsportal/portal/pkg/pagination"
)

// msgNotOwner rejects a caller asking for someone else's bookings. It keeps
// the trailing period clients already match on.
const msgNotOwner = "Forbidden Access."

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the booking endpoints. token verifies the caller;
// admin must run after it.
func (h *Handler) RegisterRoutes(e *echo.Echo, token, admin echo.MiddlewareFunc) {
	e.POST("/bookings", h.Create)
	e.GET("/booking/:id", h.Get)
	e.DELETE("/booking/:id", h.Delete)
	e.GET("/booking", h.ListMine, token)
	e.GET("/bookings", h.List, token, admin)
}

func (h *Handler) Create(c echo.Context) error {
	var b Booking
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking body")
	}
	if err := Validate(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	adm, err := h.svc.Admit(c.Request().Context(), &b)
	if errors.Is(err, db.ErrConflict) {
		return echo.NewHTTPError(http.StatusConflict, DuplicateMessage(b.AppointmentDate))
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adm)
}

// Get answers null for unknown ids rather than 404.
func (h *Handler) Get(c echo.Context) error {
	b, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) Delete(c echo.Context) error {
	res, err := h.svc.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// ListMine lists the caller's own bookings. The email query must match the
// token's email.
func (h *Handler) ListMine(c echo.Context) error {
	email := c.QueryParam("email")
	if email != auth.EmailFromContext(c.Request().Context()) {
		return echo.NewHTTPError(http.StatusForbidden, msgNotOwner)
	}

	items, err := h.svc.ListByEmail(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// EmptyPage answers a denied caller of List with a page of the same shape.
func EmptyPage(c echo.Context) error {
	return c.JSON(http.StatusOK, pagination.NewResponse([]*Booking{}, 0, pagination.FromContext(c)))
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}
